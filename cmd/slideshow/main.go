// Command slideshow runs the carousel in a terminal. It reads commands from stdin:
// "click N", "resize WIDTH", "next", "prev" and "quit".
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"kashika/internal/carousel"
	"kashika/internal/config"
	"kashika/internal/logging"
	"kashika/internal/models"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

// terminalView prints every state change of the carousel.
type terminalView struct {
	mu  sync.Mutex
	out io.Writer
}

func (v *terminalView) SetOffset(vw int) {
	v.printf("offset translateX(%dvw)\n", vw)
}

func (v *terminalView) SetIndicatorActive(index int, active bool) {
	if active {
		v.printf("indicator %d active\n", index)
	}
}

func (v *terminalView) SetSlideSource(index int, src string) {
	v.printf("slide %d src=%s\n", index, src)
}

func (v *terminalView) printf(format string, args ...any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintf(v.out, format, args...)
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	fs := pflag.NewFlagSet("slideshow", pflag.ExitOnError)
	slidesPath := fs.String("slides", "configs/slides.yaml", "slides file")
	interval := fs.Duration("interval", models.DefaultIntervalMS*time.Millisecond, "auto-advance interval")
	width := fs.Int("width", 1024, "initial viewport width in px")
	breakpoint := fs.Int("breakpoint", models.DefaultBreakpointPx, "mobile breakpoint in px")
	configPath := fs.String("config", "", "service config; its carousel section overrides the flags above")
	_ = fs.Parse(os.Args[1:])

	base := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	logger := logging.Component(&base, "slideshow")

	if *configPath != "" {
		cfg, err := config.Read(*configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		*slidesPath = cfg.Carousel.SlidesPath
		*interval = time.Duration(cfg.Carousel.IntervalMillis) * time.Millisecond
		*breakpoint = cfg.Carousel.BreakpointPx
	}

	slides, err := carousel.LoadSlides(*slidesPath)
	if err != nil {
		return err
	}

	sched := carousel.NewCronScheduler(logger)
	defer sched.Stop()

	view := &terminalView{out: os.Stdout}
	controller, err := carousel.New(slides, view, sched, carousel.Options{
		Interval:     *interval,
		BreakpointPx: *breakpoint,
		Logger:       logger,
	})
	if err != nil {
		return err
	}
	controller.Start(*width)
	defer controller.Stop()

	logger.Info().Int("slides", controller.Len()).Dur("interval", *interval).Msg("slideshow started")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				<-ctx.Done()
				return nil
			}
			if quit := handleCommand(controller, line, logger); quit {
				return nil
			}
		}
	}
}

func handleCommand(c *carousel.Controller, line string, logger *zerolog.Logger) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	arg := func() (int, bool) {
		if len(fields) < 2 {
			logger.Warn().Str("command", fields[0]).Msg("missing argument")
			return 0, false
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			logger.Warn().Err(err).Str("command", fields[0]).Msg("invalid argument")
			return 0, false
		}
		return n, true
	}

	switch fields[0] {
	case "quit", "exit":
		return true
	case "next":
		c.Next()
	case "prev":
		c.ShowSlide(c.Current() - 1)
	case "click":
		if n, ok := arg(); ok && !c.ClickIndicator(n) {
			logger.Warn().Int("index", n).Msg("no such indicator")
		}
	case "resize":
		if n, ok := arg(); ok {
			c.Resize(n)
		}
	default:
		logger.Warn().Str("command", fields[0]).Msg("unknown command")
	}
	return false
}

// Command book submits one booking request from the terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"

	"kashika/internal/bookingform"
	"kashika/internal/models"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

// flagForm is the booking form backed by command-line flags.
type flagForm struct {
	mu      sync.Mutex
	values  map[string]string
	verbose bool
}

func (f *flagForm) Values() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

func (f *flagForm) SetSubmitEnabled(enabled bool) {
	if f.verbose && !enabled {
		fmt.Fprintln(os.Stderr, "Submitting...")
	}
}

func (f *flagForm) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = map[string]string{}
}

func main() {
	if !run() {
		os.Exit(1)
	}
}

func run() bool {
	fs := pflag.NewFlagSet("book", pflag.ExitOnError)
	endpoint := fs.String("url", "http://localhost:3000"+models.BookPackagePath, "booking endpoint")
	verbose := fs.BoolP("verbose", "v", false, "log request details")

	values := make(map[string]*string, len(models.BookingFields))
	for _, field := range models.BookingFields {
		values[field] = fs.String(field, "", "booking "+field)
	}
	_ = fs.Parse(os.Args[1:])

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	form := &flagForm{values: map[string]string{}, verbose: *verbose}
	for field, v := range values {
		form.values[field] = *v
	}

	notifier := bookingform.NotifierFunc(func(message string) {
		fmt.Println(message)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	controller := bookingform.New(*endpoint, form, notifier, bookingform.WithLogger(&logger))
	resp, err := controller.Submit(ctx)
	return err == nil && resp.Success
}

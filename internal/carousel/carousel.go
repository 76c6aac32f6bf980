// Package carousel drives a slideshow: a fixed set of slides, one indicator per slide,
// a recurring auto-advance timer and manual jumps from indicator clicks.
package carousel

import (
	"errors"
	"sync"
	"time"

	"kashika/internal/models"

	"github.com/rs/zerolog"
)

const (
	DefaultInterval   = models.DefaultIntervalMS * time.Millisecond
	DefaultBreakpoint = models.DefaultBreakpointPx
)

var ErrNoSlides = errors.New("carousel needs at least one slide")

// View is the rendering surface. Offsets are in viewport widths.
type View interface {
	SetOffset(vw int)
	SetIndicatorActive(index int, active bool)
	SetSlideSource(index int, src string)
}

// Scheduler runs fn every d until the returned cancel func is called.
type Scheduler interface {
	Every(d time.Duration, fn func()) (cancel func())
}

type Options struct {
	Interval     time.Duration
	BreakpointPx int
	Logger       *zerolog.Logger
}

// Controller owns the carousel state. All methods are safe for concurrent use; timer
// callbacks and clicks are serialized on the same lock.
type Controller struct {
	mu         sync.Mutex
	slides     []models.Slide
	sources    []string
	view       View
	sched      Scheduler
	interval   time.Duration
	breakpoint int
	logger     *zerolog.Logger

	current    int
	active     int
	cancel     func()
	generation uint64
}

// New builds the indicators (index 0 active) without starting the timer.
func New(slides []models.Slide, view View, sched Scheduler, opts Options) (*Controller, error) {
	if len(slides) == 0 {
		return nil, ErrNoSlides
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.BreakpointPx <= 0 {
		opts.BreakpointPx = DefaultBreakpoint
	}
	if opts.Logger == nil {
		nop := zerolog.Nop()
		opts.Logger = &nop
	}

	c := &Controller{
		slides:     make([]models.Slide, len(slides)),
		sources:    make([]string, len(slides)),
		view:       view,
		sched:      sched,
		interval:   opts.Interval,
		breakpoint: opts.BreakpointPx,
		logger:     opts.Logger,
	}
	for i, s := range slides {
		s.Index = i
		c.slides[i] = s
		c.sources[i] = s.Src
		view.SetIndicatorActive(i, i == 0)
	}
	return c, nil
}

// Normalize maps any target onto a slide index: negatives go to the last slide,
// anything past the end goes to the first.
func Normalize(target, n int) int {
	switch {
	case target < 0:
		return n - 1
	case target >= n:
		return 0
	default:
		return target
	}
}

// Start shows slide 0, applies the responsive image for width and starts auto-advance.
func (c *Controller) Start(width int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.show(0)
	c.applyWidth(width)
	c.restartTimer()
}

// Stop cancels the auto-advance timer.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTimer()
}

func (c *Controller) ShowSlide(target int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.show(target)
}

func (c *Controller) Next() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.show(c.current + 1)
}

// ClickIndicator jumps to index and restarts the timer from now. Indexes that do not
// name an indicator are ignored and reported as false.
func (c *Controller) ClickIndicator(index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.slides) {
		return false
	}

	c.stopTimer()
	c.show(index)
	c.restartTimer()
	return true
}

// Resize swaps the second slide between its mobile and original source.
func (c *Controller) Resize(width int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applyWidth(width)
}

func (c *Controller) Current() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Controller) Len() int { return len(c.slides) }

// SlideSource reports the image source currently shown for slide index.
func (c *Controller) SlideSource(index int) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.sources) {
		return ""
	}
	return c.sources[index]
}

func (c *Controller) show(target int) {
	idx := Normalize(target, len(c.slides))
	c.current = idx
	c.view.SetOffset(-100 * idx)
	if c.active != idx {
		c.view.SetIndicatorActive(c.active, false)
	}
	c.view.SetIndicatorActive(idx, true)
	c.active = idx
	c.logger.Debug().Int("slide", idx).Msg("show slide")
}

func (c *Controller) applyWidth(width int) {
	if len(c.slides) <= models.MobileSlideIndex {
		return
	}
	slide := c.slides[models.MobileSlideIndex]
	if slide.MobileSrc == "" {
		return
	}

	src := slide.Src
	if width <= c.breakpoint {
		src = slide.MobileSrc
	}
	c.sources[models.MobileSlideIndex] = src
	c.view.SetSlideSource(models.MobileSlideIndex, src)
}

func (c *Controller) restartTimer() {
	c.stopTimer()
	c.generation++
	gen := c.generation
	c.cancel = c.sched.Every(c.interval, func() { c.tick(gen) })
}

func (c *Controller) stopTimer() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.generation++
}

// tick drops callbacks from a timer that was replaced while the callback was in flight.
func (c *Controller) tick(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation || c.cancel == nil {
		return
	}
	c.show(c.current + 1)
}

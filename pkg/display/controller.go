// Package display drives the picture shown for the current minute: it asks the
// image source for candidates, picks one and crossfades it into a Renderer.
package display

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dixieflatline76/Chronophoto/pkg/clock"
	"github.com/dixieflatline76/Chronophoto/pkg/provider"
	"github.com/dixieflatline76/Chronophoto/util/log"
)

// DefaultFadeDelay lets the fade-out transition finish before the old image is removed.
const DefaultFadeDelay = time.Second

// DefaultLoadTimeout bounds how long a new image may take to load.
const DefaultLoadTimeout = 30 * time.Second

// CategoryPrefix is prepended to "HH:MM" to name the Commons category.
const CategoryPrefix = "Time "

// State is the controller's display state.
type State int

const (
	// StateInitial: the loader is showing and the region holds no image.
	StateInitial State = iota
	// StateSteady: an image is on screen or loading; new ones crossfade in.
	StateSteady
)

func (s State) String() string {
	switch s {
	case StateInitial:
		return "initial"
	case StateSteady:
		return "steady"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Options tune a Controller. Zero values use the defaults.
type Options struct {
	Clock       clock.Clock
	Scheduler   *clock.Scheduler
	Intn        func(n int) int
	Interval    time.Duration
	FadeDelay   time.Duration // negative means no delay
	LoadTimeout time.Duration
}

// Controller owns the refresh cycle and the display state machine.
type Controller struct {
	source   provider.ImageSource
	renderer Renderer

	clock       clock.Clock
	scheduler   *clock.Scheduler
	intn        func(n int) int
	interval    time.Duration
	fadeDelay   time.Duration
	loadTimeout time.Duration

	mu      sync.Mutex
	state   State
	loader  bool
	shown   ImageHandle
	current *provider.ImageInfo
	// slots holds every image element still in the region, oldest first.
	slots []slot

	pending sync.WaitGroup
}

type slot struct {
	handle ImageHandle
	info   provider.ImageInfo
}

// NewController creates a Controller drawing images from source into renderer.
func NewController(source provider.ImageSource, renderer Renderer, opts Options) *Controller {
	c := &Controller{
		source:      source,
		renderer:    renderer,
		clock:       opts.Clock,
		scheduler:   opts.Scheduler,
		intn:        opts.Intn,
		interval:    opts.Interval,
		fadeDelay:   opts.FadeDelay,
		loadTimeout: opts.LoadTimeout,
		loader:      true,
	}
	if c.clock == nil {
		c.clock = clock.SystemClock{}
	}
	if c.scheduler == nil {
		c.scheduler = &clock.Scheduler{Clock: c.clock}
	}
	if c.interval <= 0 {
		c.interval = clock.DefaultInterval
	}
	if c.fadeDelay == 0 {
		c.fadeDelay = DefaultFadeDelay
	}
	if c.fadeDelay < 0 {
		c.fadeDelay = 0
	}
	if c.loadTimeout <= 0 {
		c.loadTimeout = DefaultLoadTimeout
	}
	return c
}

// State returns the current display state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Current returns the most recently rendered image, if any.
func (c *Controller) Current() (provider.ImageInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return provider.ImageInfo{}, false
	}
	return *c.current, true
}

// Run performs one refresh immediately, then repeats on every interval boundary
// until ctx is cancelled. Failed cycles are logged and skipped.
func (c *Controller) Run(ctx context.Context) error {
	log.Printf("Display: starting, refreshing every %v", c.interval)

	c.runCycle(ctx)
	sched := c.scheduler.Repeat(ctx, c.runCycle, c.interval)

	<-ctx.Done()
	sched.Stop()
	c.Wait()
	log.Print("Display: stopped.")
	return nil
}

func (c *Controller) runCycle(ctx context.Context) {
	if err := c.RefreshCycle(ctx); err != nil {
		if errors.Is(err, provider.ErrEmptyResult) {
			log.Printf("Display: keeping current image: %v", err)
			return
		}
		log.Printf("Display: refresh failed: %v", err)
	}
}

// RefreshCycle picks a random image tagged with the current local time and starts
// rendering it. It returns once the image element exists; the crossfade completes
// in the background (see Wait).
func (c *Controller) RefreshCycle(ctx context.Context) error {
	category := CategoryPrefix + clock.LocalTime(c.clock)

	titles, err := c.source.QueryCategoryFiles(ctx, category)
	if err != nil {
		return fmt.Errorf("list %q: %w", category, err)
	}

	title, err := Pick(titles, c.intn)
	if err != nil {
		var empty *provider.EmptyResultError
		if errors.As(err, &empty) {
			empty.Category = category
		}
		return err
	}

	info, err := c.source.QueryImageInfo(ctx, title)
	if err != nil {
		return fmt.Errorf("image info %q: %w", title, err)
	}

	log.Debugf("Display: %s -> %s by %s", category, info.Name, info.User)
	return c.render(ctx, info)
}

// Wait blocks until every scheduled crossfade has finished.
func (c *Controller) Wait() {
	c.pending.Wait()
}

func (c *Controller) render(ctx context.Context, info provider.ImageInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	handle, err := c.renderer.AddImage(info)
	if err != nil {
		return fmt.Errorf("add image: %w", err)
	}

	c.slots = append(c.slots, slot{handle: handle, info: info})
	c.state = StateSteady
	c.shown = handle
	c.current = &info
	c.setLinks(info)

	c.pending.Add(1)
	go c.crossfade(ctx, handle)
	return nil
}

func (c *Controller) setLinks(info provider.ImageInfo) {
	c.renderer.SetFileLink(provider.FilePageURL(info.Name), info.Name)
	c.renderer.SetUserLink(provider.UserPageURL(info.User), provider.UserLabel(info.User))
}

// crossfade waits for handle to load, then swaps it in for every older element.
func (c *Controller) crossfade(ctx context.Context, handle ImageHandle) {
	defer c.pending.Done()

	timer := time.NewTimer(c.loadTimeout)
	defer timer.Stop()

	select {
	case <-handle.Loaded():
	case <-ctx.Done():
		return
	case <-timer.C:
		log.Printf("Display: image %s did not load within %v, discarding", handle.ID(), c.loadTimeout)
		handle.Remove()
		c.discard(handle)
		return
	}

	c.mu.Lock()
	older, ok := c.supersede(handle)
	if !ok {
		// A newer image already replaced this one.
		c.mu.Unlock()
		return
	}
	if c.loader {
		c.renderer.RemoveLoader()
		c.renderer.RevealInfo()
		c.loader = false
	}
	c.mu.Unlock()

	if len(older) == 0 {
		handle.Show()
		return
	}

	for _, h := range older {
		h.FadeOut()
	}
	select {
	case <-time.After(c.fadeDelay):
	case <-ctx.Done():
		return
	}
	for _, h := range older {
		h.Remove()
	}
	handle.Show()
}

// discard forgets a timed out element. If it was the latest one, the newest
// remaining element and its links take its place.
func (c *Controller) discard(handle ImageHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, s := range c.slots {
		if s.handle == handle {
			c.slots = append(c.slots[:i], c.slots[i+1:]...)
			break
		}
	}
	if c.shown != handle {
		return
	}
	if len(c.slots) == 0 {
		c.shown, c.current = nil, nil
		c.state = StateInitial
		return
	}
	last := c.slots[len(c.slots)-1]
	info := last.info
	c.shown, c.current = last.handle, &info
	c.setLinks(info)
}

// supersede drops and returns every element older than handle. ok is false
// when handle is no longer tracked.
func (c *Controller) supersede(handle ImageHandle) (older []ImageHandle, ok bool) {
	for i, s := range c.slots {
		if s.handle != handle {
			continue
		}
		for _, o := range c.slots[:i] {
			older = append(older, o.handle)
		}
		c.slots = append([]slot(nil), c.slots[i:]...)
		return older, true
	}
	return nil, false
}

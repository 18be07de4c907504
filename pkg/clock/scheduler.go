package clock

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval is used when a schedule is created with a non-positive interval.
const DefaultInterval = time.Minute

// AlignDelay returns how long to wait from now until the next multiple of interval
// since the Unix epoch. A time sitting exactly on a boundary waits a full interval.
func AlignDelay(now time.Time, interval time.Duration) time.Duration {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return interval - time.Duration(now.UnixNano()%int64(interval))
}

// Scheduler runs aligned repeating callbacks. The zero value uses the system
// clock and real timers.
type Scheduler struct {
	Clock Clock
	// After returns a channel that fires once d has elapsed. Defaults to time.After.
	After func(d time.Duration) <-chan time.Time
}

// Schedule is the handle of a running repetition.
type Schedule struct {
	cancel   context.CancelFunc
	done     chan struct{}
	inflight sync.WaitGroup
}

// Stop cancels the schedule and waits for the loop and any running callbacks to return.
func (s *Schedule) Stop() {
	s.cancel()
	<-s.done
	s.inflight.Wait()
}

// Done is closed once the schedule loop has exited.
func (s *Schedule) Done() <-chan struct{} {
	return s.done
}

// ScheduleRepeating runs callback on the system clock. See Scheduler.Repeat.
func ScheduleRepeating(ctx context.Context, callback func(context.Context), interval time.Duration) *Schedule {
	return (&Scheduler{}).Repeat(ctx, callback, interval)
}

// Repeat invokes callback at the first interval boundary after now, then every
// interval until ctx is cancelled or Stop is called. Each invocation runs in its
// own goroutine, so a slow callback may overlap the next one.
func (sc *Scheduler) Repeat(ctx context.Context, callback func(context.Context), interval time.Duration) *Schedule {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ctx, cancel := context.WithCancel(ctx)
	s := &Schedule{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(s.done)

		now := sc.now()
		next := now.Add(AlignDelay(now, interval))
		for {
			select {
			case <-ctx.Done():
				return
			case <-sc.after(next.Sub(now)):
			}

			s.inflight.Add(1)
			go func() {
				defer s.inflight.Done()
				callback(ctx)
			}()

			now = sc.now()
			next = next.Add(interval)
			if !next.After(now) {
				// Woke up late (suspend, clock jump): resume on the next boundary.
				next = now.Add(AlignDelay(now, interval))
			}
		}
	}()
	return s
}

func (sc *Scheduler) now() time.Time {
	if sc.Clock == nil {
		return time.Now()
	}
	return sc.Clock.Now()
}

func (sc *Scheduler) after(d time.Duration) <-chan time.Time {
	if sc.After == nil {
		return time.After(d)
	}
	return sc.After(d)
}

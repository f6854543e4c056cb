// Package scheduler runs delayed, fire-and-forget tasks. Tasks live in
// process memory only: there is no handle, no cancellation, and any
// task still waiting when the process exits is dropped.
package scheduler

import (
	"time"

	"github.com/benbjohnson/clock"
)

type Scheduler struct {
	clock clock.Clock
}

func New() *Scheduler {
	return &Scheduler{clock: clock.New()}
}

// NewWithClock lets tests drive the scheduler with a mock clock
// instead of waiting in real time.
func NewWithClock(clk clock.Clock) *Scheduler {
	return &Scheduler{clock: clk}
}

// After runs fn once the delay has elapsed. The timer is registered
// before After returns; fn runs on its own goroutine.
func (s *Scheduler) After(delay time.Duration, fn func()) {
	t := s.clock.Timer(delay)
	go func() {
		<-t.C
		fn()
	}()
}

// Schedule runs fn at the given time. A time in the past runs
// immediately.
func (s *Scheduler) Schedule(runAt time.Time, fn func()) {
	delay := runAt.Sub(s.clock.Now())
	if delay < 0 {
		delay = 0
	}
	s.After(delay, fn)
}

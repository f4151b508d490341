// Package scheduler provides the single-slot proactive refresh timer.
//
// At most one timer is outstanding per Scheduler. Arming replaces and cancels
// any previous timer, which prevents stacked timers from triggering duplicate
// concurrent refresh attempts. A generation counter guards against a stale
// fire racing a re-arm or cancel.
package scheduler

import (
	"sync"
	"time"
)

// DefaultFloor is the minimum delay a timer may be armed with. Sub-second
// delays collapse to it so a nearly-expired token still gets one scheduling
// tick instead of a hot loop.
const DefaultFloor = time.Second

// Scheduler owns one cancellable deferred callback.
type Scheduler struct {
	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
	delay time.Duration
	armed bool
	floor time.Duration
}

// New returns a Scheduler with the default delay floor.
func New() *Scheduler {
	return &Scheduler{floor: DefaultFloor}
}

// Arm schedules fn to run after delay, cancelling any previously armed timer.
// Delays below the floor are raised to it.
func (s *Scheduler) Arm(delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	gen := s.gen

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	if delay < s.floor {
		delay = s.floor
	}
	s.delay = delay
	s.armed = true

	s.timer = time.AfterFunc(delay, func() {
		s.mu.Lock()
		if s.gen != gen {
			s.mu.Unlock()
			return
		}
		s.timer = nil
		s.armed = false
		s.mu.Unlock()

		fn()
	})
}

// Cancel stops the pending timer, if any. Safe to call when nothing is armed.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.armed = false
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Pending reports whether a timer is armed and the delay it was armed with.
func (s *Scheduler) Pending() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.armed {
		return 0, false
	}
	return s.delay, true
}

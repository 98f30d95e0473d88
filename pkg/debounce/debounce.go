// Package debounce delays an action until a quiet period with no further
// triggers has elapsed, collapsing bursts into one effect.
//
// The scheduler is a task queue of depth one: arming cancels any pending
// armed task before scheduling the new one. Its states are
// unarmed → armed(timer) → firing.
package debounce

import (
	"sync"
	"time"
)

// Scheduler debounces function calls with a fixed quiet period.
type Scheduler struct {
	quiet time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// New creates a Scheduler with the given quiet period.
func New(quiet time.Duration) *Scheduler {
	return &Scheduler{quiet: quiet}
}

// Trigger arms fn to run after the quiet period. A pending task from an
// earlier Trigger is cancelled first, so only the last task of a burst fires.
// fn runs on the timer goroutine.
func (s *Scheduler) Trigger(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.quiet, fn)
}

// Cancel drops the pending task, if any.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Stop cancels the pending task and rejects further triggers.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

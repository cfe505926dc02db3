package signup

import (
	"sync"
	"time"
)

// manualScheduler dispara los callbacks sólo cuando el test lo pide.
type manualScheduler struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{d: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

// pending cuenta timers ni disparados ni cancelados.
func (s *manualScheduler) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// fireAll dispara los timers vigentes.
func (s *manualScheduler) fireAll() {
	s.mu.Lock()
	var due []*manualTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()
	for _, t := range due {
		t.f()
	}
}

// fireStale invoca también callbacks de timers cancelados, como haría un
// time.AfterFunc que ya estaba en vuelo cuando se llamó a Stop.
func (s *manualScheduler) fireStale() {
	s.mu.Lock()
	var all []*manualTimer
	all = append(all, s.timers...)
	s.mu.Unlock()
	for _, t := range all {
		if t.stopped {
			t.f()
		}
	}
}

package clock

import (
	"sort"
	"sync"
	"time"
)

// TimeProvider abstracts the current time so deferred callbacks can be tested
type TimeProvider interface {
	Now() time.Time
}

// SystemTime provides the real system time with monotonic clock readings
type SystemTime struct{}

// Now returns the current wall clock time
func (SystemTime) Now() time.Time {
	return time.Now()
}

// MockTime provides a controllable time source for testing
type MockTime struct {
	mu          sync.RWMutex
	currentTime time.Time
}

// NewMockTime creates a new mock time provider with the given start time
func NewMockTime(start time.Time) *MockTime {
	return &MockTime{currentTime: start}
}

// Now returns the current mocked time
func (m *MockTime) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentTime
}

// Set sets the current time for the mock
func (m *MockTime) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = t
}

// Advance moves the mocked time forward by d
func (m *MockTime) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = m.currentTime.Add(d)
}

// Scheduler holds one-shot callbacks that fire when their deadline has
// passed and the owner calls RunDue. Callbacks therefore always run on the
// owner's goroutine; the Scheduler itself is not safe for concurrent use.
type Scheduler struct {
	now    TimeProvider
	timers []*Timer
	seq    uint64
}

// NewScheduler creates a scheduler reading time from tp (SystemTime if nil)
func NewScheduler(tp TimeProvider) *Scheduler {
	if tp == nil {
		tp = SystemTime{}
	}
	return &Scheduler{now: tp}
}

// Now returns the scheduler's current time
func (s *Scheduler) Now() time.Time {
	return s.now.Now()
}

// AfterFunc arranges for fn to run on the first RunDue at or after d from now
func (s *Scheduler) AfterFunc(d time.Duration, fn func()) *Timer {
	s.seq++
	t := &Timer{
		sched:    s,
		seq:      s.seq,
		deadline: s.now.Now().Add(d),
		fn:       fn,
	}
	s.timers = append(s.timers, t)
	return t
}

// RunDue fires every pending timer whose deadline has been reached, in
// deadline order, and returns how many fired. Timers scheduled by a
// callback are not considered until the next call.
func (s *Scheduler) RunDue() int {
	if len(s.timers) == 0 {
		return 0
	}
	now := s.now.Now()

	var due, pending []*Timer
	for _, t := range s.timers {
		if !t.deadline.After(now) {
			due = append(due, t)
		} else {
			pending = append(pending, t)
		}
	}
	if len(due) == 0 {
		return 0
	}
	s.timers = pending

	sort.Slice(due, func(i, j int) bool {
		if due[i].deadline.Equal(due[j].deadline) {
			return due[i].seq < due[j].seq
		}
		return due[i].deadline.Before(due[j].deadline)
	})

	fired := 0
	for _, t := range due {
		// an earlier callback in this batch may have stopped it
		if t.done {
			continue
		}
		t.done = true
		t.fn()
		fired++
	}
	return fired
}

// Pending returns the number of timers that have neither fired nor been stopped
func (s *Scheduler) Pending() int {
	return len(s.timers)
}

// StopAll cancels every pending timer
func (s *Scheduler) StopAll() {
	for _, t := range s.timers {
		t.done = true
	}
	s.timers = nil
}

func (s *Scheduler) remove(t *Timer) {
	for i, other := range s.timers {
		if other == t {
			s.timers = append(s.timers[:i], s.timers[i+1:]...)
			return
		}
	}
}

// Timer is a cancelable handle to a scheduled callback
type Timer struct {
	sched    *Scheduler
	seq      uint64
	deadline time.Time
	fn       func()
	done     bool
}

// Stop cancels the timer. It returns false if the timer already fired or was stopped.
func (t *Timer) Stop() bool {
	if t == nil || t.done {
		return false
	}
	t.done = true
	t.sched.remove(t)
	return true
}

// Active reports whether the timer is still waiting to fire
func (t *Timer) Active() bool {
	return t != nil && !t.done
}

// Deadline returns when the timer becomes due
func (t *Timer) Deadline() time.Time {
	return t.deadline
}

// Remaining returns the time left before the deadline, zero once due or inactive
func (t *Timer) Remaining() time.Duration {
	if !t.Active() {
		return 0
	}
	left := t.deadline.Sub(t.sched.now.Now())
	if left < 0 {
		return 0
	}
	return left
}

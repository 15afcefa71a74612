package clock

import (
	"sync"
	"time"
)

// Stopwatch is a free-running, rate-adjustable Source backed by the
// wall clock. It stands in when no real playback source exists so the
// chain always has a valid source to pull from.
//
// Thread-safe: Reset may be called off the frame loop.
type Stopwatch struct {
	mu        sync.RWMutex
	tp        TimeProvider
	running   bool
	rate      float64
	base      float64   // time at reference, ms
	reference time.Time // wall instant base was taken
}

// NewStopwatch creates a stopped Stopwatch at time zero. A nil
// TimeProvider defaults to the system clock.
func NewStopwatch(tp TimeProvider) *Stopwatch {
	if tp == nil {
		tp = SystemTime{}
	}
	return &Stopwatch{tp: tp, rate: 1}
}

func (s *Stopwatch) CurrentTime() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentLocked()
}

// currentLocked must be called with the lock held.
func (s *Stopwatch) currentLocked() float64 {
	if !s.running {
		return s.base
	}
	elapsed := s.tp.Now().Sub(s.reference)
	return s.base + float64(elapsed)/float64(time.Millisecond)*s.rate
}

func (s *Stopwatch) Rate() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rate
}

// SetRate rebases the stopwatch so the rate change applies from now,
// not retroactively.
func (s *Stopwatch) SetRate(rate float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rebaseLocked()
	s.rate = rate
}

func (s *Stopwatch) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

func (s *Stopwatch) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.reference = s.tp.Now()
	s.running = true
}

func (s *Stopwatch) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.base = s.currentLocked()
	s.running = false
}

func (s *Stopwatch) Seek(t float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base = t
	s.reference = s.tp.Now()
	return true
}

// Reset stops the stopwatch and returns it to zero.
func (s *Stopwatch) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.base = 0
	s.reference = s.tp.Now()
}

func (s *Stopwatch) ResetSpeedAdjustments() {
	s.SetRate(1)
}

// rebaseLocked folds elapsed time into base so subsequent reads use
// the new reference. Must be called with the lock held.
func (s *Stopwatch) rebaseLocked() {
	s.base = s.currentLocked()
	s.reference = s.tp.Now()
}

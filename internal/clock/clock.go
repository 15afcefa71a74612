package clock

import "time"

// Clock is a read-only time source. All times are in milliseconds;
// negative values are valid and occur during lead-in.
type Clock interface {
	// CurrentTime returns the current time in milliseconds.
	CurrentTime() float64
	// Rate returns the rate time passes at, relative to real time.
	Rate() float64
	// IsRunning reports whether the clock is advancing.
	IsRunning() bool
}

// FrameClock is a Clock advanced once per frame by ProcessFrame.
// Between ProcessFrame calls all reads return the same value, so every
// consumer within a frame observes a consistent time.
type FrameClock interface {
	Clock
	// ProcessFrame advances the clock by one frame.
	ProcessFrame()
	// ElapsedFrameTime returns how far time moved in the last frame,
	// in milliseconds (already rate-scaled).
	ElapsedFrameTime() float64
}

// Source is an adjustable clock backing the chain, typically a media
// playback position. Implementations must be safe for concurrent use:
// Reset is allowed to run off the frame loop (see Restart).
type Source interface {
	Clock
	// SetRate sets the raw playback rate.
	SetRate(rate float64)
	Start()
	Stop()
	// Seek moves the source to the given time. Returns false if the
	// source could not seek; callers treat this as best-effort.
	Seek(time float64) bool
	// Reset stops the source and returns it to time zero. May block
	// while an underlying device reinitializes.
	Reset()
	// ResetSpeedAdjustments clears rate and tempo back to 1.0.
	ResetSpeedAdjustments()
}

// TempoAdjustable marks sources whose rate can be changed without
// shifting pitch. Distinct from Source.SetRate, which scales playback
// directly.
type TempoAdjustable interface {
	// TempoAdjust returns the current tempo multiplier.
	TempoAdjust() float64
	// SetTempoAdjust sets the tempo multiplier, preserving pitch.
	SetTempoAdjust(tempo float64)
}

// TimeProvider abstracts the wall clock driving interpolation, so
// frame-delta arithmetic is testable without sleeping.
type TimeProvider interface {
	Now() time.Time
}

// SystemTime is the real monotonic wall clock.
type SystemTime struct{}

func (SystemTime) Now() time.Time {
	return time.Now()
}

// StepTime is a TimeProvider advanced by hand, for deterministic tests.
type StepTime struct {
	current time.Time
}

// NewStepTime creates a StepTime starting at the given instant.
func NewStepTime(start time.Time) *StepTime {
	return &StepTime{current: start}
}

func (s *StepTime) Now() time.Time {
	return s.current
}

// Advance moves the provider forward by d.
func (s *StepTime) Advance(d time.Duration) {
	s.current = s.current.Add(d)
}

package gameplay

import (
	"github.com/velvetkeys/cadence/internal/bindable"
	"github.com/velvetkeys/cadence/internal/clock"
)

// Clock is the read-only time facade every downstream consumer
// observes. Reads are only meaningful after the owning container's
// per-frame update has run for the current frame.
type Clock struct {
	underlying clock.FrameClock
	isPaused   *bindable.Bindable[bool]
}

// CurrentTime returns gameplay time in milliseconds, with platform and
// user offsets applied.
func (c *Clock) CurrentTime() float64 {
	return c.underlying.CurrentTime()
}

// Rate mirrors the effective source playback rate.
func (c *Clock) Rate() float64 {
	return c.underlying.Rate()
}

// IsPaused reports the container's pause state.
func (c *Clock) IsPaused() bool {
	return c.isPaused.Value()
}

// OnPauseChange registers a listener for pause-state changes.
func (c *Clock) OnPauseChange(fn func(bool), runNow bool) {
	c.isPaused.OnChange(fn, runNow)
}

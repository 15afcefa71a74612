package loop

import (
	"context"
	"time"
)

// Loop is a cooperative fixed-frequency frame loop. Every tick it runs
// the frame function, then any registered callbacks, all on one
// goroutine — this goroutine is "the frame thread" for everything the
// loop drives.
type Loop struct {
	interval  time.Duration
	callbacks []func()
}

// New creates a Loop ticking at the given frequency. Non-positive hz
// defaults to 60.
func New(hz int) *Loop {
	if hz <= 0 {
		hz = 60
	}
	return &Loop{interval: time.Second / time.Duration(hz)}
}

// OnFrame registers a callback run after the frame function each tick.
// Must be called before Run.
func (l *Loop) OnFrame(fn func()) {
	l.callbacks = append(l.callbacks, fn)
}

// Run drives frame until ctx is cancelled. Returns nil on cancellation.
func (l *Loop) Run(ctx context.Context, frame func()) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			frame()
			for _, fn := range l.callbacks {
				fn()
			}
		}
	}
}

package clock

import (
	"fmt"
	"log"
	"math"
	"time"
)

// DefaultAllowableError is how far (ms) the source may disagree with
// the interpolated time before its value is ignored for the frame.
// Two frames at 60 fps.
const DefaultAllowableError = 1000.0 / 60 * 2

// Decoupled tracks a Source but can advance independently of it.
// While running, if the source is stopped, stalled or failing, time
// continues via frame-delta interpolation; when the source is healthy
// and close to the interpolated value, the source value wins.
//
// Starting or stopping a Decoupled never starts or stops its source —
// propagating play state is the owner's decision.
//
// Not thread-safe: everything except the source's own internals runs
// on the frame loop.
type Decoupled struct {
	source Source
	tp     TimeProvider

	// ErrorHandler receives non-fatal source failures. Defaults to
	// logging; never nil after NewDecoupled.
	ErrorHandler func(error)

	// AllowableError overrides DefaultAllowableError when positive.
	AllowableError float64

	running        bool
	currentTime    float64
	rate           float64
	lastSourceTime float64
	elapsedFrame   float64
	lastFrameAt    time.Time
}

// NewDecoupled creates a stopped Decoupled clock at time zero. A nil
// source is substituted with a free-running Stopwatch so the chain
// always has something to pull from. A nil TimeProvider defaults to
// the system clock.
func NewDecoupled(source Source, tp TimeProvider) *Decoupled {
	if tp == nil {
		tp = SystemTime{}
	}
	if source == nil {
		source = NewStopwatch(tp)
	}
	d := &Decoupled{
		source: source,
		tp:     tp,
		rate:   1,
		ErrorHandler: func(err error) {
			log.Printf("decoupled clock: %v", err)
		},
	}
	d.lastFrameAt = tp.Now()
	if t, r, _, ok := d.readSource(); ok {
		d.lastSourceTime = t
		d.rate = r
	}
	return d
}

func (d *Decoupled) CurrentTime() float64 { return d.currentTime }

func (d *Decoupled) Rate() float64 { return d.rate }

func (d *Decoupled) IsRunning() bool { return d.running }

func (d *Decoupled) ElapsedFrameTime() float64 { return d.elapsedFrame }

// Source returns the source currently backing interpolation.
func (d *Decoupled) Source() Source { return d.source }

// Start begins advancing time. Interpolation takes over immediately,
// so a source that is still spinning up causes no visible stall.
func (d *Decoupled) Start() {
	if d.running {
		return
	}
	d.running = true
	d.lastFrameAt = d.tp.Now()
}

// Stop freezes time at its current value.
func (d *Decoupled) Stop() {
	d.running = false
}

// Seek moves to the given time and best-effort seeks the source to
// match, so the source is consistent if it resumes driving time. A
// failed or panicking source seek leaves the in-memory time
// authoritative.
func (d *Decoupled) Seek(t float64) bool {
	d.currentTime = t
	d.elapsedFrame = 0
	d.lastFrameAt = d.tp.Now()
	d.seekSource(t)
	if st, r, _, ok := d.readSource(); ok {
		d.lastSourceTime = st
		d.rate = r
	}
	return true
}

// ChangeSource swaps the backing source. The new source is seeked to
// the current time so interpolation and source agree at the handover
// point. Must be called on the frame loop, never concurrently with
// ProcessFrame.
func (d *Decoupled) ChangeSource(source Source) {
	if source == nil {
		source = NewStopwatch(d.tp)
	}
	d.source = source
	d.seekSource(d.currentTime)
	if t, r, _, ok := d.readSource(); ok {
		d.lastSourceTime = t
		d.rate = r
	}
}

// ProcessFrame advances by the wall time since the last frame, scaled
// by rate, then resynchronizes to the source if it is running,
// advancing and within AllowableError of the interpolated value. Time
// never moves backward except through Seek.
func (d *Decoupled) ProcessFrame() {
	now := d.tp.Now()
	elapsed := float64(now.Sub(d.lastFrameAt)) / float64(time.Millisecond)
	d.lastFrameAt = now

	if !d.running {
		d.elapsedFrame = 0
		return
	}

	prev := d.currentTime
	target := prev + elapsed*d.rate

	if st, r, srcRunning, ok := d.readSource(); ok {
		d.rate = r
		advanced := st != d.lastSourceTime
		d.lastSourceTime = st
		if srcRunning && advanced && math.Abs(st-target) <= d.allowableError() {
			target = st
		}
	}

	if target < prev {
		target = prev
	}
	d.currentTime = target
	d.elapsedFrame = target - prev
}

func (d *Decoupled) allowableError() float64 {
	if d.AllowableError > 0 {
		return d.AllowableError
	}
	return DefaultAllowableError
}

// RefreshRate re-reads the source's effective rate immediately,
// without waiting for the next frame. Owners call this after applying
// rate or tempo adjustments.
func (d *Decoupled) RefreshRate() {
	if _, r, _, ok := d.readSource(); ok {
		d.rate = r
	}
}

// readSource reads the source's state, converting a panic into a
// non-fatal reported error. A failing source degrades the clock to
// pure interpolation; it never halts frame processing. The returned
// rate is the effective one: raw rate times tempo where the source
// supports tempo adjustment.
func (d *Decoupled) readSource() (t, rate float64, running, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			d.ErrorHandler(fmt.Errorf("source read failed: %v", r))
			ok = false
		}
	}()
	if d.source == nil {
		return 0, 0, false, false
	}
	rate = d.source.Rate()
	if ta, isTempo := d.source.(TempoAdjustable); isTempo {
		rate *= ta.TempoAdjust()
	}
	return d.source.CurrentTime(), rate, d.source.IsRunning(), true
}

func (d *Decoupled) seekSource(t float64) {
	defer func() {
		if r := recover(); r != nil {
			d.ErrorHandler(fmt.Errorf("source seek failed: %v", r))
		}
	}()
	if d.source == nil {
		return
	}
	if !d.source.Seek(t) {
		d.ErrorHandler(fmt.Errorf("source refused seek to %.1fms", t))
	}
}

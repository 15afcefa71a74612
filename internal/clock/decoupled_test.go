package clock

import (
	"strings"
	"testing"
	"time"
)

// faultySource panics on every operation, standing in for a media
// device that has gone away.
type faultySource struct{}

func (faultySource) CurrentTime() float64 { panic("device lost") }

func (faultySource) Rate() float64 { panic("device lost") }

func (faultySource) SetRate(float64) { panic("device lost") }

func (faultySource) IsRunning() bool { panic("device lost") }

func (faultySource) Start() { panic("device lost") }

func (faultySource) Stop() { panic("device lost") }

func (faultySource) Seek(float64) bool { panic("device lost") }

func (faultySource) Reset() { panic("device lost") }

func (faultySource) ResetSpeedAdjustments() { panic("device lost") }

func newTestDecoupled(src Source) (*Decoupled, *StepTime) {
	st := NewStepTime(epoch)
	d := NewDecoupled(src, st)
	d.ErrorHandler = func(error) {}
	return d, st
}

func TestDecoupled_InterpolatesWhileSourceStopped(t *testing.T) {
	m := NewManual() // never started
	d, st := newTestDecoupled(m)

	d.Start()
	st.Advance(100 * time.Millisecond)
	d.ProcessFrame()

	if got := d.CurrentTime(); got != 100 {
		t.Errorf("CurrentTime() = %g, want 100 (interpolated)", got)
	}
	if got := d.ElapsedFrameTime(); got != 100 {
		t.Errorf("ElapsedFrameTime() = %g, want 100", got)
	}
}

func TestDecoupled_ResyncsToHealthySource(t *testing.T) {
	m := NewManual()
	m.Start()
	d, st := newTestDecoupled(m)

	d.Start()
	st.Advance(100 * time.Millisecond)
	m.Set(105) // within allowable error of the interpolated 100
	d.ProcessFrame()

	if got := d.CurrentTime(); got != 105 {
		t.Errorf("CurrentTime() = %g, want 105 (source value)", got)
	}
}

func TestDecoupled_IgnoresSourceBeyondTolerance(t *testing.T) {
	m := NewManual()
	m.Start()
	d, st := newTestDecoupled(m)

	d.Start()
	st.Advance(100 * time.Millisecond)
	m.Set(5000) // way off; keep interpolating
	d.ProcessFrame()

	if got := d.CurrentTime(); got != 100 {
		t.Errorf("CurrentTime() = %g, want 100 (interpolated)", got)
	}
}

func TestDecoupled_InterpolatesWhileSourceStalled(t *testing.T) {
	m := NewManual()
	m.Start()
	d, st := newTestDecoupled(m)

	d.Start()
	st.Advance(50 * time.Millisecond)
	m.Set(50)
	d.ProcessFrame() // resyncs to 50

	// Source stops advancing; interpolation carries on.
	st.Advance(50 * time.Millisecond)
	d.ProcessFrame()

	if got := d.CurrentTime(); got != 100 {
		t.Errorf("CurrentTime() during stall = %g, want 100", got)
	}
}

func TestDecoupled_NeverMovesBackward(t *testing.T) {
	m := NewManual()
	m.Start()
	d, st := newTestDecoupled(m)

	d.Start()
	st.Advance(100 * time.Millisecond)
	m.Set(100)
	d.ProcessFrame()

	// Source jitters backward within tolerance; time must hold.
	m.Set(95)
	d.ProcessFrame()

	if got := d.CurrentTime(); got < 100 {
		t.Errorf("CurrentTime() = %g, moved backward past 100", got)
	}
}

func TestDecoupled_SeekIsAuthoritative(t *testing.T) {
	m := NewManual()
	d, _ := newTestDecoupled(m)

	d.Seek(-1022)

	if got := d.CurrentTime(); got != -1022 {
		t.Errorf("CurrentTime() after seek = %g, want -1022", got)
	}
	if got := m.CurrentTime(); got != -1022 {
		t.Errorf("source time after seek = %g, want -1022", got)
	}
}

func TestDecoupled_SeekSurvivesSourceRefusal(t *testing.T) {
	m := NewManual()
	m.SeekResult = false
	d, _ := newTestDecoupled(m)

	var reported error
	d.ErrorHandler = func(err error) { reported = err }

	d.Seek(500)

	if got := d.CurrentTime(); got != 500 {
		t.Errorf("CurrentTime() = %g, want 500 despite source refusal", got)
	}
	if reported == nil {
		t.Error("refused source seek was not reported")
	} else if !strings.Contains(reported.Error(), "seek") {
		t.Errorf("reported error %q does not mention seek", reported)
	}
}

func TestDecoupled_PanickingSourceDegrades(t *testing.T) {
	d, st := newTestDecoupled(faultySource{})

	errors := 0
	d.ErrorHandler = func(error) { errors++ }

	d.Start()
	st.Advance(100 * time.Millisecond)
	d.ProcessFrame() // must not panic

	if got := d.CurrentTime(); got != 100 {
		t.Errorf("CurrentTime() = %g, want 100 (pure interpolation)", got)
	}
	if errors == 0 {
		t.Error("source failure was not surfaced")
	}
}

func TestDecoupled_ChangeSource(t *testing.T) {
	first := NewManual()
	d, st := newTestDecoupled(first)

	d.Start()
	st.Advance(200 * time.Millisecond)
	d.ProcessFrame()

	second := NewManual()
	d.ChangeSource(second)

	if d.Source() != Source(second) {
		t.Error("ChangeSource did not swap the source")
	}
	if got := second.CurrentTime(); got != d.CurrentTime() {
		t.Errorf("new source at %g, want %g (seeked to current time)", got, d.CurrentTime())
	}
}

func TestDecoupled_ChangeSourceNilFallsBack(t *testing.T) {
	d, _ := newTestDecoupled(NewManual())
	d.ChangeSource(nil)

	if d.Source() == nil {
		t.Fatal("nil source was not substituted")
	}
	if _, ok := d.Source().(*Stopwatch); !ok {
		t.Errorf("fallback source is %T, want *Stopwatch", d.Source())
	}
}

func TestDecoupled_StopFreezesTime(t *testing.T) {
	d, st := newTestDecoupled(NewManual())

	d.Start()
	st.Advance(100 * time.Millisecond)
	d.ProcessFrame()
	d.Stop()

	st.Advance(time.Hour)
	d.ProcessFrame()

	if got := d.CurrentTime(); got != 100 {
		t.Errorf("CurrentTime() after stop = %g, want 100", got)
	}
	if got := d.ElapsedFrameTime(); got != 0 {
		t.Errorf("ElapsedFrameTime() while stopped = %g, want 0", got)
	}
}

func TestDecoupled_StartAfterIdleDoesNotJump(t *testing.T) {
	d, st := newTestDecoupled(NewManual())

	st.Advance(time.Hour) // time passes while stopped
	d.Start()
	st.Advance(10 * time.Millisecond)
	d.ProcessFrame()

	if got := d.CurrentTime(); got != 10 {
		t.Errorf("CurrentTime() = %g, want 10 (idle time must not count)", got)
	}
}

func TestDecoupled_NilSourceFallsBackToStopwatch(t *testing.T) {
	d := NewDecoupled(nil, NewStepTime(epoch))
	if d.Source() == nil {
		t.Fatal("nil source was not substituted")
	}
}

package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestStopwatch_StartsStopped(t *testing.T) {
	sw := NewStopwatch(NewStepTime(epoch))

	if sw.IsRunning() {
		t.Error("new stopwatch should not be running")
	}
	if got := sw.CurrentTime(); got != 0 {
		t.Errorf("CurrentTime() = %g, want 0", got)
	}
}

func TestStopwatch_Advances(t *testing.T) {
	st := NewStepTime(epoch)
	sw := NewStopwatch(st)

	sw.Start()
	st.Advance(500 * time.Millisecond)

	if got := sw.CurrentTime(); got != 500 {
		t.Errorf("CurrentTime() = %g, want 500", got)
	}
}

func TestStopwatch_StopFreezes(t *testing.T) {
	st := NewStepTime(epoch)
	sw := NewStopwatch(st)

	sw.Start()
	st.Advance(200 * time.Millisecond)
	sw.Stop()
	st.Advance(time.Hour)

	if got := sw.CurrentTime(); got != 200 {
		t.Errorf("CurrentTime() after stop = %g, want 200", got)
	}
}

func TestStopwatch_RateScalesElapsed(t *testing.T) {
	st := NewStepTime(epoch)
	sw := NewStopwatch(st)

	sw.SetRate(2.0)
	sw.Start()
	st.Advance(time.Second)

	if got := sw.CurrentTime(); got != 2000 {
		t.Errorf("CurrentTime() at 2x = %g, want 2000", got)
	}
}

func TestStopwatch_RateChangeNotRetroactive(t *testing.T) {
	st := NewStepTime(epoch)
	sw := NewStopwatch(st)

	sw.Start()
	st.Advance(time.Second) // 1000ms at 1x
	sw.SetRate(2.0)
	st.Advance(time.Second) // 2000ms at 2x

	if got := sw.CurrentTime(); got != 3000 {
		t.Errorf("CurrentTime() = %g, want 3000", got)
	}
}

func TestStopwatch_Seek(t *testing.T) {
	st := NewStepTime(epoch)
	sw := NewStopwatch(st)

	if !sw.Seek(-1022) {
		t.Fatal("Seek returned false")
	}
	if got := sw.CurrentTime(); got != -1022 {
		t.Errorf("CurrentTime() after seek = %g, want -1022", got)
	}

	sw.Start()
	st.Advance(22 * time.Millisecond)
	if got := sw.CurrentTime(); got != -1000 {
		t.Errorf("CurrentTime() = %g, want -1000", got)
	}
}

func TestStopwatch_Reset(t *testing.T) {
	st := NewStepTime(epoch)
	sw := NewStopwatch(st)

	sw.Start()
	st.Advance(time.Second)
	sw.Reset()

	if sw.IsRunning() {
		t.Error("stopwatch should be stopped after Reset")
	}
	if got := sw.CurrentTime(); got != 0 {
		t.Errorf("CurrentTime() after Reset = %g, want 0", got)
	}
}

func TestStopwatch_ResetSpeedAdjustments(t *testing.T) {
	sw := NewStopwatch(NewStepTime(epoch))

	sw.SetRate(1.7)
	sw.ResetSpeedAdjustments()

	if got := sw.Rate(); got != 1.0 {
		t.Errorf("Rate() after ResetSpeedAdjustments = %g, want 1.0", got)
	}
}

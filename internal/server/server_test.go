package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/velvetkeys/cadence/internal/clock"
	"github.com/velvetkeys/cadence/internal/gameplay"
)

// startFrameLoop drives the container's ProcessFrame in the background
// so scheduler-marshaled handler work gets executed, and stops it on
// test cleanup.
func startFrameLoop(t *testing.T, c *gameplay.Container) {
	t.Helper()
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-stop:
				return
			default:
				c.ProcessFrame()
				time.Sleep(time.Millisecond)
			}
		}
	}()
	t.Cleanup(func() {
		close(stop)
		<-done
	})
}

func newTestServer(t *testing.T) (*Server, *gameplay.Container) {
	t.Helper()
	platform := 22.0
	c := gameplay.NewContainer(clock.NewManual(), gameplay.Options{
		AudioLeadIn:    1000,
		PlatformOffset: &platform,
	})
	startFrameLoop(t, c)
	return New(":0", c, NewHub()), c
}

func TestServer_Health(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestServer_State(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var snap gameplay.Snapshot
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatalf("decoding snapshot: %v", err)
	}
	if snap.CurrentTime != -1000 {
		t.Errorf("current_time = %g, want -1000", snap.CurrentTime)
	}
	if snap.PlatformOffset != 22 {
		t.Errorf("platform_offset = %g, want 22", snap.PlatformOffset)
	}
	if !snap.Paused {
		t.Error("snapshot should report paused before Start")
	}
}

func TestServer_PauseResume(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/resume", nil))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("resume status = %d, want 202", rec.Code)
	}
	waitFor(t, func() bool { return !stateSnapshot(t, srv).Paused })

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/pause", nil))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("pause status = %d, want 202", rec.Code)
	}
	waitFor(t, func() bool { return stateSnapshot(t, srv).Paused })
}

func TestServer_Seek(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/seek?to=5000", nil))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("seek status = %d, want 202", rec.Code)
	}

	waitFor(t, func() bool { return stateSnapshot(t, srv).CurrentTime == 5000 })
}

func TestServer_SeekRejectsBadInput(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/seek?to=abc", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestServer_ControlsRejectGet(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/api/pause", "/api/resume", "/api/restart"} {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("GET %s status = %d, want 405", path, rec.Code)
		}
	}
}

func TestServer_Rate(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/rate?value=1.5", nil))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("rate status = %d, want 202", rec.Code)
	}

	waitFor(t, func() bool { return stateSnapshot(t, srv).Rate == 1.5 })
}

func TestServer_Dashboard(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("content type = %q", ct)
	}
}

func TestHub_ClientCount(t *testing.T) {
	h := NewHub()
	if got := h.ClientCount(); got != 0 {
		t.Errorf("ClientCount = %d, want 0", got)
	}
	// Broadcast with no clients must not panic.
	h.Broadcast(map[string]int{"x": 1})
}

// stateSnapshot reads /api/state, which marshals the read onto the
// frame loop; tests never touch the container from their own
// goroutine while the loop runs.
func stateSnapshot(t *testing.T, srv *Server) gameplay.Snapshot {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	var snap gameplay.Snapshot
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatalf("decoding snapshot: %v", err)
	}
	return snap
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition never became true")
}

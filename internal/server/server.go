package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/velvetkeys/cadence/internal/gameplay"
)

// Server is the debug dashboard server. It exposes the clock chain's
// state over HTTP and WebSocket. Handlers never touch the chain
// directly: every read or mutation is posted to the container's
// scheduler and executed between frames, keeping the chain
// single-threaded.
type Server struct {
	httpServer *http.Server
	container  *gameplay.Container
	hub        *Hub
	mux        *http.ServeMux
}

// New creates a dashboard server for the given container.
func New(addr string, c *gameplay.Container, hub *Hub) *Server {
	s := &Server{
		container: c,
		hub:       hub,
		mux:       http.NewServeMux(),
	}
	s.routes()
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.mux,
	}
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleRoot)
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/state", s.handleState)
	s.mux.HandleFunc("/api/pause", s.handlePause)
	s.mux.HandleFunc("/api/resume", s.handleResume)
	s.mux.HandleFunc("/api/seek", s.handleSeek)
	s.mux.HandleFunc("/api/restart", s.handleRestart)
	s.mux.HandleFunc("/api/rate", s.handleRate)
	s.mux.HandleFunc("/dashboard/", s.handleDashboard)
	if s.hub != nil {
		s.mux.HandleFunc("/ws", s.hub.HandleWebSocket)
	}
}

// PublishFrame broadcasts the current snapshot to WebSocket clients.
// Called from the frame loop after each ProcessFrame.
func (s *Server) PublishFrame() {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(s.container.Snapshot())
}

// Start begins listening. Blocks until the server stops.
func (s *Server) Start() error {
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the underlying mux, for tests.
func (s *Server) Handler() http.Handler { return s.mux }

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"service": "cadence",
		"status":  "running",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleState reads a snapshot on the frame thread and returns it.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	ch := make(chan gameplay.Snapshot, 1)
	s.container.Scheduler().Post(func() {
		ch <- s.container.Snapshot()
	})

	select {
	case snap := <-ch:
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(snap)
	case <-time.After(time.Second):
		http.Error(w, `{"error":"frame loop not responding"}`, http.StatusServiceUnavailable)
	}
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	s.post(w, r, func() { s.container.Stop() })
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	s.post(w, r, func() { s.container.Start() })
}

func (s *Server) handleSeek(w http.ResponseWriter, r *http.Request) {
	to, err := strconv.ParseFloat(r.URL.Query().Get("to"), 64)
	if err != nil {
		http.Error(w, `{"error":"to must be a time in milliseconds"}`, http.StatusBadRequest)
		return
	}
	s.post(w, r, func() { s.container.Seek(to) })
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	s.post(w, r, func() { s.container.Restart() })
}

func (s *Server) handleRate(w http.ResponseWriter, r *http.Request) {
	value, err := strconv.ParseFloat(r.URL.Query().Get("value"), 64)
	if err != nil {
		http.Error(w, `{"error":"value must be a playback rate"}`, http.StatusBadRequest)
		return
	}
	s.post(w, r, func() { s.container.UserPlaybackRate.Set(value) })
}

// post queues a mutation for the frame loop and replies 202; the
// mutation runs on the next frame.
func (s *Server) post(w http.ResponseWriter, r *http.Request, fn func()) {
	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	s.container.Scheduler().Post(fn)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"status": "scheduled"})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, DashboardHTML)
}

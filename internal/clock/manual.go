package clock

import "sync"

// Manual is a hand-driven Source for tests and demos. Time only moves
// when Set or Advance is called, which makes behavior that depends on
// source progress fully deterministic.
//
// Thread-safe for the same reason Stopwatch is.
type Manual struct {
	mu      sync.RWMutex
	current float64
	rate    float64
	tempo   float64
	running bool

	// SeekResult is returned by Seek; set false to simulate a source
	// that cannot seek.
	SeekResult bool
}

// NewManual creates a stopped Manual source at time zero.
func NewManual() *Manual {
	return &Manual{rate: 1, tempo: 1, SeekResult: true}
}

func (m *Manual) CurrentTime() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Set moves the source to an exact time.
func (m *Manual) Set(t float64) {
	m.mu.Lock()
	m.current = t
	m.mu.Unlock()
}

// Advance moves the source forward by delta milliseconds.
func (m *Manual) Advance(delta float64) {
	m.mu.Lock()
	m.current += delta
	m.mu.Unlock()
}

func (m *Manual) Rate() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rate
}

func (m *Manual) SetRate(rate float64) {
	m.mu.Lock()
	m.rate = rate
	m.mu.Unlock()
}

// TempoAdjust returns the pitch-preserving tempo multiplier.
func (m *Manual) TempoAdjust() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tempo
}

func (m *Manual) SetTempoAdjust(tempo float64) {
	m.mu.Lock()
	m.tempo = tempo
	m.mu.Unlock()
}

func (m *Manual) IsRunning() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.running
}

func (m *Manual) Start() {
	m.mu.Lock()
	m.running = true
	m.mu.Unlock()
}

func (m *Manual) Stop() {
	m.mu.Lock()
	m.running = false
	m.mu.Unlock()
}

func (m *Manual) Seek(t float64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.SeekResult {
		return false
	}
	m.current = t
	return true
}

func (m *Manual) Reset() {
	m.mu.Lock()
	m.running = false
	m.current = 0
	m.mu.Unlock()
}

func (m *Manual) ResetSpeedAdjustments() {
	m.mu.Lock()
	m.rate = 1
	m.tempo = 1
	m.mu.Unlock()
}

// EffectiveRate is the combined rate and tempo the source plays at.
func (m *Manual) EffectiveRate() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rate * m.tempo
}

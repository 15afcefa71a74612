package scheduler

import "sync"

// Scheduler marshals work onto the frame-loop goroutine. Post may be
// called from any goroutine; Drain must only be called from the frame
// loop. This is the single synchronization point in the clock chain —
// everything else is single-threaded by construction.
type Scheduler struct {
	mu      sync.Mutex
	pending []func()
}

// New creates an empty Scheduler.
func New() *Scheduler {
	return &Scheduler{}
}

// Post queues fn to run on the next Drain. Safe for concurrent use.
func (s *Scheduler) Post(fn func()) {
	s.mu.Lock()
	s.pending = append(s.pending, fn)
	s.mu.Unlock()
}

// Drain runs every task queued before this call and returns how many
// ran. Tasks posted while draining run on the next Drain, so a task
// cannot starve the frame it runs in.
func (s *Scheduler) Drain() int {
	s.mu.Lock()
	tasks := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, fn := range tasks {
		fn()
	}
	return len(tasks)
}

// Len returns the number of queued tasks.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

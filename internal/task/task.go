// internal/task/task.go

// Package task guards one-shot background loads: at most one attempt in
// flight, and no further attempts once one has succeeded.
package task

import "sync"

// Outcome reports what a guarded load did.
type Outcome int

const (
	Succeeded Outcome = iota
	Failed
	InProgress
	AlreadyDone
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case InProgress:
		return "in_progress"
	case AlreadyDone:
		return "already_done"
	}
	return "unknown"
}

// Guard holds the loaded/loading flags of a load.
type Guard struct {
	mu      sync.Mutex
	done    bool
	running bool
}

// Begin claims the load. When it returns false the caller must not start a
// load and should report the returned outcome instead.
func (g *Guard) Begin() (bool, Outcome) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		return false, InProgress
	}
	if g.done {
		return false, AlreadyDone
	}
	g.running = true
	return true, InProgress
}

// End releases the claim taken by Begin. A successful end is permanent.
func (g *Guard) End(success bool) Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.running = false
	if success {
		g.done = true
		return Succeeded
	}
	return Failed
}

// Done reports whether a load has succeeded.
func (g *Guard) Done() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.done
}

// Running reports whether a load is in flight.
func (g *Guard) Running() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.running
}

// Package runner guards background workers so each one is started at most once.
package runner

import (
	"fmt"
	"sync"
)

// Runner tracks if a worker is running or has stopped.  The zero value is ready to be started.
type Runner struct {
	// Name identifies the worker in errors.
	Name    string
	mu      sync.Mutex
	running bool
	stopped bool
}

// Start marks the worker as running.  An error is returned if it has ever been started before.
func (r *Runner) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case r.running:
		return fmt.Errorf("%v is already running", r.name())
	case r.stopped:
		return fmt.Errorf("%v has stopped and can not be restarted", r.name())
	}
	r.running = true
	return nil
}

// Stop marks the worker as stopped, even if it was never started.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = false
	r.stopped = true
}

// IsRunning determines if the worker has started and not stopped.
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *Runner) name() string {
	if len(r.Name) == 0 {
		return "worker"
	}
	return r.Name
}

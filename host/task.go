package host

import (
	"context"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/autopsy/core"
)

// Task is the handle of a background operation started with Go. It is the
// handle reported alongside an unobserved failure.
type Task struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	done     chan struct{}
	observed atomic.Bool
	err      error
	stack    []byte
}

// Done is closed when the task has finished. Waiting on Done does not
// observe the task's failure; Err does.
func (t *Task) Done() <-chan struct{} { return t.done }

// Err waits for the task and returns its failure. Calling Err marks the
// failure as observed, so it is never reported as unobserved.
func (t *Task) Err() error {
	t.observed.Store(true)
	<-t.done
	return t.err
}

// Observed reports whether Err has been called.
func (t *Task) Observed() bool { return t.observed.Load() }

// Go runs fn on a new goroutine. A returned error or a panic fails the task;
// the process keeps running. A failed task whose Err was never called by the
// time the process completes or exits is an unobserved failure: the
// unobserved hooks fire with the failure as the reason and the task as the
// handle, before the completion or forced exit hooks.
func (h *ProcessHost) Go(ctx context.Context, name string, fn func(ctx context.Context) error) *Task {
	t := &Task{ID: core.NewID(), Name: name, done: make(chan struct{})}
	go func() {
		defer close(t.done)
		defer func() {
			if r := recover(); r != nil {
				t.err, t.stack = panicError(r), debug.Stack()
			}
			if t.err != nil {
				h.failed.add(t)
			}
		}()
		t.err = fn(ctx)
	}()
	return t
}

// failedTasks holds failed tasks until they are either observed or reported.
type failedTasks struct {
	mu    sync.Mutex
	tasks []*Task
}

func (f *failedTasks) add(t *Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, t)
}

// drain removes every failed task and returns those nobody observed.
func (f *failedTasks) drain() []*Task {
	f.mu.Lock()
	tasks := f.tasks
	f.tasks = nil
	f.mu.Unlock()

	unobserved := tasks[:0:0]
	for _, t := range tasks {
		if !t.Observed() {
			unobserved = append(unobserved, t)
		}
	}
	return unobserved
}

// flushUnobserved fires the unobserved hooks for every failed task whose Err
// was never called.
func (h *ProcessHost) flushUnobserved() {
	for _, t := range h.failed.drain() {
		h.fire(&HookContext{Type: HookUnobserved, Reason: t.err, Handle: t})
	}
}

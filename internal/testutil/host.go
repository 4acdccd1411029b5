package testutil

import (
	"sync"

	"github.com/hupe1980/autopsy/host"
)

// ExitRecorder captures the codes passed to a host's exit function.
type ExitRecorder struct {
	mu    sync.Mutex
	codes []int
}

// Exit records code.
func (r *ExitRecorder) Exit(code int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes = append(r.codes, code)
}

// Codes returns every recorded code in order.
func (r *ExitRecorder) Codes() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.codes...)
}

// NewHost returns a ProcessHost that never terminates the process and
// ignores signals, plus the recorder of its exits.
func NewHost() (*host.ProcessHost, *ExitRecorder) {
	rec := &ExitRecorder{}
	h := host.New(func(o *host.Options) {
		o.ExitFunc = rec.Exit
		o.Signals = nil
		o.Stderr = nil
	})
	return h, rec
}

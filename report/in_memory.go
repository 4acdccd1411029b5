package report

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/autopsy/core"
)

// InMemoryReporter keeps every report it receives, encoded exactly as a
// FileReporter would write it. Stored bytes are copied on retrieval.
type InMemoryReporter struct {
	mu        sync.RWMutex
	documents [][]byte
	payloads  []*core.Payload
}

// NewInMemoryReporter returns an empty in-memory reporter.
func NewInMemoryReporter() *InMemoryReporter {
	return &InMemoryReporter{}
}

// Report encodes and stores p.
func (r *InMemoryReporter) Report(_ context.Context, p *core.Payload) error {
	data, err := Marshal(p)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.documents = append(r.documents, data)
	r.payloads = append(r.payloads, p)
	return nil
}

// Count returns the number of reports received.
func (r *InMemoryReporter) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.documents)
}

// Documents returns copies of the encoded reports, oldest first.
func (r *InMemoryReporter) Documents() [][]byte {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([][]byte, len(r.documents))
	for i, d := range r.documents {
		cp := make([]byte, len(d))
		copy(cp, d)
		out[i] = cp
	}
	return out
}

// Last returns the most recent payload, or nil if none was reported.
func (r *InMemoryReporter) Last() *core.Payload {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.payloads) == 0 {
		return nil
	}
	return r.payloads[len(r.payloads)-1]
}

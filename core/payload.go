package core

import "context"

// MemoryFootprint is a snapshot of process memory usage, in bytes.
type MemoryFootprint struct {
	RSS        uint64 `json:"rss"`
	HeapTotal  uint64 `json:"heapTotal"`
	HeapUsed   uint64 `json:"heapUsed"`
	Stack      uint64 `json:"stack"`
	Sys        uint64 `json:"sys"`
	Goroutines int    `json:"goroutines"`
}

// CapturedError is an unrecoverable failure observed at the process boundary
// together with the stack captured when it was observed.
type CapturedError struct {
	Err   error
	Stack []byte
}

// ErrorRecord is the reported form of a CapturedError.
type ErrorRecord struct {
	Stack   []string `json:"stack"`
	Message string   `json:"message"`
}

// AsyncFailure is an unobserved asynchronous failure: the failure reason and
// the handle of the pending operation that produced it.
type AsyncFailure struct {
	Reason any `json:"reason"`
	Handle any `json:"handle"`
}

// Payload is the consolidated diagnostic report assembled at shutdown.
type Payload struct {
	SessionID         string             `json:"sessionId"`
	Timestamp         string             `json:"timestamp"`
	ExitCode          int                `json:"exitCode"`
	MemoryFootprint   MemoryFootprint    `json:"memoryFootprint"`
	AsyncFailures     []AsyncFailure     `json:"asyncFailures"`
	TrackedCallables  []CallSummary      `json:"trackedCallables"`
	TrackedComposites []CompositeSummary `json:"trackedComposites"`
	Errors            []ErrorRecord      `json:"errors"`
}

// Reporter serializes a payload and writes it to a sink.
type Reporter interface {
	Report(ctx context.Context, p *Payload) error
}

// ReporterFunc adapts a plain function to Reporter.
type ReporterFunc func(ctx context.Context, p *Payload) error

// Report calls f.
func (f ReporterFunc) Report(ctx context.Context, p *Payload) error { return f(ctx, p) }

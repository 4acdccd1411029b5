package testutil

import (
	"time"

	"github.com/hupe1980/autopsy/core"
)

// FingerprintBuilder provides a fluent helper for constructing fingerprints.
// Example:
//
//	fp := NewFingerprintBuilder().Args(1, 2).Result(3).Duration(time.Millisecond).Build()
type FingerprintBuilder struct {
	fp core.Fingerprint
}

// NewFingerprintBuilder creates a builder for an argument-less fingerprint.
func NewFingerprintBuilder() *FingerprintBuilder {
	return &FingerprintBuilder{fp: core.Fingerprint{Args: []any{}}}
}

// Args sets the call arguments (chainable).
func (b *FingerprintBuilder) Args(args ...any) *FingerprintBuilder { b.fp.Args = args; return b }

// Result sets the call result (chainable).
func (b *FingerprintBuilder) Result(r any) *FingerprintBuilder { b.fp.Result = r; return b }

// Duration sets the wall time (chainable).
func (b *FingerprintBuilder) Duration(d time.Duration) *FingerprintBuilder {
	b.fp.Duration = d
	return b
}

// CPU sets the user and system CPU time (chainable).
func (b *FingerprintBuilder) CPU(user, system time.Duration) *FingerprintBuilder {
	b.fp.CPU = core.CPUTime{User: user, System: system}
	return b
}

// Build returns the fingerprint.
func (b *FingerprintBuilder) Build() core.Fingerprint { return b.fp }

// PayloadBuilder helps construct report payloads for sink tests.
// Example:
//
//	p := NewPayloadBuilder("sess-1").ExitCode(0).Callable("add", fp).Build()
type PayloadBuilder struct {
	p core.Payload
}

// NewPayloadBuilder creates a builder for an empty payload of session id.
func NewPayloadBuilder(id string) *PayloadBuilder {
	return &PayloadBuilder{p: core.Payload{
		SessionID:         id,
		Timestamp:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339Nano),
		AsyncFailures:     []core.AsyncFailure{},
		TrackedCallables:  []core.CallSummary{},
		TrackedComposites: []core.CompositeSummary{},
		Errors:            []core.ErrorRecord{},
	}}
}

// ExitCode sets the exit code (chainable).
func (b *PayloadBuilder) ExitCode(code int) *PayloadBuilder { b.p.ExitCode = code; return b }

// Callable appends a tracked callable summary with the given fingerprints (chainable).
func (b *PayloadBuilder) Callable(name string, fps ...core.Fingerprint) *PayloadBuilder {
	if fps == nil {
		fps = []core.Fingerprint{}
	}
	b.p.TrackedCallables = append(b.p.TrackedCallables, core.CallSummary{
		ID:           core.NewID(),
		Name:         name,
		Misfires:     []core.Fingerprint{},
		Fingerprints: fps,
	})
	return b
}

// Composite appends a tracked composite summary (chainable).
func (b *PayloadBuilder) Composite(cs core.CompositeSummary) *PayloadBuilder {
	b.p.TrackedComposites = append(b.p.TrackedComposites, cs)
	return b
}

// Error appends an error record (chainable).
func (b *PayloadBuilder) Error(msg string, stack ...string) *PayloadBuilder {
	if stack == nil {
		stack = []string{}
	}
	b.p.Errors = append(b.p.Errors, core.ErrorRecord{Stack: stack, Message: msg})
	return b
}

// AsyncFailure appends an unobserved failure (chainable).
func (b *PayloadBuilder) AsyncFailure(reason, handle any) *PayloadBuilder {
	b.p.AsyncFailures = append(b.p.AsyncFailures, core.AsyncFailure{Reason: reason, Handle: handle})
	return b
}

// Build returns a pointer to a copy of the payload.
func (b *PayloadBuilder) Build() *core.Payload {
	p := b.p
	return &p
}

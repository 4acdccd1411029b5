package core

import "time"

// CPUTime is process CPU time consumed, split by mode.
type CPUTime struct {
	User   time.Duration `json:"user"`
	System time.Duration `json:"system"`
}

// Sub returns the CPU time consumed between earlier and c.
func (c CPUTime) Sub(earlier CPUTime) CPUTime {
	return CPUTime{User: c.User - earlier.User, System: c.System - earlier.System}
}

// Total returns user plus system time.
func (c CPUTime) Total() time.Duration { return c.User + c.System }

// Fingerprint is one completed invocation of a tracked callable. It is never
// mutated after it has been appended to an interceptor's log.
type Fingerprint struct {
	Args     []any         `json:"args"`
	Result   any           `json:"result"`
	Duration time.Duration `json:"duration"`
	CPU      CPUTime       `json:"cpu"`
}

// CallSummary is the reportable state of one CallInterceptor.
type CallSummary struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Misfires     []Fingerprint `json:"misfires"`
	Fingerprints []Fingerprint `json:"fingerprints"`
}

// PrimitiveSummary is the observed history of one primitive member: the
// distinct values in first-seen order plus the total number of reads.
type PrimitiveSummary struct {
	Values []any `json:"values"`
	Count  int   `json:"count"`
}

// CompositeSummary is the reportable state of one CompositeInterceptor.
// Nested holds every composite reachable from this one, flattened; nested
// entries never carry a Nested list of their own.
type CompositeSummary struct {
	ID         string                      `json:"id"`
	Callables  map[string]CallSummary      `json:"callables"`
	Primitives map[string]PrimitiveSummary `json:"primitives"`
	Nested     []CompositeSummary          `json:"nested,omitempty"`
}

// Interceptor is implemented by every wrapper produced by the interceptor
// factory. It doubles as the "already wrapped" marker: values implementing it
// are never wrapped again.
type Interceptor interface {
	ID() string
	Kind() Kind
}

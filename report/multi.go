package report

import (
	"context"
	"errors"

	"github.com/hupe1980/autopsy/core"
)

// MultiReporter fans a payload out to several reporters. Every reporter is
// attempted; failures are joined.
type MultiReporter struct {
	reporters []core.Reporter
}

// NewMultiReporter creates a MultiReporter over the non-nil reporters.
func NewMultiReporter(reporters ...core.Reporter) *MultiReporter {
	filtered := make([]core.Reporter, 0, len(reporters))
	for _, r := range reporters {
		if r != nil {
			filtered = append(filtered, r)
		}
	}
	return &MultiReporter{reporters: filtered}
}

// Report forwards p to every reporter.
func (m *MultiReporter) Report(ctx context.Context, p *core.Payload) error {
	var errs []error
	for _, r := range m.reporters {
		if err := r.Report(ctx, p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

package session

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/autopsy/core"
	"github.com/hupe1980/autopsy/intercept"
	"github.com/hupe1980/autopsy/internal/procstat"
	"github.com/hupe1980/autopsy/internal/util"
	"github.com/hupe1980/autopsy/report"
)

// RunReport produces the report now and then exits through the host with
// code. It returns ErrReportAlreadyRun if a termination signal (or an
// earlier RunReport) already did so.
func (s *Session) RunReport(code int) error {
	if !s.reportRan.CompareAndSwap(false, true) {
		return ErrReportAlreadyRun
	}
	return s.runReport(code)
}

// ReportRan reports whether the report has been triggered.
func (s *Session) ReportRan() bool { return s.reportRan.Load() }

// runReport writes the payload and exits. A failed report is not retried;
// it is logged and turns a zero exit code into 1.
func (s *Session) runReport(code int) error {
	s.state.Store(int32(StateReportRunning))
	start := time.Now()
	s.logger.Info("session.report.start", "session_id", s.id, "path", s.path, "exit_code", code)

	err := s.writeReport(code)
	if err != nil {
		s.logger.Error("session.report.failed", "session_id", s.id, "path", s.path, "error", err.Error())
		fmt.Fprintf(s.opts.Stderr, "autopsy: report failed: %v\n", err)
		if code == 0 {
			code = 1
		}
	} else {
		s.logger.Info("session.report.complete", "session_id", s.id, "path", s.path,
			"exit_code", code, "duration_ms", time.Since(start).Milliseconds())
	}

	s.state.Store(int32(StateTerminated))
	s.opts.Host.Exit(code)
	return err
}

func (s *Session) writeReport(code int) error {
	if err := report.EnsureFile(s.path); err != nil {
		return err
	}
	if s.opts.Reporter == nil {
		return nil
	}
	return s.opts.Reporter.Report(context.Background(), s.Payload(code))
}

// Payload assembles the report payload from the current state without
// changing it.
func (s *Session) Payload(code int) *core.Payload {
	s.mu.Lock()
	callables := append([]*intercept.CallInterceptor(nil), s.callables...)
	composites := append([]*intercept.CompositeInterceptor(nil), s.composites...)
	captured := append([]core.CapturedError(nil), s.errors...)
	failures := append([]core.AsyncFailure{}, s.asyncFailures...)
	s.mu.Unlock()

	p := &core.Payload{
		SessionID:         s.id,
		Timestamp:         s.opts.Clock().UTC().Format(time.RFC3339Nano),
		ExitCode:          code,
		MemoryFootprint:   procstat.Memory(),
		AsyncFailures:     failures,
		TrackedCallables:  make([]core.CallSummary, 0, len(callables)),
		TrackedComposites: make([]core.CompositeSummary, 0, len(composites)),
		Errors:            make([]core.ErrorRecord, 0, len(captured)),
	}
	for _, c := range callables {
		p.TrackedCallables = append(p.TrackedCallables, c.Summary())
	}
	for _, c := range composites {
		p.TrackedComposites = append(p.TrackedComposites, c.Snapshot())
	}
	for _, e := range captured {
		msg := "<nil>"
		if e.Err != nil {
			msg = e.Err.Error()
		}
		p.Errors = append(p.Errors, core.ErrorRecord{Stack: util.SplitStack(e.Stack), Message: msg})
	}
	return p
}

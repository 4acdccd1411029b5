package session

import (
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/autopsy/core"
	"github.com/hupe1980/autopsy/host"
	"github.com/hupe1980/autopsy/intercept"
	"github.com/hupe1980/autopsy/internal/util"
	"github.com/hupe1980/autopsy/logging"
	"github.com/hupe1980/autopsy/report"
)

var (
	instanceMu sync.Mutex
	instance   *Session
)

// GetOrCreate returns the process session, creating it with optFns on the
// first call. Subsequent calls return the same session; their options are
// ignored.
func GetOrCreate(optFns ...func(o *Options)) (*Session, error) {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	if instance != nil {
		if len(optFns) > 0 {
			instance.logger.Debug("session.reuse", "session_id", instance.id)
		}
		return instance, nil
	}
	s, err := New(optFns...)
	if err != nil {
		return nil, err
	}
	instance = s
	return s, nil
}

// Instance returns the process session, or nil if GetOrCreate has not
// succeeded yet.
func Instance() *Session {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	return instance
}

// Session aggregates every tracked interceptor and the failures observed at
// the process boundary. It is safe for concurrent use.
type Session struct {
	id      string
	opts    Options
	path    string
	factory *intercept.Factory
	logger  logging.Logger

	mu            sync.Mutex
	callables     []*intercept.CallInterceptor
	composites    []*intercept.CompositeInterceptor
	tracked       map[string]struct{}
	errors        []core.CapturedError
	asyncFailures []core.AsyncFailure

	state     atomic.Int32
	reportRan atomic.Bool
}

// New creates an independent session and registers its handlers with the
// host. It fails only if the report path cannot be resolved.
func New(optFns ...func(o *Options)) (*Session, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Config = DefaultConfig().Merge(opts.Config)

	s := &Session{
		id:      core.NewID(),
		tracked: map[string]struct{}{},
	}

	if opts.Clock == nil {
		opts.Clock = defaultOptions().Clock
	}
	if opts.Stderr == nil {
		opts.Stderr = defaultOptions().Stderr
	}
	if opts.Logger == nil {
		opts.Logger = defaultOptions().Logger
	}
	s.logger = opts.Logger

	rendered, err := util.RenderPath(opts.Config.FilePath, util.NewPathData(s.id, opts.Clock()))
	if err != nil {
		return nil, fmt.Errorf("render report path %q: %w", opts.Config.FilePath, err)
	}
	if s.path, err = filepath.Abs(rendered); err != nil {
		return nil, fmt.Errorf("resolve report path %q: %w", rendered, err)
	}

	if opts.Reporter == nil && !opts.DisableReport {
		opts.Reporter = report.NewFileReporter(s.path)
	}
	if opts.DisableReport {
		opts.Reporter = nil
	}
	if opts.Host == nil {
		opts.Host = host.New(func(o *host.Options) { o.Logger = opts.Logger })
	}
	s.opts = opts

	s.factory = intercept.NewFactory(func(o *intercept.Options) {
		o.Recursive = !opts.Config.Shallow
		o.Logger = opts.Logger
	})

	opts.Host.OnCompletion(s.onTermination)
	opts.Host.OnForcedExit(s.onTermination)
	opts.Host.OnFatal(s.onFatal)
	opts.Host.OnUnobserved(s.onUnobserved)

	s.state.Store(int32(StateActive))
	s.logger.Info("session.start", "session_id", s.id, "path", s.path)

	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Path returns the resolved report file path.
func (s *Session) Path() string { return s.path }

// Host returns the host the session is registered with.
func (s *Session) Host() core.Host { return s.opts.Host }

// Config returns the effective configuration.
func (s *Session) Config() Config { return s.opts.Config }

// State returns the current lifecycle state.
func (s *Session) State() State { return State(s.state.Load()) }

// Track wraps v and records the interceptor. Callables and composites come
// back as *intercept.CallInterceptor and *intercept.CompositeInterceptor;
// anything else is returned unchanged and not recorded. Tracking the same
// interceptor twice records it once.
func (s *Session) Track(v any) any {
	tracked := s.factory.Track(v)
	switch ic := tracked.(type) {
	case *intercept.CallInterceptor:
		s.recordCallable(ic)
	case *intercept.CompositeInterceptor:
		s.recordComposite(ic)
	default:
		s.logger.Debug("session.track.passthrough", "kind", core.Classify(v).String())
	}
	return tracked
}

// TrackFunc tracks a callable. It returns nil for a nil fn.
func (s *Session) TrackFunc(fn core.Func) *intercept.CallInterceptor {
	ic, _ := s.Track(fn).(*intercept.CallInterceptor)
	return ic
}

// TrackComposite tracks a composite.
func (s *Session) TrackComposite(c core.Composite) *intercept.CompositeInterceptor {
	if ic, ok := c.(*intercept.CompositeInterceptor); ok {
		s.recordComposite(ic)
		return ic
	}
	ic, _ := s.Track(c).(*intercept.CompositeInterceptor)
	return ic
}

func (s *Session) recordCallable(ic *intercept.CallInterceptor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tracked[ic.ID()]; ok {
		return
	}
	s.tracked[ic.ID()] = struct{}{}
	s.callables = append(s.callables, ic)
	s.logger.Debug("session.track", "kind", "callable", "id", ic.ID(), "name", ic.Name())
}

func (s *Session) recordComposite(ic *intercept.CompositeInterceptor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tracked[ic.ID()]; ok {
		return
	}
	s.tracked[ic.ID()] = struct{}{}
	s.composites = append(s.composites, ic)
	s.logger.Debug("session.track", "kind", "composite", "id", ic.ID())
}

// Callables returns the tracked callables in tracking order.
func (s *Session) Callables() []*intercept.CallInterceptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*intercept.CallInterceptor(nil), s.callables...)
}

// Composites returns the tracked composites in tracking order.
func (s *Session) Composites() []*intercept.CompositeInterceptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*intercept.CompositeInterceptor(nil), s.composites...)
}

// RecordError appends err to the error log without terminating.
func (s *Session) RecordError(err error, stack []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, core.CapturedError{Err: err, Stack: stack})
}

// Errors returns the captured errors in arrival order.
func (s *Session) Errors() []core.CapturedError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.CapturedError(nil), s.errors...)
}

// AsyncFailures returns the unobserved failures in arrival order.
func (s *Session) AsyncFailures() []core.AsyncFailure {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.AsyncFailure(nil), s.asyncFailures...)
}

func (s *Session) onFatal(err error, stack []byte) {
	msg := "<nil>"
	if err != nil {
		msg = err.Error()
	}
	s.logger.Error("session.fatal", "session_id", s.id, "error", msg)
	s.RecordError(err, stack)
	s.opts.Host.Exit(1)
}

func (s *Session) onUnobserved(reason any, handle any) {
	s.logger.Warn("session.unobserved", "session_id", s.id, "reason", fmt.Sprint(reason))
	s.mu.Lock()
	defer s.mu.Unlock()
	s.asyncFailures = append(s.asyncFailures, core.AsyncFailure{Reason: reason, Handle: handle})
}

func (s *Session) onTermination(code int) {
	if !s.reportRan.CompareAndSwap(false, true) {
		return
	}
	_ = s.runReport(code)
}

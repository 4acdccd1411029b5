// Package autopsy provides a high-level façade over the process session and
// the process host. Most applications interact with this package by:
//  1. Creating the process Autopsy via New (optionally overriding the report
//     path, sink and logger)
//  2. Tracking functions and composites with Track, TrackFunc and
//     TrackComposite, then using the returned interceptors in place of the
//     originals
//  3. Running the program body with Run, and background work with Go
//
// When the program ends (normally, by Exit, by signal or by a fatal failure)
// a single report describing every tracked call is appended to the report
// file before the process exits.
package autopsy

import (
	"context"
	"errors"

	"github.com/hupe1980/autopsy/core"
	"github.com/hupe1980/autopsy/host"
	"github.com/hupe1980/autopsy/intercept"
	"github.com/hupe1980/autopsy/logging"
	"github.com/hupe1980/autopsy/session"
)

// ErrForeignHost is returned by New when the process session was created
// with a host other than a *host.ProcessHost.
var ErrForeignHost = errors.New("process session is bound to a foreign host")

// Options configures the process Autopsy. It only takes effect for the call
// that creates the process session.
type Options struct {
	// Config holds the report path and recursion settings.
	Config session.Config

	// Reporter overrides the default file reporter.
	Reporter core.Reporter

	// DisableReport skips the report entirely.
	DisableReport bool

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger

	// ExitFunc overrides os.Exit, mainly for tests.
	ExitFunc func(code int)
}

// Autopsy couples the process session with the host driving it.
type Autopsy struct {
	host    *host.ProcessHost
	session *session.Session
}

// New returns the process Autopsy, creating the process session on first
// use.
func New(optFns ...func(o *Options)) (*Autopsy, error) {
	opts := Options{
		Config: session.DefaultConfig(),
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	h := host.New(func(o *host.Options) {
		o.Logger = opts.Logger
		if opts.ExitFunc != nil {
			o.ExitFunc = opts.ExitFunc
		}
	})

	s, err := session.GetOrCreate(func(o *session.Options) {
		o.Config = opts.Config
		o.Reporter = opts.Reporter
		o.DisableReport = opts.DisableReport
		o.Logger = opts.Logger
		o.Host = h
	})
	if err != nil {
		return nil, err
	}

	ph, ok := s.Host().(*host.ProcessHost)
	if !ok {
		return nil, ErrForeignHost
	}
	return &Autopsy{host: ph, session: s}, nil
}

// Session returns the process session.
func (a *Autopsy) Session() *session.Session { return a.session }

// Host returns the process host.
func (a *Autopsy) Host() *host.ProcessHost { return a.host }

// Track wraps v if it is a callable or composite and returns the value to
// use in its place.
func (a *Autopsy) Track(v any) any { return a.session.Track(v) }

// TrackFunc tracks a callable.
func (a *Autopsy) TrackFunc(fn core.Func) *intercept.CallInterceptor {
	return a.session.TrackFunc(fn)
}

// TrackComposite tracks a composite.
func (a *Autopsy) TrackComposite(c core.Composite) *intercept.CompositeInterceptor {
	return a.session.TrackComposite(c)
}

// Run executes main as the program body and exits the process when it
// returns; the report is written on the way out.
func (a *Autopsy) Run(main func(ctx context.Context) error) { a.host.Run(main) }

// Go starts a background task. A failing task is recorded as an unobserved
// failure.
func (a *Autopsy) Go(ctx context.Context, name string, fn func(ctx context.Context) error) *host.Task {
	return a.host.Go(ctx, name, fn)
}

// Exit forces the process to exit with code after writing the report.
func (a *Autopsy) Exit(code int) { a.host.Exit(code) }

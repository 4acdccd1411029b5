package intercept

import (
	"reflect"
	"runtime"

	"github.com/hupe1980/autopsy/core"
	"github.com/hupe1980/autopsy/internal/procstat"
	"github.com/hupe1980/autopsy/logging"
)

// Options configures interceptors. Composite interceptors hand a copy of
// their options (renamed to the member name) to every child they create.
type Options struct {
	// Name labels a callable in logs and reports. Defaults to the Go symbol
	// name of the wrapped function when it can be resolved.
	Name string

	// Recursive controls whether composite members of a composite are
	// wrapped. When false they are returned unwrapped and untracked.
	Recursive bool

	// Logger receives interception events. Defaults to logging.NoOpLogger.
	Logger logging.Logger

	// CPUClock samples process CPU time around each call.
	CPUClock func() core.CPUTime
}

func defaultOptions() Options {
	return Options{
		Recursive: true,
		Logger:    logging.NoOpLogger{},
		CPUClock:  procstat.CPU,
	}
}

func buildOptions(optFns []func(o *Options)) Options {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.CPUClock == nil {
		opts.CPUClock = procstat.CPU
	}
	return opts
}

// funcName resolves the symbol name of a func value, or "" if v is not a func.
func funcName(v any) string {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return ""
	}
	if f := runtime.FuncForPC(rv.Pointer()); f != nil {
		return f.Name()
	}
	return ""
}

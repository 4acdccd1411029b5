package intercept

import (
	"fmt"

	"github.com/hupe1980/autopsy/core"
)

// Factory dispatches raw values to the matching interceptor variant.
type Factory struct {
	opts Options
}

// NewFactory creates a Factory whose interceptors share opts. Options.Name
// is ignored; callables are named after their Go symbol.
func NewFactory(optFns ...func(o *Options)) *Factory {
	return &Factory{opts: buildOptions(optFns)}
}

// Wrap returns the interceptor for v: a CallInterceptor for callables, a
// CompositeInterceptor for composites, v itself if it already is an
// interceptor. Any other kind yields core.ErrUnsupportedKind.
func (f *Factory) Wrap(v any) (core.Interceptor, error) {
	if ic, ok := v.(core.Interceptor); ok {
		return ic, nil
	}
	switch kind := core.Classify(v); kind {
	case core.KindCallable:
		fn, _ := core.AsFunc(v)
		opts := f.opts
		opts.Name = funcName(v)
		return NewCallInterceptor(fn, func(o *Options) { *o = opts }), nil
	case core.KindComposite:
		target, _ := core.AsComposite(v)
		opts := f.opts
		opts.Name = ""
		return newComposite(target, opts), nil
	default:
		return nil, fmt.Errorf("cannot intercept %s value: %w", kind, core.ErrUnsupportedKind)
	}
}

// Track is Wrap with pass-through on failure: unsupported values come back
// unchanged.
func (f *Factory) Track(v any) any {
	ic, err := f.Wrap(v)
	if err != nil {
		f.opts.Logger.Debug("intercept.passthrough", "kind", core.Classify(v).String())
		return v
	}
	return ic
}

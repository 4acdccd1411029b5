package core

import (
	"context"
	"reflect"
	"sort"
)

// Func is the canonical callable shape. The context is the calling context
// handed through unchanged by interceptors.
type Func func(ctx context.Context, args ...any) (any, error)

// AsFunc adapts a func value of any signature to Func. The ...any shapes are
// adapted directly; any other signature goes through reflection (see
// reflectFunc). The second return value is false when v is not a func (or is
// a typed nil).
func AsFunc(v any) (Func, bool) {
	switch fn := v.(type) {
	case Func:
		return fn, fn != nil
	case func(context.Context, ...any) (any, error):
		return Func(fn), fn != nil
	case func(...any) (any, error):
		if fn == nil {
			return nil, false
		}
		return func(_ context.Context, args ...any) (any, error) { return fn(args...) }, true
	case func(...any) any:
		if fn == nil {
			return nil, false
		}
		return func(_ context.Context, args ...any) (any, error) { return fn(args...), nil }, true
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Func || rv.IsNil() {
			return nil, false
		}
		return reflectFunc(rv), true
	}
}

// Composite is a structured value with named members. Implementations decide
// how members are stored; interceptors only read members and replace slots.
type Composite interface {
	// Member returns the current value stored under name.
	Member(name string) (any, bool)
	// SetMember replaces the value stored under name.
	SetMember(name string, value any)
}

// Record is the map backed Composite. Because a Record shares storage with the
// map it was converted from, slot replacements are visible to every holder.
type Record map[string]any

// Member returns the value stored under name.
func (r Record) Member(name string) (any, bool) {
	v, ok := r[name]
	return v, ok
}

// SetMember stores value under name.
func (r Record) SetMember(name string, value any) { r[name] = value }

// Names returns the member names in lexical order.
func (r Record) Names() []string {
	names := make([]string, 0, len(r))
	for k := range r {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// AsComposite adapts v to a Composite. map[string]any values are converted to
// Record without copying.
func AsComposite(v any) (Composite, bool) {
	switch c := v.(type) {
	case Record:
		return c, c != nil
	case map[string]any:
		return Record(c), c != nil
	case Composite:
		return c, true
	default:
		return nil, false
	}
}

// Predicate is a calibration function: it reports whether a call result is
// the expected one.
type Predicate func(result any) bool

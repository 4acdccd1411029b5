package core

import (
	"context"
	"fmt"
	"reflect"
)

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// kindOf classifies values whose dynamic type is not one of the built-in
// shapes by their underlying reflect kind, so named types such as
// time.Duration or a func(int) int still classify correctly.
func kindOf(v any) Kind {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Func:
		return callableKind(rv.IsNil())
	case reflect.Bool:
		return KindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return KindNumber
	case reflect.String:
		return KindText
	default:
		return KindOther
	}
}

// reflectFunc adapts an arbitrary func value to Func.
//
// A leading context.Context parameter receives the call's context. The
// remaining args are matched to the parameters: assignable values are used
// as is, numbers are converted between numeric types when the conversion is
// lossless, and nil becomes the zero value. A trailing error result becomes
// the error return; no other result yields nil, one result is returned as is
// and several come back as []any.
func reflectFunc(rv reflect.Value) Func {
	t := rv.Type()
	return func(ctx context.Context, args ...any) (any, error) {
		in, err := callArgs(ctx, t, args)
		if err != nil {
			return nil, err
		}
		return callResults(t, rv.Call(in))
	}
}

func callArgs(ctx context.Context, t reflect.Type, args []any) ([]reflect.Value, error) {
	offset := 0
	in := make([]reflect.Value, 0, t.NumIn())
	if t.NumIn() > 0 && t.In(0) == contextType {
		if ctx == nil {
			ctx = context.Background()
		}
		in = append(in, reflect.ValueOf(ctx))
		offset = 1
	}

	fixed := t.NumIn() - offset
	if t.IsVariadic() {
		fixed--
		if len(args) < fixed {
			return nil, fmt.Errorf("want at least %d args, got %d: %w", fixed, len(args), ErrArgumentMismatch)
		}
	} else if len(args) != fixed {
		return nil, fmt.Errorf("want %d args, got %d: %w", fixed, len(args), ErrArgumentMismatch)
	}

	for i, a := range args {
		var pt reflect.Type
		if i < fixed {
			pt = t.In(offset + i)
		} else {
			pt = t.In(t.NumIn() - 1).Elem()
		}
		av, err := convertArg(a, pt)
		if err != nil {
			return nil, fmt.Errorf("arg %d: %w", i, err)
		}
		in = append(in, av)
	}
	return in, nil
}

func convertArg(a any, pt reflect.Type) (reflect.Value, error) {
	if a == nil {
		return reflect.Zero(pt), nil
	}
	av := reflect.ValueOf(a)
	if av.Type().AssignableTo(pt) {
		return av, nil
	}
	if isNumeric(av.Kind()) && isNumeric(pt.Kind()) {
		cv := av.Convert(pt)
		if cv.Convert(av.Type()).Interface() == av.Interface() {
			return cv, nil
		}
		return reflect.Value{}, fmt.Errorf("%v does not fit %s: %w", a, pt, ErrArgumentMismatch)
	}
	if av.Kind() == pt.Kind() && av.Type().ConvertibleTo(pt) {
		return av.Convert(pt), nil
	}
	return reflect.Value{}, fmt.Errorf("%s is not %s: %w", av.Type(), pt, ErrArgumentMismatch)
}

func callResults(t reflect.Type, out []reflect.Value) (any, error) {
	var err error
	if n := t.NumOut(); n > 0 && t.Out(n-1) == errorType {
		if e := out[n-1]; !e.IsNil() {
			err = e.Interface().(error)
		}
		out = out[:n-1]
	}
	switch len(out) {
	case 0:
		return nil, err
	case 1:
		return out[0].Interface(), err
	default:
		results := make([]any, len(out))
		for i, o := range out {
			results[i] = o.Interface()
		}
		return results, err
	}
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

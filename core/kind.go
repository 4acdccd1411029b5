package core

import "context"

// Kind classifies a raw value once, at the point it is tracked or read.
type Kind int

const (
	// KindAbsent is a nil value (or a typed nil callable/composite).
	KindAbsent Kind = iota
	// KindCallable is any non-nil func value; AsFunc adapts it.
	KindCallable
	// KindComposite is a Composite or a map[string]any.
	KindComposite
	// KindBool is a boolean, including named bool types.
	KindBool
	// KindNumber is any Go integer or floating point value, including named
	// numeric types such as time.Duration.
	KindNumber
	// KindText is a string, including named string types.
	KindText
	// KindOther is everything else; such values are passed through untouched.
	KindOther
)

// String returns a lower-case name for the kind.
func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindCallable:
		return "callable"
	case KindComposite:
		return "composite"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return "other"
	}
}

// IsPrimitive reports whether values of this kind are observed by value
// instead of being wrapped.
func (k Kind) IsPrimitive() bool {
	return k == KindBool || k == KindNumber || k == KindText
}

// Classify resolves the kind of v. Interceptors report their own kind.
func Classify(v any) Kind {
	switch t := v.(type) {
	case nil:
		return KindAbsent
	case Interceptor:
		return t.Kind()
	case Func:
		return callableKind(t == nil)
	case func(context.Context, ...any) (any, error):
		return callableKind(t == nil)
	case func(...any) (any, error):
		return callableKind(t == nil)
	case func(...any) any:
		return callableKind(t == nil)
	case Record:
		if t == nil {
			return KindAbsent
		}
		return KindComposite
	case map[string]any:
		if t == nil {
			return KindAbsent
		}
		return KindComposite
	case Composite:
		return KindComposite
	case bool:
		return KindBool
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, uintptr,
		float32, float64:
		return KindNumber
	case string:
		return KindText
	default:
		return kindOf(v)
	}
}

func callableKind(isNil bool) Kind {
	if isNil {
		return KindAbsent
	}
	return KindCallable
}

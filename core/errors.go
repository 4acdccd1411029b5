package core

import "errors"

var (
	// ErrUnsupportedKind is returned when a value of a kind with no
	// interceptor variant is asked to be wrapped.
	ErrUnsupportedKind = errors.New("unsupported kind")

	// ErrArgumentMismatch is returned by an adapted func when the call
	// arguments do not fit its parameters.
	ErrArgumentMismatch = errors.New("argument mismatch")
)

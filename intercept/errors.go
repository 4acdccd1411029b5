package intercept

import "errors"

var (
	// ErrNotCallable is returned by CompositeInterceptor.Call when the member
	// does not hold a callable.
	ErrNotCallable = errors.New("member is not callable")
)

package report

import "errors"

var (
	// ErrNoPath is returned by FileReporter when it was built without a path.
	ErrNoPath = errors.New("report path is empty")
)

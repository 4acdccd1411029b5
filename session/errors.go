package session

import "errors"

var (
	// ErrReportAlreadyRun is returned by RunReport once the report has
	// been produced (or is being produced) for this session.
	ErrReportAlreadyRun = errors.New("report already run")
)

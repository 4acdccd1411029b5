package session

// State is the lifecycle state of a Session.
type State int32

const (
	StateUninitialized State = iota
	StateActive
	StateReportRunning
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateActive:
		return "active"
	case StateReportRunning:
		return "report_running"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

package core

// Host is the shutdown-hook capability provided by the environment running
// the instrumented program. It exposes the four signal categories a session
// reacts to; how the host detects them is its own concern.
//
// Contract:
//   - OnCompletion hooks run when the program finishes normally.
//   - OnForcedExit hooks run when the program is asked to exit (explicitly or by signal).
//   - OnFatal hooks run for an unrecoverable synchronous failure.
//   - OnUnobserved hooks run for a failed asynchronous operation nobody waited on.
//   - Exit terminates the process with code; calling it while an exit is
//     already in progress must not re-run the forced exit hooks.
type Host interface {
	OnCompletion(fn func(code int))
	OnForcedExit(fn func(code int))
	OnFatal(fn func(err error, stack []byte))
	OnUnobserved(fn func(reason any, handle any))
	Exit(code int)
}

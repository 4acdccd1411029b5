// Package session owns the process wide diagnostic session: the set of
// tracked interceptors, the fatal error log, the unobserved failure log and
// the one-shot report that is written when the process ends.
//
// GetOrCreate returns the process singleton, creating it on first use.
// Later calls return the same session and ignore their options. New builds
// an independent session, which is mostly useful in tests.
//
//	s, err := session.GetOrCreate(func(o *session.Options) {
//	    o.Config.FilePath = "reports/autopsy-{{.PID}}.txt"
//	})
//	ledger := s.Track(core.Record{"add": add}).(*intercept.CompositeInterceptor)
//
// A session registers itself with its core.Host on construction. Graceful
// completion and forced exit both lead to the report; a guard ensures it
// runs at most once however many termination signals arrive.
package session

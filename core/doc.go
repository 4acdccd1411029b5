// Package core provides the foundational domain types and interfaces shared by
// the interceptors, the session and the reporters. It defines:
//
//   - Kind, the closed tagged enumeration every tracked value is classified into
//   - Func and Composite, the two shapes that can be intercepted
//   - Fingerprint, the record of one completed tracked call
//   - Payload and Reporter, the report handed to the sink at shutdown
//   - Host, the shutdown-hook capability the process environment provides
//
// The package keeps implementation concerns (interception, sinks, signal
// delivery) out of scope, exposing small interfaces so alternative sinks and
// hosts can be substituted in tests or embedding programs.
package core

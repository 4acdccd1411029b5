// Package report contains core.Reporter implementations and the encoder they
// share.
//
// FileReporter appends each payload as an indented JSON document followed by
// a newline to a file, creating it on first use. InMemoryReporter keeps
// encoded payloads in process for tests and embedding programs.
// MultiReporter fans one payload out to several reporters.
//
// Marshal is the cycle-safe encoder: payloads carry arbitrary call arguments
// and results, so a value that refers back to itself is written as a
// "[Circular ~.path]" marker instead of failing the whole report.
package report

// Package util holds small internal helpers: report path templating and
// stack trace splitting.
package util

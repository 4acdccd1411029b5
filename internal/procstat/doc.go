// Package procstat samples process level resource usage: CPU time consumed
// by the whole process and a memory footprint snapshot. CPU time is read
// from the operating system (getrusage on unix, GetProcessTimes on windows)
// so that it includes time spent in every thread, not just the caller's
// goroutine.
package procstat

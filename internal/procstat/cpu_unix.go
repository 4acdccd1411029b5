//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package procstat

import (
	"time"

	"github.com/hupe1980/autopsy/core"
	"golang.org/x/sys/unix"
)

// CPU returns the user and system CPU time consumed by the process so far.
// A failed syscall yields the zero value.
func CPU() core.CPUTime {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return core.CPUTime{}
	}
	return core.CPUTime{
		User:   time.Duration(ru.Utime.Nano()),
		System: time.Duration(ru.Stime.Nano()),
	}
}

func maxRSS() uint64 {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil || ru.Maxrss < 0 {
		return 0
	}
	return uint64(ru.Maxrss) * rssUnit
}

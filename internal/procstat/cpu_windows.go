//go:build windows

package procstat

import (
	"time"

	"github.com/hupe1980/autopsy/core"
	"golang.org/x/sys/windows"
)

// CPU returns the user and kernel CPU time consumed by the process so far.
// A failed syscall yields the zero value.
func CPU() core.CPUTime {
	var creation, exit, kernel, user windows.Filetime
	if err := windows.GetProcessTimes(windows.CurrentProcess(), &creation, &exit, &kernel, &user); err != nil {
		return core.CPUTime{}
	}
	return core.CPUTime{User: filetimeDuration(user), System: filetimeDuration(kernel)}
}

// Filetime durations count 100ns intervals.
func filetimeDuration(ft windows.Filetime) time.Duration {
	return time.Duration((uint64(ft.HighDateTime)<<32 | uint64(ft.LowDateTime)) * 100)
}

func maxRSS() uint64 { return 0 }

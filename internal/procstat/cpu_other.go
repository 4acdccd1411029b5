//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly || windows)

package procstat

import "github.com/hupe1980/autopsy/core"

// CPU is not available on this platform and always returns the zero value.
func CPU() core.CPUTime { return core.CPUTime{} }

func maxRSS() uint64 { return 0 }

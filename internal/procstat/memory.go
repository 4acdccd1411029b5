package procstat

import (
	"runtime"

	"github.com/hupe1980/autopsy/core"
)

// Memory returns a snapshot of the process memory footprint. RSS is the peak
// resident set size where the platform reports it, zero elsewhere.
func Memory() core.MemoryFootprint {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return core.MemoryFootprint{
		RSS:        maxRSS(),
		HeapTotal:  ms.HeapSys,
		HeapUsed:   ms.HeapAlloc,
		Stack:      ms.StackInuse,
		Sys:        ms.Sys,
		Goroutines: runtime.NumGoroutine(),
	}
}

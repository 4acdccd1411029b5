//go:build linux || freebsd || netbsd || openbsd || dragonfly

package procstat

// ru_maxrss is reported in kilobytes.
const rssUnit = 1024

package util

import "strings"

// SplitStack splits a captured stack trace into trimmed, non-empty lines.
func SplitStack(stack []byte) []string {
	if len(stack) == 0 {
		return []string{}
	}
	lines := strings.Split(string(stack), "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// Package stacktrace filters raw goroutine stacks down to frames from this
// repository, keeping panic logs readable.
package stacktrace

import "strings"

// InternalPaths returns internal package stack frames from a raw stack trace.
func InternalPaths(stack []byte) []string {
	lines := strings.Split(string(stack), "\n")

	paths := make([]string, 0, 8)
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, "/internal/") || !strings.Contains(line, ".go:") {
			continue
		}

		end := strings.Index(line, ".go:")
		tail := line[end:]
		if sp := strings.Index(tail, " "); sp != -1 {
			line = line[:end+sp]
		}

		if idx := strings.Index(line, "/internal/"); idx != -1 {
			paths = append(paths, line[idx+1:])
		}
	}

	return paths
}

package errors

import (
	"fmt"
	"strings"
)

// LineContext renders a small window of source lines around line,
// marking the offending line with ">>>". It is attached to an Error via
// WithContext so a reported failure shows the text that caused it
// instead of only a line number.
func LineContext(content string, line int) string {
	if line <= 0 {
		return ""
	}

	lines := strings.Split(content, "\n")
	if line > len(lines) {
		return ""
	}

	start := line - 2
	if start < 1 {
		start = 1
	}
	end := line + 2
	if end > len(lines) {
		end = len(lines)
	}

	var b strings.Builder
	for i := start; i <= end; i++ {
		marker := "   "
		if i == line {
			marker = ">>>"
		}
		fmt.Fprintf(&b, "%s %4d | %s\n", marker, i, lines[i-1])
	}
	return strings.TrimRight(b.String(), "\n")
}

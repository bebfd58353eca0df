package testhelper

import (
	"strings"
	"testing"
)

// TrimIndent removes the indentation of the first content line from every
// line of a raw string literal fixture and drops the leading line break.
// Deeper indentation is kept as-is so tab-indented sources stay intact.
func TrimIndent(t *testing.T, src string) string {
	t.Helper()

	lines := strings.Split(src, "\n")
	if len(lines) < 2 {
		return src
	}
	lines = lines[1:]

	var indent string
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			indent = line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			break
		}
	}

	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, indent)
	}

	// The closing backquote usually sits on its own indented line.
	if last := len(lines) - 1; strings.TrimSpace(lines[last]) == "" {
		lines[last] = ""
	}

	return strings.Join(lines, "\n")
}

// Package testutil provides common testing utilities for UI components.
package testutil

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

// StripANSI removes ANSI escape codes from a string for easier testing.
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// MeasureWidth returns the visual width of a string, ignoring ANSI codes.
func MeasureWidth(s string) int {
	return ansi.StringWidth(s)
}

// FindLine returns the first line containing the given substring, or empty string.
func FindLine(output, substr string) string {
	for line := range strings.SplitSeq(StripANSI(output), "\n") {
		if strings.Contains(line, substr) {
			return line
		}
	}
	return ""
}

// SplitLines strips ANSI codes and splits output into lines, removing
// trailing empty lines.
func SplitLines(output string) []string {
	lines := strings.Split(StripANSI(output), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// AssertFrame fails the test unless output has exactly height lines, none
// wider than width.
func AssertFrame(t testing.TB, output string, width, height int) {
	t.Helper()
	lines := strings.Split(output, "\n")
	if len(lines) != height {
		t.Errorf("frame has %d lines, want %d", len(lines), height)
	}
	for i, line := range lines {
		if w := MeasureWidth(line); w > width {
			t.Errorf("line %d is %d wide, want <= %d: %q", i, w, width, StripANSI(line))
		}
	}
}

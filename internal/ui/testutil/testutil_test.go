package testutil

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestStripANSI(t *testing.T) {
	assert.Equal(t, "red text", StripANSI("\x1b[31mred\x1b[0m text"))
	assert.Equal(t, "plain", StripANSI("plain"))
}

func TestMeasureWidth(t *testing.T) {
	styled := lipgloss.NewStyle().Bold(true).Render("hello")
	assert.Equal(t, 5, MeasureWidth(styled))
	assert.Equal(t, 4, MeasureWidth("坂本"))
}

func TestFindLine(t *testing.T) {
	out := "first\n\x1b[1msecond line\x1b[0m\nthird"
	assert.Equal(t, "second line", FindLine(out, "second"))
	assert.Empty(t, FindLine(out, "missing"))
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitLines("a\nb\n\n  \n"))
	assert.Empty(t, SplitLines(""))
}

func TestAssertFrame(t *testing.T) {
	AssertFrame(t, "ab\ncd", 2, 2)
	AssertFrame(t, "\x1b[1mab\x1b[0m\nc", 2, 2)
}

package render

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"clean string unchanged", "Blue in Green", "Blue in Green"},
		{"tab kept", "a\tb", "a\tb"},
		{"newline removed", "Side A\nSide B", "Side ASide B"},
		{"escape removed", "\x1b[31mred", "[31mred"},
		{"nbsp to space", "So\u00a0What", "So What"},
		{"invalid byte dropped", "caf\xe9", "caf"},
		{"multibyte kept", "Björk — Jóga", "Björk — Jóga"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{"no truncation needed", "hello", 10, "hello"},
		{"exact fit", "hello", 5, "hello"},
		{"truncation with ellipsis", "hello world", 8, "hello..."},
		{"very short max width", "hello", 3, "..."},
		{"empty string", "", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.input, tt.maxWidth); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.want)
			}
		})
	}
}

func TestTruncateEllipsis(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{"no truncation needed", "hello", 10, "hello"},
		{"truncation with single ellipsis", "hello world", 8, "hello w…"},
		{"wide characters", "坂本龍一", 5, "坂本…"},
		{"zero width", "hello", 0, ""},
		{"empty string", "", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateEllipsis(tt.input, tt.maxWidth); got != tt.want {
				t.Errorf("TruncateEllipsis(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.want)
			}
		})
	}
}

func TestTruncateAndPad(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
		want  string
	}{
		{"truncate", "hello world", 8, "hello w…"},
		{"pad", "hi", 5, "hi   "},
		{"wide characters padded", "坂本龍一", 6, "坂本… "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateAndPad(tt.input, tt.width)
			if got != tt.want {
				t.Errorf("TruncateAndPad(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.want)
			}
			if w := lipgloss.Width(got); w != tt.width {
				t.Errorf("TruncateAndPad(%q, %d) width = %d", tt.input, tt.width, w)
			}
		})
	}
}

func TestCenter(t *testing.T) {
	if got := Center("ab", 6); got != "  ab  " {
		t.Errorf("Center() = %q, want %q", got, "  ab  ")
	}
	if got := Center("abc", 6); got != " abc  " {
		t.Errorf("Center() = %q, want %q", got, " abc  ")
	}
	if got := Center("too wide", 3); got != "too wide" {
		t.Errorf("Center() = %q, want input unchanged", got)
	}
}

func TestRow(t *testing.T) {
	tests := []struct {
		name      string
		left      string
		right     string
		width     int
		wantWidth int
	}{
		{"basic row", "left", "right", 20, 20},
		{"tight fit keeps a gap", "left", "right", 5, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Row(tt.left, tt.right, tt.width)
			if w := lipgloss.Width(got); w != tt.wantWidth {
				t.Errorf("Row() width = %d, want %d", w, tt.wantWidth)
			}
			if !strings.HasPrefix(got, tt.left) || !strings.HasSuffix(got, tt.right) {
				t.Errorf("Row() = %q, want %q…%q", got, tt.left, tt.right)
			}
		})
	}
}

func TestSeparatorAndEmptyLine(t *testing.T) {
	if got := Separator(4); got != "────" {
		t.Errorf("Separator(4) = %q", got)
	}
	if got := EmptyLine(3); got != "   " {
		t.Errorf("EmptyLine(3) = %q", got)
	}
	if Separator(-1) != "" || EmptyLine(-1) != "" {
		t.Error("negative widths should give empty strings")
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{9 * time.Second, "0:09"},
		{3*time.Minute + 58*time.Second, "3:58"},
		{59*time.Minute + 59*time.Second + 900*time.Millisecond, "59:59"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
		{-time.Second, "0:00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := Duration(tt.d); got != tt.want {
				t.Errorf("Duration(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}

func plainBox() BoxStyle {
	return BoxStyle{Border: lipgloss.NewStyle(), Title: lipgloss.NewStyle(), Hint: lipgloss.NewStyle()}
}

func TestBox(t *testing.T) {
	got := Box("Queue", "help", 20, []string{"a", "this line is far too long"}, plainBox())
	lines := strings.Split(got, "\n")

	want := []string{
		"╭─ Queue ──────────╮",
		"│a                 │",
		"│this line is far t│",
		"╰────── help ──────╯",
	}
	if len(lines) != len(want) {
		t.Fatalf("Box() has %d lines, want %d:\n%s", len(lines), len(want), got)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestBox_NoTitleNoHint(t *testing.T) {
	got := Box("", "", 6, nil, plainBox())
	want := "╭────╮\n╰────╯"
	if got != want {
		t.Errorf("Box() = %q, want %q", got, want)
	}
}

func TestBox_TooNarrow(t *testing.T) {
	if got := Box("x", "", 1, []string{"a"}, plainBox()); got != "" {
		t.Errorf("Box() = %q, want empty", got)
	}
}

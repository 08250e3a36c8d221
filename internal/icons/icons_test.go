package icons

import (
	"testing"
)

func TestInit(t *testing.T) {
	tests := []struct {
		name          string
		style         string
		expectedStyle Style
	}{
		{"nerd style", "nerd", StyleNerd},
		{"unicode style", "unicode", StyleUnicode},
		{"none style", "none", StyleNone},
		{"empty string defaults to unicode", "", StyleUnicode},
		{"unknown style defaults to unicode", "invalid", StyleUnicode},
		{"case sensitive - NERD defaults to unicode", "NERD", StyleUnicode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Init(tt.style)

			switch tt.expectedStyle {
			case StyleNerd:
				if current != nerdIcons {
					t.Error("expected nerd icons to be active")
				}
			case StyleUnicode:
				if current != unicodeIcons {
					t.Error("expected unicode icons to be active")
				}
			case StyleNone:
				if current != noneIcons {
					t.Error("expected none icons to be active")
				}
			}
		})
	}

	Init("unicode")
}

func TestTransportIcons(t *testing.T) {
	Init("unicode")
	defer Init("unicode")

	if Play() != "⏵" || Pause() != "⏸" || Stop() != "⏹" {
		t.Errorf("unicode transport icons = %q %q %q", Play(), Pause(), Stop())
	}

	Init("none")
	if Play() != ">" || Pause() != "||" {
		t.Errorf("none transport icons = %q %q", Play(), Pause())
	}
	if Volume() != "vol" {
		t.Errorf("Volume() = %q, want %q", Volume(), "vol")
	}
}

func TestFormatGroup(t *testing.T) {
	tests := []struct {
		name    string
		style   string
		members int
		want    string
	}{
		{"none style single", "none", 1, "Kitchen"},
		{"none style group", "none", 3, "Kitchen"},
		{"unicode single", "unicode", 1, "🔈 Kitchen"},
		{"unicode group", "unicode", 2, "🔉 Kitchen"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Init(tt.style)
			defer Init("unicode")

			if got := FormatGroup("Kitchen", tt.members); got != tt.want {
				t.Errorf("FormatGroup() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatPlaylist(t *testing.T) {
	Init("none")
	defer Init("unicode")

	if got := FormatPlaylist("Jazz"); got != "Jazz" {
		t.Errorf("FormatPlaylist() = %q, want %q", got, "Jazz")
	}

	Init("unicode")
	if got := FormatPlaylist("Jazz"); got != "📋 Jazz" {
		t.Errorf("FormatPlaylist() = %q, want %q", got, "📋 Jazz")
	}
}

package ui

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
)

func TestHint(t *testing.T) {
	got := Hint([]key.Help{{Key: "space", Desc: "play/pause"}, {Key: "n", Desc: "next"}})
	if want := "space play/pause • n next"; got != want {
		t.Errorf("Hint() = %q, want %q", got, want)
	}
	if got := Hint(nil); got != "" {
		t.Errorf("Hint(nil) = %q, want empty", got)
	}
}

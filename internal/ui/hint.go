package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// Hint joins help entries into a one-line hint: "space play/pause • n next".
func Hint(entries []key.Help) string {
	parts := make([]string, 0, len(entries))
	for _, h := range entries {
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

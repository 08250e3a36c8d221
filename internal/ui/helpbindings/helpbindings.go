// Package helpbindings renders the key binding overlay.
package helpbindings

import (
	"strings"

	"github.com/llehouerou/sinuous/internal/keymap"
	"github.com/llehouerou/sinuous/internal/ui/popup"
	"github.com/llehouerou/sinuous/internal/ui/styles"
)

// categoryOrder defines the display order of binding categories.
var categoryOrder = []string{"playback", "global", "favorites"}

// categoryLabels maps context names to display labels.
var categoryLabels = map[string]string{
	"playback":  "Playback",
	"global":    "Global",
	"favorites": "Favorites",
}

// Render returns the help dialog centered in a width x height frame.
func Render(width, height int) string {
	d := popup.New()
	d.Title = "Help"
	d.Content = content()
	d.Footer = "? close"
	return d.Render(width, height)
}

func content() string {
	sty := styles.T().S()
	header := sty.Warning.Bold(true)

	maxKeyWidth := 0
	for _, b := range keymap.All {
		maxKeyWidth = max(maxKeyWidth, len(keyList(b)))
	}

	var sb strings.Builder
	for i, ctx := range categoryOrder {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(header.Render(categoryLabels[ctx]))
		sb.WriteString("\n")
		for _, b := range keymap.ByContext(ctx) {
			keys := keyList(b)
			sb.WriteString(sty.HelpKey.Render(keys + strings.Repeat(" ", maxKeyWidth-len(keys))))
			sb.WriteString("  ")
			sb.WriteString(sty.HelpDesc.Render(b.Key.Help().Desc))
			sb.WriteString("\n")
		}
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// keyList names every key routed to the binding's intent, showing the space
// key by name.
func keyList(b keymap.Binding) string {
	var keys []string
	for _, k := range keymap.KeysFor(b.Intent) {
		if k == " " {
			continue
		}
		keys = append(keys, k)
	}
	return strings.Join(keys, ", ")
}

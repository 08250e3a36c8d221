// Package headerbar renders the view tabs above the main panel.
package headerbar

import (
	"strings"

	"github.com/llehouerou/sinuous/internal/ui/render"
	"github.com/llehouerou/sinuous/internal/ui/styles"
	"github.com/llehouerou/sinuous/internal/uistate"
)

// Height is the fixed height of the header bar (single line).
const Height = 1

// tab represents a header bar tab.
type tab struct {
	key  string
	name string
	view uistate.View
}

var tabs = []tab{
	{"1", "Queue", uistate.ViewQueue},
	{"2", "Favorites", uistate.ViewFavorites},
}

// Render returns the header bar for the given width, highlighting current.
func Render(current uistate.View, width int) string {
	if width < 20 {
		return ""
	}
	sty := styles.T().S()

	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		style := sty.TabInactive
		if t.view == current {
			style = sty.TabActive
		}
		parts = append(parts, style.Render(t.key+" "+t.name))
	}
	content := strings.Join(parts, sty.Divider.Render(" │ "))

	return render.Center(content, width)
}

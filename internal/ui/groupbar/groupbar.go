// Package groupbar renders the title line and the group tabs.
package groupbar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/sinuous/internal/icons"
	"github.com/llehouerou/sinuous/internal/ui/render"
	"github.com/llehouerou/sinuous/internal/ui/styles"
	"github.com/llehouerou/sinuous/internal/uistate"
)

// Height is the title line plus the bordered tab row.
const Height = 1 + 3

// Render returns the title line and the group tabs.
func Render(s uistate.State, width int) string {
	return RenderTitle(s, width) + "\n" + RenderTabs(s, width)
}

// RenderTitle renders "Sinuous v1.2.3 -- Playing on Kitchen" with the volume
// on the right.
func RenderTitle(s uistate.State, width int) string {
	sty := styles.T().S()

	name := "Sinuous"
	if s.Version != "" {
		name += " " + s.Version
	}
	left := styles.Brand(name)

	switch {
	case s.ActiveName != "":
		left += sty.Muted.Render(" -- Playing on ") + sty.Success.Render(render.Sanitize(s.ActiveName))
	case s.Phase == uistate.ShuttingDown:
		left += sty.Muted.Render(" -- shutting down")
	default:
		left += sty.Muted.Render(" -- searching for speakers")
	}

	right := ""
	if s.HasSnapshot {
		right = RenderVolume(s.Volume) + " "
	}

	maxLeft := width - lipgloss.Width(right) - 1
	if lipgloss.Width(left) > maxLeft {
		left = lipgloss.NewStyle().MaxWidth(max(maxLeft, 0)).Render(left)
	}
	return render.Row(left, right, width)
}

// RenderVolume renders the volume indicator: "🔊 42".
func RenderVolume(volume int) string {
	return styles.T().S().Muted.Render(fmt.Sprintf("%s %3d", icons.Volume(), volume))
}

// RenderTabs renders the bordered group tabs, the active group highlighted.
// When the tabs do not fit, the row starts at the active group.
func RenderTabs(s uistate.State, width int) string {
	if width < 10 {
		return ""
	}
	sty := styles.T().S()
	inner := width - 2

	names := make([]string, len(s.Groups))
	active := 0
	for i, g := range s.Groups {
		names[i] = icons.FormatGroup(render.Sanitize(g.Name), g.Members)
		if g.Active {
			active = i
		}
	}

	start := 0
	if tabsWidth(names) > inner-2 {
		start = active
	}

	parts := make([]string, 0, len(names))
	if start > 0 {
		parts = append(parts, sty.Subtle.Render("‹"))
	}
	for i := start; i < len(names); i++ {
		style := sty.TabInactive
		if s.Groups[i].Active {
			style = sty.TabActive
		}
		parts = append(parts, style.Render(names[i]))
	}
	line := " " + strings.Join(parts, sty.Divider.Render(" │ "))
	if len(s.Groups) == 0 {
		line = sty.Subtle.Render(" no groups yet")
	}

	return render.Box("Groups", "", width, []string{line}, styles.Panel(false))
}

func tabsWidth(names []string) int {
	w := 0
	for _, n := range names {
		w += lipgloss.Width(n) + 3
	}
	return w
}

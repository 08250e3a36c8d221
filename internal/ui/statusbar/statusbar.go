// Package statusbar renders the bottom line: the error banner, the pending
// command, staleness, or the phase message, with the help hint on the right.
package statusbar

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/sinuous/internal/icons"
	"github.com/llehouerou/sinuous/internal/ui/render"
	"github.com/llehouerou/sinuous/internal/ui/styles"
	"github.com/llehouerou/sinuous/internal/uistate"
)

// Height is the fixed height of the status bar.
const Height = 1

// Render returns the status line for the given width.
func Render(s uistate.State, width int) string {
	sty := styles.T().S()

	right := sty.HelpKey.Render("?") + sty.HelpDesc.Render(" help ")
	if s.ShowHelp {
		right = sty.HelpKey.Render("?") + sty.HelpDesc.Render(" close ")
	}

	maxLeft := max(width-lipgloss.Width(right)-1, 0)
	left := message(s, maxLeft)
	return render.Row(left, right, width)
}

// message picks the most important status, in order: error banner, pending
// command, stale state, phase.
func message(s uistate.State, width int) string {
	sty := styles.T().S()
	text, style := "", sty.Muted

	switch {
	case s.Banner != "":
		text, style = " "+s.Banner, sty.Error
	case s.Pending != "":
		text, style = " "+icons.Pending()+" "+s.Pending, sty.Pending
	case s.Stale:
		text, style = " "+icons.Stale()+" lost contact with the speaker, retrying", sty.Warning
	case s.Phase == uistate.Initializing:
		text = " starting"
	case s.Phase == uistate.Discovering:
		text = " searching for speakers"
	case s.Phase == uistate.ShuttingDown:
		text = " shutting down"
	case s.Phase == uistate.Connected && s.HasSnapshot:
		text = " " + s.Transport.String()
	}
	return style.Render(render.TruncateEllipsis(text, width))
}

// Package surface draws a whole frame from a UiState. Render is pure: the
// same state always gives the same frame.
package surface

import (
	"strings"

	"github.com/llehouerou/sinuous/internal/ui"
	"github.com/llehouerou/sinuous/internal/ui/favorites"
	"github.com/llehouerou/sinuous/internal/ui/groupbar"
	"github.com/llehouerou/sinuous/internal/ui/headerbar"
	"github.com/llehouerou/sinuous/internal/ui/helpbindings"
	"github.com/llehouerou/sinuous/internal/ui/playerbar"
	"github.com/llehouerou/sinuous/internal/ui/popup"
	"github.com/llehouerou/sinuous/internal/ui/queuelist"
	"github.com/llehouerou/sinuous/internal/ui/render"
	"github.com/llehouerou/sinuous/internal/ui/statusbar"
	"github.com/llehouerou/sinuous/internal/ui/styles"
	"github.com/llehouerou/sinuous/internal/uistate"
)

// chrome is the height of everything but the main panel.
const chrome = groupbar.Height + playerbar.Height + headerbar.Height + statusbar.Height

// Render returns the frame for s, sized s.Width x s.Height.
func Render(s uistate.State) string {
	if s.Width <= 0 || s.Height <= 0 {
		return ""
	}
	if s.Width < ui.MinWidth || s.Height < ui.MinHeight {
		return tooSmall(s)
	}

	panelHeight := s.Height - chrome
	var panel string
	if s.View == uistate.ViewFavorites {
		panel = favorites.Render(s, s.Width, panelHeight)
	} else {
		panel = queuelist.Render(s, s.Width, panelHeight)
	}

	frame := strings.Join([]string{
		groupbar.Render(s, s.Width),
		playerbar.Render(playerbar.NewState(s), s.Width),
		headerbar.Render(s.View, s.Width),
		panel,
		statusbar.Render(s, s.Width),
	}, "\n")

	if s.ShowHelp {
		frame = popup.Compose(frame, helpbindings.Render(s.Width, s.Height), s.Width)
	}
	return frame
}

func tooSmall(s uistate.State) string {
	lines := make([]string, s.Height)
	for i := range lines {
		lines[i] = render.EmptyLine(s.Width)
	}
	msg := render.TruncateEllipsis("terminal too small", s.Width)
	lines[s.Height/2] = styles.T().S().Muted.Render(render.Center(msg, s.Width))
	return strings.Join(lines, "\n")
}

// Package favorites renders the speaker's saved playlists with a cursor.
package favorites

import (
	"github.com/llehouerou/sinuous/internal/icons"
	"github.com/llehouerou/sinuous/internal/keymap"
	"github.com/llehouerou/sinuous/internal/ui"
	"github.com/llehouerou/sinuous/internal/ui/cursor"
	"github.com/llehouerou/sinuous/internal/ui/render"
	"github.com/llehouerou/sinuous/internal/ui/styles"
	"github.com/llehouerou/sinuous/internal/uistate"
	"github.com/llehouerou/sinuous/internal/zone"
)

// Render returns the favorites panel with the given outer size.
func Render(s uistate.State, width, height int) string {
	listHeight := height - ui.BorderHeight
	if width < 10 || listHeight < 1 {
		return ""
	}
	innerWidth := width - 2
	sty := styles.T().S()

	var lines []string
	hint := ""
	switch {
	case s.FavoritesLoading && len(s.Favorites) == 0:
		lines = []string{sty.Subtle.Render(render.Center("loading favorites", innerWidth))}
	case len(s.Favorites) == 0:
		lines = []string{sty.Subtle.Render(render.Center("no favorite playlists", innerWidth))}
	default:
		c := cursor.At(s.FavoriteCursor, ui.ScrollMargin, len(s.Favorites), listHeight)
		start, end := c.VisibleRange(len(s.Favorites), listHeight)
		for i := start; i < end; i++ {
			lines = append(lines, favoriteLine(s.Favorites[i], i == c.Pos(), innerWidth))
		}
		hint = ui.Hint(keymap.Help("favorites"))
	}
	for len(lines) < listHeight {
		lines = append(lines, render.EmptyLine(innerWidth))
	}

	return render.Box("Favorite Playlists", hint, width, lines, styles.Panel(s.View == uistate.ViewFavorites))
}

// favoriteLine renders "title - description", marked when under the cursor.
func favoriteLine(f zone.Favorite, selected bool, width int) string {
	sty := styles.T().S()
	prefix := "  "
	if selected {
		prefix = icons.Play() + " "
	}

	text := icons.FormatPlaylist(f.Title)
	if f.Description != "" {
		text += " - " + f.Description
	}
	text = prefix + text

	if selected {
		return sty.Cursor.Render(render.TruncateAndPad(text, width))
	}
	return sty.Base.Render(render.TruncateAndPad(text, width))
}

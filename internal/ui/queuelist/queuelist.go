// Package queuelist renders the queue of the active group with the current
// track highlighted.
package queuelist

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/sinuous/internal/icons"
	"github.com/llehouerou/sinuous/internal/keymap"
	"github.com/llehouerou/sinuous/internal/ui"
	"github.com/llehouerou/sinuous/internal/ui/cursor"
	"github.com/llehouerou/sinuous/internal/ui/render"
	"github.com/llehouerou/sinuous/internal/ui/styles"
	"github.com/llehouerou/sinuous/internal/uistate"
	"github.com/llehouerou/sinuous/internal/zone"
)

// Render returns the queue panel with the given outer size.
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
	case !s.HasSnapshot:
		lines = []string{sty.Subtle.Render(render.Center("waiting for the group state", innerWidth))}
	case len(s.Queue) == 0:
		lines = []string{sty.Subtle.Render(render.Center("queue is empty", innerWidth))}
	default:
		lines = trackLines(s, innerWidth, listHeight)
		hint = ui.Hint(keymap.Help("playback"))
	}
	for len(lines) < listHeight {
		lines = append(lines, render.EmptyLine(innerWidth))
	}

	return render.Box(header(s), hint, width, lines, styles.Panel(s.View == uistate.ViewQueue))
}

func header(s uistate.State) string {
	current := 0
	if s.QueueIndex != zone.NoIndex {
		current = s.QueueIndex + 1
	}
	return fmt.Sprintf("Queue (%d/%d)", current, len(s.Queue))
}

// trackLines renders the window of tracks around the current one.
func trackLines(s uistate.State, width, height int) []string {
	pos := max(s.QueueIndex, 0)
	c := cursor.Centered(pos, len(s.Queue), height)
	start, end := c.VisibleRange(len(s.Queue), height)

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, trackLine(s.Queue[i], i, s.QueueIndex, width))
	}
	return lines
}

// trackLine renders one track: prefix, title and artist columns, duration.
func trackLine(t zone.Track, idx, current, width int) string {
	prefix := "  "
	if idx == current {
		prefix = icons.Play() + " "
	}
	prefixWidth := lipgloss.Width(prefix)

	dur := ""
	if t.Duration > 0 {
		dur = " " + render.Duration(t.Duration)
	}
	durWidth := 8 // " 1:02:03"

	contentWidth := max(width-prefixWidth-durWidth, 2)
	titleWidth := contentWidth / 2
	artistWidth := contentWidth - titleWidth

	title := t.Title
	if title == "" {
		title = "Unknown"
	}
	line := prefix +
		render.TruncateAndPad(title, titleWidth) +
		render.TruncateAndPad(t.Artist, artistWidth) +
		fmt.Sprintf("%*s", durWidth, dur)

	return trackStyle(idx, current).Render(line)
}

func trackStyle(idx, current int) lipgloss.Style {
	sty := styles.T().S()
	switch {
	case idx == current:
		return sty.Playing
	case current != zone.NoIndex && idx < current:
		return sty.Subtle
	default:
		return sty.Base
	}
}

// Package playerbar renders the now-playing panel: track, transport symbol
// and progress.
package playerbar

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/sinuous/internal/icons"
	"github.com/llehouerou/sinuous/internal/ui/render"
	"github.com/llehouerou/sinuous/internal/ui/styles"
	"github.com/llehouerou/sinuous/internal/uistate"
	"github.com/llehouerou/sinuous/internal/zone"
)

// Height is the fixed height of the player bar: border, content, border.
const Height = 3

// State holds everything needed to render the player bar.
type State struct {
	Transport zone.TransportState
	HasTrack  bool
	Title     string
	Artist    string
	Album     string
	Position  time.Duration
	Duration  time.Duration
	Stale     bool
}

// NewState extracts the player bar fields from a UiState.
func NewState(s uistate.State) State {
	if !s.HasSnapshot {
		return State{}
	}
	return State{
		Transport: s.Transport,
		HasTrack:  s.HasTrack,
		Title:     s.Track.Title,
		Artist:    s.Track.Artist,
		Album:     s.Track.Album,
		Position:  s.Position,
		Duration:  s.Track.Duration,
		Stale:     s.Stale,
	}
}

// Render returns the player bar for the given width.
func Render(s State, width int) string {
	if width < 10 {
		return ""
	}
	innerWidth := width - 2

	title := "Nothing currently playing"
	if s.HasTrack {
		title = nowPlaying(s)
	}

	status := statusSymbol(s.Transport)
	timeStr := render.Duration(s.Position) + " / " + render.Duration(s.Duration)
	if s.HasTrack && s.Duration == 0 {
		timeStr = "live"
	}

	// " ⏵  ━━━━───  1:23 / 3:58 "
	fixed := 1 + lipgloss.Width(status) + 2 + 2 + lipgloss.Width(timeStr) + 1
	barWidth := innerWidth - fixed

	var line strings.Builder
	line.WriteString(" ")
	line.WriteString(statusStyle(s).Render(status))
	if barWidth >= 3 {
		line.WriteString("  ")
		line.WriteString(RenderProgressBar(s.Position, s.Duration, barWidth))
	}
	line.WriteString("  ")
	line.WriteString(styles.T().S().Muted.Render(timeStr))

	return render.Box(title, "", width, []string{line.String()}, styles.Panel(false))
}

// nowPlaying formats "artist - album - title", dropping missing parts.
func nowPlaying(s State) string {
	title := s.Title
	if title == "" {
		title = "Unknown Track"
	}
	parts := make([]string, 0, 3)
	if s.Artist != "" {
		parts = append(parts, s.Artist)
	}
	if s.Album != "" {
		parts = append(parts, s.Album)
	}
	return strings.Join(append(parts, title), " - ")
}

func statusSymbol(st zone.TransportState) string {
	switch st {
	case zone.Playing:
		return icons.Play()
	case zone.Paused:
		return icons.Pause()
	default:
		return icons.Stop()
	}
}

func statusStyle(s State) lipgloss.Style {
	sty := styles.T().S()
	switch {
	case s.Stale:
		return sty.Warning
	case s.Transport == zone.Playing:
		return sty.Playing
	default:
		return sty.Muted
	}
}

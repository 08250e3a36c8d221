package playerbar

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/llehouerou/sinuous/internal/icons"
	"github.com/llehouerou/sinuous/internal/ui/testutil"
	"github.com/llehouerou/sinuous/internal/uistate"
	"github.com/llehouerou/sinuous/internal/zone"
)

func playing() State {
	return State{
		Transport: zone.Playing,
		HasTrack:  true,
		Title:     "So What",
		Artist:    "Miles Davis",
		Album:     "Kind of Blue",
		Position:  83 * time.Second,
		Duration:  9*time.Minute + 22*time.Second,
	}
}

func TestRender_Playing(t *testing.T) {
	icons.Init("unicode")
	out := testutil.StripANSI(Render(playing(), 80))
	lines := strings.Split(out, "\n")

	assert.Len(t, lines, Height)
	assert.Contains(t, lines[0], "Miles Davis - Kind of Blue - So What")
	assert.Contains(t, lines[1], "⏵")
	assert.Contains(t, lines[1], "1:23 / 9:22")
	assert.Contains(t, lines[1], "━")
	for _, l := range lines {
		assert.Equal(t, 80, testutil.MeasureWidth(l))
	}
}

func TestRender_PausedSymbol(t *testing.T) {
	icons.Init("unicode")
	s := playing()
	s.Transport = zone.Paused

	out := testutil.StripANSI(Render(s, 60))
	assert.Contains(t, out, "⏸")
	assert.NotContains(t, out, "⏵")
}

func TestRender_NothingPlaying(t *testing.T) {
	out := testutil.StripANSI(Render(State{}, 60))

	assert.Contains(t, out, "Nothing currently playing")
	assert.Contains(t, out, "0:00 / 0:00")
}

func TestRender_Stream(t *testing.T) {
	s := playing()
	s.Duration = 0
	s.Position = 0

	out := testutil.StripANSI(Render(s, 60))
	assert.Contains(t, out, "live")
}

func TestRender_MissingMetadata(t *testing.T) {
	s := State{Transport: zone.Playing, HasTrack: true, Duration: time.Minute}
	out := testutil.StripANSI(Render(s, 60))
	assert.Contains(t, out, "Unknown Track")
}

func TestRender_TooNarrow(t *testing.T) {
	assert.Empty(t, Render(playing(), 5))
}

func TestFilled(t *testing.T) {
	tests := []struct {
		name     string
		pos, dur time.Duration
		width    int
		want     int
	}{
		{"start", 0, time.Minute, 10, 0},
		{"half", 30 * time.Second, time.Minute, 10, 5},
		{"end", time.Minute, time.Minute, 10, 10},
		{"past end", 2 * time.Minute, time.Minute, 10, 10},
		{"no duration", 30 * time.Second, 0, 10, 0},
		{"no width", 30 * time.Second, time.Minute, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filled(tt.pos, tt.dur, tt.width))
		})
	}
}

func TestNewState(t *testing.T) {
	assert.Equal(t, State{}, NewState(uistate.State{Transport: zone.Playing}))

	s := NewState(uistate.State{
		HasSnapshot: true,
		Transport:   zone.Paused,
		HasTrack:    true,
		Track:       zone.Track{Title: "T", Artist: "A", Album: "B", Duration: time.Minute},
		Position:    10 * time.Second,
		Stale:       true,
	})
	assert.Equal(t, State{
		Transport: zone.Paused,
		HasTrack:  true,
		Title:     "T",
		Artist:    "A",
		Album:     "B",
		Position:  10 * time.Second,
		Duration:  time.Minute,
		Stale:     true,
	}, s)
}

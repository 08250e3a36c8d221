package surface

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/llehouerou/sinuous/internal/icons"
	"github.com/llehouerou/sinuous/internal/ui/testutil"
	"github.com/llehouerou/sinuous/internal/uistate"
	"github.com/llehouerou/sinuous/internal/zone"
)

var song = zone.Track{URI: "x-file:1", Title: "Hyperballad", Artist: "Björk", Album: "Post", Duration: 5*time.Minute + 21*time.Second}

func connected() uistate.State {
	return uistate.State{
		Phase:       uistate.Connected,
		Version:     "v0.3.0",
		Width:       80,
		Height:      24,
		Groups:      []uistate.GroupEntry{{ID: "A", Name: "Kitchen", Members: 1, Active: true}},
		ActiveName:  "Kitchen",
		HasSnapshot: true,
		Transport:   zone.Playing,
		HasTrack:    true,
		Track:       song,
		Position:    time.Minute,
		Volume:      30,
		Queue:       []zone.Track{song},
		QueueIndex:  0,
	}
}

func TestRender_FrameSize(t *testing.T) {
	icons.Init("unicode")
	for _, size := range [][2]int{{80, 24}, {30, 12}, {200, 60}} {
		s := connected()
		s.Width, s.Height = size[0], size[1]
		testutil.AssertFrame(t, Render(s), size[0], size[1])
	}
}

func TestRender_Connected(t *testing.T) {
	out := Render(connected())

	assert.NotEmpty(t, testutil.FindLine(out, "Playing on Kitchen"))
	assert.NotEmpty(t, testutil.FindLine(out, "Björk - Post - Hyperballad"))
	assert.NotEmpty(t, testutil.FindLine(out, "1:00 / 5:21"))
	assert.NotEmpty(t, testutil.FindLine(out, "Queue (1/1)"))
	assert.NotEmpty(t, testutil.FindLine(out, "1 Queue │ 2 Favorites"))
}

func TestRender_Pure(t *testing.T) {
	s := connected()
	assert.Equal(t, Render(s), Render(s))
}

func TestRender_FavoritesView(t *testing.T) {
	s := connected()
	s.View = uistate.ViewFavorites
	s.Favorites = []zone.Favorite{{Title: "Morning", Description: "Sonos Playlist"}}

	out := Render(s)
	assert.NotEmpty(t, testutil.FindLine(out, "Favorite Playlists"))
	assert.NotEmpty(t, testutil.FindLine(out, "Morning"))
	assert.Empty(t, testutil.FindLine(out, "Queue (1/1)"))
}

func TestRender_Discovering(t *testing.T) {
	s := uistate.State{Phase: uistate.Discovering, Width: 80, Height: 24, QueueIndex: zone.NoIndex}
	out := Render(s)

	testutil.AssertFrame(t, out, 80, 24)
	assert.NotEmpty(t, testutil.FindLine(out, "searching for speakers"))
	assert.NotEmpty(t, testutil.FindLine(out, "Nothing currently playing"))
}

func TestRender_HelpOverlay(t *testing.T) {
	s := connected()
	s.Height = 40
	s.ShowHelp = true

	out := Render(s)
	testutil.AssertFrame(t, out, 80, 40)
	assert.NotEmpty(t, testutil.FindLine(out, "next group"))
}

func TestRender_TooSmall(t *testing.T) {
	s := connected()
	s.Width, s.Height = 20, 5

	out := Render(s)
	testutil.AssertFrame(t, out, 20, 5)
	assert.NotEmpty(t, testutil.FindLine(out, "terminal too"))
}

func TestRender_Unsized(t *testing.T) {
	s := connected()
	s.Width, s.Height = 0, 0
	assert.Empty(t, Render(s))
}

// Package uistate defines the read-only view handed to the draw surface.
// A State is rebuilt from scratch on every event loop step and never
// mutated afterwards.
package uistate

import (
	"slices"
	"time"

	"github.com/llehouerou/sinuous/internal/zone"
)

// Phase is the event loop state.
type Phase int

const (
	Initializing Phase = iota
	Discovering
	Connected
	ShuttingDown
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case Initializing:
		return "initializing"
	case Discovering:
		return "discovering"
	case Connected:
		return "connected"
	case ShuttingDown:
		return "shutting down"
	default:
		return "unknown"
	}
}

// View selects the main panel.
type View int

const (
	ViewQueue View = iota
	ViewFavorites
)

// GroupEntry is one group as listed in the group bar.
type GroupEntry struct {
	ID      string
	Name    string
	Members int
	Active  bool
}

// State is everything the surface needs to draw one frame.
type State struct {
	Phase   Phase
	Version string
	Width   int
	Height  int

	Groups     []GroupEntry
	ActiveName string

	HasSnapshot bool
	Transport   zone.TransportState
	HasTrack    bool
	Track       zone.Track
	Position    time.Duration // whole seconds
	Volume      int
	Queue       []zone.Track
	QueueIndex  int

	View             View
	Favorites        []zone.Favorite
	FavoritesLoading bool
	FavoriteCursor   int

	Pending  string // label of the command awaiting confirmation
	Banner   string // transient error text
	Stale    bool   // state could not be refreshed for a while
	ShowHelp bool
}

// Playing reports whether the active group is playing.
func (s State) Playing() bool {
	return s.HasSnapshot && s.Transport == zone.Playing
}

// Equal reports whether two states would draw the same frame.
func (s State) Equal(o State) bool {
	return s.Phase == o.Phase &&
		s.Version == o.Version &&
		s.Width == o.Width &&
		s.Height == o.Height &&
		slices.Equal(s.Groups, o.Groups) &&
		s.ActiveName == o.ActiveName &&
		s.HasSnapshot == o.HasSnapshot &&
		s.Transport == o.Transport &&
		s.HasTrack == o.HasTrack &&
		s.Track == o.Track &&
		s.Position == o.Position &&
		s.Volume == o.Volume &&
		slices.Equal(s.Queue, o.Queue) &&
		s.QueueIndex == o.QueueIndex &&
		s.View == o.View &&
		slices.Equal(s.Favorites, o.Favorites) &&
		s.FavoritesLoading == o.FavoritesLoading &&
		s.FavoriteCursor == o.FavoriteCursor &&
		s.Pending == o.Pending &&
		s.Banner == o.Banner &&
		s.Stale == o.Stale &&
		s.ShowHelp == o.ShowHelp
}

// Input collects the event loop state a State is derived from.
type Input struct {
	Phase   Phase
	Version string
	Width   int
	Height  int

	Groups   []zone.Group
	ActiveID string
	Snapshot *zone.Snapshot // nil until the first snapshot of the attachment

	View             View
	Favorites        []zone.Favorite
	FavoritesLoading bool
	FavoriteCursor   int

	Pending  string
	Banner   string
	ShowHelp bool

	Now time.Time
}

// Build derives a State. It is pure: equal inputs give equal states. While
// playing, the position is extrapolated from the snapshot observation time
// to now and truncated to whole seconds.
func Build(in Input) State {
	s := State{
		Phase:            in.Phase,
		Version:          in.Version,
		Width:            in.Width,
		Height:           in.Height,
		QueueIndex:       zone.NoIndex,
		View:             in.View,
		Favorites:        in.Favorites,
		FavoritesLoading: in.FavoritesLoading,
		Pending:          in.Pending,
		Banner:           in.Banner,
		ShowHelp:         in.ShowHelp,
	}

	s.Groups = make([]GroupEntry, 0, len(in.Groups))
	for _, g := range in.Groups {
		active := g.ID == in.ActiveID
		s.Groups = append(s.Groups, GroupEntry{ID: g.ID, Name: g.Name(), Members: max(len(g.Members), 1), Active: active})
		if active {
			s.ActiveName = g.Name()
		}
	}

	if n := len(in.Favorites); n > 0 {
		s.FavoriteCursor = max(0, min(in.FavoriteCursor, n-1))
	}

	if snap := in.Snapshot; snap != nil && snap.GroupID == in.ActiveID {
		s.HasSnapshot = true
		s.Transport = snap.State
		s.HasTrack = snap.HasTrack
		s.Track = snap.Current
		s.Volume = snap.Volume
		s.Queue = snap.Queue
		s.QueueIndex = snap.QueueIndex
		s.Stale = snap.Escalated
		s.Position = position(*snap, in.Now)
	}
	return s
}

func position(snap zone.Snapshot, now time.Time) time.Duration {
	pos := snap.Position
	if snap.State == zone.Playing && !snap.Stale && now.After(snap.ObservedAt) {
		pos += now.Sub(snap.ObservedAt)
	}
	if d := snap.Current.Duration; d == 0 {
		pos = 0
	} else if pos > d {
		pos = d
	}
	return pos.Truncate(time.Second)
}

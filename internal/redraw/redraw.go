// Package redraw decides when the surface must be redrawn.
package redraw

import (
	"time"

	"github.com/llehouerou/sinuous/internal/uistate"
)

// Scheduler remembers the last drawn state and when it was drawn. It is
// owned by the event loop and not safe for concurrent use.
type Scheduler struct {
	// MinTickGap is the shortest time between the previous frame and a
	// frame drawn only because the position tick fired.
	MinTickGap time.Duration

	last   uistate.State
	lastAt time.Time
	drawn  bool
}

// ShouldDraw reports whether next must be drawn: it differs structurally
// from the last drawn state, or the position tick fired while playing and
// the previous frame is at least MinTickGap old.
func (s *Scheduler) ShouldDraw(next uistate.State, now time.Time, tick bool) bool {
	switch {
	case !s.drawn:
		return true
	case !next.Equal(s.last):
		return true
	case tick && next.Playing():
		return now.Sub(s.lastAt) >= s.MinTickGap
	default:
		return false
	}
}

// Mark records that state was drawn at now.
func (s *Scheduler) Mark(state uistate.State, now time.Time) {
	s.last = state
	s.lastAt = now
	s.drawn = true
}

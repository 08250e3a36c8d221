package app

import (
	"time"

	"github.com/llehouerou/sinuous/internal/ui/surface"
)

// View implements tea.Model. It returns the frame built by the last redraw.
func (m Model) View() string {
	return m.frame
}

// draw publishes the current state and rebuilds the frame when the
// scheduler asks for it.
func (m *Model) draw(tick bool) {
	now := time.Now()
	s := m.State(now)
	if m.deps.Published != nil {
		m.deps.Published.Store(s)
	}
	if !m.sched.ShouldDraw(s, now, tick) {
		return
	}
	m.frame = surface.Render(s)
	m.sched.Mark(s, now)
}

package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/sinuous/internal/ui/render"
)

// Panel returns the box style of a panel. The panel of the active view is
// drawn with the focus color.
func Panel(focused bool) render.BoxStyle {
	t := T()
	border := t.Border
	if focused {
		border = t.BorderFocus
	}
	return render.BoxStyle{
		Border: lipgloss.NewStyle().Foreground(border),
		Title:  t.S().Title,
		Hint:   t.S().Subtle,
	}
}

package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
)

func TestApplyGradient_KeepsText(t *testing.T) {
	tests := []string{"", "S", "Sinuous", "Café ☕"}
	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			got := ApplyBoldGradient(text, "#a78bfa", "#f1a208")
			assert.Equal(t, text, ansi.Strip(got))
		})
	}
}

func TestBlend_Endpoints(t *testing.T) {
	colors := blend(5, "#000000", "#ffffff")

	assert.Len(t, colors, 5)
	black, _ := colorful.Hex("#000000")
	white, _ := colorful.Hex("#ffffff")
	assert.Less(t, colors[0].DistanceRgb(black), 0.01)
	assert.Less(t, colors[4].DistanceRgb(white), 0.01)
}

func TestToColorful_ANSIFallsBackToGray(t *testing.T) {
	c := toColorful(lipgloss.Color("240"))
	assert.InDelta(t, 0.5, c.R, 0.001)
}

func TestPanel_FocusColor(t *testing.T) {
	assert.Equal(t, T().BorderFocus, Panel(true).Border.GetForeground())
	assert.Equal(t, T().Border, Panel(false).Border.GetForeground())
}

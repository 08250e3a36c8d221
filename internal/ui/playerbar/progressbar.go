package playerbar

import (
	"strings"
	"time"

	"github.com/llehouerou/sinuous/internal/ui/styles"
)

const (
	filledBlock = "━"
	emptyBlock  = "─"
)

// RenderProgressBar renders a line-style progress bar of exactly width cells.
func RenderProgressBar(position, duration time.Duration, width int) string {
	filled := Filled(position, duration, width)
	sty := styles.T().S()
	return sty.ProgressFilled.Render(strings.Repeat(filledBlock, filled)) +
		sty.ProgressEmpty.Render(strings.Repeat(emptyBlock, width-filled))
}

// Filled returns how many of width cells represent position within duration.
func Filled(position, duration time.Duration, width int) int {
	if duration <= 0 || width <= 0 || position <= 0 {
		return 0
	}
	return min(int(float64(width)*float64(position)/float64(duration)), width)
}

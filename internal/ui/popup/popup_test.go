package popup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/llehouerou/sinuous/internal/ui/testutil"
)

func TestDialog_Render(t *testing.T) {
	d := New()
	d.Title = "Help"
	d.Content = "space  play/pause\nn      next"
	d.Footer = "? close"

	out := d.Render(40, 12)
	lines := strings.Split(out, "\n")

	assert.LessOrEqual(t, len(lines), 12)
	assert.NotEmpty(t, testutil.FindLine(out, "Help"))
	assert.NotEmpty(t, testutil.FindLine(out, "space  play/pause"))
	assert.NotEmpty(t, testutil.FindLine(out, "? close"))
	for _, l := range lines {
		assert.LessOrEqual(t, testutil.MeasureWidth(l), 40)
	}
}

func TestDialog_RenderCutsTallContent(t *testing.T) {
	d := New()
	d.Content = strings.Repeat("line\n", 30) + "last"

	out := d.Render(40, 10)
	assert.LessOrEqual(t, len(strings.Split(out, "\n")), 10)
	assert.Empty(t, testutil.FindLine(out, "last"))
}

func TestCenter(t *testing.T) {
	out := Center("ab\ncd", 6, 4)
	assert.Equal(t, "\n  ab\n  cd", out)
}

func TestCompose(t *testing.T) {
	base := "aaaaaa\nbbbbbb\ncccccc"
	overlay := "\n  XY\n"

	got := Compose(base, overlay, 6)
	assert.Equal(t, "aaaaaa\nbbXYbb\ncccccc", got)
}

func TestCompose_PadsShortBase(t *testing.T) {
	got := Compose("a", "   Z", 5)
	assert.Equal(t, "a  Z ", got)
}

func TestCompose_WideCharacterAtOverlayEdge(t *testing.T) {
	base := "漢漢漢漢"
	got := Compose(base, "  X", 8)
	assert.Equal(t, "漢X漢漢 ", got)

	for width := 8; width <= 12; width++ {
		for col := 0; col < 6; col++ {
			overlay := strings.Repeat(" ", col) + "XY"
			row := Compose(base+"a漢", overlay, width)
			assert.Equal(t, width, testutil.MeasureWidth(row), "width %d, overlay at %d", width, col)
		}
	}
}

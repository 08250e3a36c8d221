// Package popup renders centered dialogs and composes them over a frame.
package popup

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/llehouerou/sinuous/internal/ui/render"
	"github.com/llehouerou/sinuous/internal/ui/styles"
)

// Style configures the popup appearance.
type Style struct {
	Border      lipgloss.Border
	BorderColor lipgloss.Color
	TitleStyle  lipgloss.Style
	FooterStyle lipgloss.Style
}

// DefaultStyle returns the default popup style.
func DefaultStyle() Style {
	t := styles.T()
	return Style{
		Border:      lipgloss.RoundedBorder(),
		BorderColor: t.BorderFocus,
		TitleStyle:  t.S().Title,
		FooterStyle: t.S().Subtle,
	}
}

// Dialog is a centered popup with title, content, and footer.
type Dialog struct {
	Title   string
	Content string
	Footer  string
	Style   Style
}

// New creates a new dialog with default style.
func New() *Dialog {
	return &Dialog{Style: DefaultStyle()}
}

// Render returns the dialog centered in a termWidth x termHeight area, ready
// to be composed over a frame. Content taller than the area is cut.
func (p *Dialog) Render(termWidth, termHeight int) string {
	style := p.Style

	contentWidth := max(maxLineWidth(p.Content), lipgloss.Width(p.Title), lipgloss.Width(p.Footer))
	innerWidth := min(contentWidth, max(termWidth-4, 1))

	lines := make([]string, 0, strings.Count(p.Content, "\n")+5)
	if p.Title != "" {
		lines = append(lines, render.Center(style.TitleStyle.Render(p.Title), innerWidth), "")
	}
	body := strings.Split(p.Content, "\n")
	chrome := 2 + len(lines)
	if p.Footer != "" {
		chrome += 2
	}
	if room := termHeight - chrome; room >= 1 && len(body) > room {
		body = body[:room]
	}
	for _, line := range body {
		lines = append(lines, fitLine(line, innerWidth))
	}
	if p.Footer != "" {
		lines = append(lines, "", render.Center(style.FooterStyle.Render(p.Footer), innerWidth))
	}

	box := lipgloss.NewStyle().
		Border(style.Border).
		BorderForeground(style.BorderColor).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))

	return Center(box, termWidth, termHeight)
}

func maxLineWidth(s string) int {
	maxW := 0
	for line := range strings.SplitSeq(s, "\n") {
		maxW = max(maxW, lipgloss.Width(line))
	}
	return maxW
}

func fitLine(s string, width int) string {
	if lipgloss.Width(s) > width {
		return ansi.Truncate(s, width, "…")
	}
	return s + strings.Repeat(" ", width-lipgloss.Width(s))
}

// Center places pre-rendered content in the middle of the terminal.
func Center(content string, termWidth, termHeight int) string {
	lines := strings.Split(content, "\n")
	boxWidth := maxLineWidth(content)

	padTop := max((termHeight-len(lines))/2, 0)
	padLeft := strings.Repeat(" ", max((termWidth-boxWidth)/2, 0))

	var b strings.Builder
	for range padTop {
		b.WriteString("\n")
	}
	for i, line := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(padLeft)
		b.WriteString(line)
	}
	return b.String()
}

// Compose overlays a popup on top of a base frame. Non-space cells of the
// overlay replace the base at the same position; the rest of the base stays
// visible. ANSI styling on both sides is preserved.
func Compose(base, overlay string, width int) string {
	baseLines := strings.Split(base, "\n")
	overlayLines := strings.Split(overlay, "\n")

	for i, overlayLine := range overlayLines {
		if i >= len(baseLines) {
			break
		}
		plain := ansi.Strip(overlayLine)
		if strings.TrimSpace(plain) == "" {
			continue
		}

		startCol := len(plain) - len(strings.TrimLeft(plain, " "))
		endCol := ansi.StringWidth(strings.TrimRight(plain, " "))
		content := ansi.Cut(overlayLine, startCol, endCol)

		baseLine := baseLines[i]
		if w := ansi.StringWidth(baseLine); w < width {
			baseLine += strings.Repeat(" ", width-w)
		}

		// Cutting through a wide character leaves the row short; pad it back.
		prefix := ansi.Cut(baseLine, 0, startCol)
		if w := ansi.StringWidth(prefix); w < startCol {
			prefix += strings.Repeat(" ", startCol-w)
		}
		result := prefix + content
		if endCol < width {
			suffix := ansi.Truncate(ansi.Cut(baseLine, endCol, width), width-endCol, "")
			if w := ansi.StringWidth(suffix); w < width-endCol {
				suffix += strings.Repeat(" ", width-endCol-w)
			}
			result += suffix
		}
		baseLines[i] = result
	}

	return strings.Join(baseLines, "\n")
}

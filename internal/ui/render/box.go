package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BoxStyle styles the parts of a Box.
type BoxStyle struct {
	Border lipgloss.Style
	Title  lipgloss.Style
	Hint   lipgloss.Style
}

// Box draws lines inside a rounded border of the given outer width. The title
// is embedded in the top border, the hint centered in the bottom border.
// Lines wider than the inner width are cut; shorter ones are padded.
func Box(title, hint string, width int, lines []string, st BoxStyle) string {
	inner := width - 2
	if inner < 1 {
		return ""
	}
	b := lipgloss.RoundedBorder()

	var out strings.Builder
	out.WriteString(topBorder(title, inner, b, st))
	for _, line := range lines {
		out.WriteByte('\n')
		out.WriteString(st.Border.Render(b.Left))
		out.WriteString(fit(line, inner))
		out.WriteString(st.Border.Render(b.Right))
	}
	out.WriteByte('\n')
	out.WriteString(bottomBorder(hint, inner, b, st))
	return out.String()
}

func topBorder(title string, inner int, b lipgloss.Border, st BoxStyle) string {
	title = TruncateEllipsis(title, inner-4)
	if title == "" {
		return st.Border.Render(b.TopLeft + strings.Repeat(b.Top, inner) + b.TopRight)
	}
	// ╭─ Title ───╮
	fill := inner - lipgloss.Width(title) - 3
	return st.Border.Render(b.TopLeft+b.Top+" ") +
		st.Title.Render(title) +
		st.Border.Render(" "+strings.Repeat(b.Top, max(fill, 0))+b.TopRight)
}

func bottomBorder(hint string, inner int, b lipgloss.Border, st BoxStyle) string {
	hint = TruncateEllipsis(hint, inner-4)
	if hint == "" {
		return st.Border.Render(b.BottomLeft + strings.Repeat(b.Bottom, inner) + b.BottomRight)
	}
	w := lipgloss.Width(hint) + 2
	left := (inner - w) / 2
	right := inner - w - left
	return st.Border.Render(b.BottomLeft+strings.Repeat(b.Bottom, left)+" ") +
		st.Hint.Render(hint) +
		st.Border.Render(" "+strings.Repeat(b.Bottom, right)+b.BottomRight)
}

// fit pads or cuts a possibly styled line to exactly width cells.
func fit(line string, width int) string {
	w := lipgloss.Width(line)
	switch {
	case w == width:
		return line
	case w < width:
		return line + strings.Repeat(" ", width-w)
	default:
		return lipgloss.NewStyle().MaxWidth(width).Render(line)
	}
}

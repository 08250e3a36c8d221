package styles

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette and pre-built styles for the application.
type Theme struct {
	// Brand/accent colors
	Primary   lipgloss.Color // Purple - active group, current track
	Secondary lipgloss.Color // Gold/orange - title gradient end, pending

	// Text hierarchy (most to least prominent)
	FgBase   lipgloss.Color
	FgMuted  lipgloss.Color
	FgSubtle lipgloss.Color

	BgCursor lipgloss.Color // favorites cursor

	Border      lipgloss.Color
	BorderFocus lipgloss.Color // panel of the active view

	// Status colors
	Success lipgloss.Color // progress bar
	Error   lipgloss.Color // error banner
	Warning lipgloss.Color // stale state

	styles *Styles
}

// Styles contains pre-built lipgloss styles for common UI patterns.
type Styles struct {
	Base    lipgloss.Style
	Muted   lipgloss.Style
	Subtle  lipgloss.Style
	Title   lipgloss.Style
	Playing lipgloss.Style // current track in the queue
	Cursor  lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Pending lipgloss.Style

	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	Divider     lipgloss.Style

	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style

	ProgressFilled lipgloss.Style
	ProgressEmpty  lipgloss.Style
}

var defaultTheme = Theme{
	Primary:   lipgloss.Color("#a78bfa"),
	Secondary: lipgloss.Color("#f1a208"),

	FgBase:   lipgloss.Color("#c0c0c0"),
	FgMuted:  lipgloss.Color("#808080"),
	FgSubtle: lipgloss.Color("#585858"),

	BgCursor: lipgloss.Color("#303030"),

	Border:      lipgloss.Color("#585858"),
	BorderFocus: lipgloss.Color("#a78bfa"),

	Success: lipgloss.Color("#42b883"),
	Error:   lipgloss.Color("#ff5555"),
	Warning: lipgloss.Color("#f1a208"),
}

// T returns the default theme.
func T() *Theme {
	return &defaultTheme
}

// S returns the pre-built styles for this theme.
func (t *Theme) S() *Styles {
	if t.styles == nil {
		t.styles = t.buildStyles()
	}
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	base := lipgloss.NewStyle().Foreground(t.FgBase)
	muted := lipgloss.NewStyle().Foreground(t.FgMuted)

	return &Styles{
		Base:   base,
		Muted:  muted,
		Subtle: lipgloss.NewStyle().Foreground(t.FgSubtle),
		Title:  base.Bold(true),
		Playing: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),
		Cursor: lipgloss.NewStyle().
			Background(t.BgCursor).
			Foreground(t.FgBase),
		Success: lipgloss.NewStyle().Foreground(t.Success),
		Error:   lipgloss.NewStyle().Foreground(t.Error).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(t.Warning),
		Pending: lipgloss.NewStyle().Foreground(t.Secondary).Italic(true),

		TabActive:   lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		TabInactive: muted,
		Divider:     lipgloss.NewStyle().Foreground(t.Border),

		HelpKey:  lipgloss.NewStyle().Foreground(t.Secondary),
		HelpDesc: muted,

		ProgressFilled: lipgloss.NewStyle().Foreground(t.Success),
		ProgressEmpty:  lipgloss.NewStyle().Foreground(t.FgSubtle),
	}
}

package icons

// Style represents the icon style to use.
type Style string

const (
	StyleNerd    Style = "nerd"
	StyleUnicode Style = "unicode"
	StyleNone    Style = "none"
)

// Icons holds the icon characters for the current style.
type Icons struct {
	Play     string
	Pause    string
	Stop     string
	Speaker  string
	Group    string
	Playlist string
	Volume   string
	Stale    string
	Pending  string
}

var (
	nerdIcons = Icons{
		Play:     "\uf04b",       // nf-fa-play
		Pause:    "\uf04c",       // nf-fa-pause
		Stop:     "\uf04d",       // nf-fa-stop
		Speaker:  "\U000F04C3 ", // nf-md-speaker
		Group:    "\U000F0D38 ", // nf-md-speaker_multiple
		Playlist: "\U000F0CB8 ", // nf-md-playlist_music
		Volume:   "\U000F057E",  // nf-md-volume_high
		Stale:    "\U000F05AA",  // nf-md-wifi_off
		Pending:  "\U000F051F",  // nf-md-timer_sand
	}

	unicodeIcons = Icons{
		Play:     "⏵",
		Pause:    "⏸",
		Stop:     "⏹",
		Speaker:  "🔈 ",
		Group:    "🔉 ",
		Playlist: "📋 ",
		Volume:   "🔊",
		Stale:    "⚠",
		Pending:  "…",
	}

	noneIcons = Icons{
		Play:     ">",
		Pause:    "||",
		Stop:     "[]",
		Speaker:  "",
		Group:    "",
		Playlist: "",
		Volume:   "vol",
		Stale:    "!",
		Pending:  "~",
	}

	// current holds the active icon set
	current = unicodeIcons
)

// Init initializes the icons based on the style.
// Call this once at startup with the config value.
func Init(style string) {
	switch Style(style) {
	case StyleNerd:
		current = nerdIcons
	case StyleUnicode:
		current = unicodeIcons
	case StyleNone:
		current = noneIcons
	default:
		current = unicodeIcons
	}
}

// Play returns the playing indicator.
func Play() string {
	return current.Play
}

// Pause returns the paused indicator.
func Pause() string {
	return current.Pause
}

// Stop returns the stopped indicator.
func Stop() string {
	return current.Stop
}

// Volume returns the volume indicator.
func Volume() string {
	return current.Volume
}

// Stale returns the indicator shown while the state cannot be refreshed.
func Stale() string {
	return current.Stale
}

// Pending returns the indicator shown while a command awaits confirmation.
func Pending() string {
	return current.Pending
}

// FormatGroup formats a group name with the appropriate icon. Groups with
// more than one member get a distinct icon.
func FormatGroup(name string, members int) string {
	if current == noneIcons {
		return name
	}
	if members > 1 {
		return current.Group + name
	}
	return current.Speaker + name
}

// FormatPlaylist formats a favorite playlist name with the appropriate icon.
func FormatPlaylist(name string) string {
	if current == noneIcons {
		return name
	}
	return current.Playlist + name
}

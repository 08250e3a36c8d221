package keymap

import "github.com/charmbracelet/bubbles/key"

// Binding ties an intent to its keys and help text.
type Binding struct {
	Intent  Intent
	Key     key.Binding
	Context string // "global", "playback", "favorites"
}

func bind(intent Intent, context, help string, keys ...string) Binding {
	return bindLabel(intent, context, keys[0], help, keys...)
}

// bindLabel is bind with a help key label other than the first key.
func bindLabel(intent Intent, context, label, help string, keys ...string) Binding {
	return Binding{
		Intent:  intent,
		Key:     key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, help)),
		Context: context,
	}
}

// All contains every key binding, in help order.
var All = []Binding{
	// Playback
	bind(IntentPlayPause, "playback", "play/pause", "space", " "),
	bind(IntentNext, "playback", "next", "n"),
	bind(IntentPrevious, "playback", "prev", "p"),
	bind(IntentVolumeDown, "playback", "vol-", "["),
	bind(IntentVolumeUp, "playback", "vol+", "]"),

	// Global
	bind(IntentSwitchGroupNext, "global", "next group", "tab"),
	bind(IntentSwitchGroupPrev, "global", "prev group", "shift+tab"),
	bind(IntentViewQueue, "global", "queue", "1"),
	bind(IntentViewFavorites, "global", "favorites", "2"),
	bind(IntentToggleHelp, "global", "help", "?"),
	bind(IntentQuit, "global", "quit", "q", "ctrl+c"),

	// Favorites
	bindLabel(IntentCursorUp, "favorites", "↑/k", "up", "up", "k"),
	bindLabel(IntentCursorDown, "favorites", "↓/j", "down", "down", "j"),
	bind(IntentActivate, "favorites", "play", "enter"),
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, b := range All {
		if b.Context == context {
			result = append(result, b)
		}
	}
	return result
}

// Help returns the help entries of a context for display.
func Help(context string) []key.Help {
	bindings := ByContext(context)
	out := make([]key.Help, 0, len(bindings))
	for _, b := range bindings {
		out = append(out, b.Key.Help())
	}
	return out
}

// Package keymap routes raw key strings to user intents.
package keymap

// Intent is a user request decoded from a key press.
type Intent string

const (
	// Playback
	IntentPlayPause  Intent = "play_pause"
	IntentNext       Intent = "next"
	IntentPrevious   Intent = "previous"
	IntentVolumeUp   Intent = "volume_up"
	IntentVolumeDown Intent = "volume_down"

	// Groups
	IntentSwitchGroupNext Intent = "switch_group_next"
	IntentSwitchGroupPrev Intent = "switch_group_prev"

	// Views
	IntentViewQueue     Intent = "view_queue"
	IntentViewFavorites Intent = "view_favorites"
	IntentToggleHelp    Intent = "toggle_help"

	// Navigation
	IntentCursorUp   Intent = "cursor_up"
	IntentCursorDown Intent = "cursor_down"
	IntentActivate   Intent = "activate" // enter - context decides

	IntentQuit Intent = "quit"
)

// Package app contains the event loop: the root bubbletea model and the
// messages every background source reports through.
package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/sinuous/internal/dispatch"
	"github.com/llehouerou/sinuous/internal/keymap"
	"github.com/llehouerou/sinuous/internal/mirror"
	"github.com/llehouerou/sinuous/internal/registry"
	"github.com/llehouerou/sinuous/internal/zone"
)

// Message category interfaces for type-based routing in Update().
// External messages (from other packages) cannot implement these interfaces,
// so they are handled separately in the Update() switch.

// RegistryMessage is implemented by messages coming from discovery.
type RegistryMessage interface {
	tea.Msg
	registryMessage()
}

// MirrorMessage is implemented by messages about the active attachment.
type MirrorMessage interface {
	tea.Msg
	mirrorMessage()
}

// CommandMessage is implemented by messages about submitted commands.
type CommandMessage interface {
	tea.Msg
	commandMessage()
}

// startMsg moves the loop from Initializing to Discovering.
type startMsg struct{}

// StartupTimeoutMsg fires when the startup timeout elapses.
type StartupTimeoutMsg struct{}

// GroupChangeMsg wraps one registry change.
type GroupChangeMsg struct {
	Change registry.Change
}

func (GroupChangeMsg) registryMessage() {}

// RegistryClosedMsg is sent when the registry stops reporting.
type RegistryClosedMsg struct{}

func (RegistryClosedMsg) registryMessage() {}

// AttachedMsg reports the result of switching the mirror. Gen identifies
// the connection it was requested for; older generations are ignored.
type AttachedMsg struct {
	Gen        int
	Attachment *mirror.Attachment
	Err        error
}

func (AttachedMsg) mirrorMessage() {}

// SnapshotMsg carries one snapshot of the attachment of generation Gen.
type SnapshotMsg struct {
	Gen      int
	Snapshot zone.Snapshot

	source *mirror.Attachment
}

func (SnapshotMsg) mirrorMessage() {}

// SnapshotsClosedMsg is sent when an attachment stops publishing. Err is the
// error that ended it on its own, nil after a detach.
type SnapshotsClosedMsg struct {
	Gen int
	Err error
}

func (SnapshotsClosedMsg) mirrorMessage() {}

// FavoritesLoadedMsg carries the favorites of the group of generation Gen.
type FavoritesLoadedMsg struct {
	Gen       int
	Favorites []zone.Favorite
	Err       error
}

func (FavoritesLoadedMsg) mirrorMessage() {}

// CommandOutcomeMsg reports how submission Seq ended.
type CommandOutcomeMsg struct {
	Seq     int
	Outcome dispatch.Outcome
}

func (CommandOutcomeMsg) commandMessage() {}

// PendingExpiredMsg clears the pending indicator of submission Seq if it is
// still shown.
type PendingExpiredMsg struct {
	Seq int
}

func (PendingExpiredMsg) commandMessage() {}

// BannerExpiredMsg clears the error banner. The Version field is used to
// ignore stale timeouts when a newer banner replaced the old one.
type BannerExpiredMsg struct {
	Version int
}

// PositionTickMsg is sent every second so the progress bar advances while
// playing.
type PositionTickMsg time.Time

// IntentMsg carries an intent from outside the terminal. Closed is set when
// the source went away.
type IntentMsg struct {
	Intent keymap.Intent
	Closed bool
}

// NotifiedMsg carries the id of the last desktop notification so the next
// one replaces it.
type NotifiedMsg struct {
	ID uint32
}

// releasedMsg is sent once the mirror and the dispatcher are released.
type releasedMsg struct{}

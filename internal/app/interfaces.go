package app

import (
	"context"
	"time"

	"github.com/llehouerou/sinuous/internal/dispatch"
	"github.com/llehouerou/sinuous/internal/keymap"
	"github.com/llehouerou/sinuous/internal/mirror"
	"github.com/llehouerou/sinuous/internal/notify"
	"github.com/llehouerou/sinuous/internal/registry"
	"github.com/llehouerou/sinuous/internal/speaker"
	"github.com/llehouerou/sinuous/internal/uistate"
	"github.com/llehouerou/sinuous/internal/zone"
)

// Registry reports group changes until its context is done.
type Registry interface {
	Run(ctx context.Context, interval time.Duration) <-chan registry.Change
	Refresh()
}

// Mirror attaches to one group at a time.
type Mirror interface {
	Attach(ctx context.Context, g zone.Group) (*mirror.Attachment, error)
}

// Dispatcher sends control commands to groups.
type Dispatcher interface {
	Submit(ctx context.Context, g zone.Group, cmd speaker.Command) dispatch.Outcome
	CancelGroup(groupID string)
	Close()
}

// FavoritesSource lists the saved playlists of a group.
type FavoritesSource interface {
	Favorites(ctx context.Context, g zone.Group) ([]zone.Favorite, error)
}

// ArtSource turns an album art URI into a local file for notifications.
type ArtSource interface {
	Path(ctx context.Context, uri string) (string, error)
}

// Deps are the collaborators of the event loop.
type Deps struct {
	Registry   Registry
	Mirror     Mirror
	Dispatcher Dispatcher
	Favorites  FavoritesSource

	// Intents carries requests from outside the terminal (desktop media
	// keys). Optional.
	Intents <-chan keymap.Intent
	// Notifier shows track changes on the desktop. Optional.
	Notifier notify.Notifier
	// Art provides notification icons. Optional.
	Art ArtSource
	// Published receives every built UiState. Optional.
	Published *uistate.Latest

	Version string
}

// Verify the concrete components satisfy the interfaces at compile time.
var (
	_ Registry        = (*registry.Registry)(nil)
	_ Mirror          = (*mirror.Mirror)(nil)
	_ Dispatcher      = (*dispatch.Dispatcher)(nil)
	_ FavoritesSource = speaker.Service(nil)
	_ ArtSource       = (*notify.ArtCache)(nil)
)

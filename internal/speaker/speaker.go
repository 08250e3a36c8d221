// Package speaker defines the boundary to the speaker network: discovery,
// transport and queue queries, control commands and update notifications.
// All calls may be slow or fail; callers treat them as black boxes.
package speaker

import (
	"context"
	"fmt"
	"time"

	"github.com/llehouerou/sinuous/internal/zone"
)

// Service is the speaker network capability consumed by the coordination core.
type Service interface {
	// Discover runs one discovery round and returns the groups it saw.
	// The result may contain duplicates; deduplication is the caller's job.
	Discover(ctx context.Context) ([]zone.Group, error)

	// QueryTransport returns the coordinator's transport status.
	QueryTransport(ctx context.Context, g zone.Group) (Transport, error)

	// QueryQueue returns the group's play queue in play order.
	QueryQueue(ctx context.Context, g zone.Group) ([]zone.Track, error)

	// SendCommand issues a control command to the group coordinator.
	SendCommand(ctx context.Context, g zone.Group, cmd Command) error

	// SubscribeUpdates delivers a value each time the device reports a change.
	// The channel is closed when ctx is done. Implementations without push
	// support return ErrPushUnsupported.
	SubscribeUpdates(ctx context.Context, g zone.Group) (<-chan Update, error)

	// Favorites returns the saved playlists available to the group.
	Favorites(ctx context.Context, g zone.Group) ([]zone.Favorite, error)
}

// Transport is the raw result of a transport query.
type Transport struct {
	State    zone.TransportState
	HasTrack bool
	Track    zone.Track
	Position time.Duration
	Volume   int
	// QueuePosition is the 1-based position of the current track in the
	// queue, 0 when the track does not come from the queue.
	QueuePosition int
}

// Update is a change notification pushed by a device.
type Update struct {
	GroupID string
	Service string // e.g. "AVTransport", "RenderingControl"
}

// Kind enumerates the control commands.
type Kind int

const (
	KindPlay Kind = iota
	KindPause
	KindNext
	KindPrevious
	KindSetVolume
	KindPlayFavorite
)

// String returns the command name.
func (k Kind) String() string {
	switch k {
	case KindPlay:
		return "play"
	case KindPause:
		return "pause"
	case KindNext:
		return "next"
	case KindPrevious:
		return "previous"
	case KindSetVolume:
		return "set volume"
	case KindPlayFavorite:
		return "play favorite"
	default:
		return "unknown"
	}
}

// Command is a transport or volume command. It is a plain value; two
// commands are equal when they request the same outcome.
type Command struct {
	Kind     Kind
	Volume   int           // KindSetVolume: absolute target 0-100
	Favorite zone.Favorite // KindPlayFavorite
}

// Play returns a play command.
func Play() Command { return Command{Kind: KindPlay} }

// Pause returns a pause command.
func Pause() Command { return Command{Kind: KindPause} }

// Next returns a skip-forward command.
func Next() Command { return Command{Kind: KindNext} }

// Previous returns a skip-back command.
func Previous() Command { return Command{Kind: KindPrevious} }

// SetVolume returns an absolute volume command clamped to 0-100.
func SetVolume(v int) Command { return Command{Kind: KindSetVolume, Volume: zone.ClampVolume(v)} }

// PlayFavorite returns a command that replaces the queue with a favorite.
func PlayFavorite(f zone.Favorite) Command { return Command{Kind: KindPlayFavorite, Favorite: f} }

// String returns a human-readable form used in logs.
func (c Command) String() string {
	switch c.Kind {
	case KindSetVolume:
		return fmt.Sprintf("set volume %d", c.Volume)
	case KindPlayFavorite:
		return fmt.Sprintf("play favorite %q", c.Favorite.Title)
	default:
		return c.Kind.String()
	}
}

// Confirms reports whether a snapshot shows the effect of the command.
// ok is false for commands without an observable target state.
func (c Command) Confirms(s zone.Snapshot) (confirmed, ok bool) {
	switch c.Kind {
	case KindPlay:
		return s.State == zone.Playing, true
	case KindPause:
		return s.State == zone.Paused || s.State == zone.Stopped, true
	case KindSetVolume:
		return s.Volume == c.Volume, true
	default:
		return false, false
	}
}

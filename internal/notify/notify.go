// Package notify shows track changes as desktop notifications. Linux uses
// the freedesktop D-Bus service; other platforms get a no-op notifier.
package notify

import "github.com/llehouerou/sinuous/internal/zone"

// Urgency represents notification priority levels per freedesktop spec.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// nowPlayingTimeout is how long a track notification stays up, in ms.
const nowPlayingTimeout = 5000

// Notification contains data for a desktop notification.
type Notification struct {
	Title      string  // Summary text (required)
	Body       string  // Body text (optional)
	Icon       string  // absolute image path or icon name (optional)
	Timeout    int32   // ms, -1 = server default, 0 = never expire
	ReplacesID uint32  // 0 = new notification, >0 = replace existing
	Urgency    Urgency // Low, Normal, Critical
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify sends a notification and returns its ID.
	// Returns 0 and nil error if notifications are disabled or unavailable.
	Notify(n Notification) (uint32, error)
	// Close closes a notification by ID.
	Close(id uint32) error
}

// NowPlaying builds the notification for a track that started playing.
// replaces is the id of the previous track notification, 0 if none.
func NowPlaying(t zone.Track, replaces uint32) Notification {
	body := t.Artist
	if t.Album != "" {
		if body != "" {
			body += " · "
		}
		body += t.Album
	}
	return Notification{
		Title:      t.DisplayTitle(),
		Body:       body,
		Timeout:    nowPlayingTimeout,
		ReplacesID: replaces,
		Urgency:    UrgencyLow,
	}
}

// stubNotifier drops every notification.
type stubNotifier struct{}

func (s *stubNotifier) Notify(_ Notification) (uint32, error) {
	return 0, nil
}

func (s *stubNotifier) Close(_ uint32) error {
	return nil
}

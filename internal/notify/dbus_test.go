//go:build linux

package notify

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireSessionBus(t *testing.T) {
	t.Helper()
	if os.Getenv("DBUS_SESSION_BUS_ADDRESS") == "" {
		t.Skip("no D-Bus session available")
	}
}

func TestHints(t *testing.T) {
	h := hints(Notification{Urgency: UrgencyCritical})
	assert.Equal(t, byte(2), h["urgency"].Value())
	assert.Equal(t, "sinuous", h["desktop-entry"].Value())
	assert.NotContains(t, h, "image-path", "icon names are not paths")

	h = hints(Notification{Icon: "/cache/cover.img"})
	assert.Equal(t, "file:///cache/cover.img", h["image-path"].Value())

	h = hints(Notification{Icon: "audio-speakers"})
	assert.NotContains(t, h, "image-path")
}

func TestNewDBusNotifier(t *testing.T) {
	requireSessionBus(t)

	notifier, err := New()
	require.NoError(t, err)
	assert.NotNil(t, notifier)
}

func TestNotifyReplacesExisting(t *testing.T) {
	requireSessionBus(t)

	notifier, err := New()
	require.NoError(t, err)

	id1, err := notifier.Notify(Notification{Title: "Track 1", Body: "Artist · Album", Timeout: 2000})
	require.NoError(t, err)
	if id1 == 0 {
		t.Skip("no notification server on the session bus")
	}

	id2, err := notifier.Notify(Notification{Title: "Track 2", Body: "Artist · Album", Timeout: 1000, ReplacesID: id1})
	require.NoError(t, err)
	assert.Equal(t, id1, id2, "replacing keeps the id")

	assert.NoError(t, notifier.Close(id2))
}

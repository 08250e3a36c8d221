package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/sinuous/internal/keymap"
	"github.com/llehouerou/sinuous/internal/logger"
	"github.com/llehouerou/sinuous/internal/mirror"
	"github.com/llehouerou/sinuous/internal/notify"
	"github.com/llehouerou/sinuous/internal/registry"
	"github.com/llehouerou/sinuous/internal/speaker"
	"github.com/llehouerou/sinuous/internal/zone"
)

// PositionTickInterval is how often the progress bar is refreshed.
const PositionTickInterval = time.Second

// PositionTickCmd returns a command that sends PositionTickMsg after one interval.
func PositionTickCmd() tea.Cmd {
	return tea.Tick(PositionTickInterval, func(t time.Time) tea.Msg {
		return PositionTickMsg(t)
	})
}

// StartupTimeoutCmd returns a command that sends StartupTimeoutMsg after d.
func StartupTimeoutCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return StartupTimeoutMsg{}
	})
}

// BannerExpireCmd returns a command that sends BannerExpiredMsg after ttl.
func BannerExpireCmd(ttl time.Duration, version int) tea.Cmd {
	return tea.Tick(ttl, func(_ time.Time) tea.Msg {
		return BannerExpiredMsg{Version: version}
	})
}

// PendingExpireCmd returns a command that sends PendingExpiredMsg after ttl.
func PendingExpireCmd(ttl time.Duration, seq int) tea.Cmd {
	return tea.Tick(ttl, func(_ time.Time) tea.Msg {
		return PendingExpiredMsg{Seq: seq}
	})
}

// waitForChannel creates a command that waits for a value from a channel and converts it to a message.
// onResult receives the value and a boolean indicating if the channel is still open (false means channel closed).
func waitForChannel[T any](ch <-chan T, onResult func(T, bool) tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		result, ok := <-ch
		return onResult(result, ok)
	}
}

func waitForChange(ch <-chan registry.Change) tea.Cmd {
	return waitForChannel(ch, func(c registry.Change, ok bool) tea.Msg {
		if !ok {
			return RegistryClosedMsg{}
		}
		return GroupChangeMsg{Change: c}
	})
}

func waitForSnapshot(gen int, att *mirror.Attachment) tea.Cmd {
	if att == nil {
		return nil
	}
	return waitForChannel(att.Snapshots(), func(s zone.Snapshot, ok bool) tea.Msg {
		if !ok {
			return SnapshotsClosedMsg{Gen: gen, Err: att.Err()}
		}
		return SnapshotMsg{Gen: gen, Snapshot: s, source: att}
	})
}

func waitForIntent(ch <-chan keymap.Intent) tea.Cmd {
	return waitForChannel(ch, func(i keymap.Intent, ok bool) tea.Msg {
		return IntentMsg{Intent: i, Closed: !ok}
	})
}

// switchCmd moves the mirror to g (or detaches it when g is nil).
func (m Model) switchCmd(gen int, g *zone.Group) tea.Cmd {
	ctx, att := m.ctx, m.attach
	return func() tea.Msg {
		a, err := att.Switch(ctx, gen, g)
		return AttachedMsg{Gen: gen, Attachment: a, Err: err}
	}
}

// submitCmd hands a command to the dispatcher and reports its outcome.
func (m Model) submitCmd(seq int, g zone.Group, cmd speaker.Command) tea.Cmd {
	ctx, d := m.ctx, m.deps.Dispatcher
	return func() tea.Msg {
		return CommandOutcomeMsg{Seq: seq, Outcome: d.Submit(ctx, g, cmd)}
	}
}

// loadFavoritesCmd fetches the favorites of g.
func (m Model) loadFavoritesCmd(gen int, g zone.Group) tea.Cmd {
	src := m.deps.Favorites
	if src == nil {
		return nil
	}
	ctx, timeout := m.ctx, m.commandTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		favs, err := src.Favorites(ctx, g)
		return FavoritesLoadedMsg{Gen: gen, Favorites: favs, Err: err}
	}
}

// notifyCmd shows a desktop notification for a new track.
func (m Model) notifyCmd(t zone.Track) tea.Cmd {
	n := m.deps.Notifier
	if n == nil {
		return nil
	}
	replaces, art, timeout := m.notifyID, m.deps.Art, m.commandTimeout
	return func() tea.Msg {
		notif := notify.NowPlaying(t, replaces)
		if art != nil && t.ArtURI != "" {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			path, err := art.Path(ctx, t.ArtURI)
			cancel()
			if err != nil {
				logger.Debug("[app] album art %s: %v", t.ArtURI, err)
			}
			notif.Icon = path
		}
		id, err := n.Notify(notif)
		if err != nil {
			logger.Debug("[app] notification failed: %v", err)
			return nil
		}
		return NotifiedMsg{ID: id}
	}
}

// releaseCmd detaches the mirror and closes the dispatcher.
func (m Model) releaseCmd() tea.Cmd {
	att, d, gen := m.attach, m.deps.Dispatcher, m.gen
	return func() tea.Msg {
		if _, err := att.Switch(context.Background(), gen, nil); err != nil {
			logger.Warn("[app] release: %v", err)
		}
		d.Close()
		return releasedMsg{}
	}
}

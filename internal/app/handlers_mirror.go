package app

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/sinuous/internal/errmsg"
	"github.com/llehouerou/sinuous/internal/logger"
	"github.com/llehouerou/sinuous/internal/uistate"
	"github.com/llehouerou/sinuous/internal/zone"
)

func (m Model) handleMirrorMessage(msg MirrorMessage) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case AttachedMsg:
		return m.handleAttached(msg)

	case SnapshotMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		var cmd tea.Cmd
		m, cmd = m.handleSnapshot(msg.Snapshot)
		return m, tea.Batch(cmd, waitForSnapshot(msg.Gen, msg.source))

	case SnapshotsClosedMsg:
		if msg.Gen != m.gen || m.phase != uistate.Connected {
			return m, nil
		}
		name := m.activeName()
		logger.Warn("[app] attachment to %s ended: %v", name, msg.Err)
		var cmd tea.Cmd
		m, cmd = m.disconnect()
		banner := m.setBanner(errmsg.FormatWith(errmsg.OpAttach, name, msg.Err))
		return m, tea.Batch(cmd, banner)

	case FavoritesLoadedMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		m.favLoading = false
		if msg.Err != nil {
			logger.Warn("[app] favorites: %v", msg.Err)
			if m.view != uistate.ViewFavorites {
				return m, nil
			}
			cmd := m.setBanner(errmsg.Format(errmsg.OpLoadFavorites, msg.Err))
			return m, cmd
		}
		m.favorites = msg.Favorites
		m.favCursor = clampCursor(m.favCursor, len(m.favorites))
	}
	return m, nil
}

func (m Model) handleAttached(msg AttachedMsg) (Model, tea.Cmd) {
	if msg.Gen != m.gen || errors.Is(msg.Err, errStaleSwitch) {
		return m, nil
	}
	if msg.Err != nil {
		name := m.activeName()
		logger.Error("[app] attach %s: %v", name, msg.Err)
		var cmd tea.Cmd
		m, cmd = m.disconnect()
		banner := m.setBanner(errmsg.FormatWith(errmsg.OpAttach, name, msg.Err))
		return m, tea.Batch(cmd, banner)
	}
	return m, waitForSnapshot(msg.Gen, msg.Attachment)
}

// handleSnapshot stores the latest snapshot of the active group, escalates
// staleness and resolves the pending indicator.
func (m Model) handleSnapshot(s zone.Snapshot) (Model, tea.Cmd) {
	prev := m.snap
	m.snap = &s

	var cmds []tea.Cmd
	if s.Escalated && (prev == nil || !prev.Escalated) {
		logger.Warn("[app] %s stale for %d ticks: %v", s.GroupID, s.StaleTicks, s.Err)
		cmds = append(cmds, m.setBanner(errmsg.Format(errmsg.OpRefresh, s.Err)))
	}

	if p := m.pending; p != nil && !s.Stale && p.groupID == s.GroupID {
		confirmed, observable := p.cmd.Confirms(s)
		if (observable && confirmed) || (!observable && p.succeeded) {
			logger.Debug("[app] %s confirmed", p.cmd)
			m.pending = nil
		}
	}

	if s.HasTrack && !s.Stale && s.Current.URI != m.trackURI {
		m.trackURI = s.Current.URI
		if prev != nil && s.State == zone.Playing {
			cmds = append(cmds, m.notifyCmd(s.Current))
		}
	}

	return m, tea.Batch(cmds...)
}

func (m Model) activeName() string {
	if g, ok := m.ActiveGroup(); ok {
		return g.Name()
	}
	return m.activeID
}

func clampCursor(pos, n int) int {
	if n == 0 {
		return 0
	}
	return max(0, min(pos, n-1))
}

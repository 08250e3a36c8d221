package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/sinuous/internal/keymap"
	"github.com/llehouerou/sinuous/internal/speaker"
	"github.com/llehouerou/sinuous/internal/uistate"
	"github.com/llehouerou/sinuous/internal/zone"
)

// handleIntent applies one user intent. Route is context-free; whether an
// intent means anything in the current state is decided here.
func (m Model) handleIntent(intent keymap.Intent) (Model, tea.Cmd) {
	if m.phase == uistate.ShuttingDown {
		return m, nil
	}

	switch intent {
	case keymap.IntentQuit:
		return m.shutdown(nil)

	case keymap.IntentToggleHelp:
		m.showHelp = !m.showHelp
		return m, nil

	case keymap.IntentViewQueue:
		m.view = uistate.ViewQueue
		return m, nil

	case keymap.IntentViewFavorites:
		m.view = uistate.ViewFavorites
		return m.reloadFavorites()

	case keymap.IntentCursorUp, keymap.IntentCursorDown:
		if m.view != uistate.ViewFavorites {
			return m, nil
		}
		delta := 1
		if intent == keymap.IntentCursorUp {
			delta = -1
		}
		m.favCursor = clampCursor(m.favCursor+delta, len(m.favorites))
		return m, nil

	case keymap.IntentActivate:
		if m.view != uistate.ViewFavorites || len(m.favorites) == 0 {
			return m, nil
		}
		return m.submit(speaker.PlayFavorite(m.favorites[clampCursor(m.favCursor, len(m.favorites))]))

	case keymap.IntentSwitchGroupNext:
		return m.switchGroup(1)

	case keymap.IntentSwitchGroupPrev:
		return m.switchGroup(-1)

	case keymap.IntentPlayPause:
		if m.wantsPlaying() {
			return m.submit(speaker.Pause())
		}
		return m.submit(speaker.Play())

	case keymap.IntentNext:
		return m.submit(speaker.Next())

	case keymap.IntentPrevious:
		return m.submit(speaker.Previous())

	case keymap.IntentVolumeUp, keymap.IntentVolumeDown:
		base, ok := m.volumeBase()
		if !ok {
			return m, nil
		}
		step := m.volumeStep
		if intent == keymap.IntentVolumeDown {
			step = -step
		}
		target := zone.ClampVolume(base + step)
		if target == base {
			return m, nil
		}
		return m.submit(speaker.SetVolume(target))
	}

	return m, nil
}

// wantsPlaying reports whether the group is, or was last asked to be,
// playing. Repeated PlayPause presses toggle the requested state rather
// than the observed one.
func (m Model) wantsPlaying() bool {
	if p := m.pending; p != nil && p.groupID == m.activeID {
		switch p.cmd.Kind {
		case speaker.KindPlay:
			return true
		case speaker.KindPause:
			return false
		}
	}
	if m.snap == nil {
		return false
	}
	return m.snap.State == zone.Playing || m.snap.State == zone.Transitioning
}

// volumeBase returns the volume the next step applies to: the outstanding
// target while a volume command is pending, else the observed volume.
func (m Model) volumeBase() (int, bool) {
	if p := m.pending; p != nil && p.groupID == m.activeID && p.cmd.Kind == speaker.KindSetVolume {
		return p.cmd.Volume, true
	}
	if m.snap == nil {
		return 0, false
	}
	return m.snap.Volume, true
}

// reloadFavorites fetches the favorites again when the last load failed.
func (m Model) reloadFavorites() (Model, tea.Cmd) {
	g, ok := m.ActiveGroup()
	if !ok || m.favLoading || m.favorites != nil || m.deps.Favorites == nil {
		return m, nil
	}
	m.favLoading = true
	return m, m.loadFavoritesCmd(m.gen, g)
}

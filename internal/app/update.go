package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/sinuous/internal/keymap"
	"github.com/llehouerou/sinuous/internal/logger"
	"github.com/llehouerou/sinuous/internal/uistate"
)

// Update handles one message, then redraws the frame if the derived state
// requires it.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	_, tick := msg.(PositionTickMsg)
	m.draw(tick)
	return m, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case startMsg:
		return m.handleStart()

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		intent, ok := keymap.Route(msg.String())
		if !ok {
			return m, nil
		}
		return m.handleIntent(intent)

	case IntentMsg:
		if msg.Closed {
			return m, nil
		}
		var cmd tea.Cmd
		m, cmd = m.handleIntent(msg.Intent)
		return m, tea.Batch(cmd, waitForIntent(m.deps.Intents))

	case PositionTickMsg:
		if m.phase == uistate.ShuttingDown {
			return m, nil
		}
		return m, PositionTickCmd()

	case StartupTimeoutMsg:
		if m.everConnected || m.phase == uistate.ShuttingDown {
			return m, nil
		}
		logger.Error("[app] no group found within %s", m.startupTimeout)
		return m.shutdown(ErrNoSpeakers)

	case BannerExpiredMsg:
		if msg.Version == m.bannerVersion {
			m.banner = ""
		}
		return m, nil

	case NotifiedMsg:
		m.notifyID = msg.ID
		return m, nil

	case releasedMsg:
		return m, tea.Quit

	case RegistryMessage:
		return m.handleRegistryMessage(msg)

	case MirrorMessage:
		return m.handleMirrorMessage(msg)

	case CommandMessage:
		return m.handleCommandMessage(msg)
	}

	return m, nil
}

// handleStart moves from Initializing to Discovering.
func (m Model) handleStart() (Model, tea.Cmd) {
	if m.phase != uistate.Initializing {
		return m, nil
	}
	m.phase = uistate.Discovering
	m.changes = m.deps.Registry.Run(m.ctx, m.discoveryInterval)
	logger.Info("[app] discovering speakers")
	return m, tea.Batch(
		waitForChange(m.changes),
		StartupTimeoutCmd(m.startupTimeout),
		PositionTickCmd(),
		waitForIntent(m.deps.Intents),
	)
}

// shutdown cancels background work and quits once resources are released.
func (m Model) shutdown(err error) (Model, tea.Cmd) {
	if m.phase == uistate.ShuttingDown {
		return m, nil
	}
	if m.activeID != "" {
		m.deps.Dispatcher.CancelGroup(m.activeID)
	}
	m.phase = uistate.ShuttingDown
	m.err = err
	m.gen++
	m.pending = nil
	m.cancel()
	return m, m.releaseCmd()
}

// setBanner shows an error text until the banner TTL elapses.
func (m *Model) setBanner(text string) tea.Cmd {
	m.banner = text
	m.bannerVersion++
	return BannerExpireCmd(m.bannerTTL, m.bannerVersion)
}

// State derives the UiState at now.
func (m Model) State(now time.Time) uistate.State {
	in := uistate.Input{
		Phase:            m.phase,
		Version:          m.deps.Version,
		Width:            m.width,
		Height:           m.height,
		Groups:           m.groups,
		ActiveID:         m.activeID,
		Snapshot:         m.snap,
		View:             m.view,
		Favorites:        m.favorites,
		FavoritesLoading: m.favLoading,
		FavoriteCursor:   m.favCursor,
		Banner:           m.banner,
		ShowHelp:         m.showHelp,
		Now:              now,
	}
	if m.pending != nil {
		in.Pending = m.pending.cmd.String()
	}
	return uistate.Build(in)
}

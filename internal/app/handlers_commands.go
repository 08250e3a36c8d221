package app

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/sinuous/internal/dispatch"
	"github.com/llehouerou/sinuous/internal/errmsg"
	"github.com/llehouerou/sinuous/internal/logger"
	"github.com/llehouerou/sinuous/internal/speaker"
	"github.com/llehouerou/sinuous/internal/uistate"
	"github.com/llehouerou/sinuous/internal/zone"
)

// submit sends cmd to the active group. The pending indicator stays until a
// snapshot confirms the command or the command fails.
func (m Model) submit(cmd speaker.Command) (Model, tea.Cmd) {
	g, ok := m.ActiveGroup()
	if !ok || m.phase != uistate.Connected {
		return m, nil
	}
	m.cmdSeq++
	m.pending = &pendingCommand{seq: m.cmdSeq, groupID: g.ID, cmd: cmd}
	logger.Debug("[app] submit %s to %s", cmd, g.ID)
	return m, tea.Batch(
		m.submitCmd(m.cmdSeq, g, cmd),
		PendingExpireCmd(m.bannerTTL, m.cmdSeq),
	)
}

func (m Model) handleCommandMessage(msg CommandMessage) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case CommandOutcomeMsg:
		return m.handleOutcome(msg)
	case PendingExpiredMsg:
		if m.pending != nil && m.pending.seq == msg.Seq {
			m.pending = nil
		}
	}
	return m, nil
}

// handleOutcome resolves a dispatcher outcome. Success changes nothing
// locally: the next snapshot is the source of truth.
func (m Model) handleOutcome(msg CommandOutcomeMsg) (Model, tea.Cmd) {
	o := msg.Outcome
	current := m.pending != nil && m.pending.seq == msg.Seq

	var failure *dispatch.Failure
	switch {
	case o.OK():
		if current {
			if _, observable := o.Command.Confirms(zone.Snapshot{}); !observable {
				p := *m.pending
				p.succeeded = true
				m.pending = &p
			}
		}
		return m, nil

	case errors.Is(o.Err, dispatch.ErrSuperseded):
		return m, nil

	case errors.As(o.Err, &failure) && failure.Kind == dispatch.Canceled:
		if current {
			m.pending = nil
		}
		return m, nil
	}

	if o.GroupID != m.activeID {
		return m, nil
	}
	if current {
		m.pending = nil
	}
	cause := o.Err
	if failure != nil {
		cause = failure.Err
	}
	cmd := m.setBanner(errmsg.Format(errmsg.ForCommand(o.Command.Kind), cause))
	return m, cmd
}

package app

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/sinuous/internal/logger"
	"github.com/llehouerou/sinuous/internal/registry"
	"github.com/llehouerou/sinuous/internal/uistate"
	"github.com/llehouerou/sinuous/internal/zone"
)

func (m Model) handleRegistryMessage(msg RegistryMessage) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case GroupChangeMsg:
		var cmd tea.Cmd
		m, cmd = m.handleGroupChange(msg.Change)
		return m, tea.Batch(cmd, waitForChange(m.changes))
	case RegistryClosedMsg:
		m.changes = nil
	}
	return m, nil
}

// handleGroupChange applies one registry change to the known groups and
// runs the connection policy.
func (m Model) handleGroupChange(c registry.Change) (Model, tea.Cmd) {
	if m.phase == uistate.ShuttingDown {
		return m, nil
	}

	switch c.Kind {
	case registry.GroupAdded:
		m.upsertGroup(c.Group)

	case registry.GroupUpdated:
		old, known := m.group(c.ID)
		m.upsertGroup(c.Group)
		if known && c.ID == m.activeID && old.Coordinator != c.Group.Coordinator {
			logger.Info("[app] coordinator of %s changed, reattaching", c.ID)
			return m.connect(c.Group)
		}

	case registry.GroupRemoved:
		m.removeGroup(c.ID)
		if c.ID == m.activeID {
			logger.Info("[app] active group %s disappeared", c.ID)
			return m.disconnect()
		}

	case registry.RoundDone:
		if c.Err != nil {
			logger.Debug("[app] discovery round discarded: %v", c.Err)
		}
	}

	if m.phase == uistate.Discovering {
		if g, ok := m.choose(c); ok {
			return m.connect(g)
		}
	}
	return m, nil
}

// choose picks the group to follow while discovering. A group matching a
// preselected device wins until the first connection. Otherwise a playing
// group is taken as soon as it shows up, and the first discovered one once
// the round is complete.
func (m Model) choose(c registry.Change) (zone.Group, bool) {
	if len(m.preselect) > 0 && !m.everConnected {
		for _, g := range m.groups {
			if matchesAny(g, m.preselect) {
				return g, true
			}
		}
		return zone.Group{}, false
	}

	switch c.Kind {
	case registry.GroupAdded, registry.GroupUpdated:
		if c.Group.State == zone.Playing {
			return c.Group, true
		}
	case registry.RoundDone:
		for _, g := range m.groups {
			if g.State == zone.Playing {
				return g, true
			}
		}
		if len(m.groups) > 0 {
			return m.groups[0], true
		}
	}
	return zone.Group{}, false
}

func matchesAny(g zone.Group, devices []string) bool {
	for _, d := range devices {
		if strings.EqualFold(g.Name(), d) || g.HasMember(d) {
			return true
		}
	}
	return false
}

// connect follows g: the previous group's commands are canceled and the
// mirror is switched asynchronously.
func (m Model) connect(g zone.Group) (Model, tea.Cmd) {
	if m.activeID != "" {
		m.deps.Dispatcher.CancelGroup(m.activeID)
	}
	m.gen++
	m.phase = uistate.Connected
	m.activeID = g.ID
	m.everConnected = true
	m.snap = nil
	m.pending = nil
	m.favorites = nil
	m.favLoading = m.deps.Favorites != nil
	m.favCursor = 0
	logger.Info("[app] following %s (%s)", g.Name(), g.ID)
	return m, tea.Batch(m.switchCmd(m.gen, &g), m.loadFavoritesCmd(m.gen, g))
}

// disconnect drops the active group and goes back to discovering.
func (m Model) disconnect() (Model, tea.Cmd) {
	if m.activeID != "" {
		m.deps.Dispatcher.CancelGroup(m.activeID)
	}
	m.gen++
	m.phase = uistate.Discovering
	m.activeID = ""
	m.snap = nil
	m.pending = nil
	m.favorites = nil
	m.favLoading = false
	m.deps.Registry.Refresh()
	return m, m.switchCmd(m.gen, nil)
}

// switchGroup follows the next (delta 1) or previous (delta -1) known group.
func (m Model) switchGroup(delta int) (Model, tea.Cmd) {
	n := len(m.groups)
	if m.phase != uistate.Connected || n < 2 {
		return m, nil
	}
	i := 0
	for j, g := range m.groups {
		if g.ID == m.activeID {
			i = j
			break
		}
	}
	return m.connect(m.groups[((i+delta)%n+n)%n])
}

// upsertGroup and removeGroup never write to the backing array of the
// previous slice, so earlier model copies keep their group list.
func (m *Model) upsertGroup(g zone.Group) {
	i := slices.IndexFunc(m.groups, func(o zone.Group) bool { return o.ID == g.ID })
	if i < 0 {
		m.groups = append(slices.Clip(m.groups), g)
		return
	}
	m.groups = slices.Clone(m.groups)
	m.groups[i] = g
}

func (m *Model) removeGroup(id string) {
	m.groups = slices.DeleteFunc(slices.Clone(m.groups), func(g zone.Group) bool { return g.ID == id })
}

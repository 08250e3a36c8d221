package app

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/sinuous/internal/config"
	"github.com/llehouerou/sinuous/internal/redraw"
	"github.com/llehouerou/sinuous/internal/registry"
	"github.com/llehouerou/sinuous/internal/speaker"
	"github.com/llehouerou/sinuous/internal/uistate"
	"github.com/llehouerou/sinuous/internal/zone"
)

// ErrNoSpeakers is reported when no group could be followed before the
// startup timeout.
var ErrNoSpeakers = errors.New("no speakers found")

// pendingCommand is the last submission awaiting confirmation.
type pendingCommand struct {
	seq     int
	groupID string
	cmd     speaker.Command
	// succeeded is set once the dispatcher reported success, for commands
	// without an observable target state.
	succeeded bool
}

// Model is the root application model. It is the only writer of the loop
// state; every background source reports through messages.
type Model struct {
	deps   Deps
	ctx    context.Context
	cancel context.CancelFunc
	attach *attacher
	sched  *redraw.Scheduler

	// Settings
	preselect         []string
	startupTimeout    time.Duration
	discoveryInterval time.Duration
	commandTimeout    time.Duration
	bannerTTL         time.Duration
	volumeStep        int

	// Loop state
	phase         uistate.Phase
	groups        []zone.Group // discovery order
	activeID      string
	gen           int // bumped on every connect and disconnect
	snap          *zone.Snapshot
	everConnected bool
	changes       <-chan registry.Change

	// Commands
	cmdSeq  int
	pending *pendingCommand

	// Transient UI state
	view          uistate.View
	favorites     []zone.Favorite
	favLoading    bool
	favCursor     int
	banner        string
	bannerVersion int
	showHelp      bool
	width         int
	height        int

	// Notifications
	trackURI string
	notifyID uint32

	frame string
	err   error
}

// New creates the event loop from configuration.
func New(cfg *config.Config, deps Deps) Model {
	ctx, cancel := context.WithCancel(context.Background())
	discovery := cfg.GetDiscoveryConfig()
	return Model{
		deps:              deps,
		ctx:               ctx,
		cancel:            cancel,
		attach:            newAttacher(deps.Mirror),
		sched:             &redraw.Scheduler{MinTickGap: PositionTickInterval / 2},
		preselect:         cfg.Devices,
		startupTimeout:    cfg.GetStartupTimeout(),
		discoveryInterval: discovery.Interval,
		commandTimeout:    cfg.GetCommandTimeout(),
		bannerTTL:         cfg.GetBannerTTL(),
		volumeStep:        cfg.GetVolumeStep(),
		phase:             uistate.Initializing,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return startMsg{} }
}

// Err returns the error that ended the loop, nil after a clean quit.
func (m Model) Err() error {
	return m.err
}

// Phase returns the current loop state.
func (m Model) Phase() uistate.Phase {
	return m.phase
}

// ActiveGroup returns the followed group, if any.
func (m Model) ActiveGroup() (zone.Group, bool) {
	if m.activeID == "" {
		return zone.Group{}, false
	}
	return m.group(m.activeID)
}

func (m Model) group(id string) (zone.Group, bool) {
	for _, g := range m.groups {
		if g.ID == id {
			return g, true
		}
	}
	return zone.Group{}, false
}

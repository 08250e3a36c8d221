package speaker

import (
	"context"
	"slices"
	"sync"

	"github.com/llehouerou/sinuous/internal/zone"
)

// Verify Mock implements Service at compile time.
var _ Service = (*Mock)(nil)

// Mock is an in-memory Service for tests. It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	groups      []zone.Group
	discoverErr error
	discoveries int

	transports   map[string]Transport
	transportErr map[string]error
	queues       map[string][]zone.Track
	queueQueries map[string]int
	favorites    map[string][]zone.Favorite

	commands   []CommandCall
	commandErr error
	hold       chan struct{} // non-nil while commands are held
	started    chan CommandCall

	pushDisabled bool
	subs         map[string][]chan Update
}

// CommandCall records one SendCommand invocation.
type CommandCall struct {
	GroupID string
	Command Command
}

// NewMock creates an empty mock service.
func NewMock() *Mock {
	return &Mock{
		transports:   make(map[string]Transport),
		transportErr: make(map[string]error),
		queues:       make(map[string][]zone.Track),
		queueQueries: make(map[string]int),
		favorites:    make(map[string][]zone.Favorite),
		subs:         make(map[string][]chan Update),
		started:      make(chan CommandCall, 64),
	}
}

// SetGroups sets the result of the next discovery rounds.
func (m *Mock) SetGroups(groups ...zone.Group) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups = slices.Clone(groups)
}

// SetDiscoverErr makes discovery rounds fail with err (nil to clear).
func (m *Mock) SetDiscoverErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.discoverErr = err
}

// Discoveries returns how many rounds ran.
func (m *Mock) Discoveries() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.discoveries
}

// SetTransport sets the transport status reported for a group.
func (m *Mock) SetTransport(groupID string, t Transport) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transports[groupID] = t
}

// SetTransportErr makes transport queries for a group fail (nil to clear).
func (m *Mock) SetTransportErr(groupID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transportErr[groupID] = err
}

// SetQueue sets the queue reported for a group.
func (m *Mock) SetQueue(groupID string, tracks ...zone.Track) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queues[groupID] = slices.Clone(tracks)
}

// QueueQueries returns how many times the queue of a group was fetched.
func (m *Mock) QueueQueries(groupID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queueQueries[groupID]
}

// SetFavorites sets the favorites reported for a group.
func (m *Mock) SetFavorites(groupID string, favs ...zone.Favorite) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.favorites[groupID] = slices.Clone(favs)
}

// SetCommandErr makes every command fail with err (nil to clear).
func (m *Mock) SetCommandErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commandErr = err
}

// HoldCommands blocks SendCommand until the returned release func is called.
func (m *Mock) HoldCommands() (release func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	hold := make(chan struct{})
	m.hold = hold
	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			if m.hold == hold {
				m.hold = nil
			}
			m.mu.Unlock()
			close(hold)
		})
	}
}

// Started receives every command as soon as SendCommand is entered.
func (m *Mock) Started() <-chan CommandCall {
	return m.started
}

// Commands returns the recorded command calls.
func (m *Mock) Commands() []CommandCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.commands)
}

// DisablePush makes SubscribeUpdates return ErrPushUnsupported.
func (m *Mock) DisablePush() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pushDisabled = true
}

// Push delivers an update notification to every subscriber of a group.
func (m *Mock) Push(groupID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ch := range m.subs[groupID] {
		select {
		case ch <- Update{GroupID: groupID, Service: "AVTransport"}:
		default:
		}
	}
}

// Discover implements Service.
func (m *Mock) Discover(ctx context.Context) ([]zone.Group, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.discoveries++
	if m.discoverErr != nil {
		return nil, m.discoverErr
	}
	return slices.Clone(m.groups), nil
}

// QueryTransport implements Service.
func (m *Mock) QueryTransport(ctx context.Context, g zone.Group) (Transport, error) {
	if err := ctx.Err(); err != nil {
		return Transport{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.transportErr[g.ID]; err != nil {
		return Transport{}, err
	}
	return m.transports[g.ID], nil
}

// QueryQueue implements Service.
func (m *Mock) QueryQueue(ctx context.Context, g zone.Group) ([]zone.Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queueQueries[g.ID]++
	if err := m.transportErr[g.ID]; err != nil {
		return nil, err
	}
	return slices.Clone(m.queues[g.ID]), nil
}

// SendCommand implements Service.
func (m *Mock) SendCommand(ctx context.Context, g zone.Group, cmd Command) error {
	call := CommandCall{GroupID: g.ID, Command: cmd}
	m.mu.Lock()
	m.commands = append(m.commands, call)
	hold := m.hold
	err := m.commandErr
	m.mu.Unlock()

	select {
	case m.started <- call:
	default:
	}

	if hold != nil {
		select {
		case <-hold:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

// SubscribeUpdates implements Service.
func (m *Mock) SubscribeUpdates(ctx context.Context, g zone.Group) (<-chan Update, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pushDisabled {
		return nil, ErrPushUnsupported
	}
	ch := make(chan Update, 8)
	m.subs[g.ID] = append(m.subs[g.ID], ch)
	go func() {
		<-ctx.Done()
		m.mu.Lock()
		defer m.mu.Unlock()
		m.subs[g.ID] = slices.DeleteFunc(m.subs[g.ID], func(c chan Update) bool { return c == ch })
		close(ch)
	}()
	return ch, nil
}

// Favorites implements Service.
func (m *Mock) Favorites(ctx context.Context, g zone.Group) ([]zone.Favorite, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.favorites[g.ID]), nil
}

// Package mirror keeps a read-only copy of one group's playback state. An
// attachment queries the group on a fixed interval (and immediately on push
// notifications) and publishes a fresh immutable snapshot per tick.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/llehouerou/sinuous/internal/logger"
	"github.com/llehouerou/sinuous/internal/speaker"
	"github.com/llehouerou/sinuous/internal/zone"
)

// Attachment errors. Both indicate a caller bug.
var (
	ErrAlreadyAttached = errors.New("mirror: already attached")
	ErrNotAttached     = errors.New("mirror: not attached")
)

// Default tuning values.
const (
	DefaultInterval       = time.Second
	DefaultStaleThreshold = 3
	DefaultQueueEvery     = 10
)

// Options tunes the mirror.
type Options struct {
	Interval       time.Duration
	StaleThreshold int
	// QueueEvery forces a queue refresh every n ticks even when the
	// transport status suggests the queue did not change.
	QueueEvery int
}

func (o Options) withDefaults() Options {
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	if o.StaleThreshold <= 0 {
		o.StaleThreshold = DefaultStaleThreshold
	}
	if o.QueueEvery <= 0 {
		o.QueueEvery = DefaultQueueEvery
	}
	return o
}

// Mirror allows at most one attachment at a time.
type Mirror struct {
	svc  speaker.Service
	opts Options

	mu     sync.Mutex
	active *Attachment
}

// New creates a mirror over a speaker service.
func New(svc speaker.Service, opts Options) *Mirror {
	return &Mirror{svc: svc, opts: opts.withDefaults()}
}

// Attach starts mirroring a group. It fails with ErrAlreadyAttached while a
// previous attachment has not been detached.
func (m *Mirror) Attach(ctx context.Context, g zone.Group) (*Attachment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active != nil {
		return nil, fmt.Errorf("%w to %s", ErrAlreadyAttached, m.active.group.ID)
	}

	ctx, cancel := context.WithCancel(ctx)
	a := &Attachment{
		m:         m,
		group:     g,
		snapshots: make(chan zone.Snapshot, 1),
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	m.active = a
	logger.Info("[mirror] attached to %s (%s)", g.Name(), g.ID)
	go a.run(ctx)
	return a, nil
}

// Detach stops the current attachment.
func (m *Mirror) Detach() error {
	m.mu.Lock()
	a := m.active
	m.mu.Unlock()
	if a == nil {
		return ErrNotAttached
	}
	return a.Detach()
}

// Active returns the current attachment, or nil.
func (m *Mirror) Active() *Attachment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Attachment is a live mirror of one group.
type Attachment struct {
	m         *Mirror
	group     zone.Group
	snapshots chan zone.Snapshot
	cancel    context.CancelFunc
	done      chan struct{}

	errMu sync.Mutex
	err   error

	// Owned by the run goroutine.
	seq      uint64
	ticks    int
	last     zone.Snapshot
	haveLast bool
	queue    []zone.Track
	queueOK  bool
}

// Group returns the mirrored group.
func (a *Attachment) Group() zone.Group {
	return a.group
}

// Snapshots delivers snapshots in observation order. Only the most recent
// undelivered snapshot is kept, so a slow reader skips intermediate states
// but never sees them out of order. The channel is closed when the
// attachment ends.
func (a *Attachment) Snapshots() <-chan zone.Snapshot {
	return a.snapshots
}

// Err returns the error that ended the attachment on its own, or nil.
func (a *Attachment) Err() error {
	a.errMu.Lock()
	defer a.errMu.Unlock()
	return a.err
}

// Detach cancels in-flight queries and waits for the attachment to stop.
// Detaching twice returns ErrNotAttached.
func (a *Attachment) Detach() error {
	a.m.mu.Lock()
	if a.m.active != a {
		a.m.mu.Unlock()
		return ErrNotAttached
	}
	a.m.active = nil
	a.m.mu.Unlock()

	a.cancel()
	<-a.done
	logger.Info("[mirror] detached from %s", a.group.ID)
	return nil
}

func (a *Attachment) run(ctx context.Context) {
	defer close(a.done)
	defer close(a.snapshots)

	opts := a.m.opts
	updates, err := a.m.svc.SubscribeUpdates(ctx, a.group)
	if err != nil {
		if !errors.Is(err, speaker.ErrPushUnsupported) {
			logger.Warn("[mirror] subscribe %s: %v, polling only", a.group.ID, err)
		} else {
			logger.Debug("[mirror] push unsupported for %s, polling only", a.group.ID)
		}
		updates = nil
	}

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	for {
		if err := a.tick(ctx); err != nil {
			a.errMu.Lock()
			a.err = err
			a.errMu.Unlock()
			logger.Error("[mirror] attachment to %s ended: %v", a.group.ID, err)
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case _, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			ticker.Reset(opts.Interval)
		}
	}
}

// tick refreshes the snapshot once. A non-nil return ends the attachment.
func (a *Attachment) tick(ctx context.Context) error {
	opts := a.m.opts
	now := time.Now()
	a.ticks++

	tr, err := a.m.svc.QueryTransport(ctx, a.group)
	if err == nil && a.needQueue(tr) {
		var q []zone.Track
		q, err = a.m.svc.QueryQueue(ctx, a.group)
		if err == nil {
			a.queue = q
			a.queueOK = true
		}
	}

	switch {
	case ctx.Err() != nil:
		return nil
	case errors.Is(err, speaker.ErrDesync):
		return err
	case err != nil:
		logger.Debug("[mirror] tick %s failed: %v", a.group.ID, err)
		prev := a.last
		if !a.haveLast {
			prev = zone.Snapshot{GroupID: a.group.ID, QueueIndex: zone.NoIndex}
		}
		a.publish(prev.MarkStale(err, opts.StaleThreshold, now))
		return nil
	}

	index := zone.NoIndex
	if tr.QueuePosition > 0 {
		index = tr.QueuePosition - 1
	}
	s := zone.Snapshot{
		GroupID:    a.group.ID,
		ObservedAt: now,
		State:      tr.State,
		HasTrack:   tr.HasTrack,
		Current:    tr.Track,
		Position:   tr.Position,
		Volume:     tr.Volume,
		Queue:      a.queue,
		QueueIndex: index,
	}
	a.publish(s.Normalize())
	return nil
}

// needQueue decides whether the queue must be fetched on this tick.
func (a *Attachment) needQueue(tr speaker.Transport) bool {
	switch {
	case !a.queueOK:
		return true
	case (a.ticks-1)%a.m.opts.QueueEvery == 0:
		return true
	case tr.Track.URI != a.last.Current.URI:
		return true
	case tr.QueuePosition > len(a.queue):
		return true
	default:
		return false
	}
}

// publish stamps and delivers a snapshot, replacing an undelivered one.
func (a *Attachment) publish(s zone.Snapshot) {
	a.seq++
	s.Seq = a.seq
	a.last = s
	a.haveLast = true

	select {
	case a.snapshots <- s:
		return
	default:
	}
	select {
	case <-a.snapshots:
	default:
	}
	a.snapshots <- s
}

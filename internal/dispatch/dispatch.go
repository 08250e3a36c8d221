// Package dispatch sends control commands to groups. Each group has at most
// one command in flight and one pending; a newer submission replaces the
// pending one (latest wins). Groups are independent of each other.
package dispatch

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

// DefaultTimeout bounds a single network call.
const DefaultTimeout = 5 * time.Second

// ErrSuperseded is the outcome of a pending command replaced by a newer one.
var ErrSuperseded = errors.New("dispatch: superseded by a newer command")

// FailureKind classifies command failures.
type FailureKind int

const (
	// Unreachable: the device did not answer in time or refused the
	// connection.
	Unreachable FailureKind = iota
	// Rejected: the device answered with an error.
	Rejected
	// Canceled: the command was aborted by CancelGroup, Close or the
	// caller's context.
	Canceled
)

// String returns the kind name.
func (k FailureKind) String() string {
	switch k {
	case Unreachable:
		return "unreachable"
	case Rejected:
		return "rejected"
	case Canceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Failure is a typed command failure.
type Failure struct {
	Kind    FailureKind
	Command speaker.Command
	Err     error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s %s: %v", f.Command, f.Kind, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Outcome is the result of a submission. Err is nil on success, ErrSuperseded
// when replaced before being sent, or a *Failure.
type Outcome struct {
	GroupID string
	Command speaker.Command
	Err     error
}

// OK reports whether the command was executed successfully.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Options tunes the dispatcher.
type Options struct {
	// Timeout bounds each network call.
	Timeout time.Duration
}

// job is one command occupying a slot. Equal submissions share a job.
type job struct {
	group   zone.Group
	cmd     speaker.Command
	waiters []chan Outcome
	ctx     context.Context
	cancel  context.CancelFunc
}

func (j *job) resolve(o Outcome) {
	for _, w := range j.waiters {
		w <- o
	}
	j.waiters = nil
}

type worker struct {
	inflight *job
	pending  *job
}

// Dispatcher is safe for concurrent use.
type Dispatcher struct {
	svc     speaker.Service
	timeout time.Duration
	base    context.Context
	stop    context.CancelFunc

	mu      sync.Mutex
	workers map[string]*worker
	wg      sync.WaitGroup
}

// New creates a dispatcher over a speaker service.
func New(svc speaker.Service, opts Options) *Dispatcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	base, stop := context.WithCancel(context.Background())
	return &Dispatcher{
		svc:     svc,
		timeout: opts.Timeout,
		base:    base,
		stop:    stop,
		workers: make(map[string]*worker),
	}
}

// Submit queues a command for a group and blocks until its outcome is known.
// A submission equal to the in-flight or pending command joins it and shares
// its outcome. Otherwise it replaces the pending command, whose callers get
// ErrSuperseded.
func (d *Dispatcher) Submit(ctx context.Context, g zone.Group, cmd speaker.Command) Outcome {
	done := make(chan Outcome, 1)

	d.mu.Lock()
	if d.base.Err() != nil {
		d.mu.Unlock()
		return failed(g.ID, cmd, Canceled, d.base.Err())
	}
	w := d.workers[g.ID]
	switch {
	case w == nil:
		w = &worker{}
		d.workers[g.ID] = w
		w.inflight = d.start(&job{group: g, cmd: cmd, waiters: []chan Outcome{done}})
		d.wg.Add(1)
		go d.run(g.ID, w)
	case w.pending != nil && w.pending.cmd == cmd:
		w.pending.waiters = append(w.pending.waiters, done)
	case w.inflight.cmd == cmd:
		d.supersede(w)
		w.inflight.waiters = append(w.inflight.waiters, done)
		logger.Debug("[dispatch] %s: %s already in flight", g.ID, cmd)
	default:
		d.supersede(w)
		w.pending = &job{group: g, cmd: cmd, waiters: []chan Outcome{done}}
	}
	d.mu.Unlock()

	select {
	case o := <-done:
		return o
	case <-ctx.Done():
		return failed(g.ID, cmd, Canceled, ctx.Err())
	}
}

// CancelGroup aborts the in-flight command of a group and fails its pending
// one with a Canceled failure.
func (d *Dispatcher) CancelGroup(groupID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	w := d.workers[groupID]
	if w == nil {
		return
	}
	if p := w.pending; p != nil {
		w.pending = nil
		p.resolve(failed(groupID, p.cmd, Canceled, context.Canceled))
	}
	w.inflight.cancel()
	logger.Debug("[dispatch] %s: canceled", groupID)
}

// Close cancels all commands and waits for the workers to exit.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.stop()
	for id := range d.workers {
		if p := d.workers[id].pending; p != nil {
			d.workers[id].pending = nil
			p.resolve(failed(id, p.cmd, Canceled, context.Canceled))
		}
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// supersede resolves the pending job, if any, with ErrSuperseded.
func (d *Dispatcher) supersede(w *worker) {
	p := w.pending
	if p == nil {
		return
	}
	w.pending = nil
	p.resolve(Outcome{GroupID: p.group.ID, Command: p.cmd, Err: ErrSuperseded})
	logger.Debug("[dispatch] %s: %s superseded", p.group.ID, p.cmd)
}

func (d *Dispatcher) start(j *job) *job {
	j.ctx, j.cancel = context.WithTimeout(d.base, d.timeout)
	return j
}

func (d *Dispatcher) run(groupID string, w *worker) {
	defer d.wg.Done()
	for {
		d.mu.Lock()
		j := w.inflight
		d.mu.Unlock()

		err := d.svc.SendCommand(j.ctx, j.group, j.cmd)
		o := d.outcome(j, err)
		j.cancel()
		if o.Err != nil {
			logger.Warn("[dispatch] %s: %v", groupID, o.Err)
		} else {
			logger.Debug("[dispatch] %s: %s ok", groupID, j.cmd)
		}

		d.mu.Lock()
		j.resolve(o)
		if w.pending == nil {
			w.inflight = nil
			delete(d.workers, groupID)
			d.mu.Unlock()
			return
		}
		w.inflight = d.start(w.pending)
		w.pending = nil
		d.mu.Unlock()
	}
}

func (d *Dispatcher) outcome(j *job, err error) Outcome {
	if err == nil {
		return Outcome{GroupID: j.group.ID, Command: j.cmd}
	}
	switch {
	case errors.Is(j.ctx.Err(), context.Canceled), errors.Is(err, context.Canceled):
		return failed(j.group.ID, j.cmd, Canceled, err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, speaker.ErrUnreachable):
		return failed(j.group.ID, j.cmd, Unreachable, err)
	default:
		return failed(j.group.ID, j.cmd, Rejected, err)
	}
}

func failed(groupID string, cmd speaker.Command, kind FailureKind, err error) Outcome {
	return Outcome{
		GroupID: groupID,
		Command: cmd,
		Err:     &Failure{Kind: kind, Command: cmd, Err: err},
	}
}

// Package registry tracks the zone groups present on the network. Each
// discovery round is diffed against the groups already known and turned
// into GroupAdded / GroupUpdated / GroupRemoved changes.
package registry

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/llehouerou/sinuous/internal/logger"
	"github.com/llehouerou/sinuous/internal/speaker"
	"github.com/llehouerou/sinuous/internal/zone"
)

// Kind identifies the type of a Change.
type Kind int

const (
	GroupAdded Kind = iota
	GroupUpdated
	GroupRemoved
	// RoundDone terminates every round, successful or not.
	RoundDone
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case GroupAdded:
		return "added"
	case GroupUpdated:
		return "updated"
	case GroupRemoved:
		return "removed"
	case RoundDone:
		return "round-done"
	default:
		return "unknown"
	}
}

// Change is one registry event. Group is set for Added and Updated, ID for
// every group event. Err is set on a RoundDone whose round was discarded.
type Change struct {
	Kind  Kind
	ID    string
	Group zone.Group
	Err   error
}

// Errors reported (through RoundDone) for discarded rounds.
var (
	ErrMalformed = errors.New("malformed advertisement")
	ErrConflict  = errors.New("conflicting advertisements")
)

// Options tunes a Registry.
type Options struct {
	// RemovalRounds is how many consecutive rounds a group may be missing
	// before it is reported removed. Values below 1 mean 1.
	RemovalRounds int
}

type known struct {
	group  zone.Group
	missed int
}

// Registry holds the bookkeeping needed to diff discovery rounds. Round and
// Run must not be used concurrently.
type Registry struct {
	svc           speaker.Service
	removalRounds int
	known         map[string]*known
	order         []string
	refresh       chan struct{}
}

// New creates a registry over a speaker service.
func New(svc speaker.Service, opts Options) *Registry {
	return &Registry{
		svc:           svc,
		removalRounds: max(opts.RemovalRounds, 1),
		known:         make(map[string]*known),
		refresh:       make(chan struct{}, 1),
	}
}

// Round runs one discovery round lazily: the network is queried when the
// sequence is first iterated. The sequence is finite and always ends with a
// RoundDone change unless the consumer stops early. Calling Round again
// starts a new round.
func (r *Registry) Round(ctx context.Context) iter.Seq[Change] {
	return func(yield func(Change) bool) {
		groups, err := r.svc.Discover(ctx)
		if err != nil {
			logger.Warn("[registry] discovery round failed: %v", err)
			yield(Change{Kind: RoundDone, Err: err})
			return
		}

		seen, err := dedupe(groups)
		if err != nil {
			logger.Warn("[registry] discarding round: %v", err)
			yield(Change{Kind: RoundDone, Err: err})
			return
		}

		for _, c := range r.diff(seen) {
			r.apply(c)
			if !yield(c) {
				return
			}
		}
		r.sweep(seen)
		yield(Change{Kind: RoundDone})
	}
}

// Run runs rounds until ctx is done: one immediately, then every interval or
// whenever Refresh is called. The returned channel is closed on exit.
func (r *Registry) Run(ctx context.Context, interval time.Duration) <-chan Change {
	out := make(chan Change, 16)
	go func() {
		defer close(out)
		timer := time.NewTimer(0)
		defer timer.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			case <-r.refresh:
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
			}

			for c := range r.Round(ctx) {
				select {
				case out <- c:
				case <-ctx.Done():
					return
				}
			}
			timer.Reset(interval)
		}
	}()
	return out
}

// Refresh asks Run to start a round now. It never blocks.
func (r *Registry) Refresh() {
	select {
	case r.refresh <- struct{}{}:
	default:
	}
}

// dedupe collapses identical advertisements and rejects rounds with
// malformed entries or an id advertised with conflicting data.
func dedupe(groups []zone.Group) ([]zone.Group, error) {
	byID := make(map[string]zone.Group, len(groups))
	out := make([]zone.Group, 0, len(groups))
	for _, g := range groups {
		if !g.Valid() {
			return nil, fmt.Errorf("%w: group %q", ErrMalformed, g.ID)
		}
		prev, dup := byID[g.ID]
		if !dup {
			byID[g.ID] = g
			out = append(out, g)
			continue
		}
		if !prev.Equal(g) {
			return nil, fmt.Errorf("%w: group %q", ErrConflict, g.ID)
		}
	}
	return out, nil
}

// diff computes the Added / Updated changes and the removals of groups that
// have now been missing for too long.
func (r *Registry) diff(seen []zone.Group) []Change {
	var changes []Change
	present := make(map[string]bool, len(seen))
	for _, g := range seen {
		present[g.ID] = true
		k, ok := r.known[g.ID]
		switch {
		case !ok:
			changes = append(changes, Change{Kind: GroupAdded, ID: g.ID, Group: g})
		case !k.group.Equal(g):
			changes = append(changes, Change{Kind: GroupUpdated, ID: g.ID, Group: g})
		}
	}
	for _, id := range r.order {
		if present[id] {
			continue
		}
		if r.known[id].missed+1 >= r.removalRounds {
			changes = append(changes, Change{Kind: GroupRemoved, ID: id})
		}
	}
	return changes
}

func (r *Registry) apply(c Change) {
	switch c.Kind {
	case GroupAdded:
		r.known[c.ID] = &known{group: c.Group}
		r.order = append(r.order, c.ID)
		logger.Info("[registry] group added: %s (%s)", c.Group.Name(), c.ID)
	case GroupUpdated:
		r.known[c.ID].group = c.Group
		logger.Info("[registry] group updated: %s (%s)", c.Group.Name(), c.ID)
	case GroupRemoved:
		delete(r.known, c.ID)
		for i, id := range r.order {
			if id == c.ID {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
		logger.Info("[registry] group removed: %s", c.ID)
	}
}

// sweep refreshes miss counters after a complete round and keeps the
// latest state hint of groups that did not change.
func (r *Registry) sweep(seen []zone.Group) {
	present := make(map[string]zone.Group, len(seen))
	for _, g := range seen {
		present[g.ID] = g
	}
	for id, k := range r.known {
		if g, ok := present[id]; ok {
			k.missed = 0
			k.group.State = g.State
			continue
		}
		k.missed++
	}
}

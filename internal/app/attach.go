package app

import (
	"context"
	"errors"
	"sync"

	"github.com/llehouerou/sinuous/internal/logger"
	"github.com/llehouerou/sinuous/internal/mirror"
	"github.com/llehouerou/sinuous/internal/zone"
)

// errStaleSwitch is returned for a switch overtaken by a newer one.
var errStaleSwitch = errors.New("switch superseded")

// attacher serializes mirror switches requested from tea.Cmds, which run
// concurrently. It always detaches before attaching, and a switch older than
// the newest one already performed is dropped so the mirror ends on the
// latest requested group.
type attacher struct {
	mirror Mirror

	mu      sync.Mutex
	latest  int
	current *mirror.Attachment
}

func newAttacher(m Mirror) *attacher {
	return &attacher{mirror: m}
}

// Switch detaches the current attachment and, if g is not nil, attaches to g.
func (a *attacher) Switch(ctx context.Context, gen int, g *zone.Group) (*mirror.Attachment, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if gen < a.latest {
		return nil, errStaleSwitch
	}
	a.latest = gen

	if a.current != nil {
		if err := a.current.Detach(); err != nil {
			logger.Warn("[app] detach: %v", err)
		}
		a.current = nil
	}
	if g == nil {
		return nil, nil
	}

	att, err := a.mirror.Attach(ctx, *g)
	if err != nil {
		return nil, err
	}
	a.current = att
	return att, nil
}

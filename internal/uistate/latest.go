package uistate

import "sync/atomic"

// Latest holds the most recently built State for readers outside the event
// loop, such as the MPRIS adapter. The loop is the only writer.
type Latest struct {
	p atomic.Pointer[State]
}

// Store publishes s.
func (l *Latest) Store(s State) {
	l.p.Store(&s)
}

// Load returns the last published State, or the zero State.
func (l *Latest) Load() State {
	if s := l.p.Load(); s != nil {
		return *s
	}
	return State{}
}

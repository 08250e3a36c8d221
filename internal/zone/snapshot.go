package zone

import "time"

// NoIndex marks the absence of a current queue index.
const NoIndex = -1

// Snapshot is an immutable, fully-formed view of a group's playback state at
// one observation instant. Snapshots are rebuilt for every tick; a listener
// never sees a partially-updated value.
type Snapshot struct {
	GroupID    string
	Seq        uint64 // strictly increasing per attachment
	ObservedAt time.Time

	State      TransportState
	HasTrack   bool
	Current    Track
	Position   time.Duration
	Volume     int
	Queue      []Track
	QueueIndex int // index of Current in Queue, NoIndex if absent

	// Stale is set when the latest refresh failed and this snapshot carries
	// the previous best-known data. StaleTicks counts consecutive failures.
	Stale      bool
	StaleTicks int
	// Escalated is set once StaleTicks reached the mirror threshold.
	Escalated bool
	Err       error
}

// Normalize returns a copy that satisfies the snapshot invariants: the
// position never exceeds the track duration, the volume stays within 0-100,
// and an out-of-range queue index is dropped.
func (s Snapshot) Normalize() Snapshot {
	if s.Position < 0 {
		s.Position = 0
	}
	switch {
	case s.Current.Duration == 0:
		// Streams report no duration; a position is meaningless there.
		s.Position = 0
	case s.Position > s.Current.Duration:
		s.Position = s.Current.Duration
	}
	s.Volume = ClampVolume(s.Volume)
	if s.QueueIndex < 0 || s.QueueIndex >= len(s.Queue) {
		s.QueueIndex = NoIndex
	}
	return s
}

// Valid reports whether the snapshot invariants hold.
func (s Snapshot) Valid() bool {
	if s.Position < 0 {
		return false
	}
	if s.Current.Duration > 0 && s.Position > s.Current.Duration {
		return false
	}
	if s.Current.Duration == 0 && s.Position != 0 {
		return false
	}
	if s.QueueIndex != NoIndex && (s.QueueIndex < 0 || s.QueueIndex >= len(s.Queue)) {
		return false
	}
	return true
}

// IsPlaying reports whether the transport is playing.
func (s Snapshot) IsPlaying() bool {
	return s.State == Playing
}

// MarkStale returns a copy of the previous snapshot flagged as stale after a
// failed refresh. threshold is the number of consecutive failures after which
// the staleness is escalated.
func (s Snapshot) MarkStale(err error, threshold int, now time.Time) Snapshot {
	s.Stale = true
	s.StaleTicks++
	s.Err = err
	s.Escalated = threshold > 0 && s.StaleTicks >= threshold
	s.ObservedAt = now
	return s
}

// ClampVolume limits v to the 0-100 range.
func ClampVolume(v int) int {
	return max(0, min(v, 100))
}

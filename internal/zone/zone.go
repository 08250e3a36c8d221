// Package zone holds the data model shared by the speaker service, the
// coordination components and the UI: groups, tracks and playback snapshots.
package zone

import (
	"slices"
	"strings"
	"time"
)

// TransportState is the transport state reported by a group coordinator.
type TransportState int

const (
	Stopped TransportState = iota
	Playing
	Paused
	Transitioning
)

// String returns the state name.
func (s TransportState) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	case Transitioning:
		return "Transitioning"
	default:
		return "Unknown"
	}
}

// Member is one physical speaker of a group.
type Member struct {
	ID      string // stable device identifier (e.g. RINCON_xxx)
	Name    string // room name
	Address string // host:port of the device's control endpoint
}

// Group is a coordinator plus zero or more members forming one playback unit.
// Members always lists the coordinator first.
type Group struct {
	ID          string
	Coordinator Member
	Members     []Member

	// State is a hint captured at discovery time. It is only used to pick the
	// initial group; the mirror is the source of truth once attached.
	State TransportState
}

// Name returns the display name: coordinator first, then the other members,
// joined with " + ".
func (g Group) Name() string {
	names := make([]string, 0, len(g.Members)+1)
	names = append(names, g.Coordinator.Name)
	for _, m := range g.Members {
		if m.ID == g.Coordinator.ID {
			continue
		}
		names = append(names, m.Name)
	}
	return strings.Join(names, " + ")
}

// Address returns the coordinator control address.
func (g Group) Address() string {
	return g.Coordinator.Address
}

// HasMember reports whether a member with the given name or address belongs
// to the group. Name comparison is case-insensitive.
func (g Group) HasMember(nameOrAddr string) bool {
	for _, m := range g.allMembers() {
		if strings.EqualFold(m.Name, nameOrAddr) || hostOf(m.Address) == nameOrAddr || m.Address == nameOrAddr {
			return true
		}
	}
	return false
}

// Equal reports whether two groups carry the same identity and membership.
// The discovery state hint is ignored.
func (g Group) Equal(o Group) bool {
	return g.ID == o.ID &&
		g.Coordinator == o.Coordinator &&
		slices.Equal(g.Members, o.Members)
}

// Valid reports whether the group has the fields every consumer relies on.
func (g Group) Valid() bool {
	return g.ID != "" && g.Coordinator.ID != "" && g.Coordinator.Address != ""
}

func (g Group) allMembers() []Member {
	if len(g.Members) == 0 {
		return []Member{g.Coordinator}
	}
	return g.Members
}

func hostOf(addr string) string {
	if i := strings.LastIndexByte(addr, ':'); i >= 0 {
		return addr[:i]
	}
	return addr
}

// Track is immutable metadata of one queue item or of the current track.
type Track struct {
	URI      string
	Title    string
	Artist   string
	Album    string
	ArtURI   string
	Duration time.Duration
}

// DisplayTitle returns the title or a placeholder.
func (t Track) DisplayTitle() string {
	if t.Title == "" {
		return "Unknown"
	}
	return t.Title
}

// Favorite is a saved playlist or track stored on the speaker network.
type Favorite struct {
	Title       string
	Description string
	URI         string
	Metadata    string
}

// IsContainer reports whether the favorite points to a playlist container
// rather than a single track.
func (f Favorite) IsContainer() bool {
	return strings.HasPrefix(f.URI, "x-rincon-cpcontainer:")
}

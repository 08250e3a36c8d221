package sonos

import (
	"encoding/xml"
	"fmt"
	"net/url"

	"github.com/llehouerou/sinuous/internal/zone"
)

type zoneGroupState struct {
	Groups []zoneGroupXML `xml:"ZoneGroups>ZoneGroup"`
}

// Older firmware returns ZoneGroups as the document root.
type zoneGroupsLegacy struct {
	Groups []zoneGroupXML `xml:"ZoneGroup"`
}

type zoneGroupXML struct {
	Coordinator string          `xml:"Coordinator,attr"`
	ID          string          `xml:"ID,attr"`
	Members     []zoneMemberXML `xml:"ZoneGroupMember"`
}

type zoneMemberXML struct {
	UUID      string `xml:"UUID,attr"`
	Location  string `xml:"Location,attr"`
	ZoneName  string `xml:"ZoneName,attr"`
	Invisible string `xml:"Invisible,attr"`
}

// parseTopology turns a ZoneGroupState document into groups. Invisible
// members (bonded surrounds, subwoofers) are skipped and groups whose
// coordinator is not among the visible members are dropped. The coordinator
// comes first in Members.
func parseTopology(doc string) ([]zone.Group, error) {
	var groups []zoneGroupXML
	var state zoneGroupState
	if err := xml.Unmarshal([]byte(doc), &state); err != nil {
		return nil, fmt.Errorf("parse zone group state: %w", err)
	}
	groups = state.Groups
	if len(groups) == 0 {
		var legacy zoneGroupsLegacy
		if err := xml.Unmarshal([]byte(doc), &legacy); err == nil {
			groups = legacy.Groups
		}
	}

	out := make([]zone.Group, 0, len(groups))
	for _, zg := range groups {
		var coord *zone.Member
		others := make([]zone.Member, 0, len(zg.Members))
		for _, zm := range zg.Members {
			if zm.Invisible == "1" {
				continue
			}
			m := zone.Member{ID: zm.UUID, Name: zm.ZoneName, Address: hostFromLocation(zm.Location)}
			if zm.UUID == zg.Coordinator {
				coord = &m
				continue
			}
			others = append(others, m)
		}
		if coord == nil {
			continue
		}
		out = append(out, zone.Group{
			ID:          zg.Coordinator,
			Coordinator: *coord,
			Members:     append([]zone.Member{*coord}, others...),
		})
	}
	return out, nil
}

// hostFromLocation extracts host:port from a device description URL.
func hostFromLocation(location string) string {
	u, err := url.Parse(location)
	if err != nil || u.Host == "" {
		return ""
	}
	if u.Port() == "" {
		return u.Hostname() + ":" + defaultPort
	}
	return u.Host
}

package sonos

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/llehouerou/sinuous/internal/zone"
)

type didlLite struct {
	Items      []didlObject `xml:"item"`
	Containers []didlObject `xml:"container"`
}

type didlObject struct {
	ID          string  `xml:"id,attr"`
	Title       string  `xml:"title"`
	Creator     string  `xml:"creator"`
	Album       string  `xml:"album"`
	AlbumArtURI string  `xml:"albumArtURI"`
	Class       string  `xml:"class"`
	Description string  `xml:"description"`
	ResMD       string  `xml:"resMD"`
	Res         didlRes `xml:"res"`
}

type didlRes struct {
	Duration string `xml:"duration,attr"`
	URI      string `xml:",chardata"`
}

// notImplemented is what devices return in place of empty metadata.
const notImplemented = "NOT_IMPLEMENTED"

func parseDIDL(doc string) (didlLite, error) {
	var d didlLite
	if doc == "" || doc == notImplemented {
		return d, nil
	}
	if err := xml.Unmarshal([]byte(doc), &d); err != nil {
		return d, fmt.Errorf("parse DIDL-Lite: %w", err)
	}
	return d, nil
}

// objectTrack converts a DIDL object into a track. Relative art URIs are
// resolved against the speaker address.
func objectTrack(o didlObject, addr string) zone.Track {
	return zone.Track{
		URI:      strings.TrimSpace(o.Res.URI),
		Title:    o.Title,
		Artist:   o.Creator,
		Album:    o.Album,
		ArtURI:   absoluteArt(o.AlbumArtURI, addr),
		Duration: parseDuration(o.Res.Duration),
	}
}

// parseTracks returns the tracks of a DIDL-Lite document in order.
func parseTracks(doc, addr string) ([]zone.Track, error) {
	d, err := parseDIDL(doc)
	if err != nil {
		return nil, err
	}
	tracks := make([]zone.Track, 0, len(d.Items))
	for _, it := range d.Items {
		tracks = append(tracks, objectTrack(it, addr))
	}
	return tracks, nil
}

// parseFavorites returns the favorites that point at playlists.
func parseFavorites(doc string) ([]zone.Favorite, error) {
	d, err := parseDIDL(doc)
	if err != nil {
		return nil, err
	}
	var favs []zone.Favorite
	for _, it := range append(d.Items, d.Containers...) {
		uri := strings.TrimSpace(it.Res.URI)
		isPlaylist := strings.Contains(uri, "playlist") ||
			strings.HasPrefix(uri, "x-rincon-cpcontainer:") ||
			strings.Contains(it.Class, "playlistContainer") ||
			strings.Contains(it.ResMD, "playlistContainer")
		if !isPlaylist {
			continue
		}
		title := it.Title
		if title == "" {
			title = "Unknown"
		}
		favs = append(favs, zone.Favorite{
			Title:       title,
			Description: it.Description,
			URI:         uri,
			Metadata:    it.ResMD,
		})
	}
	return favs, nil
}

func absoluteArt(uri, addr string) string {
	switch {
	case uri == "":
		return ""
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		return uri
	case strings.HasPrefix(uri, "/"):
		return "http://" + addr + uri
	default:
		return "http://" + addr + "/" + uri
	}
}

// parseDuration parses the H:MM:SS[.fff] format used by AVTransport.
// Unknown or malformed values yield 0.
func parseDuration(s string) time.Duration {
	if s == "" || s == notImplemented {
		return 0
	}
	frac := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s, frac = s[:i], s[i+1:]
	}
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0
	}
	var total time.Duration
	units := []time.Duration{time.Hour, time.Minute, time.Second}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0
		}
		total += time.Duration(n) * units[i]
	}
	if frac != "" {
		if ms, err := strconv.Atoi((frac + "00")[:3]); err == nil {
			total += time.Duration(ms) * time.Millisecond
		}
	}
	return total
}

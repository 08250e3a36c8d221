//go:build linux

package mpris

import (
	"fmt"
	"hash/fnv"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/sinuous/internal/uistate"
	"github.com/llehouerou/sinuous/internal/zone"
)

func playbackStatus(s uistate.State) types.PlaybackStatus {
	if !s.HasSnapshot {
		return types.PlaybackStatusStopped
	}
	switch s.Transport {
	case zone.Playing, zone.Transitioning:
		return types.PlaybackStatusPlaying
	case zone.Paused:
		return types.PlaybackStatusPaused
	default:
		return types.PlaybackStatusStopped
	}
}

func metadata(s uistate.State) types.Metadata {
	if !s.HasSnapshot || !s.HasTrack {
		return types.Metadata{}
	}
	t := s.Track
	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(t.URI)),
		Length:  types.Microseconds(t.Duration.Microseconds()),
		Title:   t.DisplayTitle(),
		Album:   t.Album,
		ArtUrl:  t.ArtURI,
	}
	if t.Artist != "" {
		meta.Artist = []string{t.Artist}
	}
	return meta
}

func formatTrackID(uri string) string {
	h := fnv.New64a()
	h.Write([]byte(uri))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}

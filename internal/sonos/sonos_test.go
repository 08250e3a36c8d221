package sonos

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/sinuous/internal/speaker"
	"github.com/llehouerou/sinuous/internal/zone"
)

func groupAt(f *fakeSpeaker) zone.Group {
	m := zone.Member{ID: "RINCON_A", Name: "Kitchen", Address: f.addr()}
	return zone.Group{ID: m.ID, Coordinator: m, Members: []zone.Member{m}}
}

const trackMeta = `<DIDL-Lite xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:upnp="urn:schemas-upnp-org:metadata-1-0/upnp/" xmlns="urn:schemas-upnp-org:metadata-1-0/DIDL-Lite/"><item id="-1" parentID="-1"><res duration="0:03:00">x-file:a.flac</res><upnp:albumArtURI>/getaa?u=a</upnp:albumArtURI><dc:title>A</dc:title><dc:creator>Band</dc:creator><upnp:album>LP</upnp:album></item></DIDL-Lite>`

func TestQueryTransport(t *testing.T) {
	f := newFakeSpeaker(t)
	f.reply("GetTransportInfo", map[string]string{"CurrentTransportState": "PLAYING"})
	f.reply("GetPositionInfo", map[string]string{
		"Track":         "3",
		"TrackDuration": "0:03:00",
		"TrackMetaData": trackMeta,
		"TrackURI":      "x-file:a.flac",
		"RelTime":       "0:01:10",
	})
	f.reply("GetVolume", map[string]string{"CurrentVolume": "25"})

	c := New(Options{})
	tr, err := c.QueryTransport(context.Background(), groupAt(f))
	require.NoError(t, err)

	assert.Equal(t, zone.Playing, tr.State)
	assert.True(t, tr.HasTrack)
	assert.Equal(t, "A", tr.Track.Title)
	assert.Equal(t, "Band", tr.Track.Artist)
	assert.Equal(t, "http://"+f.addr()+"/getaa?u=a", tr.Track.ArtURI)
	assert.Equal(t, 3*time.Minute, tr.Track.Duration)
	assert.Equal(t, 70*time.Second, tr.Position)
	assert.Equal(t, 25, tr.Volume)
	assert.Equal(t, 3, tr.QueuePosition)
	assert.Contains(t, f.lastBody("GetVolume"), "<Channel>Master</Channel>")
}

func TestQueryTransport_NoTrack(t *testing.T) {
	f := newFakeSpeaker(t)
	f.reply("GetTransportInfo", map[string]string{"CurrentTransportState": "STOPPED"})
	f.reply("GetPositionInfo", map[string]string{"TrackURI": "", "TrackMetaData": "NOT_IMPLEMENTED", "RelTime": "NOT_IMPLEMENTED"})
	f.reply("GetVolume", map[string]string{"CurrentVolume": "5"})

	tr, err := New(Options{}).QueryTransport(context.Background(), groupAt(f))
	require.NoError(t, err)
	assert.False(t, tr.HasTrack)
	assert.Zero(t, tr.Position)
	assert.Zero(t, tr.QueuePosition)
}

func TestQueryTransport_Desync(t *testing.T) {
	f := newFakeSpeaker(t)
	f.reply("GetTransportInfo", map[string]string{"CurrentTransportState": "PLAYING"})
	f.reply("GetPositionInfo", map[string]string{"TrackURI": "x-rincon:RINCON_B"})

	_, err := New(Options{}).QueryTransport(context.Background(), groupAt(f))
	require.ErrorIs(t, err, speaker.ErrDesync)
	assert.Contains(t, err.Error(), "RINCON_B")
}

func TestCall_Fault(t *testing.T) {
	f := newFakeSpeaker(t)
	f.fault("Next", 701)

	err := New(Options{}).SendCommand(context.Background(), groupAt(f), speaker.Next())

	var fault *FaultError
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, 701, fault.Code)
	assert.Equal(t, "Next", fault.Action)
	assert.Contains(t, fault.Error(), "transition not available")
	assert.NotErrorIs(t, err, speaker.ErrUnreachable)
}

func TestCall_StatusWithoutFault(t *testing.T) {
	f := newFakeSpeaker(t)
	f.replyFunc("Play", func(string) (int, string) { return http.StatusServiceUnavailable, "busy" })

	err := New(Options{}).SendCommand(context.Background(), groupAt(f), speaker.Play())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestCall_Unreachable(t *testing.T) {
	f := newFakeSpeaker(t)
	g := groupAt(f)
	f.srv.Close()

	err := New(Options{}).SendCommand(context.Background(), g, speaker.Play())
	assert.ErrorIs(t, err, speaker.ErrUnreachable)
}

func TestCall_CanceledContext(t *testing.T) {
	f := newFakeSpeaker(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(Options{}).SendCommand(ctx, groupAt(f), speaker.Play())
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, speaker.ErrUnreachable)
}

func TestSendCommand_Actions(t *testing.T) {
	tests := []struct {
		cmd    speaker.Command
		action string
		want   string
	}{
		{speaker.Play(), "Play", "<Speed>1</Speed>"},
		{speaker.Pause(), "Pause", "<InstanceID>0</InstanceID>"},
		{speaker.Next(), "Next", "<InstanceID>0</InstanceID>"},
		{speaker.Previous(), "Previous", "<InstanceID>0</InstanceID>"},
		{speaker.SetVolume(42), "SetVolume", "<DesiredVolume>42</DesiredVolume>"},
	}
	for _, tt := range tests {
		t.Run(tt.cmd.String(), func(t *testing.T) {
			f := newFakeSpeaker(t)
			require.NoError(t, New(Options{}).SendCommand(context.Background(), groupAt(f), tt.cmd))
			assert.Equal(t, []string{tt.action}, f.actions())
			assert.Contains(t, f.lastBody(tt.action), tt.want)
		})
	}
}

func TestSendCommand_PlayFavoriteContainer(t *testing.T) {
	f := newFakeSpeaker(t)
	fav := zone.Favorite{
		Title:    "Mix",
		URI:      "x-rincon-cpcontainer:1006206cspotify%3aplaylist%3a1",
		Metadata: `<DIDL-Lite><item id="1"/></DIDL-Lite>`,
	}

	err := New(Options{}).SendCommand(context.Background(), groupAt(f), speaker.PlayFavorite(fav))
	require.NoError(t, err)

	assert.Equal(t, []string{"RemoveAllTracksFromQueue", "AddURIToQueue", "SetAVTransportURI", "Play"}, f.actions())
	add := f.lastBody("AddURIToQueue")
	assert.Contains(t, add, "<EnqueuedURI>x-rincon-cpcontainer:1006206cspotify%3aplaylist%3a1</EnqueuedURI>")
	assert.Contains(t, add, "&lt;DIDL-Lite&gt;", "metadata is escaped")
	assert.Contains(t, add, "<EnqueueAsNext>0</EnqueueAsNext>")
	assert.Contains(t, f.lastBody("SetAVTransportURI"), "x-rincon-queue:RINCON_A#0")
}

func TestSendCommand_PlayFavoriteTrack(t *testing.T) {
	f := newFakeSpeaker(t)
	fav := zone.Favorite{Title: "Song", URI: "x-file:song.mp3?playlist"}

	err := New(Options{}).SendCommand(context.Background(), groupAt(f), speaker.PlayFavorite(fav))
	require.NoError(t, err)

	assert.Equal(t, []string{"AddURIToQueue", "Next"}, f.actions())
	assert.Contains(t, f.lastBody("AddURIToQueue"), "<EnqueueAsNext>1</EnqueueAsNext>")
}

func TestSendCommand_PlayFavoriteStopsOnEnqueueFailure(t *testing.T) {
	f := newFakeSpeaker(t)
	f.fault("AddURIToQueue", 402)
	fav := zone.Favorite{URI: "x-rincon-cpcontainer:abc"}

	err := New(Options{}).SendCommand(context.Background(), groupAt(f), speaker.PlayFavorite(fav))

	var fault *FaultError
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, []string{"RemoveAllTracksFromQueue", "AddURIToQueue"}, f.actions())
}

func TestQueryQueue_Paginates(t *testing.T) {
	f := newFakeSpeaker(t)
	item := func(i int) string {
		return fmt.Sprintf(`<item id="Q:0/%d"><res duration="0:00:10">x-file:%d</res><dc:title>T%d</dc:title></item>`, i, i, i)
	}
	f.replyFunc("Browse", func(body string) (int, string) {
		start := 0
		if strings.Contains(body, "<StartingIndex>100</StartingIndex>") {
			start = 100
		}
		n := min(100, 130-start)
		var items strings.Builder
		for i := start; i < start+n; i++ {
			items.WriteString(item(i))
		}
		doc := `<DIDL-Lite xmlns:dc="http://purl.org/dc/elements/1.1/">` + items.String() + `</DIDL-Lite>`
		return http.StatusOK, envelope("Browse", map[string]string{
			"Result":         doc,
			"NumberReturned": fmt.Sprint(n),
			"TotalMatches":   "130",
		})
	})

	tracks, err := New(Options{}).QueryQueue(context.Background(), groupAt(f))
	require.NoError(t, err)
	require.Len(t, tracks, 130)
	assert.Equal(t, "T0", tracks[0].Title)
	assert.Equal(t, "T129", tracks[129].Title)
	assert.Equal(t, []string{"Browse", "Browse"}, f.actions())
	assert.Contains(t, f.lastBody("Browse"), "<ObjectID>Q:0</ObjectID>")
}

func TestFavorites_Cached(t *testing.T) {
	f := newFakeSpeaker(t)
	f.reply("Browse", map[string]string{
		"Result":         `<DIDL-Lite xmlns:dc="http://purl.org/dc/elements/1.1/"><item><dc:title>P</dc:title><res>x-rincon-cpcontainer:p</res></item></DIDL-Lite>`,
		"NumberReturned": "1",
		"TotalMatches":   "1",
	})
	c := New(Options{})

	for range 2 {
		favs, err := c.Favorites(context.Background(), groupAt(f))
		require.NoError(t, err)
		require.Len(t, favs, 1)
		assert.Equal(t, "P", favs[0].Title)
	}
	assert.Len(t, f.actions(), 1)
	assert.Contains(t, f.lastBody("Browse"), "<ObjectID>FV:2</ObjectID>")
}

func TestDiscover_FromSeeds(t *testing.T) {
	f := newFakeSpeaker(t)
	doc := fmt.Sprintf(`<ZoneGroupState><ZoneGroups><ZoneGroup Coordinator="RINCON_A" ID="RINCON_A:1">
<ZoneGroupMember UUID="RINCON_A" Location="http://%s/xml/device_description.xml" ZoneName="Kitchen"/>
</ZoneGroup></ZoneGroups></ZoneGroupState>`, f.addr())
	f.reply("GetZoneGroupState", map[string]string{"ZoneGroupState": doc})
	f.reply("GetTransportInfo", map[string]string{"CurrentTransportState": "PLAYING"})

	c := New(Options{Seeds: []string{"127.0.0.1:1", f.addr()}})
	c.browse = func(context.Context, time.Duration) ([]string, error) {
		t.Fatal("seeds must skip mDNS")
		return nil, nil
	}

	groups, err := c.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "Kitchen", groups[0].Name())
	assert.Equal(t, f.addr(), groups[0].Address())
	assert.Equal(t, zone.Playing, groups[0].State)
}

func TestDiscover_NothingFound(t *testing.T) {
	c := New(Options{})
	c.browse = func(context.Context, time.Duration) ([]string, error) { return nil, nil }

	_, err := c.Discover(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)

	c.browse = func(context.Context, time.Duration) ([]string, error) { return nil, errors.New("no multicast") }
	_, err = c.Discover(context.Background())
	assert.Error(t, err)
}

func TestNew_SeedPorts(t *testing.T) {
	c := New(Options{Seeds: []string{"10.0.0.5", "10.0.0.6:1401"}})
	assert.Equal(t, []string{"10.0.0.5:1400", "10.0.0.6:1401"}, c.seeds)
}

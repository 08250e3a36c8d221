// Package sonos implements speaker.Service for Sonos speakers: mDNS
// discovery, UPnP SOAP control on port 1400, DIDL-Lite metadata and GENA
// event subscriptions.
package sonos

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/llehouerou/sinuous/internal/cache"
	"github.com/llehouerou/sinuous/internal/logger"
	"github.com/llehouerou/sinuous/internal/speaker"
	"github.com/llehouerou/sinuous/internal/zone"
)

const (
	defaultPort      = "1400"
	queuePageSize    = 100
	favoritesTTL     = 5 * time.Minute
	defaultDiscovery = 2 * time.Second
)

// ErrNotFound is returned when no speaker answered a discovery round.
var ErrNotFound = errors.New("sonos: no speaker found")

// Verify Client implements speaker.Service at compile time.
var _ speaker.Service = (*Client)(nil)

// Options configures a Client.
type Options struct {
	// Seeds are speaker addresses (host or host:port) queried directly
	// instead of browsing mDNS.
	Seeds []string
	// DiscoveryTimeout bounds one mDNS browse.
	DiscoveryTimeout time.Duration
	// CallbackAddr is the listen address of the event callback server.
	// Empty means an ephemeral port on all interfaces.
	CallbackAddr string
}

// Client talks to the speakers of one household.
type Client struct {
	httpClient       *http.Client
	seeds            []string
	discoveryTimeout time.Duration
	browse           func(ctx context.Context, timeout time.Duration) ([]string, error)
	favorites        *cache.Cache[[]zone.Favorite]

	callbackAddr string
	eventsOnce   sync.Once
	events       *eventServer
	eventsErr    error
}

// New creates a client.
func New(opts Options) *Client {
	if opts.DiscoveryTimeout <= 0 {
		opts.DiscoveryTimeout = defaultDiscovery
	}
	seeds := make([]string, 0, len(opts.Seeds))
	for _, s := range opts.Seeds {
		seeds = append(seeds, withPort(s))
	}
	return &Client{
		httpClient:       &http.Client{Timeout: 30 * time.Second},
		seeds:            seeds,
		discoveryTimeout: opts.DiscoveryTimeout,
		browse:           browseMDNS,
		favorites:        cache.New[[]zone.Favorite](favoritesTTL),
		callbackAddr:     opts.CallbackAddr,
	}
}

// Close stops the event callback server if it was started.
func (c *Client) Close() error {
	if c.events != nil {
		return c.events.Close()
	}
	return nil
}

func withPort(addr string) string {
	if _, _, err := net.SplitHostPort(addr); err == nil {
		return addr
	}
	return net.JoinHostPort(addr, defaultPort)
}

func (c *Client) transportErr(ctx context.Context, action string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s: %w", action, ctxErr)
	}
	return fmt.Errorf("%s: %w: %v", action, speaker.ErrUnreachable, err)
}

// Discover implements speaker.Service. The topology is read from the first
// speaker that answers; every coordinator is then probed for its transport
// state.
func (c *Client) Discover(ctx context.Context) ([]zone.Group, error) {
	addrs := c.seeds
	if len(addrs) == 0 {
		var err error
		addrs, err = c.browse(ctx, c.discoveryTimeout)
		if err != nil {
			return nil, fmt.Errorf("browse: %w", err)
		}
	}
	if len(addrs) == 0 {
		return nil, ErrNotFound
	}

	var lastErr error
	for _, addr := range addrs {
		groups, err := c.topology(ctx, addr)
		if err != nil {
			logger.Debug("[sonos] topology from %s: %v", addr, err)
			lastErr = err
			continue
		}
		c.probe(ctx, groups)
		logger.Debug("[sonos] %d groups from %s", len(groups), addr)
		return groups, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrNotFound, lastErr)
}

func (c *Client) topology(ctx context.Context, addr string) ([]zone.Group, error) {
	out, err := c.call(ctx, addr, zoneGroupTopology, "GetZoneGroupState", noArgs)
	if err != nil {
		return nil, err
	}
	return parseTopology(out["ZoneGroupState"])
}

// probe fills the transport state hint of every group concurrently.
// Unreachable coordinators keep the Stopped hint.
func (c *Client) probe(ctx context.Context, groups []zone.Group) {
	var wg sync.WaitGroup
	for i := range groups {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state, err := c.transportState(ctx, groups[i].Address())
			if err != nil {
				logger.Debug("[sonos] probe %s: %v", groups[i].ID, err)
				return
			}
			groups[i].State = state
		}()
	}
	wg.Wait()
}

func (c *Client) transportState(ctx context.Context, addr string) (zone.TransportState, error) {
	out, err := c.call(ctx, addr, avTransport, "GetTransportInfo", instance0)
	if err != nil {
		return zone.Stopped, err
	}
	return parseTransportState(out["CurrentTransportState"]), nil
}

func parseTransportState(s string) zone.TransportState {
	switch s {
	case "PLAYING":
		return zone.Playing
	case "PAUSED_PLAYBACK":
		return zone.Paused
	case "TRANSITIONING":
		return zone.Transitioning
	default:
		return zone.Stopped
	}
}

// QueryTransport implements speaker.Service.
func (c *Client) QueryTransport(ctx context.Context, g zone.Group) (speaker.Transport, error) {
	addr := g.Address()
	state, err := c.transportState(ctx, addr)
	if err != nil {
		return speaker.Transport{}, err
	}

	pos, err := c.call(ctx, addr, avTransport, "GetPositionInfo", instance0)
	if err != nil {
		return speaker.Transport{}, err
	}
	uri := pos["TrackURI"]
	if strings.HasPrefix(uri, "x-rincon:") {
		return speaker.Transport{}, fmt.Errorf("%s follows %s: %w",
			g.ID, strings.TrimPrefix(uri, "x-rincon:"), speaker.ErrDesync)
	}

	vol, err := c.call(ctx, addr, renderingControl, "GetVolume", masterVol)
	if err != nil {
		return speaker.Transport{}, err
	}
	volume, _ := strconv.Atoi(vol["CurrentVolume"])

	t := speaker.Transport{
		State:    state,
		Position: parseDuration(pos["RelTime"]),
		Volume:   volume,
	}
	if uri != "" {
		t.HasTrack = true
		t.Track = zone.Track{URI: uri}
		if d, err := parseDIDL(pos["TrackMetaData"]); err == nil && len(d.Items) > 0 {
			t.Track = objectTrack(d.Items[0], addr)
			if t.Track.URI == "" {
				t.Track.URI = uri
			}
		}
		if d := parseDuration(pos["TrackDuration"]); d > 0 {
			t.Track.Duration = d
		}
		t.QueuePosition, _ = strconv.Atoi(pos["Track"])
	}
	return t, nil
}

// QueryQueue implements speaker.Service.
func (c *Client) QueryQueue(ctx context.Context, g zone.Group) ([]zone.Track, error) {
	var tracks []zone.Track
	for {
		result, returned, total, err := c.browseObjects(ctx, g.Address(), "Q:0", len(tracks), queuePageSize)
		if err != nil {
			return nil, err
		}
		page, err := parseTracks(result, g.Address())
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, page...)
		if returned == 0 || len(tracks) >= total {
			return tracks, nil
		}
	}
}

// Favorites implements speaker.Service. Results are cached per household
// speaker for a few minutes.
func (c *Client) Favorites(ctx context.Context, g zone.Group) ([]zone.Favorite, error) {
	return c.favorites.GetOrLoad(ctx, g.Address(), func(ctx context.Context) ([]zone.Favorite, error) {
		result, _, _, err := c.browseObjects(ctx, g.Address(), "FV:2", 0, queuePageSize)
		if err != nil {
			return nil, err
		}
		favs, err := parseFavorites(result)
		if err != nil {
			return nil, err
		}
		logger.Info("[sonos] %d favorite playlists", len(favs))
		return favs, nil
	})
}

func (c *Client) browseObjects(ctx context.Context, addr, objectID string, start, count int) (string, int, int, error) {
	out, err := c.call(ctx, addr, contentDirectory, "Browse", &browseArgs{
		ObjectID:       objectID,
		BrowseFlag:     "BrowseDirectChildren",
		Filter:         "*",
		StartingIndex:  strconv.Itoa(start),
		RequestedCount: strconv.Itoa(count),
	})
	if err != nil {
		return "", 0, 0, err
	}
	returned, _ := strconv.Atoi(out["NumberReturned"])
	total, _ := strconv.Atoi(out["TotalMatches"])
	return out["Result"], returned, total, nil
}

// SendCommand implements speaker.Service.
func (c *Client) SendCommand(ctx context.Context, g zone.Group, cmd speaker.Command) error {
	addr := g.Address()
	var err error
	switch cmd.Kind {
	case speaker.KindPlay:
		_, err = c.call(ctx, addr, avTransport, "Play", playNormal)
	case speaker.KindPause:
		_, err = c.call(ctx, addr, avTransport, "Pause", instance0)
	case speaker.KindNext:
		_, err = c.call(ctx, addr, avTransport, "Next", instance0)
	case speaker.KindPrevious:
		_, err = c.call(ctx, addr, avTransport, "Previous", instance0)
	case speaker.KindSetVolume:
		_, err = c.call(ctx, addr, renderingControl, "SetVolume", &setVolumeArgs{
			InstanceID:    "0",
			Channel:       "Master",
			DesiredVolume: strconv.Itoa(cmd.Volume),
		})
	case speaker.KindPlayFavorite:
		err = c.playFavorite(ctx, g, cmd.Favorite)
	default:
		return fmt.Errorf("unsupported command %s", cmd)
	}
	return err
}

// playFavorite replaces the queue with a playlist container, or queues a
// single track next and skips to it.
func (c *Client) playFavorite(ctx context.Context, g zone.Group, f zone.Favorite) error {
	addr := g.Address()
	logger.Info("[sonos] playing favorite %q on %s", f.Title, g.ID)

	if !f.IsContainer() {
		if err := c.enqueue(ctx, addr, f, true); err != nil {
			return err
		}
		_, err := c.call(ctx, addr, avTransport, "Next", instance0)
		return err
	}

	if _, err := c.call(ctx, addr, avTransport, "RemoveAllTracksFromQueue", instance0); err != nil {
		logger.Warn("[sonos] clear queue on %s: %v", g.ID, err)
	}
	if err := c.enqueue(ctx, addr, f, false); err != nil {
		return err
	}
	if _, err := c.call(ctx, addr, avTransport, "SetAVTransportURI", &setURIArgs{
		InstanceID: "0",
		CurrentURI: "x-rincon-queue:" + g.Coordinator.ID + "#0",
	}); err != nil {
		return err
	}
	_, err := c.call(ctx, addr, avTransport, "Play", playNormal)
	return err
}

func (c *Client) enqueue(ctx context.Context, addr string, f zone.Favorite, next bool) error {
	asNext := "0"
	if next {
		asNext = "1"
	}
	_, err := c.call(ctx, addr, avTransport, "AddURIToQueue", &enqueueArgs{
		InstanceID:                      "0",
		EnqueuedURI:                     f.URI,
		EnqueuedURIMetaData:             f.Metadata,
		DesiredFirstTrackNumberEnqueued: "0",
		EnqueueAsNext:                   asNext,
	})
	return err
}

package sonos

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/llehouerou/sinuous/internal/logger"
	"github.com/llehouerou/sinuous/internal/speaker"
	"github.com/llehouerou/sinuous/internal/zone"
)

const (
	subscriptionTimeout = 300 * time.Second
	resubscribeDelay    = 30 * time.Second
	unsubscribeTimeout  = 2 * time.Second
)

// eventServer receives GENA NOTIFY requests and forwards them as updates.
type eventServer struct {
	srv  *http.Server
	port int

	mu    sync.Mutex
	sinks map[string]sink
}

type sink struct {
	groupID string
	out     chan speaker.Update
}

func startEventServer(addr string) (*eventServer, error) {
	if addr == "" {
		addr = ":0"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen for events: %w", err)
	}
	s := &eventServer{
		port:  ln.Addr().(*net.TCPAddr).Port,
		sinks: make(map[string]sink),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("NOTIFY /event/{token}/{service}", s.handleNotify)
	s.srv = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("[sonos] event server: %v", err)
		}
	}()
	logger.Debug("[sonos] event server listening on port %d", s.port)
	return s, nil
}

func (s *eventServer) Close() error {
	return s.srv.Close()
}

func (s *eventServer) handleNotify(w http.ResponseWriter, r *http.Request) {
	_, _ = io.Copy(io.Discard, r.Body)

	s.mu.Lock()
	k, ok := s.sinks[r.PathValue("token")]
	if ok {
		select {
		case k.out <- speaker.Update{GroupID: k.groupID, Service: r.PathValue("service")}:
		default:
		}
	}
	s.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusPreconditionFailed)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *eventServer) register(groupID string) (string, chan speaker.Update) {
	var b [8]byte
	_, _ = rand.Read(b[:])
	token := hex.EncodeToString(b[:])
	out := make(chan speaker.Update, 8)

	s.mu.Lock()
	s.sinks[token] = sink{groupID: groupID, out: out}
	s.mu.Unlock()
	return token, out
}

// unregister removes a sink and closes its channel. Sends happen under the
// same lock, so no NOTIFY can race with the close.
func (s *eventServer) unregister(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if k, ok := s.sinks[token]; ok {
		delete(s.sinks, token)
		close(k.out)
	}
}

type subscription struct {
	svc  service
	name string
	url  string // callback
	sid  string
	ttl  time.Duration
}

// SubscribeUpdates implements speaker.Service. It subscribes to the
// AVTransport and RenderingControl events of the coordinator; the returned
// channel is closed after ctx is done and the subscriptions are released.
func (c *Client) SubscribeUpdates(ctx context.Context, g zone.Group) (<-chan speaker.Update, error) {
	c.eventsOnce.Do(func() {
		c.events, c.eventsErr = startEventServer(c.callbackAddr)
	})
	if c.eventsErr != nil {
		return nil, fmt.Errorf("%w: %v", speaker.ErrPushUnsupported, c.eventsErr)
	}

	addr := g.Address()
	host, err := localAddrFor(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", speaker.ErrPushUnsupported, err)
	}

	token, out := c.events.register(g.ID)
	base := fmt.Sprintf("http://%s/event/%s/", net.JoinHostPort(host, strconv.Itoa(c.events.port)), token)

	var subs []*subscription
	var lastErr error
	for _, s := range []struct {
		svc  service
		name string
	}{{avTransport, "AVTransport"}, {renderingControl, "RenderingControl"}} {
		sub := &subscription{svc: s.svc, name: s.name, url: base + s.name}
		if err := c.subscribe(ctx, addr, sub); err != nil {
			lastErr = err
			logger.Debug("[sonos] subscribe %s %s: %v", g.ID, s.name, err)
			continue
		}
		subs = append(subs, sub)
	}
	if len(subs) == 0 {
		c.events.unregister(token)
		return nil, fmt.Errorf("%w: %v", speaker.ErrPushUnsupported, lastErr)
	}

	go c.maintain(ctx, addr, token, subs)
	return out, nil
}

// maintain renews subscriptions at half their lifetime and releases them
// when ctx is done.
func (c *Client) maintain(ctx context.Context, addr, token string, subs []*subscription) {
	defer c.events.unregister(token)

	timers := make([]*time.Timer, len(subs))
	renewals := make(chan int, len(subs))
	for i, sub := range subs {
		timers[i] = time.AfterFunc(sub.ttl/2, func() { renewals <- i })
	}
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			uctx, cancel := context.WithTimeout(context.Background(), unsubscribeTimeout)
			for _, sub := range subs {
				if err := c.unsubscribe(uctx, addr, sub); err != nil {
					logger.Debug("[sonos] unsubscribe %s: %v", sub.name, err)
				}
			}
			cancel()
			return
		case i := <-renewals:
			sub := subs[i]
			next := sub.ttl / 2
			if err := c.renew(ctx, addr, sub); err != nil {
				logger.Debug("[sonos] renew %s: %v, resubscribing", sub.name, err)
				if err := c.subscribe(ctx, addr, sub); err != nil {
					logger.Warn("[sonos] resubscribe %s: %v", sub.name, err)
					next = resubscribeDelay
				} else {
					next = sub.ttl / 2
				}
			}
			timers[i].Reset(next)
		}
	}
}

func (c *Client) subscribe(ctx context.Context, addr string, sub *subscription) error {
	resp, err := c.gena(ctx, "SUBSCRIBE", addr, sub.svc, map[string]string{
		"CALLBACK": "<" + sub.url + ">",
		"NT":       "upnp:event",
		"TIMEOUT":  timeoutHeader(subscriptionTimeout),
	})
	if err != nil {
		return err
	}
	sub.sid = resp.Get("SID")
	if sub.sid == "" {
		return errors.New("subscribe: no SID in response")
	}
	sub.ttl = parseTimeoutHeader(resp.Get("TIMEOUT"))
	return nil
}

func (c *Client) renew(ctx context.Context, addr string, sub *subscription) error {
	resp, err := c.gena(ctx, "SUBSCRIBE", addr, sub.svc, map[string]string{
		"SID":     sub.sid,
		"TIMEOUT": timeoutHeader(subscriptionTimeout),
	})
	if err != nil {
		return err
	}
	sub.ttl = parseTimeoutHeader(resp.Get("TIMEOUT"))
	return nil
}

func (c *Client) unsubscribe(ctx context.Context, addr string, sub *subscription) error {
	_, err := c.gena(ctx, "UNSUBSCRIBE", addr, sub.svc, map[string]string{"SID": sub.sid})
	return err
}

func (c *Client) gena(ctx context.Context, method, addr string, svc service, headers map[string]string) (http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, method, "http://"+addr+svc.event, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportErr(ctx, method, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: device returned status %d", method, resp.StatusCode)
	}
	return resp.Header, nil
}

func timeoutHeader(d time.Duration) string {
	return "Second-" + strconv.Itoa(int(d/time.Second))
}

// parseTimeoutHeader reads a "Second-N" value, defaulting to the requested
// subscription lifetime.
func parseTimeoutHeader(v string) time.Duration {
	n, err := strconv.Atoi(strings.TrimPrefix(v, "Second-"))
	if err != nil || n <= 0 {
		return subscriptionTimeout
	}
	return time.Duration(n) * time.Second
}

// localAddrFor returns the local IP the system would use to reach addr.
func localAddrFor(addr string) (string, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return "", err
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String(), nil
}

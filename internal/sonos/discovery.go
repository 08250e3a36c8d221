package sonos

import (
	"context"
	"net"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"

	"github.com/llehouerou/sinuous/internal/logger"
)

const (
	mdnsService = "_sonos._tcp"
	mdnsDomain  = "local."
)

// browseMDNS browses the local network for speakers until timeout and
// returns their control addresses in the order they answered.
func browseMDNS(ctx context.Context, timeout time.Duration) ([]string, error) {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		mu    sync.Mutex
		addrs []string
		seen  = make(map[string]bool)
	)
	entries := make(chan *zeroconf.ServiceEntry)
	go func() {
		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				if entry == nil || seen[entry.Instance] {
					continue
				}
				addr := entryAddress(entry)
				if addr == "" {
					continue
				}
				mu.Lock()
				seen[entry.Instance] = true
				if !slices.Contains(addrs, addr) {
					addrs = append(addrs, addr)
					logger.Debug("[sonos] discovered %s at %s", entry.Instance, addr)
				}
				mu.Unlock()
			case <-ctx.Done():
				return
			}
		}
	}()

	if err := resolver.Browse(ctx, mdnsService, mdnsDomain, entries); err != nil {
		return nil, err
	}
	<-ctx.Done()

	mu.Lock()
	defer mu.Unlock()
	return slices.Clone(addrs), nil
}

// entryAddress prefers the device description location advertised in the
// TXT record and falls back to the first IPv4 address on the control port.
func entryAddress(e *zeroconf.ServiceEntry) string {
	for _, txt := range e.Text {
		if loc, ok := strings.CutPrefix(txt, "location="); ok {
			if addr := hostFromLocation(loc); addr != "" {
				return addr
			}
		}
	}
	if len(e.AddrIPv4) == 0 {
		return ""
	}
	return net.JoinHostPort(e.AddrIPv4[0].String(), defaultPort)
}

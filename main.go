package main

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/llehouerou/sinuous/internal/app"
	"github.com/llehouerou/sinuous/internal/config"
	"github.com/llehouerou/sinuous/internal/dispatch"
	"github.com/llehouerou/sinuous/internal/icons"
	"github.com/llehouerou/sinuous/internal/keymap"
	"github.com/llehouerou/sinuous/internal/logger"
	"github.com/llehouerou/sinuous/internal/mirror"
	"github.com/llehouerou/sinuous/internal/mpris"
	"github.com/llehouerou/sinuous/internal/notify"
	"github.com/llehouerou/sinuous/internal/registry"
	"github.com/llehouerou/sinuous/internal/sonos"
	"github.com/llehouerou/sinuous/internal/uistate"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	fs := config.Flags()
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if v, _ := fs.GetBool("version"); v {
		fmt.Println("sinuous", version)
		return
	}

	if err := run(fs); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(fs *pflag.FlagSet) error {
	cfg, err := config.Load(fs)
	if err != nil {
		return err
	}

	logPath, err := cfg.LogFile()
	if err != nil {
		return err
	}
	if err := logger.OpenFile(logPath); err != nil {
		return err
	}
	defer logger.Close()
	logger.SetLevel(logger.ParseLevel(cfg.GetLogLevel()))
	logger.Info("[main] sinuous %s starting", version)

	icons.Init(cfg.Icons)

	discovery := cfg.GetDiscoveryConfig()
	poll := cfg.GetPollConfig()

	svc := sonos.New(sonos.Options{
		Seeds:            seeds(cfg.Devices),
		DiscoveryTimeout: discovery.Timeout,
		CallbackAddr:     cfg.Events.Listen,
	})
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Warn("[main] close events server: %v", err)
		}
	}()

	published := &uistate.Latest{}
	intents := make(chan keymap.Intent, 8)
	deps := app.Deps{
		Registry:   registry.New(svc, registry.Options{RemovalRounds: discovery.RemovalRounds}),
		Mirror:     mirror.New(svc, mirror.Options{Interval: poll.Interval, StaleThreshold: poll.StaleThreshold}),
		Dispatcher: dispatch.New(svc, dispatch.Options{Timeout: cfg.GetCommandTimeout()}),
		Favorites:  svc,
		Intents:    intents,
		Published:  published,
		Version:    version,
	}

	if cfg.MPRISEnabled() {
		adapter, err := mpris.New(published, intents)
		if err != nil {
			logger.Warn("[main] mpris unavailable: %v", err)
		} else {
			defer func() { _ = adapter.Close() }()
		}
	}

	if cfg.Notifications {
		notifier, err := notify.New()
		if err != nil {
			logger.Warn("[main] notifications unavailable: %v", err)
		} else {
			deps.Notifier = notifier
			deps.Art = notify.NewArtCache(filepath.Join(xdg.CacheHome, "sinuous", "art"))
		}
	}

	p := tea.NewProgram(app.New(cfg, deps), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	if m, ok := final.(app.Model); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}

// seeds returns the devices given as IPv4 addresses, with or without a
// port. Other entries are room names matched after discovery.
func seeds(devices []string) []string {
	var out []string
	for _, d := range devices {
		host := d
		if h, _, err := net.SplitHostPort(d); err == nil {
			host = h
		}
		if ip := net.ParseIP(host); ip != nil && ip.To4() != nil {
			out = append(out, d)
		}
	}
	return out
}

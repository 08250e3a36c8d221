//go:build linux

package mpris

import (
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/sinuous/internal/keymap"
	"github.com/llehouerou/sinuous/internal/logger"
	"github.com/llehouerou/sinuous/internal/uistate"
)

// Adapter exposes the active group over MPRIS. Properties are read from the
// last published state; method calls become intents for the event loop.
type Adapter struct {
	server *server.Server
}

// New creates and starts a new MPRIS adapter.
func New(state *uistate.Latest, intents chan<- keymap.Intent) (*Adapter, error) {
	a := &Adapter{
		server: server.NewServer("sinuous", &rootAdapter{}, &playerAdapter{state: state, intents: intents}),
	}

	go func() {
		if err := a.server.Listen(); err != nil {
			logger.Warn("[mpris] listen: %v", err)
		}
	}()

	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // app manages its own lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "Sinuous", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return nil, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return nil, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter.
type playerAdapter struct {
	state   *uistate.Latest
	intents chan<- keymap.Intent
}

// send forwards an intent without blocking the D-Bus handler.
func (p *playerAdapter) send(intent keymap.Intent) error {
	select {
	case p.intents <- intent:
	default:
		logger.Debug("[mpris] loop busy, dropped %s", intent)
	}
	return nil
}

func (p *playerAdapter) Next() error {
	return p.send(keymap.IntentNext)
}

func (p *playerAdapter) Previous() error {
	return p.send(keymap.IntentPrevious)
}

func (p *playerAdapter) Pause() error {
	if !p.state.Load().Playing() {
		return nil
	}
	return p.send(keymap.IntentPlayPause)
}

func (p *playerAdapter) PlayPause() error {
	return p.send(keymap.IntentPlayPause)
}

func (p *playerAdapter) Stop() error {
	return p.Pause()
}

func (p *playerAdapter) Play() error {
	s := p.state.Load()
	if !s.HasSnapshot || s.Playing() {
		return nil
	}
	return p.send(keymap.IntentPlayPause)
}

func (p *playerAdapter) Seek(_ types.Microseconds) error {
	return nil // Not supported
}

func (p *playerAdapter) SetPosition(_ string, _ types.Microseconds) error {
	return nil // Not supported
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil // Not supported
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	return playbackStatus(p.state.Load()), nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	return metadata(p.state.Load()), nil
}

func (p *playerAdapter) Volume() (float64, error) {
	return float64(p.state.Load().Volume) / 100, nil
}

func (p *playerAdapter) SetVolume(_ float64) error {
	return nil // volume keys go through the keyboard
}

func (p *playerAdapter) Position() (int64, error) {
	return p.state.Load().Position.Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return p.state.Load().HasSnapshot, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return p.state.Load().HasSnapshot, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.state.Load().HasSnapshot, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return p.state.Load().HasSnapshot, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

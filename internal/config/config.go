package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const (
	appName   = "sinuous"
	envPrefix = "SINUOUS_"
)

type Config struct {
	Devices        []string      `koanf:"devices"`         // names or IPv4 addresses to connect to
	StartupTimeout time.Duration `koanf:"startup_timeout"` // give up when no group shows up
	Icons          string        `koanf:"icons"`           // "nerd", "unicode", or "none"
	MPRIS          *bool         `koanf:"mpris"`           // desktop media keys (default: true)
	Notifications  bool          `koanf:"notifications"`   // desktop notification on track change

	Discovery DiscoveryConfig `koanf:"discovery"`
	Poll      PollConfig      `koanf:"poll"`
	Command   CommandConfig   `koanf:"command"`
	Volume    VolumeConfig    `koanf:"volume"`
	Banner    BannerConfig    `koanf:"banner"`
	Events    EventsConfig    `koanf:"events"`
	Log       LogConfig       `koanf:"log"`
}

// DiscoveryConfig controls discovery rounds.
type DiscoveryConfig struct {
	Timeout       time.Duration `koanf:"timeout"`        // mDNS browse time per round (default: 2s)
	Interval      time.Duration `koanf:"interval"`       // time between rounds (default: 30s)
	RemovalRounds int           `koanf:"removal_rounds"` // missed rounds before a group is removed (default: 2)
}

// PollConfig controls the state mirror.
type PollConfig struct {
	Interval       time.Duration `koanf:"interval"`        // default: 1s
	StaleThreshold int           `koanf:"stale_threshold"` // failed ticks before the UI shows stale (default: 3)
}

// CommandConfig controls command dispatch.
type CommandConfig struct {
	Timeout time.Duration `koanf:"timeout"` // per-command deadline (default: 5s)
}

// VolumeConfig controls volume keys.
type VolumeConfig struct {
	Step int `koanf:"step"` // change per key press, 1-25 (default: 2)
}

// BannerConfig controls transient messages.
type BannerConfig struct {
	TTL time.Duration `koanf:"ttl"` // default: 5s
}

// EventsConfig controls the local server receiving speaker events.
type EventsConfig struct {
	Listen string `koanf:"listen"` // host:port, default ":0" (any free port)
}

// LogConfig controls the log file.
type LogConfig struct {
	Level string `koanf:"level"` // debug, info, warn, error (default: warn)
	File  string `koanf:"file"`  // default: $XDG_STATE_HOME/sinuous/sinuous.log
}

// envKeys maps environment variables (without prefix) to config keys.
// SINUOUS_LOG is kept for compatibility with older releases.
var envKeys = map[string]string{
	"DEVICES":                  "devices",
	"STARTUP_TIMEOUT":          "startup_timeout",
	"ICONS":                    "icons",
	"MPRIS":                    "mpris",
	"NOTIFICATIONS":            "notifications",
	"DISCOVERY_TIMEOUT":        "discovery.timeout",
	"DISCOVERY_INTERVAL":       "discovery.interval",
	"DISCOVERY_REMOVAL_ROUNDS": "discovery.removal_rounds",
	"POLL_INTERVAL":            "poll.interval",
	"POLL_STALE_THRESHOLD":     "poll.stale_threshold",
	"COMMAND_TIMEOUT":          "command.timeout",
	"VOLUME_STEP":              "volume.step",
	"BANNER_TTL":               "banner.ttl",
	"EVENTS_LISTEN":            "events.listen",
	"LOG_LEVEL":                "log.level",
	"LOG_FILE":                 "log.file",
	"LOG":                      "log.level",
}

// flagKeys maps command-line flags to config keys.
var flagKeys = map[string]string{
	"device":    "devices",
	"log-level": "log.level",
}

// Flags returns the command-line flag set understood by Load.
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet(appName, pflag.ContinueOnError)
	fs.StringSliceP("device", "d", nil, "speaker name or IPv4 address to connect to (repeatable, comma-separated)")
	fs.String("log-level", "", "log level: debug, info, warn, error")
	fs.String("config", "", "config file (default: ~/.config/sinuous/config.toml, then ./config.toml)")
	fs.Bool("version", false, "print version and exit")
	return fs
}

// Load reads the config files, then SINUOUS_* environment variables, then
// the flags that were set on fs (which may be nil). Later sources win.
func Load(fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	paths := getConfigPaths()
	explicit := ""
	if fs != nil {
		explicit, _ = fs.GetString("config")
	}
	if explicit != "" {
		paths = []string{expandPath(explicit)}
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if explicit != "" {
				return nil, fmt.Errorf("config file: %w", err)
			}
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if fs != nil {
		if err := k.Load(posflag.ProviderWithFlag(fs, ".", k, flagKey(fs)), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.Devices = splitDevices(cfg.Devices)
	if cfg.Log.File != "" {
		cfg.Log.File = expandPath(cfg.Log.File)
	}

	return cfg, nil
}

// envKey turns SINUOUS_DISCOVERY_TIMEOUT into discovery.timeout. Unknown
// variables are ignored.
func envKey(s string) string {
	return envKeys[strings.TrimPrefix(s, envPrefix)]
}

// flagKey maps set flags to their config keys. Unset flags and flags that
// are not config keys are skipped.
func flagKey(fs *pflag.FlagSet) func(f *pflag.Flag) (string, any) {
	return func(f *pflag.Flag) (string, any) {
		key, ok := flagKeys[f.Name]
		if !ok || !f.Changed {
			return "", nil
		}
		return key, posflag.FlagVal(fs, f)
	}
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/sinuous/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// splitDevices flattens comma-separated entries and drops blanks.
func splitDevices(in []string) []string {
	var out []string
	for _, d := range in {
		for part := range strings.SplitSeq(d, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// ErrInvalidLogFile is returned by LogFile when no location can be resolved.
var ErrInvalidLogFile = errors.New("no log file location")

// LogFile returns the log file path, defaulting to the XDG state directory.
// The directory is created when missing.
func (c *Config) LogFile() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	path, err := xdg.StateFile(filepath.Join(appName, appName+".log"))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidLogFile, err)
	}
	return path, nil
}

// MPRISEnabled reports whether the MPRIS adapter should run (default: true).
func (c *Config) MPRISEnabled() bool {
	return c.MPRIS == nil || *c.MPRIS
}

// GetStartupTimeout returns the startup timeout with its default applied.
func (c *Config) GetStartupTimeout() time.Duration {
	if c.StartupTimeout <= 0 {
		return 10 * time.Second
	}
	return c.StartupTimeout
}

// GetDiscoveryConfig returns the discovery configuration with defaults applied.
func (c *Config) GetDiscoveryConfig() DiscoveryConfig {
	cfg := c.Discovery
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.RemovalRounds <= 0 {
		cfg.RemovalRounds = 2
	}
	return cfg
}

// GetPollConfig returns the mirror configuration with defaults applied.
func (c *Config) GetPollConfig() PollConfig {
	cfg := c.Poll
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if cfg.StaleThreshold <= 0 {
		cfg.StaleThreshold = 3
	}
	return cfg
}

// GetCommandTimeout returns the per-command timeout with its default applied.
func (c *Config) GetCommandTimeout() time.Duration {
	if c.Command.Timeout <= 0 {
		return 5 * time.Second
	}
	return c.Command.Timeout
}

// GetVolumeStep returns the volume step with its default applied.
func (c *Config) GetVolumeStep() int {
	if c.Volume.Step <= 0 || c.Volume.Step > 25 {
		return 2
	}
	return c.Volume.Step
}

// GetBannerTTL returns how long transient messages stay up.
func (c *Config) GetBannerTTL() time.Duration {
	if c.Banner.TTL <= 0 {
		return 5 * time.Second
	}
	return c.Banner.TTL
}

// GetLogLevel returns the configured log level, "warn" when unset.
func (c *Config) GetLogLevel() string {
	if c.Log.Level == "" {
		return "warn"
	}
	return strings.ToLower(c.Log.Level)
}

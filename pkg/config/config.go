package config

import (
	"time"

	"github.com/arthur-debert/modorg/pkg/errors"
	"github.com/arthur-debert/modorg/pkg/filesystem"
	"github.com/arthur-debert/modorg/pkg/paths"
	toml "github.com/pelletier/go-toml/v2"
)

// Config is modorg's effective configuration.
type Config struct {
	Game      Game      `koanf:"game"`
	Scan      Scan      `koanf:"scan"`
	Manifests Manifests `koanf:"manifests"`
	Watch     Watch     `koanf:"watch"`
	Logging   Logging   `koanf:"logging"`
}

type Game struct {
	Dir string `koanf:"dir"`
}

type Scan struct {
	Locations []string `koanf:"locations"`
}

type Manifests struct {
	Links    []string      `koanf:"links"`
	Timeout  time.Duration `koanf:"timeout"`
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

type Watch struct {
	Debounce        time.Duration `koanf:"debounce"`
	RefreshInterval time.Duration `koanf:"refresh_interval"`
}

type Logging struct {
	Verbosity int `koanf:"verbosity"`
}

// Validate checks value ranges and normalizes scan locations to rooted,
// slash separated paths.
func (c *Config) Validate() error {
	if c.Manifests.Timeout <= 0 {
		return errors.Newf(errors.ErrConfigValid, "manifests.timeout must be positive, got %s", c.Manifests.Timeout).
			WithDetail("key", "manifests.timeout")
	}
	if c.Manifests.CacheTTL < 0 {
		return errors.Newf(errors.ErrConfigValid, "manifests.cache_ttl must not be negative, got %s", c.Manifests.CacheTTL).
			WithDetail("key", "manifests.cache_ttl")
	}
	if c.Watch.Debounce <= 0 {
		return errors.Newf(errors.ErrConfigValid, "watch.debounce must be positive, got %s", c.Watch.Debounce).
			WithDetail("key", "watch.debounce")
	}
	if c.Watch.RefreshInterval < 0 {
		return errors.Newf(errors.ErrConfigValid, "watch.refresh_interval must not be negative, got %s", c.Watch.RefreshInterval).
			WithDetail("key", "watch.refresh_interval")
	}
	if len(c.Scan.Locations) == 0 {
		return errors.New(errors.ErrConfigValid, "scan.locations must name at least one directory").
			WithDetail("key", "scan.locations")
	}

	locations := make([]string, 0, len(c.Scan.Locations))
	for _, loc := range c.Scan.Locations {
		clean, err := filesystem.Contain(loc)
		if err != nil {
			return errors.Wrapf(err, errors.ErrConfigValid, "invalid scan location %q", loc).
				WithDetail("key", "scan.locations")
		}
		locations = append(locations, clean)
	}
	c.Scan.Locations = locations
	c.Game.Dir = paths.ExpandHome(c.Game.Dir)

	return nil
}

// GameDir returns the configured game directory, failing when none is set.
func (c *Config) GameDir() (string, error) {
	if c.Game.Dir == "" {
		return "", errors.New(errors.ErrConfigValid, "no game directory configured; set game.dir or MODORG_GAME_DIR").
			WithDetail("key", "game.dir")
	}
	return c.Game.Dir, nil
}

// TOML renders the effective configuration in the same layout as
// config.toml.
func (c *Config) TOML() ([]byte, error) {
	doc := map[string]interface{}{
		"game": map[string]interface{}{
			"dir": c.Game.Dir,
		},
		"scan": map[string]interface{}{
			"locations": c.Scan.Locations,
		},
		"manifests": map[string]interface{}{
			"links":     c.Manifests.Links,
			"timeout":   c.Manifests.Timeout.String(),
			"cache_ttl": c.Manifests.CacheTTL.String(),
		},
		"watch": map[string]interface{}{
			"debounce":         c.Watch.Debounce.String(),
			"refresh_interval": c.Watch.RefreshInterval.String(),
		},
		"logging": map[string]interface{}{
			"verbosity": c.Logging.Verbosity,
		},
	}
	data, err := toml.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode configuration")
	}
	return data, nil
}

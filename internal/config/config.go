// Package config loads the sun clock configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/litescript/ls-sunclock/internal/astro"
	"github.com/litescript/ls-sunclock/internal/logging"
	"github.com/litescript/ls-sunclock/internal/sunmodel"
)

// ErrUnknownLocation is returned when a location preset does not exist.
var ErrUnknownLocation = errors.New("unknown location")

// Location is a named observing site.
type Location struct {
	Lat float64 `yaml:"lat"`
	Lon float64 `yaml:"lon"`
	Alt float64 `yaml:"alt,omitempty"`
}

// Config holds user settings. Command-line flags override it.
type Config struct {
	// Location names the preset used when no coordinates are given.
	Location string `yaml:"location"`

	// Locations are named presets, keyed by lower-case name.
	Locations map[string]Location `yaml:"locations"`

	// Model selects the day solver (see sunmodel.Names).
	Model string `yaml:"model"`

	// RefreshInterval is the tick of the watch loop and the TUI.
	RefreshInterval time.Duration `yaml:"refresh_interval"`

	LogLevel string `yaml:"log_level"`

	// Timezone is an IANA name or "Local".
	Timezone string `yaml:"timezone"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Location: "malaga",
		Locations: map[string]Location{
			"malaga":    {Lat: 36.6952469, Lon: -4.4538953},
			"budapest":  {Lat: 47.49801, Lon: 19.03991},
			"greenwich": {Lat: 51.4779, Lon: -0.0015, Alt: 46},
			"rovaniemi": {Lat: 66.5039, Lon: 25.7294},
			"tromso":    {Lat: 69.6492, Lon: 18.9553},
			"sydney":    {Lat: -33.8688, Lon: 151.2093},
		},
		Model:           sunmodel.DefaultModel,
		RefreshInterval: 5 * time.Second,
		LogLevel:        "info",
		Timezone:        "Local",
	}
}

// DefaultPath is the config file location under the user config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "ls-sunclock", "config.yaml")
}

// Load reads path over the defaults. A missing file at the default path is
// not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg.Locations = lowerKeys(cfg.Locations)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every preset, the model name and the timezone.
func (c Config) Validate() error {
	for _, name := range c.LocationNames() {
		loc := c.Locations[name]
		obs := astro.Observer{LatDeg: loc.Lat, LonDeg: loc.Lon, AltM: loc.Alt, Name: name}
		if err := obs.Validate(); err != nil {
			return fmt.Errorf("location %q: %w", name, err)
		}
	}
	if _, err := c.Resolve(""); err != nil {
		return err
	}
	if _, err := sunmodel.New(c.Model); err != nil {
		return err
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("refresh_interval must be positive, got %v", c.RefreshInterval)
	}
	if _, err := c.TimeLocation(); err != nil {
		return err
	}
	return nil
}

// Resolve returns the observer for a preset name. An empty name selects the
// configured default location.
func (c Config) Resolve(name string) (astro.Observer, error) {
	if name == "" {
		name = c.Location
	}
	key := strings.ToLower(strings.TrimSpace(name))
	loc, ok := c.Locations[key]
	if !ok {
		return astro.Observer{}, fmt.Errorf("%w: %q (known: %s)", ErrUnknownLocation, name, strings.Join(c.LocationNames(), ", "))
	}
	return astro.Observer{LatDeg: loc.Lat, LonDeg: loc.Lon, AltM: loc.Alt, Name: key}, nil
}

// LocationNames lists the presets in order.
func (c Config) LocationNames() []string {
	names := make([]string, 0, len(c.Locations))
	for n := range c.Locations {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// TimeLocation resolves the configured timezone.
func (c Config) TimeLocation() (*time.Location, error) {
	switch c.Timezone {
	case "", "Local", "local":
		return time.Local, nil
	case "UTC", "utc":
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Level is the parsed log level.
func (c Config) Level() logging.Level {
	return logging.ParseLevel(c.LogLevel)
}

func lowerKeys(in map[string]Location) map[string]Location {
	out := make(map[string]Location, len(in))
	for k, v := range in {
		out[strings.ToLower(k)] = v
	}
	return out
}

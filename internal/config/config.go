package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config represents the sunclock command configuration.
// Command-line flags override anything loaded here.
type Config struct {
	Observer ObserverConfig `json:"observer"`
	Almanac  AlmanacConfig  `json:"almanac"`
}

// ObserverConfig describes where the Sun is observed from.
type ObserverConfig struct {
	// Name is a display label for the location
	Name string `json:"name"`

	// Latitude in degrees, north positive
	Latitude float64 `json:"latitude"`

	// Longitude in degrees, east positive
	Longitude float64 `json:"longitude"`

	// Elevation in meters above sea level (informational)
	Elevation float64 `json:"elevation"`

	// TimeZone is an IANA zone name used for the local clock (e.g. "Asia/Tokyo")
	TimeZone string `json:"timezone"`
}

// AlmanacConfig controls the yearly table.
type AlmanacConfig struct {
	// Days is the number of consecutive days to print (default: 366)
	Days int `json:"days"`
}

// Load reads a JSON configuration file. A missing file yields DefaultConfig.
// Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// keep defaults
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnvironmentOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as indented JSON, creating parent
// directories as needed.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is present:
// central Tokyo, one leap-year's worth of days.
func DefaultConfig() *Config {
	return &Config{
		Observer: ObserverConfig{
			Name:      "Tokyo",
			Latitude:  35.6544,
			Longitude: 139.7447,
			TimeZone:  "Asia/Tokyo",
		},
		Almanac: AlmanacConfig{
			Days: 366,
		},
	}
}

// Validate checks ranges and that the time zone can be loaded.
func (c *Config) Validate() error {
	o := c.Observer
	if math.IsNaN(o.Latitude) || o.Latitude < -90 || o.Latitude > 90 {
		return fmt.Errorf("observer latitude %v out of range [-90, 90]", o.Latitude)
	}
	if math.IsNaN(o.Longitude) || math.IsInf(o.Longitude, 0) {
		return fmt.Errorf("observer longitude %v is not finite", o.Longitude)
	}
	if _, err := o.Location(); err != nil {
		return err
	}
	if c.Almanac.Days < 1 {
		return fmt.Errorf("almanac days must be positive, got %d", c.Almanac.Days)
	}
	return nil
}

// Location loads the observer's time zone. An empty name means UTC.
func (o ObserverConfig) Location() (*time.Location, error) {
	if o.TimeZone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(o.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", o.TimeZone, err)
	}
	return loc, nil
}

func (c *Config) applyEnvironmentOverrides() error {
	if lat := os.Getenv("SUNCLOCK_LAT"); lat != "" {
		v, err := strconv.ParseFloat(lat, 64)
		if err != nil {
			return fmt.Errorf("invalid SUNCLOCK_LAT %q: %w", lat, err)
		}
		c.Observer.Latitude = v
	}
	if lon := os.Getenv("SUNCLOCK_LON"); lon != "" {
		v, err := strconv.ParseFloat(lon, 64)
		if err != nil {
			return fmt.Errorf("invalid SUNCLOCK_LON %q: %w", lon, err)
		}
		c.Observer.Longitude = v
	}
	if tz := os.Getenv("SUNCLOCK_TZ"); tz != "" {
		c.Observer.TimeZone = tz
	}
	return nil
}

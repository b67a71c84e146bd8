// Package config loads reconstruction settings from a JSON file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/LdDl/t0-go/t0"
)

// Config is the set of reconstruction parameters. Omitted fields fall back to defaults
// through the Get* accessors.
type Config struct {
	// Label of the track collection to use
	TrackProducer *string `json:"track_producer,omitempty"`
	// How far away from the detector bounds a point must be to make a claim [cm]
	Resolution *float64 `json:"resolution,omitempty"`
	// [cm/us]
	DriftVelocity *float64 `json:"drift_velocity,omitempty"`

	// TPC dimensions [cm]
	DetHalfHeight *float64 `json:"det_half_height,omitempty"`
	DetHalfWidth  *float64 `json:"det_half_width,omitempty"`
	DetLength     *float64 `json:"det_length,omitempty"`

	// Number of concurrent workers per event, 0 means GOMAXPROCS
	Workers *int `json:"workers,omitempty"`
	// Reject tracks not monotonic in Y
	RequireMonotonic *bool `json:"require_monotonic,omitempty"`
}

const (
	defaultResolution    = 10.0
	defaultDetHalfHeight = 116.5
	defaultDetHalfWidth  = 128.175
	defaultDetLength     = 1036.8
	defaultWorkers       = 1
)

func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }
func ptrBool(v bool) *bool          { return &v }

// DefaultConfig returns a Config with every field set to its default
func DefaultConfig() *Config {
	return &Config{
		TrackProducer:    ptrString(t0.DefaultTrackProducer),
		Resolution:       ptrFloat64(defaultResolution),
		DriftVelocity:    ptrFloat64(t0.DefaultDriftVelocity),
		DetHalfHeight:    ptrFloat64(defaultDetHalfHeight),
		DetHalfWidth:     ptrFloat64(defaultDetHalfWidth),
		DetLength:        ptrFloat64(defaultDetLength),
		Workers:          ptrInt(defaultWorkers),
		RequireMonotonic: ptrBool(false),
	}
}

// LoadConfig loads a Config from a JSON file.
// The file must have a .json extension and be under 1MB.
func LoadConfig(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("%w: config file must have .json extension, got %q", t0.ErrConfiguration, ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to stat config file: %w", t0.ErrConfiguration, err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("%w: config file too large: %d bytes (max %d)", t0.ErrConfiguration, fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file: %w", t0.ErrConfiguration, err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config JSON: %w", t0.ErrConfiguration, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks values which are set. Bounds consistency is checked by t0.NewDetectorBounds.
func (c *Config) Validate() error {
	if c.TrackProducer != nil && *c.TrackProducer == "" {
		return fmt.Errorf("%w: track_producer must not be empty", t0.ErrConfiguration)
	}
	if c.Resolution != nil && *c.Resolution < 0 {
		return fmt.Errorf("%w: resolution must be non-negative, got %f", t0.ErrConfiguration, *c.Resolution)
	}
	if c.DriftVelocity != nil && !(*c.DriftVelocity > 0) {
		return fmt.Errorf("%w: drift_velocity must be positive, got %f", t0.ErrConfiguration, *c.DriftVelocity)
	}
	for name, v := range map[string]*float64{
		"det_half_height": c.DetHalfHeight,
		"det_half_width":  c.DetHalfWidth,
		"det_length":      c.DetLength,
	} {
		if v != nil && !(*v > 0) {
			return fmt.Errorf("%w: %s must be positive, got %f", t0.ErrConfiguration, name, *v)
		}
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("%w: workers must be non-negative, got %d", t0.ErrConfiguration, *c.Workers)
	}
	return nil
}

// GetTrackProducer returns the track_producer value or the default.
func (c *Config) GetTrackProducer() string {
	if c.TrackProducer == nil {
		return t0.DefaultTrackProducer
	}
	return *c.TrackProducer
}

// GetResolution returns the resolution value or the default.
func (c *Config) GetResolution() float64 {
	if c.Resolution == nil {
		return defaultResolution
	}
	return *c.Resolution
}

// GetDriftVelocity returns the drift_velocity value or the default.
func (c *Config) GetDriftVelocity() float64 {
	if c.DriftVelocity == nil {
		return t0.DefaultDriftVelocity
	}
	return *c.DriftVelocity
}

// GetWorkers returns the workers value or the default.
func (c *Config) GetWorkers() int {
	if c.Workers == nil {
		return defaultWorkers
	}
	return *c.Workers
}

// GetRequireMonotonic returns the require_monotonic value or the default.
func (c *Config) GetRequireMonotonic() bool {
	if c.RequireMonotonic == nil {
		return false
	}
	return *c.RequireMonotonic
}

// Geometry returns TPC dimensions as a geometry provider
func (c *Config) Geometry() t0.StaticGeometry {
	geo := t0.StaticGeometry{
		HalfHeight: defaultDetHalfHeight,
		HalfWidth:  defaultDetHalfWidth,
		Length:     defaultDetLength,
	}
	if c.DetHalfHeight != nil {
		geo.HalfHeight = *c.DetHalfHeight
	}
	if c.DetHalfWidth != nil {
		geo.HalfWidth = *c.DetHalfWidth
	}
	if c.DetLength != nil {
		geo.Length = *c.DetLength
	}
	return geo
}

// Bounds computes detector bounds from geometry and resolution
func (c *Config) Bounds() (t0.DetectorBounds, error) {
	return t0.NewDetectorBounds(c.Geometry(), c.GetResolution())
}

// NewReconstructor builds the reconstructor described by the configuration
func (c *Config) NewReconstructor() (*t0.Reconstructor, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	bounds, err := c.Bounds()
	if err != nil {
		return nil, err
	}
	return t0.NewReconstructor(bounds, c.GetDriftVelocity(),
		t0.WithTrackProducer(c.GetTrackProducer()),
		t0.WithWorkers(c.GetWorkers()),
		t0.WithMonotonicCheck(c.GetRequireMonotonic()),
	)
}

package ggdoc

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the tunables of a workspace's history engine.
type Config struct {
	// TileSize is the granularity, in pixels, at which SaveRegion copies
	// pre-mutation pixels into the scratch surface.
	TileSize int `yaml:"tile_size"`

	// InflateMargin is added around every rectangle of a simplified region
	// to cover anti-aliasing bleed.
	InflateMargin int `yaml:"inflate_margin"`

	// MaxRects bounds the rectangle count of a simplified region.
	MaxRects int `yaml:"max_rects"`

	// FlushInterval is how often a long step group (rewind, fast-forward)
	// flushes notifications so the UI stays responsive.
	FlushInterval time.Duration `yaml:"flush_interval"`

	// QuickGesture is the drag duration below which selection edits are
	// discarded as accidental clicks.
	QuickGesture time.Duration `yaml:"quick_gesture"`

	// MaxEntries caps the undo list; 0 means unlimited.
	MaxEntries int `yaml:"max_entries"`

	// Workers is the worker pool size for pixel work; 0 means GOMAXPROCS.
	Workers int `yaml:"workers"`
}

// DefaultConfig returns the defaults used when no config is supplied.
func DefaultConfig() *Config {
	return &Config{
		TileSize:      32,
		InflateMargin: 1,
		MaxRects:      50,
		FlushInterval: 500 * time.Millisecond,
		QuickGesture:  50 * time.Millisecond,
	}
}

// LoadConfig reads a YAML file over DefaultConfig and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML over DefaultConfig and validates the result.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that every value is usable.
func (c *Config) Validate() error {
	if c.TileSize <= 0 {
		return fmt.Errorf("tile_size must be > 0, got %d", c.TileSize)
	}
	if c.InflateMargin < 0 {
		return fmt.Errorf("inflate_margin must be >= 0, got %d", c.InflateMargin)
	}
	if c.MaxRects <= 0 {
		return fmt.Errorf("max_rects must be > 0, got %d", c.MaxRects)
	}
	if c.FlushInterval <= 0 {
		return fmt.Errorf("flush_interval must be > 0, got %s", c.FlushInterval)
	}
	if c.QuickGesture < 0 {
		return fmt.Errorf("quick_gesture must be >= 0, got %s", c.QuickGesture)
	}
	if c.MaxEntries < 0 {
		return fmt.Errorf("max_entries must be >= 0, got %d", c.MaxEntries)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	return nil
}

package ggdoc

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig_OverridesDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("tile_size: 16\nquick_gesture: 100ms\nmax_entries: 20\n"))
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.TileSize)
	assert.Equal(t, 100*time.Millisecond, cfg.QuickGesture)
	assert.Equal(t, 20, cfg.MaxEntries)
	// Untouched keys keep their defaults.
	assert.Equal(t, 1, cfg.InflateMargin)
	assert.Equal(t, 50, cfg.MaxRects)
	assert.Equal(t, 500*time.Millisecond, cfg.FlushInterval)
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero tile", "tile_size: 0"},
		{"negative margin", "inflate_margin: -1"},
		{"zero rects", "max_rects: 0"},
		{"zero flush", "flush_interval: 0s"},
		{"negative gesture", "quick_gesture: -5ms"},
		{"negative entries", "max_entries: -1"},
		{"negative workers", "workers: -2"},
		{"bad yaml", "tile_size: [1, 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ggdoc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 3\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workers)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefaultConfig_Valid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "content/items", cfg.Content.ItemsDir)
	assert.Equal(t, 100*time.Millisecond, cfg.Game.TickInterval)
	assert.Equal(t, 1.0, cfg.Game.UnarmedDamage)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
content:
  items_dir: pack/items
  scenes_dir: pack/scenes
  maps_dir: pack/maps
game:
  tick_interval: 50ms
  debug: true
  start_scene: mike
logging:
  level: debug
  format: console
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "pack/items", cfg.Content.ItemsDir)
	assert.Equal(t, 50*time.Millisecond, cfg.Game.TickInterval)
	assert.True(t, cfg.Game.Debug)
	assert.Equal(t, "mike", cfg.Game.StartScene)
	assert.Equal(t, "console", cfg.Logging.Format)
	// Unset values fall back to defaults.
	assert.Equal(t, 1.0, cfg.Game.UnarmedDamage)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidateAggregatesViolations(t *testing.T) {
	cfg := Config{
		Content: ContentConfig{},
		Game:    GameConfig{TickInterval: 0, UnarmedDamage: -1},
		Logging: LoggingConfig{Level: "loud", Format: "xml"},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content.items_dir")
	assert.Contains(t, err.Error(), "game.tick_interval")
	assert.Contains(t, err.Error(), "game.unarmed_damage")
	assert.Contains(t, err.Error(), "logging.level")
}

func TestValidateRanges(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := Default()
		cfg.Game.TickInterval = time.Duration(rapid.Int64Range(-1000, 1000).Draw(t, "tick")) * time.Millisecond
		cfg.Game.UnarmedDamage = rapid.Float64Range(-10, 10).Draw(t, "unarmed")

		err := cfg.Validate()
		if cfg.Game.TickInterval > 0 && cfg.Game.UnarmedDamage >= 0 {
			if err != nil {
				t.Fatalf("valid config rejected: %v", err)
			}
		} else if err == nil {
			t.Fatalf("invalid config accepted: tick=%s unarmed=%f",
				cfg.Game.TickInterval, cfg.Game.UnarmedDamage)
		}
	})
}

// Package config provides Viper-based configuration loading for the game driver.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ContentConfig holds the content-pack directory paths.
type ContentConfig struct {
	// ItemsDir is the directory containing item definition files.
	ItemsDir string `mapstructure:"items_dir"`
	// ScenesDir is the directory containing scene files.
	ScenesDir string `mapstructure:"scenes_dir"`
	// MapsDir is the directory containing map files.
	MapsDir string `mapstructure:"maps_dir"`
}

// GameConfig holds simulation tuning.
type GameConfig struct {
	// TickInterval is the duration of one simulation tick.
	TickInterval time.Duration `mapstructure:"tick_interval"`
	// Debug enables the per-tick state dump at runtime.
	Debug bool `mapstructure:"debug"`
	// UnarmedDamage is the attack damage dealt with no weapon equipped.
	UnarmedDamage float64 `mapstructure:"unarmed_damage"`
	// StartScene is the scene id played when the driver starts. Empty = none.
	StartScene string `mapstructure:"start_scene"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Content ContentConfig `mapstructure:"content"`
	Game    GameConfig    `mapstructure:"game"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateGame(c.Game); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	if c.ItemsDir == "" {
		errs = append(errs, "content.items_dir must not be empty")
	}
	if c.ScenesDir == "" {
		errs = append(errs, "content.scenes_dir must not be empty")
	}
	if c.MapsDir == "" {
		errs = append(errs, "content.maps_dir must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateGame(g GameConfig) error {
	var errs []string
	if g.TickInterval <= 0 {
		errs = append(errs, fmt.Sprintf("game.tick_interval must be > 0, got %s", g.TickInterval))
	}
	if g.UnarmedDamage < 0 {
		errs = append(errs, fmt.Sprintf("game.unarmed_damage must be >= 0, got %f", g.UnarmedDamage))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with THORNVALE_ prefix
	v.SetEnvPrefix("THORNVALE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the built-in default configuration.
//
// Postcondition: the returned Config passes Validate.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Defaults are static; failure here is a programming error.
		panic(errors.Join(errors.New("default configuration is invalid"), err))
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("content.items_dir", "content/items")
	v.SetDefault("content.scenes_dir", "content/scenes")
	v.SetDefault("content.maps_dir", "content/maps")

	v.SetDefault("game.tick_interval", "100ms")
	v.SetDefault("game.debug", false)
	v.SetDefault("game.unarmed_damage", 1.0)
	v.SetDefault("game.start_scene", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

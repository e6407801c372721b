// Package config loads the simulator settings from YAML.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"falling-sand/internal/core"
	"falling-sand/internal/engine"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulator settings.
type Config struct {
	Grid      GridConfig      `yaml:"grid"`
	Color     ColorConfig     `yaml:"color"`
	Timing    TimingConfig    `yaml:"timing"`
	Seed      int64           `yaml:"seed"`
	Display   DisplayConfig   `yaml:"display"`
	Terminal  TerminalConfig  `yaml:"terminal"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// GridConfig holds the simulation grid dimensions.
type GridConfig struct {
	Cols int `yaml:"cols"`
	Rows int `yaml:"rows"`
}

// ColorConfig holds the particle colour settings.
type ColorConfig struct {
	Saturation float64 `yaml:"saturation"` // 0-100
	Lightness  float64 `yaml:"lightness"`  // 0-100
	InitialHue int     `yaml:"initial_hue"` // -1 = random
}

// TimingConfig holds frame timing settings.
type TimingConfig struct {
	Window int `yaml:"window"` // ticks in the rolling average
}

// DisplayConfig holds GUI window settings.
type DisplayConfig struct {
	Scale    int `yaml:"scale"`     // screen pixels per cell
	HUDWidth int `yaml:"hud_width"` // 0 hides the control panel
	TPS      int `yaml:"tps"`
}

// TerminalConfig holds terminal frontend settings.
type TerminalConfig struct {
	FPS int `yaml:"fps"`
}

// TelemetryConfig holds frame telemetry output settings.
type TelemetryConfig struct {
	OutputDir string `yaml:"output_dir"` // empty = disabled
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only fields present in the file overwrite the defaults.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the engine cannot run with and fills in display
// defaults. Colour values are not checked.
func (c *Config) Validate() error {
	if c.Grid.Cols <= 0 || c.Grid.Rows <= 0 {
		return fmt.Errorf("%w: grid %dx%d", core.ErrInvalidConfiguration, c.Grid.Cols, c.Grid.Rows)
	}
	if c.Timing.Window <= 0 {
		return fmt.Errorf("%w: timing window %d", core.ErrInvalidConfiguration, c.Timing.Window)
	}
	if c.Color.InitialHue >= core.HueRange {
		return fmt.Errorf("%w: initial hue %d", core.ErrInvalidConfiguration, c.Color.InitialHue)
	}
	if c.Display.Scale <= 0 {
		c.Display.Scale = 1
	}
	if c.Display.TPS <= 0 {
		c.Display.TPS = 60
	}
	if c.Terminal.FPS <= 0 {
		c.Terminal.FPS = 30
	}
	return nil
}

// EngineConfig converts the settings into an engine configuration.
func (c *Config) EngineConfig() engine.Config {
	return engine.Config{
		Cols:        c.Grid.Cols,
		Rows:        c.Grid.Rows,
		FrameWindow: c.Timing.Window,
		Saturation:  c.Color.Saturation,
		Lightness:   c.Color.Lightness,
		InitialHue:  c.Color.InitialHue,
		Seed:        c.Seed,
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

package app

import (
	"flag"
	"time"

	"falling-sand/internal/config"
)

// Config represents the command-line parameters for the application. Zero
// values leave the corresponding config file setting untouched.
type Config struct {
	ConfigPath string
	Seed       int64
	Scale      int
	TPS        int
	OutputDir  string
}

// NewConfig returns a Config that defers to the config file.
func NewConfig() *Config {
	return &Config{}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.ConfigPath, "config", c.ConfigPath, "path to YAML config (embedded defaults when empty)")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for the particle RNG (0 keeps the config value)")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.StringVar(&c.OutputDir, "output-dir", c.OutputDir, "directory for frame telemetry CSV")
}

// Apply overrides file settings with the flags that were set. A seed of
// zero in the result is replaced by a time-based one.
func (c *Config) Apply(cfg *config.Config) {
	if c.Seed != 0 {
		cfg.Seed = c.Seed
	}
	if c.Scale > 0 {
		cfg.Display.Scale = c.Scale
	}
	if c.TPS > 0 {
		cfg.Display.TPS = c.TPS
	}
	if c.OutputDir != "" {
		cfg.Telemetry.OutputDir = c.OutputDir
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
}

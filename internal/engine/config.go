package engine

import "falling-sand/internal/core"

// Config controls the engine dimensions and initial color state.
type Config struct {
	Cols int
	Rows int

	// FrameWindow is the number of ticks averaged for frame timing.
	FrameWindow int

	Saturation float64
	Lightness  float64
	// InitialHue seeds the hue cursor; a negative value picks one at random.
	InitialHue int

	Seed int64
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Cols:        120,
		Rows:        80,
		FrameWindow: core.DefaultFrameWindow,
		Saturation:  42,
		Lightness:   61,
		InitialHue:  -1,
		Seed:        1337,
	}
}

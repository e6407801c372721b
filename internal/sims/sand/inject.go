package sand

import "falling-sand/internal/core"

// Tone carries the saturation and lightness applied to injected particles.
type Tone struct {
	Saturation float64
	Lightness  float64
}

// Inject paints one particle under a pressed pointer and returns the advanced
// hue cursor. A released or off-grid pointer leaves grid and cursor untouched.
func Inject(g *core.Grid, p core.PointerState, hue int, tone Tone) (int, error) {
	if !p.Down || !g.InBounds(p.Location.X, p.Location.Y) {
		return hue, nil
	}
	particle := core.Particle(core.Color{
		Hue:        hue,
		Saturation: tone.Saturation,
		Lightness:  tone.Lightness,
	})
	if err := g.Set(p.Location.X, p.Location.Y, particle); err != nil {
		return hue, err
	}
	return core.NextHue(hue), nil
}

// Package sand implements the falling-sand update rule and pointer injection.
package sand

import (
	"falling-sand/internal/core"
)

// Rule applies the falling-sand update to a grid in place.
type Rule struct {
	rng *core.RNG
}

// New returns a Rule drawing spill directions from rng.
func New(rng *core.RNG) *Rule {
	return &Rule{rng: rng}
}

// Name returns the rule identifier.
func (r *Rule) Name() string { return "sand" }

// Step advances every particle by at most one cell. Rows are visited from the
// second-to-last up to the top so a particle that moved down is never visited
// again in the same step; the bottom row is the floor.
func (r *Rule) Step(g *core.Grid) error {
	cols, rows := g.Dimensions()
	for y := rows - 2; y >= 0; y-- {
		for x := 0; x < cols; x++ {
			cell, err := g.Get(x, y)
			if err != nil {
				return err
			}
			if !cell.Occupied {
				continue
			}
			tx, ok, err := r.target(g, x, y, cols)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			if err := g.Set(tx, y+1, cell); err != nil {
				return err
			}
			if err := g.Set(x, y, core.Empty); err != nil {
				return err
			}
		}
	}
	return nil
}

// target picks the column in row y+1 the particle at (x, y) moves to.
func (r *Rule) target(g *core.Grid, x, y, cols int) (int, bool, error) {
	below, err := g.Get(x, y+1)
	if err != nil {
		return 0, false, err
	}
	if !below.Occupied {
		return x, true, nil
	}

	canLeft, canRight := false, false
	if x > 0 {
		c, err := g.Get(x-1, y+1)
		if err != nil {
			return 0, false, err
		}
		canLeft = !c.Occupied
	}
	if x < cols-1 {
		c, err := g.Get(x+1, y+1)
		if err != nil {
			return 0, false, err
		}
		canRight = !c.Occupied
	}

	switch {
	case canLeft && canRight:
		if r.rng.Bool() {
			return x - 1, true, nil
		}
		return x + 1, true, nil
	case canLeft:
		return x - 1, true, nil
	case canRight:
		return x + 1, true, nil
	default:
		return 0, false, nil
	}
}

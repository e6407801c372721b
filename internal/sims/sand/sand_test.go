package sand

import (
	"testing"

	"falling-sand/internal/core"
)

func newGrid(t *testing.T, cols, rows int) *core.Grid {
	t.Helper()
	g, err := core.NewGrid(cols, rows)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func place(t *testing.T, g *core.Grid, hue int, coords ...[2]int) {
	t.Helper()
	for _, c := range coords {
		if err := g.Set(c[0], c[1], core.Particle(core.Color{Hue: hue})); err != nil {
			t.Fatal(err)
		}
	}
}

func occupied(t *testing.T, g *core.Grid, x, y int) bool {
	t.Helper()
	c, err := g.Get(x, y)
	if err != nil {
		t.Fatal(err)
	}
	return c.Occupied
}

func TestParticleFallsStraightDown(t *testing.T) {
	g := newGrid(t, 5, 5)
	place(t, g, 7, [2]int{2, 3})

	if err := New(core.NewRNG(1)).Step(g); err != nil {
		t.Fatal(err)
	}

	if occupied(t, g, 2, 3) {
		t.Fatal("(2,3) should be empty after the particle fell")
	}
	c, _ := g.Get(2, 4)
	if !c.Occupied || c.Hue != 7 {
		t.Fatalf("(2,4) = %+v, expected the falling particle", c)
	}
}

func TestSpillChoiceFollowsSeed(t *testing.T) {
	// Supported pyramid so only the particle at (2,0) has a choice to make.
	setup := func() *core.Grid {
		g := newGrid(t, 5, 5)
		place(t, g, 1,
			[2]int{0, 4}, [2]int{1, 4}, [2]int{2, 4}, [2]int{3, 4}, [2]int{4, 4},
			[2]int{0, 3}, [2]int{1, 3}, [2]int{2, 3}, [2]int{3, 3}, [2]int{4, 3},
			[2]int{1, 2}, [2]int{2, 2}, [2]int{3, 2},
			[2]int{2, 1},
		)
		place(t, g, 200, [2]int{2, 0})
		return g
	}

	for seed := int64(0); seed < 16; seed++ {
		g := setup()
		if err := New(core.NewRNG(seed)).Step(g); err != nil {
			t.Fatal(err)
		}

		wantLeft := core.NewRNG(seed).Bool()
		left := occupied(t, g, 1, 1)
		right := occupied(t, g, 3, 1)
		if left == right {
			t.Fatalf("seed %d: expected exactly one of (1,1)/(3,1) filled, got left=%v right=%v", seed, left, right)
		}
		if left != wantLeft {
			t.Fatalf("seed %d: spilled left=%v, expected %v", seed, left, wantLeft)
		}
		if occupied(t, g, 2, 0) {
			t.Fatalf("seed %d: (2,0) should be empty after spilling", seed)
		}
		if g.Occupied() != 15 {
			t.Fatalf("seed %d: occupied=%d, expected 15", seed, g.Occupied())
		}
	}
}

func TestSpillBothDirectionsOccur(t *testing.T) {
	lefts, rights := 0, 0
	rule := New(core.NewRNG(42))
	for i := 0; i < 200; i++ {
		g := newGrid(t, 3, 2)
		place(t, g, 0, [2]int{1, 1}, [2]int{1, 0})
		if err := rule.Step(g); err != nil {
			t.Fatal(err)
		}
		if occupied(t, g, 0, 1) {
			lefts++
		}
		if occupied(t, g, 2, 1) {
			rights++
		}
	}
	if lefts == 0 || rights == 0 || lefts+rights != 200 {
		t.Fatalf("lefts=%d rights=%d, expected both directions over 200 draws", lefts, rights)
	}
}

func TestSingleSidedSpill(t *testing.T) {
	g := newGrid(t, 2, 2)
	place(t, g, 0, [2]int{0, 1}, [2]int{0, 0})
	if err := New(core.NewRNG(3)).Step(g); err != nil {
		t.Fatal(err)
	}
	if !occupied(t, g, 1, 1) || occupied(t, g, 0, 0) {
		t.Fatal("particle at the left edge must spill right when only right is free")
	}

	g = newGrid(t, 2, 2)
	place(t, g, 0, [2]int{1, 1}, [2]int{1, 0})
	if err := New(core.NewRNG(3)).Step(g); err != nil {
		t.Fatal(err)
	}
	if !occupied(t, g, 0, 1) || occupied(t, g, 1, 0) {
		t.Fatal("particle at the right edge must spill left when only left is free")
	}
}

func TestBlockedParticleStays(t *testing.T) {
	g := newGrid(t, 3, 2)
	place(t, g, 0, [2]int{0, 1}, [2]int{1, 1}, [2]int{2, 1}, [2]int{1, 0})
	if err := New(core.NewRNG(9)).Step(g); err != nil {
		t.Fatal(err)
	}
	if !occupied(t, g, 1, 0) {
		t.Fatal("particle with no free cell below must stay in place")
	}
}

func TestBottomRowNeverMoves(t *testing.T) {
	g := newGrid(t, 4, 3)
	place(t, g, 0, [2]int{0, 2}, [2]int{3, 2})
	rule := New(core.NewRNG(5))
	for i := 0; i < 5; i++ {
		if err := rule.Step(g); err != nil {
			t.Fatal(err)
		}
	}
	if !occupied(t, g, 0, 2) || !occupied(t, g, 3, 2) || g.Occupied() != 2 {
		t.Fatal("particles on the floor must not move")
	}
}

func TestNoDoubleMoveWithinStep(t *testing.T) {
	g := newGrid(t, 5, 5)
	place(t, g, 0, [2]int{2, 0}, [2]int{2, 1}, [2]int{2, 2})
	if err := New(core.NewRNG(0)).Step(g); err != nil {
		t.Fatal(err)
	}
	for y, want := range []bool{false, true, true, true, false} {
		if occupied(t, g, 2, y) != want {
			t.Fatalf("(2,%d) occupied=%v, expected %v; each particle moves at most one row", y, !want, want)
		}
	}
}

func TestStepConservesParticles(t *testing.T) {
	g := newGrid(t, 24, 18)
	fill := core.NewRNG(11)
	for x := 0; x < 24; x++ {
		for y := 0; y < 18; y++ {
			if fill.IntN(3) == 0 {
				place(t, g, fill.IntN(core.HueRange), [2]int{x, y})
			}
		}
	}
	want := g.Occupied()
	rule := New(core.NewRNG(12))
	for i := 0; i < 40; i++ {
		if err := rule.Step(g); err != nil {
			t.Fatal(err)
		}
		if got := g.Occupied(); got != want {
			t.Fatalf("step %d: occupied=%d, expected %d", i, got, want)
		}
	}
}

func TestStepDeterministicForSeed(t *testing.T) {
	build := func() *core.Grid {
		g := newGrid(t, 16, 12)
		fill := core.NewRNG(77)
		for x := 0; x < 16; x++ {
			for y := 0; y < 6; y++ {
				if fill.Bool() {
					place(t, g, x*10+y, [2]int{x, y})
				}
			}
		}
		return g
	}
	a, b := build(), build()
	ra, rb := New(core.NewRNG(5)), New(core.NewRNG(5))
	for i := 0; i < 20; i++ {
		if err := ra.Step(a); err != nil {
			t.Fatal(err)
		}
		if err := rb.Step(b); err != nil {
			t.Fatal(err)
		}
	}
	for x := 0; x < 16; x++ {
		for y := 0; y < 12; y++ {
			ca, _ := a.Get(x, y)
			cb, _ := b.Get(x, y)
			if ca != cb {
				t.Fatalf("cell (%d,%d) diverged: %+v vs %+v", x, y, ca, cb)
			}
		}
	}
}

func TestSingleRowGridIsAllFloor(t *testing.T) {
	g := newGrid(t, 3, 1)
	place(t, g, 0, [2]int{1, 0})
	if err := New(core.NewRNG(1)).Step(g); err != nil {
		t.Fatal(err)
	}
	if !occupied(t, g, 1, 0) {
		t.Fatal("a one-row grid has nowhere to fall")
	}
}

package core

import (
	"errors"
	"testing"
)

func TestNewGridRejectsNonPositiveDimensions(t *testing.T) {
	for _, dims := range [][2]int{{0, 5}, {5, 0}, {-1, 3}, {3, -2}} {
		if _, err := NewGrid(dims[0], dims[1]); !errors.Is(err, ErrInvalidConfiguration) {
			t.Fatalf("NewGrid(%d,%d) err=%v, expected ErrInvalidConfiguration", dims[0], dims[1], err)
		}
	}
}

func TestGridGetSetRoundTrip(t *testing.T) {
	g, err := NewGrid(4, 3)
	if err != nil {
		t.Fatal(err)
	}
	cols, rows := g.Dimensions()
	if cols != 4 || rows != 3 {
		t.Fatalf("dimensions %dx%d, expected 4x3", cols, rows)
	}

	want := Particle(Color{Hue: 120, Saturation: 42, Lightness: 61})
	if err := g.Set(3, 2, want); err != nil {
		t.Fatal(err)
	}
	got, err := g.Get(3, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("got %+v, expected %+v", got, want)
	}
	if g.Occupied() != 1 {
		t.Fatalf("occupied=%d, expected 1", g.Occupied())
	}
}

func TestGridColumnMajorLayout(t *testing.T) {
	g, _ := NewGrid(3, 5)
	if g.Index(0, 4) != 4 || g.Index(1, 0) != 5 || g.Index(2, 3) != 13 {
		t.Fatal("grid must be laid out column by column")
	}
}

func TestGridRejectsOutOfBounds(t *testing.T) {
	g, _ := NewGrid(5, 5)
	coords := [][2]int{{-1, 0}, {0, -1}, {5, 0}, {0, 5}, {-1, -1}, {7, 9}}
	for _, c := range coords {
		if _, err := g.Get(c[0], c[1]); !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("Get(%d,%d) err=%v, expected ErrOutOfBounds", c[0], c[1], err)
		}
		if err := g.Set(c[0], c[1], Particle(Color{})); !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("Set(%d,%d) err=%v, expected ErrOutOfBounds", c[0], c[1], err)
		}
	}
	if g.Occupied() != 0 {
		t.Fatal("rejected writes must not touch the grid")
	}
}

func TestGridSetEmptyDropsColor(t *testing.T) {
	g, _ := NewGrid(2, 2)
	_ = g.Set(1, 1, Particle(Color{Hue: 10}))
	if err := g.Set(1, 1, Cell{Color: Color{Hue: 99}}); err != nil {
		t.Fatal(err)
	}
	got, _ := g.Get(1, 1)
	if got != Empty {
		t.Fatalf("unoccupied write stored %+v, expected Empty", got)
	}
}

func TestGridClearAndClone(t *testing.T) {
	g, _ := NewGrid(3, 3)
	_ = g.Set(0, 0, Particle(Color{Hue: 1}))
	_ = g.Set(2, 2, Particle(Color{Hue: 2}))

	clone := g.Clone()
	g.Clear()

	if g.Occupied() != 0 {
		t.Fatalf("occupied=%d after Clear", g.Occupied())
	}
	if clone.Occupied() != 2 {
		t.Fatalf("clone occupied=%d, expected 2; clone must not share storage", clone.Occupied())
	}

	if err := g.CopyFrom(clone); err != nil {
		t.Fatal(err)
	}
	if c, _ := g.Get(2, 2); !c.Occupied || c.Hue != 2 {
		t.Fatalf("CopyFrom lost cell, got %+v", c)
	}

	other, _ := NewGrid(2, 3)
	if err := g.CopyFrom(other); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("CopyFrom mismatched grid err=%v", err)
	}
}

func TestNextHueWraps(t *testing.T) {
	if NextHue(0) != 1 {
		t.Fatal("expected hue to advance by one")
	}
	if NextHue(HueRange-1) != 0 {
		t.Fatal("expected hue to wrap at HueRange")
	}
}

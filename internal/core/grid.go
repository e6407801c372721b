package core

import "fmt"

// Grid stores a fixed-size 2D buffer of cells in column-major order.
type Grid struct {
	cols, rows int
	data       []Cell
}

// NewGrid allocates an empty grid with the given dimensions.
func NewGrid(cols, rows int) (*Grid, error) {
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("%w: grid %dx%d", ErrInvalidConfiguration, cols, rows)
	}
	return &Grid{cols: cols, rows: rows, data: make([]Cell, cols*rows)}, nil
}

// Dimensions returns the number of columns and rows.
func (g *Grid) Dimensions() (cols, rows int) { return g.cols, g.rows }

// Size returns the grid dimensions as a Size.
func (g *Grid) Size() Size { return Size{W: g.cols, H: g.rows} }

// InBounds reports whether (x, y) addresses a cell of the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.cols && y >= 0 && y < g.rows
}

// Index returns the linear slice index for coordinates (x, y).
func (g *Grid) Index(x, y int) int { return x*g.rows + y }

// Get returns the cell at (x, y).
func (g *Grid) Get(x, y int) (Cell, error) {
	if !g.InBounds(x, y) {
		return Empty, g.outOfBounds(x, y)
	}
	return g.data[g.Index(x, y)], nil
}

// Set writes the cell at (x, y). An unoccupied cell is always stored as Empty.
func (g *Grid) Set(x, y int, c Cell) error {
	if !g.InBounds(x, y) {
		return g.outOfBounds(x, y)
	}
	if !c.Occupied {
		c = Empty
	}
	g.data[g.Index(x, y)] = c
	return nil
}

// Clear empties every cell.
func (g *Grid) Clear() {
	for i := range g.data {
		g.data[i] = Empty
	}
}

// Occupied counts the cells holding a particle.
func (g *Grid) Occupied() int {
	n := 0
	for _, c := range g.data {
		if c.Occupied {
			n++
		}
	}
	return n
}

// Each calls fn for every cell in column-major order.
func (g *Grid) Each(fn func(x, y int, c Cell)) {
	for x := 0; x < g.cols; x++ {
		base := x * g.rows
		for y := 0; y < g.rows; y++ {
			fn(x, y, g.data[base+y])
		}
	}
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	data := make([]Cell, len(g.data))
	copy(data, g.data)
	return &Grid{cols: g.cols, rows: g.rows, data: data}
}

// CopyFrom overwrites the grid contents with src. Both grids must share
// dimensions.
func (g *Grid) CopyFrom(src *Grid) error {
	if src.cols != g.cols || src.rows != g.rows {
		return fmt.Errorf("%w: copy %dx%d into %dx%d", ErrInvalidConfiguration, src.cols, src.rows, g.cols, g.rows)
	}
	copy(g.data, src.data)
	return nil
}

func (g *Grid) outOfBounds(x, y int) error {
	return fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrOutOfBounds, x, y, g.cols, g.rows)
}

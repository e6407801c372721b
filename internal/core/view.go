package core

// View is a read-only handle on a grid. Published snapshots hand out views
// over private copies so observers never see a grid that is still changing.
type View struct {
	g *Grid
}

// View returns a read-only handle on g.
func (g *Grid) View() View { return View{g: g} }

// Valid reports whether the view is backed by a grid.
func (v View) Valid() bool { return v.g != nil }

// Get returns the cell at (x, y).
func (v View) Get(x, y int) (Cell, error) { return v.g.Get(x, y) }

// Dimensions returns the number of columns and rows.
func (v View) Dimensions() (cols, rows int) { return v.g.Dimensions() }

// Size returns the grid dimensions as a Size.
func (v View) Size() Size { return v.g.Size() }

// Occupied counts the cells holding a particle.
func (v View) Occupied() int { return v.g.Occupied() }

// Each calls fn for every cell in column-major order.
func (v View) Each(fn func(x, y int, c Cell)) { v.g.Each(fn) }

// Clone returns a mutable copy of the viewed grid.
func (v View) Clone() *Grid { return v.g.Clone() }

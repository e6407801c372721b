package app

import "falling-sand/internal/core"

// CellAt maps a screen position to the grid cell under it. Positions outside
// the grid area map to core.OffGrid.
func CellAt(x, y, scale int, size core.Size) core.Coordinate {
	if scale <= 0 {
		scale = 1
	}
	if x < 0 || y < 0 {
		return core.OffGrid
	}
	cx, cy := x/scale, y/scale
	if cx >= size.W || cy >= size.H {
		return core.OffGrid
	}
	return core.Coordinate{X: cx, Y: cy}
}

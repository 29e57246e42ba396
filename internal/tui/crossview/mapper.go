package crossview

import "github.com/theirongolddev/crosstab/internal/crosstab/geometry"

// Mapper converts between view pixels and terminal cells.
type Mapper struct {
	PxPerColumn int
	PxPerRow    int
}

// Box returns the cells covered by r. Both edges are floored, so adjacent
// rectangles map to adjacent boxes without gaps or overlap.
func (m Mapper) Box(r geometry.Rect) Box {
	return Box{
		X0: floorDiv(r.X, m.PxPerColumn),
		Y0: floorDiv(r.Y, m.PxPerRow),
		X1: floorDiv(r.Right(), m.PxPerColumn),
		Y1: floorDiv(r.Bottom(), m.PxPerRow),
	}
}

// Pixels returns the pixel size of cols by lines terminal cells.
func (m Mapper) Pixels(cols, lines int) (w, h int) {
	return max(cols, 0) * m.PxPerColumn, max(lines, 0) * m.PxPerRow
}

// Point returns the pixel at the center of the terminal cell (col, line).
func (m Mapper) Point(col, line int) (x, y float64) {
	return float64(col*m.PxPerColumn + m.PxPerColumn/2), float64(line*m.PxPerRow + m.PxPerRow/2)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

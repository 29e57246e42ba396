// Package geometry maps grid indices onto pixel rectangles for a cross table
// with pinned title bands and a two-axis scroll offset.
package geometry

import "math"

// Vec is a point or displacement in layout pixels.
type Vec struct {
	X, Y float64
}

// Add returns v+o.
func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o.
func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }

// Scale returns v*k.
func (v Vec) Scale(k float64) Vec { return Vec{v.X * k, v.Y * k} }

// Len returns the euclidean length of v.
func (v Vec) Len() float64 { return math.Hypot(v.X, v.Y) }

// Rect is an integer pixel rectangle anchored at its top-left corner.
type Rect struct {
	X, Y, W, H int
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.H }

// Empty reports whether r covers no pixels.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Contains reports whether the point (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Intersect returns the overlap of r and o, or the zero Rect when they are disjoint.
func (r Rect) Intersect(o Rect) Rect {
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(r.Right(), o.Right())
	y1 := min(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Padding is the inner spacing between the viewport edge and the grid.
type Padding struct {
	Left, Top, Right, Bottom int
}

// Insets holds four per-side distances. It is used both for the scroll bound
// and for signed over-scroll amounts.
type Insets struct {
	Left, Top, Right, Bottom float64
}

// Any reports whether any side is strictly positive.
func (i Insets) Any() bool {
	return i.Left > 0 || i.Top > 0 || i.Right > 0 || i.Bottom > 0
}

// Positive returns i with negative sides replaced by zero.
func (i Insets) Positive() Insets {
	return Insets{
		Left:   math.Max(i.Left, 0),
		Top:    math.Max(i.Top, 0),
		Right:  math.Max(i.Right, 0),
		Bottom: math.Max(i.Bottom, 0),
	}
}

// Bands are the fixed pixel sizes of the grid.
//
// CellWidth is the width of a content cell and of every title in the top
// band. CellHeight is the height of a content cell and of every title in the
// left band. CornerWidth is the width of the left band and CornerHeight the
// height of the top band; together they size the pinned corner header.
type Bands struct {
	CellWidth    int
	CellHeight   int
	CornerWidth  int
	CornerHeight int
}

// DefaultBands returns the band sizes used when nothing else is configured.
func DefaultBands() Bands {
	return Bands{
		CellWidth:    140,
		CellHeight:   70,
		CornerWidth:  112,
		CornerHeight: 35,
	}
}

// Valid reports whether every band has a positive size.
func (b Bands) Valid() bool {
	return b.CellWidth > 0 && b.CellHeight > 0 && b.CornerWidth > 0 && b.CornerHeight > 0
}

// Shape is the number of rows and columns in the grid.
type Shape struct {
	Rows, Cols int
}

// Cell addresses a grid position. Index -1 on an axis selects the title band
// of the other axis: {-1, c} is the title of column c in the top band,
// {r, -1} is the title of row r in the left band, {-1, -1} is the corner.
type Cell struct {
	Row, Col int
}

// IsCorner reports whether c is the pinned corner header.
func (c Cell) IsCorner() bool { return c.Row < 0 && c.Col < 0 }

// IsRowTitle reports whether c is a title in the top band.
func (c Cell) IsRowTitle() bool { return c.Row < 0 && c.Col >= 0 }

// IsColumnTitle reports whether c is a title in the left band.
func (c Cell) IsColumnTitle() bool { return c.Row >= 0 && c.Col < 0 }

// IsContent reports whether c is a content cell.
func (c Cell) IsContent() bool { return c.Row >= 0 && c.Col >= 0 }

// Range is an inclusive index window. A count of zero on an axis yields
// Start 0 and End -1.
type Range struct {
	RowStart, RowEnd int
	ColStart, ColEnd int
}

// Rows returns the number of rows in the window.
func (r Range) Rows() int { return max(r.RowEnd-r.RowStart+1, 0) }

// Cols returns the number of columns in the window.
func (r Range) Cols() int { return max(r.ColEnd-r.ColStart+1, 0) }

// Empty reports whether the window holds no content cell.
func (r Range) Empty() bool { return r.Rows() == 0 || r.Cols() == 0 }

// HasRow reports whether row lies in the window.
func (r Range) HasRow(row int) bool { return row >= r.RowStart && row <= r.RowEnd }

// HasCol reports whether col lies in the window.
func (r Range) HasCol(col int) bool { return col >= r.ColStart && col <= r.ColEnd }

// Contains reports whether the content cell (row, col) lies in the window.
func (r Range) Contains(row, col int) bool { return r.HasRow(row) && r.HasCol(col) }

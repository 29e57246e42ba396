package geometry

import "math"

// Model holds the band sizes, viewport and scroll offsets of a cross table
// and answers placement questions about them.
//
// The content origin may overshoot the scroll bound while rubber-banding.
// The title origin never does: every write through SetContentOrigin
// re-derives it by clamping the content origin into the bound.
type Model struct {
	bands   Bands
	padding Padding
	width   int
	height  int
	shape   Shape

	content Vec
	title   Vec

	bound      Insets
	boundValid bool
}

// NewModel creates a model with the given band sizes.
func NewModel(b Bands) *Model {
	return &Model{bands: b}
}

// Bands returns the band sizes.
func (m *Model) Bands() Bands { return m.bands }

// SetViewport sets the viewport size in pixels.
func (m *Model) SetViewport(w, h int) {
	if w == m.width && h == m.height {
		return
	}
	m.width, m.height = w, h
	m.invalidate()
}

// Viewport returns the viewport size in pixels.
func (m *Model) Viewport() (w, h int) { return m.width, m.height }

// SetPadding sets the inner padding.
func (m *Model) SetPadding(p Padding) {
	if p == m.padding {
		return
	}
	m.padding = p
	m.invalidate()
}

// Padding returns the inner padding.
func (m *Model) Padding() Padding { return m.padding }

// SetShape sets the grid dimensions.
func (m *Model) SetShape(s Shape) {
	if s == m.shape {
		return
	}
	m.shape = s
	m.invalidate()
}

// Shape returns the grid dimensions.
func (m *Model) Shape() Shape { return m.shape }

// Invalidate drops the cached scroll bound.
func (m *Model) Invalidate() { m.invalidate() }

func (m *Model) invalidate() {
	m.boundValid = false
}

// Reset moves both origins back to zero and drops the cached bound.
func (m *Model) Reset() {
	m.content = Vec{}
	m.title = Vec{}
	m.invalidate()
}

// ContentOrigin returns the offset applied to content cells.
func (m *Model) ContentOrigin() Vec { return m.content }

// TitleOrigin returns the offset applied to the title bands.
func (m *Model) TitleOrigin() Vec { return m.title }

// SetContentOrigin moves the content and re-derives the title origin.
func (m *Model) SetContentOrigin(v Vec) {
	m.content = v
	m.title = m.Clamp(v)
}

// ScrollBound returns how far the origin may travel before rubber-banding.
// Left and Top are the positive limits, Right and Bottom the magnitudes of
// the negative limits. The value is cached until the viewport, padding or
// shape changes.
func (m *Model) ScrollBound() Insets {
	if !m.boundValid {
		extentX := m.padding.Left + m.bands.CornerWidth + m.bands.CellWidth*m.shape.Cols
		extentY := m.padding.Top + m.bands.CornerHeight + m.bands.CellHeight*m.shape.Rows
		m.bound = Insets{
			Right:  float64(max(extentX-(m.width-m.padding.Right), 0)),
			Bottom: float64(max(extentY-(m.height-m.padding.Bottom), 0)),
		}
		m.boundValid = true
	}
	return m.bound
}

// Clamp returns v limited to the scroll bound on both axes.
func (m *Model) Clamp(v Vec) Vec {
	b := m.ScrollBound()
	return Vec{
		X: math.Max(math.Min(v.X, b.Left), -b.Right),
		Y: math.Max(math.Min(v.Y, b.Top), -b.Bottom),
	}
}

// OverScroll returns the signed over-scroll of the content origin.
func (m *Model) OverScroll() Insets { return m.OverScrollAt(m.content) }

// OverScrollAt returns the signed distance of v beyond each side of the
// scroll bound. Positive values mean v is past that side.
func (m *Model) OverScrollAt(v Vec) Insets {
	b := m.ScrollBound()
	return Insets{
		Left:   v.X - b.Left,
		Top:    v.Y - b.Top,
		Right:  -v.X - b.Right,
		Bottom: -v.Y - b.Bottom,
	}
}

// Corner returns the rectangle of the pinned corner header.
func (m *Model) Corner() Rect { return m.RectFor(-1, -1) }

// RectFor returns the on-screen rectangle of the cell at (row, col).
// The corner never moves, top-band titles follow the horizontal title
// origin, left-band titles follow the vertical title origin and content
// cells follow the content origin.
func (m *Model) RectFor(row, col int) Rect {
	var r Rect
	if row < 0 {
		r.Y = m.padding.Top
		r.H = m.bands.CornerHeight
	} else {
		r.Y = m.padding.Top + m.bands.CornerHeight + m.bands.CellHeight*row
		r.H = m.bands.CellHeight
	}
	if col < 0 {
		r.X = m.padding.Left
		r.W = m.bands.CornerWidth
	} else {
		r.X = m.padding.Left + m.bands.CornerWidth + m.bands.CellWidth*col
		r.W = m.bands.CellWidth
	}

	switch {
	case row < 0 && col < 0:
	case row < 0:
		r.X += round(m.title.X)
	case col < 0:
		r.Y += round(m.title.Y)
	default:
		r.X += round(m.content.X)
		r.Y += round(m.content.Y)
	}
	return r
}

// VisibleRange returns the index window that intersects the viewport, based
// on the title origin. The near edge rounds down, the far edge rounds up,
// and both are clamped to the grid.
func (m *Model) VisibleRange() Range {
	corner := m.Corner()
	firstCol := m.RectFor(-1, 0)
	firstRow := m.RectFor(0, -1)

	colStart, colEnd := visibleSpan(corner.Right(), m.width-m.padding.Right, firstCol.X, m.bands.CellWidth, m.shape.Cols)
	rowStart, rowEnd := visibleSpan(corner.Bottom(), m.height-m.padding.Bottom, firstRow.Y, m.bands.CellHeight, m.shape.Rows)
	return Range{RowStart: rowStart, RowEnd: rowEnd, ColStart: colStart, ColEnd: colEnd}
}

func visibleSpan(near, far, origin, size, count int) (start, end int) {
	if count <= 0 || size <= 0 {
		return 0, -1
	}
	start = max((near-origin)/size, 0)
	end = max(int(math.Ceil(float64(far-origin)/float64(size))), 0)
	return clampIndex(start, count), clampIndex(end, count)
}

func clampIndex(i, count int) int {
	return min(max(i, 0), count-1)
}

// HitTest resolves the point (x, y) to a cell.
//
// The index is interpolated linearly across the span covered by the visible
// window, scaled by the number of tracked titles on that axis, so accuracy
// depends on the tracked counts matching the window. Points left of or above
// the corner's far edges resolve to -1 on that axis.
func (m *Model) HitTest(x, y, trackedCols, trackedRows int) Cell {
	vr := m.VisibleRange()
	left := m.RectFor(-1, vr.ColStart).X
	right := m.RectFor(-1, vr.ColEnd).Right()
	top := m.RectFor(vr.RowStart, -1).Y
	bottom := m.RectFor(vr.RowEnd, -1).Bottom()

	c := Cell{Row: -1, Col: -1}
	if vr.Cols() > 0 && right > left {
		c.Col = vr.ColStart + int(float64(x-left)/float64(right-left)*float64(trackedCols))
	}
	if vr.Rows() > 0 && bottom > top {
		c.Row = vr.RowStart + int(float64(y-top)/float64(bottom-top)*float64(trackedRows))
	}

	corner := m.Corner()
	if x < corner.Right() {
		c.Col = -1
	}
	if y < corner.Bottom() {
		c.Row = -1
	}
	return c
}

func round(f float64) int {
	return int(math.Round(f))
}

package geometry

import "testing"

// newTestModel returns a 30x30 grid in a viewport that shows rows 0..5 and
// columns 0..4 at the origin.
func newTestModel() *Model {
	m := NewModel(DefaultBands())
	m.SetViewport(672, 385)
	m.SetShape(Shape{Rows: 30, Cols: 30})
	return m
}

func TestRectFor(t *testing.T) {
	m := newTestModel()
	m.SetContentOrigin(Vec{X: -100, Y: -50})

	tests := []struct {
		name     string
		row, col int
		want     Rect
	}{
		{"corner", -1, -1, Rect{X: 0, Y: 0, W: 112, H: 35}},
		{"row title", -1, 2, Rect{X: 112 + 280 - 100, Y: 0, W: 140, H: 35}},
		{"column title", 3, -1, Rect{X: 0, Y: 35 + 210 - 50, W: 112, H: 70}},
		{"content", 1, 1, Rect{X: 112 + 140 - 100, Y: 35 + 70 - 50, W: 140, H: 70}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.RectFor(tt.row, tt.col); got != tt.want {
				t.Errorf("RectFor(%d, %d) = %+v, want %+v", tt.row, tt.col, got, tt.want)
			}
		})
	}
}

func TestRectForPadding(t *testing.T) {
	m := newTestModel()
	m.SetPadding(Padding{Left: 4, Top: 2})

	if got := m.Corner(); got.X != 4 || got.Y != 2 {
		t.Errorf("Corner() = %+v, want origin (4, 2)", got)
	}
	if got := m.RectFor(0, 0); got.X != 4+112 || got.Y != 2+35 {
		t.Errorf("RectFor(0, 0) = %+v, want origin (116, 37)", got)
	}
}

func TestTitlesNeverOvershoot(t *testing.T) {
	m := newTestModel()
	m.SetContentOrigin(Vec{X: 40, Y: -5000})

	if got := m.TitleOrigin(); got != (Vec{X: 0, Y: -1750}) {
		t.Errorf("TitleOrigin() = %+v, want {0 -1750}", got)
	}
	if got := m.ContentOrigin(); got != (Vec{X: 40, Y: -5000}) {
		t.Errorf("ContentOrigin() = %+v, want unchanged", got)
	}
	if got := m.Corner(); got.X != 0 || got.Y != 0 {
		t.Errorf("Corner() moved to %+v", got)
	}
}

func TestScrollBound(t *testing.T) {
	m := newTestModel()
	want := Insets{Right: 4312 - 672, Bottom: 2135 - 385}
	if got := m.ScrollBound(); got != want {
		t.Errorf("ScrollBound() = %+v, want %+v", got, want)
	}

	m.SetViewport(772, 385)
	if got := m.ScrollBound().Right; got != 4312-772 {
		t.Errorf("ScrollBound().Right after resize = %v, want %v", got, 4312-772)
	}

	m.SetShape(Shape{Rows: 1, Cols: 1})
	if got := m.ScrollBound(); got != (Insets{}) {
		t.Errorf("ScrollBound() for small grid = %+v, want zero", got)
	}
}

func TestOverScroll(t *testing.T) {
	m := newTestModel()
	m.SetContentOrigin(Vec{X: 30, Y: -1800})

	over := m.OverScroll()
	if over.Left != 30 {
		t.Errorf("OverScroll().Left = %v, want 30", over.Left)
	}
	if over.Bottom != 50 {
		t.Errorf("OverScroll().Bottom = %v, want 50", over.Bottom)
	}
	if over.Right >= 0 || over.Top >= 0 {
		t.Errorf("OverScroll() = %+v, want negative right and top", over)
	}
	if pos := over.Positive(); pos.Right != 0 || pos.Top != 0 {
		t.Errorf("Positive() = %+v, want zero right and top", pos)
	}
}

func TestVisibleRange(t *testing.T) {
	tests := []struct {
		name   string
		origin Vec
		want   Range
	}{
		{"origin", Vec{}, Range{RowStart: 0, RowEnd: 5, ColStart: 0, ColEnd: 4}},
		{"half cell", Vec{X: -70, Y: -35}, Range{RowStart: 0, RowEnd: 6, ColStart: 0, ColEnd: 5}},
		{"scrolled", Vec{X: -1400, Y: -700}, Range{RowStart: 10, RowEnd: 15, ColStart: 10, ColEnd: 14}},
		{"far end", Vec{X: -1e6, Y: -1e6}, Range{RowStart: 25, RowEnd: 29, ColStart: 26, ColEnd: 29}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel()
			m.SetContentOrigin(tt.origin)
			if got := m.VisibleRange(); got != tt.want {
				t.Errorf("VisibleRange() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestVisibleRangeEmptyGrid(t *testing.T) {
	m := NewModel(DefaultBands())
	m.SetViewport(672, 385)

	got := m.VisibleRange()
	if !got.Empty() || got.Rows() != 0 || got.Cols() != 0 {
		t.Errorf("VisibleRange() = %+v, want empty", got)
	}
	if got.RowEnd != -1 || got.ColEnd != -1 {
		t.Errorf("VisibleRange() ends = (%d, %d), want (-1, -1)", got.RowEnd, got.ColEnd)
	}
}

func TestHitTest(t *testing.T) {
	m := newTestModel()
	vr := m.VisibleRange()

	tests := []struct {
		name string
		x, y int
		want Cell
	}{
		{"corner", 10, 10, Cell{Row: -1, Col: -1}},
		{"row title", 112 + 150, 20, Cell{Row: -1, Col: 1}},
		{"column title", 50, 35 + 75, Cell{Row: 1, Col: -1}},
		{"content", 112 + 290, 35 + 150, Cell{Row: 2, Col: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.HitTest(tt.x, tt.y, vr.Cols(), vr.Rows())
			if got != tt.want {
				t.Errorf("HitTest(%d, %d) = %+v, want %+v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestCellKinds(t *testing.T) {
	if !(Cell{-1, -1}).IsCorner() {
		t.Error("{-1,-1}.IsCorner() = false")
	}
	if !(Cell{-1, 3}).IsRowTitle() {
		t.Error("{-1,3}.IsRowTitle() = false")
	}
	if !(Cell{3, -1}).IsColumnTitle() {
		t.Error("{3,-1}.IsColumnTitle() = false")
	}
	if !(Cell{0, 0}).IsContent() {
		t.Error("{0,0}.IsContent() = false")
	}
}

func TestRectIntersect(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	if got := a.Intersect(Rect{X: 5, Y: 5, W: 10, H: 10}); got != (Rect{X: 5, Y: 5, W: 5, H: 5}) {
		t.Errorf("Intersect() = %+v", got)
	}
	if got := a.Intersect(Rect{X: 20, Y: 0, W: 1, H: 1}); !got.Empty() {
		t.Errorf("Intersect() of disjoint rects = %+v, want empty", got)
	}
}

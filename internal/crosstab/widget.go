package crosstab

import "github.com/theirongolddev/crosstab/internal/crosstab/geometry"

// Widget is an opaque drawable the view positions. Implementations must be
// comparable, which in practice means pointer types.
type Widget interface {
	// Size returns the natural size. Over-scroll slot widgets are laid out at
	// this size; all other widgets are sized by the view through Resize.
	Size() (w, h int)
	Resize(w, h int)
	SetBounds(r geometry.Rect)
	SetVisible(visible bool)
}

// BaseWidget carries the bookkeeping every widget needs. Embed it and add
// painting.
type BaseWidget struct {
	w, h    int
	bounds  geometry.Rect
	visible bool
}

// Size returns the last size set through Resize.
func (b *BaseWidget) Size() (int, int) { return b.w, b.h }

// Resize sets the size.
func (b *BaseWidget) Resize(w, h int) {
	b.w, b.h = max(w, 0), max(h, 0)
}

// SetBounds records the on-screen rectangle assigned by the view.
func (b *BaseWidget) SetBounds(r geometry.Rect) { b.bounds = r }

// Bounds returns the on-screen rectangle.
func (b *BaseWidget) Bounds() geometry.Rect { return b.bounds }

// SetVisible shows or hides the widget.
func (b *BaseWidget) SetVisible(v bool) { b.visible = v }

// Visible reports whether the widget is shown.
func (b *BaseWidget) Visible() bool { return b.visible }

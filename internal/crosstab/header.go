package crosstab

import "github.com/theirongolddev/crosstab/internal/crosstab/geometry"

// ShadowKind names one of the edge shadows the view can draw.
type ShadowKind int

const (
	// RowTitleShadow runs along the bottom edge of the top band.
	RowTitleShadow ShadowKind = iota
	// ColumnTitleShadow runs along the right edge of the left band.
	ColumnTitleShadow
	// HeaderBottomShadow sits under the corner header.
	HeaderBottomShadow
	// HeaderRightShadow sits right of the corner header.
	HeaderRightShadow
)

func (k ShadowKind) String() string {
	switch k {
	case RowTitleShadow:
		return "row-title"
	case ColumnTitleShadow:
		return "column-title"
	case HeaderBottomShadow:
		return "header-bottom"
	case HeaderRightShadow:
		return "header-right"
	default:
		return "unknown"
	}
}

// ShadowFactory creates the widget for a shadow, or returns nil to leave
// that shadow out.
type ShadowFactory func(kind ShadowKind) Widget

// headerBlock is the pinned corner plus its own shadows.
type headerBlock struct {
	header Widget
	bottom Widget
	right  Widget
}

// titleShadows are the shadows along the inner edges of the title bands.
type titleShadows struct {
	built  bool
	row    Widget
	column Widget
}

func (v *View) newShadow(kind ShadowKind, r geometry.Rect) Widget {
	if v.opts.Shadows == nil {
		return nil
	}
	w := v.opts.Shadows(kind)
	if w == nil {
		return nil
	}
	w.Resize(r.W, r.H)
	w.SetBounds(r)
	w.SetVisible(true)
	return w
}

// updateShadows creates the title shadows once per refresh and keeps them
// sized to the viewport.
func (v *View) updateShadows() {
	corner := v.model.Corner()
	vw, vh := v.model.Viewport()
	rowRect := geometry.Rect{X: corner.Right(), Y: corner.Bottom(), W: vw - corner.W, H: v.opts.RowTitleShadowSize}
	colRect := geometry.Rect{X: corner.Right(), Y: corner.Bottom(), W: v.opts.ColumnTitleShadowSize, H: vh - corner.H}

	if !v.shadows.built {
		v.shadows.built = true
		v.shadows.row = v.newShadow(RowTitleShadow, rowRect)
		v.shadows.column = v.newShadow(ColumnTitleShadow, colRect)
		return
	}
	if w := v.shadows.row; w != nil {
		w.Resize(rowRect.W, rowRect.H)
		w.SetBounds(rowRect)
	}
	if w := v.shadows.column; w != nil {
		w.Resize(colRect.W, colRect.H)
		w.SetBounds(colRect)
	}
}

// updateHeader asks the adapter for the corner widget once per refresh.
func (v *View) updateHeader() {
	if v.head != nil {
		return
	}
	corner := v.model.Corner()
	h := v.adapter.HeaderWidget()
	if h != nil {
		h.Resize(corner.W, corner.H)
		h.SetBounds(corner)
		h.SetVisible(true)
	}
	v.head = &headerBlock{
		header: h,
		bottom: v.newShadow(HeaderBottomShadow, geometry.Rect{
			X: corner.X, Y: corner.Bottom(),
			W: corner.W + v.opts.ColumnTitleShadowSize, H: v.opts.RowTitleShadowSize,
		}),
		right: v.newShadow(HeaderRightShadow, geometry.Rect{
			X: corner.Right(), Y: corner.Y,
			W: v.opts.ColumnTitleShadowSize, H: corner.H + v.opts.RowTitleShadowSize,
		}),
	}
}

func (v *View) dropHeaderAndShadows() {
	for _, w := range []Widget{v.shadows.row, v.shadows.column} {
		if w != nil {
			w.SetVisible(false)
		}
	}
	v.shadows = titleShadows{}
	if v.head != nil {
		for _, w := range []Widget{v.head.header, v.head.bottom, v.head.right} {
			if w != nil {
				w.SetVisible(false)
			}
		}
	}
	v.head = nil
}

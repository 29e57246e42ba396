// Package crosstab is a virtualized two-dimensional table with pinned title
// bands. Only the cells inside the viewport exist as widgets; they are
// recycled as the content scrolls, drags rubber-band past the edges and
// flings decelerate and snap back.
//
// A host owns a View, forwards pointer events to HandlePointer, calls
// Advance on a frame timer while Active reports true, runs Layout whenever
// NeedsLayout reports true and paints Children in order.
package crosstab

import (
	"log"
	"time"

	"github.com/theirongolddev/crosstab/internal/crosstab/geometry"
	"github.com/theirongolddev/crosstab/internal/crosstab/gesture"
	"github.com/theirongolddev/crosstab/internal/crosstab/physics"
	"github.com/theirongolddev/crosstab/internal/crosstab/recycle"
)

// Options configure a View.
type Options struct {
	Bands   geometry.Bands
	Padding geometry.Padding

	// RowTitleShadowSize is the height of the shadow under the top band.
	RowTitleShadowSize int
	// ColumnTitleShadowSize is the width of the shadow right of the left band.
	ColumnTitleShadowSize int
	// Shadows creates shadow widgets. Nil disables shadows.
	Shadows ShadowFactory

	Physics physics.Params
	Gesture gesture.Params
}

// DefaultOptions returns the stock configuration.
func DefaultOptions() Options {
	return Options{
		Bands:                 geometry.DefaultBands(),
		RowTitleShadowSize:    10,
		ColumnTitleShadowSize: 10,
		Physics:               physics.DefaultParams(),
		Gesture:               gesture.DefaultParams(),
	}
}

// View lays out an Adapter's widgets. It is not safe for concurrent use.
type View struct {
	opts    Options
	model   *geometry.Model
	engine  *physics.Engine
	gesture *gesture.Controller

	adapter  Adapter
	observer *adapterObserver

	rowTitles *recycle.Space[Widget]
	colTitles *recycle.Space[Widget]
	content   *recycle.Space[Widget]

	pendingScroll *geometry.Cell
	pendingSlots  []slotRequest
	slots         [slotCount]Widget
	slotShown     [slotCount]bool

	head    *headerBlock
	shadows titleShadows

	overListener  OverScrollListener
	clickListener ItemClickListener
	flingListener func(v *View, vx, vy float64)
	bounceEnabled bool
	needsLayout   bool
}

// New creates a view with no adapter. Invalid band sizes fall back to the
// defaults.
func New(opts Options) *View {
	if !opts.Bands.Valid() {
		log.Printf("Warning: invalid band sizes %+v, using defaults", opts.Bands)
		opts.Bands = geometry.DefaultBands()
	}
	opts.Physics = opts.Physics.Normalize()

	b := opts.Bands
	v := &View{
		opts:          opts,
		model:         geometry.NewModel(b),
		rowTitles:     recycle.NewSpace[Widget]("row titles", b.CellWidth, b.CornerHeight),
		colTitles:     recycle.NewSpace[Widget]("column titles", b.CornerWidth, b.CellHeight),
		content:       recycle.NewSpace[Widget]("content", b.CellWidth, b.CellHeight),
		bounceEnabled: true,
	}
	v.model.SetPadding(opts.Padding)
	v.engine = physics.New(v.model, opts.Physics)
	v.gesture = gesture.New(v.engine, v, opts.Gesture)
	v.gesture.OnTap(v.dispatchTap)
	v.gesture.OnFling(func(vel geometry.Vec) {
		if v.flingListener != nil {
			v.flingListener(v, vel.X, vel.Y)
		}
	})
	v.observer = &adapterObserver{v: v}
	return v
}

// SetAdapter replaces the adapter and rebuilds the view. Nil turns all
// layout work off.
func (v *View) SetAdapter(a Adapter) {
	if v.adapter != nil {
		v.adapter.RemoveChangeListener(v.observer)
	}
	v.adapter = a
	if a != nil {
		a.AddChangeListener(v.observer)
	} else {
		v.teardown()
	}
	v.Refresh()
}

// Adapter returns the current adapter.
func (v *View) Adapter() Adapter { return v.adapter }

// Refresh discards every widget and all scroll state and rebuilds from the
// adapter on the next layout pass. It is expensive; prefer invalidating the
// affected cells through the adapter's Observable.
func (v *View) Refresh() {
	if v.adapter == nil {
		return
	}
	v.teardown()

	v.model.Reset()
	v.model.SetShape(geometry.Shape{
		Rows: clampCount("row", v.adapter.RowCount()),
		Cols: clampCount("column", v.adapter.ColumnCount()),
	})
	for s, w := range v.slots {
		if w != nil {
			v.pendingSlots = append(v.pendingSlots, slotRequest{slot: Slot(s), widget: w})
		}
	}
	v.engine.Reset()
	v.gesture.SetDisabled(false)
	v.gesture.ConsumeRelease()
	v.pendingScroll = nil
	v.bounceEnabled = true
	v.needsLayout = true
}

func (v *View) teardown() {
	v.rowTitles.Reset()
	v.colTitles.Reset()
	v.content.Reset()
	v.dropHeaderAndShadows()
	for s, w := range v.slots {
		if w != nil {
			w.SetVisible(false)
		}
		v.slotShown[s] = false
	}
}

func clampCount(axis string, n int) int {
	switch {
	case n < 0:
		return 0
	case n > recycle.MaxIndex+1:
		log.Printf("Warning: %s count %d exceeds %d, truncating", axis, n, recycle.MaxIndex+1)
		return recycle.MaxIndex + 1
	}
	return n
}

// Resize sets the viewport size.
func (v *View) Resize(w, h int) {
	pw, ph := v.model.Viewport()
	if pw == w && ph == h {
		return
	}
	v.model.SetViewport(w, h)
	v.model.SetContentOrigin(v.model.ContentOrigin())
	v.needsLayout = true
}

// ScrollTo centers the cell at (row, col) on the next layout pass, clamped
// to the scroll bound.
func (v *View) ScrollTo(row, col int) {
	v.pendingScroll = &geometry.Cell{Row: row, Col: col}
	v.needsLayout = true
}

// SmoothScrollBy animates the content by (dx, dy), clamped to the scroll
// bound. It reports whether an animation started.
func (v *View) SmoothScrollBy(dx, dy float64) bool {
	o := v.model.ContentOrigin()
	d := v.model.Clamp(o.Add(geometry.Vec{X: dx, Y: dy})).Sub(o)
	return v.engine.SmoothMoveBy(d.X, d.Y)
}

// Fling starts a fling as if the pointer had been released at (vx, vy)
// px/s. It reports whether the speed was above the fling threshold.
func (v *View) Fling(vx, vy float64) bool {
	if v.adapter == nil || !v.engine.StartFling(vx, vy) {
		return false
	}
	v.needsLayout = true
	return true
}

// SetItemClickListener sets the receiver of taps.
func (v *View) SetItemClickListener(l ItemClickListener) { v.clickListener = l }

// SetFlingListener sets the callback for releases that start a fling.
func (v *View) SetFlingListener(fn func(v *View, vx, vy float64)) { v.flingListener = fn }

// StopFling ends a running fling on the next Advance.
func (v *View) StopFling() { v.engine.StopFling() }

// DisableScrollAndBounce ignores pointer input and suppresses the automatic
// bounce back until EnableTouchAndBounce.
func (v *View) DisableScrollAndBounce() {
	v.gesture.SetDisabled(true)
	v.bounceEnabled = false
}

// EnableTouchAndBounce undoes DisableScrollAndBounce.
func (v *View) EnableTouchAndBounce() {
	v.gesture.SetDisabled(false)
	v.bounceEnabled = true
	v.needsLayout = true
}

// TouchEnabled reports whether pointer input is interpreted.
func (v *View) TouchEnabled() bool { return !v.gesture.Disabled() }

// HandlePointer feeds one pointer event through gesture recognition and
// reports whether it was consumed.
func (v *View) HandlePointer(ev gesture.Event) bool {
	if v.adapter == nil {
		return false
	}
	handled := v.gesture.Handle(ev)
	if handled {
		v.needsLayout = true
	}
	return handled
}

// Advance runs flings and animations forward by dt and reports whether more
// frames are needed.
func (v *View) Advance(dt time.Duration) bool {
	if v.adapter == nil || !v.engine.Active() {
		return false
	}
	active := v.engine.Advance(dt)
	v.needsLayout = true
	return active
}

// Active reports whether a fling or animation is running.
func (v *View) Active() bool { return v.adapter != nil && v.engine.Active() }

// NeedsLayout reports whether state changed since the last Layout.
func (v *View) NeedsLayout() bool { return v.adapter != nil && v.needsLayout }

// Layout runs one layout pass: pending scroll, pending slot widgets,
// over-scroll handling, recycling of the three spaces, positioning, slots,
// shadows and the header.
func (v *View) Layout() {
	v.needsLayout = false
	if v.adapter == nil {
		return
	}

	if c := v.pendingScroll; c != nil {
		v.pendingScroll = nil
		r := v.model.RectFor(c.Row, c.Col)
		w, h := v.model.Viewport()
		v.engine.HardScrollBy(float64(w/2-r.X), float64(h/2-r.Y))
	}
	v.applyPendingSlots()
	v.updateOverScroll()

	vr := v.model.VisibleRange()
	v.rowTitles.Sync(recycle.TitleKeys(vr.ColStart, vr.ColEnd), func(k recycle.Key, reuse Widget) Widget {
		return v.adapter.RowTitleWidget(k.Index(), reuse)
	})
	v.colTitles.Sync(recycle.TitleKeys(vr.RowStart, vr.RowEnd), func(k recycle.Key, reuse Widget) Widget {
		return v.adapter.ColumnTitleWidget(k.Index(), reuse)
	})
	v.content.Sync(recycle.ContentKeys(vr.RowStart, vr.RowEnd, vr.ColStart, vr.ColEnd), func(k recycle.Key, reuse Widget) Widget {
		row, col := k.RowCol()
		return v.adapter.ContentWidget(row, col, reuse)
	})

	v.rowTitles.Each(func(k recycle.Key, w Widget) {
		w.SetBounds(v.model.RectFor(-1, k.Index()))
	})
	v.colTitles.Each(func(k recycle.Key, w Widget) {
		w.SetBounds(v.model.RectFor(k.Index(), -1))
	})
	v.content.Each(func(k recycle.Key, w Widget) {
		row, col := k.RowCol()
		w.SetBounds(v.model.RectFor(row, col))
	})

	v.placeSlots()
	v.updateShadows()
	v.updateHeader()
}

// HitTest resolves a point to a cell using the tracked title counts.
func (v *View) HitTest(x, y int) geometry.Cell {
	return v.model.HitTest(x, y, v.rowTitles.Len(), v.colTitles.Len())
}

func (v *View) dispatchTap(c geometry.Cell) {
	l := v.clickListener
	if l == nil || c.IsCorner() {
		return
	}
	shape := v.model.Shape()
	if c.Row >= shape.Rows || c.Col >= shape.Cols {
		return
	}
	switch {
	case c.IsRowTitle():
		l.OnRowTitleClicked(v, c.Col)
	case c.IsColumnTitle():
		l.OnColumnTitleClicked(v, c.Row)
	default:
		l.OnContentClicked(v, c.Row, c.Col)
	}
}

// Children returns the visible widgets in paint order, back to front.
func (v *View) Children() []Widget {
	out := make([]Widget, 0, v.content.Len()+v.rowTitles.Len()+v.colTitles.Len()+8)
	for s, w := range v.slots {
		if w != nil && v.slotShown[s] {
			out = append(out, w)
		}
	}
	collect := func(_ recycle.Key, w Widget) { out = append(out, w) }
	v.content.Each(collect)
	v.colTitles.Each(collect)
	v.rowTitles.Each(collect)
	for _, w := range []Widget{v.shadows.row, v.shadows.column} {
		if w != nil {
			out = append(out, w)
		}
	}
	if v.head != nil {
		for _, w := range []Widget{v.head.header, v.head.bottom, v.head.right} {
			if w != nil {
				out = append(out, w)
			}
		}
	}
	return out
}

// Lookup returns the tracked widget for c: a top-band title, a left-band
// title, the corner header or a content cell.
func (v *View) Lookup(c geometry.Cell) (Widget, bool) {
	switch {
	case c.IsCorner():
		if v.head == nil || v.head.header == nil {
			return nil, false
		}
		return v.head.header, true
	case c.IsRowTitle():
		return v.rowTitles.Lookup(recycle.TitleKey(c.Col))
	case c.IsColumnTitle():
		return v.colTitles.Lookup(recycle.TitleKey(c.Row))
	}
	if !recycle.ValidIndex(c.Row) || !recycle.ValidIndex(c.Col) {
		return nil, false
	}
	return v.content.Lookup(recycle.ContentKey(c.Row, c.Col))
}

// SpaceStats summarizes one recycler space.
type SpaceStats struct {
	Tracked int
	Pooled  int
	Created int
}

// Stats summarizes the three recycler spaces.
type Stats struct {
	RowTitles    SpaceStats
	ColumnTitles SpaceStats
	Content      SpaceStats
}

// Stats returns the recycler counters.
func (v *View) Stats() Stats {
	stat := func(s *recycle.Space[Widget]) SpaceStats {
		return SpaceStats{Tracked: s.Len(), Pooled: s.PoolLen(), Created: s.Created()}
	}
	return Stats{
		RowTitles:    stat(v.rowTitles),
		ColumnTitles: stat(v.colTitles),
		Content:      stat(v.content),
	}
}

// VisibleRange returns the index window the next layout pass will track.
func (v *View) VisibleRange() geometry.Range { return v.model.VisibleRange() }

// ContentOrigin returns the content offset.
func (v *View) ContentOrigin() geometry.Vec { return v.model.ContentOrigin() }

// TitleOrigin returns the title band offset.
func (v *View) TitleOrigin() geometry.Vec { return v.model.TitleOrigin() }

// ScrollBound returns the current scroll bound.
func (v *View) ScrollBound() geometry.Insets { return v.model.ScrollBound() }

// OverScroll returns the signed over-scroll of the content.
func (v *View) OverScroll() geometry.Insets { return v.model.OverScroll() }

// MaxOverScroll returns the rubber-band reach per axis.
func (v *View) MaxOverScroll() geometry.Vec { return v.engine.MaxOverScroll() }

// State returns the scroll phase.
func (v *View) State() physics.State { return v.engine.State() }

// Viewport returns the viewport size.
func (v *View) Viewport() (w, h int) { return v.model.Viewport() }

// Shape returns the grid dimensions read at the last refresh.
func (v *View) Shape() geometry.Shape { return v.model.Shape() }

// Bands returns the band sizes.
func (v *View) Bands() geometry.Bands { return v.opts.Bands }

// adapterObserver routes adapter notifications into the view.
type adapterObserver struct {
	v *View
}

func (o *adapterObserver) OnChanged([]geometry.Cell) {}

// OnInvalidated hands each tracked widget back to the adapter to repaint in
// place. Untracked cells are skipped.
func (o *adapterObserver) OnInvalidated(cells []geometry.Cell) {
	v := o.v
	if v.adapter == nil {
		return
	}
	for _, c := range cells {
		w, ok := v.Lookup(c)
		if !ok {
			continue
		}
		switch {
		case c.IsCorner():
		case c.IsRowTitle():
			v.adapter.RowTitleWidget(c.Col, w)
		case c.IsColumnTitle():
			v.adapter.ColumnTitleWidget(c.Row, w)
		default:
			v.adapter.ContentWidget(c.Row, c.Col, w)
		}
	}
}

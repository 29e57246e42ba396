package crosstab

import "github.com/theirongolddev/crosstab/internal/crosstab/geometry"

// Slot is one of the four over-scroll indicator positions. A slot is named
// after the side of the grid it appears on.
type Slot int

const (
	SlotLeft Slot = iota
	SlotTop
	SlotRight
	SlotBottom

	slotCount = 4
)

// notifyOrder is the order events appear in a batch.
var notifyOrder = [slotCount]Slot{SlotLeft, SlotRight, SlotTop, SlotBottom}

// Valid reports whether s names one of the four slots.
func (s Slot) Valid() bool { return s >= 0 && s < slotCount }

// Horizontal reports whether s scrolls along the x axis.
func (s Slot) Horizontal() bool { return s == SlotLeft || s == SlotRight }

func (s Slot) String() string {
	switch s {
	case SlotLeft:
		return "left"
	case SlotTop:
		return "top"
	case SlotRight:
		return "right"
	case SlotBottom:
		return "bottom"
	default:
		return "invalid"
	}
}

// overFor returns the over-scroll distance on the side of s.
func overFor(over geometry.Insets, s Slot) float64 {
	switch s {
	case SlotLeft:
		return over.Left
	case SlotTop:
		return over.Top
	case SlotRight:
		return over.Right
	case SlotBottom:
		return over.Bottom
	}
	return 0
}

// extent returns the size of w along the scroll axis of s.
func extent(w Widget, s Slot) float64 {
	ww, hh := w.Size()
	if s.Horizontal() {
		return float64(ww)
	}
	return float64(hh)
}

type slotRequest struct {
	slot   Slot
	widget Widget
}

// SetOverScrollSlotWidget installs w as the indicator for slot. The change
// takes effect on the next layout pass, where the rubber-band reach along
// that axis becomes four times the widget's size. A nil widget clears the
// slot; an invalid slot is ignored.
func (v *View) SetOverScrollSlotWidget(slot Slot, w Widget) {
	if !slot.Valid() {
		return
	}
	v.pendingSlots = append(v.pendingSlots, slotRequest{slot: slot, widget: w})
	v.needsLayout = true
}

// SlotWidget returns the indicator installed for slot.
func (v *View) SlotWidget(slot Slot) Widget {
	if !slot.Valid() {
		return nil
	}
	return v.slots[slot]
}

// SetOverScrollListener sets the receiver of over-scroll batches.
func (v *View) SetOverScrollListener(l OverScrollListener) { v.overListener = l }

// ShowOverScrollSlot animates the content so the widget in slot is exactly
// revealed. It reports whether the animation started.
func (v *View) ShowOverScrollSlot(slot Slot) bool {
	if !slot.Valid() || v.slots[slot] == nil {
		return false
	}
	w := v.slots[slot]
	size := extent(w, slot)
	b := v.model.ScrollBound()
	o := v.model.ContentOrigin()
	switch slot {
	case SlotLeft:
		return v.engine.SmoothMoveBy(b.Left+size-o.X, 0)
	case SlotRight:
		return v.engine.SmoothMoveBy(-b.Right-size-o.X, 0)
	case SlotTop:
		return v.engine.SmoothMoveBy(0, b.Top+size-o.Y)
	default:
		return v.engine.SmoothMoveBy(0, -b.Bottom-size-o.Y)
	}
}

// HideOverScrollSlot animates the axis of slot back to the bound. It reports
// whether the animation started.
func (v *View) HideOverScrollSlot(slot Slot) bool {
	if !slot.Valid() || v.slots[slot] == nil {
		return false
	}
	d := v.model.TitleOrigin().Sub(v.model.ContentOrigin())
	if slot.Horizontal() {
		return v.engine.SmoothMoveBy(d.X, 0)
	}
	return v.engine.SmoothMoveBy(0, d.Y)
}

// applyPendingSlots installs queued slot widgets and derives the reach.
func (v *View) applyPendingSlots() {
	for _, req := range v.pendingSlots {
		if old := v.slots[req.slot]; old != nil && old != req.widget {
			old.SetVisible(false)
		}
		v.slots[req.slot] = req.widget
		v.slotShown[req.slot] = false
		if req.widget == nil {
			continue
		}
		req.widget.SetVisible(false)
		reach := extent(req.widget, req.slot) * 4
		if req.slot.Horizontal() {
			v.engine.SetMaxOverScroll(reach, 0)
		} else {
			v.engine.SetMaxOverScroll(0, reach)
		}
	}
	v.pendingSlots = v.pendingSlots[:0]
}

// updateOverScroll shows the slots of over-scrolled sides, delivers the
// listener batches and starts a bounce back when nothing holds the content.
func (v *View) updateOverScroll() {
	over := v.model.OverScroll()
	dragging := v.engine.Dragging()
	released := v.gesture.ConsumeRelease()

	var by, release []OverScrollEvent
	for _, s := range notifyOrder {
		w := v.slots[s]
		d := overFor(over, s)
		if d <= 0 {
			if w != nil {
				w.SetVisible(false)
			}
			v.slotShown[s] = false
			continue
		}
		if w == nil {
			continue
		}
		w.SetVisible(true)
		v.slotShown[s] = true
		if v.overListener == nil {
			continue
		}
		ev := OverScrollEvent{Slot: s, Widget: w}
		if size := extent(w, s); size > 0 {
			ev.Degree = d / size
		}
		if dragging {
			by = append(by, ev)
		}
		if released {
			release = append(release, ev)
		}
	}

	if len(by) > 0 {
		v.overListener.OnOverScrollBy(v, by)
	}
	if len(release) > 0 {
		v.overListener.OnOverScrollRelease(v, release)
	}

	if over.Any() && v.bounceEnabled {
		v.engine.BounceBack()
	}
}

// placeSlots positions every shown slot widget against the content edge.
func (v *View) placeSlots() {
	shape := v.model.Shape()
	corner := v.model.Corner()
	first := v.model.RectFor(0, 0)
	last := v.model.RectFor(shape.Rows-1, shape.Cols-1)

	for s := Slot(0); s < slotCount; s++ {
		w := v.slots[s]
		if w == nil || !v.slotShown[s] {
			continue
		}
		ww, hh := w.Size()
		r := geometry.Rect{W: ww, H: hh}
		switch s {
		case SlotLeft:
			r.X, r.Y = first.X-ww, corner.Bottom()
		case SlotTop:
			r.X, r.Y = corner.Right(), first.Y-hh
		case SlotRight:
			r.X, r.Y = last.Right(), corner.Bottom()
		case SlotBottom:
			r.X, r.Y = corner.Right(), last.Bottom()
		}
		w.SetBounds(r)
	}
}

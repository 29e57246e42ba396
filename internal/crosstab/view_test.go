package crosstab

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/theirongolddev/crosstab/internal/crosstab/geometry"
	"github.com/theirongolddev/crosstab/internal/crosstab/gesture"
	"github.com/theirongolddev/crosstab/internal/crosstab/physics"
)

type testWidget struct {
	BaseWidget
	label   string
	renders int
}

type testAdapter struct {
	Observable
	rows, cols int
	headers    int
	created    int
}

func (a *testAdapter) RowCount() int    { return a.rows }
func (a *testAdapter) ColumnCount() int { return a.cols }

func (a *testAdapter) HeaderWidget() Widget {
	a.headers++
	return &testWidget{label: "corner"}
}

func (a *testAdapter) widget(reuse Widget, label string) Widget {
	w, ok := reuse.(*testWidget)
	if !ok {
		a.created++
		w = &testWidget{}
	}
	w.label = label
	w.renders++
	return w
}

func (a *testAdapter) RowTitleWidget(col int, reuse Widget) Widget {
	return a.widget(reuse, fmt.Sprintf("C%d", col))
}

func (a *testAdapter) ColumnTitleWidget(row int, reuse Widget) Widget {
	return a.widget(reuse, fmt.Sprintf("R%d", row))
}

func (a *testAdapter) ContentWidget(row, col int, reuse Widget) Widget {
	return a.widget(reuse, fmt.Sprintf("%d", row+col))
}

type clickRecorder struct {
	rowTitles    []int
	columnTitles []int
	content      []geometry.Cell
}

func (c *clickRecorder) OnRowTitleClicked(_ *View, col int) { c.rowTitles = append(c.rowTitles, col) }
func (c *clickRecorder) OnColumnTitleClicked(_ *View, row int) {
	c.columnTitles = append(c.columnTitles, row)
}
func (c *clickRecorder) OnContentClicked(_ *View, row, col int) {
	c.content = append(c.content, geometry.Cell{Row: row, Col: col})
}

type overRecorder struct {
	by      [][]OverScrollEvent
	release [][]OverScrollEvent
}

func (o *overRecorder) OnOverScrollBy(_ *View, events []OverScrollEvent) {
	o.by = append(o.by, events)
}

func (o *overRecorder) OnOverScrollRelease(_ *View, events []OverScrollEvent) {
	o.release = append(o.release, events)
}

// newTestView returns a laid-out 30x30 view showing rows 0..5 and columns 0..4.
func newTestView(t *testing.T) (*View, *testAdapter) {
	t.Helper()
	v := New(DefaultOptions())
	v.Resize(672, 385)
	a := &testAdapter{rows: 30, cols: 30}
	v.SetAdapter(a)
	v.Layout()
	return v, a
}

type pointer struct {
	v   *View
	now time.Time
}

func (p *pointer) send(action gesture.Action, x, y float64, after time.Duration) bool {
	p.now = p.now.Add(after)
	return p.v.HandlePointer(gesture.Event{Action: action, X: x, Y: y, Time: p.now})
}

func settle(t *testing.T, v *View) {
	t.Helper()
	for i := 0; v.Active(); i++ {
		if i > 1000 {
			t.Fatal("view never settled")
		}
		v.Advance(16 * time.Millisecond)
		v.Layout()
	}
	v.Layout()
}

func assertTrackersMatchRange(t *testing.T, v *View) {
	t.Helper()
	vr := v.VisibleRange()
	for col := vr.ColStart; col <= vr.ColEnd; col++ {
		if _, ok := v.Lookup(geometry.Cell{Row: -1, Col: col}); !ok {
			t.Errorf("top title %d not tracked", col)
		}
	}
	for row := vr.RowStart; row <= vr.RowEnd; row++ {
		if _, ok := v.Lookup(geometry.Cell{Row: row, Col: -1}); !ok {
			t.Errorf("left title %d not tracked", row)
		}
		for col := vr.ColStart; col <= vr.ColEnd; col++ {
			if _, ok := v.Lookup(geometry.Cell{Row: row, Col: col}); !ok {
				t.Errorf("content (%d,%d) not tracked", row, col)
			}
		}
	}

	st := v.Stats()
	if st.RowTitles.Tracked != vr.Cols() || st.ColumnTitles.Tracked != vr.Rows() || st.Content.Tracked != vr.Rows()*vr.Cols() {
		t.Errorf("Stats() = %+v, want trackers sized to %+v", st, vr)
	}
}

func TestLayoutTracksVisibleRange(t *testing.T) {
	v, _ := newTestView(t)

	want := geometry.Range{RowStart: 0, RowEnd: 5, ColStart: 0, ColEnd: 4}
	if got := v.VisibleRange(); got != want {
		t.Fatalf("VisibleRange() = %+v, want %+v", got, want)
	}
	assertTrackersMatchRange(t, v)

	w, _ := v.Lookup(geometry.Cell{Row: 2, Col: 3})
	if got := w.(*testWidget).Bounds(); got != (geometry.Rect{X: 112 + 420, Y: 35 + 140, W: 140, H: 70}) {
		t.Errorf("content (2,3) bounds = %+v", got)
	}
	if got := w.(*testWidget).label; got != "5" {
		t.Errorf("content (2,3) label = %q, want %q", got, "5")
	}
	if sz, _ := w.Size(); sz != 140 {
		t.Errorf("content width = %d, want 140", sz)
	}
}

func TestScrollRecyclesWidgets(t *testing.T) {
	v, a := newTestView(t)
	before := a.created

	p := &pointer{v: v, now: time.Now()}
	p.send(gesture.Press, 500, 300, 0)
	for i := 1; i <= 10; i++ {
		p.send(gesture.Move, 500-float64(i*30), 300-float64(i*15), 100*time.Millisecond)
		v.Layout()
		assertTrackersMatchRange(t, v)
	}
	p.send(gesture.Release, 200, 150, 500*time.Millisecond)
	settle(t, v)

	if got := v.ContentOrigin(); got != (geometry.Vec{X: -300, Y: -150}) {
		t.Errorf("ContentOrigin() = %+v, want {-300 -150}", got)
	}
	assertTrackersMatchRange(t, v)

	// Scrolling by whole windows must reuse pooled widgets instead of
	// creating one per newly visible cell.
	if grown := a.created - before; grown > 3*v.Stats().Content.Tracked {
		t.Errorf("created %d widgets while scrolling, pool not reused", grown)
	}
	assertPartition(t, v)
}

func assertPartition(t *testing.T, v *View) {
	t.Helper()
	seen := make(map[Widget]bool)
	for _, w := range v.Children() {
		if seen[w] {
			t.Errorf("widget %p appears twice in Children()", w)
		}
		seen[w] = true
	}
	for _, pool := range [][]Widget{v.rowTitles.Pooled(), v.colTitles.Pooled(), v.content.Pooled()} {
		for _, w := range pool {
			if seen[w] {
				t.Errorf("widget %p is both pooled and tracked", w)
			}
			seen[w] = true
			if w.(*testWidget).Visible() {
				t.Errorf("pooled widget %p is visible", w)
			}
		}
	}
}

func TestRefreshIsIdempotent(t *testing.T) {
	v, a := newTestView(t)

	snapshot := func() []string {
		var out []string
		for _, w := range v.Children() {
			tw := w.(*testWidget)
			out = append(out, fmt.Sprintf("%s@%+v", tw.label, tw.Bounds()))
		}
		return out
	}

	v.Refresh()
	v.Layout()
	first := snapshot()
	v.Refresh()
	v.Layout()
	second := snapshot()

	if fmt.Sprint(first) != fmt.Sprint(second) {
		t.Errorf("Refresh() not idempotent:\n%v\n%v", first, second)
	}
	if a.headers != 3 {
		t.Errorf("HeaderWidget() calls = %d, want one per refresh (3)", a.headers)
	}
}

func TestHeaderCreatedOncePerRefresh(t *testing.T) {
	v, a := newTestView(t)
	for i := 0; i < 5; i++ {
		v.Layout()
	}
	if a.headers != 1 {
		t.Errorf("HeaderWidget() calls = %d, want 1", a.headers)
	}
	h, ok := v.Lookup(geometry.Cell{Row: -1, Col: -1})
	if !ok {
		t.Fatal("corner header not tracked")
	}
	if got := h.(*testWidget).Bounds(); got != (geometry.Rect{W: 112, H: 35}) {
		t.Errorf("header bounds = %+v", got)
	}
}

func TestNilAdapterIsInactive(t *testing.T) {
	v := New(DefaultOptions())
	v.Resize(672, 385)
	v.Layout()
	v.Refresh()

	if len(v.Children()) != 0 {
		t.Errorf("Children() = %d widgets without adapter", len(v.Children()))
	}
	if v.HandlePointer(gesture.Event{Action: gesture.Press}) {
		t.Error("HandlePointer() = true without adapter")
	}
	if v.NeedsLayout() {
		t.Error("NeedsLayout() = true without adapter")
	}

	a := &testAdapter{rows: 3, cols: 3}
	v.SetAdapter(a)
	v.Layout()
	v.SetAdapter(nil)
	if len(v.Children()) != 0 {
		t.Errorf("Children() = %d widgets after clearing adapter", len(v.Children()))
	}
	if a.ListenerCount() != 0 {
		t.Errorf("old adapter still has %d listeners", a.ListenerCount())
	}
}

func TestScrollTo(t *testing.T) {
	v, _ := newTestView(t)
	v.ScrollTo(15, 15)
	v.Layout()

	if got := v.ContentOrigin(); got != (geometry.Vec{X: -1876, Y: -893}) {
		t.Errorf("ContentOrigin() = %+v, want {-1876 -893}", got)
	}
	if got := v.TitleOrigin(); got != v.ContentOrigin() {
		t.Errorf("TitleOrigin() = %+v, want content origin", got)
	}
	assertTrackersMatchRange(t, v)

	v.ScrollTo(29, 29)
	v.Layout()
	b := v.ScrollBound()
	if got := v.ContentOrigin(); got != (geometry.Vec{X: -b.Right, Y: -b.Bottom}) {
		t.Errorf("ContentOrigin() = %+v, want clamped to bound", got)
	}
}

func TestTapDispatch(t *testing.T) {
	v, _ := newTestView(t)
	rec := &clickRecorder{}
	v.SetItemClickListener(rec)

	tap := func(x, y float64) {
		p := &pointer{v: v, now: time.Now()}
		p.send(gesture.Press, x, y, 0)
		p.send(gesture.Release, x, y, 50*time.Millisecond)
		v.Layout()
	}

	tap(112+150, 35+80)
	tap(112+290, 10)
	tap(20, 35+150)
	tap(10, 10)

	if len(rec.content) != 1 || rec.content[0] != (geometry.Cell{Row: 1, Col: 1}) {
		t.Errorf("content clicks = %v, want [{1 1}]", rec.content)
	}
	if len(rec.rowTitles) != 1 || rec.rowTitles[0] != 2 {
		t.Errorf("top title clicks = %v, want [2]", rec.rowTitles)
	}
	if len(rec.columnTitles) != 1 || rec.columnTitles[0] != 2 {
		t.Errorf("left title clicks = %v, want [2]", rec.columnTitles)
	}
}

func TestOverScrollNotifications(t *testing.T) {
	v, _ := newTestView(t)
	slot := &testWidget{label: "pull"}
	slot.Resize(40, 100)
	v.SetOverScrollSlotWidget(SlotLeft, slot)
	rec := &overRecorder{}
	v.SetOverScrollListener(rec)
	v.Layout()

	if got := v.MaxOverScroll().X; got != 160 {
		t.Errorf("MaxOverScroll().X = %v, want 160", got)
	}

	p := &pointer{v: v, now: time.Now()}
	p.send(gesture.Press, 300, 200, 0)
	p.send(gesture.Move, 400, 200, 10*time.Millisecond)
	v.Layout()

	if len(rec.by) != 1 || len(rec.by[0]) != 1 {
		t.Fatalf("by batches = %v, want one event", rec.by)
	}
	ev := rec.by[0][0]
	want := physics.Bouncy(100, 0, 160, 0.7) / 40
	if ev.Slot != SlotLeft || math.Abs(ev.Degree-want) > 1e-9 || ev.Widget != slot {
		t.Errorf("by event = %+v, want left slot at degree %v", ev, want)
	}
	if !slot.Visible() {
		t.Error("slot widget hidden while over-scrolled")
	}
	first, _ := v.Lookup(geometry.Cell{Row: 0, Col: 0})
	if got := slot.Bounds(); got.X != first.(*testWidget).Bounds().X-40 || got.Y != 35 {
		t.Errorf("slot bounds = %+v, want left of content", got)
	}
	if len(rec.release) != 0 {
		t.Errorf("release batches = %d during drag, want 0", len(rec.release))
	}

	p.send(gesture.Release, 400, 200, 500*time.Millisecond)
	v.Layout()
	if len(rec.release) != 1 {
		t.Fatalf("release batches = %d, want 1", len(rec.release))
	}
	if len(rec.by) != 1 {
		t.Errorf("by batches = %d after release, want still 1", len(rec.by))
	}
	if v.State() != physics.ProgrammaticAnimating {
		t.Errorf("State() = %v, want bounce back animation", v.State())
	}

	v.Layout()
	if len(rec.release) != 1 {
		t.Errorf("release delivered %d times, want once", len(rec.release))
	}

	settle(t, v)
	if got := v.ContentOrigin(); got != (geometry.Vec{}) {
		t.Errorf("ContentOrigin() = %+v after bounce back, want origin", got)
	}
	if slot.Visible() {
		t.Error("slot widget visible after bounce back")
	}
}

func TestInvalidSlotIsIgnored(t *testing.T) {
	v, _ := newTestView(t)
	w := &testWidget{}
	w.Resize(10, 10)
	v.SetOverScrollSlotWidget(Slot(7), w)
	v.SetOverScrollSlotWidget(Slot(-1), w)
	v.Layout()

	if v.ShowOverScrollSlot(Slot(7)) || v.HideOverScrollSlot(Slot(-1)) {
		t.Error("show/hide on invalid slot reported success")
	}
	if got := v.MaxOverScroll(); got != (geometry.Vec{X: 200, Y: 200}) {
		t.Errorf("MaxOverScroll() = %+v, want defaults", got)
	}
}

func TestShowAndHideSlot(t *testing.T) {
	v, _ := newTestView(t)
	top := &testWidget{}
	top.Resize(300, 50)
	v.SetOverScrollSlotWidget(SlotTop, top)
	v.Layout()

	v.DisableScrollAndBounce()
	if !v.ShowOverScrollSlot(SlotTop) {
		t.Fatal("ShowOverScrollSlot() = false")
	}
	settle(t, v)
	if got := v.ContentOrigin().Y; got != 50 {
		t.Errorf("ContentOrigin().Y = %v, want 50", got)
	}
	if !top.Visible() {
		t.Error("top slot hidden while revealed")
	}
	if v.TouchEnabled() {
		t.Error("TouchEnabled() = true after DisableScrollAndBounce()")
	}

	v.EnableTouchAndBounce()
	if !v.HideOverScrollSlot(SlotTop) {
		t.Fatal("HideOverScrollSlot() = false")
	}
	settle(t, v)
	if got := v.ContentOrigin().Y; got != 0 {
		t.Errorf("ContentOrigin().Y = %v, want 0", got)
	}
}

func TestShowRightSlot(t *testing.T) {
	v, _ := newTestView(t)
	right := &testWidget{}
	right.Resize(60, 300)
	v.SetOverScrollSlotWidget(SlotRight, right)
	v.Layout()
	v.DisableScrollAndBounce()

	v.ShowOverScrollSlot(SlotRight)
	settle(t, v)

	want := -v.ScrollBound().Right - 60
	if got := v.ContentOrigin().X; got != want {
		t.Errorf("ContentOrigin().X = %v, want %v", got, want)
	}
	if got := v.OverScroll().Right; got != 60 {
		t.Errorf("OverScroll().Right = %v, want 60", got)
	}
}

func TestDisabledTouchIgnoresPointer(t *testing.T) {
	v, _ := newTestView(t)
	v.DisableScrollAndBounce()

	p := &pointer{v: v, now: time.Now()}
	if p.send(gesture.Press, 300, 200, 0) {
		t.Error("HandlePointer() = true while disabled")
	}
	p.send(gesture.Move, 100, 100, 10*time.Millisecond)
	if got := v.ContentOrigin(); got != (geometry.Vec{}) {
		t.Errorf("ContentOrigin() = %+v, want unchanged", got)
	}
}

func TestInvalidationRerendersTrackedOnly(t *testing.T) {
	v, a := newTestView(t)
	w, _ := v.Lookup(geometry.Cell{Row: 1, Col: 1})
	tw := w.(*testWidget)
	title, _ := v.Lookup(geometry.Cell{Row: -1, Col: 2})
	before := a.created

	a.NotifyInvalidated([]geometry.Cell{{Row: 1, Col: 1}, {Row: -1, Col: 2}, {Row: 25, Col: 25}, {Row: -1, Col: -1}})
	a.NotifyChanged([]geometry.Cell{{Row: 1, Col: 1}})

	if tw.renders != 2 {
		t.Errorf("content renders = %d, want 2", tw.renders)
	}
	if got := title.(*testWidget).renders; got != 2 {
		t.Errorf("title renders = %d, want 2", got)
	}
	if a.created != before {
		t.Errorf("invalidation created %d widgets", a.created-before)
	}
}

func TestShadows(t *testing.T) {
	opts := DefaultOptions()
	made := map[ShadowKind]int{}
	opts.Shadows = func(kind ShadowKind) Widget {
		made[kind]++
		if kind == HeaderRightShadow {
			return nil
		}
		return &testWidget{label: kind.String()}
	}
	v := New(opts)
	v.Resize(672, 385)
	v.SetAdapter(&testAdapter{rows: 30, cols: 30})
	v.Layout()
	v.Layout()

	for _, k := range []ShadowKind{RowTitleShadow, ColumnTitleShadow, HeaderBottomShadow, HeaderRightShadow} {
		if made[k] != 1 {
			t.Errorf("shadow %v created %d times, want 1", k, made[k])
		}
	}

	var labels []string
	for _, w := range v.Children() {
		labels = append(labels, w.(*testWidget).label)
	}
	n := len(labels)
	want := []string{"row-title", "column-title", "corner", "header-bottom"}
	if n < 4 || fmt.Sprint(labels[n-4:]) != fmt.Sprint(want) {
		t.Errorf("Children() tail = %v, want %v", labels, want)
	}
	if got := v.shadows.row.(*testWidget).Bounds(); got != (geometry.Rect{X: 112, Y: 35, W: 560, H: 10}) {
		t.Errorf("row title shadow bounds = %+v", got)
	}
}

func TestFlingThroughPointer(t *testing.T) {
	v, _ := newTestView(t)
	p := &pointer{v: v, now: time.Now()}
	var flings []geometry.Vec
	v.SetFlingListener(func(_ *View, vx, vy float64) {
		flings = append(flings, geometry.Vec{X: vx, Y: vy})
	})

	p.send(gesture.Press, 600, 300, 0)
	for i := 1; i <= 5; i++ {
		p.send(gesture.Move, 600-float64(i*50), 300, 10*time.Millisecond)
	}
	p.send(gesture.Release, 350, 300, 0)
	if v.State() != physics.Flinging {
		t.Fatalf("State() = %v, want flinging", v.State())
	}
	if len(flings) != 1 || math.Abs(flings[0].X+5000) > 1e-6 || flings[0].Y != 0 {
		t.Errorf("fling listener got %v, want one fling at (-5000, 0)", flings)
	}

	settle(t, v)
	if v.State() != physics.Idle {
		t.Errorf("State() = %v after settle", v.State())
	}
	if v.ContentOrigin().X >= -250 {
		t.Errorf("ContentOrigin().X = %v, want fling to carry past the drag", v.ContentOrigin().X)
	}
	assertTrackersMatchRange(t, v)
}

func TestHugeGridIsClamped(t *testing.T) {
	v := New(DefaultOptions())
	v.Resize(672, 385)
	v.SetAdapter(&testAdapter{rows: 100000, cols: 3})
	if got := v.Shape().Rows; got != 65536 {
		t.Errorf("Shape().Rows = %d, want 65536", got)
	}
}

func TestObservableDeduplicates(t *testing.T) {
	var o Observable
	l := &adapterObserver{}
	o.AddChangeListener(l)
	o.AddChangeListener(l)
	o.AddChangeListener(nil)
	if o.ListenerCount() != 1 {
		t.Errorf("ListenerCount() = %d, want 1", o.ListenerCount())
	}
	o.RemoveChangeListener(l)
	if o.ListenerCount() != 0 {
		t.Errorf("ListenerCount() = %d after remove, want 0", o.ListenerCount())
	}
}

func TestProgrammaticFling(t *testing.T) {
	v, _ := newTestView(t)
	if v.Fling(100, 0) {
		t.Error("Fling(100, 0) = true, want false below the threshold")
	}
	if !v.Fling(0, -3000) {
		t.Fatal("Fling(0, -3000) = false, want true")
	}
	settle(t, v)
	o := v.ContentOrigin()
	if o.Y >= 0 || o.X != 0 {
		t.Errorf("ContentOrigin() = %+v, want a vertical move only", o)
	}
	b := v.ScrollBound()
	if o.Y < -b.Bottom {
		t.Errorf("ContentOrigin().Y = %v, beyond bound %v after settle", o.Y, -b.Bottom)
	}

	empty := New(DefaultOptions())
	if empty.Fling(0, -3000) {
		t.Error("Fling() without adapter = true, want false")
	}
}

package crosstab

// ItemClickListener receives taps resolved to grid positions.
type ItemClickListener interface {
	// OnRowTitleClicked fires for a title in the top band.
	OnRowTitleClicked(v *View, col int)
	// OnColumnTitleClicked fires for a title in the left band.
	OnColumnTitleClicked(v *View, row int)
	OnContentClicked(v *View, row, col int)
}

// ClickFuncs adapts plain functions to ItemClickListener. Nil fields are
// skipped.
type ClickFuncs struct {
	RowTitle    func(v *View, col int)
	ColumnTitle func(v *View, row int)
	Content     func(v *View, row, col int)
}

func (f ClickFuncs) OnRowTitleClicked(v *View, col int) {
	if f.RowTitle != nil {
		f.RowTitle(v, col)
	}
}

func (f ClickFuncs) OnColumnTitleClicked(v *View, row int) {
	if f.ColumnTitle != nil {
		f.ColumnTitle(v, row)
	}
}

func (f ClickFuncs) OnContentClicked(v *View, row, col int) {
	if f.Content != nil {
		f.Content(v, row, col)
	}
}

// OverScrollEvent describes one over-scrolled side during a layout pass.
type OverScrollEvent struct {
	Slot Slot
	// Degree is the over-scroll distance divided by the slot widget's size
	// along the scroll axis. 1 means the slot widget is fully revealed.
	Degree float64
	Widget Widget
}

// OverScrollListener receives at most one batch of each kind per layout pass.
type OverScrollListener interface {
	// OnOverScrollBy fires while a drag holds the content past a bound.
	OnOverScrollBy(v *View, events []OverScrollEvent)
	// OnOverScrollRelease fires on the pass right after the pointer is
	// released past a bound.
	OnOverScrollRelease(v *View, events []OverScrollEvent)
}

// OverScrollFuncs adapts plain functions to OverScrollListener.
type OverScrollFuncs struct {
	By      func(v *View, events []OverScrollEvent)
	Release func(v *View, events []OverScrollEvent)
}

func (f OverScrollFuncs) OnOverScrollBy(v *View, events []OverScrollEvent) {
	if f.By != nil {
		f.By(v, events)
	}
}

func (f OverScrollFuncs) OnOverScrollRelease(v *View, events []OverScrollEvent) {
	if f.Release != nil {
		f.Release(v, events)
	}
}

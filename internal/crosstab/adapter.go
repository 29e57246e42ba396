package crosstab

import (
	"sync"

	"github.com/theirongolddev/crosstab/internal/crosstab/geometry"
)

// Adapter supplies the grid shape and the widgets for every cell.
//
// The widget methods receive a hidden widget from the pool as reuse, or nil
// when none is available. They may update reuse in place and return it, or
// return a new widget. They must never return nil for an index the view asks
// about.
type Adapter interface {
	RowCount() int
	ColumnCount() int

	// HeaderWidget returns the corner widget. It is asked once per refresh.
	HeaderWidget() Widget
	// RowTitleWidget returns the title of column col in the top band.
	RowTitleWidget(col int, reuse Widget) Widget
	// ColumnTitleWidget returns the title of row row in the left band.
	ColumnTitleWidget(row int, reuse Widget) Widget
	// ContentWidget returns the content cell at (row, col).
	ContentWidget(row, col int, reuse Widget) Widget

	AddChangeListener(l ChangeListener)
	RemoveChangeListener(l ChangeListener)
}

// ChangeListener receives batched cell notifications. A negative index
// addresses the title band of the other axis.
type ChangeListener interface {
	OnChanged(cells []geometry.Cell)
	OnInvalidated(cells []geometry.Cell)
}

// Observable implements the listener half of Adapter. Embed it in an adapter
// and call NotifyInvalidated when cells need repainting.
type Observable struct {
	mu        sync.Mutex
	listeners []ChangeListener
}

// AddChangeListener registers l. Adding the same listener twice has no effect.
func (o *Observable) AddChangeListener(l ChangeListener) {
	if l == nil {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, existing := range o.listeners {
		if existing == l {
			return
		}
	}
	o.listeners = append(o.listeners, l)
}

// RemoveChangeListener unregisters l.
func (o *Observable) RemoveChangeListener(l ChangeListener) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, existing := range o.listeners {
		if existing == l {
			o.listeners = append(o.listeners[:i], o.listeners[i+1:]...)
			return
		}
	}
}

// ListenerCount returns the number of registered listeners.
func (o *Observable) ListenerCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.listeners)
}

// NotifyChanged tells every listener that cells changed.
func (o *Observable) NotifyChanged(cells []geometry.Cell) {
	for _, l := range o.snapshot() {
		l.OnChanged(cells)
	}
}

// NotifyInvalidated tells every listener that cells must be repainted.
func (o *Observable) NotifyInvalidated(cells []geometry.Cell) {
	for _, l := range o.snapshot() {
		l.OnInvalidated(cells)
	}
}

// snapshot copies the listeners so callbacks run without the lock held.
func (o *Observable) snapshot() []ChangeListener {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]ChangeListener, len(o.listeners))
	copy(out, o.listeners)
	return out
}

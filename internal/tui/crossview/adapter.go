package crossview

import (
	"github.com/theirongolddev/crosstab/internal/crosstab"
	"github.com/theirongolddev/crosstab/internal/crosstab/geometry"
	"github.com/theirongolddev/crosstab/internal/dataset"
)

// gridAdapter serves a dataset.Grid to the view and tracks the highlighted
// path from the top-left corner to the selected cell.
type gridAdapter struct {
	crosstab.Observable

	grid     *dataset.Grid
	selected geometry.Cell
	path     map[geometry.Cell]bool
}

func newGridAdapter(g *dataset.Grid) *gridAdapter {
	return &gridAdapter{grid: g, selected: noSelection}
}

var noSelection = geometry.Cell{Row: -1, Col: -1}

func (a *gridAdapter) RowCount() int    { return a.grid.RowCount() }
func (a *gridAdapter) ColumnCount() int { return a.grid.ColumnCount() }

func (a *gridAdapter) HeaderWidget() crosstab.Widget {
	return &cellWidget{kind: kindHeader, row: -1, col: -1, label: a.grid.Title}
}

func (a *gridAdapter) RowTitleWidget(col int, reuse crosstab.Widget) crosstab.Widget {
	return a.fill(reuse, kindRowTitle, -1, col, a.grid.ColumnLabel(col))
}

func (a *gridAdapter) ColumnTitleWidget(row int, reuse crosstab.Widget) crosstab.Widget {
	return a.fill(reuse, kindColumnTitle, row, -1, a.grid.RowLabel(row))
}

func (a *gridAdapter) ContentWidget(row, col int, reuse crosstab.Widget) crosstab.Widget {
	return a.fill(reuse, kindContent, row, col, a.grid.Value(row, col))
}

func (a *gridAdapter) fill(reuse crosstab.Widget, kind cellKind, row, col int, label string) crosstab.Widget {
	w, _ := reuse.(*cellWidget)
	if w == nil {
		w = &cellWidget{}
	}
	w.kind = kind
	w.row, w.col = row, col
	w.label = label
	w.onPath = a.path[geometry.Cell{Row: row, Col: col}]
	return w
}

// Grid returns the dataset being shown.
func (a *gridAdapter) Grid() *dataset.Grid { return a.grid }

// SetGrid swaps the dataset and drops the selection. The caller refreshes
// the view.
func (a *gridAdapter) SetGrid(g *dataset.Grid) {
	a.grid = g
	a.selected = noSelection
	a.path = nil
}

// Selected returns the selected content cell, or (-1, -1).
func (a *gridAdapter) Selected() geometry.Cell { return a.selected }

// Select highlights the path to (row, col). A negative index clears the
// selection. The cells leaving and entering the path are invalidated.
func (a *gridAdapter) Select(row, col int) {
	next := noSelection
	if row >= 0 && col >= 0 && row < a.RowCount() && col < a.ColumnCount() {
		next = geometry.Cell{Row: row, Col: col}
	}
	if next == a.selected {
		return
	}
	old := pathCells(a.selected)
	cells := pathCells(next)

	a.selected = next
	a.path = make(map[geometry.Cell]bool, len(cells))
	for _, c := range cells {
		a.path[c] = true
	}
	if dirty := append(old, cells...); len(dirty) > 0 {
		a.NotifyInvalidated(dirty)
	}
}

// pathCells lists the cells from the top band down to sel and then from the
// left band across to it.
func pathCells(sel geometry.Cell) []geometry.Cell {
	if !sel.IsContent() {
		return nil
	}
	out := make([]geometry.Cell, 0, sel.Row+sel.Col+3)
	for r := -1; r <= sel.Row; r++ {
		out = append(out, geometry.Cell{Row: r, Col: sel.Col})
	}
	for c := -1; c < sel.Col; c++ {
		out = append(out, geometry.Cell{Row: sel.Row, Col: c})
	}
	return out
}

var _ crosstab.Adapter = (*gridAdapter)(nil)

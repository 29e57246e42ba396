package crossview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/padding"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/theirongolddev/crosstab/internal/crosstab"
	"github.com/theirongolddev/crosstab/internal/tui/icons"
	"github.com/theirongolddev/crosstab/internal/tui/theme"
)

// painter is implemented by every widget the host can draw.
type painter interface {
	Visible() bool
	paint(c *Canvas, m Mapper, st *theme.Styles)
}

type cellKind int

const (
	kindHeader cellKind = iota
	kindRowTitle
	kindColumnTitle
	kindContent
)

// cellWidget draws one grid cell: the corner, a title or a content cell.
type cellWidget struct {
	crosstab.BaseWidget
	kind   cellKind
	row    int
	col    int
	label  string
	onPath bool
}

func (w *cellWidget) style(st *theme.Styles) *lipgloss.Style {
	if w.onPath {
		return &st.Path
	}
	switch w.kind {
	case kindHeader:
		return &st.Header
	case kindRowTitle:
		return &st.RowTitle
	case kindColumnTitle:
		return &st.ColumnTitle
	}
	if (w.row+w.col)%2 == 0 {
		return &st.CellA
	}
	return &st.CellB
}

func (w *cellWidget) paint(c *Canvas, m Mapper, st *theme.Styles) {
	b := m.Box(w.Bounds())
	if b.Empty() {
		return
	}
	s := w.style(st)
	c.Fill(b, s)
	line := b.Y0 + b.H()/2
	c.Text(b.X0, line, b.X1, center(w.label, b.W()), s)
}

// center fits s into width columns, truncating with an ellipsis.
func center(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) > width {
		s = truncate.StringWithTail(s, uint(width), icons.Current().Ellipsis)
	}
	if lead := (width - runewidth.StringWidth(s)) / 2; lead > 0 {
		s = strings.Repeat(" ", lead) + s
	}
	return padding.String(s, uint(width))
}

// shadowWidget draws a thin line along a band edge. Shadows are narrower
// than a terminal cell, so they only mark the blank cells at the edge.
type shadowWidget struct {
	crosstab.BaseWidget
	kind crosstab.ShadowKind
}

func (w *shadowWidget) paint(c *Canvas, m Mapper, st *theme.Styles) {
	r := w.Bounds()
	b := m.Box(r)
	ic := icons.Current()
	switch w.kind {
	case crosstab.RowTitleShadow, crosstab.HeaderBottomShadow:
		y := floorDiv(r.Y, m.PxPerRow)
		for x := b.X0; x < max(b.X1, b.X0+1); x++ {
			c.Overlay(x, y, ic.ShadowBottom, &st.Shadow)
		}
	default:
		x := floorDiv(r.X, m.PxPerColumn)
		for y := b.Y0; y < max(b.Y1, b.Y0+1); y++ {
			c.Overlay(x, y, ic.ShadowRight, &st.Shadow)
		}
	}
}

// slotWidget is an over-scroll indicator holding a short message.
type slotWidget struct {
	crosstab.BaseWidget
	slot    crosstab.Slot
	text    string
	active  bool
	spinner func() string
}

func (w *slotWidget) paint(c *Canvas, m Mapper, st *theme.Styles) {
	b := m.Box(w.Bounds())
	if b.Empty() {
		return
	}
	s := &st.Slot
	if w.active {
		s = &st.SlotActive
	}
	text := w.text
	if w.spinner != nil {
		text = w.spinner() + " " + text
	}
	lines := strings.Split(wordwrap.String(text, b.W()), "\n")
	if len(lines) > b.H() {
		lines = lines[:b.H()]
	}
	top := b.Y0 + (b.H()-len(lines))/2
	for i, l := range lines {
		c.Text(b.X0, top+i, b.X1, center(l, b.W()), s)
	}
}

var (
	_ painter = (*cellWidget)(nil)
	_ painter = (*shadowWidget)(nil)
	_ painter = (*slotWidget)(nil)
)

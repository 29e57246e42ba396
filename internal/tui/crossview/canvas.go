package crossview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Box is a rectangle of terminal cells. X1 and Y1 are exclusive.
type Box struct {
	X0, Y0, X1, Y1 int
}

// W returns the width in columns.
func (b Box) W() int { return max(b.X1-b.X0, 0) }

// H returns the height in lines.
func (b Box) H() int { return max(b.Y1-b.Y0, 0) }

// Empty reports whether b covers no cells.
func (b Box) Empty() bool { return b.W() == 0 || b.H() == 0 }

type glyph struct {
	s  string
	st *lipgloss.Style
	// wide marks the second column of a double-width rune.
	wide bool
}

// Canvas is a fixed grid of styled terminal cells that widgets paint into.
// Painting outside the canvas is clipped.
type Canvas struct {
	w, h  int
	cells []glyph
	// merged caches overlay styles by (foreground, underlying) pair.
	merged map[[2]*lipgloss.Style]*lipgloss.Style
}

// NewCanvas returns a blank canvas of w columns by h lines.
func NewCanvas(w, h int) *Canvas {
	w, h = max(w, 0), max(h, 0)
	c := &Canvas{w: w, h: h, cells: make([]glyph, w*h)}
	for i := range c.cells {
		c.cells[i].s = " "
	}
	return c
}

// Size returns the canvas dimensions.
func (c *Canvas) Size() (w, h int) { return c.w, c.h }

func (c *Canvas) at(x, y int) *glyph {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return nil
	}
	return &c.cells[y*c.w+x]
}

// Fill paints b with blanks in st.
func (c *Canvas) Fill(b Box, st *lipgloss.Style) {
	for y := max(b.Y0, 0); y < min(b.Y1, c.h); y++ {
		for x := max(b.X0, 0); x < min(b.X1, c.w); x++ {
			c.cells[y*c.w+x] = glyph{s: " ", st: st}
		}
	}
}

// Text writes s starting at (x, y) and stops at column limit. Double-width
// runes that would straddle the limit are dropped.
func (c *Canvas) Text(x, y, limit int, s string, st *lipgloss.Style) {
	limit = min(limit, c.w)
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if x+rw > limit {
			return
		}
		if g := c.at(x, y); g != nil {
			*g = glyph{s: string(r), st: st}
			if rw == 2 {
				if g2 := c.at(x+1, y); g2 != nil {
					*g2 = glyph{st: st, wide: true}
				}
			}
		}
		x += rw
	}
}

// Glyph returns the text in the cell at (x, y).
func (c *Canvas) Glyph(x, y int) string {
	g := c.at(x, y)
	if g == nil || g.wide {
		return ""
	}
	return g.s
}

// Blank reports whether the cell at (x, y) holds a space.
func (c *Canvas) Blank(x, y int) bool {
	g := c.at(x, y)
	return g != nil && !g.wide && g.s == " "
}

// Overlay puts s on a blank cell at (x, y), keeping the background of
// whatever was painted there. Non-blank cells are left alone.
func (c *Canvas) Overlay(x, y int, s string, fg *lipgloss.Style) {
	if !c.Blank(x, y) || runewidth.StringWidth(s) != 1 {
		return
	}
	g := c.at(x, y)
	st := fg
	if g.st != nil {
		key := [2]*lipgloss.Style{fg, g.st}
		if c.merged == nil {
			c.merged = make(map[[2]*lipgloss.Style]*lipgloss.Style)
		}
		if st = c.merged[key]; st == nil {
			m := fg.Copy().Inherit(*g.st)
			st = &m
			c.merged[key] = st
		}
	}
	*g = glyph{s: s, st: st}
}

// String returns the canvas as plain text, one line per row, with trailing
// spaces trimmed.
func (c *Canvas) String() string {
	var b strings.Builder
	for y := 0; y < c.h; y++ {
		var line strings.Builder
		for x := 0; x < c.w; x++ {
			line.WriteString(c.cells[y*c.w+x].s)
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
		if y < c.h-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Render returns the canvas with styles applied. Runs of cells sharing a
// style are rendered together.
func (c *Canvas) Render() string {
	var b strings.Builder
	for y := 0; y < c.h; y++ {
		var run strings.Builder
		var cur *lipgloss.Style
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if cur == nil {
				b.WriteString(run.String())
			} else {
				b.WriteString(cur.Render(run.String()))
			}
			run.Reset()
		}
		for x := 0; x < c.w; x++ {
			g := c.cells[y*c.w+x]
			if g.st != cur {
				flush()
				cur = g.st
			}
			run.WriteString(g.s)
		}
		flush()
		if y < c.h-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

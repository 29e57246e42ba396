package crossview

import (
	"github.com/theirongolddev/crosstab/internal/config"
	"github.com/theirongolddev/crosstab/internal/crosstab"
	"github.com/theirongolddev/crosstab/internal/crosstab/geometry"
	"github.com/theirongolddev/crosstab/internal/dataset"
	"github.com/theirongolddev/crosstab/internal/tui/theme"
)

// NewView builds a view over g with the options in cfg and runs the first
// layout pass. The caller sizes it with Resize.
func NewView(cfg *config.Config, g *dataset.Grid) *crosstab.View {
	return newView(cfg, newGridAdapter(g))
}

func newView(cfg *config.Config, a *gridAdapter) *crosstab.View {
	opts := cfg.Options()
	if cfg.Grid.Shadows {
		opts.Shadows = func(kind crosstab.ShadowKind) crosstab.Widget {
			return &shadowWidget{kind: kind}
		}
	}
	v := crosstab.New(opts)
	v.SetAdapter(a)
	return v
}

// MapperFor returns the pixel mapping configured in cfg.
func MapperFor(cfg *config.Config) Mapper {
	return Mapper{PxPerColumn: cfg.Terminal.PxPerColumn, PxPerRow: cfg.Terminal.PxPerRow}
}

// Paint draws the visible widgets of v, back to front, onto a canvas of
// cols by lines cells.
func Paint(v *crosstab.View, m Mapper, st *theme.Styles, cols, lines int) *Canvas {
	c := NewCanvas(cols, lines)
	for _, w := range v.Children() {
		if p, ok := w.(painter); ok && p.Visible() {
			p.paint(c, m, st)
		}
	}
	return c
}

// SnapshotOptions configure a one-shot render.
type SnapshotOptions struct {
	Config *config.Config
	Grid   *dataset.Grid
	// Width and Height are in terminal cells.
	Width  int
	Height int
	// Center, when set, scrolls that content cell to the middle.
	Center *geometry.Cell
	// Select, when set, highlights the path to that content cell.
	Select *geometry.Cell
}

// Snapshot lays out a grid once at rest and paints it.
func Snapshot(opts SnapshotOptions) *Canvas {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	a := newGridAdapter(opts.Grid)
	v := newView(cfg, a)
	m := MapperFor(cfg)
	v.Resize(m.Pixels(opts.Width, opts.Height))
	if c := opts.Center; c != nil {
		v.ScrollTo(c.Row, c.Col)
	}
	v.Layout()
	if c := opts.Select; c != nil {
		a.Select(c.Row, c.Col)
	}
	st := theme.NewStyles(theme.FromName(cfg.Theme))
	return Paint(v, m, &st, opts.Width, opts.Height)
}

// Package components provides shared TUI building blocks.
package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/crosstab/internal/tui/theme"
)

// AxisState tracks the visible span of one grid axis.
type AxisState struct {
	FirstVisible int // Index of first visible item (0-indexed)
	LastVisible  int // Index of last visible item (0-indexed, inclusive)
	TotalItems   int
}

// HasMoreBefore returns true if there are items before the viewport.
func (s AxisState) HasMoreBefore() bool {
	return s.TotalItems > 0 && s.FirstVisible > 0
}

// HasMoreAfter returns true if there are items after the viewport.
func (s AxisState) HasMoreAfter() bool {
	return s.TotalItems > 0 && s.LastVisible < s.TotalItems-1
}

// AllVisible returns true if every item fits in the viewport.
func (s AxisState) AllVisible() bool {
	return !s.HasMoreBefore() && !s.HasMoreAfter()
}

// span renders "1-5/30", or "0/0" for an empty axis.
func (s AxisState) span() string {
	if s.TotalItems == 0 || s.LastVisible < s.FirstVisible {
		return fmt.Sprintf("0/%d", s.TotalItems)
	}
	return fmt.Sprintf("%d-%d/%d", s.FirstVisible+1, s.LastVisible+1, s.TotalItems)
}

// GridScrollState is the scroll position of a two-axis grid.
type GridScrollState struct {
	Rows AxisState
	Cols AxisState
}

// AllVisible returns true if the whole grid fits.
func (s GridScrollState) AllVisible() bool {
	return s.Rows.AllVisible() && s.Cols.AllVisible()
}

// Indicator returns arrows for each direction that has hidden content, in
// the order ◀▲▼▶.
func (s GridScrollState) Indicator() string {
	out := ""
	if s.Cols.HasMoreBefore() {
		out += "◀"
	}
	if s.Rows.HasMoreBefore() {
		out += "▲"
	}
	if s.Rows.HasMoreAfter() {
		out += "▼"
	}
	if s.Cols.HasMoreAfter() {
		out += "▶"
	}
	return out
}

// ScrollIndicatorOptions configures scroll indicator rendering.
type ScrollIndicatorOptions struct {
	State GridScrollState
	Width int
	// ShowCount enables showing row and column spans.
	ShowCount bool
}

// RenderScrollIndicator renders the grid position. The format depends on
// width:
// - Wide: "rows 1-5/30  cols 1-4/30 ▼▶"
// - Narrow: "r1-5 c1-4 ▼▶"
// It returns the empty string when the whole grid is visible.
func RenderScrollIndicator(opts ScrollIndicatorOptions) string {
	s := opts.State
	if s.AllVisible() {
		return ""
	}

	t := theme.Current()
	textStyle := lipgloss.NewStyle().Foreground(t.Overlay)
	arrowStyle := lipgloss.NewStyle().Foreground(t.Primary).Bold(true)

	indicator := s.Indicator()
	if !opts.ShowCount {
		return arrowStyle.Render(indicator)
	}

	var countStr string
	if opts.Width >= 32 {
		countStr = fmt.Sprintf("rows %s  cols %s", s.Rows.span(), s.Cols.span())
	} else {
		countStr = fmt.Sprintf("r%d-%d c%d-%d",
			s.Rows.FirstVisible+1, s.Rows.LastVisible+1,
			s.Cols.FirstVisible+1, s.Cols.LastVisible+1)
	}
	if indicator != "" {
		return textStyle.Render(countStr) + " " + arrowStyle.Render(indicator)
	}
	return textStyle.Render(countStr)
}

// ScrollFooter right-aligns the scroll indicator within width.
func ScrollFooter(state GridScrollState, width int) string {
	indicator := RenderScrollIndicator(ScrollIndicatorOptions{
		State:     state,
		Width:     width,
		ShowCount: width >= 16,
	})
	if indicator == "" {
		return ""
	}

	indicatorWidth := lipgloss.Width(indicator)
	if indicatorWidth >= width {
		return indicator
	}
	return lipgloss.NewStyle().
		PaddingLeft(width - indicatorWidth).
		Render(indicator)
}

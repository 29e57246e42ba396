// Package layout decides how much chrome the grid host shows at a given
// terminal size.
package layout

// Width tiers for the status bar and help line.
//   - Narrow: shape and scroll arrows only; help collapses to "? help".
//   - Compact: adds the status message and the short key help.
//   - Wide: adds the data source and the motion state.
const (
	CompactThreshold = 40
	WideThreshold    = 80
)

// MinGridLines is the smallest grid area worth drawing. Below it the host
// drops the help line first.
const MinGridLines = 3

// Tier describes the current width bucket.
type Tier int

const (
	TierNarrow Tier = iota
	TierCompact
	TierWide
)

func (t Tier) String() string {
	switch t {
	case TierNarrow:
		return "narrow"
	case TierCompact:
		return "compact"
	default:
		return "wide"
	}
}

// TierForWidth maps a terminal width to a tier.
func TierForWidth(width int) Tier {
	switch {
	case width >= WideThreshold:
		return TierWide
	case width >= CompactThreshold:
		return TierCompact
	default:
		return TierNarrow
	}
}

// Chrome is the number of lines taken by the status bar and help line at
// a terminal height.
func Chrome(height int) int {
	switch {
	case height >= MinGridLines+2:
		return 2
	case height >= MinGridLines+1:
		return 1
	default:
		return 0
	}
}

// GridLines is the height left for the grid.
func GridLines(height int) int {
	return max(height-Chrome(height), 0)
}

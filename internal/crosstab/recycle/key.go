// Package recycle keeps the widgets of a virtualized grid: one tracker of
// on-screen widgets per space, plus a pool of hidden widgets ready for reuse.
package recycle

import "fmt"

// MaxIndex is the largest row or column index a Key can hold.
const MaxIndex = 0xFFFF

// Key identifies a tracked cell within one space. Content keys pack the row
// into the high 16 bits and the column into the low 16 bits; title keys hold
// the title index directly.
type Key uint32

// ContentKey packs (row, col). Both must lie in [0, MaxIndex].
func ContentKey(row, col int) Key {
	return Key(uint32(row)<<16 | uint32(col)&MaxIndex)
}

// TitleKey returns the key of the title at index.
func TitleKey(index int) Key {
	return Key(uint32(index))
}

// RowCol unpacks a content key.
func (k Key) RowCol() (row, col int) {
	return int(k >> 16), int(k & MaxIndex)
}

// Index returns the index stored in a title key.
func (k Key) Index() int {
	return int(k)
}

// ValidIndex reports whether i fits in one half of a content key.
func ValidIndex(i int) bool {
	return i >= 0 && i <= MaxIndex
}

func (k Key) String() string {
	row, col := k.RowCol()
	return fmt.Sprintf("(%d,%d)", row, col)
}

// TitleKeys returns the keys of titles start..end inclusive.
func TitleKeys(start, end int) []Key {
	if end < start {
		return nil
	}
	keys := make([]Key, 0, end-start+1)
	for i := start; i <= end; i++ {
		keys = append(keys, TitleKey(i))
	}
	return keys
}

// ContentKeys returns the keys of every cell in the inclusive window,
// column by column.
func ContentKeys(rowStart, rowEnd, colStart, colEnd int) []Key {
	if rowEnd < rowStart || colEnd < colStart {
		return nil
	}
	keys := make([]Key, 0, (rowEnd-rowStart+1)*(colEnd-colStart+1))
	for col := colStart; col <= colEnd; col++ {
		for row := rowStart; row <= rowEnd; row++ {
			keys = append(keys, ContentKey(row, col))
		}
	}
	return keys
}

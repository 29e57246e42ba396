package output

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffResult is a line-level comparison of two renderings.
type DiffResult struct {
	Equal      bool    `json:"equal"`
	Added      int     `json:"added"`
	Removed    int     `json:"removed"`
	Similarity float64 `json:"similarity"`
	// Unified holds every line prefixed with ' ', '-' or '+'.
	Unified string `json:"diff,omitempty"`
}

// LineDiff compares want and got line by line.
func LineDiff(want, got string) *DiffResult {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(want, got)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	res := &DiffResult{Equal: want == got}
	var sb strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range splitKeep(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				res.Removed++
			case diffmatchpatch.DiffInsert:
				res.Added++
			}
			sb.WriteString(prefix)
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	if !res.Equal {
		res.Unified = sb.String()
	}

	maxLen := len(want)
	if len(got) > maxLen {
		maxLen = len(got)
	}
	res.Similarity = 1
	if maxLen > 0 {
		charDiffs := dmp.DiffMain(want, got, false)
		res.Similarity = 1 - float64(dmp.DiffLevenshtein(charDiffs))/float64(maxLen)
	}
	return res
}

// splitKeep splits text into lines without their newline. A trailing
// newline does not produce an empty last line.
func splitKeep(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return []string{""}
	}
	return strings.Split(text, "\n")
}

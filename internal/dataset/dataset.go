// Package dataset loads the grids shown by the cross table from YAML or
// TOML files.
//
// A dataset names the corner, labels the columns across the top band and
// gives each row a label and one value per column:
//
//	title: Fares
//	columns: [Mon, Tue, Wed]
//	rows:
//	  - label: LHR
//	    values: [120, 95, 143]
package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

var (
	// ErrEmpty is returned for a dataset with no rows and no columns.
	ErrEmpty = errors.New("dataset is empty")
	// ErrRagged is returned when a row's length differs from the column count.
	ErrRagged = errors.New("dataset rows have different lengths")
	// ErrFormat is returned for a file extension with no known decoder.
	ErrFormat = errors.New("unknown dataset format")
)

// Format is a dataset file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrFormat, filepath.Ext(path))
	}
}

// Grid is a loaded dataset. Values is indexed [row][col].
type Grid struct {
	Title   string
	Columns []string
	Rows    []string
	Values  [][]string
	// Source is the file the grid came from, or "demo".
	Source string
}

// RowCount returns the number of rows.
func (g *Grid) RowCount() int { return len(g.Rows) }

// ColumnCount returns the number of columns.
func (g *Grid) ColumnCount() int { return len(g.Columns) }

// Value returns the cell at (row, col), or "" out of range.
func (g *Grid) Value(row, col int) string {
	if row < 0 || row >= len(g.Values) || col < 0 || col >= len(g.Values[row]) {
		return ""
	}
	return g.Values[row][col]
}

// ColumnLabel returns the label above col.
func (g *Grid) ColumnLabel(col int) string {
	if col < 0 || col >= len(g.Columns) {
		return ""
	}
	return g.Columns[col]
}

// RowLabel returns the label left of row.
func (g *Grid) RowLabel(row int) string {
	if row < 0 || row >= len(g.Rows) {
		return ""
	}
	return g.Rows[row]
}

// file is the on-disk shape shared by both formats.
type file struct {
	Title   string        `yaml:"title" toml:"title"`
	Columns []interface{} `yaml:"columns" toml:"columns"`
	Rows    []fileRow     `yaml:"rows" toml:"rows"`
}

type fileRow struct {
	Label  interface{}   `yaml:"label" toml:"label"`
	Values []interface{} `yaml:"values" toml:"values"`
}

// Load reads and validates the dataset at path.
func Load(path string) (*Grid, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	g, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	g.Source = path
	return g, nil
}

// Parse decodes and validates a dataset. Missing labels are generated:
// columns become C1, C2 and rows R1, R2. When no columns are listed the
// first row decides the column count.
func Parse(data []byte, format Format) (*Grid, error) {
	var f file
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parsing yaml: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parsing toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrFormat, format)
	}
	return f.grid()
}

func (f *file) grid() (*Grid, error) {
	cols := len(f.Columns)
	if cols == 0 && len(f.Rows) > 0 {
		cols = len(f.Rows[0].Values)
	}
	if cols == 0 && len(f.Rows) == 0 {
		return nil, ErrEmpty
	}

	g := &Grid{
		Title:   f.Title,
		Columns: make([]string, cols),
		Rows:    make([]string, len(f.Rows)),
		Values:  make([][]string, len(f.Rows)),
	}
	for c := 0; c < cols; c++ {
		if c < len(f.Columns) {
			g.Columns[c] = scalar(f.Columns[c])
		}
		if g.Columns[c] == "" {
			g.Columns[c] = "C" + strconv.Itoa(c+1)
		}
	}
	for r, row := range f.Rows {
		if len(row.Values) != cols {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrRagged, r+1, len(row.Values), cols)
		}
		g.Rows[r] = scalar(row.Label)
		if g.Rows[r] == "" {
			g.Rows[r] = "R" + strconv.Itoa(r+1)
		}
		values := make([]string, cols)
		for c, v := range row.Values {
			values[c] = scalar(v)
		}
		g.Values[r] = values
	}
	return g, nil
}

// scalar renders a decoded YAML or TOML value as cell text.
func scalar(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	default:
		return fmt.Sprint(x)
	}
}

// Demo builds the stock rows x cols grid: titles show their index and each
// content cell shows row+col.
func Demo(rows, cols int) *Grid {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	g := &Grid{
		Title:   "crosstab",
		Columns: make([]string, cols),
		Rows:    make([]string, rows),
		Values:  make([][]string, rows),
		Source:  "demo",
	}
	for c := range g.Columns {
		g.Columns[c] = strconv.Itoa(c)
	}
	for r := range g.Rows {
		g.Rows[r] = strconv.Itoa(r)
		values := make([]string, cols)
		for c := range values {
			values[c] = strconv.Itoa(r + c)
		}
		g.Values[r] = values
	}
	return g
}

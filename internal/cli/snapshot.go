package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/crosstab/internal/crosstab/geometry"
	"github.com/theirongolddev/crosstab/internal/output"
	"github.com/theirongolddev/crosstab/internal/tui/crossview"
)

type snapshotOptions struct {
	path      string
	width     int
	height    int
	row       int
	col       int
	highlight bool
	color     bool
	golden    string
	update    bool
	rows      int
	cols      int
}

// SnapshotResult is the output of the snapshot command.
type SnapshotResult struct {
	Width  int                `json:"width"`
	Height int                `json:"height"`
	Lines  []string           `json:"lines"`
	Golden string             `json:"golden,omitempty"`
	Diff   *output.DiffResult `json:"diff,omitempty"`

	rendered string
}

// Text implements output.Result.
func (r *SnapshotResult) Text(w io.Writer) error {
	if r.Diff != nil && !r.Diff.Equal {
		_, err := fmt.Fprint(w, r.Diff.Unified)
		return err
	}
	_, err := fmt.Fprintln(w, r.rendered)
	return err
}

// JSON implements output.Result.
func (r *SnapshotResult) JSON() interface{} { return r }

func newSnapshotCmd() *cobra.Command {
	var opts snapshotOptions
	cmd := &cobra.Command{
		Use:   "snapshot [dataset]",
		Short: "Print one frame of the grid at rest",
		Long: `Lay the grid out once and print it as text. With --golden the frame is
compared with a saved rendering and the command fails on any difference.

Examples:
  crosstab snapshot --width 80 --height 24
  crosstab snapshot sales.yaml --row 10 --col 4 --select
  crosstab snapshot --golden testdata/demo.txt --update`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.path = args[0]
			}
			return runSnapshot(cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().IntVar(&opts.width, "width", 0, "Width in columns (default: terminal width or 80)")
	cmd.Flags().IntVar(&opts.height, "height", 0, "Height in lines (default: terminal height or 24)")
	cmd.Flags().IntVar(&opts.row, "row", -1, "Center this row")
	cmd.Flags().IntVar(&opts.col, "col", -1, "Center this column")
	cmd.Flags().BoolVar(&opts.highlight, "select", false, "Highlight the path to --row/--col")
	cmd.Flags().BoolVar(&opts.color, "color", false, "Keep styles in the output")
	cmd.Flags().StringVar(&opts.golden, "golden", "", "Compare with this golden file")
	cmd.Flags().BoolVar(&opts.update, "update", false, "Rewrite the golden file instead of comparing")
	cmd.Flags().IntVar(&opts.rows, "rows", 30, "Rows of the generated grid")
	cmd.Flags().IntVar(&opts.cols, "cols", 30, "Columns of the generated grid")
	return cmd
}

func runSnapshot(w io.Writer, opts snapshotOptions) error {
	grid, err := loadGrid(opts.path, opts.rows, opts.cols)
	if err != nil {
		return err
	}

	width, height := opts.width, opts.height
	if width <= 0 || height <= 0 {
		tw, th, ok := output.TerminalSize()
		if !ok {
			tw, th = 80, 24
		}
		if width <= 0 {
			width = tw
		}
		if height <= 0 {
			height = th
		}
	}

	so := crossview.SnapshotOptions{Config: cfg, Grid: grid, Width: width, Height: height}
	if opts.row >= 0 || opts.col >= 0 {
		c := geometry.Cell{Row: max(opts.row, 0), Col: max(opts.col, 0)}
		so.Center = &c
		if opts.highlight {
			so.Select = &c
		}
	}
	canvas := crossview.Snapshot(so)
	plain := canvas.String()

	res := &SnapshotResult{
		Width:    width,
		Height:   height,
		Lines:    strings.Split(plain, "\n"),
		Golden:   opts.golden,
		rendered: plain,
	}
	if opts.color {
		res.rendered = canvas.Render()
	}

	f := output.New(output.WithJSON(IsJSONOutput()), output.WithWriter(w), output.WithPretty(true))
	if opts.golden == "" {
		return f.Output(res)
	}

	if opts.update {
		if err := os.WriteFile(opts.golden, []byte(plain+"\n"), 0644); err != nil {
			return err
		}
		return f.Output(res)
	}

	want, err := os.ReadFile(opts.golden)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return output.NewCLIError(fmt.Sprintf("golden file %s not found", opts.golden)).
				WithHint(output.HintGoldenUpdate)
		}
		return err
	}
	res.Diff = output.LineDiff(strings.TrimSuffix(string(want), "\n"), plain)
	if res.Diff.Equal {
		return f.Output(res)
	}
	if err := f.Output(res); err != nil {
		return err
	}
	return output.GoldenMismatchError(opts.golden, res.Diff)
}

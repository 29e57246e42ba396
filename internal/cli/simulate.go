package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/crosstab/internal/crosstab"
	"github.com/theirongolddev/crosstab/internal/crosstab/geometry"
	"github.com/theirongolddev/crosstab/internal/output"
	"github.com/theirongolddev/crosstab/internal/tui/crossview"
)

type simulateOptions struct {
	path      string
	vx, vy    float64
	width     int
	height    int
	dt        time.Duration
	maxFrames int
	trail     bool
	rows      int
	cols      int
}

// Point is a content origin sample.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SimulateResult is the output of the simulate command.
type SimulateResult struct {
	Started  bool           `json:"started"`
	Frames   int            `json:"frames"`
	Elapsed  string         `json:"elapsed"`
	Settled  bool           `json:"settled"`
	Origin   Point          `json:"origin"`
	Bound    Point          `json:"bound"`
	Visible  geometry.Range `json:"visible"`
	Stats    crosstab.Stats `json:"stats"`
	Velocity Point          `json:"velocity"`
	Path     []Point        `json:"path,omitempty"`
}

// Text implements output.Result.
func (r *SimulateResult) Text(w io.Writer) error {
	if !r.Started {
		_, err := fmt.Fprintf(w, "no fling: speed (%.0f, %.0f) px/s is below the threshold\n", r.Velocity.X, r.Velocity.Y)
		return err
	}
	state := "settled"
	if !r.Settled {
		state = "still moving"
	}
	fmt.Fprintf(w, "fling (%.0f, %.0f) px/s %s after %d frames (%s)\n", r.Velocity.X, r.Velocity.Y, state, r.Frames, r.Elapsed)
	fmt.Fprintf(w, "  origin:   (%.1f, %.1f) of (%.0f, %.0f)\n", r.Origin.X, r.Origin.Y, r.Bound.X, r.Bound.Y)
	fmt.Fprintf(w, "  visible:  rows %d-%d  cols %d-%d\n", r.Visible.RowStart, r.Visible.RowEnd, r.Visible.ColStart, r.Visible.ColEnd)
	fmt.Fprintf(w, "  content:  %d tracked  %d pooled  %d created\n", r.Stats.Content.Tracked, r.Stats.Content.Pooled, r.Stats.Content.Created)
	for _, p := range r.Path {
		fmt.Fprintf(w, "  %.1f %.1f\n", p.X, p.Y)
	}
	return nil
}

// JSON implements output.Result.
func (r *SimulateResult) JSON() interface{} { return r }

func newSimulateCmd() *cobra.Command {
	var opts simulateOptions
	cmd := &cobra.Command{
		Use:   "simulate [dataset]",
		Short: "Run a fling without a terminal and report where it stops",
		Long: `Start a fling at (--vx, --vy) px/s on the grid and advance the physics in
fixed steps until it comes to rest. Negative velocities scroll toward the
end of the grid.

Examples:
  crosstab simulate --vx -4000
  crosstab simulate --vy -6000 --rows 10000 --path --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.path = args[0]
			}
			res, err := runSimulate(opts)
			if err != nil {
				return err
			}
			f := output.New(output.WithJSON(IsJSONOutput()), output.WithWriter(cmd.OutOrStdout()), output.WithPretty(true))
			return f.Output(res)
		},
	}
	cmd.Flags().Float64Var(&opts.vx, "vx", 0, "Horizontal release velocity in px/s")
	cmd.Flags().Float64Var(&opts.vy, "vy", 0, "Vertical release velocity in px/s")
	cmd.Flags().IntVar(&opts.width, "width", 80, "Viewport width in columns")
	cmd.Flags().IntVar(&opts.height, "height", 24, "Viewport height in lines")
	cmd.Flags().DurationVar(&opts.dt, "dt", 0, "Frame step (default: the configured frame interval)")
	cmd.Flags().IntVar(&opts.maxFrames, "max-frames", 10000, "Stop after this many frames")
	cmd.Flags().BoolVar(&opts.trail, "path", false, "Include the origin after every frame")
	cmd.Flags().IntVar(&opts.rows, "rows", 30, "Rows of the generated grid")
	cmd.Flags().IntVar(&opts.cols, "cols", 30, "Columns of the generated grid")
	return cmd
}

func runSimulate(opts simulateOptions) (*SimulateResult, error) {
	grid, err := loadGrid(opts.path, opts.rows, opts.cols)
	if err != nil {
		return nil, err
	}
	dt := opts.dt
	if dt <= 0 {
		dt = cfg.FrameInterval()
	}

	v := crossview.NewView(cfg, grid)
	m := crossview.MapperFor(cfg)
	v.Resize(m.Pixels(opts.width, opts.height))
	v.Layout()

	res := &SimulateResult{Velocity: Point{X: opts.vx, Y: opts.vy}}
	res.Started = v.Fling(opts.vx, opts.vy)
	v.Layout()
	for v.Active() && res.Frames < opts.maxFrames {
		v.Advance(dt)
		v.Layout()
		res.Frames++
		if opts.trail {
			o := v.ContentOrigin()
			res.Path = append(res.Path, Point{X: o.X, Y: o.Y})
		}
	}

	o := v.ContentOrigin()
	b := v.ScrollBound()
	res.Settled = !v.Active()
	res.Elapsed = (time.Duration(res.Frames) * dt).String()
	res.Origin = Point{X: o.X, Y: o.Y}
	res.Bound = Point{X: -b.Right, Y: -b.Bottom}
	res.Visible = v.VisibleRange()
	res.Stats = v.Stats()
	return res, nil
}

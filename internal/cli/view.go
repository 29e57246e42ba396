package cli

import (
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/crosstab/internal/config"
	"github.com/theirongolddev/crosstab/internal/dataset"
	"github.com/theirongolddev/crosstab/internal/events"
	"github.com/theirongolddev/crosstab/internal/output"
	"github.com/theirongolddev/crosstab/internal/tui/crossview"
)

type viewOptions struct {
	path    string
	watch   bool
	logFile string
	trace   bool
	rows    int
	cols    int
}

func newViewCmd() *cobra.Command {
	var opts viewOptions
	cmd := &cobra.Command{
		Use:     "view [dataset]",
		Aliases: []string{"v"},
		Short:   "Open the interactive grid",
		Long: `Open a dataset in the interactive grid. Without a dataset a generated
grid is shown where titles carry their index and each cell holds row+col.

Datasets are YAML or TOML files:

  title: sales
  columns: [q1, q2, q3]
  rows:
    - label: east
      values: [10, 12, 9]

Examples:
  crosstab view
  crosstab view --rows 1000 --cols 200
  crosstab view sales.yaml --watch
  crosstab view sales.toml --trace --log /tmp/crosstab.log`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.path = args[0]
			}
			return runView(opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Reload the dataset when the file changes")
	cmd.Flags().StringVar(&opts.logFile, "log", "", "Write debug logs to this file")
	cmd.Flags().BoolVar(&opts.trace, "trace", false, "Record interaction events to the trace file")
	cmd.Flags().IntVar(&opts.rows, "rows", 30, "Rows of the generated grid")
	cmd.Flags().IntVar(&opts.cols, "cols", 30, "Columns of the generated grid")
	return cmd
}

func runView(opts viewOptions) error {
	fd := os.Stdout.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return output.NotTerminalError()
	}

	grid, err := loadGrid(opts.path, opts.rows, opts.cols)
	if err != nil {
		return err
	}

	// Anything printed to the terminal would tear the alt screen.
	if opts.logFile != "" {
		f, err := tea.LogToFile(config.ExpandHome(opts.logFile), "crosstab")
		if err != nil {
			return err
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	tracer, err := events.NewLogger(events.LoggerOptions{
		Path:          cfg.TracePath(),
		RetentionDays: cfg.Trace.RetentionDays,
		Enabled:       cfg.Trace.Enabled || opts.trace,
	})
	if err != nil {
		return err
	}
	defer tracer.Close()

	model := crossview.New(crossview.Options{
		Config: cfg,
		Grid:   grid,
		Path:   opts.path,
		Trace:  tracer,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if opts.watch && opts.path != "" {
		stop, err := dataset.Watch(opts.path, func(g *dataset.Grid, err error) {
			p.Send(crossview.DatasetMsg{Grid: g, Err: err})
		})
		if err != nil {
			return err
		}
		defer stop()
	}

	if stop, err := config.Watch(configPath(), func(c *config.Config) {
		p.Send(crossview.ConfigMsg{Config: c})
	}); err != nil {
		log.Printf("Warning: not watching config: %v", err)
	} else {
		defer stop()
	}

	_, err = p.Run()
	return err
}

// loadGrid reads the dataset at path, or generates a rows x cols grid when
// path is empty.
func loadGrid(path string, rows, cols int) (*dataset.Grid, error) {
	if path == "" {
		return dataset.Demo(rows, cols), nil
	}
	g, err := dataset.Load(path)
	if err != nil {
		return nil, output.DatasetError(path, err)
	}
	return g, nil
}

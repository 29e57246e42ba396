// Package cli implements the crosstab command line.
package cli

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/crosstab/internal/config"
	"github.com/theirongolddev/crosstab/internal/output"
)

var (
	cfgFile string
	cfg     *config.Config

	// Global JSON output flag - inherited by all subcommands
	jsonOutput bool

	// Build information - set by goreleaser via ldflags
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
	BuiltBy = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "crosstab",
	Short: "Virtualized two-dimensional grid viewer for the terminal",
	Long: `crosstab shows a large grid with pinned title bands and a corner
header. Only the visible cells are built; scrolling recycles them.

Drag with the mouse to scroll, release fast to fling, drag past an edge
for the rubber band and pull the left or top edge out to refresh.

Quick Start:
  crosstab view                       # 30x30 demo grid
  crosstab view sales.yaml --watch    # follow a dataset file
  crosstab snapshot sales.yaml        # print one frame
  crosstab simulate --vx -4000        # run a headless fling`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !needsConfig(cmd) {
			return nil
		}
		loaded, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

// needsConfig reports whether cmd reads the configuration.
func needsConfig(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "path", "init", "keys", "help":
		return false
	}
	return true
}

// loadConfig reads --config when given, otherwise the default path with a
// fallback to defaults when no file exists.
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		c, err := config.Load(config.ExpandHome(cfgFile))
		if err != nil {
			return nil, output.ConfigError(cfgFile, err)
		}
		return c, nil
	}
	path := config.DefaultPath()
	c, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, output.ConfigError(path, err)
	}
	return c, nil
}

// configPath is the file a config watcher should follow.
func configPath() string {
	if cfgFile != "" {
		return config.ExpandHome(cfgFile)
	}
	return config.DefaultPath()
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		output.WriteCLIError(os.Stdout, output.AsCLIError(err), IsJSONOutput())
		return err
	}
	return nil
}

// IsJSONOutput reports whether output should be JSON.
func IsJSONOutput() bool {
	return output.DetectFormat(jsonOutput) == output.FormatJSON
}

// goVersion returns the current Go runtime version.
func goVersion() string {
	return runtime.Version()
}

// goPlatform returns the OS/ARCH string.
func goPlatform() string {
	return fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
}

// VersionResponse is the JSON shape of the version command.
type VersionResponse struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuiltAt   string `json:"built_at"`
	BuiltBy   string `json:"built_by"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func newVersionCmd() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if IsJSONOutput() {
				return output.WriteJSON(w, VersionResponse{
					Version:   Version,
					Commit:    Commit,
					BuiltAt:   Date,
					BuiltBy:   BuiltBy,
					GoVersion: goVersion(),
					Platform:  goPlatform(),
				}, true)
			}

			if short {
				fmt.Fprintln(w, Version)
				return nil
			}
			fmt.Fprintf(w, "crosstab version %s\n", Version)
			fmt.Fprintf(w, "  commit:    %s\n", Commit)
			fmt.Fprintf(w, "  built:     %s\n", Date)
			fmt.Fprintf(w, "  builder:   %s\n", BuiltBy)
			fmt.Fprintf(w, "  go:        %s\n", goVersion())
			fmt.Fprintf(w, "  platform:  %s\n", goPlatform())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only version number")
	return cmd
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/crosstab/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (machine-readable)")

	rootCmd.AddCommand(
		newViewCmd(),
		newSnapshotCmd(),
		newSimulateCmd(),
		newConfigCmd(),
		newKeysCmd(),
		newVersionCmd(),
	)
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/crosstab/internal/config"
	"github.com/theirongolddev/crosstab/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefault(configPath())
			if err != nil {
				return err
			}
			if IsJSONOutput() {
				return output.WriteJSON(cmd.OutOrStdout(), map[string]string{"path": path}, true)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created config file: %s\n", path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print configuration file path",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), configPath())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration after defaults and environment overrides
(CROSSTAB_THEME, CROSSTAB_TRACE) have been applied.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if IsJSONOutput() {
				return output.WriteJSON(cmd.OutOrStdout(), cfg, true)
			}
			return config.Print(cfg, cmd.OutOrStdout())
		},
	})

	return cmd
}

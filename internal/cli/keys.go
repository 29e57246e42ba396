package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/crosstab/internal/output"
	"github.com/theirongolddev/crosstab/internal/tui/crossview"
	"github.com/theirongolddev/crosstab/internal/tui/theme"
)

func newKeysCmd() *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Show keyboard and mouse controls",
		RunE: func(cmd *cobra.Command, args []string) error {
			md := crossview.KeyReference(crossview.DefaultKeyMap)
			w := cmd.OutOrStdout()
			if raw || !output.IsTerminal() {
				fmt.Fprint(w, md)
				return nil
			}
			width, _, ok := output.TerminalSize()
			if !ok {
				width = 80
			}
			fmt.Fprintln(w, crossview.RenderMarkdown(md, width, theme.Current()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the markdown source")
	return cmd
}

package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "List style presets (non-interactive)",
	RunE: func(cmd *cobra.Command, args []string) error {
		styles, err := cfg.StyleRegistry()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSOURCE\tFILTER")
		fmt.Fprintln(w, "────\t──────\t──────")
		for _, name := range styles.Names() {
			origin := "built-in"
			if _, ok := cfg.Styles[name]; ok {
				origin = "config"
			}
			marker := ""
			if name == cfg.Playback.Style {
				marker = " *"
			}
			fmt.Fprintf(w, "%s%s\t%s\t%s\n", name, marker, origin, styles.Lookup(name))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(stylesCmd)
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/benchtheme/internal/css"
)

var showCmd = &cobra.Command{
	Use:   "show <theme>",
	Short: "Show a theme's colors",
	Long: `Show every color in a theme as a swatch, followed by the mapped fields the
theme does not define. Applying a theme with missing fields leaves those
colors unchanged.

The theme can be a file name in the themes directory, a path, or the short
name of a bundled or installed theme (e.g. seajay).`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	doc, err := service.ResolveTheme(args[0])
	if err != nil {
		return err
	}

	missing := css.MissingFields(doc, cfg.Rules())
	return formatter().Theme(cmd.OutOrStdout(), doc, missing)
}

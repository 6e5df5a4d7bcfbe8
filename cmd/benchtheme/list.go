package main

import (
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List available themes",
	Long: `List the themes in the installation's themes directory followed by the
bundled themes that are not overridden there.

Files that fail to parse are listed with the error so they can be fixed.

Examples:
  # List themes
  benchtheme list

  # Theme file names only
  benchtheme list -o ids

  # Custom format
  benchtheme list --template '{{.Theme.File}}: {{.Theme.Name}}'`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	themes, err := service.ListThemes()
	if err != nil {
		return err
	}
	return formatter().Themes(cmd.OutOrStdout(), themes)
}

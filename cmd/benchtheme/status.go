package main

import (
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the applied theme and latest backup",
	Long: `Show the installation root, the theme named by the static version suffix
(the default theme when there is no suffix) and the most recent backup.

Use -o ids to print just the theme short name, for scripts and status bars.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	status, err := service.Status()
	if err != nil {
		return err
	}
	return formatter().Status(cmd.OutOrStdout(), status)
}

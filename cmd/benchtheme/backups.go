package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/benchtheme/internal/backup"
)

var backupsOpts struct {
	limit int
	since string
	theme string
}

var backupsCmd = &cobra.Command{
	Use:     "backups",
	Aliases: []string{"history"},
	Short:   "List backups, newest first",
	Long: `List the backups in the backups directory, newest first. The first entry
is the one restored by 'benchtheme restore latest'.

Examples:
  # List backups
  benchtheme backups

  # The five most recent, as JSON
  benchtheme backups -n 5 -o json

  # Backups from the last week taken before applying seajay
  benchtheme backups --since 1w --theme seajay

  # Restore the second most recent backup
  benchtheme restore $(benchtheme backups -o ids | sed -n 2p)`,
	Args: cobra.NoArgs,
	RunE: runBackups,
}

func init() {
	rootCmd.AddCommand(backupsCmd)

	backupsCmd.Flags().IntVarP(&backupsOpts.limit, "limit", "n", 0,
		"Maximum number of backups to show (0=unlimited)")
	backupsCmd.Flags().StringVar(&backupsOpts.since, "since", "",
		"Show backups from the last duration (e.g., 1h, 7d, 1w)")
	backupsCmd.Flags().StringVar(&backupsOpts.theme, "theme", "",
		"Show backups taken before applying this theme (short name)")
}

func runBackups(cmd *cobra.Command, args []string) error {
	since, err := backup.ParseDuration(backupsOpts.since)
	if err != nil {
		return err
	}

	records := backup.Filter(service.ListBackups(), backup.FilterOptions{
		Since: since,
		Theme: backupsOpts.theme,
		Limit: backupsOpts.limit,
	}, time.Now())
	return formatter().Backups(cmd.OutOrStdout(), records)
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/benchtheme/internal/backup"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up the live stylesheets and version file",
	Long: `Copy the live stylesheets and the version file into a new timestamped
directory (backup_YYYYMMDD_HHMMSS) under the backups directory.

apply takes a backup automatically unless --no-backup is given.`,
	Args: cobra.NoArgs,
	RunE: runBackup,
}

func init() {
	rootCmd.AddCommand(backupCmd)
}

func runBackup(cmd *cobra.Command, args []string) error {
	record, err := service.Backup()
	if err != nil {
		return err
	}
	return formatter().Backups(cmd.OutOrStdout(), []backup.Record{record})
}

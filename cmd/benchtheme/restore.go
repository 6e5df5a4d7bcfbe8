package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/benchtheme/internal/backup"
)

var restoreCmd = &cobra.Command{
	Use:   "restore [backup|index|latest]",
	Short: "Restore the live files from a backup",
	Long: `Copy every file in a backup over the live stylesheets and version file.

Without an argument the most recent backup is restored. A number selects the
Nth most recent backup as listed by 'benchtheme backups'. The current state
is not backed up first; run 'benchtheme backup' beforehand to keep it.

Examples:
  # Restore the most recent backup
  benchtheme restore

  # Restore a specific backup
  benchtheme restore backup_20250314_093000

  # Restore the second most recent backup
  benchtheme restore 2`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRestore,
}

func init() {
	rootCmd.AddCommand(restoreCmd)
}

func runRestore(cmd *cobra.Command, args []string) error {
	id := backup.Latest
	if len(args) > 0 {
		id = args[0]
	}

	record, err := service.Restore(id)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Restored %s: %s\n", record.ID, strings.Join(record.Files, ", "))
	return err
}

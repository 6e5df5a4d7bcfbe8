package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/benchtheme/internal/backup"
)

var pruneOpts struct {
	olderThan string
	keep      int
	dryRun    bool
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old backups",
	Long: `Remove old backup directories.

Examples:
  # Remove backups older than 30 days
  benchtheme prune --older-than 30d

  # Keep only the 10 most recent backups
  benchtheme prune --keep 10

  # Preview what would be removed (dry run)
  benchtheme prune --older-than 2w --dry-run`,
	Args: cobra.NoArgs,
	RunE: runPrune,
}

func init() {
	rootCmd.AddCommand(pruneCmd)

	pruneCmd.Flags().StringVar(&pruneOpts.olderThan, "older-than", "",
		"Remove backups older than this duration (e.g., 48h, 7d, 1w)")
	pruneCmd.Flags().IntVar(&pruneOpts.keep, "keep", 0,
		"Keep only the N most recent backups (0=unlimited)")
	pruneCmd.Flags().BoolVar(&pruneOpts.dryRun, "dry-run", false,
		"Show what would be removed without actually removing")
}

func runPrune(cmd *cobra.Command, args []string) error {
	if pruneOpts.olderThan == "" && pruneOpts.keep == 0 {
		return fmt.Errorf("specify --older-than or --keep")
	}

	olderThan, err := backup.ParseDuration(pruneOpts.olderThan)
	if err != nil {
		return err
	}

	removed, err := service.PruneBackups(backup.PruneOptions{
		OlderThan: olderThan,
		Keep:      pruneOpts.keep,
		DryRun:    pruneOpts.dryRun,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(removed) == 0 {
		_, err := fmt.Fprintln(out, "No backups to remove")
		return err
	}

	if pruneOpts.dryRun {
		fmt.Fprintf(out, "Would remove %d backup(s):\n", len(removed))
	} else {
		fmt.Fprintf(out, "Removed %d backup(s):\n", len(removed))
	}
	opts := formatterOptions()
	opts.ShowIndex = false
	return newFormatter(opts).Backups(out, removed)
}

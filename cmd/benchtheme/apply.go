package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/benchtheme/internal/apply"
)

var applyOpts struct {
	noBackup bool
	dryRun   bool
	noDiff   bool
}

var applyCmd = &cobra.Command{
	Use:   "apply <theme>",
	Short: "Apply a theme to the installation",
	Long: `Apply a theme: back up the live files, rewrite the mapped colors in the
stylesheets and update OPENBENCH_STATIC_VERSION.

Colors the theme does not define are left unchanged and reported as warnings.
If writing fails part way, the live files are left as they are; restore the
backup printed in the error to recover.

Examples:
  # Apply a bundled theme
  benchtheme apply seajay

  # Apply a theme file from the themes directory
  benchtheme apply theme_mine.json

  # Preview the CSS changes without writing anything
  benchtheme apply navy_blue --dry-run

  # Return to the stock colors
  benchtheme apply original`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)

	applyCmd.Flags().BoolVar(&applyOpts.noBackup, "no-backup", false,
		"Do not back up the live files first")
	applyCmd.Flags().BoolVarP(&applyOpts.dryRun, "dry-run", "n", false,
		"Show what would change without writing")
	applyCmd.Flags().BoolVar(&applyOpts.noDiff, "no-diff", false,
		"Do not print diffs in dry-run mode")
}

func runApply(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := service.Apply(ctx, args[0], apply.Options{
		Backup: !applyOpts.noBackup,
		DryRun: applyOpts.dryRun,
	})
	if err != nil {
		if result != nil && result.Backup != nil {
			return fmt.Errorf("%w\nthe previous state is saved in %s; run 'benchtheme restore %s' to recover",
				err, result.Backup.Path, result.Backup.ID)
		}
		return err
	}

	f := formatter()
	if applyOpts.noDiff {
		opts := formatterOptions()
		opts.ShowDiff = false
		f = newFormatter(opts)
	}
	return f.Applied(cmd.OutOrStdout(), result)
}

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

var watchCmd = &cobra.Command{
	Use:   "watch <theme>",
	Short: "Re-apply a theme file whenever it changes",
	Long: `Apply a theme file and re-apply it each time the file is saved, for
editing a theme against a running OpenBench. No backups are taken while
watching; run 'benchtheme backup' first.

Only theme files on disk can be watched. Use 'benchtheme init' to copy the
bundled themes into the themes directory.

Press Ctrl+C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := formatterOptions()
	opts.ShowDiff = false
	f := newFormatter(opts)
	out := cmd.OutOrStdout()

	err := service.Watch(ctx, args[0], func(result *apply.Result, err error) {
		if err != nil {
			if ctx.Err() == nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			}
			return
		}
		if err := f.Applied(out, result); err != nil {
			logger.Warn("failed to write output", "error", err)
		}
	})
	if err != nil {
		return err
	}

	logger.Debug("watch stopped")
	return nil
}

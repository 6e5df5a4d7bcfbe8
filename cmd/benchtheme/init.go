package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var initOpts struct {
	force bool
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Copy the bundled themes into the themes directory",
	Long: `Write the bundled themes into the installation's themes directory so they
can be edited, watched or used as a starting point for new themes.

Existing files are kept unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVarP(&initOpts.force, "force", "f", false,
		"Overwrite existing theme files")
}

func runInit(cmd *cobra.Command, args []string) error {
	written, err := service.ExportThemes(initOpts.force)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(written) == 0 {
		_, err := fmt.Fprintf(out, "Themes already present in %s (use --force to overwrite)\n", service.Layout().ThemesDir)
		return err
	}
	for _, path := range written {
		if _, err := fmt.Fprintf(out, "Wrote %s\n", filepath.Base(path)); err != nil {
			return err
		}
	}
	return nil
}

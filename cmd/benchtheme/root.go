// Package main provides the CLI entrypoint for benchtheme.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/benchtheme/internal/adapter/output"
	"github.com/jmylchreest/benchtheme/internal/apply"
	"github.com/jmylchreest/benchtheme/internal/config"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// annotationNoInstall marks commands that run without an OpenBench installation.
const annotationNoInstall = "benchtheme/no-install"

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose    bool
		path       string
		configPath string
		output     string
		template   string
		showPath   bool
	}
	logger *slog.Logger

	// service is bound to the detected installation
	service *apply.Service
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "benchtheme",
	Short: "Color theme manager for OpenBench",
	Long: `benchtheme applies color themes to an OpenBench installation.

Applying a theme rewrites the mapped colors in OpenBench's stylesheets and
bumps OPENBENCH_STATIC_VERSION so browsers fetch the new CSS. The live files
are backed up first and can be restored at any time.

The installation root is taken from --path, then paths.root in the config
file, then the working directory and the directory of the executable.`,
	Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Setup logging
		setupLogger()

		if !slices.Contains(output.FormatTypes, output.FormatType(globalOpts.output)) {
			return fmt.Errorf("unknown output format %q (want plain, json, yaml or ids)", globalOpts.output)
		}

		// Load configuration
		var err error
		cfg, err = config.LoadConfig(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if cmd.Annotations[annotationNoInstall] == "true" {
			return nil
		}

		explicit := globalOpts.path
		if explicit == "" {
			explicit = cfg.Paths.Root
		}
		root, err := config.DetectRoot(explicit)
		if err != nil {
			return fmt.Errorf("%w; run from the OpenBench directory or pass --path", err)
		}

		layout := cfg.Resolve(root)
		if err := layout.EnsureDirs(); err != nil {
			return fmt.Errorf("failed to create theme directories: %w", err)
		}
		logger.Debug("using installation", "root", layout.Root, "static", layout.StaticDir, "backups", layout.BackupsDir)

		service = apply.NewService(layout, cfg, logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&globalOpts.path, "path", "p", "",
		"Path to the OpenBench installation (default: auto-detect)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/benchtheme/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&globalOpts.output, "output", "o", string(output.FormatPlain),
		"Output format (plain, json, yaml, ids)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.template, "template", "",
		"Custom Go template for plain list output")
	rootCmd.PersistentFlags().BoolVar(&globalOpts.showPath, "show-path", false,
		"Include file paths in plain output")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, opts)
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// formatterOptions returns the formatter options set by the global flags.
func formatterOptions() output.FormatterOptions {
	opts := output.DefaultFormatterOptions()
	opts.Template = globalOpts.template
	opts.ShowPath = globalOpts.showPath
	return opts
}

// newFormatter returns the formatter selected by --output.
func newFormatter(opts output.FormatterOptions) output.Formatter {
	return output.NewFormatter(output.FormatType(globalOpts.output), opts)
}

// formatter returns the formatter selected by --output with default options.
func formatter() output.Formatter {
	return newFormatter(formatterOptions())
}

package main

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/benchtheme/internal/config"
)

var configOpts struct {
	save bool
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the effective configuration as TOML: the defaults merged with the
config file, if one exists.

With --save the configuration is written to the config file, which is a
convenient way to create one to edit. Extra color mappings go in [[css.rules]]:

  [[css.rules]]
  category = "buttons"
  field = "btn_green"
  file = "style.css"
  selector = ".btn-green"
  property = "background-color"`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationNoInstall: "true"},
	RunE:        runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().BoolVar(&configOpts.save, "save", false,
		"Write the configuration to the config file")
}

func runConfig(cmd *cobra.Command, args []string) error {
	if configOpts.save {
		path := globalOpts.configPath
		if path == "" {
			path = config.ConfigPath()
		}
		if err := cfg.Save(path); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

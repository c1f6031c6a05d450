// ABOUTME: Config command
// ABOUTME: Prints the effective configuration after file and environment overrides

package main

import (
	"fmt"

	"github.com/harper/slm/internal/config"
	"github.com/spf13/cobra"
)

var configPathOnly bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Print the configuration in effect as YAML, after defaults, the config
file and SLM_* environment variables are applied. The output is a valid
config file.

Examples:
  slm config > ~/.config/slm/config.yaml
  SLM_MODEL_LEVELS_PRO_LENIENCY=5 slm config
  slm config --path`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.GetConfigPath()
		}
		if configPathOnly {
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		}

		data, err := cfg.YAML()
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", path, data)
		return nil
	},
}

func init() {
	configCmd.Flags().BoolVar(&configPathOnly, "path", false, "only print the config file path")

	rootCmd.AddCommand(configCmd)
}

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/buker/convey/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View convey configuration settings.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		loader, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return showConfig(cmd.OutOrStdout(), loader.ConfigFile(), loader.AllSettings())
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show config file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		loader, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		path := loader.ConfigFile()
		if path == "" {
			fmt.Fprintln(out, "No config file found. Create one at:")
			fmt.Fprintf(out, "  %s (global)\n", config.DefaultConfigPath())
			fmt.Fprintln(out, "  ./.convey.yaml (project)")
		} else {
			fmt.Fprintf(out, "Config file: %s\n", path)
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
}

// showConfig prints the merged settings as YAML with secrets masked.
func showConfig(out io.Writer, file string, settings map[string]any) error {
	if file == "" {
		file = "none (defaults and environment)"
	}
	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out, "----------------------")
	fmt.Fprintf(out, "# config file: %s\n", file)

	maskSecrets(settings)
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}
	_, err = out.Write(data)
	return err
}

// secretKeys are masked wherever they appear in the settings tree.
var secretKeys = map[string]bool{"api_key": true}

func maskSecrets(settings map[string]any) {
	for k, v := range settings {
		switch val := v.(type) {
		case map[string]any:
			maskSecrets(val)
		case string:
			if secretKeys[k] && val != "" {
				settings[k] = "********"
			}
		}
	}
}

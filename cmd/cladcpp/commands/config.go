package commands

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/clad/config"
	"github.com/teranos/clad/errors"
)

// ConfigCmd manages cladcpp.toml
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage cladcpp configuration",
	Long: `Create and inspect the project configuration.

Examples:
  cladcpp config init                  # Write ./cladcpp.toml
  cladcpp config show                  # Effective configuration as TOML
  cladcpp config show --format yaml`,
}

var configInitCmd = &cobra.Command{
	Use:         "init [path]",
	Short:       "Write a starter cladcpp.toml",
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{skipConfig: "true"},
	RunE:        runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long:  "Display the configuration after defaults, project file, environment and flags are applied",
	RunE:  runConfigShow,
}

var configFormat string

func init() {
	configShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, yaml")

	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configShowCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.ProjectFileName
	if len(args) == 1 {
		path = args[0]
	}
	if err := config.WriteFile(path, config.Starter()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	switch configFormat {
	case "toml":
		data, err = toml.Marshal(cfg)
	case "yaml":
		data, err = yaml.Marshal(cfg)
	default:
		return errors.Newf("unsupported format: %s (supported: toml, yaml)", configFormat)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to marshal config to %s", configFormat)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "# cladcpp configuration\n%s", data)
	return nil
}

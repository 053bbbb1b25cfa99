package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/ntstm/cmd/ntstm/cmdutil"
	"github.com/marmos91/ntstm/internal/cli/output"
	"github.com/marmos91/ntstm/internal/cli/prompt"
	"github.com/marmos91/ntstm/pkg/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file with default values",
	Long: `Create a configuration file with default values.

By default, the configuration file is created at $XDG_CONFIG_HOME/ntstm/config.yaml.
Use --config to specify a custom path. An existing file is only replaced
after confirmation on a terminal, or with --force.

Examples:
  # Initialize with default location
  ntstm config init

  # Initialize with custom path
  ntstm config init --config /etc/ntstm/config.yaml

  # Overwrite an existing config without asking
  ntstm config init --force`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{cmdutil.AnnotationBootstrap: "true"},
	RunE:        runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Force overwrite existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := cmdutil.Flags.ConfigFile
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	force := initForce
	if _, err := os.Stat(configPath); err == nil && !force {
		ok, err := prompt.ConfirmOverwrite(configPath, false)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("configuration file already exists at %s (use --force to overwrite)", configPath)
		}
		force = true
	}

	if err := config.InitConfigToPath(configPath, force); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	printer := cmdutil.NewPrinter(cmd.OutOrStdout(), output.FormatTable)
	printer.Success("Configuration file created at: %s", configPath)
	return nil
}

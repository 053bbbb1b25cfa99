// Package commands implements the ntstm command-line interface.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/marmos91/ntstm/cmd/ntstm/cmdutil"
	configcmd "github.com/marmos91/ntstm/cmd/ntstm/commands/config"
	"github.com/marmos91/ntstm/pkg/stream"

	// Import prometheus metrics to register init() functions
	_ "github.com/marmos91/ntstm/pkg/metrics/prometheus"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ntstm",
	Short: "ntstm - full-transfer streams and record logs",
	Long: `ntstm moves bytes with all-or-nothing stream transfers.

It copies exact byte counts between descriptors, and reads and writes an
append-only record log whose frames are encoded through the same streams.

Use "ntstm [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cmdutil.Version = Version
		return cmdutil.Start(cmd)
	},
}

// Execute runs the root command and tears down the command session,
// whatever the outcome.
func Execute() error {
	err := rootCmd.Execute()
	cmdutil.Finish(err)
	return err
}

// GetRootCmd returns the root command for testing purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

// ExitCode maps a command error to the process exit status. Stream
// failures exit with 10 plus their kind so scripts can tell them apart.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if kind, ok := stream.KindOf(err); ok && kind < stream.KindMax {
		return 10 + int(kind)
	}
	return 1
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cmdutil.Flags.ConfigFile, "config", "", "config file (default: $XDG_CONFIG_HOME/ntstm/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&cmdutil.Flags.NoColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configcmd.Cmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

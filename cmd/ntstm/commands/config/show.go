package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/ntstm/cmd/ntstm/cmdutil"
	"github.com/marmos91/ntstm/internal/cli/output"
	"github.com/marmos91/ntstm/pkg/config"
)

var showFormat = output.FormatYAML

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	Long: `Display the effective ntstm configuration: the file merged with
environment overrides and defaults.

By default outputs YAML format. Use --output to change format.

Examples:
  # Show as YAML
  ntstm config show

  # Show as a flat table
  ntstm config show -o table

  # Show a specific config file as JSON
  ntstm config show --config /etc/ntstm/config.yaml -o json`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

func init() {
	showCmd.Flags().VarP(&showFormat, "output", "o", "Output format (table|json|yaml)")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, _ := cmdutil.Setup()
	printer := cmdutil.NewPrinter(cmd.OutOrStdout(), showFormat)
	if printer.Format() == output.FormatTable {
		return printer.Print(settingsTable(cfg))
	}
	return printer.Print(cfg)
}

// settingsTable flattens cfg into one row per setting.
func settingsTable(cfg *config.Config) *output.TableData {
	table := output.NewTableData("Setting", "Value")
	add := func(key string, value any) {
		table.AddRow(key, fmt.Sprint(value))
	}

	add("logging.level", cfg.Logging.Level)
	add("logging.format", cfg.Logging.Format)
	add("logging.output", cfg.Logging.Output)
	add("telemetry.enabled", cfg.Telemetry.Enabled)
	add("telemetry.endpoint", cfg.Telemetry.Endpoint)
	add("telemetry.insecure", cfg.Telemetry.Insecure)
	add("telemetry.sample_rate", cfg.Telemetry.SampleRate)
	add("metrics.enabled", cfg.Metrics.Enabled)
	add("metrics.port", cfg.Metrics.Port)
	add("buffer.growth_shift", cfg.Buffer.GrowthShift)
	add("buffer.max_size", cfg.Buffer.MaxSize)
	add("buffer.chunk_size", cfg.Buffer.ChunkSize)
	add("wal.path", cfg.WAL.Path)
	add("wal.sync_on_append", cfg.WAL.SyncOnAppend)
	return table
}

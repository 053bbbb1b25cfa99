//go:build unix

// Package wal implements the write-ahead log subcommands.
package wal

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/ntstm/cmd/ntstm/cmdutil"
	"github.com/marmos91/ntstm/pkg/config"
	"github.com/marmos91/ntstm/pkg/wal"
)

// Cmd is the wal subcommand.
var Cmd = &cobra.Command{
	Use:   "wal",
	Short: "Write-ahead log operations",
	Long: `Append to and inspect an ntstm write-ahead log.

The log path defaults to wal.path from the configuration
($XDG_DATA_HOME/ntstm/ntstm.wal) and can be overridden with --path.

Subcommands:
  append  Append a put or delete entry
  dump    Print the entries of a log`,
}

var walPath string

func init() {
	Cmd.PersistentFlags().StringVar(&walPath, "path", "", "Log file path (default: wal.path)")

	Cmd.AddCommand(appendCmd)
	Cmd.AddCommand(dumpCmd)
}

// resolvePath returns --path or the configured log path.
func resolvePath(cfg *config.Config) string {
	if walPath != "" {
		return walPath
	}
	return cfg.WAL.Path
}

// openLog opens the log at path with the configured options. Unless
// create is set the file must already exist.
func openLog(cfg *config.Config, path string, create bool) (*wal.Log, error) {
	if !create {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("open log: %w", err)
		}
	}
	return wal.Open(path,
		wal.WithSyncOnAppend(cfg.WAL.SyncOnAppend),
		wal.WithOutputOptions(cmdutil.OutputOptions(cfg)...),
	)
}

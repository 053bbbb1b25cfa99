//go:build unix

package wal

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/ntstm/cmd/ntstm/cmdutil"
	"github.com/marmos91/ntstm/internal/cli/output"
	"github.com/marmos91/ntstm/pkg/wal"
)

var (
	appendKey    string
	appendValue  string
	appendDelete bool
)

var appendCmd = &cobra.Command{
	Use:   "append",
	Short: "Append a put or delete entry",
	Long: `Append one entry to the log, creating the log if needed.

A torn tail left by an interrupted append is truncated before the new
entry is written.

Examples:
  # Store a value
  ntstm wal append --key users/42 --value alice

  # Remove a key
  ntstm wal append --key users/42 --delete

  # Use a specific log
  ntstm wal append --path /tmp/test.wal --key k --value v`,
	Args: cobra.NoArgs,
	RunE: runAppend,
}

func init() {
	appendCmd.Flags().StringVar(&appendKey, "key", "", "Entry key")
	appendCmd.Flags().StringVar(&appendValue, "value", "", "Value to store under the key")
	appendCmd.Flags().BoolVar(&appendDelete, "delete", false, "Append a delete entry for the key")
	_ = appendCmd.MarkFlagRequired("key")
	appendCmd.MarkFlagsMutuallyExclusive("value", "delete")
	appendCmd.MarkFlagsOneRequired("value", "delete")
}

func runAppend(cmd *cobra.Command, args []string) error {
	cfg, ctx := cmdutil.Setup()
	path := resolvePath(cfg)

	entry := wal.NewPut(appendKey, []byte(appendValue))
	if appendDelete {
		entry = wal.NewDelete(appendKey)
	}

	walLog, err := openLog(cfg, path, true)
	if err != nil {
		return err
	}
	defer walLog.Close()

	if _, err := walLog.Recover(ctx); err != nil {
		return fmt.Errorf("recover %s: %w", path, err)
	}
	if err := walLog.Append(ctx, entry); err != nil {
		return fmt.Errorf("append to %s: %w", path, err)
	}
	if err := walLog.Close(); err != nil {
		return err
	}

	printer := cmdutil.NewPrinter(cmd.OutOrStdout(), output.FormatTable)
	printer.Success("Appended %s %s (%s)", entry.Kind, entry.Key, entry.ID)
	return nil
}

//go:build unix

package commands

import (
	walcmd "github.com/marmos91/ntstm/cmd/ntstm/commands/wal"
)

// The pipe and wal commands drive raw descriptors and exist on unix only.
func init() {
	rootCmd.AddCommand(pipeCmd)
	rootCmd.AddCommand(walcmd.Cmd)
}

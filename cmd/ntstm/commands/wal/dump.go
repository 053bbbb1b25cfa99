//go:build unix

package wal

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/marmos91/ntstm/cmd/ntstm/cmdutil"
	"github.com/marmos91/ntstm/internal/cli/output"
	"github.com/marmos91/ntstm/internal/cli/timeutil"
	"github.com/marmos91/ntstm/pkg/wal"
)

// maxTableValue bounds the value column of the table output.
const maxTableValue = 40

var (
	dumpAll    bool
	dumpFormat = output.FormatTable
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the entries of a log",
	Long: `Print the entries of a log without modifying it.

By default only live entries are shown: the latest value of every key
that was not deleted. Use --all to list every frame in file order.

Examples:
  # Live entries as a table
  ntstm wal dump

  # Every frame as JSON
  ntstm wal dump --all -o json`,
	Args: cobra.NoArgs,
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().BoolVar(&dumpAll, "all", false, "Show every frame, including deletes and overwritten puts")
	dumpCmd.Flags().VarP(&dumpFormat, "output", "o", "Output format (table|json|yaml)")
}

func runDump(cmd *cobra.Command, args []string) error {
	cfg, ctx := cmdutil.Setup()
	path := resolvePath(cfg)

	walLog, err := openLog(cfg, path, false)
	if err != nil {
		return err
	}
	defer walLog.Close()

	var entries []wal.Entry
	err = walLog.Replay(ctx, func(e wal.Entry) error {
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		return fmt.Errorf("replay %s: %w", path, err)
	}
	if !dumpAll {
		entries = wal.Fold(entries)
	}

	printer := cmdutil.NewPrinter(cmd.OutOrStdout(), dumpFormat)
	return printer.Print(newEntryList(entries))
}

// entryView is the printable form of an entry.
type entryView struct {
	ID        string    `json:"id" yaml:"id"`
	Kind      string    `json:"kind" yaml:"kind"`
	Key       string    `json:"key" yaml:"key"`
	Size      int       `json:"size" yaml:"size"`
	Value     string    `json:"value,omitempty" yaml:"value,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// entryList renders as a table, or as a plain list in JSON and YAML.
type entryList []entryView

func newEntryList(entries []wal.Entry) entryList {
	list := make(entryList, len(entries))
	for i, e := range entries {
		list[i] = entryView{
			ID:        e.ID.String(),
			Kind:      e.Kind.String(),
			Key:       e.Key,
			Size:      len(e.Data),
			Value:     formatValue(e.Data),
			CreatedAt: e.CreatedAt.UTC(),
		}
	}
	return list
}

// Headers implements output.TableRenderer.
func (l entryList) Headers() []string {
	return []string{"Key", "Kind", "Size", "Value", "Created", "ID"}
}

// Rows implements output.TableRenderer.
func (l entryList) Rows() [][]string {
	rows := make([][]string, len(l))
	for i, v := range l {
		rows[i] = []string{
			v.Key,
			v.Kind,
			strconv.Itoa(v.Size),
			truncate(v.Value, maxTableValue),
			timeutil.FormatTime(v.CreatedAt),
			v.ID,
		}
	}
	return rows
}

// formatValue returns data as text when it is valid UTF-8 and as
// 0x-prefixed hex otherwise.
func formatValue(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	if utf8.Valid(data) {
		return string(data)
	}
	return "0x" + hex.EncodeToString(data)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

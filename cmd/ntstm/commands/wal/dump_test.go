//go:build unix

package wal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/ntstm/internal/cli/timeutil"
	"github.com/marmos91/ntstm/pkg/wal"
)

func TestEntryListRows(t *testing.T) {
	put := wal.NewPut("users/1", []byte("alice"))
	put.CreatedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	del := wal.NewDelete("users/2")
	del.CreatedAt = put.CreatedAt

	list := newEntryList([]wal.Entry{*put, *del})
	rows := list.Rows()

	require.Len(t, rows, 2)
	assert.Len(t, list.Headers(), len(rows[0]))
	assert.Equal(t, []string{"users/1", "put", "5", "alice", timeutil.FormatTime(put.CreatedAt), put.ID.String()}, rows[0])
	assert.Equal(t, []string{"users/2", "delete", "0", "", timeutil.FormatTime(del.CreatedAt), del.ID.String()}, rows[1])
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "", formatValue(nil))
	assert.Equal(t, "héllo", formatValue([]byte("héllo")))
	assert.Equal(t, "0xff00", formatValue([]byte{0xff, 0x00}))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate(strings.Repeat("abcdefghij", 3), 10))
	assert.Equal(t, "ééé...", truncate(strings.Repeat("é", 20), 6))
}

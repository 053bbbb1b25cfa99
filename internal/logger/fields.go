package logger

import (
	"log/slog"

	"github.com/marmos91/ntstm/pkg/stream"
)

// Standard field keys for structured logging.
// Use these keys consistently across all log statements so output can be
// aggregated and queried.
const (
	// ========================================================================
	// Distributed Tracing & Invocation
	// ========================================================================
	KeyTraceID = "trace_id" // OpenTelemetry trace ID
	KeySpanID  = "span_id"  // OpenTelemetry span ID
	KeyRunID   = "run_id"   // Unique ID of one CLI invocation
	KeyCommand = "command"  // Command path: pipe, wal append, etc.

	// ========================================================================
	// Stream Transfers
	// ========================================================================
	KeyOperation   = "operation"    // Transfer direction: read, write
	KeyFd          = "fd"           // Descriptor wrapped by a FileStream
	KeyBytes       = "bytes"        // Bytes moved
	KeyCount       = "count"        // Bytes requested
	KeyChunkSize   = "chunk_size"   // Size of one full transfer
	KeyGrowthShift = "growth_shift" // OutputBuffer growth shift
	KeyCapacity    = "capacity"     // OutputBuffer reserved capacity

	// ========================================================================
	// Write-ahead Log
	// ========================================================================
	KeyPath    = "path"     // Log file path
	KeyKey     = "key"      // Entry key
	KeyEntryID = "entry_id" // Entry UUID
	KeyKind    = "kind"     // Entry kind: put, delete
	KeyEntries = "entries"  // Number of entries
	KeyOffset  = "offset"   // Byte offset within the log file

	// ========================================================================
	// Operation Metadata
	// ========================================================================
	KeyDurationMs = "duration_ms" // Operation duration in milliseconds
	KeyError      = "error"       // Error message
	KeyErrorKind  = "error_kind"  // Stream error kind: StreamClosed, Permission, etc.
	KeyFormat     = "format"      // Output format: table, json, yaml
)

// ============================================================================
// Tracing & Invocation
// ============================================================================

// TraceID returns a slog.Attr for the trace ID
func TraceID(id string) slog.Attr {
	return slog.String(KeyTraceID, id)
}

// SpanID returns a slog.Attr for the span ID
func SpanID(id string) slog.Attr {
	return slog.String(KeySpanID, id)
}

// RunID returns a slog.Attr for the invocation ID
func RunID(id string) slog.Attr {
	return slog.String(KeyRunID, id)
}

// Command returns a slog.Attr for the command path
func Command(name string) slog.Attr {
	return slog.String(KeyCommand, name)
}

// ============================================================================
// Stream Transfers
// ============================================================================

func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

func Fd(fd int) slog.Attr {
	return slog.Int(KeyFd, fd)
}

func Bytes(n int64) slog.Attr {
	return slog.Int64(KeyBytes, n)
}

func Count(n int64) slog.Attr {
	return slog.Int64(KeyCount, n)
}

func ChunkSize(n int) slog.Attr {
	return slog.Int(KeyChunkSize, n)
}

func GrowthShift(shift uint) slog.Attr {
	return slog.Uint64(KeyGrowthShift, uint64(shift))
}

func Capacity(n int) slog.Attr {
	return slog.Int(KeyCapacity, n)
}

// ============================================================================
// Write-ahead Log
// ============================================================================

func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

func Key(k string) slog.Attr {
	return slog.String(KeyKey, k)
}

func EntryID(id string) slog.Attr {
	return slog.String(KeyEntryID, id)
}

func Kind(k string) slog.Attr {
	return slog.String(KeyKind, k)
}

func Entries(n int) slog.Attr {
	return slog.Int(KeyEntries, n)
}

func Offset(off int64) slog.Attr {
	return slog.Int64(KeyOffset, off)
}

// ============================================================================
// Operation Metadata
// ============================================================================

// DurationMs returns a slog.Attr for duration in milliseconds
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog.Attr for an error. Nil errors are logged as an
// empty string.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

// ErrorKind returns a slog.Attr naming the stream failure kind of err,
// or "none" when err carries no kind.
func ErrorKind(err error) slog.Attr {
	if kind, ok := stream.KindOf(err); ok {
		return slog.String(KeyErrorKind, kind.String())
	}
	return slog.String(KeyErrorKind, "none")
}

func Format(f string) slog.Attr {
	return slog.String(KeyFormat, f)
}

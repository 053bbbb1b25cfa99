package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/marmos91/ntstm/pkg/stream"
)

// Attribute keys for ntstm spans.
const (
	AttrCommand      = "ntstm.command"
	AttrRunID        = "ntstm.run_id"
	AttrOperation    = "stream.operation"
	AttrBytes        = "stream.bytes"
	AttrChunkSize    = "stream.chunk_size"
	AttrErrorKind    = "stream.error_kind"
	AttrWALPath      = "wal.path"
	AttrWALKey       = "wal.key"
	AttrWALEntries   = "wal.entries"
	AttrWALEntryID   = "wal.entry_id"
	AttrWALEntryKind = "wal.entry_kind"
)

// Span name prefixes
const (
	SpanCommand = "cmd"
	SpanWAL     = "wal"
)

func Command(name string) attribute.KeyValue {
	return attribute.String(AttrCommand, name)
}

func RunID(id string) attribute.KeyValue {
	return attribute.String(AttrRunID, id)
}

func Operation(op string) attribute.KeyValue {
	return attribute.String(AttrOperation, op)
}

func Bytes(n int64) attribute.KeyValue {
	return attribute.Int64(AttrBytes, n)
}

func ChunkSize(n int) attribute.KeyValue {
	return attribute.Int(AttrChunkSize, n)
}

// ErrorKind returns the stream failure kind of err as an attribute, or
// "none" when err carries no kind.
func ErrorKind(err error) attribute.KeyValue {
	if kind, ok := stream.KindOf(err); ok {
		return attribute.String(AttrErrorKind, kind.String())
	}
	return attribute.String(AttrErrorKind, "none")
}

func WALPath(path string) attribute.KeyValue {
	return attribute.String(AttrWALPath, path)
}

func WALKey(key string) attribute.KeyValue {
	return attribute.String(AttrWALKey, key)
}

func WALEntries(n int) attribute.KeyValue {
	return attribute.Int(AttrWALEntries, n)
}

func WALEntryID(id string) attribute.KeyValue {
	return attribute.String(AttrWALEntryID, id)
}

func WALEntryKind(kind string) attribute.KeyValue {
	return attribute.String(AttrWALEntryKind, kind)
}

// StartCommandSpan starts the root span of one CLI command.
// Span name: "cmd.<name>"
func StartCommandSpan(ctx context.Context, name, runID string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := append([]attribute.KeyValue{Command(name), RunID(runID)}, attrs...)
	return StartSpan(ctx, SpanCommand+"."+name, trace.WithAttributes(allAttrs...))
}

// StartWALSpan starts a span for a write-ahead log operation.
// Span name: "wal.<operation>"
func StartWALSpan(ctx context.Context, operation, path string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := append([]attribute.KeyValue{WALPath(path)}, attrs...)
	return StartSpan(ctx, SpanWAL+"."+operation, trace.WithAttributes(allAttrs...))
}

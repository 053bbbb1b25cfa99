package telemetry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/marmos91/ntstm/pkg/stream"
)

// recordSpans installs an in-memory tracer provider for the test.
func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	InitWithProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() {
		_, _ = Init(context.Background(), Config{})
	})
	return rec
}

func attrMap(attrs []attribute.KeyValue) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value, len(attrs))
	for _, kv := range attrs {
		m[kv.Key] = kv.Value
	}
	return m
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, "ntstm", cfg.ServiceName)
	assert.Equal(t, "dev", cfg.ServiceVersion)
	assert.Equal(t, "localhost:4317", cfg.Endpoint)
	assert.True(t, cfg.Insecure)
	assert.Equal(t, 1.0, cfg.SampleRate)
	assert.Equal(t, DefaultFlushTimeout, cfg.FlushTimeout)
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("1.2.3", true, "collector:4317", false, 0.25)

	assert.True(t, cfg.Enabled)
	assert.Equal(t, "ntstm", cfg.ServiceName)
	assert.Equal(t, "1.2.3", cfg.ServiceVersion)
	assert.Equal(t, "collector:4317", cfg.Endpoint)
	assert.False(t, cfg.Insecure)
	assert.Equal(t, 0.25, cfg.SampleRate)

	fallback := NewConfig("", false, "", true, 1.0)
	assert.Equal(t, "dev", fallback.ServiceVersion)
	assert.Equal(t, "localhost:4317", fallback.Endpoint)
}

func TestFlushTimeoutFallback(t *testing.T) {
	assert.Equal(t, DefaultFlushTimeout, Config{}.flushTimeout())
	assert.Equal(t, time.Second, Config{FlushTimeout: time.Second}.flushTimeout())
}

func TestInitDisabled(t *testing.T) {
	ctx := context.Background()

	shutdown, err := Init(ctx, DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(ctx))
	assert.False(t, IsEnabled())

	// No-op spans carry no IDs.
	ctx, span := StartSpan(ctx, "noop")
	defer span.End()
	assert.Empty(t, TraceID(ctx))
	assert.Empty(t, SpanID(ctx))
}

func TestSamplerFor(t *testing.T) {
	assert.Contains(t, samplerFor(1.0).Description(), "AlwaysOnSampler")
	assert.Contains(t, samplerFor(0).Description(), "AlwaysOffSampler")
	assert.Contains(t, samplerFor(0.25).Description(), "TraceIDRatioBased")
}

func TestHelpersWithoutSpan(t *testing.T) {
	ctx := context.Background()

	require.NotPanics(t, func() {
		AddEvent(ctx, "event")
		RecordError(ctx, errors.New("x"))
		RecordError(ctx, nil)
		SetStatus(ctx, codes.Ok, "")
		SetAttributes(ctx, Bytes(1))
	})
	assert.NotNil(t, SpanFromContext(ctx))
}

func TestStartCommandSpan(t *testing.T) {
	rec := recordSpans(t)
	assert.True(t, IsEnabled())

	ctx, span := StartCommandSpan(context.Background(), "pipe", "run-7", ChunkSize(4096))
	assert.NotEmpty(t, TraceID(ctx))
	assert.NotEmpty(t, SpanID(ctx))

	SetAttributes(ctx, Bytes(8192))
	AddEvent(ctx, "chunk", Operation(stream.OpWrite))
	RecordError(ctx, fmt.Errorf("copy: %w", stream.ErrStreamClosed))
	span.End()

	ended := rec.Ended()
	require.Len(t, ended, 1)
	s := ended[0]
	assert.Equal(t, "cmd.pipe", s.Name())
	assert.Equal(t, codes.Error, s.Status().Code)

	attrs := attrMap(s.Attributes())
	assert.Equal(t, "pipe", attrs[AttrCommand].AsString())
	assert.Equal(t, "run-7", attrs[AttrRunID].AsString())
	assert.Equal(t, int64(4096), attrs[AttrChunkSize].AsInt64())
	assert.Equal(t, int64(8192), attrs[AttrBytes].AsInt64())

	var exception map[attribute.Key]attribute.Value
	for _, ev := range s.Events() {
		if ev.Name == "exception" {
			exception = attrMap(ev.Attributes)
		}
	}
	require.NotNil(t, exception)
	assert.Equal(t, "StreamClosed", exception[AttrErrorKind].AsString())
}

func TestStartWALSpan(t *testing.T) {
	rec := recordSpans(t)

	ctx, parent := StartCommandSpan(context.Background(), "wal-dump", "run-8")
	_, child := StartWALSpan(ctx, "recover", "/tmp/x.wal", WALEntries(3))
	child.End()
	parent.End()

	ended := rec.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, "wal.recover", ended[0].Name())
	assert.Equal(t, ended[1].SpanContext().SpanID(), ended[0].Parent().SpanID())
	assert.Equal(t, "/tmp/x.wal", attrMap(ended[0].Attributes())[AttrWALPath].AsString())
}

func TestErrorKindAttribute(t *testing.T) {
	assert.Equal(t, "Malformed", ErrorKind(stream.ErrMalformed).Value.AsString())
	assert.Equal(t, "none", ErrorKind(errors.New("x")).Value.AsString())
}

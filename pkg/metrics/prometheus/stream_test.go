package prometheus

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/ntstm/pkg/metrics"
	"github.com/marmos91/ntstm/pkg/stream"
)

func TestNewStreamMetrics_Disabled(t *testing.T) {
	metrics.Disable()
	assert.Nil(t, NewStreamMetrics())
	assert.Nil(t, metrics.NewStreamMetrics())
}

func TestStreamMetrics_Records(t *testing.T) {
	metrics.InitRegistry()
	t.Cleanup(metrics.Disable)

	m := metrics.NewStreamMetrics()
	require.NotNil(t, m, "init must register the constructor")
	sm := m.(*streamMetrics)

	out := stream.NewOutputBuffer(stream.WithMaxSize(64))
	w := stream.NewMeteredWriter(out, m)
	require.NoError(t, w.WriteFull(make([]byte, 40)))
	require.Error(t, w.WriteFull(make([]byte, 40)))

	r := stream.NewMeteredReader(stream.NewInputBuffer(out.Bytes()), m)
	require.NoError(t, r.ReadFull(make([]byte, 16)))
	require.Error(t, r.ReadFull(make([]byte, 64)))

	m.ObserveRead(0, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(sm.operations.WithLabelValues(stream.OpWrite)))
	assert.Equal(t, 2.0, testutil.ToFloat64(sm.operations.WithLabelValues(stream.OpRead)))
	assert.Equal(t, 40.0, testutil.ToFloat64(sm.bytes.WithLabelValues(stream.OpWrite)))
	assert.Equal(t, 16.0, testutil.ToFloat64(sm.bytes.WithLabelValues(stream.OpRead)))
	assert.Equal(t, 1.0, testutil.ToFloat64(sm.failures.WithLabelValues(stream.OpWrite, "Allocation")))
	assert.Equal(t, 1.0, testutil.ToFloat64(sm.failures.WithLabelValues(stream.OpRead, "StreamClosed")))
}

package stream

import "time"

// Operation labels passed to StreamMetrics.RecordFailure.
const (
	OpRead  = "read"
	OpWrite = "write"
)

// StreamMetrics receives transfer observations from metered streams.
//
// Implementations must be safe for concurrent use: several streams,
// each with its own owner, may share one StreamMetrics.
type StreamMetrics interface {
	// ObserveRead records a successful ReadFull of bytes.
	ObserveRead(bytes int64, duration time.Duration)

	// ObserveWrite records a successful WriteFull of bytes.
	ObserveWrite(bytes int64, duration time.Duration)

	// RecordFailure records a failed transfer by operation and kind.
	RecordFailure(op string, kind ErrorKind)
}

// NewMeteredReader wraps r so every ReadFull is reported to m.
// A nil m returns r unchanged. When r reports Remaining, so does the
// wrapper.
func NewMeteredReader(r Reader, m StreamMetrics) Reader {
	if m == nil {
		return r
	}
	if b, ok := r.(bounded); ok {
		return &meteredBoundedReader{meteredReader{r: b, m: m}, b}
	}
	return &meteredReader{r: r, m: m}
}

// NewMeteredWriter wraps w so every WriteFull is reported to m.
// A nil m returns w unchanged.
func NewMeteredWriter(w Writer, m StreamMetrics) Writer {
	if m == nil {
		return w
	}
	return &meteredWriter{w: w, m: m}
}

type meteredReader struct {
	r Reader
	m StreamMetrics
}

func (s *meteredReader) ReadFull(p []byte) error {
	start := time.Now()
	if err := s.r.ReadFull(p); err != nil {
		s.m.RecordFailure(OpRead, kindOrDefault(err))
		return err
	}
	s.m.ObserveRead(int64(len(p)), time.Since(start))
	return nil
}

type meteredBoundedReader struct {
	meteredReader
	b bounded
}

func (s *meteredBoundedReader) Remaining() int {
	return s.b.Remaining()
}

type meteredWriter struct {
	w Writer
	m StreamMetrics
}

func (s *meteredWriter) WriteFull(p []byte) error {
	start := time.Now()
	if err := s.w.WriteFull(p); err != nil {
		s.m.RecordFailure(OpWrite, kindOrDefault(err))
		return err
	}
	s.m.ObserveWrite(int64(len(p)), time.Since(start))
	return nil
}

func kindOrDefault(err error) ErrorKind {
	if kind, ok := KindOf(err); ok {
		return kind
	}
	return KindInvalidHandle
}

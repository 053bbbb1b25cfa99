package stream

import "math"

const (
	// DefaultGrowthShift gives a growth unit of 64 bytes.
	DefaultGrowthShift uint = 5

	// MaxGrowthShift is the largest accepted growth shift (1 GiB unit).
	// Larger values are clamped.
	MaxGrowthShift uint = 29

	// maxCapacity bounds any single reservation when no explicit maximum
	// size is configured (1 TiB).
	maxCapacity uint64 = 1 << 40
)

// OutputOption configures an OutputBuffer.
type OutputOption func(*OutputBuffer)

// WithGrowthShift sets the growth unit to 2^(shift+1) bytes.
func WithGrowthShift(shift uint) OutputOption {
	return func(b *OutputBuffer) {
		b.growthShift = min(shift, MaxGrowthShift)
	}
}

// WithMaxSize caps the capacity the buffer may reserve. Writes that would
// need a larger capacity fail with ErrAllocation. Zero or a negative value
// means no explicit cap.
func WithMaxSize(size int) OutputOption {
	return func(b *OutputBuffer) {
		b.maxSize = max(size, 0)
	}
}

// OutputBuffer is a Writer appending to an owned, growable byte slice.
//
// Capacity is always a multiple of StepSize, never below Len, and only
// grows. Each growth reserves the smallest multiple of the step that holds
// the new length.
type OutputBuffer struct {
	buf         []byte
	growthShift uint
	maxSize     int
}

// NewOutputBuffer returns an empty OutputBuffer.
func NewOutputBuffer(opts ...OutputOption) *OutputBuffer {
	b := &OutputBuffer{growthShift: DefaultGrowthShift}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// WriteFull appends p to the buffer.
//
// If the required capacity cannot be reserved it returns ErrAllocation and
// the buffer is left exactly as it was.
func (b *OutputBuffer) WriteFull(p []byte) error {
	n := len(p)
	if n == 0 {
		return nil
	}

	length := len(b.buf)
	if n > math.MaxInt-length {
		return ErrAllocation
	}

	reserve, ok := b.roundUp(length + n)
	if !ok {
		return ErrAllocation
	}
	if cap(b.buf) < reserve {
		if err := b.grow(reserve); err != nil {
			return err
		}
	}

	b.buf = append(b.buf, p...)
	return nil
}

// roundUp returns size rounded up to the next multiple of the step. Exact
// multiples are returned unchanged.
func (b *OutputBuffer) roundUp(size int) (int, bool) {
	mask := b.StepSize() - 1
	if size > math.MaxInt-mask {
		return 0, false
	}
	return (size + mask) &^ mask, true
}

func (b *OutputBuffer) grow(capacity int) error {
	if b.maxSize > 0 && capacity > b.maxSize {
		return ErrAllocation
	}
	if uint64(capacity) > maxCapacity {
		return ErrAllocation
	}

	next := make([]byte, len(b.buf), capacity)
	copy(next, b.buf)
	b.buf = next
	return nil
}

// Len returns the number of bytes written.
func (b *OutputBuffer) Len() int {
	return len(b.buf)
}

// Cap returns the reserved capacity.
func (b *OutputBuffer) Cap() int {
	return cap(b.buf)
}

// Bytes returns the written bytes. The slice is valid until the next call
// to WriteFull or Reset.
func (b *OutputBuffer) Bytes() []byte {
	return b.buf
}

// GrowthShift returns the configured growth shift.
func (b *OutputBuffer) GrowthShift() uint {
	return b.growthShift
}

// StepSize returns the growth unit, 2^(GrowthShift+1).
func (b *OutputBuffer) StepSize() int {
	return 1 << (b.growthShift + 1)
}

// Reset empties the buffer but keeps its capacity for reuse.
func (b *OutputBuffer) Reset() {
	b.buf = b.buf[:0]
}

var _ Writer = (*OutputBuffer)(nil)

package stream

// InputBuffer is a Reader over caller-owned memory.
//
// The buffer never copies or retains more than the slice header it was
// given; the caller keeps the backing array alive and unchanged while the
// InputBuffer is in use. Reads never allocate.
type InputBuffer struct {
	data []byte
}

// NewInputBuffer returns an InputBuffer reading from data.
func NewInputBuffer(data []byte) *InputBuffer {
	return &InputBuffer{data: data}
}

// ReadFull copies the next len(p) bytes into p.
//
// When fewer than len(p) bytes remain it returns ErrStreamClosed without
// copying anything and without consuming input.
func (b *InputBuffer) ReadFull(p []byte) error {
	if len(p) > len(b.data) {
		return ErrStreamClosed
	}
	n := copy(p, b.data)
	b.data = b.data[n:]
	return nil
}

// Remaining returns the number of unread bytes.
func (b *InputBuffer) Remaining() int {
	return len(b.data)
}

// Bytes returns the unread portion of the input. The slice aliases the
// caller's memory.
func (b *InputBuffer) Bytes() []byte {
	return b.data
}

var _ Reader = (*InputBuffer)(nil)

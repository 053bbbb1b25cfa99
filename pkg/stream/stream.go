package stream

import (
	"reflect"
	"unsafe"
)

// Reader is implemented by byte sources with full-transfer read semantics.
//
// ReadFull must fill all of p or return an error; there is no partial
// success. When the source is exhausted before len(p) bytes are obtained
// it returns ErrStreamClosed.
type Reader interface {
	ReadFull(p []byte) error
}

// Writer is implemented by byte sinks with full-transfer write semantics.
//
// WriteFull must commit all of p or return an error; there is no short
// write success path.
type Writer interface {
	WriteFull(p []byte) error
}

// ReadWriter groups ReadFull and WriteFull.
type ReadWriter interface {
	Reader
	Writer
}

// Serializable is implemented by types that persist or transmit their state
// through streams.
type Serializable interface {
	// Inflate discards any prior state, releasing what it holds, and
	// rebuilds the state from bytes drawn from r. On failure the receiver
	// may be left in its freshly discarded condition but must not leak.
	Inflate(r Reader) error

	// Deflate writes the receiver's state to w. It never mutates the
	// receiver, whatever the outcome, so it is safe to retry.
	Deflate(w Writer) error
}

// Fixed lists the plain value types accepted by ReadValue and WriteValue.
type Fixed interface {
	~bool | ~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 |
		~int64 | ~uint64 | ~float32 | ~float64
}

// ReadValue reads one fixed-size value in native byte order. It is a
// notational convenience over ReadFull and reports the same errors.
//
// Booleans must be encoded as 0 or 1. Any other byte is consumed, leaves
// *v false and fails with ErrMalformed.
func ReadValue[T Fixed](r Reader, v *T) error {
	p := valueBytes(v)
	if err := r.ReadFull(p); err != nil {
		return err
	}
	if p[0] > 1 && reflect.TypeFor[T]().Kind() == reflect.Bool {
		p[0] = 0
		return ErrMalformed
	}
	return nil
}

// WriteValue writes one fixed-size value in native byte order. It is a
// notational convenience over WriteFull and reports the same errors.
func WriteValue[T Fixed](w Writer, v T) error {
	return w.WriteFull(valueBytes(&v))
}

// valueBytes views the memory of v as a byte slice. T holds no pointers.
func valueBytes[T Fixed](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), unsafe.Sizeof(*v))
}

// Marshal deflates s into a fresh OutputBuffer and returns its contents.
func Marshal(s Serializable, opts ...OutputOption) ([]byte, error) {
	out := NewOutputBuffer(opts...)
	if err := s.Deflate(out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// Unmarshal inflates s from data. Bytes left over after Inflate returns
// are reported as ErrMalformed.
func Unmarshal(data []byte, s Serializable) error {
	in := NewInputBuffer(data)
	if err := s.Inflate(in); err != nil {
		return err
	}
	if in.Remaining() != 0 {
		return ErrMalformed
	}
	return nil
}

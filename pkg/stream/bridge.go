package stream

import (
	"errors"
	"io"
	"os"
)

// IOReader adapts a Reader to io.Reader.
//
// Each Read asks the underlying Reader for exactly len(p) bytes, which
// suits decoders that read fixed-size fields. Readers that know how much
// is left (an InputBuffer, or a metered one) are served partially and end
// with io.EOF like bytes.Reader; a request they could not fully serve is
// recorded as ErrStreamClosed.
type IOReader struct {
	r   Reader
	err error
}

// bounded is implemented by Readers that know how many bytes remain.
type bounded interface {
	Reader
	Remaining() int
}

// AsIOReader returns an io.Reader view of r.
func AsIOReader(r Reader) *IOReader {
	return &IOReader{r: r}
}

// Read implements io.Reader.
func (a *IOReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if b, ok := a.r.(bounded); ok {
		left := b.Remaining()
		if len(p) > left {
			a.err = ErrStreamClosed
		}
		if left == 0 {
			return 0, io.EOF
		}
		n := min(len(p), left)
		if err := b.ReadFull(p[:n]); err != nil {
			a.err = err
			return 0, err
		}
		return n, nil
	}
	if err := a.r.ReadFull(p); err != nil {
		a.err = err
		return 0, err
	}
	return len(p), nil
}

// Err returns the last failure reported by the underlying Reader, or
// ErrStreamClosed once a request ran past the end of a bounded Reader.
func (a *IOReader) Err() error {
	return a.err
}

// IOWriter adapts a Writer to io.Writer.
type IOWriter struct {
	w   Writer
	err error
}

// AsIOWriter returns an io.Writer view of w.
func AsIOWriter(w Writer) *IOWriter {
	return &IOWriter{w: w}
}

// Write implements io.Writer. It either writes all of p or none of it
// from the caller's point of view.
func (a *IOWriter) Write(p []byte) (int, error) {
	if err := a.w.WriteFull(p); err != nil {
		a.err = err
		return 0, err
	}
	return len(p), nil
}

// Err returns the last failure reported by the underlying Writer.
func (a *IOWriter) Err() error {
	return a.err
}

type ioSource struct {
	r io.Reader
}

// FromIOReader returns a Reader drawing from an io.Reader.
func FromIOReader(r io.Reader) Reader {
	return ioSource{r: r}
}

func (s ioSource) ReadFull(p []byte) error {
	if _, err := io.ReadFull(s.r, p); err != nil {
		return classifyForeign(err)
	}
	return nil
}

type ioSink struct {
	w io.Writer
}

// FromIOWriter returns a Writer committing to an io.Writer.
func FromIOWriter(w io.Writer) Writer {
	return ioSink{w: w}
}

func (s ioSink) WriteFull(p []byte) error {
	for off := 0; off < len(p); {
		n, err := s.w.Write(p[off:])
		if err != nil {
			return classifyForeign(err)
		}
		if n <= 0 {
			return ErrStreamClosed
		}
		off += n
	}
	return nil
}

// classifyForeign maps an error from the standard library I/O world to a
// stream failure.
func classifyForeign(err error) error {
	if _, ok := KindOf(err); ok {
		return err
	}
	switch {
	case errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, io.ErrClosedPipe),
		errors.Is(err, io.ErrShortWrite),
		errors.Is(err, os.ErrClosed):
		return ErrStreamClosed
	case errors.Is(err, os.ErrPermission):
		return ErrPermission
	}
	return classifyErrno(err)
}

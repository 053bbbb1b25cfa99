//go:build unix

package stream

import (
	"golang.org/x/sys/unix"
)

// syscallFunc matches unix.Read and unix.Write.
type syscallFunc func(fd int, p []byte) (int, error)

// FileStream is a ReadWriter over a blocking file or socket descriptor.
//
// The descriptor must stay open and in blocking mode for the lifetime of
// the stream. FileStream never opens, closes or reconfigures it, and a
// failed transfer leaves it open.
//
// Bytes consumed from the descriptor by a ReadFull that later fails are
// not returned to the caller.
type FileStream struct {
	fd    int
	read  syscallFunc
	write syscallFunc
}

// NewFileStream wraps fd.
func NewFileStream(fd int) *FileStream {
	return &FileStream{
		fd:    fd,
		read:  unix.Read,
		write: unix.Write,
	}
}

// Fd returns the wrapped descriptor.
func (s *FileStream) Fd() int {
	return s.fd
}

// ReadFull reads exactly len(p) bytes from the descriptor.
//
// End of input before len(p) bytes fails with ErrStreamClosed, even when
// some bytes were already read. Syscall errors are translated with
// KindFromErrno; EINTR is reported as ErrInterrupted, not retried.
func (s *FileStream) ReadFull(p []byte) error {
	for off := 0; off < len(p); {
		n, err := s.read(s.fd, p[off:])
		if err != nil {
			return TranslateError(err)
		}
		if n == 0 {
			return ErrStreamClosed
		}
		off += n
	}
	return nil
}

// WriteFull writes all of p to the descriptor. Any error or non-positive
// count is translated with KindFromErrno.
func (s *FileStream) WriteFull(p []byte) error {
	for off := 0; off < len(p); {
		n, err := s.write(s.fd, p[off:])
		if err != nil || n <= 0 {
			return TranslateError(err)
		}
		off += n
	}
	return nil
}

var _ ReadWriter = (*FileStream)(nil)

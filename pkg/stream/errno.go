//go:build unix

package stream

import (
	"errors"

	"golang.org/x/sys/unix"
)

// KindFromErrno maps an OS error number to an ErrorKind.
//
// The mapping is total:
//   - EBADF, EINVAL, EISDIR → KindInvalidHandle
//   - EPERM, EACCES → KindPermission
//   - EIO, EPIPE, ECONNRESET → KindStreamClosed
//   - EAGAIN, EWOULDBLOCK → KindNonBlocking
//   - EINTR → KindInterrupted
//   - anything else → KindInvalidHandle
func KindFromErrno(errno unix.Errno) ErrorKind {
	// EWOULDBLOCK aliases EAGAIN on most platforms, so it cannot share the
	// switch below.
	if errno == unix.EWOULDBLOCK {
		return KindNonBlocking
	}

	switch errno {
	case unix.EBADF, unix.EINVAL, unix.EISDIR:
		return KindInvalidHandle
	case unix.EPERM, unix.EACCES:
		return KindPermission
	case unix.EIO, unix.EPIPE, unix.ECONNRESET:
		return KindStreamClosed
	case unix.EAGAIN:
		return KindNonBlocking
	case unix.EINTR:
		return KindInterrupted
	default:
		return KindInvalidHandle
	}
}

// TranslateError converts the error returned by a read or write syscall
// into a stream failure. Errors that already carry a kind are returned
// unchanged; errors without an errno (including nil) become
// ErrInvalidHandle.
func TranslateError(err error) error {
	if _, ok := KindOf(err); ok {
		return err
	}
	var errno unix.Errno
	if errors.As(err, &errno) {
		return NewError(KindFromErrno(errno))
	}
	return ErrInvalidHandle
}

func classifyErrno(err error) error {
	return TranslateError(err)
}

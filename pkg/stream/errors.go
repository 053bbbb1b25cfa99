package stream

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a stream operation failed.
//
// Values are stable small integers; only identity is meaningful. Kinds
// above KindMax are free for callers to define (for example a protocol
// layer reporting its own framing violations).
type ErrorKind uint32

const (
	// KindInvalidHandle indicates the handle has no usable resource behind it
	// (EBADF, EINVAL, EISDIR) or the failure could not be classified.
	KindInvalidHandle ErrorKind = iota

	// KindPermission indicates the handle may not be read or written (EPERM).
	KindPermission

	// KindStreamClosed indicates the stream ended while transferring: end of
	// input, an exhausted buffer, EIO or EPIPE.
	KindStreamClosed

	// KindNonBlocking indicates the handle is in non-blocking mode
	// (EAGAIN/EWOULDBLOCK), which streams do not support.
	KindNonBlocking

	// KindInterrupted indicates a signal interrupted the transfer (EINTR).
	// Streams never retry; the caller decides.
	KindInterrupted

	// KindAllocation indicates buffer space could not be reserved.
	KindAllocation

	// KindMalformed indicates the input bytes do not describe a valid value.
	// Streams never report it themselves; Serializable implementations do.
	KindMalformed

	// KindMax is the highest reserved kind. It is never reported; caller
	// defined kinds start above it.
	KindMax
)

// String returns a human-readable name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindInvalidHandle:
		return "InvalidHandle"
	case KindPermission:
		return "Permission"
	case KindStreamClosed:
		return "StreamClosed"
	case KindNonBlocking:
		return "NonBlocking"
	case KindInterrupted:
		return "Interrupted"
	case KindAllocation:
		return "Allocation"
	case KindMalformed:
		return "Malformed"
	case KindMax:
		return "Max"
	default:
		return fmt.Sprintf("Kind(%d)", uint32(k))
	}
}

// IsUserDefined reports whether k lies in the caller-defined range.
func (k ErrorKind) IsUserDefined() bool {
	return k > KindMax
}

// Error is the single failure value reported by streams.
//
// It carries exactly one kind and no message. Error is comparable, so
// errors.Is matches any two failures of the same kind.
type Error struct {
	Kind ErrorKind
}

// Error implements the error interface.
func (e Error) Error() string {
	return "stream: " + e.Kind.String()
}

// Predeclared failures. Returning these does not allocate.
var (
	ErrInvalidHandle error = Error{Kind: KindInvalidHandle}
	ErrPermission    error = Error{Kind: KindPermission}
	ErrStreamClosed  error = Error{Kind: KindStreamClosed}
	ErrNonBlocking   error = Error{Kind: KindNonBlocking}
	ErrInterrupted   error = Error{Kind: KindInterrupted}
	ErrAllocation    error = Error{Kind: KindAllocation}
	ErrMalformed     error = Error{Kind: KindMalformed}
)

// NewError returns the failure for kind. Predefined kinds map to their
// sentinel.
func NewError(kind ErrorKind) error {
	switch kind {
	case KindInvalidHandle:
		return ErrInvalidHandle
	case KindPermission:
		return ErrPermission
	case KindStreamClosed:
		return ErrStreamClosed
	case KindNonBlocking:
		return ErrNonBlocking
	case KindInterrupted:
		return ErrInterrupted
	case KindAllocation:
		return ErrAllocation
	case KindMalformed:
		return ErrMalformed
	default:
		return Error{Kind: kind}
	}
}

// KindOf returns the kind carried by err and whether one was found.
// Wrapped errors are unwrapped.
func KindOf(err error) (ErrorKind, bool) {
	var se Error
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return 0, false
}

// IsKind reports whether err carries kind.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

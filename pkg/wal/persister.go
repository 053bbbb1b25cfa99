package wal

import (
	"context"
	"errors"
)

// Log errors
var (
	// ErrClosed is returned when operations are attempted on a closed log.
	ErrClosed = errors.New("wal is closed")

	// ErrCorrupted is returned when the log file fails header, framing or
	// checksum validation.
	ErrCorrupted = errors.New("wal file corrupted")

	// ErrVersionMismatch is returned when the log file version is not
	// supported.
	ErrVersionMismatch = errors.New("wal file version mismatch")

	// ErrInvalidEntry is returned by Append for entries that cannot be
	// encoded.
	ErrInvalidEntry = errors.New("invalid wal entry")
)

// IsCorrupted reports whether err comes from a log that failed validation.
func IsCorrupted(err error) bool {
	return errors.Is(err, ErrCorrupted) || errors.Is(err, ErrVersionMismatch)
}

// Persister defines the operations of a record log.
//
// Thread Safety:
// Implementations must be safe for concurrent use from multiple goroutines.
type Persister interface {
	// Append writes one entry as a single frame.
	Append(ctx context.Context, entry *Entry) error

	// Sync forces appended frames to durable storage.
	Sync() error

	// Replay calls fn for every intact frame in file order.
	Replay(ctx context.Context, fn func(Entry) error) error

	// Recover replays the log and returns the live entries: the latest
	// put of every key that was not deleted afterwards.
	Recover(ctx context.Context) ([]Entry, error)

	// Close releases the file. Closing twice is not an error.
	Close() error
}

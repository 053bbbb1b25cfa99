//go:build unix

package wal

import (
	"context"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"sync"

	"github.com/marmos91/ntstm/internal/logger"
	"github.com/marmos91/ntstm/internal/telemetry"
	"github.com/marmos91/ntstm/pkg/bufpool"
	"github.com/marmos91/ntstm/pkg/stream"
	"github.com/marmos91/ntstm/pkg/xdr"
)

// file constants
const (
	fileMagic       = "NTWL"
	fileVersion     = uint16(1)
	headerSize      = 16
	frameHeaderSize = 8

	// maxFrameSize bounds a payload: the largest data blob plus room for
	// the key and fixed fields.
	maxFrameSize = xdr.MaxOpaqueLength + 2*MaxKeyLength
)

var crcTable = crc32.MakeTable(crc32.Castagnoli)

// Option configures a Log.
type Option func(*options)

type options struct {
	syncOnAppend bool
	outputOpts   []stream.OutputOption
}

// WithSyncOnAppend makes every Append fsync before returning.
func WithSyncOnAppend(on bool) Option {
	return func(o *options) {
		o.syncOnAppend = on
	}
}

// WithOutputOptions sets the options of the buffers frames are encoded
// into.
func WithOutputOptions(opts ...stream.OutputOption) Option {
	return func(o *options) {
		o.outputOpts = append(o.outputOpts, opts...)
	}
}

// Log is a file-backed append-only record log.
type Log struct {
	mu           sync.Mutex
	path         string
	file         *os.File
	out          *stream.FileStream
	pool         *bufpool.OutputPool
	size         int64 // bytes committed to the file
	syncOnAppend bool
	closed       bool
}

// Open opens the log at path, creating it and its directory if needed.
//
// An existing file is validated (header only, call Recover to replay it).
func Open(path string, opts ...Option) (*Log, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	l := &Log{
		path:         path,
		file:         f,
		out:          stream.NewFileStream(int(f.Fd())),
		pool:         bufpool.NewOutputPool(maxFrameSize+frameHeaderSize, o.outputOpts...),
		syncOnAppend: o.syncOnAppend,
	}

	if err := l.init(); err != nil {
		f.Close()
		return nil, err
	}

	logger.Debug("WAL opened", logger.Path(path), logger.Offset(l.size))
	return l, nil
}

// init writes the header of an empty file or validates an existing one.
func (l *Log) init() error {
	info, err := l.file.Stat()
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}

	if info.Size() == 0 {
		var header [headerSize]byte
		copy(header[:], fileMagic)
		binary.BigEndian.PutUint16(header[4:6], fileVersion)
		if err := l.out.WriteFull(header[:]); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		l.size = headerSize
		return nil
	}

	if info.Size() < headerSize {
		return fmt.Errorf("short header (%d bytes): %w", info.Size(), ErrCorrupted)
	}

	var header [headerSize]byte
	if _, err := l.file.ReadAt(header[:], 0); err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	if err := checkHeader(header[:]); err != nil {
		return err
	}

	l.size = info.Size()
	return nil
}

func checkHeader(header []byte) error {
	if string(header[0:4]) != fileMagic {
		return fmt.Errorf("bad magic %q: %w", header[0:4], ErrCorrupted)
	}
	if v := binary.BigEndian.Uint16(header[4:6]); v != fileVersion {
		return fmt.Errorf("version %d: %w", v, ErrVersionMismatch)
	}
	return nil
}

// Path returns the file path of the log.
func (l *Log) Path() string {
	return l.path
}

// Append encodes entry into one frame and writes it to the end of the log.
//
// If the write fails part way, the file is truncated back so the log does
// not keep a partial frame ahead of later appends.
func (l *Log) Append(ctx context.Context, entry *Entry) (err error) {
	if entry == nil {
		return fmt.Errorf("%w: nil entry", ErrInvalidEntry)
	}

	ctx, span := telemetry.StartWALSpan(ctx, "append", l.path,
		telemetry.WALKey(entry.Key),
		telemetry.WALEntryKind(entry.Kind.String()),
		telemetry.WALEntryID(entry.ID.String()))
	defer func() {
		if err != nil {
			telemetry.RecordError(ctx, err)
		}
		span.End()
	}()

	if err := entry.Validate(); err != nil {
		return err
	}

	buf := l.pool.Get()
	defer l.pool.Put(buf)

	var placeholder [frameHeaderSize]byte
	if err := buf.WriteFull(placeholder[:]); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	if err := entry.Deflate(buf); err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}

	frame := buf.Bytes()
	payload := frame[frameHeaderSize:]
	binary.BigEndian.PutUint32(frame[0:4], uint32(len(payload)))
	binary.BigEndian.PutUint32(frame[4:8], crc32.Checksum(payload, crcTable))

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrClosed
	}

	if err := l.out.WriteFull(frame); err != nil {
		if terr := l.file.Truncate(l.size); terr != nil {
			logger.ErrorCtx(ctx, "WAL rollback failed", logger.Path(l.path), logger.Offset(l.size), logger.Err(terr))
		}
		return fmt.Errorf("write frame: %w", err)
	}
	l.size += int64(len(frame))

	if l.syncOnAppend {
		if err := l.file.Sync(); err != nil {
			return fmt.Errorf("sync: %w", err)
		}
	}

	logger.DebugCtx(ctx, "WAL entry appended",
		logger.Key(entry.Key),
		logger.Kind(entry.Kind.String()),
		logger.EntryID(entry.ID.String()),
		logger.Bytes(int64(len(frame))))
	return nil
}

// Sync forces appended frames to durable storage.
func (l *Log) Sync() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrClosed
	}
	return l.file.Sync()
}

// Size returns the number of bytes committed to the file, header included.
func (l *Log) Size() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.size
}

// Close syncs and closes the file. Subsequent calls return nil.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	syncErr := l.file.Sync()
	closeErr := l.file.Close()
	if syncErr != nil {
		return fmt.Errorf("sync: %w", syncErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close: %w", closeErr)
	}
	return nil
}

var _ Persister = (*Log)(nil)

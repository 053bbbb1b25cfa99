//go:build unix

package wal

import (
	"context"
	"fmt"
	"hash/crc32"

	"golang.org/x/sys/unix"

	"github.com/marmos91/ntstm/internal/logger"
	"github.com/marmos91/ntstm/internal/telemetry"
	"github.com/marmos91/ntstm/pkg/bufpool"
	"github.com/marmos91/ntstm/pkg/stream"
	"github.com/marmos91/ntstm/pkg/xdr"
)

// replayResult describes where a replay stopped.
type replayResult struct {
	frames int
	end    int64 // offset just past the last intact frame
	torn   bool  // bytes after end hold an incomplete frame
}

// Replay calls fn for every intact frame in file order. A torn tail ends
// the replay without error. An error returned by fn stops the replay and
// is returned as is. fn runs with the log locked and must not call
// methods of l.
func (l *Log) Replay(ctx context.Context, fn func(Entry) error) (err error) {
	ctx, span := telemetry.StartWALSpan(ctx, "replay", l.path)
	defer func() {
		if err != nil {
			telemetry.RecordError(ctx, err)
		}
		span.End()
	}()

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrClosed
	}

	res, err := l.replayLocked(fn)
	if err != nil {
		return err
	}
	if res.torn {
		logger.WarnCtx(ctx, "WAL has a torn tail", logger.Path(l.path), logger.Offset(res.end))
	}
	telemetry.SetAttributes(ctx, telemetry.WALEntries(res.frames))
	return nil
}

// Recover replays the log and returns its live entries in the order their
// latest put was appended. A torn tail is truncated so later appends
// follow the last intact frame.
func (l *Log) Recover(ctx context.Context) (entries []Entry, err error) {
	ctx, span := telemetry.StartWALSpan(ctx, "recover", l.path)
	defer func() {
		if err != nil {
			telemetry.RecordError(ctx, err)
		}
		span.End()
	}()

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil, ErrClosed
	}

	var live liveSet
	res, err := l.replayLocked(func(e Entry) error {
		live.apply(e)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if res.torn {
		logger.WarnCtx(ctx, "Truncating torn WAL tail",
			logger.Path(l.path),
			logger.Offset(res.end),
			logger.Bytes(l.size-res.end))
		if err := l.file.Truncate(res.end); err != nil {
			return nil, fmt.Errorf("truncate torn tail: %w", err)
		}
		l.size = res.end
	}

	entries = live.entries()
	telemetry.SetAttributes(ctx, telemetry.WALEntries(len(entries)))
	logger.InfoCtx(ctx, "WAL recovered",
		logger.Path(l.path),
		logger.Count(int64(res.frames)),
		logger.Entries(len(entries)))
	return entries, nil
}

// replayLocked maps the file and decodes every frame. Caller holds l.mu.
func (l *Log) replayLocked(fn func(Entry) error) (replayResult, error) {
	info, err := l.file.Stat()
	if err != nil {
		return replayResult{}, fmt.Errorf("stat file: %w", err)
	}
	size := info.Size()
	if size < headerSize {
		return replayResult{}, fmt.Errorf("short header (%d bytes): %w", size, ErrCorrupted)
	}
	l.size = size

	data, err := unix.Mmap(int(l.file.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return replayResult{}, fmt.Errorf("mmap: %w", err)
	}
	defer func() {
		if uerr := unix.Munmap(data); uerr != nil {
			logger.Warn("WAL munmap failed", logger.Path(l.path), logger.Err(uerr))
		}
	}()

	if err := checkHeader(data[:headerSize]); err != nil {
		return replayResult{}, err
	}

	return replayFrames(data[headerSize:], headerSize, fn)
}

// replayFrames decodes the frames in body, which starts at file offset
// base. Decoded entries never alias body.
func replayFrames(body []byte, base int64, fn func(Entry) error) (replayResult, error) {
	res := replayResult{end: base}
	in := stream.NewInputBuffer(body)

	for in.Remaining() > 0 {
		offset := base + int64(len(body)-in.Remaining())

		// A crash after the file grew but before the data landed leaves
		// zeros behind the last frame.
		if in.Remaining() < frameHeaderSize || allZero(in.Bytes()) {
			res.torn = true
			return res, nil
		}
		length, err := xdr.DecodeUint32(in)
		if err != nil {
			return res, fmt.Errorf("frame at offset %d: read length: %w", offset, err)
		}
		sum, err := xdr.DecodeUint32(in)
		if err != nil {
			return res, fmt.Errorf("frame at offset %d: read checksum: %w", offset, err)
		}

		if length == 0 || length > maxFrameSize {
			return res, fmt.Errorf("frame at offset %d: length %d: %w", offset, length, ErrCorrupted)
		}
		if int(length) > in.Remaining() {
			res.torn = true
			return res, nil
		}

		payload := bufpool.Get(int(length))
		err = in.ReadFull(payload)
		if err == nil && crc32.Checksum(payload, crcTable) != sum {
			err = fmt.Errorf("frame at offset %d: checksum mismatch: %w", offset, ErrCorrupted)
		}
		var entry Entry
		if err == nil {
			if uerr := stream.Unmarshal(payload, &entry); uerr != nil {
				err = fmt.Errorf("frame at offset %d: decode entry: %v: %w", offset, uerr, ErrCorrupted)
			}
		}
		bufpool.Put(payload)
		if err != nil {
			return res, err
		}

		if err := fn(entry); err != nil {
			return res, err
		}
		res.frames++
		res.end = base + int64(len(body)-in.Remaining())
	}
	return res, nil
}

// allZero reports whether p holds only zero bytes. It stops at the first
// non-zero byte, which for a real frame lies in its length field.
func allZero(p []byte) bool {
	for _, c := range p {
		if c != 0 {
			return false
		}
	}
	return true
}

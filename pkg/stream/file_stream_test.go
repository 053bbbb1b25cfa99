//go:build unix

package stream

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// newPipe returns a blocking pipe closed at test cleanup. Ends set to -1
// by the test are skipped.
func newPipe(t *testing.T) (r, w *int) {
	t.Helper()

	fds := make([]int, 2)
	require.NoError(t, unix.Pipe(fds))
	rfd, wfd := fds[0], fds[1]
	t.Cleanup(func() {
		if rfd >= 0 {
			_ = unix.Close(rfd)
		}
		if wfd >= 0 {
			_ = unix.Close(wfd)
		}
	})
	return &rfd, &wfd
}

func closeEnd(t *testing.T, fd *int) {
	t.Helper()
	require.NoError(t, unix.Close(*fd))
	*fd = -1
}

// ============================================================================
// Pipe-backed Tests
// ============================================================================

func TestFileStreamRoundTrip(t *testing.T) {
	r, w := newPipe(t)
	writer := NewFileStream(*w)
	reader := NewFileStream(*r)

	payload := []byte("full transfer semantics")
	require.NoError(t, writer.WriteFull(payload))

	got := make([]byte, len(payload))
	require.NoError(t, reader.ReadFull(got))
	assert.Equal(t, payload, got)
	assert.Equal(t, *r, reader.Fd())
}

func TestFileStreamClosedPipe(t *testing.T) {
	t.Run("NothingWritten", func(t *testing.T) {
		r, w := newPipe(t)
		closeEnd(t, w)

		err := NewFileStream(*r).ReadFull(make([]byte, 4))
		assert.ErrorIs(t, err, ErrStreamClosed)
	})

	t.Run("PartialThenClosed", func(t *testing.T) {
		r, w := newPipe(t)
		require.NoError(t, NewFileStream(*w).WriteFull([]byte{1, 2}))
		closeEnd(t, w)

		err := NewFileStream(*r).ReadFull(make([]byte, 4))
		assert.ErrorIs(t, err, ErrStreamClosed)
	})

	t.Run("WriteToClosedReader", func(t *testing.T) {
		r, w := newPipe(t)
		closeEnd(t, r)

		err := NewFileStream(*w).WriteFull([]byte("lost"))
		assert.ErrorIs(t, err, ErrStreamClosed)
	})
}

func TestFileStreamNonBlocking(t *testing.T) {
	r, _ := newPipe(t)
	require.NoError(t, unix.SetNonblock(*r, true))

	err := NewFileStream(*r).ReadFull(make([]byte, 1))
	assert.ErrorIs(t, err, ErrNonBlocking)
}

func TestFileStreamInvalidHandle(t *testing.T) {
	t.Run("BadDescriptor", func(t *testing.T) {
		err := NewFileStream(-1).ReadFull(make([]byte, 1))
		assert.ErrorIs(t, err, ErrInvalidHandle)
	})

	t.Run("Directory", func(t *testing.T) {
		fd, err := unix.Open(t.TempDir(), unix.O_RDONLY|unix.O_DIRECTORY, 0)
		require.NoError(t, err)
		defer func() { _ = unix.Close(fd) }()

		err = NewFileStream(fd).ReadFull(make([]byte, 1))
		assert.ErrorIs(t, err, ErrInvalidHandle)
	})
}

func TestFileStreamLeavesDescriptorOpen(t *testing.T) {
	r, w := newPipe(t)
	closeEnd(t, w)

	require.Error(t, NewFileStream(*r).ReadFull(make([]byte, 1)))

	var st unix.Stat_t
	assert.NoError(t, unix.Fstat(*r, &st), "descriptor must survive a failed transfer")
}

func TestFileStreamZeroLength(t *testing.T) {
	s := NewFileStream(-1)
	assert.NoError(t, s.ReadFull(nil))
	assert.NoError(t, s.WriteFull(nil))
}

// ============================================================================
// Injected Syscall Tests
// ============================================================================

func TestFileStreamInterruptedIsNotRetried(t *testing.T) {
	calls := 0
	s := NewFileStream(3)
	s.read = func(int, []byte) (int, error) {
		calls++
		return -1, unix.EINTR
	}
	s.write = func(int, []byte) (int, error) {
		calls++
		return -1, unix.EINTR
	}

	assert.ErrorIs(t, s.ReadFull(make([]byte, 8)), ErrInterrupted)
	assert.Equal(t, 1, calls)

	assert.ErrorIs(t, s.WriteFull(make([]byte, 8)), ErrInterrupted)
	assert.Equal(t, 2, calls)
}

func TestFileStreamAccumulatesShortTransfers(t *testing.T) {
	src := bytes.NewReader([]byte("abcdefgh"))
	var sink bytes.Buffer

	s := NewFileStream(3)
	s.read = func(_ int, p []byte) (int, error) {
		return src.Read(p[:1])
	}
	s.write = func(_ int, p []byte) (int, error) {
		return sink.Write(p[:min(3, len(p))])
	}

	got := make([]byte, 8)
	require.NoError(t, s.ReadFull(got))
	assert.Equal(t, "abcdefgh", string(got))

	require.NoError(t, s.WriteFull(got))
	assert.Equal(t, "abcdefgh", sink.String())
}

func TestFileStreamErrorAfterProgress(t *testing.T) {
	calls := 0
	s := NewFileStream(3)
	s.read = func(_ int, p []byte) (int, error) {
		calls++
		if calls == 1 {
			p[0] = 'x'
			return 1, nil
		}
		return -1, unix.EIO
	}

	assert.ErrorIs(t, s.ReadFull(make([]byte, 4)), ErrStreamClosed)
	assert.Equal(t, 2, calls)
}

func TestFileStreamZeroByteWrite(t *testing.T) {
	s := NewFileStream(3)
	s.write = func(int, []byte) (int, error) { return 0, nil }

	assert.ErrorIs(t, s.WriteFull([]byte("x")), ErrInvalidHandle)
}

func TestFileStreamPermissionFromSyscall(t *testing.T) {
	s := NewFileStream(3)
	s.write = func(int, []byte) (int, error) { return -1, unix.EPERM }

	assert.ErrorIs(t, s.WriteFull([]byte("x")), ErrPermission)
}

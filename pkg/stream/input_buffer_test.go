package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputBuffer(t *testing.T) {
	t.Run("ReadsInOrder", func(t *testing.T) {
		in := NewInputBuffer([]byte{0x01, 0x02, 0x03, 0x04})

		first := make([]byte, 2)
		require.NoError(t, in.ReadFull(first))
		assert.Equal(t, []byte{0x01, 0x02}, first)
		assert.Equal(t, 2, in.Remaining())

		// Over-long read fails and consumes nothing.
		long := make([]byte, 3)
		err := in.ReadFull(long)
		assert.ErrorIs(t, err, ErrStreamClosed)
		assert.Equal(t, []byte{0, 0, 0}, long)
		assert.Equal(t, 2, in.Remaining())

		rest := make([]byte, 2)
		require.NoError(t, in.ReadFull(rest))
		assert.Equal(t, []byte{0x03, 0x04}, rest)
		assert.Equal(t, 0, in.Remaining())
	})

	t.Run("ZeroLengthRead", func(t *testing.T) {
		in := NewInputBuffer(nil)
		require.NoError(t, in.ReadFull(nil))
		require.NoError(t, in.ReadFull([]byte{}))
		assert.ErrorIs(t, in.ReadFull(make([]byte, 1)), ErrStreamClosed)
	})

	t.Run("ExactRemainder", func(t *testing.T) {
		in := NewInputBuffer([]byte("abc"))
		out := make([]byte, 3)
		require.NoError(t, in.ReadFull(out))
		assert.Equal(t, "abc", string(out))
		assert.Empty(t, in.Bytes())
	})

	t.Run("EveryPrefixLength", func(t *testing.T) {
		src := []byte("0123456789abcdef")
		for n := 0; n <= len(src); n++ {
			in := NewInputBuffer(src)
			dst := make([]byte, n)
			require.NoError(t, in.ReadFull(dst))
			assert.Equal(t, src[:n], dst)
			assert.Equal(t, len(src)-n, in.Remaining())
			assert.Equal(t, src[n:], in.Bytes())
		}
	})

	t.Run("DoesNotAllocate", func(t *testing.T) {
		src := make([]byte, 64)
		dst := make([]byte, 8)
		allocs := testing.AllocsPerRun(100, func() {
			in := InputBuffer{data: src}
			for in.Remaining() >= len(dst) {
				_ = in.ReadFull(dst)
			}
			_ = in.ReadFull(dst)
		})
		assert.Zero(t, allocs)
	})
}

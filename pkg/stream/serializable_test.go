package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sample is a small Serializable used to exercise the contract.
type sample struct {
	Name   string
	Counts []uint32
}

func (s *sample) Deflate(w Writer) error {
	if err := WriteValue(w, uint32(len(s.Name))); err != nil {
		return err
	}
	if err := w.WriteFull([]byte(s.Name)); err != nil {
		return err
	}
	if err := WriteValue(w, uint32(len(s.Counts))); err != nil {
		return err
	}
	for _, c := range s.Counts {
		if err := WriteValue(w, c); err != nil {
			return err
		}
	}
	return nil
}

func (s *sample) Inflate(r Reader) error {
	*s = sample{}

	var n uint32
	if err := ReadValue(r, &n); err != nil {
		return err
	}
	name := make([]byte, n)
	if err := r.ReadFull(name); err != nil {
		return err
	}
	var count uint32
	if err := ReadValue(r, &count); err != nil {
		return err
	}
	if count > 1<<16 {
		return ErrMalformed
	}
	counts := make([]uint32, count)
	for i := range counts {
		if err := ReadValue(r, &counts[i]); err != nil {
			return err
		}
	}
	s.Name = string(name)
	s.Counts = counts
	return nil
}

var _ Serializable = (*sample)(nil)

// ============================================================================
// Serializable Contract Tests
// ============================================================================

func TestSerializableRoundTrip(t *testing.T) {
	in := &sample{Name: "journal", Counts: []uint32{1, 2, 3, 0xdeadbeef}}

	data, err := Marshal(in)
	require.NoError(t, err)

	var out sample
	require.NoError(t, Unmarshal(data, &out))
	assert.Equal(t, *in, out)
}

func TestDeflateIsRepeatable(t *testing.T) {
	in := &sample{Name: "x", Counts: []uint32{7}}
	snapshot := sample{Name: in.Name, Counts: append([]uint32(nil), in.Counts...)}

	first, err := Marshal(in)
	require.NoError(t, err)
	second, err := Marshal(in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, *in, "deflate must not mutate the value")
}

func TestDeflateFailureLeavesValueIntact(t *testing.T) {
	in := &sample{Name: "too-long-for-the-cap", Counts: []uint32{1}}

	_, err := Marshal(in, WithMaxSize(8))
	require.ErrorIs(t, err, ErrAllocation)
	assert.Equal(t, "too-long-for-the-cap", in.Name)

	// Retrying without the cap succeeds.
	_, err = Marshal(in)
	assert.NoError(t, err)
}

func TestInflateDiscardsPriorState(t *testing.T) {
	data, err := Marshal(&sample{Name: "new"})
	require.NoError(t, err)

	target := &sample{Name: "old", Counts: []uint32{9, 9, 9}}
	require.NoError(t, Unmarshal(data, target))
	assert.Equal(t, "new", target.Name)
	assert.Empty(t, target.Counts)
}

func TestInflateTruncatedInput(t *testing.T) {
	data, err := Marshal(&sample{Name: "abc", Counts: []uint32{1, 2}})
	require.NoError(t, err)

	for cut := 0; cut < len(data); cut++ {
		var out sample
		err := Unmarshal(data[:cut], &out)
		assert.ErrorIs(t, err, ErrStreamClosed, "cut at %d", cut)
	}
}

func TestUnmarshalTrailingBytes(t *testing.T) {
	data, err := Marshal(&sample{Name: "abc"})
	require.NoError(t, err)

	var out sample
	err = Unmarshal(append(data, 0), &out)
	assert.ErrorIs(t, err, ErrMalformed)
}

// ============================================================================
// Fixed Value Tests
// ============================================================================

func TestValueRoundTrip(t *testing.T) {
	out := NewOutputBuffer()
	require.NoError(t, WriteValue(out, int8(-3)))
	require.NoError(t, WriteValue(out, uint16(0xbeef)))
	require.NoError(t, WriteValue(out, int64(-1<<40)))
	require.NoError(t, WriteValue(out, 3.5))
	require.NoError(t, WriteValue(out, float32(0.25)))
	require.NoError(t, WriteValue(out, true))
	assert.Equal(t, 1+2+8+8+4+1, out.Len())

	in := NewInputBuffer(out.Bytes())
	var (
		a int8
		b uint16
		c int64
		d float64
		e float32
		f bool
	)
	require.NoError(t, ReadValue(in, &a))
	require.NoError(t, ReadValue(in, &b))
	require.NoError(t, ReadValue(in, &c))
	require.NoError(t, ReadValue(in, &d))
	require.NoError(t, ReadValue(in, &e))
	require.NoError(t, ReadValue(in, &f))

	assert.Equal(t, int8(-3), a)
	assert.Equal(t, uint16(0xbeef), b)
	assert.Equal(t, int64(-1<<40), c)
	assert.Equal(t, 3.5, d)
	assert.Equal(t, float32(0.25), e)
	assert.True(t, f)
	assert.Zero(t, in.Remaining())
}

func TestReadValueShortInput(t *testing.T) {
	in := NewInputBuffer([]byte{1, 2, 3})

	var v uint32
	assert.ErrorIs(t, ReadValue(in, &v), ErrStreamClosed)
	assert.Equal(t, 3, in.Remaining(), "failed read must not consume")
}

type flag bool

func TestReadValueRejectsInvalidBool(t *testing.T) {
	for _, raw := range []byte{0x02, 0x80, 0xff} {
		var b bool
		err := ReadValue(NewInputBuffer([]byte{raw}), &b)
		assert.ErrorIs(t, err, ErrMalformed, "byte %#x", raw)
		assert.False(t, b)

		var f flag
		err = ReadValue(NewInputBuffer([]byte{raw}), &f)
		assert.ErrorIs(t, err, ErrMalformed, "named bool, byte %#x", raw)
		assert.Equal(t, flag(false), f)
	}

	var b bool
	require.NoError(t, ReadValue(NewInputBuffer([]byte{0x01}), &b))
	assert.True(t, b)
	require.NoError(t, ReadValue(NewInputBuffer([]byte{0x00}), &b))
	assert.False(t, b)
}

func TestReadValueAcceptsHighByteIntegers(t *testing.T) {
	var u uint8
	require.NoError(t, ReadValue(NewInputBuffer([]byte{0xff}), &u))
	assert.Equal(t, uint8(0xff), u)
}

type namedCount uint32

func TestValueNamedType(t *testing.T) {
	out := NewOutputBuffer()
	require.NoError(t, WriteValue(out, namedCount(42)))

	var got namedCount
	require.NoError(t, ReadValue(NewInputBuffer(out.Bytes()), &got))
	assert.Equal(t, namedCount(42), got)
}

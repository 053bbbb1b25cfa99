package xdr

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/marmos91/ntstm/pkg/stream"
)

// ============================================================================
// Encoding Tests
// ============================================================================

func TestWriteOpaque_Padding(t *testing.T) {
	tests := []struct {
		data []byte
		want []byte
	}{
		{nil, []byte{0, 0, 0, 0}},
		{[]byte{1}, []byte{0, 0, 0, 1, 1, 0, 0, 0}},
		{[]byte{1, 2, 3}, []byte{0, 0, 0, 3, 1, 2, 3, 0}},
		{[]byte{1, 2, 3, 4}, []byte{0, 0, 0, 4, 1, 2, 3, 4}},
		{[]byte{1, 2, 3, 4, 5}, []byte{0, 0, 0, 5, 1, 2, 3, 4, 5, 0, 0, 0}},
	}

	for _, tt := range tests {
		out := stream.NewOutputBuffer()
		if err := WriteOpaque(out, tt.data); err != nil {
			t.Fatalf("WriteOpaque(%v) failed: %v", tt.data, err)
		}
		if !bytes.Equal(out.Bytes(), tt.want) {
			t.Errorf("WriteOpaque(%v) = %v, want %v", tt.data, out.Bytes(), tt.want)
		}
		if out.Len()%4 != 0 {
			t.Errorf("encoded length %d not 4-byte aligned", out.Len())
		}
	}
}

func TestWriteOpaque_TooLong(t *testing.T) {
	out := stream.NewOutputBuffer()
	err := WriteOpaque(out, make([]byte, MaxOpaqueLength+1))
	if !errors.Is(err, stream.ErrMalformed) {
		t.Fatalf("WriteOpaque error = %v, want ErrMalformed", err)
	}
	if out.Len() != 0 {
		t.Errorf("oversized opaque wrote %d bytes", out.Len())
	}
}

func TestWriteIntegers_BigEndian(t *testing.T) {
	out := stream.NewOutputBuffer()
	if err := WriteUint32(out, 0x01020304); err != nil {
		t.Fatal(err)
	}
	if err := WriteInt32(out, -1); err != nil {
		t.Fatal(err)
	}
	if err := WriteUint64(out, 0x0102030405060708); err != nil {
		t.Fatal(err)
	}
	if err := WriteBool(out, true); err != nil {
		t.Fatal(err)
	}

	want := []byte{
		1, 2, 3, 4,
		0xff, 0xff, 0xff, 0xff,
		1, 2, 3, 4, 5, 6, 7, 8,
		0, 0, 0, 1,
	}
	if !bytes.Equal(out.Bytes(), want) {
		t.Errorf("encoded = %v, want %v", out.Bytes(), want)
	}
}

func TestWriteFails_PropagatesKind(t *testing.T) {
	out := stream.NewOutputBuffer(stream.WithGrowthShift(0), stream.WithMaxSize(2))
	err := WriteUint32(out, 7)
	if !stream.IsKind(err, stream.KindAllocation) {
		t.Fatalf("WriteUint32 error = %v, want Allocation kind", err)
	}
}

// ============================================================================
// Decoding Tests
// ============================================================================

func TestDecode_Roundtrip(t *testing.T) {
	out := stream.NewOutputBuffer()
	_ = WriteString(out, "export/data")
	_ = WriteInt64(out, -42)
	_ = WriteBool(out, false)
	_ = WriteFixedOpaque(out, []byte{9, 8, 7, 6, 5})
	_ = EncodeUnionDiscriminant(out, 2)

	in := stream.NewInputBuffer(out.Bytes())

	s, err := DecodeString(in)
	if err != nil || s != "export/data" {
		t.Fatalf("DecodeString = %q, %v", s, err)
	}
	i, err := DecodeInt64(in)
	if err != nil || i != -42 {
		t.Fatalf("DecodeInt64 = %d, %v", i, err)
	}
	b, err := DecodeBool(in)
	if err != nil || b {
		t.Fatalf("DecodeBool = %v, %v", b, err)
	}
	fixed, err := DecodeFixedOpaque(in, 5)
	if err != nil || !bytes.Equal(fixed, []byte{9, 8, 7, 6, 5}) {
		t.Fatalf("DecodeFixedOpaque = %v, %v", fixed, err)
	}
	disc, err := DecodeUnionDiscriminantIn(in, 1, 2, 3)
	if err != nil || disc != 2 {
		t.Fatalf("DecodeUnionDiscriminantIn = %d, %v", disc, err)
	}
	if in.Remaining() != 0 {
		t.Errorf("%d bytes left over", in.Remaining())
	}
}

func TestDecodeOpaque_LengthTooLarge(t *testing.T) {
	data := make([]byte, 4)
	binary.BigEndian.PutUint32(data, MaxOpaqueLength+1)

	_, err := DecodeOpaque(stream.NewInputBuffer(data))
	if !errors.Is(err, stream.ErrMalformed) {
		t.Fatalf("DecodeOpaque error = %v, want ErrMalformed", err)
	}
}

func TestDecodeOpaque_NonZeroPadding(t *testing.T) {
	data := []byte{0, 0, 0, 1, 0xaa, 0, 1, 0}

	_, err := DecodeOpaque(stream.NewInputBuffer(data))
	if !errors.Is(err, stream.ErrMalformed) {
		t.Fatalf("DecodeOpaque error = %v, want ErrMalformed", err)
	}
}

func TestDecodeOpaque_Truncated(t *testing.T) {
	cases := map[string][]byte{
		"NoLength":  {0, 0},
		"ShortData": {0, 0, 0, 4, 1, 2},
		"NoPadding": {0, 0, 0, 1, 1},
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeOpaque(stream.NewInputBuffer(data))
			if !errors.Is(err, stream.ErrStreamClosed) {
				t.Fatalf("DecodeOpaque error = %v, want ErrStreamClosed", err)
			}
		})
	}
}

func TestDecodeBool_Invalid(t *testing.T) {
	_, err := DecodeBool(stream.NewInputBuffer([]byte{0, 0, 0, 2}))
	if !errors.Is(err, stream.ErrMalformed) {
		t.Fatalf("DecodeBool error = %v, want ErrMalformed", err)
	}
}

func TestDecodeUnionDiscriminantIn_Unknown(t *testing.T) {
	_, err := DecodeUnionDiscriminantIn(stream.NewInputBuffer([]byte{0, 0, 0, 9}), 0, 1)
	if !errors.Is(err, stream.ErrMalformed) {
		t.Fatalf("error = %v, want ErrMalformed", err)
	}
}

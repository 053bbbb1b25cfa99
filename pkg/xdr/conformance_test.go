package xdr

import (
	"bytes"
	"testing"

	refxdr "github.com/rasky/go-xdr/xdr2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/ntstm/pkg/stream"
)

// record mirrors the field order written by encodeRecord so the reflection
// based encoder can serve as a reference.
type record struct {
	ID     [16]byte
	Flags  uint32
	Offset int32
	Size   uint64
	Stamp  int64
	Active bool
	Name   string
	Data   []byte
}

func encodeRecord(w stream.Writer, r record) error {
	steps := []func() error{
		func() error { return WriteFixedOpaque(w, r.ID[:]) },
		func() error { return WriteUint32(w, r.Flags) },
		func() error { return WriteInt32(w, r.Offset) },
		func() error { return WriteUint64(w, r.Size) },
		func() error { return WriteInt64(w, r.Stamp) },
		func() error { return WriteBool(w, r.Active) },
		func() error { return WriteString(w, r.Name) },
		func() error { return WriteOpaque(w, r.Data) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func decodeRecord(r stream.Reader) (record, error) {
	var rec record
	id, err := DecodeFixedOpaque(r, 16)
	if err != nil {
		return rec, err
	}
	copy(rec.ID[:], id)
	if rec.Flags, err = DecodeUint32(r); err != nil {
		return rec, err
	}
	if rec.Offset, err = DecodeInt32(r); err != nil {
		return rec, err
	}
	if rec.Size, err = DecodeUint64(r); err != nil {
		return rec, err
	}
	if rec.Stamp, err = DecodeInt64(r); err != nil {
		return rec, err
	}
	if rec.Active, err = DecodeBool(r); err != nil {
		return rec, err
	}
	if rec.Name, err = DecodeString(r); err != nil {
		return rec, err
	}
	if rec.Data, err = DecodeOpaque(r); err != nil {
		return rec, err
	}
	return rec, nil
}

func conformanceRecords() map[string]record {
	return map[string]record{
		"zero": {Data: []byte{0}},
		"aligned": {
			ID:     [16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16},
			Flags:  0xdeadbeef,
			Offset: -42,
			Size:   1 << 40,
			Stamp:  -1700000000123456789,
			Active: true,
			Name:   "abcd",
			Data:   []byte{1, 2, 3, 4, 5, 6, 7, 8},
		},
		"padded": {
			Flags: 7,
			Size:  3,
			Name:  "users/42",
			Data:  []byte{0xff, 0xfe, 0xfd},
		},
	}
}

func TestEncoding_MatchesReference(t *testing.T) {
	for name, rec := range conformanceRecords() {
		t.Run(name, func(t *testing.T) {
			var want bytes.Buffer
			_, err := refxdr.Marshal(&want, &rec)
			require.NoError(t, err)

			out := stream.NewOutputBuffer()
			require.NoError(t, encodeRecord(out, rec))
			assert.Equal(t, want.Bytes(), out.Bytes())
		})
	}
}

func TestDecoding_AcceptsReference(t *testing.T) {
	for name, rec := range conformanceRecords() {
		t.Run(name, func(t *testing.T) {
			var encoded bytes.Buffer
			_, err := refxdr.Marshal(&encoded, &rec)
			require.NoError(t, err)

			in := stream.NewInputBuffer(encoded.Bytes())
			got, err := decodeRecord(in)
			require.NoError(t, err)
			assert.Equal(t, rec, got)
			assert.Zero(t, in.Remaining())

			var back record
			_, err = refxdr.Unmarshal(bytes.NewReader(encoded.Bytes()), &back)
			require.NoError(t, err)
			assert.Equal(t, rec, back)
		})
	}
}

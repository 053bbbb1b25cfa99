package xdr

import (
	"fmt"

	xdr "github.com/rasky/go-xdr/xdr2"

	"github.com/marmos91/ntstm/pkg/stream"
)

// Value makes any Go value that go-xdr can reflect over Serializable.
//
// Structs, slices, strings and fixed-size integers are encoded by
// reflection, so simple records need no hand-written codec:
//
//	v := xdr.Value[MountRequest]{V: req}
//	data, err := stream.Marshal(&v)
//
// Stream failures surface with their original kind. Codec failures (such
// as an unsupported type or an out-of-range enum) become
// stream.ErrMalformed.
type Value[T any] struct {
	V T
}

// Deflate encodes V to w. V is not modified.
func (v *Value[T]) Deflate(w stream.Writer) error {
	adapter := stream.AsIOWriter(w)
	if _, err := xdr.Marshal(adapter, &v.V); err != nil {
		if serr := adapter.Err(); serr != nil {
			return serr
		}
		return fmt.Errorf("xdr marshal: %v: %w", err, stream.ErrMalformed)
	}
	return nil
}

// Inflate resets V to its zero value and decodes it from r.
func (v *Value[T]) Inflate(r stream.Reader) error {
	var zero T
	v.V = zero

	adapter := stream.AsIOReader(r)
	if _, err := xdr.Unmarshal(adapter, &v.V); err != nil {
		v.V = zero
		if serr := adapter.Err(); serr != nil {
			return serr
		}
		return fmt.Errorf("xdr unmarshal: %v: %w", err, stream.ErrMalformed)
	}
	return nil
}

var _ stream.Serializable = (*Value[uint32])(nil)

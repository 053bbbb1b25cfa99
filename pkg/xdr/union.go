package xdr

import (
	"fmt"

	"github.com/marmos91/ntstm/pkg/stream"
)

// ============================================================================
// XDR Discriminated Union Helpers
// ============================================================================

// EncodeUnionDiscriminant writes the uint32 discriminant of an XDR union.
// This is an alias for WriteUint32 that makes union encode code
// self-documenting.
//
// Per RFC 4506 Section 4.15 (Discriminated Unions):
// The discriminant is always encoded as a uint32 before the union arm data.
func EncodeUnionDiscriminant(w stream.Writer, disc uint32) error {
	return WriteUint32(w, disc)
}

// DecodeUnionDiscriminant reads the uint32 discriminant of an XDR union.
func DecodeUnionDiscriminant(r stream.Reader) (uint32, error) {
	return DecodeUint32(r)
}

// DecodeUnionDiscriminantIn reads a discriminant and checks it is one of
// the allowed arms. Unknown arms fail with stream.ErrMalformed.
func DecodeUnionDiscriminantIn(r stream.Reader, allowed ...uint32) (uint32, error) {
	disc, err := DecodeUint32(r)
	if err != nil {
		return 0, err
	}
	for _, a := range allowed {
		if disc == a {
			return disc, nil
		}
	}
	return 0, fmt.Errorf("unknown union discriminant %d: %w", disc, stream.ErrMalformed)
}

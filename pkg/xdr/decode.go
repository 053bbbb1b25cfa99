package xdr

import (
	"encoding/binary"
	"fmt"

	"github.com/marmos91/ntstm/pkg/stream"
)

// MaxOpaqueLength bounds variable-length opaque data and strings (1 MiB).
// Larger lengths are treated as malformed input.
const MaxOpaqueLength = 1024 * 1024

// ============================================================================
// XDR Decoding Helpers - Wire Format → Go Types
// ============================================================================

// DecodeOpaque decodes XDR variable-length opaque data.
//
// Per RFC 4506 Section 4.10:
// Format: [length:uint32][data:length bytes][padding:0-3 bytes]
//
// A length above MaxOpaqueLength or non-zero padding fails with
// stream.ErrMalformed. Short input fails with stream.ErrStreamClosed.
func DecodeOpaque(r stream.Reader) ([]byte, error) {
	length, err := DecodeUint32(r)
	if err != nil {
		return nil, fmt.Errorf("read length: %w", err)
	}

	// Protect against hostile lengths before allocating.
	if length > MaxOpaqueLength {
		return nil, fmt.Errorf("opaque length %d exceeds maximum %d: %w", length, MaxOpaqueLength, stream.ErrMalformed)
	}

	data := make([]byte, length)
	if err := r.ReadFull(data); err != nil {
		return nil, fmt.Errorf("read data: %w", err)
	}
	if err := skipPadding(r, length); err != nil {
		return nil, err
	}
	return data, nil
}

// DecodeFixedOpaque decodes n bytes of fixed-length opaque data and its
// padding.
func DecodeFixedOpaque(r stream.Reader, n uint32) ([]byte, error) {
	if n > MaxOpaqueLength {
		return nil, fmt.Errorf("fixed opaque length %d exceeds maximum %d: %w", n, MaxOpaqueLength, stream.ErrMalformed)
	}
	data := make([]byte, n)
	if err := r.ReadFull(data); err != nil {
		return nil, fmt.Errorf("read fixed opaque: %w", err)
	}
	if err := skipPadding(r, n); err != nil {
		return nil, err
	}
	return data, nil
}

// skipPadding consumes and checks the padding after length bytes. XDR
// padding is max 3 bytes, so a stack buffer is enough.
func skipPadding(r stream.Reader, length uint32) error {
	padding := Padding(length)
	if padding == 0 {
		return nil
	}

	var padBuf [3]byte
	if err := r.ReadFull(padBuf[:padding]); err != nil {
		return fmt.Errorf("skip padding: %w", err)
	}
	for _, b := range padBuf[:padding] {
		if b != 0 {
			return fmt.Errorf("non-zero padding: %w", stream.ErrMalformed)
		}
	}
	return nil
}

// DecodeString decodes an XDR variable-length string.
func DecodeString(r stream.Reader) (string, error) {
	data, err := DecodeOpaque(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeUint32 decodes a big-endian 32-bit unsigned integer.
func DecodeUint32(r stream.Reader) (uint32, error) {
	var buf [4]byte
	if err := r.ReadFull(buf[:]); err != nil {
		return 0, fmt.Errorf("read uint32: %w", err)
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

// DecodeUint64 decodes a big-endian 64-bit unsigned integer.
func DecodeUint64(r stream.Reader) (uint64, error) {
	var buf [8]byte
	if err := r.ReadFull(buf[:]); err != nil {
		return 0, fmt.Errorf("read uint64: %w", err)
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}

// DecodeInt32 decodes a 32-bit two's complement integer.
func DecodeInt32(r stream.Reader) (int32, error) {
	v, err := DecodeUint32(r)
	return int32(v), err
}

// DecodeInt64 decodes a 64-bit two's complement integer.
func DecodeInt64(r stream.Reader) (int64, error) {
	v, err := DecodeUint64(r)
	return int64(v), err
}

// DecodeBool decodes an XDR boolean. Only 0 and 1 are valid; other values
// fail with stream.ErrMalformed.
func DecodeBool(r stream.Reader) (bool, error) {
	v, err := DecodeUint32(r)
	if err != nil {
		return false, err
	}
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("boolean value %d: %w", v, stream.ErrMalformed)
	}
}

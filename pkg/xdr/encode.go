package xdr

import (
	"encoding/binary"
	"fmt"

	"github.com/marmos91/ntstm/pkg/stream"
)

// ============================================================================
// XDR Encoding Helpers - Go Types → Wire Format
// ============================================================================

// zeroPad is the source of padding bytes; XDR padding is at most 3 bytes.
var zeroPad [3]byte

// WriteOpaque encodes variable-length opaque data: length + data + padding.
//
// Per RFC 4506 Section 4.10:
// Format: [length:uint32][data:bytes][padding:0-3 bytes]
//
// Data longer than MaxOpaqueLength fails with stream.ErrMalformed before
// anything is written.
//
// Example:
//
//	[]byte{0x01, 0x02, 0x03} → [00 00 00 03][01 02 03][00] (8 bytes total)
func WriteOpaque(w stream.Writer, data []byte) error {
	if len(data) > MaxOpaqueLength {
		return fmt.Errorf("opaque length %d exceeds maximum %d: %w", len(data), MaxOpaqueLength, stream.ErrMalformed)
	}

	length := uint32(len(data))
	if err := WriteUint32(w, length); err != nil {
		return fmt.Errorf("write opaque length: %w", err)
	}
	if err := w.WriteFull(data); err != nil {
		return fmt.Errorf("write opaque data: %w", err)
	}
	return WritePadding(w, length)
}

// WriteString encodes a string in XDR format. Strings share the opaque
// encoding.
//
// Example:
//
//	"abc" (3 bytes) → [00 00 00 03][61 62 63][00] (8 bytes total)
//	"test" (4 bytes) → [00 00 00 04][74 65 73 74] (8 bytes total)
func WriteString(w stream.Writer, s string) error {
	return WriteOpaque(w, []byte(s))
}

// WriteFixedOpaque encodes fixed-length opaque data: data + padding, with
// no length prefix (RFC 4506 Section 4.9).
func WriteFixedOpaque(w stream.Writer, data []byte) error {
	if err := w.WriteFull(data); err != nil {
		return fmt.Errorf("write fixed opaque: %w", err)
	}
	return WritePadding(w, uint32(len(data)))
}

// WritePadding writes the zero bytes that align dataLen to a 4-byte
// boundary.
//
// Example:
//
//	dataLen=3 → writes 1 padding byte
//	dataLen=4 → writes 0 padding bytes
//	dataLen=5 → writes 3 padding bytes
func WritePadding(w stream.Writer, dataLen uint32) error {
	padding := Padding(dataLen)
	if padding == 0 {
		return nil
	}
	if err := w.WriteFull(zeroPad[:padding]); err != nil {
		return fmt.Errorf("write padding: %w", err)
	}
	return nil
}

// Padding returns the number of padding bytes that follow dataLen bytes.
func Padding(dataLen uint32) uint32 {
	return (4 - (dataLen % 4)) % 4
}

// WriteUint32 encodes a 32-bit unsigned integer in big-endian byte order.
func WriteUint32(w stream.Writer, v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	if err := w.WriteFull(buf[:]); err != nil {
		return fmt.Errorf("write uint32: %w", err)
	}
	return nil
}

// WriteUint64 encodes a 64-bit unsigned integer (hyper) in big-endian
// byte order.
func WriteUint64(w stream.Writer, v uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	if err := w.WriteFull(buf[:]); err != nil {
		return fmt.Errorf("write uint64: %w", err)
	}
	return nil
}

// WriteInt32 encodes a 32-bit signed integer using two's complement.
func WriteInt32(w stream.Writer, v int32) error {
	return WriteUint32(w, uint32(v))
}

// WriteInt64 encodes a 64-bit signed integer using two's complement.
func WriteInt64(w stream.Writer, v int64) error {
	return WriteUint64(w, uint64(v))
}

// WriteBool encodes a boolean as a uint32 where 0 = false, 1 = true.
func WriteBool(w stream.Writer, v bool) error {
	var val uint32
	if v {
		val = 1
	}
	return WriteUint32(w, val)
}

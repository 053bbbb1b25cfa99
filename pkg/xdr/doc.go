// Package xdr provides XDR (External Data Representation) encoding and
// decoding primitives per RFC 4506, written against the full-transfer
// stream contract.
//
// Key characteristics of XDR:
//   - Big-endian byte order for all multi-byte integers
//   - 4-byte alignment for all data types
//   - Variable-length data is preceded by a 4-byte length
//   - Strings and opaque data are padded to 4-byte boundaries
//
// Every helper performs whole-field transfers: a field is either written or
// read completely, or the stream error is returned wrapped with the name of
// the field. Malformed input (oversized lengths, non-zero padding) fails
// with stream.ErrMalformed.
//
// Reference: RFC 4506 - XDR: External Data Representation Standard
// https://tools.ietf.org/html/rfc4506
package xdr

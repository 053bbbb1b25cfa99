// Package wal implements an append-only record log on top of the
// full-transfer streams.
//
// File Format:
//
//	Header (16 bytes):
//	  - Magic: "NTWL" (4 bytes)
//	  - Version: uint16 big-endian (2 bytes)
//	  - Reserved: 10 bytes, zero
//
//	Frames (variable):
//	  - Payload length: uint32 big-endian (4 bytes)
//	  - CRC-32C of the payload: uint32 big-endian (4 bytes)
//	  - Payload: one XDR-encoded Entry
//
// Every frame is written with a single WriteFull on a descriptor opened
// with O_APPEND, so concurrent appenders in one process never interleave.
//
// Recovery:
// Recover maps the file read-only and replays frames through an
// InputBuffer. A frame cut short at the end of the file (a torn tail left
// by a crash mid-append) ends the replay and is truncated away; a bad
// checksum or an undecodable payload anywhere fails with ErrCorrupted.
package wal

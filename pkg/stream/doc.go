// Package stream provides full-transfer byte streams and the serialization
// contract built on top of them.
//
// Every stream exposes a single primitive per direction:
//
//   - Reader.ReadFull fills the whole destination or fails
//   - Writer.WriteFull commits the whole source or fails
//
// A short transfer is never reported as success. Failures are values of
// type Error carrying one ErrorKind and nothing else, so reporting a
// failure does not allocate.
//
// Implementations:
//   - InputBuffer: read-only view over caller memory (no allocation)
//   - OutputBuffer: owned, growable output buffer with a fixed growth unit
//   - FileStream: blocking file or socket descriptor (unix only)
//
// Streams are not safe for concurrent use. Each instance belongs to exactly
// one owner at a time and performs no internal locking.
//
// # Serialization
//
// Types implementing Serializable inflate themselves from a Reader and
// deflate themselves to a Writer. Marshal and Unmarshal wrap the common
// case of an in-memory round trip:
//
//	data, err := stream.Marshal(record)
//	...
//	var fresh Record
//	err = stream.Unmarshal(data, &fresh)
package stream

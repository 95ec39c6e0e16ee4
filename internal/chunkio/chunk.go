// Package chunkio turns either a live USB bulk endpoint or a directory of
// captured hex dumps into an ordered sequence of Chunk values. Both
// backends share the Source contract so the rest of the pipeline never
// knows which one it is reading from.
package chunkio

import "errors"

// ErrEndOfStream is returned by Source.Next when an offline source has
// exhausted its configured repeat count. Live sources never return it.
var ErrEndOfStream = errors.New("chunkio: end of stream")

// Chunk is one fixed-size bulk transfer, tagged with its position in the
// stream. Chunks are immutable and single-owner: the classifier and
// decoders borrow Data for the duration of one decode step and must not
// retain it past that call (decoders that need to keep bytes, like the
// JPEG reassembler, copy into their own buffer).
type Chunk struct {
	Seq  uint64
	Data []byte
}

// Source abstracts a sequence of Chunks. Sequence numbers returned by Next
// are strictly increasing and gap-free within one Source.
type Source interface {
	// Next blocks until a chunk is available, the source is exhausted
	// (ErrEndOfStream), or a transport error occurs.
	Next() (Chunk, error)

	// Close releases any underlying device handle or file descriptors.
	// Idempotent.
	Close() error
}

package pipeline

import (
	"errors"
	"fmt"

	"github.com/e7canasta/flirone-core/internal/assembler"
	"github.com/e7canasta/flirone-core/internal/chunkio"
	"github.com/e7canasta/flirone-core/internal/classify"
)

// RecordingError wraps a write-through failure from the optional
// recorder (spec.md §4.2, §7). It is always fatal to the stream.
type RecordingError struct {
	Cause error
}

func (e *RecordingError) Error() string { return fmt.Sprintf("pipeline: recording failed: %v", e.Cause) }
func (e *RecordingError) Unwrap() error { return e.Cause }

// Driver runs the cooperative-pull chain C1 → C4 → C9 on whichever
// goroutine calls Step (spec.md §5's default single-threaded mode).
type Driver struct {
	source   chunkio.Source
	recorder *chunkio.Recorder
	asm      *assembler.Assembler
}

// New wires a chunk source, an optional recorder (nil disables
// recording), and a fresh assembler into a Driver.
func New(source chunkio.Source, recorder *chunkio.Recorder) *Driver {
	return &Driver{
		source:   source,
		recorder: recorder,
		asm:      assembler.New(),
	}
}

// Diagnostics exposes the assembler's desync/unknown counters.
func (d *Driver) Diagnostics() assembler.Diagnostics {
	return d.asm.Diagnostics()
}

// Step pulls and classifies chunks until one closes a non-empty frame,
// the source is exhausted (chunkio.ErrEndOfStream), or a transport or
// recording error occurs. A zero-length chunk (live-mode timeout
// heartbeat) is skipped before classification, so it is neither recorded
// nor counted and does not affect assembler state.
func (d *Driver) Step() (*assembler.Frame, error) {
	for {
		chunk, err := d.source.Next()
		if err != nil {
			if errors.Is(err, chunkio.ErrEndOfStream) {
				return nil, chunkio.ErrEndOfStream
			}
			return nil, fmt.Errorf("pipeline: transport error: %w", err)
		}

		if d.recorder != nil && len(chunk.Data) > 0 {
			if err := d.recorder.Record(chunk); err != nil {
				d.recorder.Cleanup()
				return nil, &RecordingError{Cause: err}
			}
		}

		if len(chunk.Data) == 0 {
			continue
		}

		class := classify.Classify(chunk.Data, d.asm)
		if frame := d.asm.Feed(class, chunk.Data); frame != nil {
			return frame, nil
		}
	}
}

// Close releases the underlying chunk source.
func (d *Driver) Close() error {
	return d.source.Close()
}

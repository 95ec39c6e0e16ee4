package flirone

import (
	"errors"
	"fmt"

	"github.com/e7canasta/flirone-core/internal/chunkio"
	"github.com/e7canasta/flirone-core/internal/handshake"
	"github.com/e7canasta/flirone-core/internal/pipeline"
)

// ErrEndOfStream is returned by NextFrame when an offline source has
// exhausted its configured repeat count. It is terminal but not an
// error condition (spec.md §7).
var ErrEndOfStream = chunkio.ErrEndOfStream

// HandshakeError reports that the device refused device bring-up; fatal
// to OpenLive.
type HandshakeError = handshake.HandshakeError

// TransportError reports a bulk-read failure after the handshake
// completed, or a disappeared device. Fatal to the open stream.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string { return fmt.Sprintf("flirone: transport error: %v", e.Cause) }
func (e *TransportError) Unwrap() error { return e.Cause }

// RecordingError reports a write-through failure in the optional
// recorder. Fatal.
type RecordingError = pipeline.RecordingError

// classifyFatal wraps a pipeline-level error into the appropriate public
// error type, or passes ErrEndOfStream through unchanged.
func classifyFatal(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, chunkio.ErrEndOfStream) {
		return ErrEndOfStream
	}
	var recErr *pipeline.RecordingError
	if errors.As(err, &recErr) {
		return recErr
	}
	return &TransportError{Cause: err}
}

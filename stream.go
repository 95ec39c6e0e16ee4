package flirone

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/e7canasta/flirone-core/internal/chunkio"
	"github.com/e7canasta/flirone-core/internal/config"
	"github.com/e7canasta/flirone-core/internal/pipeline"
)

// Stream is the public pull-based sequence of composite frames (spec.md
// §4.10, C10). It owns the lifecycle of the chunk source, the optional
// recorder, and the assembler. A Stream is not safe for concurrent use.
type Stream struct {
	driver   *pipeline.Driver
	recorder *chunkio.Recorder
	nextIdx  uint64
	closed   bool
}

// OpenLive opens the FLIR One device, runs the bring-up handshake, and
// returns a Stream ready to pull composite frames. Fail-fast: validation
// and the handshake both happen before OpenLive returns.
func OpenLive(opts LiveOptions) (*Stream, error) {
	cfg := config.Default()
	if opts.VendorID != 0 {
		cfg.Device.VendorID = opts.VendorID
	}
	if opts.ProductID != 0 {
		cfg.Device.ProductID = opts.ProductID
	}
	if opts.Interface != 0 {
		cfg.Device.Interface = opts.Interface
	}
	if opts.BulkEndpoint != 0 {
		cfg.Device.BulkEndpoint = opts.BulkEndpoint
	}
	if opts.SliceBytes != 0 {
		cfg.Device.SliceBytes = opts.SliceBytes
	}
	readTimeout := opts.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = time.Duration(cfg.Device.ReadTimeoutMS) * time.Millisecond
	}

	source, err := chunkio.OpenLive(cfg.Device.VendorID, cfg.Device.ProductID, cfg.Device.Interface, cfg.Device.BulkEndpoint, cfg.Device.SliceBytes, readTimeout)
	if err != nil {
		return nil, err
	}

	var recorder *chunkio.Recorder
	if opts.RecordDir != "" {
		recorder, err = chunkio.NewRecorder(opts.RecordDir)
		if err != nil {
			source.Close()
			return nil, err
		}
	}

	slog.Info("flirone: live stream opened", "record_dir", opts.RecordDir)
	return &Stream{
		driver:   pipeline.New(source, recorder),
		recorder: recorder,
	}, nil
}

// OpenOffline replays a previously recorded capture directory.
func OpenOffline(dir string, opts OfflineOptions) (*Stream, error) {
	source, err := chunkio.OpenOffline(dir, opts.Repeat)
	if err != nil {
		return nil, fmt.Errorf("flirone: %w", err)
	}
	return &Stream{driver: pipeline.New(source, nil)}, nil
}

// NextFrame runs the pipeline until it either emits one composite frame,
// the source is exhausted (ErrEndOfStream), or a fatal error occurs.
func (s *Stream) NextFrame() (*CompositeFrame, error) {
	if s.closed {
		return nil, fmt.Errorf("flirone: stream is closed")
	}

	af, err := s.driver.Step()
	if err != nil {
		return nil, classifyFatal(err)
	}

	frame := &CompositeFrame{
		Idx:       s.nextIdx,
		Thermal:   af.Thermal,
		Visible:   af.Visible,
		Telemetry: af.Telemetry,
		EdgeMask:  af.EdgeMask,
		LegacyAGC: af.LegacyAGC,
	}
	s.nextIdx++
	return frame, nil
}

// Close releases the device (or offline file handles) and any recorder
// resources. Idempotent.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.driver.Close()
}

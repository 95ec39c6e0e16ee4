// Package flirone is a userspace driver for the core streaming pipeline
// of a FLIR One Pro Gen-3-class dual-sensor thermal imaging camera: USB
// bring-up, slice classification, per-class decoding, and frame assembly,
// turning an opaque stream of 32 KiB bulk transfers into an ordered
// sequence of CompositeFrame values.
//
// # Quick Start
//
// Open a live device and pull frames until the stream ends or fails:
//
//	stream, err := flirone.OpenLive(flirone.LiveOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer stream.Close()
//
//	for {
//	    frame, err := stream.NextFrame()
//	    if errors.Is(err, flirone.ErrEndOfStream) {
//	        break
//	    }
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    // frame.Thermal, frame.Visible, frame.Telemetry, frame.EdgeMask
//	    // and frame.LegacyAGC are each optional; at least one is always
//	    // present.
//	}
//
// Replay a previously recorded capture directory instead:
//
//	stream, err := flirone.OpenOffline("./captures/run-1", flirone.OfflineOptions{Repeat: 0})
//
// # Scope
//
// This package owns exactly the pipeline from USB bulk transfer to
// CompositeFrame: device handshake, classification, decoding, and frame
// assembly. Color-palette mapping, thermal/visible fusion, on-screen
// display, FPS metering, and the command-line entry point are external
// collaborators that consume CompositeFrame values through this API —
// they are not implemented here.
//
// # Concurrency
//
// By default a Stream runs its pipeline on the calling goroutine inside
// NextFrame: the only suspension point is the bounded bulk-IN read on the
// live backend. A Stream is not safe for concurrent use by multiple
// goroutines; callers that need overlapped I/O should wrap a Stream in
// their own producer goroutine and a bounded channel. (internal/pipeline.Queue
// is a bounded, blocking FIFO built on a mutex and condition variables for
// such a producer/consumer split; Stream itself does not use it.)
package flirone

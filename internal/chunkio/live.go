package chunkio

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/e7canasta/flirone-core/internal/handshake"
)

// LiveSource reads fixed-size bulk transfers from the camera's streaming
// endpoint. It owns the USB device handle exclusively for its lifetime
// (spec.md §5): no other component may touch dev concurrently.
type LiveSource struct {
	dev         usbDevice
	endpoint    uint8
	sliceBytes  int
	readTimeout time.Duration
	seq         uint64
}

// OpenLive opens the vid:pid device, runs the device bring-up handshake
// (internal/handshake, which claims interfaces 0-2 itself), and returns a
// Source bound to the streaming bulk endpoint. The device handle is
// exclusively owned by the returned LiveSource for its lifetime
// (spec.md §5).
func OpenLive(vid, pid uint16, iface, endpoint uint8, sliceBytes int, readTimeout time.Duration) (*LiveSource, error) {
	dev, err := openUSBDevice(vid, pid)
	if err != nil {
		return nil, err
	}

	if err := handshake.Run(dev); err != nil {
		dev.Close()
		return nil, err
	}

	slog.Info("chunkio: live source opened",
		"vendor_id", fmt.Sprintf("0x%04X", vid),
		"product_id", fmt.Sprintf("0x%04X", pid),
		"interface", iface,
		"endpoint", fmt.Sprintf("0x%02X", endpoint),
	)

	return &LiveSource{
		dev:         dev,
		endpoint:    endpoint,
		sliceBytes:  sliceBytes,
		readTimeout: readTimeout,
	}, nil
}

// Next issues one bulk IN request. A timeout (the device has nothing ready)
// yields a valid zero-length chunk rather than an error, per spec.md §4.1;
// so does an endpoint stall, after the halt is cleared. The pipeline skips
// zero-length chunks before classification. Any other transport failure
// is returned wrapped and is fatal to the caller's stream.
func (s *LiveSource) Next() (Chunk, error) {
	buf := make([]byte, s.sliceBytes)

	n, err := s.dev.BulkTransfer(s.endpoint, buf, s.readTimeout)
	if err != nil {
		if isTimeout(err) {
			seq := s.seq
			s.seq++
			return Chunk{Seq: seq, Data: buf[:0]}, nil
		}
		if isStall(err) {
			if clearErr := s.dev.ClearHalt(s.endpoint); clearErr != nil {
				slog.Warn("chunkio: failed to clear halt after stall", "error", clearErr)
			}
			seq := s.seq
			s.seq++
			return Chunk{Seq: seq, Data: buf[:0]}, nil
		}
		return Chunk{}, fmt.Errorf("chunkio: bulk transfer failed: %w", err)
	}

	seq := s.seq
	s.seq++
	return Chunk{Seq: seq, Data: buf[:n]}, nil
}

// Close releases the claimed interface and the device handle. Safe to call
// once; a second call will surface the underlying library's own
// already-closed error, which callers ignore.
func (s *LiveSource) Close() error {
	if err := s.dev.Close(); err != nil {
		return fmt.Errorf("chunkio: failed to close device: %w", err)
	}
	return nil
}

// isTimeout classifies a transport error by message, the same way the
// pack's GStreamer error classifier (rtsp.ClassifyGStreamerError) does for
// its bus errors, since go-usb does not export a distinguishable timeout
// type across platforms.
func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out")
}

// isStall detects an endpoint halt/stall condition that the live backend
// recovers from by clearing the halt, per spec.md §4.1.
func isStall(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "stall") || strings.Contains(msg, "halt") || strings.Contains(msg, "pipe error")
}

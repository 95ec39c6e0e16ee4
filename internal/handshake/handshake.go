// Package handshake runs the fixed device bring-up sequence that moves a
// FLIR One Pro Gen-3 camera from enumeration into bulk streaming mode. The
// byte sequence is a reproduction of the exchange captured from the
// vendor's own host stack (original_source flir_one/usb/handshake.py) and
// is not tunable.
package handshake

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Device is the subset of the live USB transport the handshake drives. It
// mirrors chunkio's usbDevice narrowing so the handshake package has no
// dependency on chunkio or on github.com/kevmo314/go-usb directly.
type Device interface {
	SetConfiguration(config int) error
	ClaimInterface(iface uint8) error
	KernelDriverActive(iface uint8) (bool, error)
	DetachKernelDriver(iface uint8) error
	ControlTransfer(requestType, request uint8, value, index uint16, data []byte, timeout time.Duration) (int, error)
	BulkTransfer(endpoint uint8, data []byte, timeout time.Duration) (int, error)
}

// HandshakeError reports which bring-up step failed. It is always fatal to
// stream construction (spec.md §4.3, §7).
type HandshakeError struct {
	Step  string
	Cause error
}

func (e *HandshakeError) Error() string {
	return fmt.Sprintf("handshake: step %q failed: %v", e.Step, e.Cause)
}

func (e *HandshakeError) Unwrap() error { return e.Cause }

const (
	controlInterface = 0x02 // bulk write interface used for the JSON/binary handshake frames
	maxStepRetries   = 3
	stepTimeout      = 500 * time.Millisecond
)

// controlSetup describes one SET_INTERFACE-style control transfer in the
// bring-up sequence: dev.controlWrite(1, 0x0B, alt, iface, ...) in
// original_source's handshake.py.
type controlSetup struct {
	name  string
	alt   uint16
	iface uint16
}

// bulkWrite is one literal payload written to the handshake interface.
type bulkWrite struct {
	name string
	data []byte
}

// controlSteps and bulkSteps hold the exact, non-tunable bring-up exchange
// (spec.md §4.3, §6). Run issues, in order: configuration select,
// interface claims, the three set-interface control transfers below, then
// four literal bulk frames — a binary open-session header, a JSON openFile
// request, a binary read-stream header, and a JSON readFile request —
// followed by the control transfer that switches the device into
// streaming mode.
var controlSteps = []controlSetup{
	{name: "set-interface-2-alt-0", alt: 0, iface: 2},
	{name: "set-interface-1-alt-0", alt: 0, iface: 1},
	{name: "set-interface-1-alt-1", alt: 1, iface: 1},
}

var bulkSteps = []bulkWrite{
	{
		name: "open-session-header",
		data: []byte("\xCC\x01\x00\x00\x01\x00\x00\x00A\x00\x00\x00\xF8\xB3\xF7\x00"),
	},
	{
		name: "open-file-request",
		data: []byte(`{"type":"openFile","data":{"mode":"r","path":"CameraFiles.zip"}}` + "\x00"),
	},
	{
		name: "read-stream-header",
		data: []byte("\xCC\x01\x00\x00\x01\x00\x00\x00\x33\x00\x00\x00\xEF\xDB\xC1\xC1"),
	},
	{
		name: "read-file-request",
		data: []byte(`{"type":"readFile","data":{"streamIdentifier":10}}` + "\x00"),
	},
}

// finalControlAlt is the interface/alt-setting switch that puts the
// endpoint into streaming mode: ctl(1, 2, wLength=2) in the original.
const finalControlIface = 2
const finalControlAlt = 1

// Run performs the full bring-up sequence against dev. It tolerates up to
// maxStepRetries NAKs or short replies per step (spec.md §4.3) before
// returning a HandshakeError. Run is synchronous and idempotent per open:
// calling it twice on a device that is already streaming is harmless
// (the device simply re-acknowledges the same requests).
func Run(dev Device) error {
	if err := retry("set-configuration", func() error {
		return dev.SetConfiguration(3)
	}); err != nil {
		return &HandshakeError{Step: "set-configuration", Cause: err}
	}

	for _, iface := range []uint8{0, 1, 2} {
		if active, err := dev.KernelDriverActive(iface); err == nil && active {
			_ = dev.DetachKernelDriver(iface)
		}
		if err := retry(fmt.Sprintf("claim-interface-%d", iface), func() error {
			return dev.ClaimInterface(iface)
		}); err != nil {
			return &HandshakeError{Step: fmt.Sprintf("claim-interface-%d", iface), Cause: err}
		}
	}

	for _, step := range controlSteps {
		s := step
		if err := retry(s.name, func() error {
			_, err := dev.ControlTransfer(0x21, 0x0B, s.alt, s.iface, nil, stepTimeout)
			return err
		}); err != nil {
			return &HandshakeError{Step: s.name, Cause: err}
		}
	}

	for _, step := range bulkSteps {
		s := step
		if err := retry(s.name, func() error {
			_, err := dev.BulkTransfer(controlInterface, s.data, stepTimeout)
			return err
		}); err != nil {
			return &HandshakeError{Step: s.name, Cause: err}
		}
	}

	if err := retry("enable-streaming", func() error {
		_, err := dev.ControlTransfer(0x21, 0x0B, finalControlAlt, finalControlIface, nil, stepTimeout)
		return err
	}); err != nil {
		return &HandshakeError{Step: "enable-streaming", Cause: err}
	}

	slog.Info("handshake: bring-up complete, streaming on bulk endpoint")
	return nil
}

// retry runs fn up to maxStepRetries+1 times, treating a NAK or short
// reply (detected by message, since the transport library does not
// expose a distinguishable retryable-error type) as transient.
func retry(step string, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= maxStepRetries; attempt++ {
		if err := fn(); err != nil {
			lastErr = err
			if !isRetryable(err) {
				return err
			}
			slog.Debug("handshake: retrying step", "step", step, "attempt", attempt+1, "error", err)
			continue
		}
		return nil
	}
	return lastErr
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "nak") || strings.Contains(msg, "short") || strings.Contains(msg, "busy")
}

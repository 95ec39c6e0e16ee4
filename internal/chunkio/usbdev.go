package chunkio

import (
	"fmt"
	"time"

	usb "github.com/kevmo314/go-usb"
)

// usbDevice is the subset of github.com/kevmo314/go-usb's
// DeviceHandleInterface the live backend and handshake step actually
// drive. Narrowing it to an interface here (rather than depending on the
// concrete type everywhere) keeps the rest of the package substitutable
// in tests.
type usbDevice interface {
	Close() error
	SetConfiguration(config int) error
	ClaimInterface(iface uint8) error
	ReleaseInterface(iface uint8) error
	ClearHalt(endpoint uint8) error
	ResetDevice() error
	KernelDriverActive(iface uint8) (bool, error)
	DetachKernelDriver(iface uint8) error
	ControlTransfer(requestType, request uint8, value, index uint16, data []byte, timeout time.Duration) (int, error)
	BulkTransfer(endpoint uint8, data []byte, timeout time.Duration) (int, error)
}

// openUSBDevice opens the first device matching vid/pid on the host USB
// bus. It is the live counterpart of OpenOffline: callers never see
// go-usb's types directly.
func openUSBDevice(vid, pid uint16) (usbDevice, error) {
	dev, err := usb.OpenDevice(vid, pid)
	if err != nil {
		return nil, fmt.Errorf("chunkio: failed to open usb device %04x:%04x: %w", vid, pid, err)
	}
	return dev, nil
}

package flirone

import "time"

// LiveOptions configures OpenLive. Zero value selects the defaults
// documented below, matching internal/config.Default().
type LiveOptions struct {
	// RecordDir, if non-empty, tees every chunk read from the device to
	// this directory as it streams (spec.md §4.2). Empty disables
	// recording.
	RecordDir string

	// ReadTimeout bounds each bulk IN request; a timeout yields a
	// heartbeat chunk rather than an error. Defaults to 1s.
	ReadTimeout time.Duration

	// VendorID, ProductID identify the USB device. Defaults to the
	// FLIR One Pro Gen-3 Vendor 0x09CB, Product 0x1996.
	VendorID, ProductID uint16

	// Interface and BulkEndpoint name the streaming interface and
	// endpoint. Defaults to interface 0, endpoint 0x85. BulkEndpoint is
	// the endpoint every bulk IN request reads from; Interface is only
	// reported in the open log, since the handshake always claims
	// interfaces 0, 1 and 2.
	Interface    uint8
	BulkEndpoint uint8

	// SliceBytes is the size of each bulk IN request. Defaults to 32768.
	SliceBytes int
}

// OfflineOptions configures OpenOffline.
type OfflineOptions struct {
	// Repeat controls how many passes are made over the capture
	// directory: 0 means one pass, N > 0 means N passes, -1 means
	// infinite (spec.md §4.1).
	Repeat int
}

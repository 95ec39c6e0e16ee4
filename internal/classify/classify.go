// Package classify labels each chunk with a semantic slice class using
// magic prefixes, length fields, and payload heuristics, per spec.md §4.4.
// Classification never mutates or retains chunk bytes beyond the call.
package classify

import (
	"bytes"
	"unicode/utf8"
)

// Kind enumerates the slice classes a chunk can be assigned to.
type Kind int

const (
	Unknown Kind = iota
	FrameSync
	ThermalPacket
	VisibleJpeg
	TelemetryJSON
	EdgeRLE
	AgcLegacy
)

func (k Kind) String() string {
	switch k {
	case FrameSync:
		return "frame_sync"
	case ThermalPacket:
		return "thermal_packet"
	case VisibleJpeg:
		return "visible_jpeg"
	case TelemetryJSON:
		return "telemetry_json"
	case EdgeRLE:
		return "edge_rle"
	case AgcLegacy:
		return "agc_legacy"
	default:
		return "unknown"
	}
}

// Class is the tagged-variant result of classification (spec.md §3's
// SliceClass, made a static Go struct per design note §9 rather than a
// dynamic union).
type Class struct {
	Kind Kind

	// FrameSync
	BoundaryID uint32

	// ThermalPacket
	RowStart, RowEnd int

	// VisibleJpeg
	IsFirst, IsLast bool

	// Unknown
	Reason string
}

const (
	frameSyncMagic  = 0xEFBE0000 // wire bytes 00 00 BE EF read as a little-endian uint32, as in the 28-byte sync record
	edgeRLEMagicLen = 2
	vospiPacketLen  = 164
	vospiRowCount   = 60
	minVospiPackets = 190
)

var edgeRLEMagic = [2]byte{0xED, 0x6E}

// JpegTracker answers whether a visible-JPEG reassembly is currently in
// progress. The assembler (C9) implements this; giving the classifier a
// narrow interface rather than a reference to the assembler avoids the
// global mutable state the source's stateful classifier relied on
// (design note §9).
type JpegTracker interface {
	JpegInProgress() bool
}

// Classify applies the ordered rule set from spec.md §4.4 and returns the
// first matching class.
func Classify(data []byte, tracker JpegTracker) Class {
	if len(data) >= 8 && isFrameSyncMagic(data) {
		return Class{Kind: FrameSync, BoundaryID: readBoundaryID(data)}
	}

	if len(data) >= 2 && data[0] == 0xFF && data[1] == 0xD8 {
		return Class{Kind: VisibleJpeg, IsFirst: true, IsLast: containsEOI(data)}
	}

	if tracker != nil && tracker.JpegInProgress() && !looksLikeOtherMagic(data) {
		return Class{Kind: VisibleJpeg, IsFirst: false, IsLast: containsEOI(data)}
	}

	if len(data) > 0 && data[0] == '{' && looksLikeJSONObject(data) {
		return Class{Kind: TelemetryJSON}
	}

	if len(data) >= edgeRLEMagicLen && data[0] == edgeRLEMagic[0] && data[1] == edgeRLEMagic[1] {
		return Class{Kind: EdgeRLE}
	}

	if rowStart, rowEnd, ok := detectVospiShape(data); ok {
		return Class{Kind: ThermalPacket, RowStart: rowStart, RowEnd: rowEnd}
	}

	if looksLikeLegacyAGC(data) {
		return Class{Kind: AgcLegacy}
	}

	return Class{Kind: Unknown, Reason: unknownReason(data)}
}

func isFrameSyncMagic(data []byte) bool {
	magic := uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16 | uint32(data[3])<<24
	return magic == frameSyncMagic
}

func readBoundaryID(data []byte) uint32 {
	return uint32(data[4]) | uint32(data[5])<<8 | uint32(data[6])<<16 | uint32(data[7])<<24
}

func containsEOI(data []byte) bool {
	return bytes.Contains(data, []byte{0xFF, 0xD9})
}

// looksLikeOtherMagic guards rule 3: a continuation chunk must not be
// mistaken for a chunk that unambiguously belongs to another class.
func looksLikeOtherMagic(data []byte) bool {
	if len(data) >= 4 && isFrameSyncMagic(data) {
		return true
	}
	if len(data) >= edgeRLEMagicLen && data[0] == edgeRLEMagic[0] && data[1] == edgeRLEMagic[1] {
		return true
	}
	return false
}

func looksLikeJSONObject(data []byte) bool {
	if !utf8.Valid(data) {
		return false
	}
	trimmed := bytes.TrimRight(data, "\x00")
	return bytes.Contains(trimmed, []byte("}"))
}

// detectVospiShape looks for the VoSPI packet pattern: 164-byte packets
// that are either data rows (discriminator 0x0 in the high 4 bits of the
// packet ID, row number in [0, 60) in the low 12 bits) or discard/telemetry
// packets (discriminator 0xF/0xE), with enough such packets to fill most of a
// 32 KiB slice (spec.md §4.4 rule 6).
func detectVospiShape(data []byte) (rowStart, rowEnd int, ok bool) {
	if len(data) < vospiPacketLen*minVospiPackets {
		return 0, 0, false
	}

	packets := len(data) / vospiPacketLen
	minRow, maxRow := -1, -1
	validCount := 0

	for i := 0; i < packets; i++ {
		pkt := data[i*vospiPacketLen : (i+1)*vospiPacketLen]
		rowID := int(pkt[1]&0x0F)<<8 | int(pkt[0])
		discriminator := pkt[1] >> 4

		switch discriminator {
		case 0x0: // data row
			if rowID < vospiRowCount {
				validCount++
				if minRow == -1 || rowID < minRow {
					minRow = rowID
				}
				if rowID > maxRow {
					maxRow = rowID
				}
			}
		case 0xE, 0xF: // telemetry / discard
			validCount++
		}
	}

	if validCount < minVospiPackets {
		return 0, 0, false
	}
	if minRow == -1 {
		minRow, maxRow = 0, 0
	}
	return minRow, maxRow, true
}

// looksLikeLegacyAGC recognizes the unreachable-on-current-hardware 8-bit
// AGC pattern: a full 32 KiB slice that does not match any other class.
// The assembler decodes it via internal/agc (SPEC_FULL.md §9, a
// supplemented feature) on its own secondary path.
func looksLikeLegacyAGC(data []byte) bool {
	return len(data) == 32768
}

func unknownReason(data []byte) string {
	switch {
	case len(data) == 0:
		return "empty"
	case len(data) < vospiPacketLen:
		return "too short to classify"
	default:
		return "no discriminator matched"
	}
}

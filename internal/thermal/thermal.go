// Package thermal reassembles a 60×80 14-bit radiometric raster from
// VoSPI-style row packets spread across one or more chunks (spec.md §4.5).
package thermal

import (
	"fmt"
	"image"
)

const (
	Rows = 60
	Cols = 80

	packetLen  = 164
	headerLen  = 4
	rowPayload = Cols * 2 // 80 big-endian uint16 words

	discDataRow   = 0x0
	discTelemetry = 0xE
	discDiscard   = 0xF
)

// Raster is the finalized, immutable thermal frame. It wraps image.Gray16
// (the same stdlib container the pack's jonas-koeritz-mi48 driver uses for
// Lepton-class sensors) with each 16-bit sample holding a 14-bit
// radiometric count in its low bits, matching spec.md §3's invariant
// value < 16384.
type Raster struct {
	img *image.Gray16
}

// newRaster builds a Raster from 60 rows of 80 already-decoded uint16
// samples each. Callers must have already validated sample ranges.
func newRaster(rows [Rows][Cols]uint16) *Raster {
	img := image.NewGray16(image.Rect(0, 0, Cols, Rows))
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			v := rows[r][c]
			off := img.PixOffset(c, r)
			img.Pix[off] = byte(v >> 8)
			img.Pix[off+1] = byte(v)
		}
	}
	return &Raster{img: img}
}

// At returns the 14-bit radiometric count at (row, col).
func (r *Raster) At(row, col int) uint16 {
	off := r.img.PixOffset(col, row)
	return uint16(r.img.Pix[off])<<8 | uint16(r.img.Pix[off+1])
}

// Image exposes the underlying Gray16 raster for callers that want to
// treat it as a standard image.Image.
func (r *Raster) Image() *image.Gray16 { return r.img }

// DesyncError reports a VoSPI invariant violation: a duplicate row write,
// an unrecognized discriminator, or a sample whose upper 2 bits are
// nonzero (spec.md §4.5, §7). The caller drops the partial frame on
// DesyncError but the rest of the composite frame is unaffected.
type DesyncError struct {
	Reason string
}

func (e *DesyncError) Error() string { return "thermal: desync: " + e.Reason }

// PartialFrame is the working state of one in-progress thermal frame
// (spec.md §3's PartialThermalFrame).
type PartialFrame struct {
	rows     [Rows][Cols]uint16
	received uint64 // bit i set => row i has been written
}

// NewPartialFrame returns an empty partial frame, created when the first
// thermal packet of a new frame arrives.
func NewPartialFrame() *PartialFrame {
	return &PartialFrame{}
}

// Feed processes every 164-byte VoSPI packet found in data, writing data
// rows into the partial frame and forwarding telemetry rows to the
// returned slice for C7 to parse. Discard packets are skipped silently.
//
// Feed returns a DesyncError (and stops processing further packets in
// this call) on the first invariant violation: a row written twice before
// finalization, a sample whose upper 2 bits are nonzero, or an
// unrecognized discriminator.
func (p *PartialFrame) Feed(data []byte) (telemetryRows [][]byte, err error) {
	packets := len(data) / packetLen
	for i := 0; i < packets; i++ {
		pkt := data[i*packetLen : (i+1)*packetLen]
		discriminator := pkt[1] >> 4
		rowID := int(pkt[1]&0x0F)<<8 | int(pkt[0])

		switch discriminator {
		case discDiscard:
			continue
		case discTelemetry:
			telemetryRows = append(telemetryRows, pkt[headerLen:headerLen+rowPayload])
			continue
		case discDataRow:
			if rowID >= Rows {
				continue
			}
			if p.received&(1<<uint(rowID)) != 0 {
				return telemetryRows, &DesyncError{Reason: fmt.Sprintf("row %d written twice", rowID)}
			}
			if err := p.writeRow(rowID, pkt[headerLen:headerLen+rowPayload]); err != nil {
				return telemetryRows, err
			}
			p.received |= 1 << uint(rowID)
		default:
			// Unrecognized discriminator (only 0x0/0xE/0xF are defined):
			// a desync that ends processing of this chunk.
			return telemetryRows, &DesyncError{Reason: fmt.Sprintf("unrecognized discriminator 0x%X", discriminator)}
		}
	}
	return telemetryRows, nil
}

func (p *PartialFrame) writeRow(rowID int, payload []byte) error {
	for c := 0; c < Cols; c++ {
		word := uint16(payload[c*2])<<8 | uint16(payload[c*2+1])
		if word&0xC000 != 0 {
			return &DesyncError{Reason: fmt.Sprintf("row %d word %d has nonzero upper bits: 0x%04X", rowID, c, word)}
		}
		p.rows[rowID][c] = word & 0x3FFF
	}
	return nil
}

// Complete reports whether all 60 rows have been received.
func (p *PartialFrame) Complete() bool {
	const fullMask = uint64(1)<<Rows - 1
	return p.received&fullMask == fullMask
}

// Finalize converts the partial frame into an immutable Raster. Per
// spec.md §3/§4.5 default policy, callers must check Complete() first and
// drop incomplete frames rather than calling Finalize on them; Finalize
// does not itself enforce completeness so callers that opt into a
// partial-thermal policy remain free to do so.
func (p *PartialFrame) Finalize() *Raster {
	return newRaster(p.rows)
}

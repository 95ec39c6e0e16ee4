// Package agc decodes the legacy 8-bit AGC (Automatic Gain Control) slice
// format, a supplemented feature (SPEC_FULL.md §9) not reachable on
// current Gen-3 hardware but present in the original driver
// (original_source flir_one/decoders/agc.py) for older FLIR One units
// that emit a padded 256×128 buffer instead of VoSPI rows.
package agc

import (
	"fmt"
	"image"
)

const (
	activeW, activeH = 160, 120
	paddedW, paddedH = 256, 128
	sliceBytes       = paddedW * paddedH
)

// Decode extracts the centered 160×120 active region from a 32768-byte
// padded AGC slice, discarding the GPU-alignment border.
func Decode(raw []byte) (*image.Gray, error) {
	if len(raw) != sliceBytes {
		return nil, fmt.Errorf("agc: slice must be exactly %d bytes, got %d", sliceBytes, len(raw))
	}

	y0 := (paddedH - activeH) / 2
	x0 := (paddedW - activeW) / 2

	img := image.NewGray(image.Rect(0, 0, activeW, activeH))
	for y := 0; y < activeH; y++ {
		srcRow := (y0 + y) * paddedW
		copy(img.Pix[y*img.Stride:y*img.Stride+activeW], raw[srcRow+x0:srcRow+x0+activeW])
	}
	return img, nil
}

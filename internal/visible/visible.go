// Package visible reassembles the JPEG-encoded visible-light camera frame
// and decodes it to a BGR image, per spec.md §4.6.
package visible

import (
	"bytes"
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

var (
	soi = []byte{0xFF, 0xD8}
	eoi = []byte{0xFF, 0xD9}
)

// ErrCorrupt is returned when a partial JPEG buffer cannot be finalized:
// no EOI marker was ever seen, or a second SOI arrived mid-reassembly.
// Per spec.md §4.6 the assembler drops the partial on this error rather
// than propagating a decode failure into the composite frame.
var ErrCorrupt = errors.New("visible: corrupt jpeg reassembly")

// PartialJpeg accumulates JPEG bytes across one or more VisibleJpeg-classed
// chunks (spec.md §3's PartialJpeg).
type PartialJpeg struct {
	buf    bytes.Buffer
	sawEOI bool
}

// NewPartialJpeg starts a new in-progress JPEG, seeded with the first
// chunk (which must begin with the SOI marker).
func NewPartialJpeg(first []byte) *PartialJpeg {
	p := &PartialJpeg{}
	p.buf.Write(first)
	p.sawEOI = bytes.Contains(first, eoi)
	return p
}

// Append adds a continuation chunk. A second SOI appearing after the
// first byte of the buffer indicates the previous reassembly never
// finished and a new frame has started underneath it; Append reports
// ErrCorrupt in that case so the assembler can drop the stale partial.
func (p *PartialJpeg) Append(chunk []byte) error {
	if idx := bytes.Index(chunk, soi); idx >= 0 {
		return fmt.Errorf("visible: %w: unexpected SOI mid-reassembly", ErrCorrupt)
	}
	p.buf.Write(chunk)
	if bytes.Contains(chunk, eoi) {
		p.sawEOI = true
	}
	return nil
}

// Done reports whether an EOI marker has been seen.
func (p *PartialJpeg) Done() bool { return p.sawEOI }

// Finalize decodes the accumulated bytes into a BGR Image. It returns
// ErrCorrupt if no EOI was ever observed (spec.md §4.6: a JPEG reassembly
// is complete only at the frame-sync boundary that follows an EOI).
func (p *PartialJpeg) Finalize() (*Image, error) {
	if !p.sawEOI {
		return nil, fmt.Errorf("visible: %w: no EOI marker", ErrCorrupt)
	}

	mat, err := gocv.IMDecode(p.buf.Bytes(), gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("visible: jpeg decode failed: %w", err)
	}
	if mat.Empty() {
		mat.Close()
		return nil, fmt.Errorf("visible: %w: decoded to an empty image", ErrCorrupt)
	}
	return &Image{mat: mat}, nil
}

// Image wraps the decoded BGR visible-camera frame (spec.md §3). It owns
// native OpenCV memory and must be released with Close.
type Image struct {
	mat gocv.Mat
}

// Mat exposes the underlying gocv.Mat for callers that need direct pixel
// access or want to hand it to further OpenCV processing outside this
// package's scope (palette/fusion/overlay are explicit non-goals here).
func (img *Image) Mat() gocv.Mat { return img.mat }

// Size returns the decoded image's width and height in pixels.
func (img *Image) Size() (width, height int) {
	return img.mat.Cols(), img.mat.Rows()
}

// Close releases the native OpenCV buffer backing this image. Callers
// that pass an Image across the public API boundary are responsible for
// calling Close exactly once when done with it.
func (img *Image) Close() error {
	return img.mat.Close()
}

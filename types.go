package flirone

import (
	"image"
	"time"

	"github.com/e7canasta/flirone-core/internal/edgemask"
	"github.com/e7canasta/flirone-core/internal/telemetry"
	"github.com/e7canasta/flirone-core/internal/thermal"
	"github.com/e7canasta/flirone-core/internal/visible"
)

// ThermalRaster is an immutable 60×80 14-bit radiometric raster, wrapping
// image.Gray16 (every sample < 16384).
type ThermalRaster = thermal.Raster

// VisibleImage is the decoded BGR raster of the visible camera, wrapping
// a gocv.Mat. Callers must call Close when finished with a frame that
// carries one.
type VisibleImage = visible.Image

// Telemetry is the decoded per-frame status record. Its numeric fields
// are pointers; a nil field means "not reported in this frame", distinct
// from a genuinely-reported zero value.
type Telemetry = telemetry.Telemetry

// EdgeMask is a decoded binary edge overlay, one bit per thermal pixel.
type EdgeMask = edgemask.Mask

// CompositeFrame aggregates whichever of (thermal, visible, telemetry,
// edge mask) were accumulated between two frame-sync boundaries. At
// least one member is always present.
type CompositeFrame struct {
	// Idx is the monotonic, gap-free public frame index, starting at 0.
	Idx uint64

	// Timestamp is the device-reported boundary time, if any was
	// present in the frame-sync slice. Captures are inconsistent about
	// carrying this field (spec.md §9's open question), so callers must
	// treat a zero Timestamp as "not reported" rather than an error.
	Timestamp time.Time

	Thermal   *ThermalRaster
	Visible   *VisibleImage
	Telemetry *Telemetry
	EdgeMask  *EdgeMask

	// LegacyAGC carries a decoded legacy 8-bit AGC slice when the
	// capture is from older, pre-VoSPI FLIR One hardware
	// (SPEC_FULL.md §9). Always nil on current Gen-3 captures.
	LegacyAGC *image.Gray
}

// Close releases any native resources (currently just Visible's OpenCV
// buffer, if present) held by this frame. Safe to call on a frame with
// no Visible member.
func (f *CompositeFrame) Close() error {
	if f.Visible != nil {
		return f.Visible.Close()
	}
	return nil
}

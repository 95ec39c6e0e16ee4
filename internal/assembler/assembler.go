// Package assembler maintains per-frame partial decode state and emits a
// CompositeFrame on each frame-sync boundary, per spec.md §4.9.
package assembler

import (
	"image"
	"log/slog"

	"github.com/e7canasta/flirone-core/internal/agc"
	"github.com/e7canasta/flirone-core/internal/classify"
	"github.com/e7canasta/flirone-core/internal/edgemask"
	"github.com/e7canasta/flirone-core/internal/telemetry"
	"github.com/e7canasta/flirone-core/internal/thermal"
	"github.com/e7canasta/flirone-core/internal/visible"
)

// Frame is the assembler's output unit (spec.md §3's CompositeFrame,
// minus the fields C10 adds: public index and timestamp).
type Frame struct {
	Thermal    *thermal.Raster
	Visible    *visible.Image
	Telemetry  *telemetry.Telemetry
	EdgeMask   *edgemask.Mask
	LegacyAGC  *image.Gray
	BoundaryID uint32
}

// IsEmpty reports whether no member was accumulated; an empty frame is
// never emitted (spec.md §3 invariant). LegacyAGC (SPEC_FULL.md §9)
// counts as a member here, so a frame that carries only a legacy AGC
// slice is non-empty and is emitted.
func (f *Frame) IsEmpty() bool {
	return f.Thermal == nil && f.Visible == nil && f.Telemetry == nil && f.EdgeMask == nil && f.LegacyAGC == nil
}

// Diagnostics counts desync and unknown-chunk events for metrics
// surfaced by C10 (SPEC_FULL.md §9).
type Diagnostics struct {
	DesyncThermal   uint64
	DesyncVisible   uint64
	DesyncTelemetry uint64
	DesyncEdgeMask  uint64
	AgcLegacyFrames uint64
	UnknownChunks   uint64
}

// Assembler implements classify.JpegTracker and drives the finalization
// state machine described in spec.md §4.9.
type Assembler struct {
	boundaryID uint32
	haveSynced bool

	thermalPartial  *thermal.PartialFrame
	jpegPartial     *visible.PartialJpeg
	telemetryLatest *telemetry.Telemetry
	edgeMaskLatest  *edgemask.Mask
	legacyAGCLatest *image.Gray

	diag Diagnostics
}

// New returns an empty Assembler, ready to receive the pre-first-sync
// chunks the pipeline will have already discarded or fed in.
func New() *Assembler {
	return &Assembler{}
}

// JpegInProgress implements classify.JpegTracker.
func (a *Assembler) JpegInProgress() bool {
	return a.jpegPartial != nil
}

// Diagnostics returns a snapshot of desync/unknown counters.
func (a *Assembler) Diagnostics() Diagnostics {
	return a.diag
}

// Feed processes one classified chunk. It returns a non-nil *Frame only
// on the FrameSync event that closes a non-empty frame; every other
// event updates internal state and returns nil. Feed has no error
// result: desyncs are absorbed locally and counted in Diagnostics
// (spec.md §7).
func (a *Assembler) Feed(class classify.Class, data []byte) *Frame {
	switch class.Kind {
	case classify.FrameSync:
		return a.onFrameSync(class.BoundaryID)
	case classify.ThermalPacket:
		a.onThermalPacket(data)
	case classify.VisibleJpeg:
		a.onVisibleJpeg(class, data)
	case classify.TelemetryJSON:
		a.onTelemetryJSON(data)
	case classify.EdgeRLE:
		a.onEdgeRLE(data)
	case classify.AgcLegacy:
		a.onAgcLegacy(data)
	default:
		a.diag.UnknownChunks++
	}
	return nil
}

func (a *Assembler) onFrameSync(boundaryID uint32) *Frame {
	var out *Frame
	if a.haveSynced {
		out = a.finalize()
	}
	a.haveSynced = true
	a.boundaryID = boundaryID
	a.thermalPartial = nil
	a.jpegPartial = nil
	a.telemetryLatest = nil
	a.edgeMaskLatest = nil
	a.legacyAGCLatest = nil
	return out
}

// finalize converts the currently open partials into a Frame, dropping
// incomplete thermals and unfinished JPEGs, and returns nil if the
// result would be empty.
func (a *Assembler) finalize() *Frame {
	f := &Frame{BoundaryID: a.boundaryID}

	if a.thermalPartial != nil {
		if a.thermalPartial.Complete() {
			f.Thermal = a.thermalPartial.Finalize()
		} else {
			slog.Debug("assembler: dropping incomplete thermal frame")
		}
	}

	if a.jpegPartial != nil && a.jpegPartial.Done() {
		img, err := a.jpegPartial.Finalize()
		if err != nil {
			slog.Debug("assembler: dropping corrupt jpeg", "error", err)
			a.diag.DesyncVisible++
		} else {
			f.Visible = img
		}
	}

	f.Telemetry = a.telemetryLatest
	f.EdgeMask = a.edgeMaskLatest
	f.LegacyAGC = a.legacyAGCLatest

	if f.IsEmpty() {
		return nil
	}
	return f
}

func (a *Assembler) onThermalPacket(data []byte) {
	if a.thermalPartial == nil {
		a.thermalPartial = thermal.NewPartialFrame()
	}
	telRows, err := a.thermalPartial.Feed(data)
	if err != nil {
		slog.Debug("assembler: thermal desync, dropping partial", "error", err)
		a.diag.DesyncThermal++
		a.thermalPartial = nil
	}
	for _, row := range telRows {
		t, err := telemetry.Parse(row)
		if err != nil {
			a.diag.DesyncTelemetry++
			continue
		}
		a.telemetryLatest = &t
	}
}

func (a *Assembler) onVisibleJpeg(class classify.Class, data []byte) {
	if class.IsFirst || a.jpegPartial == nil {
		a.jpegPartial = visible.NewPartialJpeg(data)
		return
	}
	if err := a.jpegPartial.Append(data); err != nil {
		slog.Debug("assembler: jpeg desync, dropping partial", "error", err)
		a.diag.DesyncVisible++
		a.jpegPartial = nil
	}
}

func (a *Assembler) onTelemetryJSON(data []byte) {
	t, err := telemetry.Parse(data)
	if err != nil {
		slog.Debug("assembler: telemetry desync", "error", err)
		a.diag.DesyncTelemetry++
		return
	}
	a.telemetryLatest = &t
}

// onAgcLegacy decodes a legacy AGC slice on its own secondary path
// (SPEC_FULL.md §9). It never affects thermal/visible/telemetry/edge
// mask state and is not required for any frame invariant; a slice that
// fails to decode is logged at debug level and dropped without
// incrementing any counter.
func (a *Assembler) onAgcLegacy(data []byte) {
	img, err := agc.Decode(data)
	if err != nil {
		slog.Debug("assembler: legacy agc slice rejected", "error", err)
		return
	}
	a.legacyAGCLatest = img
	a.diag.AgcLegacyFrames++
}

func (a *Assembler) onEdgeRLE(data []byte) {
	mask, err := edgemask.Decode(data)
	if err != nil {
		slog.Debug("assembler: edge mask desync", "error", err)
		a.diag.DesyncEdgeMask++
		return
	}
	a.edgeMaskLatest = mask
}

// Package telemetry parses the per-frame JSON status blob emitted
// alongside the thermal and visible streams, per spec.md §4.7.
package telemetry

import (
	"encoding/json"
	"fmt"
)

// ShutterState enumerates the shutter states the device reports.
type ShutterState int

const (
	ShutterUnknown ShutterState = iota
	ShutterOpen
	ShutterClosed
	ShutterMoving
)

func parseShutterState(s string) ShutterState {
	switch s {
	case "open":
		return ShutterOpen
	case "closed":
		return ShutterClosed
	case "moving":
		return ShutterMoving
	default:
		return ShutterUnknown
	}
}

// FFCState enumerates the flat-field-correction cycle phases.
type FFCState int

const (
	FFCUnknown FFCState = iota
	FFCIdle
	FFCInProgress
	FFCComplete
)

func parseFFCState(s string) FFCState {
	switch s {
	case "idle":
		return FFCIdle
	case "in_progress", "inProgress":
		return FFCInProgress
	case "complete", "done":
		return FFCComplete
	default:
		return FFCUnknown
	}
}

// Telemetry is the decoded snapshot of device status for one frame
// (spec.md §3, §4.7's key table). The numeric fields are pointers: a nil
// field means the device did not report that key on this frame, which is
// distinct from a genuinely-reported zero value (spec.md §3 "missing
// fields mean 'not reported in this chunk'").
type Telemetry struct {
	BatteryVoltage *float64
	BatteryPercent *float64
	ShutterTempK   *float64
	AuxTempK       *float64
	Shutter        ShutterState
	FFC            FFCState
}

// wireTelemetry mirrors the JSON keys the device actually emits.
type wireTelemetry struct {
	BattV        *float64 `json:"batt_v"`
	BattPct      *float64 `json:"batt_pct"`
	ShutterTempK *float64 `json:"shutter_tempK"`
	AuxTempK     *float64 `json:"aux_tempK"`
	Shutter      *string  `json:"shutter"`
	FFC          *string  `json:"ffc"`
}

// Parse decodes one telemetry JSON blob. A malformed document is a local
// desync (spec.md §7): the caller discards this telemetry sample without
// aborting the rest of the composite frame. Numeric fields absent from
// the payload are left nil rather than causing a parse failure, since
// the device does not emit every key on every frame.
func Parse(data []byte) (Telemetry, error) {
	var wire wireTelemetry
	if err := json.Unmarshal(data, &wire); err != nil {
		return Telemetry{}, fmt.Errorf("telemetry: malformed json: %w", err)
	}

	t := Telemetry{
		BatteryVoltage: wire.BattV,
		BatteryPercent: wire.BattPct,
		ShutterTempK:   wire.ShutterTempK,
		AuxTempK:       wire.AuxTempK,
	}
	if wire.Shutter != nil {
		t.Shutter = parseShutterState(*wire.Shutter)
	}
	if wire.FFC != nil {
		t.FFC = parseFFCState(*wire.FFC)
	}
	return t, nil
}

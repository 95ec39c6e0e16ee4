package flirone

import "github.com/e7canasta/flirone-core/internal/assembler"

// Diagnostics is a snapshot of per-stream desync and unknown-chunk
// counters (SPEC_FULL.md §9's supplemented metrics surface). These are
// not exposed by spec.md itself but are the natural observability
// companion to the DecodeDesync taxonomy in §7.
type Diagnostics = assembler.Diagnostics

// Diagnostics returns the current desync/unknown-chunk counts for this
// stream.
func (s *Stream) Diagnostics() Diagnostics {
	return s.driver.Diagnostics()
}

package flirone

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

const (
	vospiPacketLen = 164
	vospiHeaderLen = 4
	vospiRowWords  = 80
)

func vospiDataRow(rowID int) []byte {
	pkt := make([]byte, vospiPacketLen)
	pkt[0] = byte(rowID & 0xFF)
	pkt[1] = byte((rowID >> 8) & 0x0F) // discriminator 0x0
	for w := 0; w < vospiRowWords; w++ {
		pkt[vospiHeaderLen+w*2] = 0x00
		pkt[vospiHeaderLen+w*2+1] = byte(rowID)
	}
	return pkt
}

func vospiDiscard() []byte {
	pkt := make([]byte, vospiPacketLen)
	pkt[1] = 0xF0 // discriminator 0xF, rowID irrelevant
	return pkt
}

// thermalChunk builds one 32 KiB-shaped chunk containing 60 data-row
// packets (skipping any row listed in skipRows) padded with discard
// packets up to 200 total, matching the real device's slice shape
// closely enough to classify as ThermalPacket.
func thermalChunk(skipRows map[int]bool) []byte {
	var data []byte
	count := 0
	for row := 0; row < 60; row++ {
		if skipRows[row] {
			data = append(data, vospiDiscard()...)
		} else {
			data = append(data, vospiDataRow(row)...)
		}
		count++
	}
	for count < 200 {
		data = append(data, vospiDiscard()...)
		count++
	}
	return data
}

func frameSyncChunk(boundaryID uint32) []byte {
	data := make([]byte, 28)
	data[2], data[3] = 0xBE, 0xEF
	data[4] = byte(boundaryID)
	data[5] = byte(boundaryID >> 8)
	data[6] = byte(boundaryID >> 16)
	data[7] = byte(boundaryID >> 24)
	return data
}

func writeCaptureDir(t *testing.T, chunks [][]byte) string {
	t.Helper()
	dir := t.TempDir()
	for i, c := range chunks {
		path := filepath.Join(dir, fmt.Sprintf("chunk_%08d.txt", i))
		if err := os.WriteFile(path, []byte(hex.EncodeToString(c)), 0o644); err != nil {
			t.Fatalf("failed to write fixture chunk %d: %v", i, err)
		}
	}
	return dir
}

// S1: sync, 60 thermal rows in order, sync -> one frame, thermal only.
func TestOpenOfflineS1CompleteThermalOnly(t *testing.T) {
	dir := writeCaptureDir(t, [][]byte{
		frameSyncChunk(0),
		thermalChunk(nil),
		frameSyncChunk(1),
	})

	stream, err := OpenOffline(dir, OfflineOptions{})
	if err != nil {
		t.Fatalf("OpenOffline returned error: %v", err)
	}
	defer stream.Close()

	frame, err := stream.NextFrame()
	if err != nil {
		t.Fatalf("NextFrame returned error: %v", err)
	}
	if frame.Idx != 0 {
		t.Errorf("Idx = %d, want 0", frame.Idx)
	}
	if frame.Thermal == nil {
		t.Fatal("expected thermal to be present")
	}
	if frame.Visible != nil || frame.Telemetry != nil || frame.EdgeMask != nil {
		t.Fatal("expected only thermal to be present")
	}

	if _, err := stream.NextFrame(); !errors.Is(err, ErrEndOfStream) {
		t.Fatalf("expected ErrEndOfStream, got %v", err)
	}
}

// S2: sync, 59 thermal rows (row 37 missing), sync -> no frame reaches
// the caller; the stream goes straight to end of stream.
func TestOpenOfflineS2IncompleteThermalDropped(t *testing.T) {
	dir := writeCaptureDir(t, [][]byte{
		frameSyncChunk(0),
		thermalChunk(map[int]bool{37: true}),
		frameSyncChunk(1),
	})

	stream, err := OpenOffline(dir, OfflineOptions{})
	if err != nil {
		t.Fatalf("OpenOffline returned error: %v", err)
	}
	defer stream.Close()

	if _, err := stream.NextFrame(); !errors.Is(err, ErrEndOfStream) {
		t.Fatalf("expected ErrEndOfStream for a stream with no complete frame, got %v", err)
	}
}

// S5: repeat=2 over a one-frame capture yields exactly two frames, at
// idx 0 and 1, then end of stream.
func TestOpenOfflineS5RepeatYieldsMonotonicIndices(t *testing.T) {
	dir := writeCaptureDir(t, [][]byte{
		frameSyncChunk(0),
		thermalChunk(nil),
		frameSyncChunk(1),
	})

	stream, err := OpenOffline(dir, OfflineOptions{Repeat: 2})
	if err != nil {
		t.Fatalf("OpenOffline returned error: %v", err)
	}
	defer stream.Close()

	f0, err := stream.NextFrame()
	if err != nil {
		t.Fatalf("NextFrame returned error: %v", err)
	}
	f1, err := stream.NextFrame()
	if err != nil {
		t.Fatalf("NextFrame returned error: %v", err)
	}
	if f0.Idx != 0 || f1.Idx != 1 {
		t.Fatalf("expected indices 0,1; got %d,%d", f0.Idx, f1.Idx)
	}

	if _, err := stream.NextFrame(); !errors.Is(err, ErrEndOfStream) {
		t.Fatalf("expected ErrEndOfStream after the second pass, got %v", err)
	}
}

func TestStreamCloseIsIdempotent(t *testing.T) {
	dir := writeCaptureDir(t, [][]byte{frameSyncChunk(0), thermalChunk(nil), frameSyncChunk(1)})
	stream, err := OpenOffline(dir, OfflineOptions{})
	if err != nil {
		t.Fatalf("OpenOffline returned error: %v", err)
	}
	if err := stream.Close(); err != nil {
		t.Fatalf("first Close returned error: %v", err)
	}
	if err := stream.Close(); err != nil {
		t.Fatalf("second Close returned error: %v", err)
	}
}

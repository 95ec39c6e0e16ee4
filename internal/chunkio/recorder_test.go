package chunkio

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRecorderRoundTrip(t *testing.T) {
	dir := t.TempDir()
	rec, err := NewRecorder(dir)
	if err != nil {
		t.Fatalf("NewRecorder returned error: %v", err)
	}

	if err := rec.Record(Chunk{Seq: 0, Data: []byte{0xAB, 0xCD}}); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}

	stats := rec.Stats()
	if stats.ChunksWritten != 1 || stats.BytesWritten != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	replay, err := OpenOffline(dir, 0)
	if err != nil {
		t.Fatalf("OpenOffline on recorded dir returned error: %v", err)
	}
	c, err := replay.Next()
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if string(c.Data) != "\xab\xcd" {
		t.Fatalf("round-trip mismatch: got %x", c.Data)
	}
}

func TestRecorderCleanupRemovesFiles(t *testing.T) {
	dir := t.TempDir()
	rec, err := NewRecorder(dir)
	if err != nil {
		t.Fatalf("NewRecorder returned error: %v", err)
	}
	if err := rec.Record(Chunk{Seq: 0, Data: []byte{0x01}}); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}

	rec.Cleanup()

	path := filepath.Join(dir, "chunk_00000000.txt")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected recorded file to be removed, stat error: %v", err)
	}
}

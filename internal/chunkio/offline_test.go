package chunkio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func writeChunkFile(t *testing.T, dir string, seq int, hexContent string) {
	t.Helper()
	path := filepath.Join(dir, fmt.Sprintf("chunk_%08d.txt", seq))
	if err := os.WriteFile(path, []byte(hexContent), 0o644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", path, err)
	}
}

func TestOpenOfflineSinglePass(t *testing.T) {
	dir := t.TempDir()
	writeChunkFile(t, dir, 0, "aabb")
	writeChunkFile(t, dir, 1, "cc dd") // whitespace permitted

	src, err := OpenOffline(dir, 0)
	if err != nil {
		t.Fatalf("OpenOffline returned error: %v", err)
	}

	c0, err := src.Next()
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if c0.Seq != 0 || string(c0.Data) != "\xaa\xbb" {
		t.Fatalf("unexpected first chunk: %+v", c0)
	}

	c1, err := src.Next()
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if c1.Seq != 1 || string(c1.Data) != "\xcc\xdd" {
		t.Fatalf("unexpected second chunk: %+v", c1)
	}

	if _, err := src.Next(); !errors.Is(err, ErrEndOfStream) {
		t.Fatalf("expected ErrEndOfStream, got %v", err)
	}
}

func TestOpenOfflineRepeatContinuesSequence(t *testing.T) {
	dir := t.TempDir()
	writeChunkFile(t, dir, 0, "ab")

	src, err := OpenOffline(dir, 2) // two total passes over the single-file dir
	if err != nil {
		t.Fatalf("OpenOffline returned error: %v", err)
	}

	first, err := src.Next()
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	second, err := src.Next()
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if first.Seq != 0 || second.Seq != 1 {
		t.Fatalf("expected monotonic sequence across repeats, got %d then %d", first.Seq, second.Seq)
	}

	if _, err := src.Next(); !errors.Is(err, ErrEndOfStream) {
		t.Fatalf("expected ErrEndOfStream after repeat exhausted, got %v", err)
	}
}

func TestOpenOfflineNoMatchingFilesIsError(t *testing.T) {
	dir := t.TempDir()
	if _, err := OpenOffline(dir, 0); err == nil {
		t.Fatal("expected an error when no chunk_*.txt files are present")
	}
}

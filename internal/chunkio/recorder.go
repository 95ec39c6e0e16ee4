package chunkio

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
)

// RecorderStats mirrors the atomic stats counters the teacher's
// RTSPStream exposes via Stats() — cheap to read from any goroutine,
// written with atomic ops from the write path.
type RecorderStats struct {
	ChunksWritten uint64
	BytesWritten  uint64
}

// Recorder tees every chunk it sees to a destination directory as
// chunk_<seq:08d>.txt, content hex-encoded (spec.md §4.2, §6). It owns
// that directory exclusively for the recording's lifetime.
type Recorder struct {
	dir     string
	written []string

	chunksWritten uint64
	bytesWritten  uint64
}

// NewRecorder creates (if needed) dir and returns a Recorder ready to tee
// chunks into it.
func NewRecorder(dir string) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("chunkio: failed to create recording directory %s: %w", dir, err)
	}
	return &Recorder{dir: dir}, nil
}

// Record writes one chunk synchronously. A write failure is a
// RecordingError per spec.md §7: the caller must abort the stream and
// call Cleanup to remove whatever partial files were written.
func (r *Recorder) Record(c Chunk) error {
	name := fmt.Sprintf("chunk_%08d.txt", c.Seq)
	path := filepath.Join(r.dir, name)

	hexStr := fmt.Sprintf("%x", c.Data)
	if err := os.WriteFile(path, []byte(hexStr), 0o644); err != nil {
		return fmt.Errorf("chunkio: failed to record chunk %d to %s: %w", c.Seq, path, err)
	}

	r.written = append(r.written, path)
	atomic.AddUint64(&r.chunksWritten, 1)
	atomic.AddUint64(&r.bytesWritten, uint64(len(c.Data)))
	return nil
}

// Stats returns a snapshot of bytes/chunks recorded so far.
func (r *Recorder) Stats() RecorderStats {
	return RecorderStats{
		ChunksWritten: atomic.LoadUint64(&r.chunksWritten),
		BytesWritten:  atomic.LoadUint64(&r.bytesWritten),
	}
}

// Cleanup removes every file this Recorder has written. Called after a
// RecordingError to avoid leaving a partial, unusable capture directory
// behind (spec.md §4.2).
func (r *Recorder) Cleanup() {
	for _, path := range r.written {
		_ = os.Remove(path)
	}
	r.written = nil
}

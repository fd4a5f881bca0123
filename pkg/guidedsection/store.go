package guidedsection

import (
	"fmt"
	"io"
	"os"
)

// Region is an addressable window of memory a registry block may live in.
// Implementations must support reads and writes at absolute offsets within
// the window.
type Region interface {
	io.ReaderAt
	io.WriterAt

	// Size returns the window length in bytes.
	Size() int64
}

// Store describes one candidate backing-store location probed by the
// resolver. Candidates are probed in list order; the first one that holds
// or accepts the signature word backs the registry from then on.
type Store struct {
	// Name identifies the candidate in logs and errors.
	Name string
	// Region is the memory window backing the candidate.
	Region Region
}

// MemRegion is a process-memory region. The reservation happens once, up
// front; the registry performs no further allocation against it.
type MemRegion struct {
	buf []byte
}

// Compile-time interface check.
var _ Region = (*MemRegion)(nil)

// NewMemRegion reserves a zeroed region of the given size.
func NewMemRegion(size int64) *MemRegion {
	return &MemRegion{buf: make([]byte, size)}
}

// ReadAt implements io.ReaderAt.
func (m *MemRegion) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(m.buf)) {
		return 0, fmt.Errorf("read at %d outside region of %d bytes", off, len(m.buf))
	}
	n := copy(p, m.buf[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteAt implements io.WriterAt.
func (m *MemRegion) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > int64(len(m.buf)) {
		return 0, fmt.Errorf("write at %d past region of %d bytes", off, len(m.buf))
	}
	return copy(m.buf[off:], p), nil
}

// Size implements Region.
func (m *MemRegion) Size() int64 {
	return int64(len(m.buf))
}

// FileRegion is a fixed window into a file. It backs the fallback-candidate
// pattern where a platform exposes a known-good physical range through a
// device node such as /dev/mem: a window that is not writable yet simply
// fails its probe and the resolver moves on.
type FileRegion struct {
	f      *os.File
	offset int64
	size   int64
}

// Compile-time interface check.
var _ Region = (*FileRegion)(nil)

// NewFileRegion creates a window of size bytes into f starting at offset.
// The caller keeps ownership of f and must keep it open for the life of
// the region.
func NewFileRegion(f *os.File, offset, size int64) *FileRegion {
	return &FileRegion{f: f, offset: offset, size: size}
}

// ReadAt implements io.ReaderAt.
func (r *FileRegion) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > r.size {
		return 0, fmt.Errorf("read at %d outside region of %d bytes", off, r.size)
	}
	if off+int64(len(p)) > r.size {
		n, err := r.f.ReadAt(p[:r.size-off], r.offset+off)
		if err == nil {
			err = io.EOF
		}
		return n, err
	}
	return r.f.ReadAt(p, r.offset+off)
}

// WriteAt implements io.WriterAt.
func (r *FileRegion) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > r.size {
		return 0, fmt.Errorf("write at %d past region of %d bytes", off, r.size)
	}
	return r.f.WriteAt(p, r.offset+off)
}

// Size implements Region.
func (r *FileRegion) Size() int64 {
	return r.size
}

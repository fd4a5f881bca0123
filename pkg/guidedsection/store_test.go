package guidedsection

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMemRegionReadWrite verifies absolute-offset access.
func TestMemRegionReadWrite(t *testing.T) {
	m := NewMemRegion(32)
	assert.Equal(t, int64(32), m.Size())

	n, err := m.WriteAt([]byte("abcd"), 8)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	buf := make([]byte, 4)
	n, err = m.ReadAt(buf, 8)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte("abcd"), buf)
}

// TestMemRegionBounds verifies out-of-window access fails.
func TestMemRegionBounds(t *testing.T) {
	m := NewMemRegion(8)

	_, err := m.WriteAt([]byte("xx"), 7)
	assert.Error(t, err)
	_, err = m.WriteAt([]byte("x"), -1)
	assert.Error(t, err)

	// Short read at the tail follows the io.ReaderAt contract.
	buf := make([]byte, 4)
	n, err := m.ReadAt(buf, 6)
	assert.Equal(t, 2, n)
	assert.ErrorIs(t, err, io.EOF)

	_, err = m.ReadAt(buf, 9)
	assert.Error(t, err)
}

// TestFileRegionWindow verifies the window maps to the right file offsets.
func TestFileRegionWindow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backing")
	require.NoError(t, os.WriteFile(path, make([]byte, 64), 0o600))
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	require.NoError(t, err)
	defer f.Close()

	r := NewFileRegion(f, 16, 32)
	assert.Equal(t, int64(32), r.Size())

	_, err = r.WriteAt([]byte("data"), 4)
	require.NoError(t, err)

	// The write landed at file offset 16+4.
	raw := make([]byte, 4)
	_, err = f.ReadAt(raw, 20)
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), raw)

	buf := make([]byte, 4)
	_, err = r.ReadAt(buf, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), buf)
}

// TestFileRegionBounds verifies access outside the window fails even when
// the file itself is larger.
func TestFileRegionBounds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backing")
	require.NoError(t, os.WriteFile(path, make([]byte, 64), 0o600))
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	require.NoError(t, err)
	defer f.Close()

	r := NewFileRegion(f, 0, 16)

	_, err = r.WriteAt([]byte("xx"), 15)
	assert.Error(t, err)

	buf := make([]byte, 4)
	n, err := r.ReadAt(buf, 14)
	assert.Equal(t, 2, n)
	assert.ErrorIs(t, err, io.EOF)
}

// TestFileRegionReadOnly verifies writes to a read-only file surface as
// errors, which is what makes the resolver probe reject the candidate.
func TestFileRegionReadOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backing")
	require.NoError(t, os.WriteFile(path, make([]byte, 64), 0o600))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r := NewFileRegion(f, 0, 64)
	_, err = r.WriteAt([]byte{1}, 0)
	assert.Error(t, err)
}

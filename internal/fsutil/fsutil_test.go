package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.json")

	require.NoError(t, WriteFileAtomic(path, []byte(`{"a":1}`), 0o600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// Overwrite replaces content in place.
	require.NoError(t, WriteFileAtomic(path, []byte(`{"a":2}`), 0o600))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(data))

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteFileIfMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "SOUL.md")

	wrote, err := WriteFileIfMissing(path, []byte("first"), 0o644)
	require.NoError(t, err)
	assert.True(t, wrote)

	// Second write with different content must not change the file.
	wrote, err = WriteFileIfMissing(path, []byte("second"), 0o644)
	require.NoError(t, err)
	assert.False(t, wrote)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))
}

func TestCopyFileIfMissing(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "AGENTS.md")
	dst := filepath.Join(dir, "copy", "AGENTS.md")
	require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0o755))
	require.NoError(t, os.WriteFile(src, []byte("shared"), 0o644))

	copied, err := CopyFileIfMissing(src, dst)
	require.NoError(t, err)
	assert.True(t, copied)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "shared", string(data))

	// Existing destination is left alone.
	require.NoError(t, os.WriteFile(dst, []byte("local edits"), 0o644))
	copied, err = CopyFileIfMissing(src, dst)
	require.NoError(t, err)
	assert.False(t, copied)

	data, err = os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "local edits", string(data))
}

func TestCopyFileIfMissingSourceAbsent(t *testing.T) {
	dir := t.TempDir()
	copied, err := CopyFileIfMissing(filepath.Join(dir, "missing.md"), filepath.Join(dir, "out.md"))
	require.NoError(t, err)
	assert.False(t, copied)

	_, err = os.Stat(filepath.Join(dir, "out.md"))
	assert.True(t, os.IsNotExist(err))
}

package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDir(t *testing.T) {
	tempDir := t.TempDir()
	nested := filepath.Join(tempDir, "a", "b", "c")

	require.NoError(t, EnsureDir(nested))
	assert.True(t, DirExists(nested))

	// Idempotent on an existing directory.
	require.NoError(t, EnsureDir(nested))
}

func TestEnsureFileDir(t *testing.T) {
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "sub", "file.bin")

	require.NoError(t, EnsureFileDir(filePath))
	assert.True(t, DirExists(filepath.Join(tempDir, "sub")))
	assert.False(t, FileExists(filePath))
}

func TestFileExists(t *testing.T) {
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "file.bin")

	assert.False(t, FileExists(filePath))
	require.NoError(t, os.WriteFile(filePath, []byte("data"), FileModeDefault))
	assert.True(t, FileExists(filePath))
	assert.False(t, DirExists(filePath))
}

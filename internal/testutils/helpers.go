package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// SetupTestDir creates a temporary directory and returns its absolute path.
// It fails the test immediately on error.
func SetupTestDir(t *testing.T) string {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")
	return absPath
}

// WriteFile writes content to dir/name, creating parent directories, and
// returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755), "Failed to create %s", filepath.Dir(path))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "Failed to write %s", path)
	return path
}

// WriteFiles writes every name -> content pair under dir.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		WriteFile(t, dir, name, content)
	}
}

package command

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskWriter_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "f.kt")
	require.NoError(t, os.WriteFile(path, []byte("before"), 0o600))

	writer := DiskWriter{}

	data, err := writer.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "before", string(data))

	require.NoError(t, writer.WriteFile(path, []byte("after")))

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "after", string(data))
}

func TestDiskWriter_PreservesFileMode(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "f.kt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	require.NoError(t, DiskWriter{}.WriteFile(path, []byte("y")))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestDiskWriter_CreatesMissingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "new.kt")

	require.NoError(t, DiskWriter{}.WriteFile(path, []byte("content")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestDiskWriter_ReadMissingFileFails(t *testing.T) {
	t.Parallel()

	_, err := DiskWriter{}.ReadFile(filepath.Join(t.TempDir(), "absent.kt"))
	assert.Error(t, err)
}

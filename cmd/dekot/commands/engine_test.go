package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestCollectKotlinFiles_FiltersByLanguage(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	kotlin := writeFile(t, dir, "main.kt", "fun main() {}\n")
	writeFile(t, dir, "script.kts", "val x = 1\n")
	writeFile(t, dir, "readme.md", "# docs\n")
	writeFile(t, dir, "main.go", "package main\n")

	files, err := collectKotlinFiles([]string{dir})
	require.NoError(t, err)
	assert.Contains(t, files, kotlin)

	for _, file := range files {
		assert.NotEqual(t, ".md", filepath.Ext(file))
		assert.NotEqual(t, ".go", filepath.Ext(file))
	}
}

func TestCollectKotlinFiles_SingleFileArgument(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	kotlin := writeFile(t, dir, "main.kt", "fun main() {}\n")

	files, err := collectKotlinFiles([]string{kotlin})
	require.NoError(t, err)
	assert.Equal(t, []string{kotlin}, files)
}

func TestCollectKotlinFiles_SkipsVendoredDirs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	kept := writeFile(t, dir, "src/main.kt", "fun main() {}\n")
	writeFile(t, dir, "node_modules/dep/lib.kt", "fun lib() {}\n")

	files, err := collectKotlinFiles([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{kept}, files)
}

func TestCollectKotlinFiles_MissingPathFails(t *testing.T) {
	t.Parallel()

	_, err := collectKotlinFiles([]string{filepath.Join(t.TempDir(), "absent")})
	assert.Error(t, err)
}

func TestMemWriter_ReadWriteCycle(t *testing.T) {
	t.Parallel()

	writer := newMemWriter("f.kt", []byte("original"))

	data, err := writer.ReadFile("f.kt")
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))

	require.NoError(t, writer.WriteFile("f.kt", []byte("edited")))

	data, err = writer.ReadFile("f.kt")
	require.NoError(t, err)
	assert.Equal(t, "edited", string(data))

	_, err = writer.ReadFile("other.kt")
	assert.Error(t, err)
}

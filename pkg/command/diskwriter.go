package command

import (
	"fmt"
	"io/fs"
	"os"
)

// defaultFileMode is used when the target file does not exist yet.
const defaultFileMode fs.FileMode = 0o644

// DiskWriter is the FileWriter backed by the local filesystem. Writes
// preserve the existing file mode.
type DiskWriter struct{}

// ReadFile implements FileWriter.
func (DiskWriter) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return data, nil
}

// WriteFile implements FileWriter.
func (DiskWriter) WriteFile(path string, data []byte) error {
	mode := defaultFileMode

	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	if err := os.WriteFile(path, data, mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

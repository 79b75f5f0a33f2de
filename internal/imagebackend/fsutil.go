package imagebackend

import (
	"os"
	"path/filepath"
)

// createFile creates path and any missing parent directories, truncating
// an existing file at that path.
func createFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}

// writeFile writes content to path, creating parent directories as needed.
// Used by Fake.Extract to materialize registered test content.
func writeFile(path, content string) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(content)
	return err
}

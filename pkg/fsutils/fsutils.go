package fsutils

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// EnsureDir creates a directory (and any parents) if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// FileExists checks if a path exists and is a regular file (not a directory).
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ReadTextFile reads a UTF-8 text file and returns its content as a string.
func ReadTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteFileAtomic writes data to path through a temp-file rename, so a
// failure mid-write never leaves a partial or truncated file behind. Parent
// directories are created as needed.
func WriteFileAtomic(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := EnsureDir(dir); err != nil {
			return err
		}
	}
	return atomic.WriteFile(path, bytes.NewReader(data))
}

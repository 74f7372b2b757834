package utils

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/natefinch/atomic"
)

// FilePerm is the mode given to files that WriteFile creates.
const FilePerm fs.FileMode = 0o644

// WriteFile replaces path with the content of r atomically. An existing
// file keeps its mode; a new file gets FilePerm.
func WriteFile(path string, r io.Reader) error {
	_, statErr := os.Stat(path)
	created := errors.Is(statErr, fs.ErrNotExist)

	if err := atomic.WriteFile(path, r); err != nil {
		return err
	}

	// atomic.WriteFile leaves new files at the temp file's 0600.
	if created {
		if err := os.Chmod(path, FilePerm); err != nil {
			return err
		}
	}
	return nil
}

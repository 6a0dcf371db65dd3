// Package upload spools uploaded files to per-request temporary files.
package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// File is a spooled upload. Remove must be called on every exit path.
type File struct {
	Path string
	Size int64

	once sync.Once
	err  error
}

// Spool copies src into a new temporary file under dir (os.TempDir when empty).
// On failure nothing is left on disk.
func Spool(dir string, src io.Reader) (*File, error) {
	f, err := os.CreateTemp(dir, "upload-*.csv")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	n, copyErr := io.Copy(f, src)
	closeErr := f.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("spool upload: %w", err)
	}
	return &File{Path: f.Name(), Size: n}, nil
}

func (f *File) Open() (*os.File, error) {
	return os.Open(f.Path)
}

// Remove deletes the file. Repeated calls return the first result.
func (f *File) Remove() error {
	f.once.Do(func() {
		if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			f.err = err
		}
	})
	return f.err
}

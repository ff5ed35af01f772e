package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ReadError marks a failure that came from the source reader rather than the
// destination file, so callers can tell a broken stream from a full disk.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	return "read source: " + e.Err.Error()
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// WriteStream copies src into dst through a temp file in the same directory and
// renames it into place once src is exhausted. On any error the temp file is
// removed and dst is left untouched, so a failed write never leaves a partial
// file at dst. Returns the number of bytes written.
func WriteStream(dst string, src io.Reader, mode os.FileMode) (written int64, err error) {
	dir := filepath.Dir(dst)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	written, err = io.Copy(tmp, readerFunc(func(p []byte) (int, error) {
		n, rerr := src.Read(p)
		if rerr != nil && !errors.Is(rerr, io.EOF) {
			return n, &ReadError{Err: rerr}
		}
		return n, rerr
	}))
	if err != nil {
		var readErr *ReadError
		if errors.As(err, &readErr) {
			return written, err
		}
		return written, fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Chmod(mode); err != nil {
		return written, fmt.Errorf("chmod temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return written, fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmpName, dst); err != nil {
		return written, fmt.Errorf("rename temp file: %w", err)
	}
	return written, nil
}

// Exists reports whether path names an existing file or directory.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

type readerFunc func([]byte) (int, error)

func (f readerFunc) Read(p []byte) (int, error) { return f(p) }

package reload

import (
	"errors"
	"io"
	"os"
	"time"
)

// FS abstracts the filesystem operations a controller performs: reading
// modification times, checking for the lock indicator, and copying the
// artifact to its working location. The default implementation is OSFS;
// tests substitute instrumented fakes.
type FS interface {
	// ModTime returns the modification time of the file at path.
	ModTime(path string) (time.Time, error)

	// Exists reports whether path exists.
	Exists(path string) (bool, error)

	// Copy replaces the contents of dst with a byte-exact copy of src.
	Copy(src, dst string) error
}

// OSFS is the default FS, backed by the host filesystem.
type OSFS struct{}

// ModTime returns the modification time of the file at path.
func (OSFS) ModTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// Exists reports whether path exists.
func (OSFS) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Copy replaces dst with a byte-exact copy of src. The destination is
// truncated first and created with the source's permission bits.
func (OSFS) Copy(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}

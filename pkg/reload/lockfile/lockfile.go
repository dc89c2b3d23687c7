// Package lockfile provides probes for the advisory rebuild lock a build
// pipeline holds while it rewrites an artifact. A held lock means the
// artifact's current bytes are not trustworthy and must not be loaded.
package lockfile

import (
	"errors"
	"os"
)

// MarkerProbe reports the lock as held while the marker file exists. This is
// the classic "touch a lockfile, build, remove it" pipeline contract.
type MarkerProbe struct {
	// Path is the marker file location
	Path string
}

// Held reports whether the marker file exists.
func (p MarkerProbe) Held() (bool, error) {
	_, err := os.Stat(p.Path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

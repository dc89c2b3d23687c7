//go:build !(plan9 || solaris)

package lockfile

import (
	"github.com/gofrs/flock"
)

// FlockProbe reports the lock as held while another process holds an
// exclusive flock(2) on the path. For build pipelines that hold a real
// advisory lock on a well-known path for the duration of the rebuild instead
// of creating and removing a marker file.
//
// Probing may create the lock path if it does not exist; with flock the
// file's existence carries no meaning, only the lock state does.
type FlockProbe struct {
	// Path is the lock file location
	Path string
}

// Held attempts a non-blocking exclusive lock. Failure to acquire means the
// builder holds it; success means it was free, and the probe releases it
// again immediately.
func (p FlockProbe) Held() (bool, error) {
	fl := flock.New(p.Path)

	locked, err := fl.TryLock()
	if err != nil {
		return false, err
	}
	if !locked {
		return true, nil
	}

	if err := fl.Unlock(); err != nil {
		return false, err
	}
	return false, nil
}

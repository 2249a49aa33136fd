// Package icon wraps native icon resources handed to a tray icon.
package icon

import (
	"sync"

	"github.com/mosiko1234/trayicon/internal/errors"
	"github.com/mosiko1234/trayicon/internal/platform"
)

// Icon owns a native icon handle. Once installed on a tray icon it belongs to
// that tray icon and must not be shared with another one.
type Icon struct {
	handle  platform.HICON
	release func(platform.HICON) error
	once    sync.Once
}

// FromHandle wraps an existing handle. release, if non-nil, is called exactly
// once when the icon is released.
func FromHandle(h platform.HICON, release func(platform.HICON) error) *Icon {
	return &Icon{handle: h, release: release}
}

// Load loads an .ico file through loader. The returned icon destroys its
// handle through the same loader when released.
func Load(loader platform.IconLoader, path string) (*Icon, error) {
	h, err := loader.LoadIconFile(path)
	if err != nil {
		return nil, errors.NewOSError("load icon "+path, err)
	}
	return FromHandle(h, loader.DestroyIcon), nil
}

// Handle returns the native handle, or 0 for a nil icon.
func (i *Icon) Handle() platform.HICON {
	if i == nil {
		return 0
	}
	return i.handle
}

// Release frees the native handle. Subsequent calls do nothing.
func (i *Icon) Release() error {
	if i == nil {
		return nil
	}

	var err error
	i.once.Do(func() {
		if i.release != nil {
			err = i.release(i.handle)
		}
	})
	return err
}

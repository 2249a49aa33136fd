//go:build !windows

package tray

import "github.com/mosiko1234/trayicon/internal/platform"

func defaultShell() (platform.Shell, error) {
	return nil, ErrUnsupportedPlatform
}

//go:build windows

package tray

import (
	"github.com/mosiko1234/trayicon/internal/platform"
	"github.com/mosiko1234/trayicon/internal/platform/win32"
)

func defaultShell() (platform.Shell, error) {
	return win32.Default(), nil
}

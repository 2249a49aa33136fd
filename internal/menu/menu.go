// Package menu defines the capability a context menu exposes to a tray icon.
// Building menus and routing item clicks happens elsewhere; the tray icon only
// attaches the menu to its hidden window and displays its popup handle on a
// right click.
package menu

import "github.com/mosiko1234/trayicon/internal/platform"

// ContextMenu is a caller-supplied menu.
type ContextMenu interface {
	// AttachTo lets the menu receive the window's command messages.
	AttachTo(hwnd platform.HWND) error

	// DetachFrom undoes AttachTo.
	DetachFrom(hwnd platform.HWND)

	// PopupHandle returns the native popup menu to display.
	PopupHandle() platform.HMENU
}

// Handle returns m's popup handle, or 0 and false when m is nil.
func Handle(m ContextMenu) (platform.HMENU, bool) {
	if m == nil {
		return 0, false
	}
	return m.PopupHandle(), true
}

package platform

import "unicode/utf16"

// HWND identifies a native window.
type HWND uintptr

// HICON identifies a native icon resource.
type HICON uintptr

// HMENU identifies a native popup menu.
type HMENU uintptr

// Point is a screen position as reported by the OS (logical pixels).
type Point struct {
	X, Y int32
}

// RECT is a screen rectangle as reported by the OS (logical pixels).
type RECT struct {
	Left, Top, Right, Bottom int32
}

// TipLen is the size of the fixed tooltip buffer of a notification-area entry,
// in UTF-16 code units including the terminating NUL.
const TipLen = 128

// NotifyIconData is the portable subset of NOTIFYICONDATAW used by the
// notification-area registrar.
type NotifyIconData struct {
	Wnd             HWND
	ID              uint32
	Flags           uint32
	CallbackMessage uint32
	Icon            HICON
	Tip             [TipLen]uint16
}

// SubclassProc intercepts every message delivered to a hidden window. It runs
// on the window's owning thread only.
type SubclassProc func(hwnd HWND, msg uint32, wparam, lparam uintptr) uintptr

// WindowHost abstracts the windowing primitives a tray icon is built on.
type WindowHost interface {
	// SpawnWindow starts a dedicated UI thread, creates a hidden window on it
	// and installs proc as the window's message interceptor. It returns once
	// the window exists; the thread keeps pumping messages until the window
	// is destroyed.
	SpawnWindow(proc SubclassProc) (HWND, error)

	// PostMessage queues a message for hwnd without waiting for it to be
	// processed. Messages posted to the same window are processed in order.
	PostMessage(hwnd HWND, msg uint32, wparam, lparam uintptr) error

	// DefSubclassProc hands a message to the next handler in the chain.
	DefSubclassProc(hwnd HWND, msg uint32, wparam, lparam uintptr) uintptr

	// DestroyWindow destroys hwnd. Must be called from hwnd's owning thread.
	DestroyWindow(hwnd HWND) error

	// TaskbarCreatedMessage returns the message id the shell broadcasts after
	// the notification area has been recreated.
	TaskbarCreatedMessage() uint32

	// CursorPos returns the current cursor position.
	CursorPos() (Point, error)

	// DPIForWindow returns the current DPI of the monitor hwnd is on.
	DPIForWindow(hwnd HWND) uint32

	SetForegroundWindow(hwnd HWND) error

	// TrackPopupMenu displays menu anchored at (x, y) and blocks until it
	// is dismissed.
	TrackPopupMenu(menu HMENU, x, y int32, hwnd HWND) error
}

// NotifyArea abstracts the shell notification area (Shell_NotifyIconW).
type NotifyArea interface {
	NotifyIcon(op uint32, nid *NotifyIconData) error

	// NotifyIconRect returns the on-screen rectangle of the entry identified
	// by (hwnd, id). It fails when the entry does not exist.
	NotifyIconRect(hwnd HWND, id uint32) (RECT, error)
}

// IconLoader creates and destroys native icon resources.
type IconLoader interface {
	LoadIconFile(path string) (HICON, error)
	DestroyIcon(h HICON) error
}

// Shell is the complete OS surface consumed by the tray controller.
type Shell interface {
	WindowHost
	NotifyArea
	IconLoader
}

// TipString decodes the NUL-terminated tooltip buffer.
func (n NotifyIconData) TipString() string {
	end := 0
	for end < len(n.Tip) && n.Tip[end] != 0 {
		end++
	}
	return string(utf16.Decode(n.Tip[:end]))
}

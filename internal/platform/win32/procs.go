//go:build windows

// Package win32 implements platform.Shell on the Windows user32, shell32
// and comctl32 APIs.
package win32

import "golang.org/x/sys/windows"

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	shell32  = windows.NewLazySystemDLL("shell32.dll")
	comctl32 = windows.NewLazySystemDLL("comctl32.dll")

	pCreateWindowEx         = user32.NewProc("CreateWindowExW")
	pDefWindowProc          = user32.NewProc("DefWindowProcW")
	pDestroyWindow          = user32.NewProc("DestroyWindow")
	pDispatchMessage        = user32.NewProc("DispatchMessageW")
	pGetCursorPos           = user32.NewProc("GetCursorPos")
	pGetDpiForWindow        = user32.NewProc("GetDpiForWindow")
	pGetMessage             = user32.NewProc("GetMessageW")
	pLoadImage              = user32.NewProc("LoadImageW")
	pDestroyIcon            = user32.NewProc("DestroyIcon")
	pPostMessage            = user32.NewProc("PostMessageW")
	pPostQuitMessage        = user32.NewProc("PostQuitMessage")
	pRegisterClass          = user32.NewProc("RegisterClassExW")
	pRegisterWindowMessage  = user32.NewProc("RegisterWindowMessageW")
	pSetForegroundWindow    = user32.NewProc("SetForegroundWindow")
	pTrackPopupMenu         = user32.NewProc("TrackPopupMenu")
	pTranslateMessage       = user32.NewProc("TranslateMessage")
	pShellNotifyIcon        = shell32.NewProc("Shell_NotifyIconW")
	pShellNotifyIconGetRect = shell32.NewProc("Shell_NotifyIconGetRect")
	pSetWindowSubclass      = comctl32.NewProc("SetWindowSubclass")
	pDefSubclassProc        = comctl32.NewProc("DefSubclassProc")
	pRemoveWindowSubclass   = comctl32.NewProc("RemoveWindowSubclass")
)

const (
	wsExNoActivate  = 0x08000000
	wsExTransparent = 0x00000020
	wsExLayered     = 0x00080000
	wsExToolWindow  = 0x00000080
	wsOverlapped    = 0x00000000

	cwUseDefault = 0x80000000

	tpmLeftAlign   = 0x0000
	tpmBottomAlign = 0x0020

	imageIcon      = 1
	lrDefaultSize  = 0x00000040
	lrLoadFromFile = 0x00000010
)

type point struct {
	X, Y int32
}

type msg struct {
	Hwnd     windows.Handle
	Message  uint32
	WParam   uintptr
	LParam   uintptr
	Time     uint32
	Pt       point
	LPrivate uint32
}

//go:build windows

package win32

import (
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/sys/windows"

	"github.com/mosiko1234/trayicon/internal/platform"
)

const subclassID = 1

// subclasses maps a subclass's reference data to the Go interceptor it
// dispatches to. A single callback serves every window because
// windows.NewCallback slots are a finite process-wide resource.
var (
	subclasses = xsync.NewMapOf[uintptr, platform.SubclassProc]()
	nextRef    atomic.Uintptr

	// trampoline is the SUBCLASSPROC handed to SetWindowSubclass.
	trampoline uintptr

	taskbarCreated = sync.OnceValue(func() uint32 {
		name, err := windows.UTF16PtrFromString("TaskbarCreated")
		if err != nil {
			return 0
		}
		id, _, _ := pRegisterWindowMessage.Call(uintptr(unsafe.Pointer(name)))
		return uint32(id)
	})
)

func init() {
	trampoline = windows.NewCallback(subclassProc)
}

func subclassProc(hwnd, message, wparam, lparam, id, ref uintptr) uintptr {
	proc, ok := subclasses.Load(ref)
	if !ok {
		res, _, _ := pDefSubclassProc.Call(hwnd, message, wparam, lparam)
		return res
	}

	if message == platform.WM_NCDESTROY {
		pRemoveWindowSubclass.Call(hwnd, trampoline, id)
		subclasses.Delete(ref)
		res, _, _ := pDefSubclassProc.Call(hwnd, message, wparam, lparam)
		pPostQuitMessage.Call(0)
		return res
	}

	return proc(platform.HWND(hwnd), uint32(message), wparam, lparam)
}

// Shell is the native platform.Shell.
type Shell struct{}

var defaultShell = sync.OnceValue(func() *Shell { return &Shell{} })

// Default returns the process-wide shell.
func Default() *Shell {
	return defaultShell()
}

type spawnResult struct {
	hwnd windows.Handle
	err  error
}

// SpawnWindow implements platform.WindowHost.
func (s *Shell) SpawnWindow(proc platform.SubclassProc) (platform.HWND, error) {
	ready := make(chan spawnResult, 1)
	go s.run(proc, ready)

	r := <-ready
	return platform.HWND(r.hwnd), r.err
}

// run owns the window's thread: the window is created, subclassed and
// destroyed here, and its messages are pumped until WM_QUIT.
func (s *Shell) run(proc platform.SubclassProc, ready chan<- spawnResult) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	hwnd, err := createWindow()
	if err != nil {
		ready <- spawnResult{err: err}
		return
	}

	ref := nextRef.Add(1)
	subclasses.Store(ref, proc)

	res, _, err := pSetWindowSubclass.Call(uintptr(hwnd), trampoline, subclassID, ref)
	if res == 0 {
		subclasses.Delete(ref)
		pDestroyWindow.Call(uintptr(hwnd))
		ready <- spawnResult{err: err}
		return
	}

	ready <- spawnResult{hwnd: hwnd}

	var m msg
	for {
		ret, _, _ := pGetMessage.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		if int32(ret) <= 0 {
			return
		}
		pTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
		pDispatchMessage.Call(uintptr(unsafe.Pointer(&m)))
	}
}

// PostMessage implements platform.WindowHost.
func (s *Shell) PostMessage(hwnd platform.HWND, message uint32, wparam, lparam uintptr) error {
	res, _, err := pPostMessage.Call(uintptr(hwnd), uintptr(message), wparam, lparam)
	if res == 0 {
		return err
	}
	return nil
}

// DefSubclassProc implements platform.WindowHost.
func (s *Shell) DefSubclassProc(hwnd platform.HWND, message uint32, wparam, lparam uintptr) uintptr {
	res, _, _ := pDefSubclassProc.Call(uintptr(hwnd), uintptr(message), wparam, lparam)
	return res
}

// DestroyWindow implements platform.WindowHost.
func (s *Shell) DestroyWindow(hwnd platform.HWND) error {
	res, _, err := pDestroyWindow.Call(uintptr(hwnd))
	if res == 0 {
		return err
	}
	return nil
}

// TaskbarCreatedMessage implements platform.WindowHost.
func (s *Shell) TaskbarCreatedMessage() uint32 {
	return taskbarCreated()
}

// CursorPos implements platform.WindowHost.
func (s *Shell) CursorPos() (platform.Point, error) {
	var pt point
	res, _, err := pGetCursorPos.Call(uintptr(unsafe.Pointer(&pt)))
	if res == 0 {
		return platform.Point{}, err
	}
	return platform.Point{X: pt.X, Y: pt.Y}, nil
}

// DPIForWindow implements platform.WindowHost. Systems without
// GetDpiForWindow report the default DPI.
func (s *Shell) DPIForWindow(hwnd platform.HWND) uint32 {
	if pGetDpiForWindow.Find() != nil {
		return platform.DefaultDPI
	}
	res, _, _ := pGetDpiForWindow.Call(uintptr(hwnd))
	if res == 0 {
		return platform.DefaultDPI
	}
	return uint32(res)
}

// SetForegroundWindow implements platform.WindowHost.
func (s *Shell) SetForegroundWindow(hwnd platform.HWND) error {
	res, _, err := pSetForegroundWindow.Call(uintptr(hwnd))
	if res == 0 {
		return err
	}
	return nil
}

// TrackPopupMenu implements platform.WindowHost.
func (s *Shell) TrackPopupMenu(menu platform.HMENU, x, y int32, hwnd platform.HWND) error {
	res, _, err := pTrackPopupMenu.Call(
		uintptr(menu),
		uintptr(tpmBottomAlign|tpmLeftAlign),
		uintptr(x),
		uintptr(y),
		0,
		uintptr(hwnd),
		0,
	)
	if res == 0 {
		return err
	}
	return nil
}

// LoadIconFile implements platform.IconLoader.
func (s *Shell) LoadIconFile(path string) (platform.HICON, error) {
	name, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, err
	}

	h, _, err := pLoadImage.Call(
		0,
		uintptr(unsafe.Pointer(name)),
		imageIcon,
		0,
		0,
		lrDefaultSize|lrLoadFromFile,
	)
	if h == 0 {
		return 0, err
	}
	return platform.HICON(h), nil
}

// DestroyIcon implements platform.IconLoader.
func (s *Shell) DestroyIcon(h platform.HICON) error {
	res, _, err := pDestroyIcon.Call(uintptr(h))
	if res == 0 {
		return err
	}
	return nil
}

var _ platform.Shell = (*Shell)(nil)

//go:build windows

package win32

import (
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

const className = "TrayIconHiddenWindow"

// wndClassEx is WNDCLASSEXW.
// https://learn.microsoft.com/en-us/windows/win32/api/winuser/ns-winuser-wndclassexw
type wndClassEx struct {
	Size, Style                        uint32
	WndProc                            uintptr
	ClsExtra, WndExtra                 int32
	Instance, Icon, Cursor, Background windows.Handle
	MenuName, ClassName                *uint16
	IconSm                             windows.Handle
}

func (w *wndClassEx) register() error {
	w.Size = uint32(unsafe.Sizeof(*w))
	res, _, err := pRegisterClass.Call(uintptr(unsafe.Pointer(w)))
	if res == 0 {
		return err
	}
	return nil
}

type classInfo struct {
	instance windows.Handle
	name     *uint16
}

// registerClass registers the hidden window class once per process. The
// class uses DefWindowProcW; all behavior comes from the subclass.
var registerClass = sync.OnceValues(func() (classInfo, error) {
	var instance windows.Handle
	if err := windows.GetModuleHandleEx(0, nil, &instance); err != nil {
		return classInfo{}, err
	}

	name, err := windows.UTF16PtrFromString(className)
	if err != nil {
		return classInfo{}, err
	}

	wc := wndClassEx{
		WndProc:   pDefWindowProc.Addr(),
		Instance:  instance,
		ClassName: name,
	}
	if err := wc.register(); err != nil {
		return classInfo{}, err
	}
	return classInfo{instance: instance, name: name}, nil
})

// createWindow creates a hidden, never-activated window. It is not a
// message-only window: those do not receive broadcasts such as
// TaskbarCreated.
func createWindow() (windows.Handle, error) {
	cls, err := registerClass()
	if err != nil {
		return 0, err
	}

	hwnd, _, err := pCreateWindowEx.Call(
		uintptr(wsExNoActivate|wsExTransparent|wsExLayered|wsExToolWindow),
		uintptr(unsafe.Pointer(cls.name)),
		uintptr(unsafe.Pointer(cls.name)),
		uintptr(wsOverlapped),
		uintptr(cwUseDefault),
		0,
		uintptr(cwUseDefault),
		0,
		0,
		0,
		uintptr(cls.instance),
		0,
	)
	if hwnd == 0 {
		return 0, err
	}
	return windows.Handle(hwnd), nil
}

//go:build windows

package win32

import (
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/mosiko1234/trayicon/internal/platform"
)

// notifyIconData is NOTIFYICONDATAW.
// https://learn.microsoft.com/en-us/windows/win32/api/shellapi/ns-shellapi-notifyicondataw
type notifyIconData struct {
	Size                       uint32
	Wnd                        windows.Handle
	ID, Flags, CallbackMessage uint32
	Icon                       windows.Handle
	Tip                        [platform.TipLen]uint16
	State, StateMask           uint32
	Info                       [256]uint16
	Timeout                    uint32
	InfoTitle                  [64]uint16
	InfoFlags                  uint32
	GuidItem                   windows.GUID
	BalloonIcon                windows.Handle
}

// notifyIconIdentifier is NOTIFYICONIDENTIFIER.
type notifyIconIdentifier struct {
	Size     uint32
	Wnd      windows.Handle
	ID       uint32
	GuidItem windows.GUID
}

func newNotifyIconData(in *platform.NotifyIconData) *notifyIconData {
	nid := &notifyIconData{
		Wnd:             windows.Handle(in.Wnd),
		ID:              in.ID,
		Flags:           in.Flags,
		CallbackMessage: in.CallbackMessage,
		Icon:            windows.Handle(in.Icon),
		Tip:             in.Tip,
	}
	nid.Size = uint32(unsafe.Sizeof(*nid))
	return nid
}

func (nid *notifyIconData) call(op uint32) error {
	res, _, err := pShellNotifyIcon.Call(
		uintptr(op),
		uintptr(unsafe.Pointer(nid)),
	)
	if res == 0 {
		return err
	}
	return nil
}

// NotifyIcon implements platform.NotifyArea.
func (s *Shell) NotifyIcon(op uint32, in *platform.NotifyIconData) error {
	return newNotifyIconData(in).call(op)
}

// NotifyIconRect implements platform.NotifyArea.
func (s *Shell) NotifyIconRect(hwnd platform.HWND, id uint32) (platform.RECT, error) {
	ident := notifyIconIdentifier{
		Wnd: windows.Handle(hwnd),
		ID:  id,
	}
	ident.Size = uint32(unsafe.Sizeof(ident))

	var rc windows.Rect
	hr, _, _ := pShellNotifyIconGetRect.Call(
		uintptr(unsafe.Pointer(&ident)),
		uintptr(unsafe.Pointer(&rc)),
	)
	if hr != 0 {
		return platform.RECT{}, windows.Errno(hr)
	}
	return platform.RECT{Left: rc.Left, Top: rc.Top, Right: rc.Right, Bottom: rc.Bottom}, nil
}

package tray

import (
	"unicode/utf16"

	"github.com/mosiko1234/trayicon/internal/dpi"
	"github.com/mosiko1234/trayicon/internal/logger"
	"github.com/mosiko1234/trayicon/internal/platform"
)

// registrar adds, modifies and removes notification-area slots.
type registrar struct {
	area platform.NotifyArea
	log  *logger.Logger
}

func newRegistrar(area platform.NotifyArea, log *logger.Logger) *registrar {
	return &registrar{area: area, log: log}
}

// register adds the slot for (hwnd, id). Only the fields that are present
// get a flag: a zero icon or an empty tooltip is left out.
func (r *registrar) register(hwnd platform.HWND, id uint32, hicon platform.HICON, tooltip string) error {
	nid := platform.NotifyIconData{
		Wnd:             hwnd,
		ID:              id,
		Flags:           platform.NIF_MESSAGE,
		CallbackMessage: msgTrayIcon,
	}

	if hicon != 0 {
		nid.Flags |= platform.NIF_ICON
		nid.Icon = hicon
	}

	if tooltip != "" {
		nid.Flags |= platform.NIF_TIP
		nid.Tip = encodeTip(tooltip)
	}

	return r.area.NotifyIcon(platform.NIM_ADD, &nid)
}

func (r *registrar) modifyIcon(hwnd platform.HWND, id uint32, hicon platform.HICON) error {
	nid := platform.NotifyIconData{
		Wnd:   hwnd,
		ID:    id,
		Flags: platform.NIF_ICON,
		Icon:  hicon,
	}
	return r.area.NotifyIcon(platform.NIM_MODIFY, &nid)
}

func (r *registrar) modifyTooltip(hwnd platform.HWND, id uint32, tooltip string) error {
	nid := platform.NotifyIconData{
		Wnd:   hwnd,
		ID:    id,
		Flags: platform.NIF_TIP,
		Tip:   encodeTip(tooltip),
	}
	return r.area.NotifyIcon(platform.NIM_MODIFY, &nid)
}

// remove deletes the slot. Failure usually means the shell already dropped
// it, so it is only logged.
func (r *registrar) remove(hwnd platform.HWND, id uint32) {
	nid := platform.NotifyIconData{
		Wnd:   hwnd,
		ID:    id,
		Flags: platform.NIF_ICON,
	}

	if err := r.area.NotifyIcon(platform.NIM_DELETE, &nid); err != nil {
		r.log.Warn("Error removing system tray icon %d: %v", id, err)
	}
}

// queryRect returns the slot's physical bounding rectangle. ok is false and
// the rectangle zero when the shell cannot report it.
func (r *registrar) queryRect(hwnd platform.HWND, id uint32, scaleFactor float64) (dpi.Rect, bool) {
	rc, err := r.area.NotifyIconRect(hwnd, id)
	if err != nil {
		return dpi.Rect{}, false
	}
	return dpi.FromRECT(rc, scaleFactor), true
}

// encodeTip converts s to a NUL-terminated UTF-16 tooltip buffer, truncating
// silently. A surrogate pair is never split.
func encodeTip(s string) [platform.TipLen]uint16 {
	var tip [platform.TipLen]uint16

	units := utf16.Encode([]rune(s))
	if len(units) > platform.TipLen-1 {
		units = units[:platform.TipLen-1]
		if last := units[len(units)-1]; last >= 0xD800 && last <= 0xDBFF {
			units = units[:len(units)-1]
		}
	}

	copy(tip[:], units)
	return tip
}

package tray

import (
	"sync/atomic"

	"github.com/mosiko1234/trayicon/internal/dpi"
	"github.com/mosiko1234/trayicon/internal/events"
	"github.com/mosiko1234/trayicon/internal/icon"
	"github.com/mosiko1234/trayicon/internal/logger"
	"github.com/mosiko1234/trayicon/internal/platform"
)

// interceptor is installed on a hidden window and runs only on that
// window's thread. It is the sole owner of the window's trayState.
type interceptor struct {
	shell   platform.Shell
	mailbox *mailbox
	reg     *registrar
	bus     *events.Bus
	log     *logger.Logger

	taskbarCreated uint32

	state *trayState

	// applied is the sequence number of the last show or deferred update
	// processed.
	applied atomic.Uint64

	// destroyed is closed once the window has processed WM_DESTROY.
	destroyed chan struct{}
	reclaims  atomic.Int32
}

func newInterceptor(shell platform.Shell, mb *mailbox, reg *registrar, bus *events.Bus, log *logger.Logger) *interceptor {
	return &interceptor{
		shell:          shell,
		mailbox:        mb,
		reg:            reg,
		bus:            bus,
		log:            log,
		taskbarCreated: shell.TaskbarCreatedMessage(),
		destroyed:      make(chan struct{}),
	}
}

func (ic *interceptor) proc(hwnd platform.HWND, msg uint32, wparam, lparam uintptr) uintptr {
	switch msg {
	case platform.WM_DESTROY:
		ic.onDestroy()
		return 0

	case msgAttachState:
		if v, ok := ic.mailbox.take(wparam); ok {
			s, _ := v.(*trayState)
			if ic.state != nil {
				// Only one handoff per window ever happens.
				ic.dispose(s)
				break
			}
			ic.state = s
		}

	case msgUpdateIcon:
		if v, ok := ic.mailbox.take(wparam); ok {
			u, _ := v.(iconUpdate)
			if ic.state == nil {
				ic.dispose(u)
				break
			}
			ic.releaseIcon(ic.state.replaceIcon(u.icon))
			if u.seq != 0 {
				if ic.state.registered {
					if err := ic.reg.modifyIcon(hwnd, ic.state.internalID, u.icon.Handle()); err != nil {
						ic.log.Error("Failed to update icon of tray icon %d: %v", ic.state.internalID, err)
					}
				}
				ic.applied.Store(u.seq)
			}
		}

	case msgUpdateTooltip:
		if v, ok := ic.mailbox.take(wparam); ok && ic.state != nil {
			u := v.(tooltipUpdate)
			ic.state.tooltip = u.text
			if u.seq != 0 {
				if ic.state.registered {
					if err := ic.reg.modifyTooltip(hwnd, ic.state.internalID, u.text); err != nil {
						ic.log.Error("Failed to update tooltip of tray icon %d: %v", ic.state.internalID, err)
					}
				}
				ic.applied.Store(u.seq)
			}
		}

	case msgUpdateMenu:
		if v, ok := ic.mailbox.take(wparam); ok && ic.state != nil {
			u := v.(menuUpdate)
			ic.state.popup, ic.state.hasPopup = u.popup, u.hasPopup
		}

	case msgShow:
		ic.show()
		ic.applied.Store(uint64(wparam))

	case msgHide:
		ic.hide()

	case msgDestroyRequest:
		ic.teardown(hwnd, wparam)
		return 0

	case msgTrayIcon:
		ic.onNotify(hwnd, lparam)

	default:
		if ic.taskbarCreated != 0 && msg == ic.taskbarCreated {
			ic.onTaskbarCreated()
		}
	}

	return ic.shell.DefSubclassProc(hwnd, msg, wparam, lparam)
}

func (ic *interceptor) show() {
	s := ic.state
	if s == nil {
		return
	}

	s.visible = true
	if s.registered {
		return
	}
	ic.registerState()
}

func (ic *interceptor) hide() {
	s := ic.state
	if s == nil {
		return
	}

	s.visible = false
	if !s.registered {
		return
	}
	ic.reg.remove(s.hwnd, s.internalID)
	s.registered = false
}

// onTaskbarCreated re-adds the slot after the shell restarted and dropped
// every notification-area entry.
func (ic *interceptor) onTaskbarCreated() {
	s := ic.state
	if s == nil {
		return
	}

	s.registered = false
	if !s.visible {
		return
	}
	ic.log.Info("Taskbar recreated, registering tray icon %d again", s.internalID)
	ic.registerState()
}

func (ic *interceptor) registerState() {
	s := ic.state
	if err := ic.reg.register(s.hwnd, s.internalID, s.icon.Handle(), s.tooltip); err != nil {
		ic.log.Error("Failed to register tray icon %d: %v", s.internalID, err)
		return
	}
	s.registered = true
}

// onNotify turns a notification-area callback into a click event.
func (ic *interceptor) onNotify(hwnd platform.HWND, lparam uintptr) {
	s := ic.state
	if s == nil {
		return
	}

	mouseMsg := uint32(lparam & 0xFFFF)
	var click events.ClickType
	switch mouseMsg {
	case platform.WM_LBUTTONUP:
		click = events.ClickLeft
	case platform.WM_RBUTTONUP:
		click = events.ClickRight
	case platform.WM_LBUTTONDBLCLK:
		click = events.ClickDouble
	default:
		return
	}

	cursor, err := ic.shell.CursorPos()
	if err != nil {
		ic.log.Debug("GetCursorPos failed: %v", err)
	}

	scale := dpi.ScaleFactor(ic.shell.DPIForWindow(hwnd))
	rect, _ := ic.reg.queryRect(hwnd, s.internalID, scale)

	ic.bus.Send(events.TrayIconEvent{
		ID:        s.id,
		Position:  dpi.FromPoint(cursor, scale),
		IconRect:  rect,
		ClickType: click,
	})

	if click == events.ClickRight && s.hasPopup {
		ic.showMenu(hwnd, s.popup, cursor)
	}
}

// showMenu brings the hidden window to the foreground so the popup closes
// when the user clicks elsewhere.
func (ic *interceptor) showMenu(hwnd platform.HWND, popup platform.HMENU, at platform.Point) {
	if err := ic.shell.SetForegroundWindow(hwnd); err != nil {
		ic.log.Debug("SetForegroundWindow failed: %v", err)
	}
	if err := ic.shell.TrackPopupMenu(popup, at.X, at.Y, hwnd); err != nil {
		ic.log.Warn("Failed to show tray menu: %v", err)
	}
}

// teardown removes the slot, detaches the menu and destroys the window, in
// that order.
func (ic *interceptor) teardown(hwnd platform.HWND, token uintptr) {
	var td teardown
	if v, ok := ic.mailbox.take(token); ok {
		td = v.(teardown)
	}

	if s := ic.state; s != nil {
		s.visible = false
		if s.registered {
			ic.reg.remove(hwnd, s.internalID)
			s.registered = false
		}
	}

	if td.menu != nil {
		td.menu.DetachFrom(hwnd)
	}

	if err := ic.shell.DestroyWindow(hwnd); err != nil {
		ic.log.Error("Failed to destroy tray window: %v", err)
	}
}

// onDestroy reclaims the state and any payload still parked for this window.
func (ic *interceptor) onDestroy() {
	select {
	case <-ic.destroyed:
		return
	default:
	}

	if ic.state != nil {
		ic.dispose(ic.state)
		ic.state = nil
	}
	if n := ic.mailbox.drain(ic.dispose); n > 0 {
		ic.log.Debug("Reclaimed %d undelivered tray updates", n)
	}
	close(ic.destroyed)
}

// dispose releases whatever a payload owns.
func (ic *interceptor) dispose(v any) {
	switch p := v.(type) {
	case *trayState:
		if p == nil {
			return
		}
		ic.releaseIcon(p.icon)
		p.icon = nil
		ic.reclaims.Add(1)
	case iconUpdate:
		ic.releaseIcon(p.icon)
	case teardown:
		if p.menu != nil {
			p.menu.DetachFrom(p.hwnd)
		}
	}
}

func (ic *interceptor) releaseIcon(i *icon.Icon) {
	if err := i.Release(); err != nil {
		ic.log.Warn("Failed to release tray icon: %v", err)
	}
}

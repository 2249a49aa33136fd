// Package tray implements a notification-area icon on top of a hidden window.
//
// Each TrayIcon owns one hidden window running on its own UI thread. Methods
// may be called from any goroutine: they perform the synchronous shell call
// on the caller's goroutine and post the matching state change to the
// window, whose interceptor is the only code that touches the cached icon,
// tooltip, menu handle and visibility. Values cross the thread boundary
// through a mailbox so each one is reclaimed exactly once.
//
// Clicks are published to the process-wide events bus.
package tray

import (
	"sync"

	"github.com/google/uuid"

	"github.com/mosiko1234/trayicon/internal/dpi"
	"github.com/mosiko1234/trayicon/internal/errors"
	"github.com/mosiko1234/trayicon/internal/events"
	"github.com/mosiko1234/trayicon/internal/icon"
	"github.com/mosiko1234/trayicon/internal/logger"
	"github.com/mosiko1234/trayicon/internal/menu"
	"github.com/mosiko1234/trayicon/internal/platform"
)

var (
	// ErrClosed is returned by operations on a TrayIcon after Close.
	ErrClosed = errors.New("tray icon closed")

	// ErrUnsupportedPlatform is returned by New on platforms without a
	// native shell implementation.
	ErrUnsupportedPlatform = errors.New("tray icons are not supported on this platform")
)

// Attributes configure a new tray icon. Zero values mean "absent".
type Attributes struct {
	// Icon becomes owned by the tray icon once New succeeds.
	Icon    *icon.Icon
	Tooltip string
	Menu    menu.ContextMenu

	// Hidden creates the icon without adding it to the notification area;
	// SetVisible(true) shows it.
	Hidden bool
}

// TrayIcon is a notification-area icon.
type TrayIcon struct {
	id         string
	internalID uint32
	hwnd       platform.HWND

	shell   platform.Shell
	reg     *registrar
	mailbox *mailbox
	ic      *interceptor
	log     *logger.Logger

	mu      sync.Mutex
	menu    menu.ContextMenu
	visible bool
	closed  bool

	// seq numbers show requests and deferred updates. The window thread
	// reports the last one it processed through ic.applied.
	seq uint64
}

// New creates a tray icon on the native shell and publishes its clicks to
// the process-wide events bus. An empty id is replaced by a random UUID.
func New(id string, attrs Attributes) (*TrayIcon, error) {
	shell, err := defaultShell()
	if err != nil {
		return nil, err
	}
	return newTrayIcon(shell, events.Default(), id, attrs)
}

// NewWithShell is New on an explicit shell.
func NewWithShell(shell platform.Shell, id string, attrs Attributes) (*TrayIcon, error) {
	return newTrayIcon(shell, events.Default(), id, attrs)
}

// LoadIcon loads an .ico file through the native shell.
func LoadIcon(path string) (*icon.Icon, error) {
	shell, err := defaultShell()
	if err != nil {
		return nil, err
	}
	return icon.Load(shell, path)
}

func newTrayIcon(shell platform.Shell, bus *events.Bus, id string, attrs Attributes) (*TrayIcon, error) {
	if id == "" {
		id = uuid.NewString()
	}

	internalID := nextInternalID()
	log := logger.NewComponentLogger("tray").WithField("tray_id", id)
	mb := newMailbox()
	reg := newRegistrar(shell, log)
	ic := newInterceptor(shell, mb, reg, bus, log)

	hwnd, err := shell.SpawnWindow(ic.proc)
	if err != nil {
		return nil, errors.NewOSError("create tray window", err)
	}

	t := &TrayIcon{
		id:         id,
		internalID: internalID,
		hwnd:       hwnd,
		shell:      shell,
		reg:        reg,
		mailbox:    mb,
		ic:         ic,
		log:        log,
		menu:       attrs.Menu,
		visible:    !attrs.Hidden,
	}

	if !attrs.Hidden {
		if err := reg.register(hwnd, internalID, attrs.Icon.Handle(), attrs.Tooltip); err != nil {
			t.abandon()
			return nil, errors.NewOSError("register tray icon", err)
		}
	}

	if attrs.Menu != nil {
		if err := attrs.Menu.AttachTo(hwnd); err != nil {
			if !attrs.Hidden {
				reg.remove(hwnd, internalID)
			}
			t.abandon()
			return nil, errors.NewOSError("attach tray menu", err)
		}
	}

	popup, hasPopup := menu.Handle(attrs.Menu)
	state := &trayState{
		internalID: internalID,
		id:         id,
		hwnd:       hwnd,
		popup:      popup,
		hasPopup:   hasPopup,
		icon:       attrs.Icon,
		tooltip:    attrs.Tooltip,
		visible:    !attrs.Hidden,
		registered: !attrs.Hidden,
	}

	token := mb.put(state)
	if err := shell.PostMessage(hwnd, msgAttachState, token, 0); err != nil {
		mb.take(token)
		if !attrs.Hidden {
			reg.remove(hwnd, internalID)
		}
		if attrs.Menu != nil {
			attrs.Menu.DetachFrom(hwnd)
		}
		t.abandon()
		return nil, errors.NewOSError("hand off tray state", err)
	}

	log.Debug("Tray icon %d created on window %#x", internalID, uintptr(hwnd))
	return t, nil
}

// abandon destroys a window that never received its state. If the request
// cannot be posted the window and its thread are left running.
func (t *TrayIcon) abandon() {
	if err := t.shell.PostMessage(t.hwnd, msgDestroyRequest, 0, 0); err != nil {
		t.log.ErrorWithContext(err, "Tray window %#x orphaned", uintptr(t.hwnd))
		return
	}
	<-t.ic.destroyed
}

// ID returns the id the tray icon was created with.
func (t *TrayIcon) ID() string {
	return t.id
}

// send parks payload in the mailbox and posts msg carrying its token. On
// failure the payload is taken back and ownership stays with the caller.
func (t *TrayIcon) send(msg uint32, payload any) error {
	token := t.mailbox.put(payload)
	if err := t.shell.PostMessage(t.hwnd, msg, token, 0); err != nil {
		t.mailbox.take(token)
		return err
	}
	return nil
}

// slotLive reports whether a change can be made to the slot on the caller's
// thread: the icon is visible and no show or deferred update is still queued
// ahead of it. Called with t.mu held.
func (t *TrayIcon) slotLive() bool {
	return t.visible && t.ic.applied.Load() == t.seq
}

// deferredSeq returns the sequence number for an update the window thread
// must apply, or 0 when live.
func (t *TrayIcon) deferredSeq(live bool) uint64 {
	if live {
		return 0
	}
	return t.seq + 1
}

// SetIcon replaces the icon. A nil icon clears it. On success the tray icon
// owns ic and releases the previous one; on error the caller keeps ic.
func (t *TrayIcon) SetIcon(ic *icon.Icon) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}

	live := t.slotLive()
	if live {
		if err := t.reg.modifyIcon(t.hwnd, t.internalID, ic.Handle()); err != nil {
			return errors.NewOSError("set tray icon", err)
		}
	}

	seq := t.deferredSeq(live)
	if err := t.send(msgUpdateIcon, iconUpdate{icon: ic, seq: seq}); err != nil {
		return errors.NewOSError("post tray icon update", err)
	}
	if seq != 0 {
		t.seq = seq
	}
	return nil
}

// SetTooltip replaces the tooltip. Text longer than the shell's tooltip
// buffer is truncated. An empty string clears it.
func (t *TrayIcon) SetTooltip(text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}

	live := t.slotLive()
	if live {
		if err := t.reg.modifyTooltip(t.hwnd, t.internalID, text); err != nil {
			return errors.NewOSError("set tray tooltip", err)
		}
	}

	seq := t.deferredSeq(live)
	if err := t.send(msgUpdateTooltip, tooltipUpdate{text: text, seq: seq}); err != nil {
		return errors.NewOSError("post tray tooltip update", err)
	}
	if seq != 0 {
		t.seq = seq
	}
	return nil
}

// SetMenu detaches the current menu and attaches m. A nil m removes the
// menu. If attaching m fails the tray icon is left without a menu.
func (t *TrayIcon) SetMenu(m menu.ContextMenu) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}

	if t.menu != nil {
		t.menu.DetachFrom(t.hwnd)
		t.menu = nil
	}

	var attachErr error
	if m != nil {
		if err := m.AttachTo(t.hwnd); err != nil {
			attachErr = errors.NewOSError("attach tray menu", err)
		} else {
			t.menu = m
		}
	}

	popup, hasPopup := menu.Handle(t.menu)
	if err := t.send(msgUpdateMenu, menuUpdate{popup: popup, hasPopup: hasPopup}); err != nil && attachErr == nil {
		return errors.NewOSError("post tray menu update", err)
	}
	return attachErr
}

// SetVisible shows or hides the icon. Hiding keeps the icon, tooltip and
// menu so a later show restores them. Repeating the current state is a
// no-op. Updates made before the window has processed a show are applied
// by the window thread after it, in order.
func (t *TrayIcon) SetVisible(visible bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}

	if !visible {
		if err := t.shell.PostMessage(t.hwnd, msgHide, 0, 0); err != nil {
			return errors.NewOSError("post tray visibility", err)
		}
		t.visible = false
		return nil
	}

	seq := t.seq + 1
	if err := t.shell.PostMessage(t.hwnd, msgShow, uintptr(seq), 0); err != nil {
		return errors.NewOSError("post tray visibility", err)
	}
	t.seq = seq
	t.visible = true
	return nil
}

// Rect returns the icon's current bounding rectangle in physical pixels.
// ok is false when the icon is not in the notification area.
func (t *TrayIcon) Rect() (rect dpi.Rect, ok bool) {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()

	if closed {
		return dpi.Rect{}, false
	}

	scale := dpi.ScaleFactor(t.shell.DPIForWindow(t.hwnd))
	return t.reg.queryRect(t.hwnd, t.internalID, scale)
}

// Close removes the icon from the notification area, detaches the menu and
// destroys the hidden window. It blocks until the window has released its
// state, so it must not be called from an event handler running on the
// window thread. Close is idempotent.
func (t *TrayIcon) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	m := t.menu
	t.menu = nil
	t.mu.Unlock()

	td := teardown{hwnd: t.hwnd, menu: m}
	if err := t.send(msgDestroyRequest, td); err != nil {
		// The window is already gone; clean up from here.
		t.reg.remove(t.hwnd, t.internalID)
		if m != nil {
			m.DetachFrom(t.hwnd)
		}
		t.mailbox.drain(t.ic.dispose)
		return errors.NewOSError("destroy tray window", err)
	}

	<-t.ic.destroyed
	t.log.Debug("Tray icon %d destroyed", t.internalID)
	return nil
}

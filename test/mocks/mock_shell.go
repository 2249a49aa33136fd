package mocks

import (
	"fmt"
	"sync"
	"syscall"

	"github.com/mosiko1234/trayicon/internal/platform"
)

// MockTaskbarCreated is the message id MockShell reports for TaskbarCreated.
const MockTaskbarCreated = 0xC0DE

// errInvalidWindow mirrors ERROR_INVALID_WINDOW_HANDLE.
const errInvalidWindow = syscall.Errno(1400)

// PopupCall records one TrackPopupMenu invocation.
type PopupCall struct {
	Menu platform.HMENU
	X, Y int32
	Hwnd platform.HWND
}

// NotifyCall records one Shell_NotifyIcon invocation.
type NotifyCall struct {
	Op   uint32
	Data platform.NotifyIconData
}

type slotKey struct {
	hwnd platform.HWND
	id   uint32
}

type posted struct {
	msg            uint32
	wparam, lparam uintptr
}

// mockWindow emulates a hidden window and the thread pumping its queue.
// Posted messages are delivered to proc in order on the window's goroutine.
type mockWindow struct {
	hwnd platform.HWND
	proc platform.SubclassProc

	mu        sync.Mutex
	cond      *sync.Cond
	queue     []posted
	posted    int
	processed int
	destroyed bool
}

func (w *mockWindow) loop() {
	for {
		w.mu.Lock()
		for len(w.queue) == 0 && !w.destroyed {
			w.cond.Wait()
		}
		if w.destroyed {
			w.mu.Unlock()
			return
		}
		m := w.queue[0]
		w.queue = w.queue[1:]
		w.mu.Unlock()

		w.proc(w.hwnd, m.msg, m.wparam, m.lparam)

		w.mu.Lock()
		w.processed++
		w.cond.Broadcast()
		w.mu.Unlock()
	}
}

// MockShell is an in-memory platform.Shell. Each spawned window gets its own
// goroutine standing in for the UI thread, and the notification area is a
// map of slots keyed by (hwnd, id).
type MockShell struct {
	mu sync.Mutex

	nextHwnd platform.HWND
	nextIcon platform.HICON
	windows  map[platform.HWND]*mockWindow
	slots    map[slotKey]platform.NotifyIconData

	calls          []NotifyCall
	popups         []PopupCall
	foreground     int
	loadedIcons    int
	destroyedIcons []platform.HICON
	destroyedWnds  int

	cursor    platform.Point
	cursorErr error
	dpi       uint32
	iconRect  platform.RECT

	spawnErr   error
	notifyErrs map[uint32]error
	postErrs   map[uint32]error
	loadErr    error
}

// NewMockShell creates a mock shell at the default DPI.
func NewMockShell() *MockShell {
	return &MockShell{
		nextHwnd:   0x1000,
		nextIcon:   0x5000,
		windows:    make(map[platform.HWND]*mockWindow),
		slots:      make(map[slotKey]platform.NotifyIconData),
		dpi:        platform.DefaultDPI,
		iconRect:   platform.RECT{Left: 100, Top: 200, Right: 116, Bottom: 216},
		notifyErrs: make(map[uint32]error),
		postErrs:   make(map[uint32]error),
	}
}

// SpawnWindow starts a window goroutine running proc.
func (m *MockShell) SpawnWindow(proc platform.SubclassProc) (platform.HWND, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.spawnErr != nil {
		return 0, m.spawnErr
	}

	m.nextHwnd += 0x10
	w := &mockWindow{hwnd: m.nextHwnd, proc: proc}
	w.cond = sync.NewCond(&w.mu)
	m.windows[w.hwnd] = w

	go w.loop()
	return w.hwnd, nil
}

func (m *MockShell) window(hwnd platform.HWND) *mockWindow {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.windows[hwnd]
}

// PostMessage queues msg for hwnd. It fails once the window is destroyed.
func (m *MockShell) PostMessage(hwnd platform.HWND, msg uint32, wparam, lparam uintptr) error {
	m.mu.Lock()
	err := m.postErrs[msg]
	m.mu.Unlock()
	if err != nil {
		return err
	}

	w := m.window(hwnd)
	if w == nil {
		return errInvalidWindow
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.destroyed {
		return errInvalidWindow
	}
	w.queue = append(w.queue, posted{msg: msg, wparam: wparam, lparam: lparam})
	w.posted++
	w.cond.Broadcast()
	return nil
}

// DefSubclassProc returns 0 for every message.
func (m *MockShell) DefSubclassProc(hwnd platform.HWND, msg uint32, wparam, lparam uintptr) uintptr {
	return 0
}

// DestroyWindow marks hwnd destroyed, discards its queue and delivers
// WM_DESTROY and WM_NCDESTROY synchronously.
func (m *MockShell) DestroyWindow(hwnd platform.HWND) error {
	w := m.window(hwnd)
	if w == nil {
		return errInvalidWindow
	}

	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		return errInvalidWindow
	}
	w.destroyed = true
	w.queue = nil
	w.cond.Broadcast()
	w.mu.Unlock()

	m.mu.Lock()
	m.destroyedWnds++
	m.mu.Unlock()

	w.proc(hwnd, platform.WM_DESTROY, 0, 0)
	w.proc(hwnd, platform.WM_NCDESTROY, 0, 0)
	return nil
}

// TaskbarCreatedMessage returns MockTaskbarCreated.
func (m *MockShell) TaskbarCreatedMessage() uint32 {
	return MockTaskbarCreated
}

// CursorPos returns the configured cursor position.
func (m *MockShell) CursorPos() (platform.Point, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor, m.cursorErr
}

// DPIForWindow returns the configured DPI.
func (m *MockShell) DPIForWindow(hwnd platform.HWND) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dpi
}

// SetForegroundWindow counts calls.
func (m *MockShell) SetForegroundWindow(hwnd platform.HWND) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.foreground++
	return nil
}

// TrackPopupMenu records the popup.
func (m *MockShell) TrackPopupMenu(menu platform.HMENU, x, y int32, hwnd platform.HWND) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.popups = append(m.popups, PopupCall{Menu: menu, X: x, Y: y, Hwnd: hwnd})
	return nil
}

// NotifyIcon applies op to the slot table. Adding an existing slot or
// modifying or deleting a missing one fails, as the real shell does.
func (m *MockShell) NotifyIcon(op uint32, nid *platform.NotifyIconData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, NotifyCall{Op: op, Data: *nid})

	if err := m.notifyErrs[op]; err != nil {
		return err
	}

	key := slotKey{hwnd: nid.Wnd, id: nid.ID}
	slot, exists := m.slots[key]

	switch op {
	case platform.NIM_ADD:
		if exists {
			return &MockError{Message: fmt.Sprintf("slot %d already registered", nid.ID)}
		}
		m.slots[key] = *nid
	case platform.NIM_MODIFY:
		if !exists {
			return &MockError{Message: fmt.Sprintf("slot %d not registered", nid.ID)}
		}
		if nid.Flags&platform.NIF_ICON != 0 {
			slot.Icon = nid.Icon
		}
		if nid.Flags&platform.NIF_TIP != 0 {
			slot.Tip = nid.Tip
		}
		if nid.Flags&platform.NIF_MESSAGE != 0 {
			slot.CallbackMessage = nid.CallbackMessage
		}
		m.slots[key] = slot
	case platform.NIM_DELETE:
		if !exists {
			return &MockError{Message: fmt.Sprintf("slot %d not registered", nid.ID)}
		}
		delete(m.slots, key)
	default:
		return &MockError{Message: fmt.Sprintf("unknown notify op %d", op)}
	}
	return nil
}

// NotifyIconRect returns the configured rectangle for registered slots.
func (m *MockShell) NotifyIconRect(hwnd platform.HWND, id uint32) (platform.RECT, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.slots[slotKey{hwnd: hwnd, id: id}]; !ok {
		return platform.RECT{}, syscall.Errno(0x80004005)
	}
	return m.iconRect, nil
}

// LoadIconFile hands out a fresh icon handle.
func (m *MockShell) LoadIconFile(path string) (platform.HICON, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loadErr != nil {
		return 0, m.loadErr
	}
	m.nextIcon++
	m.loadedIcons++
	return m.nextIcon, nil
}

// DestroyIcon records the destroyed handle.
func (m *MockShell) DestroyIcon(h platform.HICON) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.destroyedIcons = append(m.destroyedIcons, h)
	return nil
}

// SimulateClick posts a notification-area callback for the slot (hwnd, id)
// carrying mouseMsg, as the shell does when the user clicks the icon.
func (m *MockShell) SimulateClick(hwnd platform.HWND, id uint32, mouseMsg uint32) error {
	m.mu.Lock()
	slot, ok := m.slots[slotKey{hwnd: hwnd, id: id}]
	m.mu.Unlock()

	if !ok {
		return &MockError{Message: fmt.Sprintf("slot %d not registered", id)}
	}
	return m.PostMessage(hwnd, slot.CallbackMessage, uintptr(id), uintptr(mouseMsg))
}

// BroadcastTaskbarCreated drops every slot and notifies every live window,
// as happens when the shell restarts.
func (m *MockShell) BroadcastTaskbarCreated() {
	m.mu.Lock()
	m.slots = make(map[slotKey]platform.NotifyIconData)
	wins := make([]platform.HWND, 0, len(m.windows))
	for hwnd := range m.windows {
		wins = append(wins, hwnd)
	}
	m.mu.Unlock()

	for _, hwnd := range wins {
		_ = m.PostMessage(hwnd, MockTaskbarCreated, 0, 0)
	}
}

// Flush blocks until every message posted to hwnd so far has been
// processed, or the window is destroyed.
func (m *MockShell) Flush(hwnd platform.HWND) {
	w := m.window(hwnd)
	if w == nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	target := w.posted
	for w.processed < target && !w.destroyed {
		w.cond.Wait()
	}
}

// FlushAll flushes every window spawned so far.
func (m *MockShell) FlushAll() {
	m.mu.Lock()
	wins := make([]platform.HWND, 0, len(m.windows))
	for hwnd := range m.windows {
		wins = append(wins, hwnd)
	}
	m.mu.Unlock()

	for _, hwnd := range wins {
		m.Flush(hwnd)
	}
}

// Slots returns every registered slot.
func (m *MockShell) Slots() []platform.NotifyIconData {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]platform.NotifyIconData, 0, len(m.slots))
	for _, slot := range m.slots {
		out = append(out, slot)
	}
	return out
}

// Slot returns the registered slot for (hwnd, id).
func (m *MockShell) Slot(hwnd platform.HWND, id uint32) (platform.NotifyIconData, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	slot, ok := m.slots[slotKey{hwnd: hwnd, id: id}]
	return slot, ok
}

// SlotCount returns the number of registered slots.
func (m *MockShell) SlotCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.slots)
}

// Calls returns a copy of every NotifyIcon call made so far.
func (m *MockShell) Calls() []NotifyCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]NotifyCall(nil), m.calls...)
}

// CallsOf returns the NotifyIcon calls made with op.
func (m *MockShell) CallsOf(op uint32) []NotifyCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []NotifyCall
	for _, c := range m.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Popups returns a copy of every TrackPopupMenu call made so far.
func (m *MockShell) Popups() []PopupCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PopupCall(nil), m.popups...)
}

// ForegroundCalls returns the number of SetForegroundWindow calls.
func (m *MockShell) ForegroundCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.foreground
}

// LoadedIcons returns the number of icons handed out by LoadIconFile.
func (m *MockShell) LoadedIcons() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadedIcons
}

// DestroyedIcons returns every handle passed to DestroyIcon, in order.
func (m *MockShell) DestroyedIcons() []platform.HICON {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]platform.HICON(nil), m.destroyedIcons...)
}

// DestroyedWindows returns the number of windows destroyed so far.
func (m *MockShell) DestroyedWindows() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.destroyedWnds
}

// IsDestroyed reports whether hwnd has been destroyed.
func (m *MockShell) IsDestroyed(hwnd platform.HWND) bool {
	w := m.window(hwnd)
	if w == nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.destroyed
}

// SetCursor configures the position CursorPos reports.
func (m *MockShell) SetCursor(pt platform.Point) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cursor = pt
}

// SetCursorError makes CursorPos fail.
func (m *MockShell) SetCursorError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cursorErr = err
}

// SetDPI configures the DPI DPIForWindow reports.
func (m *MockShell) SetDPI(dpi uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dpi = dpi
}

// SetIconRect configures the rectangle NotifyIconRect reports.
func (m *MockShell) SetIconRect(rc platform.RECT) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.iconRect = rc
}

// SetSpawnError makes SpawnWindow fail.
func (m *MockShell) SetSpawnError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spawnErr = err
}

// SetNotifyError makes NotifyIcon fail for op. A nil err clears it.
func (m *MockShell) SetNotifyError(op uint32, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.notifyErrs, op)
		return
	}
	m.notifyErrs[op] = err
}

// SetPostError makes PostMessage fail for msg. A nil err clears it.
func (m *MockShell) SetPostError(msg uint32, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.postErrs, msg)
		return
	}
	m.postErrs[msg] = err
}

// SetLoadError makes LoadIconFile fail.
func (m *MockShell) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

var _ platform.Shell = (*MockShell)(nil)

// MockError is a simple error type for mock errors
type MockError struct {
	Message string
}

func (e *MockError) Error() string {
	return e.Message
}

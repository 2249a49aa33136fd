package mocks

import (
	"sync"

	"github.com/mosiko1234/trayicon/internal/platform"
)

// MockMenu is a menu.ContextMenu that records attach and detach calls.
type MockMenu struct {
	mu        sync.Mutex
	popup     platform.HMENU
	attached  map[platform.HWND]bool
	attaches  int
	detaches  int
	attachErr error
}

// NewMockMenu creates a menu whose popup handle is popup.
func NewMockMenu(popup platform.HMENU) *MockMenu {
	return &MockMenu{
		popup:    popup,
		attached: make(map[platform.HWND]bool),
	}
}

// AttachTo records the attachment unless an error is configured.
func (m *MockMenu) AttachTo(hwnd platform.HWND) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.attaches++
	if m.attachErr != nil {
		return m.attachErr
	}
	m.attached[hwnd] = true
	return nil
}

// DetachFrom records the detachment.
func (m *MockMenu) DetachFrom(hwnd platform.HWND) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.detaches++
	delete(m.attached, hwnd)
}

// PopupHandle returns the configured popup handle.
func (m *MockMenu) PopupHandle() platform.HMENU {
	return m.popup
}

// IsAttached reports whether the menu is currently attached to hwnd.
func (m *MockMenu) IsAttached(hwnd platform.HWND) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attached[hwnd]
}

// AttachCalls returns the number of AttachTo calls.
func (m *MockMenu) AttachCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attaches
}

// DetachCalls returns the number of DetachFrom calls.
func (m *MockMenu) DetachCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.detaches
}

// SetAttachError makes AttachTo fail.
func (m *MockMenu) SetAttachError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attachErr = err
}

package tray

import (
	"github.com/mosiko1234/trayicon/internal/icon"
	"github.com/mosiko1234/trayicon/internal/platform"
)

// trayState is owned by the hidden window's thread once handed off. Nothing
// else reads or writes it.
type trayState struct {
	internalID uint32
	id         string
	hwnd       platform.HWND

	popup    platform.HMENU
	hasPopup bool

	icon    *icon.Icon
	tooltip string

	// visible is the requested visibility; registered tracks whether the
	// notification-area slot currently exists.
	visible    bool
	registered bool
}

// replaceIcon installs ic and returns the icon it displaced, if that icon
// must be released.
func (s *trayState) replaceIcon(ic *icon.Icon) *icon.Icon {
	old := s.icon
	s.icon = ic
	if old == ic {
		return nil
	}
	return old
}

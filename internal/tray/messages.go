package tray

import (
	"sync/atomic"

	"github.com/mosiko1234/trayicon/internal/icon"
	"github.com/mosiko1234/trayicon/internal/menu"
	"github.com/mosiko1234/trayicon/internal/platform"
)

// Private window messages understood by the interceptor. wparam carries a
// mailbox token for the messages that transfer a payload.
const (
	msgTrayIcon       = 6002 // notification-area callback; lparam is the mouse message
	msgUpdateMenu     = 6003 // menuUpdate
	msgUpdateIcon     = 6004 // iconUpdate
	msgShow           = 6005 // wparam is a sequence number
	msgHide           = 6006
	msgUpdateTooltip  = 6007 // tooltipUpdate
	msgAttachState    = 6008 // *trayState
	msgDestroyRequest = 6009 // teardown, or no payload
)

var internalIDCounter atomic.Uint32

// nextInternalID returns a process-unique id for a notification-area slot.
func nextInternalID() uint32 {
	return internalIDCounter.Add(1)
}

// A nonzero seq marks an update the façade did not apply to the slot
// itself; the window thread applies it if the slot exists.
type iconUpdate struct {
	icon *icon.Icon
	seq  uint64
}

type tooltipUpdate struct {
	text string
	seq  uint64
}

type menuUpdate struct {
	popup    platform.HMENU
	hasPopup bool
}

type teardown struct {
	hwnd platform.HWND
	menu menu.ContextMenu
}

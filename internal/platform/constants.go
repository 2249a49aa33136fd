package platform

// Window messages.
const (
	WM_DESTROY       = 0x0002
	WM_NCDESTROY     = 0x0082
	WM_LBUTTONUP     = 0x0202
	WM_LBUTTONDBLCLK = 0x0203
	WM_RBUTTONUP     = 0x0205
	WM_USER          = 0x0400
)

// Shell_NotifyIcon operations.
const (
	NIM_ADD    = 0x00000000
	NIM_MODIFY = 0x00000001
	NIM_DELETE = 0x00000002
)

// NOTIFYICONDATA flags.
const (
	NIF_MESSAGE = 0x00000001
	NIF_ICON    = 0x00000002
	NIF_TIP     = 0x00000004
)

// DefaultDPI is the DPI at which logical and physical pixels coincide.
const DefaultDPI = 96

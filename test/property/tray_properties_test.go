//go:build property
// +build property

package property

import (
	"strings"
	"testing"
	"unicode/utf16"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/prop"

	"github.com/mosiko1234/trayicon/internal/dpi"
	"github.com/mosiko1234/trayicon/internal/events"
	"github.com/mosiko1234/trayicon/internal/icon"
	"github.com/mosiko1234/trayicon/internal/platform"
	"github.com/mosiko1234/trayicon/internal/tray"
	"github.com/mosiko1234/trayicon/test/mocks"
)

// tipMatches reports whether got is what the tooltip buffer should hold for
// want: all of it when it fits, otherwise a prefix of at most 127 UTF-16
// units that does not end in half a surrogate pair.
func tipMatches(got, want string) bool {
	wantUnits := utf16.Encode([]rune(want))
	if len(wantUnits) < platform.TipLen {
		return got == want
	}
	gotUnits := utf16.Encode([]rune(got))
	return len(gotUnits) >= platform.TipLen-2 &&
		len(gotUnits) <= platform.TipLen-1 &&
		strings.HasPrefix(want, got)
}

// Feature: tray icon controller, Property: Ordered updates and exactly-once reclamation
func TestProperty_UpdatesApplyInOrderAndReclaimOnce(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("the last update wins, hidden updates survive a show, and every icon is released once",
		prop.ForAll(
			func(ops []trayOp) bool {
				shell := mocks.NewMockShell()
				next := platform.HICON(0x100)
				newIcon := func() *icon.Icon {
					next++
					return icon.FromHandle(next, shell.DestroyIcon)
				}

				tr, err := tray.NewWithShell(shell, "prop", tray.Attributes{Icon: newIcon()})
				if err != nil {
					t.Logf("create failed: %v", err)
					return false
				}

				installed := 1
				wantIcon := next
				wantTip := ""
				visible := true

				for _, op := range ops {
					switch op.Kind {
					case opSetIcon:
						ic := newIcon()
						if err := tr.SetIcon(ic); err != nil {
							t.Logf("SetIcon failed: %v", err)
							return false
						}
						installed++
						wantIcon = ic.Handle()
					case opSetTooltip:
						if err := tr.SetTooltip(op.Tooltip); err != nil {
							t.Logf("SetTooltip failed: %v", err)
							return false
						}
						wantTip = op.Tooltip
					case opHide:
						if err := tr.SetVisible(false); err != nil {
							return false
						}
						visible = false
					case opShow:
						if err := tr.SetVisible(true); err != nil {
							return false
						}
						visible = true
					}
				}

				shell.FlushAll()
				slots := shell.Slots()

				if visible {
					if len(slots) != 1 {
						t.Logf("expected one slot, got %d", len(slots))
						return false
					}
					if slots[0].Icon != wantIcon {
						t.Logf("slot icon %#x, want %#x", uintptr(slots[0].Icon), uintptr(wantIcon))
						return false
					}
					if !tipMatches(slots[0].TipString(), wantTip) {
						t.Logf("slot tooltip %q does not match %q", slots[0].TipString(), wantTip)
						return false
					}
				} else if len(slots) != 0 {
					t.Logf("hidden icon still has %d slots", len(slots))
					return false
				}

				if err := tr.Close(); err != nil {
					return false
				}

				released := shell.DestroyedIcons()
				if len(released) != installed {
					t.Logf("released %d icons, installed %d", len(released), installed)
					return false
				}
				seen := make(map[platform.HICON]bool, len(released))
				for _, h := range released {
					if seen[h] {
						return false
					}
					seen[h] = true
				}
				return shell.SlotCount() == 0
			},
			genTrayOps(),
		))

	properties.TestingRun(t)
}

// Feature: tray icon controller, Property: Click geometry is reported in physical pixels
func TestProperty_ClickGeometryScalesWithDPI(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("event position and icon rect are the logical values times dpi/96",
		prop.ForAll(
			func(reading uint32, x, y int32) bool {
				shell := mocks.NewMockShell()
				shell.SetDPI(reading)
				shell.SetCursor(platform.Point{X: x, Y: y})
				shell.SetIconRect(platform.RECT{Left: x, Top: y, Right: x + 16, Bottom: y + 16})

				var got []events.TrayIconEvent
				events.SetEventHandler(func(ev events.TrayIconEvent) { got = append(got, ev) })
				defer events.SetEventHandler(nil)

				tr, err := tray.NewWithShell(shell, "geometry", tray.Attributes{})
				if err != nil {
					return false
				}
				defer tr.Close()

				shell.FlushAll()
				slot := shell.Slots()[0]
				if err := shell.SimulateClick(slot.Wnd, slot.ID, platform.WM_LBUTTONUP); err != nil {
					return false
				}
				shell.FlushAll()

				if len(got) != 1 {
					t.Logf("expected one event, got %d", len(got))
					return false
				}

				scale := float64(reading) / platform.DefaultDPI
				ev := got[0]
				return ev.Position == dpi.PhysicalPosition{X: float64(x) * scale, Y: float64(y) * scale} &&
					ev.IconRect.Size == dpi.PhysicalSize{Width: 16 * scale, Height: 16 * scale} &&
					ev.ClickType == events.ClickLeft
			},
			genDPI(),
			genCoord(),
			genCoord(),
		))

	properties.TestingRun(t)
}

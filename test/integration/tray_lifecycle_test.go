package integration

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosiko1234/trayicon/internal/config"
	"github.com/mosiko1234/trayicon/internal/events"
	"github.com/mosiko1234/trayicon/internal/platform"
	"github.com/mosiko1234/trayicon/internal/tray"
	"github.com/mosiko1234/trayicon/test/mocks"
)

// TestConfigReloadDrivesTray wires a watched config file to a live tray
// icon, the way the demo command does.
func TestConfigReloadDrivesTray(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	cfg, err := config.LoadConfigFromPath(configPath)
	require.NoError(t, err)

	shell := mocks.NewMockShell()
	s := cfg.Snapshot()
	tr, err := tray.NewWithShell(shell, "integration", tray.Attributes{Tooltip: s.Tray.Tooltip})
	require.NoError(t, err)
	defer tr.Close()

	cfg.AddWatcher(func(s config.Settings) error {
		if err := tr.SetTooltip(s.Tray.Tooltip); err != nil {
			return err
		}
		return tr.SetVisible(s.Tray.Visible)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, cfg.Watch(ctx))

	next := config.DefaultSettings()
	next.Tray.Tooltip = "updated on disk"
	data, err := json.Marshal(next)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(configPath, data, 0644))

	require.Eventually(t, func() bool {
		shell.FlushAll()
		slots := shell.Slots()
		return len(slots) == 1 && slots[0].TipString() == "updated on disk"
	}, 5*time.Second, 20*time.Millisecond)

	next.Tray.Visible = false
	data, err = json.Marshal(next)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(configPath, data, 0644))

	require.Eventually(t, func() bool {
		shell.FlushAll()
		return shell.SlotCount() == 0
	}, 5*time.Second, 20*time.Millisecond)
}

// TestTwoIconsShareTheEventStream checks that clicks on independent icons
// are told apart by id and that both survive a shell restart.
func TestTwoIconsShareTheEventStream(t *testing.T) {
	shell := mocks.NewMockShell()

	var mu sync.Mutex
	var got []events.TrayIconEvent
	events.SetEventHandler(func(ev events.TrayIconEvent) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, ev)
	})
	defer events.SetEventHandler(nil)

	first, err := tray.NewWithShell(shell, "first", tray.Attributes{Tooltip: "one"})
	require.NoError(t, err)
	defer first.Close()

	second, err := tray.NewWithShell(shell, "second", tray.Attributes{Tooltip: "two"})
	require.NoError(t, err)
	defer second.Close()

	shell.FlushAll()
	require.Equal(t, 2, shell.SlotCount())

	shell.BroadcastTaskbarCreated()
	shell.FlushAll()
	require.Equal(t, 2, shell.SlotCount())

	for _, slot := range shell.Slots() {
		require.NoError(t, shell.SimulateClick(slot.Wnd, slot.ID, platform.WM_LBUTTONUP))
	}
	shell.FlushAll()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 2)

	ids := map[string]bool{}
	for _, ev := range got {
		ids[ev.ID] = true
		assert.Equal(t, events.ClickLeft, ev.ClickType)
	}
	assert.True(t, ids["first"])
	assert.True(t, ids["second"])
}

// TestCloseOrderRemovesSlotBeforeWindow checks that Close removes the
// notification-area entry and then destroys the window.
func TestCloseOrderRemovesSlotBeforeWindow(t *testing.T) {
	shell := mocks.NewMockShell()
	menu := mocks.NewMockMenu(0x77)

	tr, err := tray.NewWithShell(shell, "ordered", tray.Attributes{Menu: menu})
	require.NoError(t, err)
	shell.FlushAll()

	require.NoError(t, tr.Close())

	assert.Equal(t, 0, shell.SlotCount())
	assert.Equal(t, 1, menu.DetachCalls())
	assert.Equal(t, 1, shell.DestroyedWindows())

	_, ok := tr.Rect()
	assert.False(t, ok)
}

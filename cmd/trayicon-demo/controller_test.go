package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosiko1234/trayicon/internal/config"
	"github.com/mosiko1234/trayicon/internal/icon"
	"github.com/mosiko1234/trayicon/internal/platform"
	"github.com/mosiko1234/trayicon/internal/tray"
	"github.com/mosiko1234/trayicon/test/mocks"
)

// fakeTray records calls instead of touching a window.
type fakeTray struct {
	icons    []*icon.Icon
	tooltips []string
	visible  []bool
	iconErr  error
}

func (f *fakeTray) SetIcon(ic *icon.Icon) error {
	if f.iconErr != nil {
		return f.iconErr
	}
	f.icons = append(f.icons, ic)
	return nil
}

func (f *fakeTray) SetTooltip(s string) error {
	f.tooltips = append(f.tooltips, s)
	return nil
}

func (f *fakeTray) SetVisible(v bool) error {
	f.visible = append(f.visible, v)
	return nil
}

func TestControllerAppliesOnlyChanges(t *testing.T) {
	shell := mocks.NewMockShell()
	load := func(path string) (*icon.Icon, error) { return icon.Load(shell, path) }

	initial := config.DefaultSettings()
	ft := &fakeTray{}
	ctrl := newController(ft, load, initial.Tray)

	require.NoError(t, ctrl.apply(initial))
	assert.Empty(t, ft.tooltips)
	assert.Empty(t, ft.icons)
	assert.Empty(t, ft.visible)

	next := initial
	next.Tray.Tooltip = "changed"
	next.Tray.IconPath = "busy.ico"
	next.Tray.Visible = false
	require.NoError(t, ctrl.apply(next))

	assert.Equal(t, []string{"changed"}, ft.tooltips)
	require.Len(t, ft.icons, 1)
	assert.NotZero(t, ft.icons[0].Handle())
	assert.Equal(t, []bool{false}, ft.visible)

	next.Tray.IconPath = ""
	require.NoError(t, ctrl.apply(next))
	require.Len(t, ft.icons, 2)
	assert.Nil(t, ft.icons[1])
}

func TestControllerReleasesIconWhenSetFails(t *testing.T) {
	shell := mocks.NewMockShell()
	load := func(path string) (*icon.Icon, error) { return icon.Load(shell, path) }

	initial := config.DefaultSettings()
	ft := &fakeTray{iconErr: &mocks.MockError{Message: "modify failed"}}
	ctrl := newController(ft, load, initial.Tray)

	next := initial
	next.Tray.IconPath = "broken.ico"
	require.Error(t, ctrl.apply(next))

	assert.Len(t, shell.DestroyedIcons(), 1)
}

func TestControllerDrivesTrayIcon(t *testing.T) {
	shell := mocks.NewMockShell()
	load := func(path string) (*icon.Icon, error) { return icon.Load(shell, path) }

	s := config.DefaultSettings()
	tr, err := tray.NewWithShell(shell, "demo", tray.Attributes{Tooltip: s.Tray.Tooltip})
	require.NoError(t, err)
	defer tr.Close()

	ctrl := newController(tr, load, s.Tray)

	s.Tray.Tooltip = "from config"
	s.Tray.IconPath = "app.ico"
	require.NoError(t, ctrl.apply(s))

	var slot platform.NotifyIconData
	require.Eventually(t, func() bool {
		var ok bool
		for _, c := range shell.CallsOf(platform.NIM_MODIFY) {
			if c.Data.Flags&platform.NIF_TIP != 0 {
				slot, ok = c.Data, true
			}
		}
		return ok
	}, testTimeout, testTick)
	assert.Equal(t, "from config", slot.TipString())
	assert.Equal(t, 1, shell.LoadedIcons())

	require.NoError(t, tr.Close())
	assert.Len(t, shell.DestroyedIcons(), 1)
}

func TestRootCommandFlags(t *testing.T) {
	cmd := newRootCmd()

	assert.NotNil(t, cmd.Flags().Lookup("config"))
	assert.NotNil(t, cmd.Flags().Lookup("log-level"))

	version, _, err := cmd.Find([]string{"version"})
	require.NoError(t, err)
	assert.Equal(t, "version", version.Name())
}

const (
	testTimeout = 2 * time.Second
	testTick    = 10 * time.Millisecond
)

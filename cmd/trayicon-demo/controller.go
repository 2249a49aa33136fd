package main

import (
	"sync"

	"github.com/mosiko1234/trayicon/internal/config"
	"github.com/mosiko1234/trayicon/internal/errors"
	"github.com/mosiko1234/trayicon/internal/icon"
	"github.com/mosiko1234/trayicon/internal/logger"
)

// trayControl is the part of *tray.TrayIcon the controller drives.
type trayControl interface {
	SetIcon(*icon.Icon) error
	SetTooltip(string) error
	SetVisible(bool) error
}

// controller applies reloaded tray settings to a live tray icon. It runs on
// the config watcher's goroutine, never on the tray's window thread.
type controller struct {
	mu       sync.Mutex
	tray     trayControl
	loadIcon func(string) (*icon.Icon, error)
	current  config.TrayConfig
	log      *logger.Logger
}

func newController(tr trayControl, loadIcon func(string) (*icon.Icon, error), initial config.TrayConfig) *controller {
	return &controller{
		tray:     tr,
		loadIcon: loadIcon,
		current:  initial,
		log:      logger.NewComponentLogger("demo"),
	}
}

// apply is a config.ConfigWatcher.
func (c *controller) apply(s config.Settings) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := s.Tray
	if next.ID != c.current.ID {
		c.log.Warn("Tray id changes take effect on restart")
	}

	if next.Tooltip != c.current.Tooltip {
		if err := c.tray.SetTooltip(next.Tooltip); err != nil {
			return errors.NewComponentError("demo", "set tooltip", err)
		}
		c.current.Tooltip = next.Tooltip
	}

	if next.IconPath != c.current.IconPath {
		ic, err := loadOptionalIcon(c.loadIcon, next.IconPath)
		if err != nil {
			return errors.NewComponentError("demo", "load icon", err)
		}
		if err := c.tray.SetIcon(ic); err != nil {
			_ = ic.Release()
			return errors.NewComponentError("demo", "set icon", err)
		}
		c.current.IconPath = next.IconPath
	}

	if next.Visible != c.current.Visible {
		if err := c.tray.SetVisible(next.Visible); err != nil {
			return errors.NewComponentError("demo", "set visibility", err)
		}
		c.current.Visible = next.Visible
	}

	c.log.Debug("Applied tray settings %+v", c.current)
	return nil
}

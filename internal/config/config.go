// Package config provides configuration management for the tray icon demo.
//
// The configuration is loaded from platform-specific locations:
//   - Windows: %APPDATA%\TrayIcon\config.json
//   - macOS: ~/Library/Application Support/TrayIcon/config.json
//   - Linux: ~/.config/trayicon/config.json
//
// Configuration Structure:
//   - Tray: icon id, icon file, tooltip and visibility
//   - Events: capacity of the click event channel
//   - Logging: log level and file path
//
// Watch reloads the file when it changes on disk and notifies every
// registered ConfigWatcher with the new settings.
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mosiko1234/trayicon/internal/errors"
	"github.com/mosiko1234/trayicon/internal/logger"
)

// DefaultReloadDebounce is how long Watch waits after the last change
// before reloading.
const DefaultReloadDebounce = 250 * time.Millisecond

// Settings is the serialized part of the configuration.
type Settings struct {
	Tray    TrayConfig    `json:"tray"`
	Events  EventsConfig  `json:"events"`
	Logging LoggingConfig `json:"logging"`
}

// TrayConfig describes the tray icon the demo creates
type TrayConfig struct {
	ID       string `json:"id"`        // Empty means a random id
	IconPath string `json:"icon_path"` // .ico file; empty means no icon
	Tooltip  string `json:"tooltip"`
	Visible  bool   `json:"visible"`
}

// EventsConfig contains click event delivery settings
type EventsConfig struct {
	BufferSize int `json:"buffer_size"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level string `json:"level"` // "debug", "info", "warn", "error"
	File  string `json:"file"`  // Empty logs to the console only
}

// Config is a loaded configuration bound to its file.
type Config struct {
	Settings

	configPath string
	debounce   time.Duration
	mu         sync.RWMutex
	watchers   []ConfigWatcher
	log        *logger.Logger
}

// ConfigWatcher is called with the new settings after a successful reload
type ConfigWatcher func(Settings) error

// GetDefaultConfigPath returns the platform-specific default configuration path
func GetDefaultConfigPath() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA environment variable not set")
		}
		configDir = filepath.Join(appData, "TrayIcon")
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support", "TrayIcon")
	case "linux":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config", "trayicon")
	default:
		return "", fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return filepath.Join(configDir, "config.json"), nil
}

// DefaultSettings returns the settings used when no file exists yet.
func DefaultSettings() Settings {
	return Settings{
		Tray: TrayConfig{
			Tooltip: "Tray icon demo",
			Visible: true,
		},
		Events: EventsConfig{
			BufferSize: 256,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultConfig returns a configuration with default values and no file.
func DefaultConfig() *Config {
	return newConfig(DefaultSettings(), "")
}

func newConfig(s Settings, path string) *Config {
	return &Config{
		Settings:   s,
		configPath: path,
		debounce:   DefaultReloadDebounce,
		log:        logger.NewComponentLogger("config"),
	}
}

// LoadConfig loads configuration from the default platform-specific path
func LoadConfig() (*Config, error) {
	configPath, err := GetDefaultConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get default config path: %w", err)
	}

	return LoadConfigFromPath(configPath)
}

// LoadConfigFromPath loads configuration from a specific path. A missing
// file is created with default values.
func LoadConfigFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := newConfig(DefaultSettings(), path)
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("failed to create default config file: %w", err)
		}
		return cfg, nil
	}

	s, err := readSettings(path)
	if err != nil {
		return nil, err
	}
	return newConfig(s, path), nil
}

// readSettings parses and validates the file at path. Fields missing from
// the file keep their default values.
func readSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read configuration file: %w", err)
	}

	s := DefaultSettings()
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("failed to parse configuration file: %w", err)
	}

	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return s, nil
}

// Path returns the file the configuration was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Snapshot returns a copy of the current settings.
func (c *Config) Snapshot() Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Settings
}

// Save writes the configuration to disk
func (c *Config) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.configPath == "" {
		return fmt.Errorf("config path not set")
	}

	dir := filepath.Dir(c.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c.Settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	if err := os.WriteFile(c.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	return nil
}

// Reload reloads the configuration from disk and notifies watchers. An
// invalid file leaves the current settings untouched.
func (c *Config) Reload() error {
	if c.configPath == "" {
		return fmt.Errorf("config path not set")
	}

	s, err := readSettings(c.configPath)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.Settings = s
	watchers := make([]ConfigWatcher, len(c.watchers))
	copy(watchers, c.watchers)
	c.mu.Unlock()

	for _, watcher := range watchers {
		if err := watcher(s); err != nil {
			return fmt.Errorf("config watcher error: %w", err)
		}
	}

	return nil
}

// AddWatcher adds a configuration change watcher
func (c *Config) AddWatcher(watcher ConfigWatcher) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.watchers = append(c.watchers, watcher)
}

// Watch starts reloading the configuration whenever its file changes. It
// returns once the file system watcher is installed; watching stops when
// ctx is done. The parent directory is watched so that editors which save
// by renaming a temporary file are picked up.
func (c *Config) Watch(ctx context.Context) error {
	if c.configPath == "" {
		return fmt.Errorf("config path not set")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(c.configPath)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch config directory: %w", err)
	}

	go c.watchLoop(ctx, watcher)
	return nil
}

func (c *Config) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer errors.SafeClose(watcher, "config watcher")

	target := filepath.Clean(c.configPath)
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(c.debounce, func() {
				if ctx.Err() != nil {
					return
				}
				if err := c.Reload(); err != nil {
					c.log.Warn("Failed to reload config %s: %v", c.configPath, err)
					return
				}
				c.log.Info("Reloaded config %s", c.configPath)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			c.log.ErrorWithContext(err, "watching %s", c.configPath)
		}
	}
}

// Validate checks if the settings are valid
func (s Settings) Validate() error {
	if s.Events.BufferSize < 1 {
		return fmt.Errorf("events buffer size must be at least 1")
	}

	if s.Tray.IconPath != "" {
		if _, err := os.Stat(s.Tray.IconPath); err != nil {
			return fmt.Errorf("icon file not found: %s", s.Tray.IconPath)
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[s.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", s.Logging.Level)
	}

	if s.Logging.File != "" {
		logDir := filepath.Dir(s.Logging.File)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return fmt.Errorf("cannot create log directory %s: %w", logDir, err)
		}
	}

	return nil
}

// Command trayicon-demo puts one icon in the notification area, prints its
// click events and applies configuration changes while running.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mosiko1234/trayicon/internal/config"
	"github.com/mosiko1234/trayicon/internal/errors"
	"github.com/mosiko1234/trayicon/internal/events"
	"github.com/mosiko1234/trayicon/internal/icon"
	"github.com/mosiko1234/trayicon/internal/logger"
	"github.com/mosiko1234/trayicon/internal/tray"
)

const version = "0.1.0"

type options struct {
	configPath string
	logLevel   string
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:          "trayicon-demo",
		Short:        "Show a tray icon and print its click events.",
		Long:         "Show a tray icon and print its click events. Double-click the icon or press Ctrl+C to exit.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}

	rootCmd.Flags().StringVar(
		&opts.configPath, "config", "",
		`Path to the configuration file (default: per-user app data directory)`,
	)
	rootCmd.Flags().StringVar(
		&opts.logLevel, "log-level", "",
		`Override the configured log level (debug, info, warn, error)`,
	)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version.",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "trayicon-demo v%s\n", version)
		},
	})

	return rootCmd
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadConfig()
	}
	return config.LoadConfigFromPath(path)
}

func run(ctx context.Context, opts *options) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	s := cfg.Snapshot()
	level := s.Logging.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	if err := logger.Initialize(s.Logging.File, level); err != nil {
		return errors.Wrap(err, "failed to initialize logging")
	}
	logger.Info("=== trayicon-demo v%s ===", version)
	logger.Info("Configuration loaded from %s", cfg.Path())
	log := logger.NewComponentLogger("demo")

	events.Configure(s.Events.BufferSize)

	ic, err := loadOptionalIcon(tray.LoadIcon, s.Tray.IconPath)
	if err != nil {
		return err
	}

	tr, err := tray.New(s.Tray.ID, tray.Attributes{
		Icon:    ic,
		Tooltip: s.Tray.Tooltip,
		Hidden:  !s.Tray.Visible,
	})
	if err != nil {
		_ = ic.Release()
		if errors.Is(err, tray.ErrUnsupportedPlatform) {
			return err
		}
		return errors.WrapWithLog(err, "failed to create tray icon %q", s.Tray.ID)
	}
	defer func() {
		if err := tr.Close(); err != nil {
			log.Warn("Failed to close tray icon: %v", err)
		}
	}()
	log.Info("Tray icon %s created", tr.ID())

	ctrl := newController(tr, tray.LoadIcon, s.Tray)
	cfg.AddWatcher(ctrl.apply)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cfg.Watch(ctx); err != nil {
		log.Warn("Live configuration disabled: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			log.Info("Shutting down")
			return nil
		case ev := <-events.Receiver():
			fmt.Printf("%s click on %s at (%.0f, %.0f), icon at (%.0f, %.0f) %.0fx%.0f\n",
				ev.ClickType, ev.ID, ev.Position.X, ev.Position.Y,
				ev.IconRect.Position.X, ev.IconRect.Position.Y,
				ev.IconRect.Size.Width, ev.IconRect.Size.Height)
			if ev.ClickType == events.ClickDouble {
				log.Info("Double click, exiting")
				return nil
			}
		}
	}
}

func loadOptionalIcon(load func(string) (*icon.Icon, error), path string) (*icon.Icon, error) {
	if path == "" {
		return nil, nil
	}
	ic, err := load(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load icon %s", path)
	}
	return ic, nil
}

// Package main provides the entry point for dwm-status, a daemon that keeps
// the dwm status bar up to date with power, battery, memory, load and the
// date, and shows desktop notifications in place of that line.
package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/opd-ai/go-dwmstatus/internal/config"
	"github.com/opd-ai/go-dwmstatus/internal/lifecycle"
	"github.com/opd-ai/go-dwmstatus/internal/logging"
	"github.com/opd-ai/go-dwmstatus/internal/monitor"
	"github.com/opd-ai/go-dwmstatus/internal/notify"
	"github.com/opd-ai/go-dwmstatus/internal/render"
	"github.com/opd-ai/go-dwmstatus/internal/sink"
	"github.com/opd-ai/go-dwmstatus/internal/status"
)

// Version is the current version of dwm-status.
// This default value can be overridden at build time using:
//
//	go build -ldflags "-X main.Version=x.y.z"
var Version = "0.1.0-dev"

func main() {
	os.Exit(run())
}

func run() int {
	// Register before anything can render so no signal is missed.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	hupCh := make(chan os.Signal, 1)
	signal.Notify(hupCh, syscall.SIGHUP)
	defer signal.Stop(hupCh)

	configPath := config.DefaultPath()
	cfg, logger := loadConfig(configPath, os.Stderr)
	logger.Info("dwm-status starting", "version", Version, "config", configPath)

	out, closeSink := newSink(cfg.Sink, os.Stdout, logger)
	defer closeSink()
	serial := sink.NewSerial(out)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := render.NewMetrics()
	relay := startNotifications(ctx, cfg.Notifications, metrics, logger)

	loop, err := newLoop(cfg, serial, relay, metrics, logger)
	if err != nil {
		logger.Error("failed to create render loop", "err", err)
		return 1
	}

	reload := reloadFormatter(loop, logger)
	if w := startWatcher(configPath, reload, logger); w != nil {
		defer w.Stop()
	}
	go reloadOnHangup(ctx, hupCh, configPath, reload, logger)

	controller := &lifecycle.Controller{
		Sink:            serial,
		ShutdownTimeout: cfg.ShutdownTimeout,
		Logger:          logger.With("component", "lifecycle"),
	}
	outcome := controller.Run(ctx, sigCh, loop.Run)

	logger.Info("dwm-status stopped", append([]any{"farewell", outcome.Farewell}, metrics.Snapshot().LogArgs()...)...)
	return outcome.ExitCode()
}

// loadConfig loads the configuration at path and builds the logger it
// describes. A file that cannot be read, run or validated never stops the
// daemon: the problem is logged and the defaults apply.
func loadConfig(path string, stderr io.Writer) (*config.Config, *logging.SlogAdapter) {
	cfg, loadErr := config.Load(path)
	if loadErr != nil {
		defaults := config.DefaultConfig()
		cfg = &defaults
	}

	logger, err := newLogger(cfg.Log, stderr)
	if err != nil {
		logger = logging.NewSlogAdapter(slog.New(slog.NewTextHandler(stderr, nil)))
		logger.Warn("invalid log settings, using defaults", "err", err)
	}
	if loadErr != nil {
		logger.Warn("configuration rejected, using defaults", "path", path, "err", loadErr)
	}
	return cfg, logger
}

// newLoop builds the render loop for cfg. Invalid format settings fall back
// to the stock formatter.
func newLoop(cfg *config.Config, out sink.Sink, relay *notify.Relay, metrics *render.Metrics, logger *logging.SlogAdapter) (*render.Loop, error) {
	formatter, err := cfg.Formatter()
	if err != nil {
		logger.Warn("invalid format settings, using defaults", "err", err)
		formatter = status.DefaultFormatter()
	}
	return render.NewLoop(render.Config{
		Reader:    monitor.NewSystemReader(cfg.Status.PowerSupplyPath, cfg.Status.QueryTimeout),
		Sink:      out,
		Formatter: formatter,
		Relay:     relay,
		Cadence:   cfg.Status.UpdateInterval,
		Logger:    logger.With("component", "render"),
		Metrics:   metrics,
	})
}

// newLogger builds the process logger from the log settings.
func newLogger(cfg config.LogConfig, w io.Writer) (*logging.SlogAdapter, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	return logging.New(w, level, cfg.Format)
}

// newSink opens the configured sink. When the X display cannot be reached
// the xsetroot command is used instead. The returned function releases
// whatever the sink holds.
func newSink(cfg config.SinkConfig, stdout io.Writer, logger logging.Logger) (sink.Sink, func()) {
	switch cfg.Kind {
	case config.SinkStdout:
		return sink.NewWriter(stdout), func() {}
	case config.SinkXsetroot:
		return sink.NewCommand(cfg.Command, 0), func() {}
	}

	x, err := sink.NewX11(cfg.Display)
	if err != nil {
		logger.Warn("X11 sink unavailable, falling back to command", "err", err, "command", cfg.Command)
		return sink.NewCommand(cfg.Command, 0), func() {}
	}
	return x, x.Close
}

// startNotifications starts the notification server and returns the relay
// it feeds, or nil when notifications are disabled or the bus is
// unreachable. The server stops when ctx is done.
func startNotifications(ctx context.Context, cfg config.NotificationConfig, metrics *render.Metrics, logger *logging.SlogAdapter) *notify.Relay {
	if !cfg.Enabled {
		logger.Info("notifications disabled")
		return nil
	}

	server := notify.NewServer(notify.ServerOptions{
		DefaultTimeout: cfg.DefaultTimeout,
		MaxTimeout:     cfg.MaxTimeout,
		Info: notify.ServerInfo{
			Name:    "dwm-status",
			Vendor:  "opd-ai",
			Version: Version,
		},
		Logger: logger.With("component", "notify"),
	})
	return listen(ctx, server, metrics, logger)
}

// listen starts l with a callback that forwards into a fresh relay.
func listen(ctx context.Context, l notify.Listener, metrics *render.Metrics, logger logging.Logger) *notify.Relay {
	relay := notify.NewRelay()
	err := l.Start(ctx, func(ev notify.Event) {
		if relay.Offer(ev) {
			metrics.IncrementNotificationsDropped()
		}
	})
	if err != nil {
		if errors.Is(err, notify.ErrNameTaken) {
			logger.Warn("another notification daemon is running, continuing without notifications")
		} else {
			logger.Warn("notification server unavailable, continuing without notifications", "err", err)
		}
		return nil
	}
	return relay
}

// reloadFormatter returns a callback that applies a reloaded configuration
// to the running loop.
func reloadFormatter(loop *render.Loop, logger logging.Logger) func(*config.Config) {
	return func(cfg *config.Config) {
		f, err := cfg.Formatter()
		if err != nil {
			logger.Warn("reloaded configuration rejected", "err", err)
			return
		}
		loop.SetFormatter(f)
	}
}

// startWatcher watches the configuration file when its directory exists.
func startWatcher(path string, onChange func(*config.Config), logger *logging.SlogAdapter) *config.Watcher {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		logger.Debug("config directory missing, hot reload disabled", "path", path)
		return nil
	}
	w, err := config.NewWatcher(path, 0, logger.With("component", "config"), onChange)
	if err != nil {
		logger.Warn("config watcher unavailable", "err", err)
		return nil
	}
	w.Start()
	return w
}

// reloadOnHangup reloads the configuration on every SIGHUP until ctx is done.
func reloadOnHangup(ctx context.Context, hupCh <-chan os.Signal, path string, onChange func(*config.Config), logger logging.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-hupCh:
			logger.Info("received SIGHUP, reloading configuration")
			cfg, err := config.Load(path)
			if err != nil {
				logger.Warn("config reload failed, keeping previous settings", "err", err)
				continue
			}
			onChange(cfg)
		}
	}
}

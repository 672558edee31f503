// Package config holds the runtime configuration of dwm-status.
// Settings come from DefaultConfig, optionally overridden by a Lua file
// that assigns the dwmstatus.config and dwmstatus.glyphs tables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/opd-ai/go-dwmstatus/internal/status"
)

// Config represents the complete dwm-status configuration.
type Config struct {
	// Status controls metric collection and the render cadence.
	Status StatusConfig
	// Format controls how the status line is rendered.
	Format FormatConfig
	// Sink selects where rendered lines are written.
	Sink SinkConfig
	// Notifications controls the desktop notification server.
	Notifications NotificationConfig
	// Log controls the structured logger.
	Log LogConfig
	// ShutdownTimeout bounds the wait for the render loop after a signal.
	ShutdownTimeout time.Duration
}

// StatusConfig holds collection settings.
type StatusConfig struct {
	// UpdateInterval is the base cadence between metrics renders.
	UpdateInterval time.Duration
	// QueryTimeout bounds each metric query.
	QueryTimeout time.Duration
	// PowerSupplyPath is the sysfs power_supply directory.
	PowerSupplyPath string
}

// FormatConfig holds status line layout settings.
type FormatConfig struct {
	Separator  string
	DateLayout string
	// MemoryUnit is one of B, KiB, MiB or human.
	MemoryUnit string
	Glyphs     status.Glyphs
}

// SinkConfig selects and configures the output sink.
type SinkConfig struct {
	Kind SinkKind
	// Command is the program run by the xsetroot sink.
	Command string
	// Display is the X display for the x11 sink. Empty means $DISPLAY.
	Display string
}

// NotificationConfig configures the notification server.
type NotificationConfig struct {
	Enabled bool
	// DefaultTimeout replaces expire timeouts of -1 and 0.
	DefaultTimeout time.Duration
	// MaxTimeout caps requested timeouts. Zero disables the cap.
	MaxTimeout time.Duration
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string
	// Format is text or json.
	Format string
}

// SinkKind identifies an output sink.
type SinkKind int

const (
	// SinkX11 sets the root window name over an X connection.
	SinkX11 SinkKind = iota
	// SinkXsetroot runs an external command with -name.
	SinkXsetroot
	// SinkStdout prints each line to standard output.
	SinkStdout
)

// String returns the configuration name of the sink kind.
func (k SinkKind) String() string {
	switch k {
	case SinkX11:
		return "x11"
	case SinkXsetroot:
		return "xsetroot"
	case SinkStdout:
		return "stdout"
	default:
		return fmt.Sprintf("SinkKind(%d)", int(k))
	}
}

// ParseSinkKind converts a configuration string to a SinkKind.
// Matching is case-insensitive.
func ParseSinkKind(s string) (SinkKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x11", "":
		return SinkX11, nil
	case "xsetroot", "command":
		return SinkXsetroot, nil
	case "stdout":
		return SinkStdout, nil
	default:
		return 0, fmt.Errorf("unknown sink: %s", s)
	}
}

// Formatter builds the status formatter described by the Format section.
func (c *Config) Formatter() (*status.Formatter, error) {
	unit, err := status.ParseMemoryUnit(c.Format.MemoryUnit)
	if err != nil {
		return nil, err
	}
	return &status.Formatter{
		Glyphs:     c.Format.Glyphs,
		Separator:  c.Format.Separator,
		DateLayout: c.Format.DateLayout,
		MemoryUnit: unit,
	}, nil
}

package config

import (
	"github.com/opd-ai/go-dwmstatus/internal/lifecycle"
	"github.com/opd-ai/go-dwmstatus/internal/monitor"
	"github.com/opd-ai/go-dwmstatus/internal/notify"
	"github.com/opd-ai/go-dwmstatus/internal/render"
	"github.com/opd-ai/go-dwmstatus/internal/sink"
	"github.com/opd-ai/go-dwmstatus/internal/status"
)

// DefaultUpdateInterval is the default time between metrics renders.
const DefaultUpdateInterval = render.DefaultCadence

// DefaultConfig returns a Config with the stock values.
func DefaultConfig() Config {
	return Config{
		Status: StatusConfig{
			UpdateInterval:  DefaultUpdateInterval,
			QueryTimeout:    monitor.DefaultQueryTimeout,
			PowerSupplyPath: monitor.DefaultPowerSupplyPath,
		},
		Format: FormatConfig{
			Separator:  status.DefaultSeparator,
			DateLayout: status.DefaultDateLayout,
			MemoryUnit: string(status.UnitMiB),
			Glyphs:     status.DefaultGlyphs(),
		},
		Sink: SinkConfig{
			Kind:    SinkX11,
			Command: sink.DefaultCommand,
		},
		Notifications: NotificationConfig{
			Enabled:        true,
			DefaultTimeout: notify.DefaultTimeout,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		ShutdownTimeout: lifecycle.DefaultShutdownTimeout,
	}
}

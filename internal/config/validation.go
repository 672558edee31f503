package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/opd-ai/go-dwmstatus/internal/logging"
	"github.com/opd-ai/go-dwmstatus/internal/status"
)

// ValidationError describes one invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// ValidationErrors collects every ValidationError found in a Config.
type ValidationErrors []ValidationError

// Error joins all messages.
func (ve ValidationErrors) Error() string {
	messages := make([]string, 0, len(ve))
	for _, e := range ve {
		messages = append(messages, e.Error())
	}
	return "validation failed: " + strings.Join(messages, "; ")
}

// Has reports whether field is among the errors.
func (ve ValidationErrors) Has(field string) bool {
	for _, e := range ve {
		if e.Field == field {
			return true
		}
	}
	return false
}

// Validate checks every field and returns ValidationErrors listing all
// problems, or nil.
func (c *Config) Validate() error {
	var errs ValidationErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	positive := []struct {
		field string
		value time.Duration
	}{
		{"update_interval", c.Status.UpdateInterval},
		{"query_timeout", c.Status.QueryTimeout},
		{"shutdown_timeout", c.ShutdownTimeout},
		{"notification_timeout", c.Notifications.DefaultTimeout},
	}
	for _, p := range positive {
		if p.value <= 0 {
			add(p.field, "must be positive, got %v", p.value)
		}
	}
	if c.Notifications.MaxTimeout < 0 {
		add("notification_max_timeout", "must be non-negative, got %v", c.Notifications.MaxTimeout)
	}

	if c.Format.DateLayout == "" {
		add("date_layout", "must not be empty")
	}
	if _, err := status.ParseMemoryUnit(c.Format.MemoryUnit); err != nil {
		add("memory_unit", "%v", err)
	}
	if c.Status.PowerSupplyPath == "" {
		add("power_supply_path", "must not be empty")
	}

	switch c.Sink.Kind {
	case SinkX11, SinkStdout:
	case SinkXsetroot:
		if c.Sink.Command == "" {
			add("sink_command", "must not be empty for the xsetroot sink")
		}
	default:
		add("sink", "unknown sink %v", c.Sink.Kind)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		add("log_level", "%v", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case logging.FormatText, logging.FormatJSON:
	default:
		add("log_format", "unknown format %q", c.Log.Format)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

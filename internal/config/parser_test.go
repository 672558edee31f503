package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.lua")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "absent.lua")} {
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%q) error = %v", path, err)
		}
		if *cfg != DefaultConfig() {
			t.Errorf("Load(%q) = %+v, want defaults", path, cfg)
		}
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DWMSTATUS_TEST_DISPLAY", ":7")

	path := writeConfig(t, `
dwmstatus.config = {
  update_interval = 2,
  query_timeout = 0.25,
  separator = " | ",
  memory_unit = "human",
  sink = "stdout",
  display = "$DWMSTATUS_TEST_DISPLAY",
  notifications = false,
  notification_timeout = 3,
  notification_max_timeout = 10,
  log_level = "debug",
  log_format = "json",
}
dwmstatus.glyphs.memory = "MEM"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	checks := []struct {
		name string
		got  any
		want any
	}{
		{"update_interval", cfg.Status.UpdateInterval, 2 * time.Second},
		{"query_timeout", cfg.Status.QueryTimeout, 250 * time.Millisecond},
		{"separator", cfg.Format.Separator, " | "},
		{"memory_unit", cfg.Format.MemoryUnit, "human"},
		{"sink", cfg.Sink.Kind, SinkStdout},
		{"display", cfg.Sink.Display, ":7"},
		{"notifications", cfg.Notifications.Enabled, false},
		{"notification_timeout", cfg.Notifications.DefaultTimeout, 3 * time.Second},
		{"notification_max_timeout", cfg.Notifications.MaxTimeout, 10 * time.Second},
		{"log_level", cfg.Log.Level, "debug"},
		{"log_format", cfg.Log.Format, "json"},
		{"glyphs.memory", cfg.Format.Glyphs.Memory, "MEM"},
		{"glyphs.load", cfg.Format.Glyphs.Load, "⚙"},
		{"date_layout", cfg.Format.DateLayout, DefaultConfig().Format.DateLayout},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"syntax", "dwmstatus.config = {", ""},
		{"runtime", "error('boom')", ""},
		{"not a table", "dwmstatus = 42", ""},
		{"sink", `dwmstatus.config = { sink = "wayland" }`, ""},
		{"interval", `dwmstatus.config = { update_interval = 0 }`, "update_interval"},
		{"unit", `dwmstatus.config = { memory_unit = "GB" }`, "memory_unit"},
		{"level", `dwmstatus.config = { log_level = "loud" }`, "log_level"},
		{"runaway", "while true do end", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("Load() error = nil")
			}
			if tt.field == "" {
				return
			}
			verrs, ok := err.(ValidationErrors)
			if !ok {
				t.Fatalf("error type %T, want ValidationErrors", err)
			}
			if !verrs.Has(tt.field) {
				t.Errorf("errors %v do not mention %s", verrs, tt.field)
			}
		})
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv(EnvConfigPath, "/etc/dwm-status.lua")
	if got := DefaultPath(); got != "/etc/dwm-status.lua" {
		t.Errorf("DefaultPath() = %q with %s set", got, EnvConfigPath)
	}

	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got, want := DefaultPath(), filepath.Join("/xdg", "dwm-status", "config.lua"); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/test")
	if got, want := DefaultPath(), filepath.Join("/home/test", ".config", "dwm-status", "config.lua"); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}

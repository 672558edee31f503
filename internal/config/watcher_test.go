package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/opd-ai/go-dwmstatus/internal/logging"
)

func TestWatcherReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.lua")
	if err := os.WriteFile(path, []byte(`dwmstatus.config = { separator = " a " }`), 0o644); err != nil {
		t.Fatal(err)
	}

	changes := make(chan *Config, 4)
	w, err := NewWatcher(path, 20*time.Millisecond, logging.Nop(), func(cfg *Config) {
		changes <- cfg
	})
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	w.Start()
	defer w.Stop()

	// Invalid and runaway files are ignored and the watcher keeps running.
	for _, bad := range []string{`dwmstatus.config = {`, `while true do end`} {
		if err := os.WriteFile(path, []byte(bad), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(100 * time.Millisecond)
	}
	select {
	case cfg := <-changes:
		t.Fatalf("invalid config delivered: %+v", cfg)
	case <-time.After(200 * time.Millisecond):
	}

	if err := os.WriteFile(path, []byte(`dwmstatus.config = { separator = " b " }`), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case cfg := <-changes:
		if cfg.Format.Separator != " b " {
			t.Errorf("Separator = %q, want %q", cfg.Format.Separator, " b ")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after valid change")
	}
}

func TestWatcherStopIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.lua")
	w, err := NewWatcher(path, 0, nil, nil)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	w.Stop()
	w.Stop()
	w.Start()
}

func TestNewWatcherMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "config.lua")
	if _, err := NewWatcher(path, 0, nil, nil); err == nil {
		t.Error("NewWatcher() should fail when the directory does not exist")
	}
}

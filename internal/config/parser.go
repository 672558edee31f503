package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// EnvConfigPath names the environment variable that overrides the
// configuration file location.
const EnvConfigPath = "DWMSTATUS_CONFIG"

// DefaultPath returns the configuration file location: $DWMSTATUS_CONFIG,
// else $XDG_CONFIG_HOME/dwm-status/config.lua, else
// ~/.config/dwm-status/config.lua. It returns "" when none can be derived.
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "dwm-status", "config.lua")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "dwm-status", "config.lua")
	}
	return ""
}

// Load reads the configuration at path. A missing file, or an empty path,
// yields DefaultConfig. The result has its environment references expanded
// and has been validated.
func Load(path string) (*Config, error) {
	if path == "" {
		cfg := DefaultConfig()
		return &cfg, nil
	}

	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg := DefaultConfig()
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return Parse(filepath.Base(path), content)
}

// Parse evaluates Lua configuration content, expands environment references
// and validates the result.
func Parse(name string, content []byte) (*Config, error) {
	p := NewLuaParser(nil)
	defer p.Close()

	cfg, err := p.Parse(name, content)
	if err != nil {
		return nil, err
	}

	ExpandEnvConfig(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

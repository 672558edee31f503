package config

import (
	"os"
	"regexp"
	"strings"
)

// envVarPattern matches environment variable references in configuration values.
// Supports formats:
//   - ${VAR_NAME} - standard shell-like format
//   - ${VAR_NAME:-default} - with default value if unset or empty
//   - $VAR_NAME - simple format (word characters only)
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([a-zA-Z_][a-zA-Z0-9_]*)`)

// ExpandEnv expands environment variable references in a string.
// Unset variables without a default expand to the empty string.
func ExpandEnv(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if strings.HasPrefix(match, "${") {
			inner := match[2 : len(match)-1]
			if name, def, ok := strings.Cut(inner, ":-"); ok {
				if val := os.Getenv(name); val != "" {
					return val
				}
				return def
			}
			return os.Getenv(inner)
		}
		return os.Getenv(match[1:])
	})
}

// ExpandEnvConfig expands environment variables in the string settings that
// name paths, programs or displays. Glyphs and layouts are left alone since
// "$" is a legitimate character there.
func ExpandEnvConfig(cfg *Config) {
	if cfg == nil {
		return
	}
	for _, field := range []*string{
		&cfg.Status.PowerSupplyPath,
		&cfg.Sink.Command,
		&cfg.Sink.Display,
		&cfg.Log.Level,
		&cfg.Log.Format,
	} {
		*field = ExpandEnv(*field)
	}
}

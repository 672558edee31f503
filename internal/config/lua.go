package config

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/arnodel/golua/lib"
	rt "github.com/arnodel/golua/runtime"
)

// Resource limits applied while a configuration chunk runs.
const (
	luaCPULimit    = 10_000_000
	luaMemoryLimit = 16 * 1024 * 1024
)

// LuaParser evaluates Lua configuration files. The chunk runs with the
// standard library loaded and a pre-created dwmstatus table whose config
// and glyphs fields it may fill in.
type LuaParser struct {
	runtime *rt.Runtime
	cleanup func()
	mu      sync.Mutex
}

// NewLuaParser creates a LuaParser with a fresh runtime. Output from print
// goes to stdout; nil discards it.
func NewLuaParser(stdout io.Writer) *LuaParser {
	if stdout == nil {
		stdout = io.Discard
	}
	runtime := rt.New(stdout)
	return &LuaParser{
		runtime: runtime,
		cleanup: lib.LoadAll(runtime),
	}
}

// Parse runs content and returns DefaultConfig overridden by the values it
// assigned. name identifies the chunk in error messages.
func (p *LuaParser) Parse(name string, content []byte) (*Config, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.initGlobal()

	closure, err := p.runtime.CompileAndLoadLuaChunk(name, content, rt.TableValue(p.runtime.GlobalEnv()))
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}

	// CallContext turns a hard limit violation into an error instead of a panic.
	thread := p.runtime.MainThread()
	_, err = thread.CallContext(rt.RuntimeContextDef{
		HardLimits: rt.RuntimeResources{
			Cpu:    luaCPULimit,
			Memory: luaMemoryLimit,
		},
	}, func() error {
		_, err := rt.Call1(thread, rt.FunctionValue(closure))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", name, err)
	}

	return p.extractConfig()
}

// Close releases the Lua runtime.
func (p *LuaParser) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cleanup != nil {
		p.cleanup()
		p.cleanup = nil
	}
	return nil
}

func (p *LuaParser) initGlobal() {
	root := rt.NewTable()
	root.Set(rt.StringValue("config"), rt.TableValue(rt.NewTable()))
	root.Set(rt.StringValue("glyphs"), rt.TableValue(rt.NewTable()))
	p.runtime.GlobalEnv().Set(rt.StringValue("dwmstatus"), rt.TableValue(root))
}

func (p *LuaParser) extractConfig() (*Config, error) {
	cfg := DefaultConfig()

	rootVal := p.runtime.GlobalEnv().Get(rt.StringValue("dwmstatus"))
	if rootVal == rt.NilValue {
		return &cfg, nil
	}
	root, ok := rootVal.TryTable()
	if !ok {
		return nil, fmt.Errorf("dwmstatus is not a table")
	}

	if t, ok := root.Get(rt.StringValue("config")).TryTable(); ok {
		if err := extractSettings(&cfg, t); err != nil {
			return nil, err
		}
	}
	if t, ok := root.Get(rt.StringValue("glyphs")).TryTable(); ok {
		extractGlyphs(&cfg, t)
	}
	return &cfg, nil
}

func extractSettings(cfg *Config, table *rt.Table) error {
	durations := []struct {
		key    string
		target *time.Duration
	}{
		{"update_interval", &cfg.Status.UpdateInterval},
		{"query_timeout", &cfg.Status.QueryTimeout},
		{"shutdown_timeout", &cfg.ShutdownTimeout},
		{"notification_timeout", &cfg.Notifications.DefaultTimeout},
		{"notification_max_timeout", &cfg.Notifications.MaxTimeout},
	}
	for _, d := range durations {
		if val := getTableFloat(table, d.key); val != nil {
			*d.target = seconds(*val)
		}
	}

	texts := []struct {
		key    string
		target *string
	}{
		{"separator", &cfg.Format.Separator},
		{"date_layout", &cfg.Format.DateLayout},
		{"memory_unit", &cfg.Format.MemoryUnit},
		{"power_supply_path", &cfg.Status.PowerSupplyPath},
		{"sink_command", &cfg.Sink.Command},
		{"display", &cfg.Sink.Display},
		{"log_level", &cfg.Log.Level},
		{"log_format", &cfg.Log.Format},
	}
	for _, s := range texts {
		if val := getTableString(table, s.key); val != nil {
			*s.target = *val
		}
	}

	if val := getTableBool(table, "notifications"); val != nil {
		cfg.Notifications.Enabled = *val
	}

	if val := getTableString(table, "sink"); val != nil {
		kind, err := ParseSinkKind(*val)
		if err != nil {
			return fmt.Errorf("invalid sink: %w", err)
		}
		cfg.Sink.Kind = kind
	}
	return nil
}

func extractGlyphs(cfg *Config, table *rt.Table) {
	g := &cfg.Format.Glyphs
	for _, f := range []struct {
		key    string
		target *string
	}{
		{"plugged", &g.Plugged},
		{"ac", &g.AC},
		{"battery_power", &g.BatteryPower},
		{"battery", &g.Battery},
		{"memory", &g.Memory},
		{"load", &g.Load},
		{"date", &g.Date},
		{"unavailable", &g.Unavailable},
		{"notification", &g.Notification},
	} {
		if val := getTableString(table, f.key); val != nil {
			*f.target = *val
		}
	}
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

// getTableBool retrieves a boolean value from a Lua table.
// Returns nil if the key doesn't exist or is not a boolean.
func getTableBool(table *rt.Table, key string) *bool {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}
	if b, ok := val.TryBool(); ok {
		return &b
	}
	if s, ok := val.TryString(); ok {
		b := parseBool(s)
		return &b
	}
	return nil
}

// getTableString retrieves a string value from a Lua table.
// Returns nil if the key doesn't exist or is not a string.
func getTableString(table *rt.Table, key string) *string {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}
	if s, ok := val.TryString(); ok {
		return &s
	}
	return nil
}

// getTableFloat retrieves a float64 value from a Lua table.
// Returns nil if the key doesn't exist or is not a number.
func getTableFloat(table *rt.Table, key string) *float64 {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}
	if n, ok := val.TryFloat(); ok {
		return &n
	}
	if n, ok := val.TryInt(); ok {
		f := float64(n)
		return &f
	}
	return nil
}

// parseBool accepts the usual spellings of true; anything else is false.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "on", "1":
		return true
	default:
		return false
	}
}

// Package status renders samples and notifications into the single line
// shown in the dwm status bar. Every function here is pure.
package status

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/opd-ai/go-dwmstatus/internal/monitor"
	"github.com/opd-ai/go-dwmstatus/internal/notify"
)

// Default formatting values.
const (
	DefaultSeparator  = " ⸱ "
	DefaultDateLayout = "Mon, 02 Jan ⸱ 🕓 15:04"
)

// MemoryUnit selects how used memory is printed.
type MemoryUnit string

const (
	UnitBytes MemoryUnit = "B"
	UnitKiB   MemoryUnit = "KiB"
	UnitMiB   MemoryUnit = "MiB"
	// UnitHuman prints an IEC size with its suffix, e.g. "1.2 GiB".
	UnitHuman MemoryUnit = "human"
)

// ParseMemoryUnit converts a configuration string to a MemoryUnit.
func ParseMemoryUnit(s string) (MemoryUnit, error) {
	switch u := MemoryUnit(s); u {
	case UnitBytes, UnitKiB, UnitMiB, UnitHuman:
		return u, nil
	case "":
		return UnitMiB, nil
	default:
		return "", fmt.Errorf("unknown memory unit: %s", s)
	}
}

// Glyphs are the field labels of the status line.
type Glyphs struct {
	Plugged      string
	AC           string
	BatteryPower string
	Battery      string
	Memory       string
	Load         string
	Date         string
	Unavailable  string
	Notification string
}

// DefaultGlyphs returns the stock glyph set.
func DefaultGlyphs() Glyphs {
	return Glyphs{
		Plugged:      "🔌",
		AC:           "✓",
		BatteryPower: "✘",
		Battery:      "🔋",
		Memory:       "▯",
		Load:         "⚙",
		Date:         "📆",
		Unavailable:  "_",
		Notification: "✉",
	}
}

// Formatter composes status lines. The zero value is not usable; start
// from DefaultFormatter.
type Formatter struct {
	Glyphs     Glyphs
	Separator  string
	DateLayout string
	MemoryUnit MemoryUnit
}

// DefaultFormatter returns a Formatter with the stock layout.
func DefaultFormatter() *Formatter {
	return &Formatter{
		Glyphs:     DefaultGlyphs(),
		Separator:  DefaultSeparator,
		DateLayout: DefaultDateLayout,
		MemoryUnit: UnitMiB,
	}
}

// Format renders a sample. Fields appear in a fixed order, each followed
// by the separator; a field that renders empty is left out together with
// its separator. The date is always present and always last.
func (f *Formatter) Format(s monitor.Sample) string {
	var b strings.Builder
	for _, field := range []string{
		f.power(s.Power),
		f.battery(s),
		f.memory(s),
		f.load(s),
	} {
		if field == "" {
			continue
		}
		b.WriteString(field)
		b.WriteString(f.Separator)
	}
	b.WriteString(f.date(s))
	return b.String()
}

// Notification renders a notification in place of the status line.
// The summary is shown verbatim, tagged with the sending application.
func (f *Formatter) Notification(ev notify.Event) string {
	text := ev.Summary
	if ev.AppName != "" {
		text = ev.AppName + ": " + text
	}
	return label(f.Glyphs.Notification, text)
}

func (f *Formatter) power(p monitor.PowerState) string {
	switch p {
	case monitor.PowerPlugged:
		return label(f.Glyphs.Plugged, f.Glyphs.AC)
	case monitor.PowerUnplugged:
		return label(f.Glyphs.Plugged, f.Glyphs.BatteryPower)
	default:
		return f.Glyphs.Plugged
	}
}

func (f *Formatter) battery(s monitor.Sample) string {
	if !s.BatteryOK {
		return ""
	}
	return label(f.Glyphs.Battery, strconv.FormatFloat(s.Battery, 'f', 1, 64)+"%")
}

func (f *Formatter) memory(s monitor.Sample) string {
	if !s.MemoryOK {
		return label(f.Glyphs.Memory, f.Glyphs.Unavailable)
	}
	return label(f.Glyphs.Memory, formatMemory(s.MemoryUsed, f.MemoryUnit))
}

func (f *Formatter) load(s monitor.Sample) string {
	if !s.LoadOK {
		return label(f.Glyphs.Load, f.Glyphs.Unavailable)
	}
	return label(f.Glyphs.Load, strconv.FormatFloat(s.Load1, 'f', 2, 64))
}

func (f *Formatter) date(s monitor.Sample) string {
	return label(f.Glyphs.Date, s.Time.Format(f.DateLayout))
}

func formatMemory(bytes uint64, unit MemoryUnit) string {
	switch unit {
	case UnitBytes:
		return strconv.FormatUint(bytes, 10)
	case UnitKiB:
		return strconv.FormatUint(bytes/humanize.KiByte, 10)
	case UnitHuman:
		return humanize.IBytes(bytes)
	default:
		return strconv.FormatUint(bytes/humanize.MiByte, 10)
	}
}

// label joins a glyph and a value with a space, dropping the space when
// either side is empty.
func label(glyph, value string) string {
	switch {
	case glyph == "":
		return value
	case value == "":
		return glyph
	default:
		return glyph + " " + value
	}
}

// Package monitor provides the system readings shown in the status line.
// It reads power supply state from sysfs and memory and load figures
// through gopsutil. Every query is independently fallible; a failed query
// leaves its field unavailable instead of failing the whole sample.
package monitor

import "time"

// PowerState is the tri-state result of the AC adapter query.
type PowerState int

const (
	// PowerUnknown means no adapter could be found or read.
	PowerUnknown PowerState = iota
	// PowerPlugged means at least one adapter reports online.
	PowerPlugged
	// PowerUnplugged means adapters exist but none is online.
	PowerUnplugged
)

// String returns a human-readable representation of the power state.
func (p PowerState) String() string {
	switch p {
	case PowerPlugged:
		return "plugged"
	case PowerUnplugged:
		return "unplugged"
	default:
		return "unknown"
	}
}

// Sample is one snapshot of the polled system facts.
// Each reading carries an OK flag; a false flag means the query failed
// and the value must not be displayed.
type Sample struct {
	// Power is the AC adapter state.
	Power PowerState
	// Battery is the combined charge of all batteries as a percentage (0-100).
	Battery   float64
	BatteryOK bool
	// MemoryUsed is total - free - buffers - shared, in bytes.
	MemoryUsed uint64
	MemoryOK   bool
	// Load1 is the 1-minute load average.
	Load1  float64
	LoadOK bool
	// Time is the wall-clock instant the sample was taken.
	Time time.Time
}

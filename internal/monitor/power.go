package monitor

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultPowerSupplyPath is the sysfs directory listing power supplies.
const DefaultPowerSupplyPath = "/sys/class/power_supply"

// powerReader reads AC adapter and battery state from /sys/class/power_supply.
type powerReader struct {
	powerSupplyPath string
}

// newPowerReader creates a powerReader rooted at the given sysfs directory.
func newPowerReader(path string) *powerReader {
	if path == "" {
		path = DefaultPowerSupplyPath
	}
	return &powerReader{powerSupplyPath: path}
}

// supply is one entry of the power_supply directory.
type supply struct {
	name string
	path string
	kind string
}

// supplies lists the power supplies and their lower-cased type.
// Entries whose type cannot be read are skipped.
func (r *powerReader) supplies() ([]supply, error) {
	entries, err := os.ReadDir(r.powerSupplyPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", r.powerSupplyPath, err)
	}

	var out []supply
	for _, entry := range entries {
		// sysfs exposes supplies as symlinks, so DirEntry.IsDir is not reliable.
		devicePath := filepath.Join(r.powerSupplyPath, entry.Name())
		kind, err := readStringFile(filepath.Join(devicePath, "type"))
		if err != nil {
			continue
		}
		out = append(out, supply{
			name: entry.Name(),
			path: devicePath,
			kind: strings.ToLower(kind),
		})
	}
	return out, nil
}

// ReadPower reports whether any AC adapter is online.
func (r *powerReader) ReadPower() (PowerState, error) {
	supplies, err := r.supplies()
	if err != nil {
		return PowerUnknown, err
	}

	found := false
	for _, s := range supplies {
		switch s.kind {
		case "mains", "ups", "usb":
		default:
			continue
		}
		online, err := readIntFile(filepath.Join(s.path, "online"))
		if err != nil {
			continue
		}
		found = true
		if online == 1 {
			return PowerPlugged, nil
		}
	}

	if !found {
		return PowerUnknown, ErrNoAdapter
	}
	return PowerUnplugged, nil
}

// ReadBattery returns the combined remaining capacity of all batteries as a
// percentage. Energy counters are preferred, then charge counters, then the
// kernel's own capacity figure.
func (r *powerReader) ReadBattery() (float64, error) {
	supplies, err := r.supplies()
	if err != nil {
		return 0, err
	}

	var now, full uint64
	var capacitySum float64
	var capacityCount int

	for _, s := range supplies {
		if s.kind != "battery" {
			continue
		}
		if present, err := readIntFile(filepath.Join(s.path, "present")); err == nil && present != 1 {
			continue
		}

		if n, f, ok := readCounters(s.path, "energy"); ok {
			now += n
			full += f
			continue
		}
		if n, f, ok := readCounters(s.path, "charge"); ok {
			now += n
			full += f
			continue
		}
		if capacity, err := readIntFile(filepath.Join(s.path, "capacity")); err == nil {
			capacitySum += float64(capacity)
			capacityCount++
		}
	}

	switch {
	case full > 0:
		return clampPercent(float64(now) / float64(full) * 100), nil
	case capacityCount > 0:
		return clampPercent(capacitySum / float64(capacityCount)), nil
	default:
		return 0, ErrNoBattery
	}
}

// readCounters reads the <prefix>_now and <prefix>_full pair of a battery.
func readCounters(devicePath, prefix string) (now, full uint64, ok bool) {
	n, err := readUint64File(filepath.Join(devicePath, prefix+"_now"))
	if err != nil {
		return 0, 0, false
	}
	f, err := readUint64File(filepath.Join(devicePath, prefix+"_full"))
	if err != nil || f == 0 {
		return 0, 0, false
	}
	return n, f, true
}

func clampPercent(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}

// readStringFile reads a string value from a sysfs file.
func readStringFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// readIntFile reads an integer value from a sysfs file.
func readIntFile(path string) (int64, error) {
	str, err := readStringFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(str, 10, 64)
}

// readUint64File reads an unsigned integer value from a sysfs file.
func readUint64File(path string) (uint64, error) {
	str, err := readStringFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(str, 10, 64)
}

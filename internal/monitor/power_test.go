package monitor

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// writeSupply creates a fake power supply directory with the given attributes.
func writeSupply(t *testing.T, root, name string, attrs map[string]string) {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create %s: %v", name, err)
	}
	for file, content := range attrs {
		if err := os.WriteFile(filepath.Join(dir, file), []byte(content+"\n"), 0o644); err != nil {
			t.Fatalf("failed to write %s/%s: %v", name, file, err)
		}
	}
}

func TestNewPowerReaderDefaultPath(t *testing.T) {
	reader := newPowerReader("")
	if reader.powerSupplyPath != DefaultPowerSupplyPath {
		t.Errorf("powerSupplyPath = %q, want %q", reader.powerSupplyPath, DefaultPowerSupplyPath)
	}
}

func TestReadPower(t *testing.T) {
	tests := []struct {
		name     string
		supplies map[string]map[string]string
		want     PowerState
		wantErr  error
	}{
		{
			name: "adapter online",
			supplies: map[string]map[string]string{
				"AC":   {"type": "Mains", "online": "1"},
				"BAT0": {"type": "Battery", "capacity": "50"},
			},
			want: PowerPlugged,
		},
		{
			name: "adapter offline",
			supplies: map[string]map[string]string{
				"AC": {"type": "Mains", "online": "0"},
			},
			want: PowerUnplugged,
		},
		{
			name: "one of two adapters online",
			supplies: map[string]map[string]string{
				"ADP1":       {"type": "Mains", "online": "0"},
				"ucsi-usb-1": {"type": "USB", "online": "1"},
			},
			want: PowerPlugged,
		},
		{
			name: "battery only",
			supplies: map[string]map[string]string{
				"BAT0": {"type": "Battery", "capacity": "50"},
			},
			want:    PowerUnknown,
			wantErr: ErrNoAdapter,
		},
		{
			name: "adapter without online file",
			supplies: map[string]map[string]string{
				"AC": {"type": "Mains"},
			},
			want:    PowerUnknown,
			wantErr: ErrNoAdapter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			for name, attrs := range tt.supplies {
				writeSupply(t, root, name, attrs)
			}

			got, err := newPowerReader(root).ReadPower()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ReadPower() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ReadPower() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadPowerMissingDirectory(t *testing.T) {
	got, err := newPowerReader("/nonexistent/power_supply").ReadPower()
	if err == nil {
		t.Error("ReadPower() error = nil, want error for missing directory")
	}
	if got != PowerUnknown {
		t.Errorf("ReadPower() = %v, want %v", got, PowerUnknown)
	}
}

func TestReadBattery(t *testing.T) {
	tests := []struct {
		name     string
		supplies map[string]map[string]string
		want     float64
		wantErr  error
	}{
		{
			name: "energy counters",
			supplies: map[string]map[string]string{
				"BAT0": {"type": "Battery", "present": "1", "energy_now": "34920000", "energy_full": "40000000"},
			},
			want: 87.3,
		},
		{
			name: "charge counters",
			supplies: map[string]map[string]string{
				"BAT0": {"type": "Battery", "charge_now": "2500000", "charge_full": "5000000"},
			},
			want: 50,
		},
		{
			name: "two batteries are combined",
			supplies: map[string]map[string]string{
				"BAT0": {"type": "Battery", "energy_now": "10000000", "energy_full": "20000000"},
				"BAT1": {"type": "Battery", "energy_now": "20000000", "energy_full": "20000000"},
			},
			want: 75,
		},
		{
			name: "capacity fallback",
			supplies: map[string]map[string]string{
				"BAT0": {"type": "Battery", "capacity": "42"},
			},
			want: 42,
		},
		{
			name: "absent battery is skipped",
			supplies: map[string]map[string]string{
				"BAT0": {"type": "Battery", "present": "0", "capacity": "42"},
			},
			wantErr: ErrNoBattery,
		},
		{
			name: "over-reporting battery is clamped",
			supplies: map[string]map[string]string{
				"BAT0": {"type": "Battery", "energy_now": "41000000", "energy_full": "40000000"},
			},
			want: 100,
		},
		{
			name: "no battery",
			supplies: map[string]map[string]string{
				"AC": {"type": "Mains", "online": "1"},
			},
			wantErr: ErrNoBattery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			for name, attrs := range tt.supplies {
				writeSupply(t, root, name, attrs)
			}

			got, err := newPowerReader(root).ReadBattery()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ReadBattery() error = %v, want %v", err, tt.wantErr)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ReadBattery() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPowerStateString(t *testing.T) {
	tests := []struct {
		state PowerState
		want  string
	}{
		{PowerPlugged, "plugged"},
		{PowerUnplugged, "unplugged"},
		{PowerUnknown, "unknown"},
		{PowerState(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("PowerState(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

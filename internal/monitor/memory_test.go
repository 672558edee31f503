package monitor

import (
	"context"
	"errors"
	"testing"

	"github.com/shirou/gopsutil/v4/mem"
)

func TestMemoryReaderReadUsed(t *testing.T) {
	reader := &memoryReader{
		virtualMemory: func(context.Context) (*mem.VirtualMemoryStat, error) {
			return &mem.VirtualMemoryStat{
				Total:   8192 * 1024 * 1024,
				Free:    2048 * 1024 * 1024,
				Buffers: 512 * 1024 * 1024,
				Shared:  256 * 1024 * 1024,
				Cached:  1024 * 1024 * 1024,
			}, nil
		},
	}

	used, err := reader.ReadUsed(context.Background())
	if err != nil {
		t.Fatalf("ReadUsed() error = %v", err)
	}

	// Cached is deliberately not subtracted.
	want := uint64((8192 - 2048 - 512 - 256) * 1024 * 1024)
	if used != want {
		t.Errorf("ReadUsed() = %d, want %d", used, want)
	}
}

func TestMemoryReaderError(t *testing.T) {
	wantErr := errors.New("meminfo unavailable")
	reader := &memoryReader{
		virtualMemory: func(context.Context) (*mem.VirtualMemoryStat, error) {
			return nil, wantErr
		},
	}

	if _, err := reader.ReadUsed(context.Background()); !errors.Is(err, wantErr) {
		t.Errorf("ReadUsed() error = %v, want %v", err, wantErr)
	}
}

func TestCalculateUsedMemory(t *testing.T) {
	tests := []struct {
		name                         string
		total, free, buffers, shared uint64
		want                         uint64
	}{
		{"normal", 1000, 200, 100, 50, 650},
		{"free exceeds total", 100, 200, 0, 0, 0},
		{"buffers exceed remainder", 1000, 900, 200, 0, 0},
		{"shared exceeds remainder", 1000, 500, 400, 200, 0},
		{"all zero", 0, 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateUsedMemory(tt.total, tt.free, tt.buffers, tt.shared)
			if got != tt.want {
				t.Errorf("calculateUsedMemory() = %d, want %d", got, tt.want)
			}
		})
	}
}

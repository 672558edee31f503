package monitor

import (
	"context"

	"github.com/shirou/gopsutil/v4/mem"
)

// memoryReader computes used memory from gopsutil's virtual memory figures.
type memoryReader struct {
	virtualMemory func(ctx context.Context) (*mem.VirtualMemoryStat, error)
}

func newMemoryReader() *memoryReader {
	return &memoryReader{virtualMemory: mem.VirtualMemoryWithContext}
}

// ReadUsed returns total - free - buffers - shared in bytes.
func (r *memoryReader) ReadUsed(ctx context.Context) (uint64, error) {
	vm, err := r.virtualMemory(ctx)
	if err != nil {
		return 0, err
	}
	return calculateUsedMemory(vm.Total, vm.Free, vm.Buffers, vm.Shared), nil
}

// calculateUsedMemory subtracts stepwise so that inconsistent counters
// clamp at zero instead of wrapping around.
func calculateUsedMemory(total, free, buffers, shared uint64) uint64 {
	used := safeSubtract(total, free)
	used = safeSubtract(used, buffers)
	return safeSubtract(used, shared)
}

// safeSubtract performs subtraction with underflow protection.
func safeSubtract(a, b uint64) uint64 {
	if a >= b {
		return a - b
	}
	return 0
}

package monitor

import (
	"context"

	"github.com/shirou/gopsutil/v4/load"
)

// loadReader reads the 1-minute load average.
type loadReader struct {
	avg func(ctx context.Context) (*load.AvgStat, error)
}

func newLoadReader() *loadReader {
	return &loadReader{avg: load.AvgWithContext}
}

// ReadLoad1 returns the 1-minute load average.
func (r *loadReader) ReadLoad1(ctx context.Context) (float64, error) {
	stat, err := r.avg(ctx)
	if err != nil {
		return 0, err
	}
	return stat.Load1, nil
}

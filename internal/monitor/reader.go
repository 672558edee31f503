package monitor

import (
	"context"
	"time"
)

// DefaultQueryTimeout bounds each individual query.
const DefaultQueryTimeout = 500 * time.Millisecond

// Reader provides the four independent system queries.
// Implementations never panic on failure; they return an error and a zero
// value, and callers treat the reading as unavailable.
type Reader interface {
	// PowerPlugged reports the AC adapter state.
	PowerPlugged(ctx context.Context) (PowerState, error)
	// Battery returns the remaining battery capacity as a percentage.
	Battery(ctx context.Context) (float64, error)
	// MemoryUsed returns used memory in bytes.
	MemoryUsed(ctx context.Context) (uint64, error)
	// LoadAverage returns the 1-minute load average.
	LoadAverage(ctx context.Context) (float64, error)
}

// SystemReader is the Reader backed by the local machine.
type SystemReader struct {
	power   *powerReader
	memory  *memoryReader
	load    *loadReader
	timeout time.Duration
}

// Verify interface implementation at compile time.
var _ Reader = (*SystemReader)(nil)

// NewSystemReader creates a SystemReader.
// powerSupplyPath defaults to DefaultPowerSupplyPath when empty and
// timeout defaults to DefaultQueryTimeout when not positive.
func NewSystemReader(powerSupplyPath string, timeout time.Duration) *SystemReader {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return &SystemReader{
		power:   newPowerReader(powerSupplyPath),
		memory:  newMemoryReader(),
		load:    newLoadReader(),
		timeout: timeout,
	}
}

// PowerPlugged reports the AC adapter state.
func (sr *SystemReader) PowerPlugged(ctx context.Context) (PowerState, error) {
	if err := ctx.Err(); err != nil {
		return PowerUnknown, newComponentError(ErrorSourcePower, err)
	}
	state, err := sr.power.ReadPower()
	if err != nil {
		return PowerUnknown, newComponentError(ErrorSourcePower, err)
	}
	return state, nil
}

// Battery returns the remaining battery capacity as a percentage.
func (sr *SystemReader) Battery(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, newComponentError(ErrorSourceBattery, err)
	}
	pct, err := sr.power.ReadBattery()
	if err != nil {
		return 0, newComponentError(ErrorSourceBattery, err)
	}
	return pct, nil
}

// MemoryUsed returns used memory in bytes.
func (sr *SystemReader) MemoryUsed(ctx context.Context) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, sr.timeout)
	defer cancel()

	used, err := sr.memory.ReadUsed(ctx)
	if err != nil {
		return 0, newComponentError(ErrorSourceMemory, err)
	}
	return used, nil
}

// LoadAverage returns the 1-minute load average.
func (sr *SystemReader) LoadAverage(ctx context.Context) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, sr.timeout)
	defer cancel()

	load1, err := sr.load.ReadLoad1(ctx)
	if err != nil {
		return 0, newComponentError(ErrorSourceLoad, err)
	}
	return load1, nil
}

// Collect runs every query of r and assembles a Sample stamped with now.
// Failed queries leave their field unavailable; the returned error, when
// non-nil, is an *UpdateError listing them and is informational only.
func Collect(ctx context.Context, r Reader, now time.Time) (Sample, error) {
	s := Sample{Time: now}
	var errs []*ComponentError

	record := func(source ErrorSource, err error) {
		if ce, ok := err.(*ComponentError); ok {
			errs = append(errs, ce)
			return
		}
		errs = append(errs, newComponentError(source, err))
	}

	power, err := r.PowerPlugged(ctx)
	if err != nil {
		record(ErrorSourcePower, err)
		power = PowerUnknown
	}
	s.Power = power

	if pct, err := r.Battery(ctx); err != nil {
		record(ErrorSourceBattery, err)
	} else {
		s.Battery, s.BatteryOK = pct, true
	}

	if used, err := r.MemoryUsed(ctx); err != nil {
		record(ErrorSourceMemory, err)
	} else {
		s.MemoryUsed, s.MemoryOK = used, true
	}

	if load1, err := r.LoadAverage(ctx); err != nil {
		record(ErrorSourceLoad, err)
	} else {
		s.Load1, s.LoadOK = load1, true
	}

	if len(errs) > 0 {
		return s, &UpdateError{Errors: errs}
	}
	return s, nil
}

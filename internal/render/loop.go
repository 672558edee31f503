// Package render drives the status line. Its Loop merges the fixed-cadence
// metrics poll with notifications arriving through a relay and writes the
// result to a single sink.
package render

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/opd-ai/go-dwmstatus/internal/logging"
	"github.com/opd-ai/go-dwmstatus/internal/monitor"
	"github.com/opd-ai/go-dwmstatus/internal/notify"
	"github.com/opd-ai/go-dwmstatus/internal/sink"
	"github.com/opd-ai/go-dwmstatus/internal/status"
)

// DefaultCadence is the interval between metrics renders.
const DefaultCadence = time.Second

// sinkWarnInterval spaces out warnings about a failing sink; failures in
// between are logged at debug level.
const sinkWarnInterval = 30 * time.Second

// Config holds the collaborators of a Loop.
type Config struct {
	// Reader answers the metrics queries. Required.
	Reader monitor.Reader
	// Sink receives every rendered line. Required.
	Sink sink.Sink
	// Formatter renders samples and notifications. Defaults to status.DefaultFormatter.
	Formatter *status.Formatter
	// Relay carries notifications from the listener. Nil runs metrics-only.
	Relay *notify.Relay
	// Clock defaults to SystemClock.
	Clock Clock
	// Cadence defaults to DefaultCadence.
	Cadence time.Duration
	// Logger defaults to a discarding logger.
	Logger logging.Logger
	// Metrics defaults to a fresh counter set.
	Metrics *Metrics
}

// Loop is the render state machine. It alternates between polling metrics
// and, when the relay holds an event, showing a notification for the
// event's timeout before the next metrics render.
type Loop struct {
	reader    monitor.Reader
	sink      sink.Sink
	relay     *notify.Relay
	clock     Clock
	cadence   time.Duration
	logger    logging.Logger
	metrics   *Metrics
	sinkWarn  *rate.Limiter
	formatter atomic.Pointer[status.Formatter]
}

// NewLoop validates cfg and creates a Loop.
func NewLoop(cfg Config) (*Loop, error) {
	if cfg.Reader == nil {
		return nil, errors.New("render: reader is required")
	}
	if cfg.Sink == nil {
		return nil, errors.New("render: sink is required")
	}
	if cfg.Formatter == nil {
		cfg.Formatter = status.DefaultFormatter()
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock()
	}
	if cfg.Cadence <= 0 {
		cfg.Cadence = DefaultCadence
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = NewMetrics()
	}

	l := &Loop{
		reader:   cfg.Reader,
		sink:     cfg.Sink,
		relay:    cfg.Relay,
		clock:    cfg.Clock,
		cadence:  cfg.Cadence,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
		sinkWarn: rate.NewLimiter(rate.Every(sinkWarnInterval), 1),
	}
	l.formatter.Store(cfg.Formatter)
	return l, nil
}

// Metrics returns the loop's counters.
func (l *Loop) Metrics() *Metrics {
	return l.metrics
}

// SetFormatter replaces the formatter used from the next render on.
// Safe to call while Run is active.
func (l *Loop) SetFormatter(f *status.Formatter) {
	if f == nil {
		return
	}
	l.formatter.Store(f)
	l.metrics.formatterReloads.Add(1)
}

// Run repeats Step until ctx is done and returns ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info("render loop started", "cadence", l.cadence)
	defer l.logger.Info("render loop stopped")

	for {
		if err := l.Step(ctx); err != nil {
			return err
		}
	}
}

// Step performs one iteration: a pending notification is shown for its
// timeout, then the current metrics are rendered, then the loop waits one
// cadence. It returns a non-nil error only when ctx is done.
func (l *Loop) Step(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.metrics.iterations.Add(1)

	if l.relay != nil {
		if ev, ok := l.relay.Poll(); ok {
			l.send(l.formatter.Load().Notification(ev))
			l.metrics.notifyRenders.Add(1)
			if err := l.clock.Sleep(ctx, ev.Timeout); err != nil {
				return err
			}
		}
	}

	sample, err := monitor.Collect(ctx, l.reader, l.clock.Now())
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !batteryOnlyAbsent(err) {
			l.metrics.collectFailures.Add(1)
			l.logger.Debug("metrics partially unavailable", "err", err)
		}
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	l.send(l.formatter.Load().Format(sample))
	l.metrics.statusRenders.Add(1)

	return l.clock.Sleep(ctx, l.cadence)
}

// batteryOnlyAbsent reports whether err says nothing more than that the
// machine has no battery, which is the normal state of a desktop.
func batteryOnlyAbsent(err error) bool {
	ue := monitor.AsUpdateError(err)
	if ue == nil || len(ue.Errors) != 1 || !ue.HasSource(monitor.ErrorSourceBattery) {
		return false
	}
	return errors.Is(ue, monitor.ErrNoBattery)
}

// send writes text to the sink. Failures are counted and otherwise ignored;
// the next iteration renders fresh content.
func (l *Loop) send(text string) {
	if err := l.sink.Display(text); err != nil {
		if errors.Is(err, sink.ErrSealed) {
			return
		}
		l.metrics.sinkFailures.Add(1)
		if l.sinkWarn.Allow() {
			l.logger.Warn("sink display failed", "err", err)
			return
		}
		l.logger.Debug("sink display failed", "err", err)
	}
}

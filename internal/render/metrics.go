package render

import "sync/atomic"

// Metrics counts what the render loop did. Safe for concurrent use.
type Metrics struct {
	iterations       atomic.Int64
	statusRenders    atomic.Int64
	notifyRenders    atomic.Int64
	notifyDropped    atomic.Int64
	sinkFailures     atomic.Int64
	collectFailures  atomic.Int64
	formatterReloads atomic.Int64
}

// NewMetrics creates a zeroed Metrics.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Iterations           int64
	StatusRenders        int64
	NotificationRenders  int64
	NotificationsDropped int64
	SinkFailures         int64
	CollectFailures      int64
	FormatterReloads     int64
}

// Snapshot returns a point-in-time copy of all counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Iterations:           m.iterations.Load(),
		StatusRenders:        m.statusRenders.Load(),
		NotificationRenders:  m.notifyRenders.Load(),
		NotificationsDropped: m.notifyDropped.Load(),
		SinkFailures:         m.sinkFailures.Load(),
		CollectFailures:      m.collectFailures.Load(),
		FormatterReloads:     m.formatterReloads.Load(),
	}
}

// LogArgs returns the snapshot as slog-style key-value pairs.
func (s MetricsSnapshot) LogArgs() []any {
	return []any{
		"iterations", s.Iterations,
		"status_renders", s.StatusRenders,
		"notification_renders", s.NotificationRenders,
		"notifications_dropped", s.NotificationsDropped,
		"sink_failures", s.SinkFailures,
		"collect_failures", s.CollectFailures,
		"formatter_reloads", s.FormatterReloads,
	}
}

// IncrementNotificationsDropped records a notification evicted from the relay.
func (m *Metrics) IncrementNotificationsDropped() {
	m.notifyDropped.Add(1)
}

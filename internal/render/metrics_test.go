package render

import (
	"sync"
	"testing"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.IncrementNotificationsDropped()
		}()
	}
	wg.Wait()

	snap := m.Snapshot()
	if snap.NotificationsDropped != 50 {
		t.Errorf("NotificationsDropped = %d, want 50", snap.NotificationsDropped)
	}
	if snap.StatusRenders != 0 || snap.SinkFailures != 0 {
		t.Errorf("unexpected counters: %+v", snap)
	}
}

func TestMetricsLogArgs(t *testing.T) {
	args := MetricsSnapshot{StatusRenders: 3}.LogArgs()
	if len(args)%2 != 0 {
		t.Fatalf("LogArgs() has odd length %d", len(args))
	}
	for i := 0; i < len(args); i += 2 {
		if args[i] == "status_renders" && args[i+1] != int64(3) {
			t.Errorf("status_renders = %v, want 3", args[i+1])
		}
	}
}

package stats

import (
	"sync"
	"testing"
	"time"
)

func TestWindowSnapshotPercentiles(t *testing.T) {
	w := NewWindow(time.Hour)
	for _, ms := range []int64{500, 100, 300, 200, 400} {
		w.Record(ms, true)
	}

	snap := w.Snapshot()
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.Failures != 0 {
		t.Fatalf("expected failures=0, got %d", snap.Failures)
	}
	if snap.MinMs != 100 || snap.MaxMs != 500 {
		t.Fatalf("expected min=100 max=500, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
	if snap.P99Ms != 496 {
		t.Fatalf("expected p99=496, got %f", snap.P99Ms)
	}
}

func TestWindowCountsFailures(t *testing.T) {
	w := NewWindow(time.Hour)
	w.Record(10, true)
	w.Record(20, false)
	w.Record(30, false)

	snap := w.Snapshot()
	if snap.Count != 3 || snap.Failures != 2 {
		t.Fatalf("expected count=3 failures=2, got count=%d failures=%d", snap.Count, snap.Failures)
	}
}

func TestWindowPrunesExpiredSamples(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	w := NewWindow(time.Minute)
	w.now = func() time.Time { return now }

	w.Record(100, true)
	now = now.Add(2 * time.Minute)

	if snap := w.Snapshot(); snap.Count != 0 {
		t.Fatalf("expected count=0 after prune, got %d", snap.Count)
	}

	w.Record(200, true)
	snap := w.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1 for fresh sample, got %d", snap.Count)
	}
	if snap.MinMs != 200 || snap.MaxMs != 200 {
		t.Fatalf("expected min=max=200, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}

func TestWindowClampsNegativeDuration(t *testing.T) {
	w := NewWindow(time.Hour)
	w.Record(-10, true)
	snap := w.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1, got %d", snap.Count)
	}
	if snap.MinMs != 0 || snap.MaxMs != 0 {
		t.Fatalf("expected clamped duration=0, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}

func TestWindowDefaultsMaxAge(t *testing.T) {
	if got := NewWindow(0).MaxAge(); got != time.Hour {
		t.Fatalf("expected default max age 1h, got %s", got)
	}
}

func TestWindowEmptySnapshot(t *testing.T) {
	if snap := NewWindow(time.Hour).Snapshot(); snap != (Snapshot{}) {
		t.Fatalf("expected zero snapshot, got %+v", snap)
	}
}

func TestWindowConcurrentRecord(t *testing.T) {
	w := NewWindow(time.Hour)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Record(int64(i), i%2 == 0)
		}()
	}
	wg.Wait()
	if snap := w.Snapshot(); snap.Count != 20 || snap.Failures != 10 {
		t.Fatalf("expected count=20 failures=10, got count=%d failures=%d", snap.Count, snap.Failures)
	}
}

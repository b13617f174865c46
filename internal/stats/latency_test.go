package stats

import (
	"testing"
	"time"
)

func TestSnapshotEmpty(t *testing.T) {
	tr := NewTracker(8)
	snap := tr.Snapshot()
	if snap.Count != 0 || snap.Mean != 0 {
		t.Fatalf("unexpected snapshot for empty tracker: %+v", snap)
	}
}

func TestSnapshotSummary(t *testing.T) {
	tr := NewTracker(16)
	for _, d := range []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 30 * time.Millisecond, 40 * time.Millisecond} {
		tr.Add(d)
	}
	snap := tr.Snapshot()
	if snap.Count != 4 {
		t.Fatalf("count = %d", snap.Count)
	}
	if snap.Max != 40*time.Millisecond {
		t.Fatalf("max = %s", snap.Max)
	}
	if snap.Mean < 24*time.Millisecond || snap.Mean > 26*time.Millisecond {
		t.Fatalf("mean = %s", snap.Mean)
	}
	if snap.P50 < 10*time.Millisecond || snap.P50 > 30*time.Millisecond {
		t.Fatalf("p50 = %s", snap.P50)
	}
}

func TestWindowEviction(t *testing.T) {
	tr := NewTracker(4)
	for i := 0; i < 10; i++ {
		tr.Add(time.Duration(i+1) * time.Millisecond)
	}
	snap := tr.Snapshot()
	if snap.Count != 4 {
		t.Fatalf("count = %d, want the window size", snap.Count)
	}
	// Only the latest four samples (7..10ms) remain.
	if snap.Max != 10*time.Millisecond {
		t.Fatalf("max = %s", snap.Max)
	}
	if snap.Mean < 8*time.Millisecond || snap.Mean > 9*time.Millisecond {
		t.Fatalf("mean = %s", snap.Mean)
	}
}

func TestDefaultWindow(t *testing.T) {
	tr := NewTracker(0)
	tr.Add(time.Millisecond)
	if tr.Snapshot().Count != 1 {
		t.Fatalf("sample not recorded")
	}
}

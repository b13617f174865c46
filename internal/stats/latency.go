// Package stats keeps a bounded window of send latencies and summarizes it.
package stats

import (
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"
)

// defaultWindow is the number of samples retained when none is configured.
const defaultWindow = 1024

// Tracker records send durations in a fixed-size ring. Safe for concurrent
// use by the worker pool.
type Tracker struct {
	mu      sync.Mutex
	samples []float64
	next    int
	full    bool
}

// Snapshot is a summary of the retained latency window.
type Snapshot struct {
	Count int
	Mean  time.Duration
	P50   time.Duration
	P95   time.Duration
	P99   time.Duration
	Max   time.Duration
}

// NewTracker creates a tracker retaining up to window samples. A
// non-positive window selects the default.
func NewTracker(window int) *Tracker {
	if window <= 0 {
		window = defaultWindow
	}
	return &Tracker{samples: make([]float64, window)}
}

// Add records one send duration, evicting the oldest sample once the window
// is full.
func (t *Tracker) Add(d time.Duration) {
	t.mu.Lock()
	t.samples[t.next] = d.Seconds()
	t.next++
	if t.next == len(t.samples) {
		t.next = 0
		t.full = true
	}
	t.mu.Unlock()
}

// Snapshot summarizes the current window.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	n := t.next
	if t.full {
		n = len(t.samples)
	}
	window := append([]float64(nil), t.samples[:n]...)
	t.mu.Unlock()

	if len(window) == 0 {
		return Snapshot{}
	}
	sort.Float64s(window)
	return Snapshot{
		Count: len(window),
		Mean:  seconds(stat.Mean(window, nil)),
		P50:   seconds(stat.Quantile(0.5, stat.Empirical, window, nil)),
		P95:   seconds(stat.Quantile(0.95, stat.Empirical, window, nil)),
		P99:   seconds(stat.Quantile(0.99, stat.Empirical, window, nil)),
		Max:   seconds(window[len(window)-1]),
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Package stats collects invocation timing statistics for bench mode.
package stats

import (
	"sync"
	"time"

	"github.com/influxdata/tdigest"
)

// Recorder accumulates per-invocation durations and outcome counts
// across a bench run. Durations go into a t-digest so quantiles stay
// cheap regardless of how many runs are recorded.
type Recorder struct {
	mu       sync.Mutex
	digest   *tdigest.TDigest
	outcomes map[string]int
	total    int
	min      time.Duration
	max      time.Duration
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		// ~100 centroids, plenty of resolution for p50/p95/p99
		digest:   tdigest.NewWithCompression(100),
		outcomes: make(map[string]int),
	}
}

// Record adds one invocation to the recorder.
func (r *Recorder) Record(outcome string, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.outcomes[outcome]++
	r.digest.Add(elapsed.Seconds(), 1)

	if r.total == 0 || elapsed < r.min {
		r.min = elapsed
	}
	if elapsed > r.max {
		r.max = elapsed
	}
	r.total++
}

// Quantile returns the duration at quantile q (0..1), or 0 when
// nothing has been recorded.
func (r *Recorder) Quantile(q float64) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.total == 0 {
		return 0
	}
	return time.Duration(r.digest.Quantile(q) * float64(time.Second))
}

// Total returns the number of recorded invocations.
func (r *Recorder) Total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}

// Count returns how many invocations ended with the given outcome.
func (r *Recorder) Count(outcome string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outcomes[outcome]
}

// Outcomes returns a copy of the outcome counts.
func (r *Recorder) Outcomes() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]int, len(r.outcomes))
	for k, v := range r.outcomes {
		out[k] = v
	}
	return out
}

// Min returns the shortest recorded duration, or 0 when empty.
func (r *Recorder) Min() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.min
}

// Max returns the longest recorded duration, or 0 when empty.
func (r *Recorder) Max() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.max
}

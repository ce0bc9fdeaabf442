// Package aggregate owns the shared progress counters and the result log.
//
// All mutation goes through Record and all reads through Snapshot or
// Findings; no caller ever holds a mutable reference to the internals. This
// keeps the invariant tried == succeeded + failed + indeterminate observable
// at every point between calls.
package aggregate

import (
	"sync"
	"time"

	"github.com/mwalsh/harrier/internal/models"
)

// Snapshot is a consistent point-in-time copy of the counters plus derived
// progress fields. It is never mutated after creation.
type Snapshot struct {
	Total         int
	Tried         int
	Succeeded     int
	Failed        int
	Indeterminate int
	Elapsed       time.Duration
	Remaining     time.Duration
	Percent       float64
}

// Aggregator accumulates task results under a single mutex.
type Aggregator struct {
	mu            sync.Mutex
	total         int
	tried         int
	succeeded     int
	failed        int
	indeterminate int
	start         time.Time
	findings      []models.Finding
}

// New creates an empty Aggregator. SetTotal must be called before dispatch
// begins; it also stamps the run start time.
func New() *Aggregator {
	return &Aggregator{}
}

// SetTotal records the number of targets in the run and starts the clock.
func (a *Aggregator) SetTotal(n int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.total = n
	a.start = time.Now()
}

// Record consumes one task result: tried is incremented together with exactly
// one of succeeded/failed/indeterminate, and success findings are appended to
// the result log in completion order.
func (a *Aggregator) Record(res models.TaskResult) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.tried++
	switch res.Outcome {
	case models.OutcomeSuccess:
		a.succeeded++
		a.findings = append(a.findings, res.Findings...)
	case models.OutcomeFailure:
		a.failed++
	default:
		a.indeterminate++
	}
}

// Snapshot returns a consistent copy of the counters with derived fields.
//
// Remaining is a linear-rate projection, elapsed/max(1,tried) scaled by the
// targets left. It is a heuristic for operator messages, not a guarantee.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap := Snapshot{
		Total:         a.total,
		Tried:         a.tried,
		Succeeded:     a.succeeded,
		Failed:        a.failed,
		Indeterminate: a.indeterminate,
	}

	if !a.start.IsZero() {
		snap.Elapsed = time.Since(a.start)
	}

	tried := a.tried
	if tried < 1 {
		tried = 1
	}
	left := a.total - a.tried
	if left < 0 {
		left = 0
	}
	snap.Remaining = time.Duration(float64(snap.Elapsed) / float64(tried) * float64(left))

	if a.total > 0 {
		snap.Percent = float64(a.tried) / float64(a.total) * 100
	}

	return snap
}

// Findings returns a copy of the success log in completion order.
func (a *Aggregator) Findings() []models.Finding {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]models.Finding, len(a.findings))
	copy(out, a.findings)
	return out
}

// Package dispatch implements the bounded concurrent task pool at the core of
// harrier: one runner invocation per target, a global concurrency cap, a
// per-task timeout, and results streamed back in completion order.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mwalsh/harrier/internal/models"
)

// Runner executes one unit of work for a single target. Implementations must
// contain their own faults: every error path maps to a TaskResult outcome,
// never a panic or a returned error.
type Runner interface {
	Run(ctx context.Context, target models.Target) models.TaskResult
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, target models.Target) models.TaskResult

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, target models.Target) models.TaskResult {
	return f(ctx, target)
}

// Logger is the optional logging surface the dispatcher uses.
type Logger interface {
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

// Dispatcher fans a target list out over a bounded worker pool.
type Dispatcher struct {
	// MaxConcurrency is the number of tasks in flight at steady state.
	// Values below 1 are clamped to the target count.
	MaxConcurrency int

	// TaskTimeout bounds each runner invocation. Zero means no timeout.
	TaskTimeout time.Duration

	// Logger is optional; nil disables logging.
	Logger Logger
}

// Dispatch launches one task per target and returns a channel of results in
// completion order. The channel is closed once every target has produced
// exactly one result: the multiset of result targets always equals the
// multiset of inputs.
//
// One target's failure, timeout, or panic never blocks or cancels the others.
// Cancelling ctx stops new launches and drains in-flight tasks; targets never
// launched are reported as indeterminate so the multiset property holds.
func (d *Dispatcher) Dispatch(ctx context.Context, targets []models.Target, r Runner) (<-chan models.TaskResult, error) {
	if r == nil {
		return nil, fmt.Errorf("dispatch: runner is required")
	}

	maxConcurrency := d.MaxConcurrency
	if maxConcurrency <= 0 || maxConcurrency > len(targets) {
		maxConcurrency = len(targets)
	}
	if maxConcurrency == 0 {
		maxConcurrency = 1
	}

	semaphore := make(chan struct{}, maxConcurrency)
	results := make(chan models.TaskResult, len(targets))

	var wg sync.WaitGroup

	go func() {
		defer close(results)

		for _, target := range targets {
			select {
			case <-ctx.Done():
				// Batch cancellation: account for the unlaunched target,
				// keep draining the ones already running.
				results <- models.TaskResult{
					Target:  target,
					Outcome: models.OutcomeIndeterminate,
					Err:     ctx.Err(),
				}
				continue
			case semaphore <- struct{}{}:
			}

			wg.Add(1)
			go func(target models.Target) {
				defer wg.Done()
				defer func() { <-semaphore }()

				results <- d.runOne(ctx, target, r)
			}(target)
		}

		wg.Wait()
	}()

	return results, nil
}

// runOne executes a single task with its own timeout context and converts
// every failure mode the runner did not already handle into a typed result.
func (d *Dispatcher) runOne(ctx context.Context, target models.Target, r Runner) (result models.TaskResult) {
	taskCtx := ctx
	var cancel context.CancelFunc
	if d.TaskTimeout > 0 {
		taskCtx, cancel = context.WithTimeout(ctx, d.TaskTimeout)
		defer cancel()
	}

	start := time.Now()

	// A panicking runner must not take the batch down with it.
	defer func() {
		if rec := recover(); rec != nil {
			if d.Logger != nil {
				d.Logger.Warnf("task %s panicked: %v", target, rec)
			}
			result = models.TaskResult{
				Target:   target,
				Outcome:  models.OutcomeIndeterminate,
				Duration: time.Since(start),
				Err:      fmt.Errorf("task panicked: %v", rec),
			}
		}
	}()

	result = r.Run(taskCtx, target)
	if result.Target == "" {
		result.Target = target
	}
	if result.Duration == 0 {
		result.Duration = time.Since(start)
	}

	// A task that outlived its deadline never counts as decided, whatever
	// the runner managed to salvage.
	if errors.Is(taskCtx.Err(), context.DeadlineExceeded) {
		if d.Logger != nil {
			d.Logger.Debugf("task %s timed out after %v", target, d.TaskTimeout)
		}
		result.Outcome = models.OutcomeIndeterminate
		result.Findings = nil
		if result.Err == nil {
			result.Err = context.DeadlineExceeded
		}
	}

	return result
}

package runner

import (
	"context"
	"strconv"
	"time"

	"github.com/mwalsh/harrier/internal/models"
	"github.com/mwalsh/harrier/internal/probe"
)

// VerifyRunner performs the second-stage liveness check of the scan pipeline:
// each open-port candidate becomes one dispatched task whose verdict is a
// plain connect success or failure.
type VerifyRunner struct {
	// Prober performs the bounded TCP connect check.
	Prober *probe.Prober

	// Service tags findings with the service class under scan.
	Service models.Service

	// Ports maps each candidate target to the open port reported for it.
	Ports map[models.Target]int
}

// Run implements dispatch.Runner. An unknown target or a failed connect is a
// Failure; verification has no indeterminate states of its own beyond the
// dispatcher's timeout handling.
func (v *VerifyRunner) Run(ctx context.Context, target models.Target) models.TaskResult {
	start := time.Now()

	port, ok := v.Ports[target]
	if !ok {
		return models.TaskResult{
			Target:   target,
			Outcome:  models.OutcomeFailure,
			Duration: time.Since(start),
		}
	}

	if !v.Prober.Alive(ctx, target.String(), port) {
		return models.TaskResult{
			Target:   target,
			Outcome:  models.OutcomeFailure,
			Duration: time.Since(start),
		}
	}

	return models.TaskResult{
		Target:  target,
		Outcome: models.OutcomeSuccess,
		Findings: []models.Finding{{
			Target:  target,
			Service: v.Service,
			Detail: map[string]string{
				"ip":   target.String(),
				"port": strconv.Itoa(port),
			},
			Time: time.Now(),
		}},
		Duration: time.Since(start),
	}
}

package models

import "time"

// Task outcome constants
const (
	OutcomeSuccess       = "SUCCESS"       // Task produced at least one confirmed finding
	OutcomeFailure       = "FAILURE"       // Task completed with no finding
	OutcomeIndeterminate = "INDETERMINATE" // Timeout, spawn failure, or other local error
)

// Finding is one confirmed success detail for a target: a working credential
// pair for brute sweeps, or a verified open port for scan sweeps.
type Finding struct {
	Target  Target            `json:"target"`
	Service Service           `json:"service"`
	Detail  map[string]string `json:"detail"`
	Time    time.Time         `json:"time"`
}

// TaskResult represents the outcome of one dispatched task. It is created by
// the task runner, consumed exactly once by the aggregator, and immutable
// thereafter.
type TaskResult struct {
	Target   Target
	Outcome  string
	Findings []Finding // Non-empty only when Outcome is OutcomeSuccess
	Duration time.Duration
	Err      error // Retained for logging; never escalates past the runner
}

// RunSummary is the structured record persisted at the end of a session.
type RunSummary struct {
	RunID         string    `json:"run_id"`
	Timestamp     time.Time `json:"run_timestamp"`
	Kind          string    `json:"operation_kind"`
	Service       Service   `json:"service"`
	Total         int       `json:"total"`
	Candidates    int       `json:"candidates"`
	Confirmed     int       `json:"confirmed"`
	ConfirmedList []string  `json:"confirmed_list"`
	Findings      []Finding `json:"findings,omitempty"`
}

// Package session composes the dispatch pipeline: load inputs, start the
// progress reporter, drive the dispatcher to completion, feed the aggregator,
// emit the final report, and persist results.
package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/mwalsh/harrier/internal/aggregate"
	"github.com/mwalsh/harrier/internal/config"
	"github.com/mwalsh/harrier/internal/fileutil"
	"github.com/mwalsh/harrier/internal/logger"
	"github.com/mwalsh/harrier/internal/models"
	"github.com/mwalsh/harrier/internal/report"
	"github.com/mwalsh/harrier/internal/store"
)

// Run kinds recorded in summaries and the history database.
const (
	KindScan  = "scan"
	KindBrute = "brute"
)

// Options carries the collaborators shared by both session kinds.
type Options struct {
	// Config is the merged, validated configuration.
	Config *config.Config

	// Logger receives console output. Nil disables logging.
	Logger *logger.ConsoleLogger

	// Notifier receives progress and summary messages.
	Notifier report.Notifier

	// Results writes end-of-run artifacts.
	Results store.Results

	// History records completed runs. Nil disables history.
	History *store.History
}

// loadTargets reads and validates the target list. An unreadable or empty
// list is a fatal input error reported before any dispatch.
func loadTargets(path string) ([]models.Target, error) {
	lines, err := fileutil.ReadLines(path)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, &EmptyInputError{Path: path}
	}

	targets := make([]models.Target, 0, len(lines))
	for _, line := range lines {
		targets = append(targets, models.Target(line))
	}
	return targets, nil
}

// EmptyInputError indicates a target list with no usable entries.
type EmptyInputError struct {
	Path string
}

// Error implements the error interface.
func (e *EmptyInputError) Error() string {
	return "target list is empty: " + e.Path
}

// finish emits the final notification, persists artifacts, and records the
// run in the history database. Persistence errors are returned; history and
// notification failures are logged and swallowed.
func finish(opts Options, kind string, service models.Service, agg *aggregate.Aggregator, total, candidates int) (*models.RunSummary, error) {
	snap := agg.Snapshot()
	findings := agg.Findings()

	opts.Notifier.Send(report.FinalMessage(kind, snap, findings))

	confirmed := confirmedTargets(findings)
	sum := &models.RunSummary{
		RunID:         uuid.NewString(),
		Timestamp:     time.Now(),
		Kind:          kind,
		Service:       service,
		Total:         total,
		Candidates:    candidates,
		Confirmed:     len(confirmed),
		ConfirmedList: confirmed,
		Findings:      findings,
	}

	listPath, jsonPath, err := opts.Results.Save(*sum)
	if err != nil {
		return nil, err
	}
	if opts.Logger != nil {
		opts.Logger.Infof("results saved to %s and %s", listPath, jsonPath)
	}

	if opts.History != nil {
		if err := opts.History.RecordRun(*sum, snap.Elapsed); err != nil {
			if opts.Logger != nil {
				opts.Logger.Warnf("failed to record run history: %v", err)
			}
		}
	}

	return sum, nil
}

// confirmedTargets returns the unique targets with at least one finding, in
// first-confirmation order.
func confirmedTargets(findings []models.Finding) []string {
	seen := make(map[models.Target]bool, len(findings))
	confirmed := make([]string, 0, len(findings))
	for _, f := range findings {
		if seen[f.Target] {
			continue
		}
		seen[f.Target] = true
		confirmed = append(confirmed, f.Target.String())
	}
	return confirmed
}

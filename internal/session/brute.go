package session

import (
	"context"

	"github.com/mwalsh/harrier/internal/aggregate"
	"github.com/mwalsh/harrier/internal/dispatch"
	"github.com/mwalsh/harrier/internal/fileutil"
	"github.com/mwalsh/harrier/internal/models"
	"github.com/mwalsh/harrier/internal/report"
	"github.com/mwalsh/harrier/internal/runner"
)

// BruteParams configures one credential brute-force session.
type BruteParams struct {
	// Service selects the tool and URI scheme.
	Service models.Service

	// TargetsFile is the newline-delimited target list.
	TargetsFile string

	// Username is the login name tried against every target.
	Username string

	// PasswordFile is the newline-delimited password list.
	PasswordFile string

	// Runner overrides the external-tool runner when non-nil.
	Runner dispatch.Runner
}

// RunBrute executes a brute-force sweep end to end and returns the run
// summary. Input validation failures and missing tools abort before any
// dispatch; per-target faults are absorbed into the counters.
func RunBrute(ctx context.Context, opts Options, p BruteParams) (*models.RunSummary, error) {
	if err := fileutil.RequireFile(p.PasswordFile); err != nil {
		return nil, err
	}
	targets, err := loadTargets(p.TargetsFile)
	if err != nil {
		return nil, err
	}

	taskRunner := p.Runner
	if taskRunner == nil {
		toolName := runner.ToolHydra
		if p.Service == models.ServiceRDP {
			toolName = runner.ToolNcrack
		}
		tools, err := runner.ResolveTools(opts.Config.Tools, toolName)
		if err != nil {
			return nil, err
		}
		tool := tools.Hydra
		if p.Service == models.ServiceRDP {
			tool = tools.Ncrack
		}
		taskRunner = &runner.BruteRunner{
			Tool:         tool,
			Service:      p.Service,
			Username:     p.Username,
			PasswordFile: p.PasswordFile,
			Logger:       opts.Logger,
		}
	}

	if opts.Logger != nil {
		opts.Logger.Infof("starting brute sweep: service=%s targets=%d user=%s",
			p.Service, len(targets), p.Username)
	}

	agg := aggregate.New()
	agg.SetTotal(len(targets))

	reporter := report.NewReporter(agg, opts.Notifier, opts.Config.ReportInterval, opts.Logger)
	reporter.Start()
	defer reporter.Stop()

	opts.Notifier.Send(report.StartMessage(KindBrute, p.Service, len(targets)))

	dispatcher := &dispatch.Dispatcher{
		MaxConcurrency: opts.Config.MaxConcurrency,
		TaskTimeout:    opts.Config.TaskTimeout,
		Logger:         opts.Logger,
	}
	results, err := dispatcher.Dispatch(ctx, targets, taskRunner)
	if err != nil {
		return nil, err
	}

	for res := range results {
		agg.Record(res)
		if res.Outcome == models.OutcomeSuccess {
			for _, f := range res.Findings {
				if opts.Logger != nil {
					opts.Logger.Infof("credentials found for %s: %s", f.Target, f.Detail["username"])
				}
				opts.Notifier.Send(report.SuccessAlert(f))
			}
		}
	}

	reporter.Stop()

	return finish(opts, KindBrute, p.Service, agg, len(targets), len(targets))
}

package session

import (
	"context"

	"github.com/mwalsh/harrier/internal/aggregate"
	"github.com/mwalsh/harrier/internal/classify"
	"github.com/mwalsh/harrier/internal/dispatch"
	"github.com/mwalsh/harrier/internal/models"
	"github.com/mwalsh/harrier/internal/probe"
	"github.com/mwalsh/harrier/internal/report"
	"github.com/mwalsh/harrier/internal/runner"
)

// PortScanner is the first-stage scan collaborator.
type PortScanner interface {
	Scan(ctx context.Context, targets []models.Target, port int) ([]classify.OpenPort, error)
}

// ScanParams configures one scan-and-verify session.
type ScanParams struct {
	// Service selects the port to scan and the service class to verify.
	Service models.Service

	// TargetsFile is the newline-delimited target list.
	TargetsFile string

	// Scanner overrides the masscan collaborator when non-nil.
	Scanner PortScanner

	// Verifier overrides the liveness-check runner when non-nil.
	Verifier dispatch.Runner
}

// RunScan executes a scan sweep end to end: one port-scan pass over the whole
// list, then a dispatched liveness verification per open-port candidate.
func RunScan(ctx context.Context, opts Options, p ScanParams) (*models.RunSummary, error) {
	targets, err := loadTargets(p.TargetsFile)
	if err != nil {
		return nil, err
	}

	scanner := p.Scanner
	if scanner == nil {
		tools, err := runner.ResolveTools(opts.Config.Tools, runner.ToolMasscan)
		if err != nil {
			return nil, err
		}
		scanner = &runner.PortScanner{
			Tool:    tools.Masscan,
			Rate:    opts.Config.ScanRate,
			Timeout: opts.Config.ScanTimeout,
			Logger:  opts.Logger,
		}
	}

	if opts.Logger != nil {
		opts.Logger.Infof("starting scan sweep: service=%s targets=%d port=%d",
			p.Service, len(targets), p.Service.Port())
	}

	opts.Notifier.Send(report.StartMessage(KindScan, p.Service, len(targets)))

	candidates, err := scanner.Scan(ctx, targets, p.Service.Port())
	if err != nil {
		return nil, err
	}
	if opts.Logger != nil {
		opts.Logger.Infof("port scan found %d candidate(s)", len(candidates))
	}

	// One verification task per candidate. Targets without open ports fall
	// out of the pipeline here.
	candidateTargets := make([]models.Target, 0, len(candidates))
	ports := make(map[models.Target]int, len(candidates))
	for _, c := range candidates {
		t := models.Target(c.IP)
		if _, dup := ports[t]; dup {
			continue
		}
		ports[t] = c.Port
		candidateTargets = append(candidateTargets, t)
	}

	agg := aggregate.New()
	agg.SetTotal(len(candidateTargets))

	reporter := report.NewReporter(agg, opts.Notifier, opts.Config.ReportInterval, opts.Logger)
	reporter.Start()
	defer reporter.Stop()

	if len(candidateTargets) > 0 {
		verifier := p.Verifier
		if verifier == nil {
			verifier = &runner.VerifyRunner{
				Prober:  &probe.Prober{Timeout: opts.Config.ProbeTimeout},
				Service: p.Service,
				Ports:   ports,
			}
		}

		dispatcher := &dispatch.Dispatcher{
			MaxConcurrency: opts.Config.MaxConcurrency,
			TaskTimeout:    opts.Config.TaskTimeout,
			Logger:         opts.Logger,
		}
		results, err := dispatcher.Dispatch(ctx, candidateTargets, verifier)
		if err != nil {
			return nil, err
		}

		for res := range results {
			agg.Record(res)
			if res.Outcome == models.OutcomeSuccess && opts.Logger != nil {
				opts.Logger.Infof("verified: %s", res.Target)
			}
		}
	}

	reporter.Stop()

	return finish(opts, KindScan, p.Service, agg, len(targets), len(candidateTargets))
}

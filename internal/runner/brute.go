package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/mwalsh/harrier/internal/classify"
	"github.com/mwalsh/harrier/internal/models"
)

// Logger is the optional logging surface runners use.
type Logger interface {
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

// BruteRunner runs one credential brute-force attempt per target using the
// service's external tool (hydra for ssh, ncrack for rdp). The tool writes
// its hits to a per-invocation artifact file which is read, classified, and
// removed on every exit path.
type BruteRunner struct {
	// Tool is the resolved binary path for the service.
	Tool string

	// Service selects the command shape and the URI scheme.
	Service models.Service

	// Username is the single login name tried against every target.
	Username string

	// PasswordFile is the path to the newline-delimited password list.
	PasswordFile string

	// ArtifactDir is where per-invocation output files are created.
	// Empty means the system temp directory.
	ArtifactDir string

	// Logger is optional; nil disables logging.
	Logger Logger
}

// Run implements dispatch.Runner. The subprocess is bounded by ctx; on
// deadline expiry the process is killed and the task is indeterminate. An
// absent or empty artifact is a Failure, not an error.
func (r *BruteRunner) Run(ctx context.Context, target models.Target) models.TaskResult {
	start := time.Now()
	result := func(outcome string, findings []models.Finding, err error) models.TaskResult {
		return models.TaskResult{
			Target:   target,
			Outcome:  outcome,
			Findings: findings,
			Duration: time.Since(start),
			Err:      err,
		}
	}

	artifact := r.artifactPath(target)
	defer os.Remove(artifact)

	args, err := r.commandArgs(target, artifact)
	if err != nil {
		return result(models.OutcomeIndeterminate, nil, err)
	}

	cmd := exec.CommandContext(ctx, r.Tool, args...)
	output, runErr := cmd.CombinedOutput()

	if r.Logger != nil {
		r.Logger.Debugf("%s %s finished in %v (output %d bytes)",
			filepath.Base(r.Tool), target, time.Since(start).Round(time.Millisecond), len(output))
	}

	// Deadline expiry means the tool was killed mid-flight: no verdict.
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return result(models.OutcomeIndeterminate, nil, ctx.Err())
	}

	raw, readErr := os.ReadFile(artifact)
	if readErr != nil || len(raw) == 0 {
		// The tools exit non-zero for plenty of benign reasons; the
		// artifact is the signal. No artifact, no credentials.
		if runErr != nil {
			if r.Logger != nil {
				r.Logger.Debugf("%s %s: %v", filepath.Base(r.Tool), target, runErr)
			}
			if _, ok := runErr.(*exec.ExitError); !ok {
				// Spawn failure rather than tool verdict.
				return result(models.OutcomeIndeterminate, nil, runErr)
			}
		}
		return result(models.OutcomeFailure, nil, nil)
	}

	findings := classify.Credentials(string(raw), r.Service, target)
	if len(findings) == 0 {
		return result(models.OutcomeFailure, nil, nil)
	}
	return result(models.OutcomeSuccess, findings, nil)
}

// artifactPath builds the per-invocation output file path, with the target
// sanitized for use in a filename.
func (r *BruteRunner) artifactPath(target models.Target) string {
	dir := r.ArtifactDir
	if dir == "" {
		dir = os.TempDir()
	}
	safe := strings.NewReplacer(".", "_", ":", "_", "/", "_").Replace(target.String())
	return filepath.Join(dir, fmt.Sprintf("harrier_%s_%s.txt", r.Service, safe))
}

// commandArgs builds the tool argv for one target.
func (r *BruteRunner) commandArgs(target models.Target, artifact string) ([]string, error) {
	switch r.Service {
	case models.ServiceSSH:
		return []string{
			"-l", r.Username,
			"-P", r.PasswordFile,
			"-t", "2",
			"-f",
			"-o", artifact,
			"ssh://" + target.String(),
		}, nil
	case models.ServiceRDP:
		return []string{
			"-vv",
			"--user", r.Username,
			"--passwords", r.PasswordFile,
			"rdp://" + target.String(),
			"-oN", artifact,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported service %q", r.Service)
	}
}

package runner

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/mwalsh/harrier/internal/classify"
	"github.com/mwalsh/harrier/internal/models"
)

// PortScanner runs one masscan pass over a whole target list and parses the
// JSON report into open-port candidates.
//
// The scanner is a collaborator, not a verdict: malformed output, a non-zero
// exit, or a timeout all degrade to zero candidates with a warning. Only the
// inability to write the target list is reported as an error.
type PortScanner struct {
	// Tool is the resolved masscan binary path.
	Tool string

	// Rate is the packet rate passed via --rate.
	Rate int

	// Timeout bounds the whole scan subprocess. Zero means no bound
	// beyond ctx.
	Timeout time.Duration

	// Logger is optional; nil disables logging.
	Logger Logger
}

// Scan writes targets to a temp list file, invokes masscan against the given
// port, and returns the recovered open-port candidates. The temp file is
// removed on all exit paths.
func (s *PortScanner) Scan(ctx context.Context, targets []models.Target, port int) ([]classify.OpenPort, error) {
	if len(targets) == 0 {
		return nil, nil
	}

	listFile, err := s.writeTargetList(targets)
	if err != nil {
		return nil, err
	}
	defer os.Remove(listFile)

	scanCtx := ctx
	var cancel context.CancelFunc
	if s.Timeout > 0 {
		scanCtx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	args := []string{
		"-iL", listFile,
		"-p", strconv.Itoa(port),
		"--rate", strconv.Itoa(s.Rate),
		"--wait", "0",
		"-oJ", "-",
	}

	cmd := exec.CommandContext(scanCtx, s.Tool, args...)
	output, runErr := cmd.Output()
	if runErr != nil {
		if s.Logger != nil {
			s.Logger.Warnf("port scan failed: %v", runErr)
		}
		// Partial stdout can still hold recoverable entries.
	}

	candidates := classify.OpenPorts(output)
	if s.Logger != nil {
		s.Logger.Debugf("port scan reported %d open-port candidate(s) across %d target(s)",
			len(candidates), len(targets))
	}
	return candidates, nil
}

// writeTargetList writes targets to a temp file for masscan's -iL flag.
func (s *PortScanner) writeTargetList(targets []models.Target) (string, error) {
	f, err := os.CreateTemp("", "harrier_targets_*.txt")
	if err != nil {
		return "", fmt.Errorf("failed to create target list file: %w", err)
	}

	for _, t := range targets {
		if _, err := fmt.Fprintln(f, t); err != nil {
			f.Close()
			os.Remove(f.Name())
			return "", fmt.Errorf("failed to write target list: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to close target list: %w", err)
	}
	return f.Name(), nil
}

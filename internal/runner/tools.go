// Package runner executes the external tool invocations behind each task.
//
// Every failure mode inside a runner maps to exactly one typed outcome;
// nothing escapes to the dispatcher as an error or panic. Tool binaries are
// resolved once at startup, with PATH fallback when the configured path does
// not exist.
package runner

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/mwalsh/harrier/internal/config"
)

// ToolUnavailableError indicates a required external binary could not be
// found at its configured path or on PATH. It is fatal: the run aborts
// before any dispatch.
type ToolUnavailableError struct {
	Tool string
	Path string
}

// Error implements the error interface.
func (e *ToolUnavailableError) Error() string {
	return fmt.Sprintf("required tool %q not found at %s or on PATH", e.Tool, e.Path)
}

// Toolchain holds the resolved absolute paths of the external tools a
// session needs.
type Toolchain struct {
	Hydra   string
	Ncrack  string
	Masscan string
}

// Tool names accepted by ResolveTools.
const (
	ToolHydra   = "hydra"
	ToolNcrack  = "ncrack"
	ToolMasscan = "masscan"
)

// ResolveTools resolves the named tools from the configured paths, falling
// back to PATH lookup. Only the requested tools are resolved; a missing
// requested tool yields ToolUnavailableError.
func ResolveTools(cfg config.ToolsConfig, names ...string) (Toolchain, error) {
	var tc Toolchain
	for _, name := range names {
		var configured string
		var dst *string
		switch name {
		case ToolHydra:
			configured, dst = cfg.Hydra, &tc.Hydra
		case ToolNcrack:
			configured, dst = cfg.Ncrack, &tc.Ncrack
		case ToolMasscan:
			configured, dst = cfg.Masscan, &tc.Masscan
		default:
			return tc, fmt.Errorf("unknown tool %q", name)
		}

		path, err := resolveTool(name, configured)
		if err != nil {
			return tc, err
		}
		*dst = path
	}
	return tc, nil
}

// resolveTool returns the configured path if it exists, otherwise falls back
// to PATH discovery.
func resolveTool(name, configured string) (string, error) {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured, nil
		}
	}
	if path, err := exec.LookPath(name); err == nil {
		return path, nil
	}
	return "", &ToolUnavailableError{Tool: name, Path: configured}
}

// Package store persists run results: plain and structured artifacts at run
// end, plus a SQLite run history database.
package store

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mwalsh/harrier/internal/filelock"
	"github.com/mwalsh/harrier/internal/models"
)

// Results writes the end-of-run artifacts into a directory: a plain
// newline-delimited list of confirmed targets and a structured JSON summary.
// Writes are locked and atomic so concurrent runs never corrupt each other.
type Results struct {
	// Dir is the output directory, created on demand.
	Dir string
}

// Save writes both artifacts for a completed run and returns their paths.
// An empty confirmed list still produces an (empty) list file.
func (s Results) Save(sum models.RunSummary) (listPath, jsonPath string, err error) {
	stamp := sum.Timestamp.Format("20060102_150405")
	listPath = filepath.Join(s.Dir, fmt.Sprintf("%s_confirmed_%s.txt", sum.Kind, stamp))
	jsonPath = filepath.Join(s.Dir, fmt.Sprintf("%s_summary_%s.json", sum.Kind, stamp))

	var list strings.Builder
	for _, target := range sum.ConfirmedList {
		list.WriteString(target)
		list.WriteString("\n")
	}
	if err := filelock.LockAndWrite(listPath, []byte(list.String())); err != nil {
		return "", "", fmt.Errorf("failed to write confirmed list: %w", err)
	}

	data, err := json.MarshalIndent(sum, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("failed to encode summary: %w", err)
	}
	if err := filelock.LockAndWrite(jsonPath, data); err != nil {
		return "", "", fmt.Errorf("failed to write summary: %w", err)
	}

	return listPath, jsonPath, nil
}

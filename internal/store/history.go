package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mwalsh/harrier/internal/models"
)

//go:embed schema.sql
var schemaSQL string

// RunRecord is one row of the run history.
type RunRecord struct {
	ID         int64
	RunID      string
	Kind       string
	Service    string
	Total      int
	Candidates int
	Confirmed  int
	Duration   time.Duration
	CreatedAt  time.Time
}

// History manages the SQLite run history database.
type History struct {
	db     *sql.DB
	dbPath string
}

// OpenHistory opens (or creates) the run history database and initializes
// the schema. The parent directory is created if needed.
func OpenHistory(dbPath string) (*History, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// busy_timeout first so the remaining pragmas wait on locks held by a
	// concurrent run instead of failing.
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &History{db: db, dbPath: dbPath}, nil
}

// RecordRun inserts one completed run into the history.
func (h *History) RecordRun(sum models.RunSummary, duration time.Duration) error {
	_, err := h.db.Exec(`
		INSERT INTO runs (run_id, kind, service, total, candidates, confirmed, duration_secs)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sum.RunID, sum.Kind, string(sum.Service), sum.Total, sum.Candidates, sum.Confirmed,
		int64(duration.Seconds()),
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (h *History) ListRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := h.db.Query(`
		SELECT id, run_id, kind, service, total, candidates, confirmed, duration_secs, created_at
		FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var durationSecs int64
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.Kind, &rec.Service, &rec.Total,
			&rec.Candidates, &rec.Confirmed, &durationSecs, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.Duration = time.Duration(durationSecs) * time.Second
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return records, nil
}

// Close closes the database.
func (h *History) Close() error {
	return h.db.Close()
}

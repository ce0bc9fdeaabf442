package store

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwalsh/harrier/internal/models"
)

func openTestHistory(t *testing.T) *History {
	t.Helper()
	h, err := OpenHistory(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h
}

func TestOpenHistoryCreatesParentDir(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", ".harrier", "history.db")

	h, err := OpenHistory(dbPath)
	require.NoError(t, err)
	defer h.Close()

	runs, err := h.ListRuns(5)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestRecordAndListRuns(t *testing.T) {
	h := openTestHistory(t)

	sum := models.RunSummary{
		RunID:      "run-abc",
		Kind:       "scan",
		Service:    models.ServiceRDP,
		Total:      50,
		Candidates: 8,
		Confirmed:  3,
	}
	require.NoError(t, h.RecordRun(sum, 95*time.Second))

	runs, err := h.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	rec := runs[0]
	assert.Equal(t, "run-abc", rec.RunID)
	assert.Equal(t, "scan", rec.Kind)
	assert.Equal(t, "rdp", rec.Service)
	assert.Equal(t, 50, rec.Total)
	assert.Equal(t, 8, rec.Candidates)
	assert.Equal(t, 3, rec.Confirmed)
	assert.Equal(t, 95*time.Second, rec.Duration)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestListRunsNewestFirst(t *testing.T) {
	h := openTestHistory(t)

	for i := 0; i < 5; i++ {
		sum := models.RunSummary{
			RunID:   fmt.Sprintf("run-%d", i),
			Kind:    "brute",
			Service: models.ServiceSSH,
			Total:   i,
		}
		require.NoError(t, h.RecordRun(sum, time.Second))
	}

	runs, err := h.ListRuns(3)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "run-4", runs[0].RunID)
	assert.Equal(t, "run-3", runs[1].RunID)
	assert.Equal(t, "run-2", runs[2].RunID)
}

func TestListRunsDefaultLimit(t *testing.T) {
	h := openTestHistory(t)

	for i := 0; i < 25; i++ {
		sum := models.RunSummary{RunID: fmt.Sprintf("run-%d", i), Kind: "scan", Service: models.ServiceSSH}
		require.NoError(t, h.RecordRun(sum, 0))
	}

	runs, err := h.ListRuns(0)
	require.NoError(t, err)
	assert.Len(t, runs, 20)
}

func TestOpenHistoryReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	h, err := OpenHistory(dbPath)
	require.NoError(t, err)
	require.NoError(t, h.RecordRun(models.RunSummary{RunID: "persisted", Kind: "scan", Service: models.ServiceSSH}, 0))
	require.NoError(t, h.Close())

	h2, err := OpenHistory(dbPath)
	require.NoError(t, err)
	defer h2.Close()

	runs, err := h2.ListRuns(5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "persisted", runs[0].RunID)
}

package runner

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwalsh/harrier/internal/classify"
	"github.com/mwalsh/harrier/internal/models"
)

func TestScanEmptyTargets(t *testing.T) {
	s := &PortScanner{Tool: "/nonexistent/masscan", Rate: 100}

	candidates, err := s.Scan(context.Background(), nil, 22)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestScanParsesOutput(t *testing.T) {
	dir := t.TempDir()
	script := `cat <<'EOF'
[
{"ip": "10.0.0.1", "ports": [{"port": 22, "proto": "tcp", "status": "open"}]},
{"ip": "10.0.0.2", "ports": [{"port": 22, "proto": "tcp", "status": "open"}]}
]
EOF`
	s := &PortScanner{
		Tool: fakeTool(t, dir, script),
		Rate: 1000,
	}

	candidates, err := s.Scan(context.Background(), []models.Target{"10.0.0.1", "10.0.0.2", "10.0.0.3"}, 22)
	require.NoError(t, err)
	assert.Equal(t, []classify.OpenPort{
		{IP: "10.0.0.1", Port: 22},
		{IP: "10.0.0.2", Port: 22},
	}, candidates)
}

func TestScanToolFailureDegrades(t *testing.T) {
	dir := t.TempDir()
	s := &PortScanner{
		Tool: fakeTool(t, dir, "exit 1"),
		Rate: 1000,
	}

	candidates, err := s.Scan(context.Background(), []models.Target{"10.0.0.1"}, 22)
	require.NoError(t, err, "a failed scan degrades to zero candidates, not an error")
	assert.Empty(t, candidates)
}

func TestScanTimeoutDegrades(t *testing.T) {
	dir := t.TempDir()
	s := &PortScanner{
		Tool:    fakeTool(t, dir, "sleep 5"),
		Rate:    1000,
		Timeout: 100 * time.Millisecond,
	}

	start := time.Now()
	candidates, err := s.Scan(context.Background(), []models.Target{"10.0.0.1"}, 22)
	require.NoError(t, err)
	assert.Empty(t, candidates)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestWriteTargetList(t *testing.T) {
	s := &PortScanner{}

	path, err := s.writeTargetList([]models.Target{"10.0.0.1", "10.0.0.2"})
	require.NoError(t, err)
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1\n10.0.0.2\n", string(data))
}

package main

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-optimizer/internal/types"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestScoreCommand_MissingResumeFlag(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "score", "--job", "job.txt")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "required")
}

func TestScoreCommand_BothJobSourcesRejected(t *testing.T) {
	binaryPath := getBinaryPath(t)
	tmpDir := t.TempDir()
	resumePath := writeTempFile(t, tmpDir, "resume.txt", "Led development of Go services.")
	jobPath := writeTempFile(t, tmpDir, "job.txt", "Looking for a Go engineer.")

	cmd := exec.Command(binaryPath, "score",
		"--resume", resumePath,
		"--job", jobPath,
		"--job-url", "https://example.com/job")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "exactly one")
}

func TestScoreCommand_JSONOutput(t *testing.T) {
	binaryPath := getBinaryPath(t)
	tmpDir := t.TempDir()
	resumePath := writeTempFile(t, tmpDir, "resume.txt",
		"John Smith\njohn@example.com | 555-123-4567 | Austin, TX\n\nLed development of Go microservices. Reduced latency by 40%.")
	jobPath := writeTempFile(t, tmpDir, "job.txt",
		"We need a senior Go engineer to build microservices.")

	cmd := exec.Command(binaryPath, "score",
		"--resume", resumePath,
		"--job", jobPath,
		"--json")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "score failed: %s", output)

	var score types.Score
	require.NoError(t, json.Unmarshal(output, &score))
	assert.Greater(t, score.Overall, 0.0)
	assert.LessOrEqual(t, score.Overall, 100.0)
}

func TestOptimizeCommand_MissingInputsRejected(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "optimize")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "resume")
}

func TestExportCommand_RequiresDatabaseURL(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "export")
	cmd.Env = []string{"PATH=" + os.Getenv("PATH")}
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "DATABASE_URL")
}

package reporter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saaga0h/lux-platform/e2e/internal/scenario"
)

func sampleResult() *scenario.TestResult {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return &scenario.TestResult{
		Scenario:    &scenario.Scenario{Name: "dim-kitchen"},
		StartTime:   start,
		EndTime:     start.Add(1500 * time.Millisecond),
		Passed:      false,
		PassedCount: 1,
		FailedCount: 1,
		Expectations: []scenario.ExpectationResult{
			{
				Expectation: scenario.Expectation{At: 500 * time.Millisecond, Topic: "automation/command/light/kitchen"},
				Passed:      true,
			},
			{
				Expectation: scenario.Expectation{At: time.Second, RedisKey: "lux:room:kitchen", RedisField: "brightness"},
				Reason:      "expected 40, got 60",
			},
		},
	}
}

func TestFormatSummary(t *testing.T) {
	out := FormatSummary(sampleResult())

	assert.Contains(t, out, "Scenario dim-kitchen: FAILED (1 passed, 1 failed, 1.5s)")
	assert.Contains(t, out, "✓ [ 500ms] mqtt automation/command/light/kitchen\n")
	assert.Contains(t, out, "✗ [    1s] redis lux:room:kitchen#brightness: expected 40, got 60\n")
}

func TestSaveSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summaries", "dim-kitchen.json")

	require.NoError(t, SaveSummary(sampleResult(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, false, decoded["passed"])
	assert.Equal(t, 1.0, decoded["failed_count"])
}

package reporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/saaga0h/lux-platform/e2e/internal/scenario"
)

// SaveSummary saves a JSON summary of test results
func SaveSummary(result *scenario.TestResult, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// FormatSummary renders a human-readable report of a scenario run
func FormatSummary(result *scenario.TestResult) string {
	var b strings.Builder

	status := "PASSED"
	if !result.Passed {
		status = "FAILED"
	}
	fmt.Fprintf(&b, "Scenario %s: %s (%d passed, %d failed, %s)\n",
		result.Scenario.Name, status, result.PassedCount, result.FailedCount,
		result.EndTime.Sub(result.StartTime).Round(time.Millisecond))

	for _, r := range result.Expectations {
		mark := "✓"
		if !r.Passed {
			mark = "✗"
		}
		target := r.Expectation.Topic
		if r.Expectation.Kind() == "redis" {
			target = r.Expectation.RedisKey + "#" + r.Expectation.RedisField
		}
		fmt.Fprintf(&b, "  %s [%6s] %s %s", mark, r.Expectation.At, r.Expectation.Kind(), target)
		if r.Reason != "" {
			fmt.Fprintf(&b, ": %s", r.Reason)
		}
		b.WriteString("\n")
	}
	return b.String()
}

package checker

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// Match reports whether actual satisfies expected. Expected strings may be
// matchers: "~pattern~" for a regular expression, or ">n", "<n", ">=n", "<=n"
// for numeric comparison. Maps match when every expected key matches; extra
// actual keys are ignored.
func Match(actual, expected interface{}) error {
	if expected == nil {
		if actual == nil {
			return nil
		}
		return fmt.Errorf("expected nil, got %v", actual)
	}
	if actual == nil {
		return fmt.Errorf("expected %v, got nil", expected)
	}

	if s, ok := expected.(string); ok {
		switch {
		case len(s) > 1 && strings.HasPrefix(s, "~") && strings.HasSuffix(s, "~"):
			return matchRegex(actual, strings.Trim(s, "~"))
		case strings.HasPrefix(s, ">") || strings.HasPrefix(s, "<"):
			return matchComparison(actual, s)
		}
	}

	if isNumber(expected) {
		return matchNumber(actual, expected)
	}

	switch exp := expected.(type) {
	case map[string]interface{}:
		return matchMap(actual, exp)
	case []interface{}:
		return matchSlice(actual, exp)
	}

	if reflect.TypeOf(actual) != reflect.TypeOf(expected) {
		return fmt.Errorf("type mismatch: expected %T, got %T", expected, actual)
	}
	if !reflect.DeepEqual(actual, expected) {
		return fmt.Errorf("expected %v, got %v", expected, actual)
	}
	return nil
}

func matchRegex(actual interface{}, pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid regex pattern %q: %w", pattern, err)
	}

	s := fmt.Sprint(actual)
	if !re.MatchString(s) {
		return fmt.Errorf("value %q does not match pattern ~%s~", s, pattern)
	}
	return nil
}

var comparisonPattern = regexp.MustCompile(`^(>=|<=|>|<)\s*(.+)$`)

func matchComparison(actual interface{}, comparison string) error {
	m := comparisonPattern.FindStringSubmatch(comparison)
	if m == nil {
		return fmt.Errorf("invalid comparison: %s", comparison)
	}

	want, err := strconv.ParseFloat(strings.TrimSpace(m[2]), 64)
	if err != nil {
		return fmt.Errorf("invalid comparison value: %s", m[2])
	}

	got, ok := toFloat64(actual)
	if !ok {
		return fmt.Errorf("cannot compare non-numeric value: %v", actual)
	}

	var holds bool
	switch m[1] {
	case ">":
		holds = got > want
	case "<":
		holds = got < want
	case ">=":
		holds = got >= want
	case "<=":
		holds = got <= want
	}

	if !holds {
		return fmt.Errorf("expected value %s %v, got %v", m[1], want, got)
	}
	return nil
}

func matchNumber(actual, expected interface{}) error {
	got, ok := toFloat64(actual)
	if !ok {
		return fmt.Errorf("expected number, got %T", actual)
	}
	want, _ := toFloat64(expected)
	if got != want {
		return fmt.Errorf("expected %v, got %v", want, got)
	}
	return nil
}

func matchMap(actual interface{}, expected map[string]interface{}) error {
	got, ok := actual.(map[string]interface{})
	if !ok {
		return fmt.Errorf("expected object, got %T", actual)
	}

	for key, want := range expected {
		value, exists := got[key]
		if !exists {
			return fmt.Errorf("missing key %q", key)
		}
		if err := Match(value, want); err != nil {
			return fmt.Errorf("key %q: %w", key, err)
		}
	}
	return nil
}

func matchSlice(actual interface{}, expected []interface{}) error {
	got, ok := actual.([]interface{})
	if !ok {
		return fmt.Errorf("expected array, got %T", actual)
	}
	if len(got) != len(expected) {
		return fmt.Errorf("expected array length %d, got %d", len(expected), len(got))
	}

	for i := range expected {
		if err := Match(got[i], expected[i]); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

func isNumber(v interface{}) bool {
	if _, ok := v.(string); ok {
		return false
	}
	_, ok := toFloat64(v)
	return ok
}

// toFloat64 converts JSON and YAML numeric values, including numeric strings
// read back from Redis
func toFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

package scenario

import (
	"fmt"

	"github.com/saaga0h/lux-platform/internal/validation"
)

// ValidateScenario performs validation checks on a loaded scenario
func ValidateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("scenario name is required")
	}

	if err := validateSteps(s.Steps); err != nil {
		return fmt.Errorf("steps validation failed: %w", err)
	}

	if err := validateExpectations(s.Expectations); err != nil {
		return fmt.Errorf("expectations validation failed: %w", err)
	}

	return nil
}

func validateSteps(steps []Step) error {
	if len(steps) == 0 {
		return fmt.Errorf("at least one step is required")
	}

	for i, step := range steps {
		if step.At < 0 {
			return fmt.Errorf("step %d: time cannot be negative", i)
		}
		if err := validation.Command(step.Command); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		if i > 0 && step.At < steps[i-1].At {
			return fmt.Errorf("step %d: steps must be in chronological order", i)
		}
	}

	return nil
}

func validateExpectations(expectations []Expectation) error {
	if len(expectations) == 0 {
		return fmt.Errorf("at least one expectation is required")
	}

	for i, exp := range expectations {
		if exp.At < 0 {
			return fmt.Errorf("expectation %d: time cannot be negative", i)
		}

		hasTopic := exp.Topic != ""
		hasRedis := exp.RedisKey != ""

		switch {
		case hasTopic && hasRedis:
			return fmt.Errorf("expectation %d: topic and redis_key are mutually exclusive", i)
		case !hasTopic && !hasRedis:
			return fmt.Errorf("expectation %d: either topic or redis_key is required", i)
		case hasTopic && len(exp.Payload) == 0:
			return fmt.Errorf("expectation %d: MQTT expectations require a payload", i)
		case hasRedis && (exp.RedisField == "" || exp.Expected == ""):
			return fmt.Errorf("expectation %d: redis_field and expected are required with redis_key", i)
		}
	}

	return nil
}

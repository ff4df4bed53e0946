package checker

import (
	"context"
	"errors"
	"fmt"

	"github.com/saaga0h/lux-platform/e2e/internal/observer"
	"github.com/saaga0h/lux-platform/e2e/internal/scenario"
	"github.com/saaga0h/lux-platform/pkg/redis"
)

// CheckExpectation validates an expectation against the latest captured
// message on its topic
func CheckExpectation(exp scenario.Expectation, messages []observer.CapturedMessage) (bool, string, interface{}) {
	var latest *observer.CapturedMessage
	for i := range messages {
		if messages[i].Topic == exp.Topic {
			latest = &messages[i]
		}
	}

	if latest == nil {
		return false, fmt.Sprintf("no messages found for topic %q", exp.Topic), nil
	}

	payload, ok := latest.Payload.(map[string]interface{})
	if !ok {
		return false, fmt.Sprintf("payload is not a JSON object, got %T", latest.Payload), latest.Payload
	}

	if err := Match(payload, exp.Payload); err != nil {
		return false, err.Error(), latest.Payload
	}
	return true, "", latest.Payload
}

// CheckRedisExpectation validates a field of a Redis hash
func CheckRedisExpectation(ctx context.Context, client redis.Client, exp scenario.Expectation) (bool, string, interface{}) {
	fields, err := client.HGetAll(ctx, exp.RedisKey)
	if err != nil && !errors.Is(err, redis.ErrNotFound) {
		return false, fmt.Sprintf("Redis error: %v", err), nil
	}

	value, exists := fields[exp.RedisField]
	if !exists {
		return false, fmt.Sprintf("key %q field %q not found in Redis", exp.RedisKey, exp.RedisField), nil
	}

	if err := Match(value, exp.Expected); err != nil {
		return false, err.Error(), value
	}
	return true, "", value
}

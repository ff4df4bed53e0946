package checker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saaga0h/lux-platform/e2e/internal/observer"
	"github.com/saaga0h/lux-platform/e2e/internal/scenario"
	"github.com/saaga0h/lux-platform/pkg/redis/redistest"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name     string
		actual   interface{}
		expected interface{}
		wantErr  string
	}{
		{"equal strings", "#ff0000", "#ff0000", ""},
		{"different strings", "#ff0000", "#00ff00", `expected #00ff00, got #ff0000`},
		{"json number vs yaml int", 40.0, 40, ""},
		{"numeric mismatch", 39.5, 40, "expected 40, got 39.5"},
		{"bool", true, true, ""},
		{"bool mismatch", false, true, "expected true, got false"},
		{"regex", "#1f5c99", "~^#[0-9a-f]{6}$~", ""},
		{"regex mismatch", "blue", "~^#~", "does not match pattern"},
		{"greater", 80.0, ">50", ""},
		{"less or equal fails", 80.0, "<=50", "expected value <= 50"},
		{"comparison on numeric string", "40", ">=40", ""},
		{"comparison non-numeric", "x", ">1", "cannot compare"},
		{"type mismatch", "40", true, "type mismatch"},
		{"nil expected", nil, nil, ""},
		{"unexpected nil", nil, "x", "got nil"},
		{
			"nested map subset",
			map[string]interface{}{"rgb": map[string]interface{}{"r": 31.0, "g": 92.0, "b": 153.0}, "room": "living"},
			map[string]interface{}{"rgb": map[string]interface{}{"b": 153}},
			"",
		},
		{
			"missing key",
			map[string]interface{}{"room": "living"},
			map[string]interface{}{"hex": "#000000"},
			`missing key "hex"`,
		},
		{"slice", []interface{}{1.0, "a"}, []interface{}{1, "a"}, ""},
		{"slice length", []interface{}{1.0}, []interface{}{1, 2}, "expected array length 2, got 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Match(tt.actual, tt.expected)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestCheckExpectation_UsesLatestMessage(t *testing.T) {
	messages := []observer.CapturedMessage{
		{Timestamp: time.Now(), Topic: "automation/command/light/kitchen", Payload: map[string]interface{}{"brightness": 60.0}},
		{Timestamp: time.Now(), Topic: "automation/command/light/living", Payload: map[string]interface{}{"brightness": 10.0}},
		{Timestamp: time.Now(), Topic: "automation/command/light/kitchen", Payload: map[string]interface{}{"brightness": 40.0}},
	}
	exp := scenario.Expectation{
		Topic:   "automation/command/light/kitchen",
		Payload: map[string]interface{}{"brightness": 40},
	}

	passed, reason, actual := CheckExpectation(exp, messages)
	assert.True(t, passed, reason)
	assert.Equal(t, map[string]interface{}{"brightness": 40.0}, actual)

	exp.Topic = "automation/command/light/studio"
	passed, reason, _ = CheckExpectation(exp, messages)
	assert.False(t, passed)
	assert.Contains(t, reason, "no messages found")
}

func TestCheckRedisExpectation(t *testing.T) {
	ctx := context.Background()
	fake := redistest.NewFake()
	require.NoError(t, fake.HSet(ctx, "lux:room:kitchen", map[string]interface{}{"brightness": 40}))

	exp := scenario.Expectation{RedisKey: "lux:room:kitchen", RedisField: "brightness", Expected: "40"}
	passed, reason, actual := CheckRedisExpectation(ctx, fake, exp)
	assert.True(t, passed, reason)
	assert.Equal(t, "40", actual)

	exp.Expected = ">50"
	passed, _, _ = CheckRedisExpectation(ctx, fake, exp)
	assert.False(t, passed)

	exp.RedisField = "hue"
	passed, reason, _ = CheckRedisExpectation(ctx, fake, exp)
	assert.False(t, passed)
	assert.Contains(t, reason, "not found")
}

package scenario

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dimKitchen = `
name: dim-kitchen
description: Dimming the kitchen reaches the light and the state mirror
steps:
  - at: 0s
    command: lux set kitchen brightness 40
    description: dim kitchen
  - at: 200ms
    command: lux off bedroom
expectations:
  - at: 500ms
    topic: automation/command/light/kitchen
    payload:
      brightness: 40
      hex: "~^#[0-9a-f]{6}$~"
  - at: 500ms
    redis_key: lux:room:kitchen
    redis_field: brightness
    expected: "40"
`

func TestLoadScenarioFromBytes(t *testing.T) {
	s, err := LoadScenarioFromBytes([]byte(dimKitchen))
	require.NoError(t, err)

	assert.Equal(t, "dim-kitchen", s.Name)
	require.Len(t, s.Steps, 2)
	assert.Equal(t, 200*time.Millisecond, s.Steps[1].At)
	require.Len(t, s.Expectations, 2)
	assert.Equal(t, "mqtt", s.Expectations[0].Kind())
	assert.Equal(t, "redis", s.Expectations[1].Kind())
	assert.Equal(t, 40, s.Expectations[0].Payload["brightness"])
}

func TestValidateScenario(t *testing.T) {
	valid := func() *Scenario {
		return &Scenario{
			Name:  "x",
			Steps: []Step{{Command: "lux on all"}},
			Expectations: []Expectation{{
				Topic:   "automation/command/light/living",
				Payload: map[string]interface{}{"on": true},
			}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Scenario)
		wantErr string
	}{
		{"valid", func(*Scenario) {}, ""},
		{"missing name", func(s *Scenario) { s.Name = "" }, "name is required"},
		{"no steps", func(s *Scenario) { s.Steps = nil }, "at least one step"},
		{"empty command", func(s *Scenario) { s.Steps[0].Command = "" }, "command is required"},
		{"negative time", func(s *Scenario) {
			s.Steps = append(s.Steps, Step{At: -time.Second, Command: "lux help"})
		}, "time cannot be negative"},
		{"unordered", func(s *Scenario) {
			s.Steps = []Step{{At: time.Second, Command: "a"}, {At: 0, Command: "b"}}
		}, "chronological"},
		{"no expectations", func(s *Scenario) { s.Expectations = nil }, "at least one expectation"},
		{"no target", func(s *Scenario) { s.Expectations[0].Topic = "" }, "either topic or redis_key"},
		{"both targets", func(s *Scenario) { s.Expectations[0].RedisKey = "k" }, "mutually exclusive"},
		{"topic without payload", func(s *Scenario) { s.Expectations[0].Payload = nil }, "require a payload"},
		{"redis without field", func(s *Scenario) {
			s.Expectations[0] = Expectation{RedisKey: "lux:room:living", Expected: "1"}
		}, "redis_field and expected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(s)
			err := ValidateScenario(s)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("does-not-exist.yaml")
	assert.ErrorContains(t, err, "failed to read scenario file")
}

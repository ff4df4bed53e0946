package scenario

import "time"

// Scenario is a scripted sequence of console commands and the light
// behaviour expected to follow
type Scenario struct {
	Name         string        `yaml:"name" json:"name"`
	Description  string        `yaml:"description" json:"description"`
	Steps        []Step        `yaml:"steps" json:"steps"`
	Expectations []Expectation `yaml:"expectations" json:"expectations"`
}

// Step sends a console command at an offset from the scenario start
type Step struct {
	At          time.Duration `yaml:"at" json:"at"`
	Command     string        `yaml:"command" json:"command"`
	Description string        `yaml:"description" json:"description"`
}

// Expectation is checked at an offset from the scenario start, either against
// the latest message on Topic or against a field of a Redis hash
type Expectation struct {
	At          time.Duration          `yaml:"at" json:"at"`
	Description string                 `yaml:"description,omitempty" json:"description,omitempty"`
	Topic       string                 `yaml:"topic,omitempty" json:"topic,omitempty"`
	Payload     map[string]interface{} `yaml:"payload,omitempty" json:"payload,omitempty"`

	RedisKey   string `yaml:"redis_key,omitempty" json:"redis_key,omitempty"`
	RedisField string `yaml:"redis_field,omitempty" json:"redis_field,omitempty"`
	Expected   string `yaml:"expected,omitempty" json:"expected,omitempty"`
}

// Kind names the layer an expectation checks
func (e *Expectation) Kind() string {
	if e.RedisKey != "" {
		return "redis"
	}
	return "mqtt"
}

// TestResult is the outcome of running a scenario
type TestResult struct {
	Scenario     *Scenario           `json:"scenario"`
	StartTime    time.Time           `json:"start_time"`
	EndTime      time.Time           `json:"end_time"`
	Passed       bool                `json:"passed"`
	PassedCount  int                 `json:"passed_count"`
	FailedCount  int                 `json:"failed_count"`
	Expectations []ExpectationResult `json:"expectations"`
}

// ExpectationResult is the outcome of a single expectation
type ExpectationResult struct {
	Expectation Expectation `json:"expectation"`
	Passed      bool        `json:"passed"`
	Reason      string      `json:"reason,omitempty"`
	Actual      interface{} `json:"actual,omitempty"`
}

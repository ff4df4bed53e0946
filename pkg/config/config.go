package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// Config holds the configuration for a Lux service
type Config struct {
	// MQTT configuration
	MQTTBroker   string
	MQTTPort     int
	MQTTUser     string
	MQTTPassword string
	MQTTClientID string

	// Redis configuration
	RedisEnabled  bool
	RedisHost     string
	RedisPort     int
	RedisPassword string
	RedisDB       int

	// Service configuration
	ServiceName string
	HealthPort  int
	LogLevel    string

	// API configuration
	APIPort           int
	AllowedOrigins    []string
	MaxCommandLength  int
	CommandHistory    int
	RateLimitRequests int
	RateLimitWindowMs int
	TrustProxy        bool

	// Engine configuration
	StepIntervalMs  int
	RoomStateTTLSec int
	ScenesFile      string

	// Circadian configuration
	Latitude               float64
	Longitude              float64
	CircadianMinKelvin     int
	CircadianMaxKelvin     int
	CircadianMinBrightness int
	CircadianMaxBrightness int
	CircadianSource        string

	// CLI configuration
	CommandURL string
}

// Circadian scene sources
const (
	CircadianSourceSun   = "sun"
	CircadianSourceClock = "clock"
)

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		MQTTBroker:    "localhost",
		MQTTPort:      1883,
		MQTTUser:      "",
		MQTTPassword:  "",
		MQTTClientID:  "",
		RedisEnabled:  true,
		RedisHost:     "localhost",
		RedisPort:     6379,
		RedisPassword: "",
		RedisDB:       0,
		ServiceName:   "lux-agent",
		HealthPort:    8080,
		LogLevel:      "info",
		// API defaults
		APIPort:           3003,
		AllowedOrigins:    []string{"*"},
		MaxCommandLength:  1000,
		CommandHistory:    50,
		RateLimitRequests: 10,
		RateLimitWindowMs: 60000,
		TrustProxy:        false,
		// Engine defaults
		StepIntervalMs:  100,
		RoomStateTTLSec: 300,
		ScenesFile:      "",
		// Circadian defaults (Helsinki coordinates)
		Latitude:               60.1695,
		Longitude:              24.9354,
		CircadianMinKelvin:     3000,
		CircadianMaxKelvin:     5500,
		CircadianMinBrightness: 20,
		CircadianMaxBrightness: 100,
		CircadianSource:        CircadianSourceSun,
		// CLI defaults
		CommandURL: "http://localhost:3003/api/command",
	}
}

// LoadFromEnv loads configuration from environment variables with LUX_ prefix
func (c *Config) LoadFromEnv() {
	// MQTT configuration
	if v := os.Getenv("LUX_MQTT_BROKER"); v != "" {
		c.MQTTBroker = v
	}
	if v := os.Getenv("LUX_MQTT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.MQTTPort = port
		}
	}
	if v := os.Getenv("LUX_MQTT_USER"); v != "" {
		c.MQTTUser = v
	}
	if v := os.Getenv("LUX_MQTT_PASSWORD"); v != "" {
		c.MQTTPassword = v
	}
	if v := os.Getenv("LUX_MQTT_CLIENT_ID"); v != "" {
		c.MQTTClientID = v
	}

	// Redis configuration
	if v := os.Getenv("LUX_REDIS_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.RedisEnabled = enabled
		}
	}
	if v := os.Getenv("LUX_REDIS_HOST"); v != "" {
		c.RedisHost = v
	}
	if v := os.Getenv("LUX_REDIS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.RedisPort = port
		}
	}
	if v := os.Getenv("LUX_REDIS_PASSWORD"); v != "" {
		c.RedisPassword = v
	}
	if v := os.Getenv("LUX_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.RedisDB = db
		}
	}

	// Service configuration
	if v := os.Getenv("LUX_SERVICE_NAME"); v != "" {
		c.ServiceName = v
	}
	if v := os.Getenv("LUX_HEALTH_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.HealthPort = port
		}
	}
	if v := os.Getenv("LUX_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}

	// API configuration
	if v := os.Getenv("LUX_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.APIPort = port
		}
	}
	if v := os.Getenv("LUX_ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("LUX_MAX_COMMAND_LENGTH"); v != "" {
		if max, err := strconv.Atoi(v); err == nil {
			c.MaxCommandLength = max
		}
	}
	if v := os.Getenv("LUX_COMMAND_HISTORY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.CommandHistory = n
		}
	}
	if v := os.Getenv("LUX_RATE_LIMIT_REQUESTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RateLimitRequests = n
		}
	}
	if v := os.Getenv("LUX_RATE_LIMIT_WINDOW_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			c.RateLimitWindowMs = ms
		}
	}
	if v := os.Getenv("LUX_TRUST_PROXY"); v != "" {
		if trust, err := strconv.ParseBool(v); err == nil {
			c.TrustProxy = trust
		}
	}

	// Engine configuration
	if v := os.Getenv("LUX_STEP_INTERVAL_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			c.StepIntervalMs = ms
		}
	}
	if v := os.Getenv("LUX_ROOM_STATE_TTL_SEC"); v != "" {
		if sec, err := strconv.Atoi(v); err == nil {
			c.RoomStateTTLSec = sec
		}
	}
	if v := os.Getenv("LUX_SCENES_FILE"); v != "" {
		c.ScenesFile = v
	}

	// Circadian configuration
	if v := os.Getenv("LUX_LATITUDE"); v != "" {
		if lat, err := strconv.ParseFloat(v, 64); err == nil {
			c.Latitude = lat
		}
	}
	if v := os.Getenv("LUX_LONGITUDE"); v != "" {
		if lon, err := strconv.ParseFloat(v, 64); err == nil {
			c.Longitude = lon
		}
	}
	if v := os.Getenv("LUX_CIRCADIAN_MIN_KELVIN"); v != "" {
		if k, err := strconv.Atoi(v); err == nil {
			c.CircadianMinKelvin = k
		}
	}
	if v := os.Getenv("LUX_CIRCADIAN_MAX_KELVIN"); v != "" {
		if k, err := strconv.Atoi(v); err == nil {
			c.CircadianMaxKelvin = k
		}
	}
	if v := os.Getenv("LUX_CIRCADIAN_MIN_BRIGHTNESS"); v != "" {
		if b, err := strconv.Atoi(v); err == nil {
			c.CircadianMinBrightness = b
		}
	}
	if v := os.Getenv("LUX_CIRCADIAN_MAX_BRIGHTNESS"); v != "" {
		if b, err := strconv.Atoi(v); err == nil {
			c.CircadianMaxBrightness = b
		}
	}
	if v := os.Getenv("LUX_CIRCADIAN_SOURCE"); v != "" {
		c.CircadianSource = v
	}

	// CLI configuration
	if v := os.Getenv("LUX_URL"); v != "" {
		c.CommandURL = v
	}
}

// RegisterFlags registers the service flags on fs with the current values as defaults
func (c *Config) RegisterFlags(fs *pflag.FlagSet) {
	// MQTT flags
	fs.StringVar(&c.MQTTBroker, "mqtt-broker", c.MQTTBroker, "MQTT broker hostname")
	fs.IntVar(&c.MQTTPort, "mqtt-port", c.MQTTPort, "MQTT broker port")
	fs.StringVar(&c.MQTTUser, "mqtt-user", c.MQTTUser, "MQTT username")
	fs.StringVar(&c.MQTTPassword, "mqtt-password", c.MQTTPassword, "MQTT password")
	fs.StringVar(&c.MQTTClientID, "mqtt-client-id", c.MQTTClientID, "MQTT client ID")

	// Redis flags
	fs.BoolVar(&c.RedisEnabled, "redis-enabled", c.RedisEnabled, "Relay commands and mirror room state through Redis")
	fs.StringVar(&c.RedisHost, "redis-host", c.RedisHost, "Redis hostname")
	fs.IntVar(&c.RedisPort, "redis-port", c.RedisPort, "Redis port")
	fs.StringVar(&c.RedisPassword, "redis-password", c.RedisPassword, "Redis password")
	fs.IntVar(&c.RedisDB, "redis-db", c.RedisDB, "Redis database number")

	// Service flags
	fs.StringVar(&c.ServiceName, "service-name", c.ServiceName, "Service name")
	fs.IntVar(&c.HealthPort, "health-port", c.HealthPort, "Health check HTTP port")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level (debug, info, warn, error)")

	// API flags
	fs.IntVar(&c.APIPort, "api-port", c.APIPort, "HTTP API port")
	fs.StringSliceVar(&c.AllowedOrigins, "allowed-origins", c.AllowedOrigins, "CORS origins allowed to call the API")
	fs.IntVar(&c.MaxCommandLength, "max-command-length", c.MaxCommandLength, "Maximum accepted command length")
	fs.IntVar(&c.CommandHistory, "command-history", c.CommandHistory, "Number of relayed commands to keep")
	fs.IntVar(&c.RateLimitRequests, "rate-limit-requests", c.RateLimitRequests, "Requests allowed per client per window")
	fs.IntVar(&c.RateLimitWindowMs, "rate-limit-window-ms", c.RateLimitWindowMs, "Rate limit window (ms)")
	fs.BoolVar(&c.TrustProxy, "trust-proxy", c.TrustProxy, "Identify rate-limited clients by X-Forwarded-For (only behind a trusted proxy)")

	// Engine flags
	fs.IntVar(&c.StepIntervalMs, "step-interval-ms", c.StepIntervalMs, "Room engine step interval (ms)")
	fs.IntVar(&c.RoomStateTTLSec, "room-state-ttl", c.RoomStateTTLSec, "TTL of mirrored room state in seconds")
	fs.StringVar(&c.ScenesFile, "scenes-file", c.ScenesFile, "YAML scene catalog (built-in catalog when empty)")

	// Circadian flags
	fs.Float64Var(&c.Latitude, "latitude", c.Latitude, "Geographic latitude for circadian scenes")
	fs.Float64Var(&c.Longitude, "longitude", c.Longitude, "Geographic longitude for circadian scenes")
	fs.IntVar(&c.CircadianMinKelvin, "circadian-min-kelvin", c.CircadianMinKelvin, "Warmest circadian colour temperature")
	fs.IntVar(&c.CircadianMaxKelvin, "circadian-max-kelvin", c.CircadianMaxKelvin, "Coolest circadian colour temperature")
	fs.IntVar(&c.CircadianMinBrightness, "circadian-min-brightness", c.CircadianMinBrightness, "Lowest circadian brightness (%)")
	fs.IntVar(&c.CircadianMaxBrightness, "circadian-max-brightness", c.CircadianMaxBrightness, "Highest circadian brightness (%)")
	fs.StringVar(&c.CircadianSource, "circadian-source", c.CircadianSource, "Circadian scene source (sun or clock)")
}

// LoadFromFlags parses command-line flags and overrides config values
func (c *Config) LoadFromFlags() {
	c.RegisterFlags(pflag.CommandLine)
	pflag.Parse()
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT broker is required")
	}
	if c.MQTTPort <= 0 || c.MQTTPort > 65535 {
		return fmt.Errorf("MQTT port must be between 1 and 65535")
	}
	if c.RedisEnabled {
		if c.RedisHost == "" {
			return fmt.Errorf("Redis host is required")
		}
		if c.RedisPort <= 0 || c.RedisPort > 65535 {
			return fmt.Errorf("Redis port must be between 1 and 65535")
		}
	}
	if c.HealthPort <= 0 || c.HealthPort > 65535 {
		return fmt.Errorf("Health port must be between 1 and 65535")
	}
	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("API port must be between 1 and 65535")
	}
	if c.ServiceName == "" {
		return fmt.Errorf("Service name is required")
	}
	if c.MaxCommandLength <= 0 {
		return fmt.Errorf("max command length must be positive")
	}
	if c.StepIntervalMs <= 0 {
		return fmt.Errorf("step interval must be positive")
	}
	if c.RoomStateTTLSec <= 0 {
		return fmt.Errorf("room state TTL must be positive")
	}
	if c.RateLimitRequests <= 0 || c.RateLimitWindowMs <= 0 {
		return fmt.Errorf("rate limit requests and window must be positive")
	}
	if c.CircadianMinKelvin > c.CircadianMaxKelvin {
		return fmt.Errorf("circadian min kelvin %d exceeds max kelvin %d", c.CircadianMinKelvin, c.CircadianMaxKelvin)
	}
	if c.CircadianMinBrightness < 0 || c.CircadianMaxBrightness > 100 || c.CircadianMinBrightness > c.CircadianMaxBrightness {
		return fmt.Errorf("circadian brightness must satisfy 0 <= min <= max <= 100")
	}
	if c.CircadianSource != CircadianSourceSun && c.CircadianSource != CircadianSourceClock {
		return fmt.Errorf("invalid circadian source: %s (must be sun or clock)", c.CircadianSource)
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// MQTTAddress returns the full MQTT broker address
func (c *Config) MQTTAddress() string {
	return fmt.Sprintf("tcp://%s:%d", c.MQTTBroker, c.MQTTPort)
}

// RedisAddress returns the full Redis address
func (c *Config) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// StepInterval returns the engine step interval as a duration
func (c *Config) StepInterval() time.Duration {
	return time.Duration(c.StepIntervalMs) * time.Millisecond
}

// RoomStateTTL returns the TTL of mirrored room state
func (c *Config) RoomStateTTL() time.Duration {
	return time.Duration(c.RoomStateTTLSec) * time.Second
}

// RateLimitWindow returns the rate limit window as a duration
func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowMs) * time.Millisecond
}

// splitList splits a comma separated env value, dropping empty entries
func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

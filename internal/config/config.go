package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/avstrong/wandernest/internal/validation"
)

const (
	BackendRemote = "remote"
	BackendMemory = "memory"
)

type Config struct {
	Backend string `json:"backend" validate:"oneof=remote memory"`
	API     APIConfig  `json:"api"`
	HTTP    HTTPConfig `json:"http"`

	// ConfirmSubmitDelay is how long the simulated booking submission takes in
	// remote mode.
	ConfirmSubmitDelay time.Duration `json:"confirm_submit_delay" validate:"gte=0"`
	ShutdownTimeout    time.Duration `json:"shutdown_timeout" validate:"gt=0"`
}

type APIConfig struct {
	URL     string        `json:"url" validate:"omitempty,url"`
	Token   string        `json:"-"`
	Timeout time.Duration `json:"timeout" validate:"gt=0"`
}

type HTTPConfig struct {
	Host              string        `json:"host"`
	Port              string        `json:"port" validate:"required,numeric"`
	ReadHeaderTimeout time.Duration `json:"read_header_timeout" validate:"gt=0"`
	LivenessEndpoint  string        `json:"liveness_endpoint" validate:"required,startswith=/"`
}

// Load reads the configuration from the environment. Unparsable numbers and
// durations fall back to their defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Backend: getEnv("WANDERNEST_BACKEND", BackendRemote),
		API: APIConfig{
			URL:     getEnv("WANDERNEST_API_URL", ""),
			Token:   getEnv("WANDERNEST_API_TOKEN", ""),
			Timeout: getDurationEnv("WANDERNEST_API_TIMEOUT", 15*time.Second), //nolint:gomnd
		},
		HTTP: HTTPConfig{
			Host:              getEnv("HTTP_HOST", "localhost"),
			Port:              strconv.Itoa(getIntEnv("HTTP_PORT", 8092)),                 //nolint:gomnd
			ReadHeaderTimeout: getDurationEnv("HTTP_READ_HEADER_TIMEOUT", 20*time.Second), //nolint:gomnd
			LivenessEndpoint:  getEnv("LIVENESS_ENDPOINT", "/liveness"),
		},
		ConfirmSubmitDelay: getDurationEnv("CONFIRM_SUBMIT_DELAY", 2*time.Second), //nolint:gomnd
		ShutdownTimeout:    getDurationEnv("SHUTDOWN_TIMEOUT", 4*time.Second),    //nolint:gomnd
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}

	if c.Backend == BackendRemote && c.API.URL == "" {
		inputErr := validation.NewInputError()
		inputErr.Add("api.url", "WANDERNEST_API_URL is required for the remote backend")

		return inputErr
	}

	return nil
}

func (c *Config) Offline() bool {
	return c.Backend == BackendMemory
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}

	return fallback
}

// getDurationEnv accepts Go durations ("1500ms") or a plain number of seconds.
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return fallback
}

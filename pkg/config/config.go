// Package config loads service configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the configuration for the symptom timeline service.
// Environment variables are parsed from the SYMPTOM_TIMELINE_ prefix,
// e.g. SYMPTOM_TIMELINE_HTTP_PORT, SYMPTOM_TIMELINE_POSTGRES_DSN.
type Config struct {
	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Temporal Configuration
	TemporalHostPort  string `envconfig:"TEMPORAL_HOST_PORT" default:"localhost:7233"`
	TemporalNamespace string `envconfig:"TEMPORAL_NAMESPACE" default:"default"`

	// Storage Configuration. Empty DSN selects the in-memory store.
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// Narrative model configuration. Empty API key disables the narrative
	// collaborator; reports then carry the fallback payload.
	NarrativeBaseURL      string        `envconfig:"NARRATIVE_BASE_URL" default:"https://openrouter.ai/api/v1"`
	NarrativeAPIKey       string        `envconfig:"NARRATIVE_API_KEY" default:""`
	NarrativeModel        string        `envconfig:"NARRATIVE_MODEL" default:"meta-llama/llama-3.1-8b-instruct:free"`
	NarrativeBackupModels []string      `envconfig:"NARRATIVE_BACKUP_MODELS" default:"google/gemma-2-9b-it:free,microsoft/wizardlm-2-8x22b:free"`
	NarrativeTimeout      time.Duration `envconfig:"NARRATIVE_TIMEOUT" default:"60s"`

	// Detection rule overrides, HCL file path. Empty keeps the built-ins.
	RuleSetPath string `envconfig:"RULESET_PATH" default:""`

	// Logging
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// New creates a Config by parsing environment variables
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("SYMPTOM_TIMELINE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	return &cfg, nil
}

// NarrativeEnabled reports whether a narrative model endpoint is configured
func (c *Config) NarrativeEnabled() bool {
	return c.NarrativeAPIKey != ""
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// Package config provides configuration loading and validation for the
// portal agent.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the agent configuration that can be loaded from a JSON
// file. All fields are optional; missing values use defaults or must be
// provided via CLI flags and environment variables.
type Config struct {
	// Server
	Port int `json:"port,omitempty"` // HTTP listen port

	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL; empty uses the in-memory store

	// External services
	GeminiAPIKey string `json:"gemini_api_key,omitempty"` // Gemini API key for LLM content extraction
	DeployURL    string `json:"deploy_url,omitempty"`     // Deployment service base URL; empty simulates deployment
	DeployToken  string `json:"deploy_token,omitempty"`   // Deployment service access token

	// Behavior
	QRSize     int  `json:"qr_size,omitempty"`     // QR image size in pixels
	RenderPDF  bool `json:"render_pdf,omitempty"`  // Render the /download artifact as PDF via headless Chrome
	Verbose    bool `json:"verbose,omitempty"`     // Print detailed result output
	DisableLLM bool `json:"disable_llm,omitempty"` // Force deterministic content extraction even with an API key
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.QRSize < 0 {
		return fmt.Errorf("config error: 'qr_size' must be non-negative")
	}
	if c.DeployToken != "" && c.DeployURL == "" {
		return fmt.Errorf("config error: 'deploy_token' requires 'deploy_url'")
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. This is used to apply config file values as defaults for CLI
// flags and environment variables.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.DeployURL == "" {
		result.DeployURL = defaults.DeployURL
	}
	if result.DeployToken == "" {
		result.DeployToken = defaults.DeployToken
	}
	if result.QRSize == 0 {
		result.QRSize = defaults.QRSize
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// FromEnv builds a Config from environment variables. Used as the lowest
// precedence layer under the config file and CLI flags.
func FromEnv() Config {
	return Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		DeployURL:    os.Getenv("DEPLOY_URL"),
		DeployToken:  os.Getenv("DEPLOY_TOKEN"),
	}
}

// Package config loads and validates application configuration from a
// yaml file and environment variables. Environment variables take
// precedence over the config file; validation runs once at startup so
// business logic never reads the process environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	SnowInstance string `yaml:"snow_instance"`
	SnowUsername string `yaml:"snow_username"`
	SnowPassword string `yaml:"snow_password"`

	GeminiAPIKey string `yaml:"gemini_api_key"`
	GeminiModel  string `yaml:"gemini_model"`
	PromptStyle  string `yaml:"prompt_style"` // "full" or "concise"

	MaxRetries       int `yaml:"max_retries"`
	BaseDelaySeconds int `yaml:"base_delay_seconds"`

	// MaxIncidents caps how many fetched incidents are processed;
	// 0 means no limit.
	MaxIncidents int `yaml:"max_incidents"`

	ReportsDir string `yaml:"reports_dir"`
	LogsDir    string `yaml:"logs_dir"`
}

// Load loads configuration from the config file and environment variables.
// Environment variables take precedence over config file values.
func Load() (*Config, error) {
	cfg := &Config{
		GeminiModel:      "gemini-1.5-flash",
		PromptStyle:      "full",
		MaxRetries:       4,
		BaseDelaySeconds: 10,
		ReportsDir:       "reports",
		LogsDir:          "logs",
	}

	if err := cfg.loadFromFile(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	cfg.loadFromEnv()

	return cfg, nil
}

func (c *Config) loadFromFile() error {
	configPath := getConfigPath()
	if configPath == "" {
		return os.ErrNotExist
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, c)
}

func (c *Config) loadFromEnv() {
	if v := os.Getenv("SNOW_INSTANCE"); v != "" {
		c.SnowInstance = v
	}
	if v := os.Getenv("SNOW_USERNAME"); v != "" {
		c.SnowUsername = v
	}
	if v := os.Getenv("SNOW_PASSWORD"); v != "" {
		c.SnowPassword = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.GeminiAPIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		c.GeminiModel = v
	}
	if v := os.Getenv("PROMPT_STYLE"); v != "" {
		c.PromptStyle = v
	}
	if v := os.Getenv("MAX_INCIDENTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxIncidents = n
		}
	}
	if v := os.Getenv("REPORTS_DIR"); v != "" {
		c.ReportsDir = v
	}
	if v := os.Getenv("LOGS_DIR"); v != "" {
		c.LogsDir = v
	}
}

// Validate checks the configuration before any network call is made. All
// missing required values are reported together so the operator fixes the
// environment in one pass.
func (c *Config) Validate() error {
	var missing []string
	if c.SnowInstance == "" {
		missing = append(missing, "SNOW_INSTANCE")
	}
	if c.SnowUsername == "" {
		missing = append(missing, "SNOW_USERNAME")
	}
	if c.SnowPassword == "" {
		missing = append(missing, "SNOW_PASSWORD")
	}
	if c.GeminiAPIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s (check your config file or environment)",
			strings.Join(missing, ", "))
	}

	if c.MaxRetries < 1 {
		return fmt.Errorf("max_retries must be at least 1, got %d", c.MaxRetries)
	}
	if c.BaseDelaySeconds < 1 {
		return fmt.Errorf("base_delay_seconds must be at least 1, got %d", c.BaseDelaySeconds)
	}
	switch c.PromptStyle {
	case "full", "concise":
	default:
		return fmt.Errorf("prompt_style must be \"full\" or \"concise\", got %q", c.PromptStyle)
	}
	if c.MaxIncidents < 0 {
		return fmt.Errorf("max_incidents must not be negative, got %d", c.MaxIncidents)
	}

	return nil
}

// BaseDelay returns the configured base backoff delay.
func (c *Config) BaseDelay() time.Duration {
	return time.Duration(c.BaseDelaySeconds) * time.Second
}

// getConfigPath returns the path to the config file.
// Priority: $SNOW_TRIAGE_CONFIG > ~/.config/snow-triage/config.yaml
func getConfigPath() string {
	if configPath := os.Getenv("SNOW_TRIAGE_CONFIG"); configPath != "" {
		return configPath
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".config", "snow-triage", "config.yaml")
}

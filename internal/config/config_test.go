package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate points the config path at a (nonexistent) file inside a temp dir
// and clears every recognized environment variable so tests never read the
// developer's real configuration.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SNOW_TRIAGE_CONFIG", filepath.Join(dir, "config.yaml"))
	for _, key := range []string{
		"SNOW_INSTANCE", "SNOW_USERNAME", "SNOW_PASSWORD",
		"GEMINI_API_KEY", "GEMINI_MODEL", "PROMPT_STYLE",
		"MAX_INCIDENTS", "REPORTS_DIR", "LOGS_DIR",
	} {
		t.Setenv(key, "")
	}
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.GeminiModel != "gemini-1.5-flash" {
		t.Errorf("GeminiModel = %q, want gemini-1.5-flash", cfg.GeminiModel)
	}
	if cfg.PromptStyle != "full" {
		t.Errorf("PromptStyle = %q, want full", cfg.PromptStyle)
	}
	if cfg.MaxRetries != 4 {
		t.Errorf("MaxRetries = %d, want 4", cfg.MaxRetries)
	}
	if cfg.BaseDelay() != 10*time.Second {
		t.Errorf("BaseDelay() = %v, want 10s", cfg.BaseDelay())
	}
	if cfg.MaxIncidents != 0 {
		t.Errorf("MaxIncidents = %d, want 0 (unlimited)", cfg.MaxIncidents)
	}
	if cfg.ReportsDir != "reports" || cfg.LogsDir != "logs" {
		t.Errorf("dirs = %q/%q, want reports/logs", cfg.ReportsDir, cfg.LogsDir)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := isolate(t)
	configPath := filepath.Join(dir, "config.yaml")
	content := `snow_instance: "https://dev.example.com"
snow_username: "fileuser"
snow_password: "filepass"
gemini_api_key: "file-key"
gemini_model: "gemini-2.0-flash"
prompt_style: "concise"
max_retries: 6
base_delay_seconds: 5
max_incidents: 10
reports_dir: "out"
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.SnowInstance != "https://dev.example.com" {
		t.Errorf("SnowInstance = %q", cfg.SnowInstance)
	}
	if cfg.SnowUsername != "fileuser" || cfg.SnowPassword != "filepass" {
		t.Errorf("credentials = %q/%q", cfg.SnowUsername, cfg.SnowPassword)
	}
	if cfg.GeminiModel != "gemini-2.0-flash" {
		t.Errorf("GeminiModel = %q", cfg.GeminiModel)
	}
	if cfg.PromptStyle != "concise" {
		t.Errorf("PromptStyle = %q", cfg.PromptStyle)
	}
	if cfg.MaxRetries != 6 || cfg.BaseDelaySeconds != 5 {
		t.Errorf("retry config = %d/%d", cfg.MaxRetries, cfg.BaseDelaySeconds)
	}
	if cfg.MaxIncidents != 10 {
		t.Errorf("MaxIncidents = %d, want 10", cfg.MaxIncidents)
	}
	if cfg.ReportsDir != "out" {
		t.Errorf("ReportsDir = %q, want out", cfg.ReportsDir)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("complete file config must validate: %v", err)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	configPath := filepath.Join(dir, "config.yaml")
	content := `snow_instance: "https://file.example.com"
gemini_model: "gemini-1.5-pro"
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	t.Setenv("SNOW_INSTANCE", "https://env.example.com")
	t.Setenv("MAX_INCIDENTS", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.SnowInstance != "https://env.example.com" {
		t.Errorf("env must override file: SnowInstance = %q", cfg.SnowInstance)
	}
	if cfg.GeminiModel != "gemini-1.5-pro" {
		t.Errorf("file value lost: GeminiModel = %q", cfg.GeminiModel)
	}
	if cfg.MaxIncidents != 3 {
		t.Errorf("MaxIncidents = %d, want 3", cfg.MaxIncidents)
	}
}

func TestValidateReportsAllMissing(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	for _, name := range []string{"SNOW_INSTANCE", "SNOW_USERNAME", "SNOW_PASSWORD", "GEMINI_API_KEY"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("validation error must name %s: %v", name, err)
		}
	}
}

func TestValidateValues(t *testing.T) {
	valid := func() *Config {
		return &Config{
			SnowInstance:     "https://dev.example.com",
			SnowUsername:     "u",
			SnowPassword:     "p",
			GeminiAPIKey:     "k",
			GeminiModel:      "gemini-1.5-flash",
			PromptStyle:      "full",
			MaxRetries:       4,
			BaseDelaySeconds: 10,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{
			name:    "zero retries",
			mutate:  func(c *Config) { c.MaxRetries = 0 },
			wantErr: "max_retries",
		},
		{
			name:    "zero base delay",
			mutate:  func(c *Config) { c.BaseDelaySeconds = 0 },
			wantErr: "base_delay_seconds",
		},
		{
			name:    "bad prompt style",
			mutate:  func(c *Config) { c.PromptStyle = "poetic" },
			wantErr: "prompt_style",
		},
		{
			name:    "negative incident cap",
			mutate:  func(c *Config) { c.MaxIncidents = -1 },
			wantErr: "max_incidents",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestDefaultConfig verifies default configuration values
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.MaxConcurrency != 4 {
		t.Errorf("MaxConcurrency = %d, want 4", cfg.MaxConcurrency)
	}
	if cfg.TaskTimeout != 60*time.Second {
		t.Errorf("TaskTimeout = %v, want 60s", cfg.TaskTimeout)
	}
	if cfg.ProbeTimeout != 2*time.Second {
		t.Errorf("ProbeTimeout = %v, want 2s", cfg.ProbeTimeout)
	}
	if cfg.ReportInterval != 60*time.Second {
		t.Errorf("ReportInterval = %v, want 60s", cfg.ReportInterval)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.Telegram.Enabled() {
		t.Error("Telegram should be disabled by default")
	}
}

// TestLoadConfigValidFile tests loading a valid YAML config file
func TestLoadConfigValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `max_concurrency: 8
task_timeout: 90s
report_interval: 30s
scan_rate: 500
log_level: debug
results_dir: /tmp/results
telegram:
  bot_token: tok
  chat_id: chat
  timeout: 5s
tools:
  hydra: /opt/hydra
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.MaxConcurrency != 8 {
		t.Errorf("MaxConcurrency = %d, want 8", cfg.MaxConcurrency)
	}
	if cfg.TaskTimeout != 90*time.Second {
		t.Errorf("TaskTimeout = %v, want 90s", cfg.TaskTimeout)
	}
	if cfg.ReportInterval != 30*time.Second {
		t.Errorf("ReportInterval = %v, want 30s", cfg.ReportInterval)
	}
	if cfg.ScanRate != 500 {
		t.Errorf("ScanRate = %d, want 500", cfg.ScanRate)
	}
	if cfg.Telegram.BotToken != "tok" || cfg.Telegram.ChatID != "chat" {
		t.Errorf("Telegram = %+v", cfg.Telegram)
	}
	if cfg.Telegram.Timeout != 5*time.Second {
		t.Errorf("Telegram.Timeout = %v, want 5s", cfg.Telegram.Timeout)
	}
	if cfg.Tools.Hydra != "/opt/hydra" {
		t.Errorf("Tools.Hydra = %q", cfg.Tools.Hydra)
	}
	// Unset fields keep defaults
	if cfg.Tools.Ncrack != "/usr/bin/ncrack" {
		t.Errorf("Tools.Ncrack = %q, want default", cfg.Tools.Ncrack)
	}
}

// TestLoadConfigMissingFile verifies defaults are returned without error
func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v, want nil for missing file", err)
	}
	if cfg.MaxConcurrency != 4 {
		t.Errorf("MaxConcurrency = %d, want default 4", cfg.MaxConcurrency)
	}
}

// TestLoadConfigInvalidDuration verifies duration parse failures are reported
func TestLoadConfigInvalidDuration(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(configPath, []byte("task_timeout: banana\n"), 0644)

	if _, err := LoadConfig(configPath); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}

// TestLoadConfigMalformedYAML verifies parse failures are reported
func TestLoadConfigMalformedYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(configPath, []byte("max_concurrency: [not an int\n"), 0644)

	if _, err := LoadConfig(configPath); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

// TestEnvFallback verifies Telegram credentials come from the environment
// when the file leaves them empty
func TestEnvFallback(t *testing.T) {
	t.Setenv(EnvBotToken, "env-token")
	t.Setenv(EnvChatID, "env-chat")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Telegram.BotToken != "env-token" || cfg.Telegram.ChatID != "env-chat" {
		t.Errorf("Telegram = %+v, want env credentials", cfg.Telegram)
	}
	if !cfg.Telegram.Enabled() {
		t.Error("Telegram should be enabled via env")
	}
}

// TestMergeWithFlags verifies flag precedence over file values
func TestMergeWithFlags(t *testing.T) {
	cfg := DefaultConfig()

	mc := 16
	timeout := 2 * time.Minute
	token := "flag-token"
	rate := 9999
	cfg.MergeWithFlags(&mc, &timeout, &token, nil, nil, &rate)

	if cfg.MaxConcurrency != 16 {
		t.Errorf("MaxConcurrency = %d, want 16", cfg.MaxConcurrency)
	}
	if cfg.TaskTimeout != 2*time.Minute {
		t.Errorf("TaskTimeout = %v, want 2m", cfg.TaskTimeout)
	}
	if cfg.Telegram.BotToken != "flag-token" {
		t.Errorf("BotToken = %q", cfg.Telegram.BotToken)
	}
	if cfg.Telegram.ChatID != "" {
		t.Errorf("ChatID = %q, want unchanged empty", cfg.Telegram.ChatID)
	}
	if cfg.ScanRate != 9999 {
		t.Errorf("ScanRate = %d, want 9999", cfg.ScanRate)
	}
}

// TestValidate covers the rejection cases
func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero concurrency", func(c *Config) { c.MaxConcurrency = 0 }},
		{"negative timeout", func(c *Config) { c.TaskTimeout = -time.Second }},
		{"zero probe timeout", func(c *Config) { c.ProbeTimeout = 0 }},
		{"zero report interval", func(c *Config) { c.ReportInterval = 0 }},
		{"zero scan rate", func(c *Config) { c.ScanRate = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

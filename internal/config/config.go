// Package config loads and validates harrier configuration.
//
// Configuration comes from three layers, lowest precedence first: built-in
// defaults, the YAML config file, and CLI flags. Telegram credentials may
// additionally come from environment variables when the file and flags leave
// them empty.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables consulted for Telegram credentials.
const (
	EnvBotToken = "HARRIER_BOT_TOKEN"
	EnvChatID   = "HARRIER_CHAT_ID"
)

// TelegramConfig holds notifier credentials and tuning.
// Empty credentials disable notifications; that is not an error.
type TelegramConfig struct {
	// BotToken is the Telegram bot API token
	BotToken string `yaml:"bot_token"`

	// ChatID is the destination chat
	ChatID string `yaml:"chat_id"`

	// Timeout bounds each sendMessage call
	Timeout time.Duration `yaml:"timeout"`
}

// Enabled reports whether both credentials are present.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// ToolsConfig holds paths to the external tool binaries. Paths that do not
// exist fall back to PATH discovery at startup.
type ToolsConfig struct {
	Hydra   string `yaml:"hydra"`
	Ncrack  string `yaml:"ncrack"`
	Masscan string `yaml:"masscan"`
}

// Config represents harrier configuration options
type Config struct {
	// MaxConcurrency is the maximum number of tasks in flight
	MaxConcurrency int `yaml:"max_concurrency"`

	// TaskTimeout is the maximum execution time for a single task
	TaskTimeout time.Duration `yaml:"task_timeout"`

	// ProbeTimeout bounds each liveness check connection attempt
	ProbeTimeout time.Duration `yaml:"probe_timeout"`

	// ScanTimeout bounds the whole port-scan subprocess
	ScanTimeout time.Duration `yaml:"scan_timeout"`

	// ScanRate is the packet rate passed to the port scanner
	ScanRate int `yaml:"scan_rate"`

	// ReportInterval is the period between progress notifications
	ReportInterval time.Duration `yaml:"report_interval"`

	// LogLevel sets the logging verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// ResultsDir is the directory where result artifacts are written
	ResultsDir string `yaml:"results_dir"`

	// HistoryDB is the path to the run history database
	HistoryDB string `yaml:"history_db"`

	// Telegram contains notifier configuration
	Telegram TelegramConfig `yaml:"telegram"`

	// Tools contains external binary paths
	Tools ToolsConfig `yaml:"tools"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		MaxConcurrency: 4,
		TaskTimeout:    60 * time.Second,
		ProbeTimeout:   2 * time.Second,
		ScanTimeout:    5 * time.Minute,
		ScanRate:       1000,
		ReportInterval: 60 * time.Second,
		LogLevel:       "info",
		ResultsDir:     ".harrier/results",
		HistoryDB:      ".harrier/history.db",
		Telegram: TelegramConfig{
			Timeout: 10 * time.Second,
		},
		Tools: ToolsConfig{
			Hydra:   "/usr/bin/hydra",
			Ncrack:  "/usr/bin/ncrack",
			Masscan: "/usr/bin/masscan",
		},
	}
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
// Telegram credentials fall back to environment variables when unset.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Duration fields are parsed from strings ("30s", "2m") via a temporary
	// struct, matching how operators write them.
	type yamlTelegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
		Timeout  string `yaml:"timeout"`
	}
	type yamlConfig struct {
		MaxConcurrency int          `yaml:"max_concurrency"`
		TaskTimeout    string       `yaml:"task_timeout"`
		ProbeTimeout   string       `yaml:"probe_timeout"`
		ScanTimeout    string       `yaml:"scan_timeout"`
		ScanRate       int          `yaml:"scan_rate"`
		ReportInterval string       `yaml:"report_interval"`
		LogLevel       string       `yaml:"log_level"`
		ResultsDir     string       `yaml:"results_dir"`
		HistoryDB      string       `yaml:"history_db"`
		Telegram       yamlTelegram `yaml:"telegram"`
		Tools          ToolsConfig  `yaml:"tools"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlCfg.MaxConcurrency != 0 {
		cfg.MaxConcurrency = yamlCfg.MaxConcurrency
	}
	if yamlCfg.ScanRate != 0 {
		cfg.ScanRate = yamlCfg.ScanRate
	}
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.ResultsDir != "" {
		cfg.ResultsDir = yamlCfg.ResultsDir
	}
	if yamlCfg.HistoryDB != "" {
		cfg.HistoryDB = yamlCfg.HistoryDB
	}
	if yamlCfg.Telegram.BotToken != "" {
		cfg.Telegram.BotToken = yamlCfg.Telegram.BotToken
	}
	if yamlCfg.Telegram.ChatID != "" {
		cfg.Telegram.ChatID = yamlCfg.Telegram.ChatID
	}
	if yamlCfg.Tools.Hydra != "" {
		cfg.Tools.Hydra = yamlCfg.Tools.Hydra
	}
	if yamlCfg.Tools.Ncrack != "" {
		cfg.Tools.Ncrack = yamlCfg.Tools.Ncrack
	}
	if yamlCfg.Tools.Masscan != "" {
		cfg.Tools.Masscan = yamlCfg.Tools.Masscan
	}

	durations := []struct {
		raw  string
		name string
		dst  *time.Duration
	}{
		{yamlCfg.TaskTimeout, "task_timeout", &cfg.TaskTimeout},
		{yamlCfg.ProbeTimeout, "probe_timeout", &cfg.ProbeTimeout},
		{yamlCfg.ScanTimeout, "scan_timeout", &cfg.ScanTimeout},
		{yamlCfg.ReportInterval, "report_interval", &cfg.ReportInterval},
		{yamlCfg.Telegram.Timeout, "telegram.timeout", &cfg.Telegram.Timeout},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s format %q: %w", d.name, d.raw, err)
		}
		*d.dst = parsed
	}

	cfg.applyEnv()
	return cfg, nil
}

// LoadConfigFromDir loads .harrier/config.yaml relative to dir.
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, ".harrier", "config.yaml"))
}

// applyEnv fills empty Telegram credentials from the environment.
func (c *Config) applyEnv() {
	if c.Telegram.BotToken == "" {
		c.Telegram.BotToken = os.Getenv(EnvBotToken)
	}
	if c.Telegram.ChatID == "" {
		c.Telegram.ChatID = os.Getenv(EnvChatID)
	}
}

// MergeWithFlags applies CLI flag values over the loaded configuration.
// Only non-nil pointers are applied; nil means the flag was not set.
func (c *Config) MergeWithFlags(maxConcurrency *int, taskTimeout *time.Duration, botToken, chatID, resultsDir *string, scanRate *int) {
	if maxConcurrency != nil {
		c.MaxConcurrency = *maxConcurrency
	}
	if taskTimeout != nil {
		c.TaskTimeout = *taskTimeout
	}
	if botToken != nil {
		c.Telegram.BotToken = *botToken
	}
	if chatID != nil {
		c.Telegram.ChatID = *chatID
	}
	if resultsDir != nil {
		c.ResultsDir = *resultsDir
	}
	if scanRate != nil {
		c.ScanRate = *scanRate
	}
}

// Validate checks that the merged configuration is usable.
func (c *Config) Validate() error {
	if c.MaxConcurrency <= 0 {
		return fmt.Errorf("max_concurrency must be positive, got %d", c.MaxConcurrency)
	}
	if c.TaskTimeout <= 0 {
		return fmt.Errorf("task_timeout must be positive, got %v", c.TaskTimeout)
	}
	if c.ProbeTimeout <= 0 {
		return fmt.Errorf("probe_timeout must be positive, got %v", c.ProbeTimeout)
	}
	if c.ReportInterval <= 0 {
		return fmt.Errorf("report_interval must be positive, got %v", c.ReportInterval)
	}
	if c.ScanRate <= 0 {
		return fmt.Errorf("scan_rate must be positive, got %d", c.ScanRate)
	}
	return nil
}

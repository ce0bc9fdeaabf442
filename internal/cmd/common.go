package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mwalsh/harrier/internal/config"
	"github.com/mwalsh/harrier/internal/logger"
	"github.com/mwalsh/harrier/internal/notify"
	"github.com/mwalsh/harrier/internal/session"
	"github.com/mwalsh/harrier/internal/store"
)

// addSweepFlags registers the flags shared by the scan and brute commands.
func addSweepFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "Path to config file (default: .harrier/config.yaml)")
	cmd.Flags().String("service", "", "Service to sweep: ssh or rdp")
	cmd.Flags().Int("max-concurrency", -1, "Maximum number of concurrent tasks (-1 = use config)")
	cmd.Flags().String("timeout", "", "Per-task timeout (e.g. 30s, 2m)")
	cmd.Flags().String("bot-token", "", "Telegram bot token (empty = notifications skipped)")
	cmd.Flags().String("chat-id", "", "Telegram chat id")
	cmd.Flags().String("results-dir", "", "Directory for result artifacts")
	cmd.MarkFlagRequired("service")
}

// loadSweepConfig loads the config file and merges sweep flag overrides.
func loadSweepConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
	} else {
		cfg, err = config.LoadConfigFromDir(".")
	}
	if err != nil {
		return nil, err
	}

	var maxConcurrencyPtr *int
	if cmd.Flags().Changed("max-concurrency") {
		v, _ := cmd.Flags().GetInt("max-concurrency")
		maxConcurrencyPtr = &v
	}

	var timeoutPtr *time.Duration
	if cmd.Flags().Changed("timeout") {
		raw, _ := cmd.Flags().GetString("timeout")
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, err
		}
		timeoutPtr = &timeout
	}

	var botTokenPtr, chatIDPtr, resultsDirPtr *string
	if cmd.Flags().Changed("bot-token") {
		v, _ := cmd.Flags().GetString("bot-token")
		botTokenPtr = &v
	}
	if cmd.Flags().Changed("chat-id") {
		v, _ := cmd.Flags().GetString("chat-id")
		chatIDPtr = &v
	}
	if cmd.Flags().Changed("results-dir") {
		v, _ := cmd.Flags().GetString("results-dir")
		resultsDirPtr = &v
	}

	var scanRatePtr *int
	if cmd.Flags().Changed("rate") {
		v, _ := cmd.Flags().GetInt("rate")
		scanRatePtr = &v
	}

	cfg.MergeWithFlags(maxConcurrencyPtr, timeoutPtr, botTokenPtr, chatIDPtr, resultsDirPtr, scanRatePtr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildSession assembles the shared session collaborators from configuration.
// A run-history open failure downgrades to a warning; history is optional.
func buildSession(cfg *config.Config) (session.Options, func()) {
	log := logger.NewConsoleLogger(os.Stdout, cfg.LogLevel)

	notifier := notify.NewTelegram(cfg.Telegram, log)
	if !notifier.Enabled() {
		log.Infof("telegram credentials absent, notifications disabled")
	}

	var history *store.History
	history, err := store.OpenHistory(cfg.HistoryDB)
	if err != nil {
		log.Warnf("run history unavailable: %v", err)
		history = nil
	}

	opts := session.Options{
		Config:   cfg,
		Logger:   log,
		Notifier: notifier,
		Results:  store.Results{Dir: cfg.ResultsDir},
		History:  history,
	}

	cleanup := func() {
		if history != nil {
			history.Close()
		}
	}
	return opts, cleanup
}

// signalContext returns a context cancelled on SIGINT/SIGTERM, giving the
// dispatcher its cooperative batch-cancellation signal.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

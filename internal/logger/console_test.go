package logger

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

// TestLevelFiltering verifies messages below the configured level are dropped.
func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewConsoleLogger(&buf, "warn")

	log.Debugf("debug %d", 1)
	log.Infof("info %d", 2)
	log.Warnf("warn %d", 3)
	log.Errorf("error %d", 4)

	out := buf.String()
	if strings.Contains(out, "debug 1") || strings.Contains(out, "info 2") {
		t.Errorf("low-level messages leaked: %q", out)
	}
	if !strings.Contains(out, "warn 3") || !strings.Contains(out, "error 4") {
		t.Errorf("expected warn/error messages, got %q", out)
	}
}

// TestInvalidLevelDefaultsToInfo verifies bad levels fall back to info.
func TestInvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewConsoleLogger(&buf, "chatty")

	log.Debugf("hidden")
	log.Infof("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message leaked at default level: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("info message missing: %q", out)
	}
}

// TestFormat verifies the [HH:MM:SS] [LEVEL] prefix on non-TTY output.
func TestFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewConsoleLogger(&buf, "info")

	log.Infof("hello")

	out := buf.String()
	if !strings.Contains(out, "] [INFO] hello\n") {
		t.Errorf("unexpected format: %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("ANSI codes on non-TTY writer: %q", out)
	}
}

// TestNilSafety verifies nil loggers and writers are silently ignored.
func TestNilSafety(t *testing.T) {
	var log *ConsoleLogger
	log.Infof("no panic")

	NewConsoleLogger(nil, "info").Infof("also fine")
}

// TestConcurrentUse hammers the logger from many goroutines; the race
// detector is the real assertion here.
func TestConcurrentUse(t *testing.T) {
	var buf bytes.Buffer
	log := NewConsoleLogger(&buf, "debug")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			log.Infof("message %d", n)
		}(i)
	}
	wg.Wait()

	if got := strings.Count(buf.String(), "\n"); got != 20 {
		t.Errorf("got %d lines, want 20", got)
	}
}

package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"spooltag/internal/config"
	"spooltag/internal/logging"
	"spooltag/internal/services"
)

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.File = filepath.Join(t.TempDir(), "logs", "spooltag.log")

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello file")

	content, err := os.ReadFile(cfg.Logging.File)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "hello file") {
		t.Fatalf("expected message in log file, got %q", content)
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message without caller")

	if strings.Contains(buf.String(), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", buf.String())
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message with caller")

	if !strings.Contains(buf.String(), "logger_test.go:") {
		t.Fatalf("expected caller information in debug logs, got %q", buf.String())
	}
}

func TestConsoleLoggerFormatsComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	engineLogger := logging.NewComponentLogger(logger, "engine")
	engineLogger.Info("tag written", logging.Int("channel", 2), logging.String("brand", "Generic PLA"))

	line := buf.String()
	if !strings.Contains(line, "INFO engine: tag written") {
		t.Fatalf("expected component prefix, got %q", line)
	}
	if !strings.Contains(line, "channel=2") || !strings.Contains(line, `brand="Generic PLA"`) {
		t.Fatalf("expected key/value fields, got %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should not repeat as a field, got %q", line)
	}
}

func TestJSONLoggerRenamesKeys(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Warn("device slow", logging.Error(errors.New("timeout")))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode json log: %v (%q)", err, buf.String())
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", entry)
	}
	if entry["level"] != "warn" || entry["msg"] != "device slow" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml", Writer: &bytes.Buffer{}}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWithContextAddsFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithChannel(context.Background(), 3)
	ctx = services.WithOperation(ctx, "write")
	ctx = services.WithRequestID(ctx, "req-1")
	logging.WithContext(ctx, logger).Info("dispatch")

	line := buf.String()
	for _, want := range []string{"channel=3", "operation=write", "correlation_id=req-1"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "confirmation failed", "confirm_refresh", logging.String(logging.FieldErrorHint, "check device"))

	line := buf.String()
	if !strings.Contains(line, "event_type=confirm_refresh") || !strings.Contains(line, `error_hint="check device"`) {
		t.Fatalf("unexpected warn line %q", line)
	}
	if !strings.Contains(line, "impact=") {
		t.Fatalf("expected default impact, got %q", line)
	}
}

func TestErrorWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.ErrorWithContext(logger, "confirmation read failed", "confirmation_failed", logging.Duration("delay", 1500*time.Millisecond))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected json entry: %v (%q)", err, buf.String())
	}
	if entry["level"] != "error" || entry[logging.FieldEventType] != "confirmation_failed" {
		t.Fatalf("unexpected entry %v", entry)
	}
	if _, ok := entry[logging.FieldErrorHint]; !ok {
		t.Fatalf("expected default error hint, got %v", entry)
	}
	if _, ok := entry["delay"]; !ok {
		t.Fatalf("expected delay attribute, got %v", entry)
	}
}

func TestConsoleMirrorsJSONOutput(t *testing.T) {
	var file, console bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &file, Console: &console})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("tag written", logging.Int("channel", 1))

	var entry map[string]any
	if err := json.Unmarshal(file.Bytes(), &entry); err != nil {
		t.Fatalf("expected json in primary output: %v (%q)", err, file.String())
	}
	if !strings.Contains(console.String(), "tag written") || strings.HasPrefix(console.String(), "{") {
		t.Fatalf("expected console formatted mirror, got %q", console.String())
	}
}

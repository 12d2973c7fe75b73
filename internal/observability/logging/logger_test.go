package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"DEBUG":    slog.LevelDebug,
		" warning": slog.LevelWarn,
		"critical": slog.LevelError,
		"":         slog.LevelInfo,
		"verbose":  slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestJSONLoggerCarriesServiceAttr(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "premium-api", "info", "json")
	logger.Debug("hidden")
	logger.Info("model_loaded", "classes", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected debug record to be filtered, got %d lines", len(lines))
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("expected json record: %v", err)
	}
	if record["service"] != "premium-api" || record["msg"] != "model_loaded" {
		t.Fatalf("unexpected record %v", record)
	}
}

func TestTextLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, "premium-api", "debug", "TEXT").Debug("ready")
	if !strings.Contains(buf.String(), "msg=ready") || !strings.Contains(buf.String(), "service=premium-api") {
		t.Fatalf("expected text record, got %q", buf.String())
	}
}

// File: logger_test.go
// Title: Logger Tests
// Description: Tests for level filtering, immutability of derived loggers,
//              formatters and error-severity routing.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-15

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	mdwerror "github.com/msto63/pratt/foundation/core/error"
)

func newBufferLogger(level Level, format Format) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return NewWithConfig(Config{Level: level, Format: format, Output: buf}), buf
}

func TestLevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(LevelWarn, FormatText)

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown")
	logger.Audit("always")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("output contains filtered entries: %s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "always") {
		t.Errorf("output missing entries: %s", out)
	}
}

func TestWithFieldIsImmutable(t *testing.T) {
	base, buf := newBufferLogger(LevelInfo, FormatJSON)
	derived := base.WithField("component", "lexer").WithRequestID("req-1")

	base.Info("from base")
	derived.Info("from derived")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	var first, second map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if _, ok := first["component"]; ok {
		t.Error("base logger picked up derived field")
	}
	if second["component"] != "lexer" {
		t.Errorf("component = %v, want lexer", second["component"])
	}
	if second["request_id"] != "req-1" {
		t.Errorf("request_id = %v, want req-1", second["request_id"])
	}
}

func TestTextFormatterSortsFields(t *testing.T) {
	f := &TextFormatter{DisableTimestamp: true}
	entry := NewEntry(LevelInfo, "dispatch")
	entry.Fields = Fields{"token": "+", "bp": 20, "index": 3}

	out, err := f.Format(entry)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	want := "[INF] dispatch [bp=20 index=3 token=+]\n"
	if string(out) != want {
		t.Errorf("Format() = %q, want %q", out, want)
	}
}

func TestLogfmtFormatter(t *testing.T) {
	f := NewLogfmtFormatter()
	entry := NewEntry(LevelDebug, "parsed")
	entry.Timestamp = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	entry.Fields = Fields{"input": "1 + 2", "nodes": 3}

	out, _ := f.Format(entry)
	want := `timestamp=2026-10-15T12:00:00Z level=debug message="parsed" input="1 + 2" nodes=3` + "\n"
	if string(out) != want {
		t.Errorf("Format() = %q, want %q", out, want)
	}
}

func TestConsoleFormatterColors(t *testing.T) {
	f := NewConsoleFormatter()
	f.DisableTimestamp = true
	out, _ := f.Format(NewEntry(LevelError, "x"))
	if !strings.HasPrefix(string(out), LevelError.Color()) {
		t.Errorf("Format() = %q, want color prefix", out)
	}
}

func TestLogErrorRoutesBySeverity(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		level string
	}{
		{"syntax error", mdwerror.New("bad").WithCode(mdwerror.CodeUnexpectedToken), "info"},
		{"storage error", mdwerror.New("bad").WithCode(mdwerror.CodeDatabaseError), "error"},
		{"plain error", errors.New("bad"), "warn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger(LevelTrace, FormatJSON)
			logger.LogError("request failed", tt.err)

			var got map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if got["level"] != tt.level {
				t.Errorf("level = %v, want %v", got["level"], tt.level)
			}
		})
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	if l.IsLevelEnabled(LevelAudit) {
		t.Error("Discard() logger should not enable audit")
	}
	l.Audit("nothing")
}

func TestNilLoggerLevelCheck(t *testing.T) {
	var l *Logger
	if l.IsLevelEnabled(LevelError) {
		t.Error("nil logger should report every level disabled")
	}
}

func TestParseLevelAndFormat(t *testing.T) {
	if lvl, err := ParseLevel("TRACE"); err != nil || lvl != LevelTrace {
		t.Errorf("ParseLevel(TRACE) = %v, %v", lvl, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("ParseLevel(loud) should fail")
	}
	if f, err := ParseFormat("logfmt"); err != nil || f != FormatLogfmt {
		t.Errorf("ParseFormat(logfmt) = %v, %v", f, err)
	}
}

func TestTimer(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, FormatJSON)

	timer := logger.StartTimer("parse").WithField("input", "1+2")
	if !timer.IsRunning() {
		t.Error("timer should be running")
	}
	if d := timer.Stop(); d < 0 {
		t.Errorf("Stop() = %v", d)
	}
	if d := timer.Stop(); d != 0 {
		t.Errorf("second Stop() = %v, want 0", d)
	}

	var got map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got["message"] != "parse completed" {
		t.Errorf("message = %v", got["message"])
	}
	if got["operation"] != "parse" || got["input"] != "1+2" {
		t.Errorf("fields = %v", got)
	}
}

func TestTimerStopWithError(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, FormatJSON)
	logger.StartTimer("evaluate").StopWithError(mdwerror.New("x").WithCode(mdwerror.CodeDatabaseError))

	var got map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got["success"] != false {
		t.Errorf("success = %v, want false", got["success"])
	}
	if got["error_code"] != "DATABASE_ERROR" {
		t.Errorf("error_code = %v", got["error_code"])
	}
}

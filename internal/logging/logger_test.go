package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{
		Level:  LevelDebug,
		Output: &buf,
		JSON:   true,
	}

	logger := New(cfg)
	if logger == nil {
		t.Fatal("New logger should not be nil")
	}

	t.Run("Levels", func(t *testing.T) {
		buf.Reset()
		logger.Debug("debug msg")
		if !strings.Contains(buf.String(), "debug msg") {
			t.Error("debug logging failed")
		}

		buf.Reset()
		logger.Warn("warn msg")
		if !strings.Contains(buf.String(), "warn msg") {
			t.Error("warn logging failed")
		}
	})

	t.Run("WithComponent", func(t *testing.T) {
		buf.Reset()
		l := logger.WithComponent("adapter")
		l.Info("msg")
		if !strings.Contains(buf.String(), "adapter") {
			t.Error("WithComponent missing component field")
		}
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", LevelInfo, true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseLevel(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseLevel(%q) err = %v", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestDefaultLogger(t *testing.T) {
	l := Default()
	if l == nil {
		t.Fatal("Default logger is nil")
	}

	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Output = &buf
	SetDefault(New(cfg))
	defer SetDefault(l)

	Error("error")
	WithComponent("comp").Info("comp msg")

	if buf.Len() == 0 {
		t.Error("Default logger captured no output")
	}
}

func TestConsoleHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelInfo, Output: &buf})

	l.WithComponent("DNS").Info("set servers", "adapter", "Uplink Port", "count", 2)

	line := buf.String()
	if !strings.Contains(line, "nicctl[") {
		t.Errorf("missing process tag: %q", line)
	}
	if !strings.Contains(line, "[info] dns: set servers") {
		t.Errorf("missing level/component header: %q", line)
	}
	if !strings.Contains(line, `adapter="Uplink Port"`) {
		t.Errorf("values with spaces should be quoted: %q", line)
	}
	if !strings.Contains(line, "count=2") {
		t.Errorf("missing attribute: %q", line)
	}
}

func TestConsoleHandlerGroups(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelInfo, Output: &buf})

	l.WithGroup("link").Info("state", "name", "eth0", "up", true)
	l.Info("restart", slog.Group("wait", "mode", "link"))

	out := buf.String()
	for _, want := range []string{"link.name=eth0", "link.up=true", "wait.mode=link"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error("nothing")
	l.Audit("op", "restart", "eth0", nil)
}

func TestJSONLogParsing(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{Level: LevelInfo, Output: &buf, JSON: true}
	l := New(cfg)

	l.Info("json test", "key", "value")

	var data map[string]any
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}

	if data["msg"] != "json test" {
		t.Error("JSON msg field incorrect")
	}
	if data["key"] != "value" {
		t.Error("JSON extra field incorrect")
	}
	if data["level"] != "INFO" {
		t.Error("JSON level incorrect")
	}
}

func TestLogFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "nicctl.log")
	l := New(Config{Level: LevelInfo, Output: &buf, File: path})

	l.WithComponent("adapter").Info("file test", "adapter", "Uplink")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "file test") {
		t.Errorf("log file missing record: %q", data)
	}
	if !strings.Contains(buf.String(), "file test") {
		t.Errorf("console output missing record: %q", buf.String())
	}
}

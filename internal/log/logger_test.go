package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/voicelayer/annotate/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLoggerWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(&buf, config.LogFormatJSON, "INFO")

	l.Info("run finished", "results", 10)

	out := buf.String()
	if !strings.Contains(out, `"msg":"run finished"`) {
		t.Errorf("expected JSON output, got: %s", out)
	}
	if !strings.Contains(out, `"results":10`) {
		t.Errorf("expected attr in JSON output, got: %s", out)
	}
}

func TestNewLoggerWithWriter_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(&buf, config.LogFormatPretty, "WARN")

	l.Info("should be dropped")
	if buf.Len() != 0 {
		t.Errorf("info logged below level: %s", buf.String())
	}

	l.Warn("should appear")
	if buf.Len() == 0 {
		t.Error("warn not logged at warn level")
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(&buf, config.LogFormatPretty, "INFO").With("run_id", "abc")

	l.Info("started")
	if !strings.Contains(buf.String(), "abc") {
		t.Errorf("expected inherited attr, got: %s", buf.String())
	}
}

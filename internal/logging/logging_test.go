package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func fixedLogger(cfg Config) *Logger {
	l := NewLogger(cfg)
	l.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return l
}

func TestNewLogger(t *testing.T) {
	t.Run("unknown level falls back to info", func(t *testing.T) {
		l := NewLogger(Config{Level: "loud", Output: &bytes.Buffer{}})
		if l.Level() != InfoLevel {
			t.Errorf("Level() = %q, want info", l.Level())
		}
	})

	t.Run("custom output", func(t *testing.T) {
		buf := &bytes.Buffer{}
		l := NewLogger(Config{Level: InfoLevel, Output: buf})
		if l.writer != buf {
			t.Error("logger should use provided writer")
		}
	})
}

func TestLogLevelFiltering(t *testing.T) {
	tests := []struct {
		name      string
		configLvl LogLevel
		logLvl    LogLevel
		shouldLog bool
	}{
		{"debug logs debug", DebugLevel, DebugLevel, true},
		{"info skips debug", InfoLevel, DebugLevel, false},
		{"info logs warn", InfoLevel, WarnLevel, true},
		{"warn skips info", WarnLevel, InfoLevel, false},
		{"error logs error", ErrorLevel, ErrorLevel, true},
		{"silent skips error", SilentLevel, ErrorLevel, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			l := NewLogger(Config{Level: tt.configLvl, Output: buf})
			l.log(tt.logLvl, "message", nil)
			if got := buf.Len() > 0; got != tt.shouldLog {
				t.Errorf("logged = %v, want %v", got, tt.shouldLog)
			}
		})
	}
}

func TestHumanFormatSortsFields(t *testing.T) {
	buf := &bytes.Buffer{}
	l := fixedLogger(Config{Format: HumanFormat, Level: DebugLevel, Output: buf})

	l.Warn("git timed out", map[string]interface{}{"timeout": "30s", "args": "log", "files": 3})

	want := "2024-03-01T12:00:00Z [warn] git timed out | args=log, files=3, timeout=30s\n"
	if buf.String() != want {
		t.Errorf("got %q\nwant %q", buf.String(), want)
	}
}

func TestJSONFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	l := fixedLogger(Config{Format: JSONFormat, Level: InfoLevel, Output: buf})

	l.Info("collected", map[string]interface{}{"files": 12})

	var entry logEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if entry.Level != "info" || entry.Message != "collected" {
		t.Errorf("unexpected entry: %+v", entry)
	}
	if entry.Fields["files"].(float64) != 12 {
		t.Errorf("fields = %v", entry.Fields)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"", InfoLevel, false},
		{"DEBUG", DebugLevel, false},
		{"warning", WarnLevel, false},
		{" error ", ErrorLevel, false},
		{"chatty", InfoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLevelFromVerbosity(t *testing.T) {
	if LevelFromVerbosity(0, false) != WarnLevel {
		t.Error("default verbosity should be warn")
	}
	if LevelFromVerbosity(1, false) != InfoLevel {
		t.Error("-v should be info")
	}
	if LevelFromVerbosity(3, false) != DebugLevel {
		t.Error("-vv and above should be debug")
	}
	if LevelFromVerbosity(2, true) != ErrorLevel {
		t.Error("quiet wins over verbosity")
	}
}

func TestDiscardLoggerAndNilSafety(t *testing.T) {
	NewDiscardLogger().Error("dropped", nil)

	var l *Logger
	l.Info("nil logger must not panic", nil)

	buf := &bytes.Buffer{}
	NewLogger(Config{Level: DebugLevel, Output: buf}).Debug("x", nil)
	if !strings.Contains(buf.String(), "[debug] x") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

package logger

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewRespectsLevel(t *testing.T) {
	cases := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"WARN", zapcore.WarnLevel},
		{"invalid", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tc := range cases {
		log := New(tc.level, "")
		if log == nil {
			t.Fatalf("expected logger for level %q", tc.level)
		}
		core := log.Core()
		if !core.Enabled(tc.want) {
			t.Fatalf("expected level %v enabled for %q", tc.want, tc.level)
		}
		if tc.want > zapcore.DebugLevel && core.Enabled(tc.want-1) {
			t.Fatalf("expected level %v disabled for %q", tc.want-1, tc.level)
		}
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.log")

	log := New("info", path)
	log.Info("service started")
	_ = log.Sync()

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected log file to exist: %v", err)
	}
}

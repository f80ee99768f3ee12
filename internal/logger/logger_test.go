package logger

import (
	"testing"
	"time"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		input    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"invalid", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tc := range testCases {
		result := ParseLevel(tc.input)
		if result != tc.expected {
			t.Errorf("ParseLevel(%q) = %v, expected %v", tc.input, result, tc.expected)
		}
	}
}

func TestLoggersDoNotPanic(t *testing.T) {
	jsonLogger := NewFromConfig("info", "json")
	textLogger := NewFromConfig("debug", "text")

	jsonLogger.Info("test message", String("key1", "value1"), Int("key2", 42))
	jsonLogger.Warn("warn message", Uint64("version", 7), Bool("applied", true))
	textLogger.Debug("debug message", Duration("elapsed", time.Millisecond))
}

func TestWithRequest(t *testing.T) {
	base := NewFromConfig("info", "json")
	requestLogger := base.WithRequest("req-123")
	if requestLogger == nil {
		t.Fatal("expected request-scoped logger")
	}
	requestLogger.Info("scoped message")
}

func TestWithFields(t *testing.T) {
	base := NewFromConfig("error", "text")
	scoped := base.WithFields(String("component", "dispatcher"))
	if scoped == nil {
		t.Fatal("expected field-scoped logger")
	}
	scoped.Error("scoped error")
}

func TestDefaultLogger(t *testing.T) {
	original := GetDefault()
	defer SetDefault(original)

	replacement := NewFromConfig("error", "json")
	SetDefault(replacement)
	if GetDefault() != replacement {
		t.Error("expected SetDefault to replace the default logger")
	}
}

package modeltx_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/modeltx/modeltx/pkg/modeltx"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := modeltx.NewLogger(&buf, zerolog.InfoLevel)

	logger.Info().Msg("test message")

	output := buf.String()
	if !strings.Contains(output, "test message") {
		t.Errorf("Expected log output to contain 'test message', got: %s", output)
	}
	if !strings.HasSuffix(strings.TrimSpace(output), "lib=modeltx") {
		t.Errorf("Expected log output to end with 'lib=modeltx', got: %s", output)
	}
}

func TestLogLevelFromString(t *testing.T) {
	testCases := []struct {
		levelStr string
		expected zerolog.Level
		wantErr  bool
	}{
		{"trace", zerolog.TraceLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{"info", zerolog.InfoLevel, false},
		{"warn", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"WARN", zerolog.WarnLevel, false},
		{"invalid", zerolog.NoLevel, true},
	}

	for _, tc := range testCases {
		t.Run(tc.levelStr, func(t *testing.T) {
			level, err := modeltx.LogLevelFromString(tc.levelStr)

			if tc.wantErr {
				if err == nil {
					t.Errorf("Expected error for invalid level %q", tc.levelStr)
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}
			if level != tc.expected {
				t.Errorf("Expected level %v, got %v", tc.expected, level)
			}
		})
	}
}

func TestLoggerAdapter(t *testing.T) {
	var buf bytes.Buffer
	zl := modeltx.NewLogger(&buf, zerolog.DebugLevel)
	logger := modeltx.NewLoggerAdapter(&zl)

	logger.Info().
		Str("scope", "demo").
		Int("count", 2).
		Bool("ok", true).
		Msg("adapted event")

	output := buf.String()
	for _, want := range []string{"adapted event", "scope=demo", "count=2", "ok=true"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected log output to contain %q, got: %s", want, output)
		}
	}
}

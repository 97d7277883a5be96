package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    zapcore.Level
		wantErr bool
	}{
		{input: "", want: zap.InfoLevel},
		{input: "debug", want: zap.DebugLevel},
		{input: " INFO ", want: zap.InfoLevel},
		{input: "warning", want: zap.WarnLevel},
		{input: "error", want: zap.ErrorLevel},
		{input: "trace", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidLevel) {
					t.Errorf("ParseLevel(%q) error = %v, want ErrInvalidLevel", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLevel(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json output with fields", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger, err := New("warn", FormatJSON, &buf)
		if err != nil {
			t.Fatalf("New error: %v", err)
		}
		logger.Info("hidden")
		logger.Warn("typeset failed", zap.String("expression", `\frac{a}{b`))

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 1 {
			t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}
		if entry["msg"] != "typeset failed" || entry["expression"] != `\frac{a}{b` {
			t.Errorf("entry = %v", entry)
		}
	})

	t.Run("console output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger, err := New("debug", "", &buf)
		if err != nil {
			t.Fatalf("New error: %v", err)
		}
		logger.Debug("editor commit", zap.Int("bytes", 7))
		if !strings.Contains(buf.String(), "editor commit") {
			t.Errorf("output = %q", buf.String())
		}
	})

	t.Run("invalid settings", func(t *testing.T) {
		t.Parallel()

		if _, err := New("loud", "", &bytes.Buffer{}); !errors.Is(err, ErrInvalidLevel) {
			t.Errorf("New(loud) error = %v, want ErrInvalidLevel", err)
		}
		if _, err := New("info", "xml", &bytes.Buffer{}); !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("New(xml) error = %v, want ErrInvalidFormat", err)
		}
	})
}

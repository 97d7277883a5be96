package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-quizmark/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides container-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // QUIZMARK_CONFIG: config file name or path
	Engine     string // QUIZMARK_ENGINE: mathml, katex
	LogLevel   string // QUIZMARK_LOG_LEVEL: debug, info, warn, error
	LogFormat  string // QUIZMARK_LOG_FORMAT: console, json
	Addr       string // QUIZMARK_ADDR: serve listen address
	DebounceMs int    // QUIZMARK_DEBOUNCE_MS: editor debounce window
	Workers    int    // QUIZMARK_WORKERS: parallel renderers
}

// knownEnvVars lists valid QUIZMARK_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"QUIZMARK_CONFIG":      true,
	"QUIZMARK_ENGINE":      true,
	"QUIZMARK_LOG_LEVEL":   true,
	"QUIZMARK_LOG_FORMAT":  true,
	"QUIZMARK_ADDR":        true,
	"QUIZMARK_DEBOUNCE_MS": true,
	"QUIZMARK_WORKERS":     true,
}

// loadEnvConfig reads configuration from environment variables.
// Unparsable numbers are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("QUIZMARK_CONFIG"),
		Engine:     os.Getenv("QUIZMARK_ENGINE"),
		LogLevel:   os.Getenv("QUIZMARK_LOG_LEVEL"),
		LogFormat:  os.Getenv("QUIZMARK_LOG_FORMAT"),
		Addr:       os.Getenv("QUIZMARK_ADDR"),
	}

	if ms := os.Getenv("QUIZMARK_DEBOUNCE_MS"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 {
			cfg.DebounceMs = v
		}
	}

	if workers := os.Getenv("QUIZMARK_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized QUIZMARK_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "QUIZMARK_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies set environment variables over the config.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied afterwards by each command).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Engine != "" {
		cfg.Render.Engine = env.Engine
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
	if env.LogFormat != "" {
		cfg.Log.Format = env.LogFormat
	}
	if env.Addr != "" {
		cfg.Server.Addr = env.Addr
	}
	if env.DebounceMs > 0 {
		cfg.Editor.DebounceMs = env.DebounceMs
	}
}

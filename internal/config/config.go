package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/alnah/go-quizmark/internal/fileutil"
	"github.com/alnah/go-quizmark/internal/logging"
	"github.com/alnah/go-quizmark/internal/typeset"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidConfig   = errors.New("invalid config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
)

// MaxInputSize limits config files to prevent memory exhaustion (1MB).
var MaxInputSize = 1 << 20

// Field limits.
const (
	MaxStyleLength      = 50
	MaxAddrLength       = 256
	MaxPathLength       = 4096
	MaxDebounce         = time.Minute
	DefaultAddr         = "127.0.0.1:8080"
	DefaultReadTimeout  = 10 // seconds
	DefaultWriteTimeout = 30 // seconds
	DefaultMaxBodyBytes = 1 << 20
)

// Config holds all configuration for the quizmark command.
type Config struct {
	Render RenderConfig `yaml:"render"`
	Page   PageConfig   `yaml:"page"`
	Editor EditorConfig `yaml:"editor"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

// RenderConfig defines the display pipeline.
type RenderConfig struct {
	Engine    string          `yaml:"engine"` // "mathml" (default) or "katex"
	Policy    bool            `yaml:"policy"` // apply the UGC content policy before parsing
	Highlight HighlightConfig `yaml:"highlight"`
}

// HighlightConfig defines code block highlighting.
type HighlightConfig struct {
	Enabled bool   `yaml:"enabled"`
	Style   string `yaml:"style"` // chroma style name (default: "github")
}

// PageConfig defines the standalone view page written by the render command.
type PageConfig struct {
	Template  string `yaml:"template"`  // template name (default: "page")
	Style     string `yaml:"style"`     // stylesheet name (default: "default")
	AssetPath string `yaml:"assetPath"` // directory overriding embedded assets
	Plain     bool   `yaml:"plain"`     // omit the stylesheet
}

// EditorConfig defines the authoring editor.
type EditorConfig struct {
	DebounceMs int `yaml:"debounceMs"` // 0 = 500ms
}

// ServerConfig defines the preview server.
type ServerConfig struct {
	Addr                string `yaml:"addr"`
	ReadTimeoutSeconds  int    `yaml:"readTimeoutSeconds"`
	WriteTimeoutSeconds int    `yaml:"writeTimeoutSeconds"`
	MaxBodyBytes        int64  `yaml:"maxBodyBytes"`
}

// LogConfig defines logging output.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

// Debounce returns the configured debounce window, or zero for the default.
func (e EditorConfig) Debounce() time.Duration {
	return time.Duration(e.DebounceMs) * time.Millisecond
}

// ReadTimeout returns the server read timeout.
func (s ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the server write timeout.
func (s ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSeconds) * time.Second
}

// Validate checks values and field lengths.
// Called automatically by LoadConfig, but available for callers that build
// a Config by hand or override fields from the environment.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Render.Engine) {
	case "", typeset.NameMathML, typeset.NameKaTeX:
	default:
		return fmt.Errorf("%w: render.engine: %q (must be %s or %s)",
			ErrInvalidConfig, c.Render.Engine, typeset.NameMathML, typeset.NameKaTeX)
	}
	if err := validateFieldLength("render.highlight.style", c.Render.Highlight.Style, MaxStyleLength); err != nil {
		return err
	}

	if err := validateFieldLength("page.template", c.Page.Template, MaxStyleLength); err != nil {
		return err
	}
	if err := validateFieldLength("page.style", c.Page.Style, MaxStyleLength); err != nil {
		return err
	}
	if err := validateFieldLength("page.assetPath", c.Page.AssetPath, MaxPathLength); err != nil {
		return err
	}

	if c.Editor.DebounceMs < 0 || c.Editor.Debounce() > MaxDebounce {
		return fmt.Errorf("%w: editor.debounceMs: must be between 0 and %d, got %d",
			ErrInvalidConfig, MaxDebounce.Milliseconds(), c.Editor.DebounceMs)
	}

	if err := validateFieldLength("server.addr", c.Server.Addr, MaxAddrLength); err != nil {
		return err
	}
	if c.Server.ReadTimeoutSeconds < 0 || c.Server.WriteTimeoutSeconds < 0 {
		return fmt.Errorf("%w: server timeouts cannot be negative", ErrInvalidConfig)
	}
	if c.Server.MaxBodyBytes < 0 {
		return fmt.Errorf("%w: server.maxBodyBytes cannot be negative", ErrInvalidConfig)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalidConfig, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", logging.FormatConsole, logging.FormatJSON:
	default:
		return fmt.Errorf("%w: log.format: %q (must be %s or %s)",
			ErrInvalidConfig, c.Log.Format, logging.FormatConsole, logging.FormatJSON)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{Engine: typeset.NameMathML},
		Server: ServerConfig{
			Addr:                DefaultAddr,
			ReadTimeoutSeconds:  DefaultReadTimeout,
			WriteTimeoutSeconds: DefaultWriteTimeout,
			MaxBodyBytes:        DefaultMaxBodyBytes,
		},
		Log: LogConfig{Level: "info", Format: logging.FormatConsole},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields missing from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML config data over DefaultConfig. Unknown fields are
// rejected.
func Parse(data []byte) (*Config, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty data", ErrConfigParse)
	}
	if len(data) > MaxInputSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrConfigParse, len(data), MaxInputSize)
	}

	cfg := DefaultConfig()
	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SearchPaths lists the files tried for a config name, in order:
// ./name.yaml, ./name.yml, then the same names in the user config
// directory (~/.config/quizmark/ on Linux).
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, "quizmark", name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing file from SearchPaths.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}

// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"path/filepath"
	"strings"
)

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config and creating a config in the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Find a user config path (inside a quizmark directory) to suggest
	for _, p := range searchedPaths {
		if filepath.Base(filepath.Dir(p)) == "quizmark" {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForUnknownEngine lists the engines accepted by --engine.
func ForUnknownEngine(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available engines: " + strings.Join(available, ", "))
}

// ForEngineUnavailable explains how to get an engine that needs cgo.
func ForEngineUnavailable() string {
	return format("rebuild with CGO_ENABLED=1 or use --engine mathml")
}

// ForStyleNotFound lists the built-in stylesheets.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("built-in styles: " + strings.Join(available, ", ") + "; use --asset-path for your own")
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForAddressInUse returns hints for a listen address that is taken.
func ForAddressInUse(addr string) string {
	return format("another process listens on " + addr + "; use --addr or QUIZMARK_ADDR")
}

// ForEditScript describes the edit script syntax.
func ForEditScript() string {
	return formatHints([]string{
		"commands: text, bold, italic, code, math, display, br, para, paragraph, heading N, codeblock [lang], markdown, replace, wait MS, flush",
		"run 'quizmark help edit' for details",
	})
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}

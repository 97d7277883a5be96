package main

import (
	"errors"
	"os"

	"github.com/alnah/go-quizmark"
	"github.com/alnah/go-quizmark/internal/assets"
	"github.com/alnah/go-quizmark/internal/config"
	"github.com/alnah/go-quizmark/internal/pipeline"
)

// Exit codes for the quizmark CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful run
	ExitGeneral = 1 // General/unexpected error, or some files failed to render
	ExitUsage   = 2 // Invalid flags, config, engine or edit script
	ExitIO      = 3 // File not found, permission denied
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnsupportedInput) ||
		errors.Is(err, ErrEditScript) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrInvalidConfig) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, assets.ErrStyleNotFound) ||
		errors.Is(err, assets.ErrTemplateNotFound) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, assets.ErrInvalidBasePath) ||
		errors.Is(err, assets.ErrPathTraversal) ||
		errors.Is(err, pipeline.ErrPageTemplate) ||
		errors.Is(err, quizmark.ErrUnknownEngine) ||
		errors.Is(err, quizmark.ErrEngineUnavailable) ||
		errors.Is(err, quizmark.ErrEmptyMath) ||
		errors.Is(err, quizmark.ErrInvalidHeadingLevel) {
		return ExitUsage
	}

	return ExitGeneral
}

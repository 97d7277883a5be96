package main

// Notes:
// - exitCodeFor: we test the sentinel errors from the quizmark, config, assets
//   and pipeline packages, plus wrapped errors to verify the errors.Is() chain.
// - Exit code constants: we verify Unix conventions (0=success, 1=general, 2=usage)
//   and custom codes are below 126.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/alnah/go-quizmark"
	"github.com/alnah/go-quizmark/internal/assets"
	"github.com/alnah/go-quizmark/internal/config"
	"github.com/alnah/go-quizmark/internal/pipeline"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to exit code mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		// Success
		{"nil error", nil, ExitSuccess},

		// I/O errors (exit 3)
		{"file not exist", os.ErrNotExist, ExitIO},
		{"permission denied", os.ErrPermission, ExitIO},
		{"no input", ErrNoInput, ExitIO},
		{"read input", ErrReadInput, ExitIO},
		{"write output", ErrWriteOutput, ExitIO},
		{"wrapped file not exist", fmt.Errorf("reading: %w", os.ErrNotExist), ExitIO},

		// Usage/config/validation errors (exit 2)
		{"unknown command", ErrUnknownCommand, ExitUsage},
		{"usage", ErrUsage, ExitUsage},
		{"unsupported input", ErrUnsupportedInput, ExitUsage},
		{"edit script", ErrEditScript, ExitUsage},
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"empty config name", config.ErrEmptyConfigName, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"invalid config", config.ErrInvalidConfig, ExitUsage},
		{"field too long", config.ErrFieldTooLong, ExitUsage},
		{"unknown engine", quizmark.ErrUnknownEngine, ExitUsage},
		{"engine unavailable", quizmark.ErrEngineUnavailable, ExitUsage},
		{"empty math", quizmark.ErrEmptyMath, ExitUsage},
		{"invalid heading level", quizmark.ErrInvalidHeadingLevel, ExitUsage},
		{"wrapped edit script", fmt.Errorf("line 3: %w", ErrEditScript), ExitUsage},
		{"style not found", assets.ErrStyleNotFound, ExitUsage},
		{"template not found", assets.ErrTemplateNotFound, ExitUsage},
		{"invalid asset name", assets.ErrInvalidAssetName, ExitUsage},
		{"invalid asset path", assets.ErrInvalidBasePath, ExitUsage},
		{"asset path traversal", assets.ErrPathTraversal, ExitUsage},
		{"invalid page template", fmt.Errorf("template %q: %w", "x", pipeline.ErrPageTemplate), ExitUsage},

		// General errors (exit 1)
		{"render failed", ErrRenderFailed, ExitGeneral},
		{"internal", quizmark.ErrInternal, ExitGeneral},
		{"canceled", context.Canceled, ExitGeneral},
		{"unknown error", errors.New("boom"), ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestExitCodeConstants - Unix conventions
// ---------------------------------------------------------------------------

func TestExitCodeConstants(t *testing.T) {
	t.Parallel()

	if ExitSuccess != 0 {
		t.Errorf("ExitSuccess = %d, want 0", ExitSuccess)
	}
	if ExitGeneral != 1 {
		t.Errorf("ExitGeneral = %d, want 1", ExitGeneral)
	}
	if ExitUsage != 2 {
		t.Errorf("ExitUsage = %d, want 2", ExitUsage)
	}
	for _, code := range []int{ExitSuccess, ExitGeneral, ExitUsage, ExitIO} {
		if code >= 126 {
			t.Errorf("exit code %d collides with shell-reserved codes", code)
		}
	}
}

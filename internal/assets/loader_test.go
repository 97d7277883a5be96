package assets

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple name", "default", false},
		{"hyphenated name", "exam-print", false},
		{"underscore name", "exam_print", false},
		{"empty name", "", true},
		{"forward slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"parent reference", "..", true},
		{"extension included", "default.css", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateAssetName(tt.input)
			if tt.wantErr && !errors.Is(err, ErrInvalidAssetName) {
				t.Errorf("ValidateAssetName(%q) error = %v, want ErrInvalidAssetName", tt.input, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateAssetName(%q) unexpected error: %v", tt.input, err)
			}
		})
	}
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"style not found", ErrStyleNotFound, true},
		{"wrapped template not found", fmt.Errorf("%w: %q", ErrTemplateNotFound, "x"), true},
		{"invalid name", ErrInvalidAssetName, false},
		{"read error", ErrAssetRead, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := IsNotFound(tt.err); got != tt.want {
				t.Errorf("IsNotFound(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

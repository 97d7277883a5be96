package assets

import (
	"errors"
	"fmt"
	"strings"
)

// Built-in asset names.
const (
	DefaultStyleName    = "default"
	DefaultTemplateName = "page"
)

// AssetLoader defines the contract for loading page stylesheets and templates.
type AssetLoader interface {
	// LoadStyle loads a stylesheet by name (without .css extension).
	LoadStyle(name string) (string, error)

	// LoadTemplate loads a page template by name (without .html extension).
	LoadTemplate(name string) (string, error)
}

// ValidateAssetName rejects names that are empty or could address a file
// other than {name}.css or {name}.html in the asset directory.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

// IsNotFound reports whether err means the asset does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrStyleNotFound) || errors.Is(err, ErrTemplateNotFound)
}

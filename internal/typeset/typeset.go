// Package typeset turns raw LaTeX expressions into display markup.
//
// Engines are reached through the narrow Engine interface so the display
// pipeline never depends on a concrete math library:
//   - MathML: pure Go, backed by latex2mathml (default)
//   - KaTeX: KaTeX HTML through goldmark-katex (requires cgo)
//
// Every engine runs Validate first, so malformed input is reported the same
// way regardless of how forgiving the underlying library is.
package typeset

import (
	"errors"
	"fmt"
	"strings"
)

// Engine names accepted by New.
const (
	NameMathML = "mathml"
	NameKaTeX  = "katex"
)

// Sentinel errors for typesetting.
var (
	ErrMalformedExpression = errors.New("malformed math expression")
	ErrEmptyExpression     = errors.New("empty math expression")
	ErrUnknownEngine       = errors.New("unknown typesetting engine")
	ErrEngineUnavailable   = errors.New("typesetting engine unavailable in this build")
)

// Engine typesets one expression. display selects block layout.
type Engine interface {
	Typeset(expr string, display bool) (string, error)
}

// EngineFunc adapts a plain function to Engine.
type EngineFunc func(expr string, display bool) (string, error)

// Typeset calls f.
func (f EngineFunc) Typeset(expr string, display bool) (string, error) {
	return f(expr, display)
}

// TypesetError describes why an expression could not be typeset.
// Offset is the byte offset of the offending token, or -1 when unknown.
type TypesetError struct {
	Expr   string
	Offset int
	Reason string
	Err    error
}

func (e *TypesetError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("typeset %q: %s at offset %d", e.Expr, e.Reason, e.Offset)
	}
	return fmt.Sprintf("typeset %q: %s", e.Expr, e.Reason)
}

func (e *TypesetError) Unwrap() error {
	return e.Err
}

// malformed builds a TypesetError wrapping ErrMalformedExpression.
func malformed(expr string, offset int, reason string) *TypesetError {
	return &TypesetError{Expr: expr, Offset: offset, Reason: reason, Err: ErrMalformedExpression}
}

// engineFailure wraps an error reported by an underlying library.
func engineFailure(expr string, err error) *TypesetError {
	return &TypesetError{
		Expr:   expr,
		Offset: -1,
		Reason: err.Error(),
		Err:    fmt.Errorf("%w: %w", ErrMalformedExpression, err),
	}
}

// New returns the engine registered under name. An empty name selects MathML.
func New(name string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameMathML:
		return NewMathML(), nil
	case NameKaTeX:
		k, err := NewKaTeX()
		if err != nil {
			return nil, err
		}
		return k, nil
	default:
		return nil, fmt.Errorf("%w: %q (want %s or %s)", ErrUnknownEngine, name, NameMathML, NameKaTeX)
	}
}

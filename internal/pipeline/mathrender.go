package pipeline

import (
	"context"
	"strings"

	"github.com/andybalholm/cascadia"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/alnah/go-quizmark/internal/document"
	"github.com/alnah/go-quizmark/internal/typeset"
)

// MathRenderer defines the contract for typesetting math nodes in a tree.
type MathRenderer interface {
	RenderMath(ctx context.Context, tree *Tree) ([]Failure, error)
}

// Failure records one math node that could not be typeset.
type Failure struct {
	Latex   string
	Display bool
	Err     error
}

var mathSelector = cascadia.MustCompile(`[data-type="math"][latex]`)

// MathTypesetting typesets math nodes with a typeset.Engine.
type MathTypesetting struct {
	engine typeset.Engine
	logger *zap.Logger
}

// NewMathTypesetting creates a MathTypesetting. A nil logger disables logging.
func NewMathTypesetting(engine typeset.Engine, logger *zap.Logger) *MathTypesetting {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MathTypesetting{engine: engine, logger: logger}
}

// RenderMath replaces the content of every math node with typeset output.
//
// Nodes with an empty latex attribute are left alone. Presence of the
// displaymode attribute selects display layout. A node whose expression
// fails to typeset keeps its content and its attributes; the failure is
// logged and returned, and the walk continues. The error is only set when
// ctx is cancelled.
func (m *MathTypesetting) RenderMath(ctx context.Context, tree *Tree) ([]Failure, error) {
	var failures []Failure
	root := tree.Root()

	for _, n := range mathSelector.MatchAll(root) {
		if err := ctx.Err(); err != nil {
			return failures, err
		}
		if !attached(n, root) {
			continue
		}

		latex, _ := getAttr(n, document.AttrLatex)
		if latex == "" {
			continue
		}
		display := hasAttr(n, document.AttrDisplayMode)

		out, err := m.typeset(latex, display)
		if err == nil {
			var nodes []*html.Node
			nodes, err = html.ParseFragment(strings.NewReader(out), n)
			if err == nil {
				replaceChildren(n, nodes)
				continue
			}
		}

		m.logger.Warn("typeset failed",
			zap.String("expression", latex),
			zap.Bool("display", display),
			zap.Error(err),
		)
		failures = append(failures, Failure{Latex: latex, Display: display, Err: err})
	}
	return failures, nil
}

// typeset calls the engine and converts a panic or empty output into an error.
func (m *MathTypesetting) typeset(latex string, display bool) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &typeset.TypesetError{Expr: latex, Offset: -1, Reason: "engine panic", Err: typeset.ErrMalformedExpression}
		}
	}()
	out, err = m.engine.Typeset(latex, display)
	if err == nil && strings.TrimSpace(out) == "" {
		err = &typeset.TypesetError{Expr: latex, Offset: -1, Reason: "empty output", Err: typeset.ErrMalformedExpression}
	}
	return out, err
}

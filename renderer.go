package quizmark

import (
	"context"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/alnah/go-quizmark/internal/document"
	"github.com/alnah/go-quizmark/internal/pipeline"
	"github.com/alnah/go-quizmark/internal/typeset"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.Sanitizer       = (*pipeline.HTMLSanitizer)(nil)
	_ pipeline.CodeHighlighter = (*pipeline.ChromaHighlighting)(nil)
	_ pipeline.MathRenderer    = (*pipeline.MathTypesetting)(nil)
	_ pipeline.Appender        = (*pipeline.FragmentAppender)(nil)
	_ pipeline.PageRenderer    = (*pipeline.PageTemplate)(nil)
	_ typeset.Engine           = (*typeset.MathML)(nil)
	_ typeset.Engine           = (*typeset.KaTeX)(nil)
)

// Renderer turns stored markup into display markup.
// Create with NewRenderer. A Renderer holds no per-render state; the
// engine decides whether it may be shared between goroutines (both
// built-in engines may).
type Renderer struct {
	cfg         rendererConfig
	sanitizer   pipeline.Sanitizer
	highlighter pipeline.CodeHighlighter
	math        pipeline.MathRenderer
	appender    pipeline.Appender
}

// NewRenderer creates a Renderer with the MathML engine and no policy or
// highlighting. Returns an error if the selected engine is unknown or not
// available in this build.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		cfg:      rendererConfig{logger: zap.NewNop()},
		appender: &pipeline.FragmentAppender{},
	}

	for _, opt := range opts {
		opt(r)
	}

	engine := r.cfg.engine
	if engine == nil {
		var err error
		engine, err = typeset.New(r.cfg.engineName)
		if err != nil {
			return nil, fmt.Errorf("initializing math engine: %w", err)
		}
	}

	var policy *bluemonday.Policy
	if r.cfg.policy {
		policy = pipeline.MathPolicy()
	}
	r.sanitizer = pipeline.NewHTMLSanitizer(policy)
	r.math = pipeline.NewMathTypesetting(engine, r.cfg.logger)

	if r.cfg.highlight {
		r.highlighter = pipeline.NewChromaHighlighting(r.cfg.style)
	}

	return r, nil
}

// Render runs the display pipeline on input and returns the display markup
// with the expressions that could not be typeset.
// Only context cancellation and recovered internal panics are errors.
func (r *Renderer) Render(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = fmt.Errorf("%w: %v", ErrInternal, rec)
		}
	}()

	markup := input.Markup
	if input.Markdown != "" {
		markup = document.Serialize(document.FromMarkdown(input.Markdown))
	}

	tree, err := r.sanitizer.Sanitize(ctx, markup)
	if err != nil {
		return nil, err
	}

	if r.highlighter != nil {
		if err := r.highlighter.Highlight(ctx, tree); err != nil {
			return nil, fmt.Errorf("highlighting code: %w", err)
		}
	}

	failures, err := r.math.RenderMath(ctx, tree)
	if err != nil {
		return nil, err
	}

	if err := r.appender.Append(ctx, tree, input.Append); err != nil {
		return nil, fmt.Errorf("appending fragment: %w", err)
	}

	return &Result{HTML: tree.HTML(), Failures: failures}, nil
}

// RenderString renders markup with no trailing fragment.
func (r *Renderer) RenderString(ctx context.Context, markup string) (string, error) {
	res, err := r.Render(ctx, Input{Markup: markup})
	if err != nil {
		return "", err
	}
	return res.HTML, nil
}

// CSS returns the stylesheet that goes with rendered output, or "" when
// highlighting is disabled.
func (r *Renderer) CSS() (string, error) {
	if r.highlighter == nil {
		return "", nil
	}
	return r.highlighter.CSS()
}

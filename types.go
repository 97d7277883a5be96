package quizmark

import (
	"go.uber.org/zap"

	"github.com/alnah/go-quizmark/internal/pipeline"
	"github.com/alnah/go-quizmark/internal/typeset"
)

// Engine names accepted by WithEngineName.
const (
	EngineMathML = typeset.NameMathML
	EngineKaTeX  = typeset.NameKaTeX
)

// DefaultHighlightStyle is the chroma style used when WithHighlighting gets
// an empty name.
const DefaultHighlightStyle = pipeline.DefaultHighlightStyle

// Engine typesets one LaTeX expression. display selects block layout.
type Engine = typeset.Engine

// EngineFunc adapts a plain function to Engine.
type EngineFunc = typeset.EngineFunc

// TypesetError describes why an expression could not be typeset.
type TypesetError = typeset.TypesetError

// Failure records one math node that could not be typeset. The node keeps
// its raw expression in the rendered output.
type Failure = pipeline.Failure

// Input contains render parameters.
type Input struct {
	Markup   string // Stored markup or legacy plain text (empty renders to "")
	Markdown string // Markdown source, imported through the document model; replaces Markup when set
	Append   string // Trailing fragment attached after rendering (optional)
}

// Result is the output of a render.
type Result struct {
	HTML     string    // Display markup
	Failures []Failure // Expressions left untypeset, in document order
}

// Option configures a Renderer.
type Option func(*Renderer)

// rendererConfig holds settings collected from options.
type rendererConfig struct {
	engine     Engine
	engineName string
	logger     *zap.Logger
	policy     bool
	highlight  bool
	style      string
}

// WithEngine sets the typesetting engine.
// Panics if e is nil (programmer error).
func WithEngine(e Engine) Option {
	if e == nil {
		panic("quizmark: WithEngine engine must not be nil")
	}
	return func(r *Renderer) {
		r.cfg.engine = e
	}
}

// WithEngineName selects a built-in engine by name (mathml or katex).
// Ignored when WithEngine is also given.
func WithEngineName(name string) Option {
	return func(r *Renderer) {
		r.cfg.engineName = name
	}
}

// WithLogger sets the logger for typeset failures. A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.cfg.logger = l
		}
	}
}

// WithPolicy filters markup through a bluemonday UGC policy that keeps the
// math attributes and code language classes. Use it for markup that did
// not come from a trusted author.
func WithPolicy() Option {
	return func(r *Renderer) {
		r.cfg.policy = true
	}
}

// WithHighlighting enables chroma highlighting of code blocks with the
// named style. An empty style selects DefaultHighlightStyle.
func WithHighlighting(style string) Option {
	return func(r *Renderer) {
		r.cfg.highlight = true
		r.cfg.style = style
	}
}

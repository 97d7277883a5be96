package pipeline

import (
	"context"
	"regexp"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/alnah/go-quizmark/internal/document"
)

// Sanitizer defines the contract for turning stored markup into a display tree.
type Sanitizer interface {
	Sanitize(ctx context.Context, markup string) (*Tree, error)
}

var (
	breakSelector = cascadia.MustCompile("br")

	// codeLanguageClass matches the class the document model puts on code blocks.
	codeLanguageClass = regexp.MustCompile(`^language-[\w+#.-]+$`)
)

// HTMLSanitizer parses stored markup into a normalized tree.
// An optional bluemonday policy filters the markup before parsing.
type HTMLSanitizer struct {
	policy *bluemonday.Policy
}

// NewHTMLSanitizer creates a sanitizer. A nil policy keeps the markup as
// authored, which is the default for trusted single-author content.
func NewHTMLSanitizer(policy *bluemonday.Policy) *HTMLSanitizer {
	return &HTMLSanitizer{policy: policy}
}

// Sanitize normalizes markup into a tree.
//
// Input without any opening tag becomes the text of the container as is.
// Otherwise it is parsed as a <div> fragment, accepting the parser's
// recovery for malformed markup, and every <br> is removed. Only context
// cancellation is reported as an error.
func (s *HTMLSanitizer) Sanitize(ctx context.Context, markup string) (*Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tree := NewTree()
	if strings.TrimSpace(markup) == "" {
		return tree, nil
	}
	if !document.LooksLikeMarkup(markup) {
		tree.root.AppendChild(&html.Node{Type: html.TextNode, Data: markup})
		return tree, nil
	}

	if s.policy != nil {
		markup = s.policy.Sanitize(markup)
	}

	nodes, err := html.ParseFragment(strings.NewReader(markup), container())
	if err != nil {
		// The tokenizer only fails on reader errors; keep the input visible.
		tree.root.AppendChild(&html.Node{Type: html.TextNode, Data: markup})
		return tree, nil
	}
	for _, n := range nodes {
		tree.root.AppendChild(n)
	}

	for _, br := range breakSelector.MatchAll(tree.root) {
		if br.Parent != nil {
			br.Parent.RemoveChild(br)
		}
	}
	return tree, nil
}

// MathPolicy returns the opt-in content policy: bluemonday's UGC policy
// extended with the math node attributes and code language classes.
func MathPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs(document.AttrType, document.AttrLatex, document.AttrDisplayMode).OnElements("span")
	p.AllowAttrs("class").Matching(codeLanguageClass).OnElements("code")
	return p
}

package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// DefaultHighlightStyle is the chroma style used when none is configured.
const DefaultHighlightStyle = "github"

// CodeHighlighter defines the contract for syntax highlighting code blocks.
type CodeHighlighter interface {
	Highlight(ctx context.Context, tree *Tree) error
	CSS() (string, error)
}

var codeSelector = cascadia.MustCompile(`pre > code[class*="language-"]`)

// ChromaHighlighting highlights code blocks with chroma. Output uses CSS
// classes; CSS returns the matching stylesheet.
type ChromaHighlighting struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// NewChromaHighlighting creates a highlighter for the named chroma style.
// Unknown style names fall back to chroma's default style.
func NewChromaHighlighting(style string) *ChromaHighlighting {
	if style == "" {
		style = DefaultHighlightStyle
	}
	return &ChromaHighlighting{
		style: styles.Get(style),
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.PreventSurroundingPre(true),
		),
	}
}

// Highlight replaces the text of every pre > code.language-* block with
// highlighted spans. Blocks in unknown languages are left as they are.
func (h *ChromaHighlighting) Highlight(ctx context.Context, tree *Tree) error {
	for _, code := range codeSelector.MatchAll(tree.Root()) {
		if err := ctx.Err(); err != nil {
			return err
		}

		lexer := lexers.Get(codeLanguage(code))
		if lexer == nil {
			continue
		}
		iterator, err := chroma.Coalesce(lexer).Tokenise(nil, textOf(code))
		if err != nil {
			continue
		}
		var buf bytes.Buffer
		if err := h.formatter.Format(&buf, h.style, iterator); err != nil {
			continue
		}
		nodes, err := html.ParseFragment(&buf, code)
		if err != nil {
			continue
		}
		replaceChildren(code, nodes)
		addClass(code.Parent, "chroma")
	}
	return nil
}

// CSS returns the stylesheet for the highlighter's classes.
func (h *ChromaHighlighting) CSS() (string, error) {
	var buf bytes.Buffer
	if err := h.formatter.WriteCSS(&buf, h.style); err != nil {
		return "", fmt.Errorf("writing highlight CSS: %w", err)
	}
	return buf.String(), nil
}

func codeLanguage(code *html.Node) string {
	class, _ := getAttr(code, "class")
	for _, f := range strings.Fields(class) {
		if lang, ok := strings.CutPrefix(f, "language-"); ok {
			return lang
		}
	}
	return ""
}

func textOf(n *html.Node) string {
	var b strings.Builder
	writeText(&b, n)
	return b.String()
}

func addClass(n *html.Node, class string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == "class" {
			for _, f := range strings.Fields(a.Val) {
				if f == class {
					return
				}
			}
			n.Attr[i].Val = strings.TrimSpace(a.Val + " " + class)
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: class})
}

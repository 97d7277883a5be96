//go:build cgo

package typeset

import (
	"bytes"
	"errors"
	"strings"
	"sync"

	katex "github.com/FurqanSoftware/goldmark-katex"
	"github.com/yuin/goldmark"
)

// KaTeX typesets through the KaTeX JavaScript bundle embedded in
// goldmark-katex. Each call feeds a one-formula document to goldmark with
// the KaTeX extender and unwraps the resulting paragraph.
// The embedded JavaScript runtime is not reentrant, so calls are serialized.
type KaTeX struct {
	mu sync.Mutex
	md goldmark.Markdown
}

// NewKaTeX creates a KaTeX engine.
func NewKaTeX() (*KaTeX, error) {
	md := goldmark.New(
		goldmark.WithExtensions(&katex.Extender{}),
	)
	return &KaTeX{md: md}, nil
}

// Typeset validates expr and renders it as KaTeX HTML.
// display selects KaTeX display mode ($$ delimiters).
func (k *KaTeX) Typeset(expr string, display bool) (string, error) {
	if err := Validate(expr); err != nil {
		return "", err
	}
	if i := strings.IndexByte(expr, '$'); i >= 0 {
		return "", malformed(expr, i, "unescaped dollar sign")
	}

	delim := "$"
	if display {
		delim = "$$"
	}
	// The inline parser stops at line ends.
	src := delim + strings.ReplaceAll(expr, "\n", " ") + delim

	var buf bytes.Buffer
	k.mu.Lock()
	err := k.md.Convert([]byte(src), &buf)
	k.mu.Unlock()
	if err != nil {
		return "", engineFailure(expr, err)
	}

	out := strings.TrimSpace(buf.String())
	out = strings.TrimPrefix(out, "<p>")
	out = strings.TrimSuffix(out, "</p>")
	out = strings.TrimSpace(out)
	if out == "" || out == src {
		return "", engineFailure(expr, errors.New("katex produced no output"))
	}
	return out, nil
}

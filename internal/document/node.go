// Package document implements the structured document model edited by the
// quiz authoring editor.
//
// A document is an owned tree: a doc root holding blocks (paragraph,
// heading, code block), and blocks holding inline leaves (text runs with
// marks, math nodes, hard breaks). Node kinds and mark names follow the
// TipTap vocabulary so the model maps one-to-one onto TipTap JSON.
//
// The model serializes to the rich-content markup string persisted by the
// quiz application (Serialize) and can be rebuilt from it (Parse), from
// TipTap JSON (FromJSON) or from Markdown (FromMarkdown).
package document

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDocument reports a tree that breaks the model's invariants.
var ErrInvalidDocument = errors.New("invalid document")

// Kind identifies a node type.
type Kind string

// Node kinds.
const (
	KindDoc       Kind = "doc"
	KindParagraph Kind = "paragraph"
	KindHeading   Kind = "heading"
	KindCodeBlock Kind = "codeBlock"
	KindText      Kind = "text"
	KindMath      Kind = "math"
	KindHardBreak Kind = "hardBreak"
)

// IsBlock reports whether k may appear directly under the doc root.
func (k Kind) IsBlock() bool {
	return k == KindParagraph || k == KindHeading || k == KindCodeBlock
}

// IsInline reports whether k may appear inside a block.
func (k Kind) IsInline() bool {
	return k == KindText || k == KindMath || k == KindHardBreak
}

// Node is one element of the document tree. Which fields are meaningful
// depends on Kind:
//   - text: Text, Marks
//   - math: Latex, Display
//   - heading: Level
//   - codeBlock: Language
//
// Only doc and block nodes have Children.
type Node struct {
	Kind     Kind
	Text     string
	Marks    MarkSet
	Latex    string
	Display  bool
	Level    int
	Language string
	Children []*Node
}

// New returns the empty document: a doc root with one empty paragraph.
func New() *Node {
	return &Node{Kind: KindDoc, Children: []*Node{NewParagraph()}}
}

// FromPlainText returns a document holding s verbatim as one text run.
// Markup in s is not interpreted.
func FromPlainText(s string) *Node {
	if s == "" {
		return New()
	}
	return &Node{Kind: KindDoc, Children: []*Node{NewParagraph(NewText(s, 0))}}
}

// NewParagraph creates a paragraph holding the given inline nodes.
func NewParagraph(inline ...*Node) *Node {
	return &Node{Kind: KindParagraph, Children: inline}
}

// NewHeading creates a heading. level is clamped to 1..6.
func NewHeading(level int, inline ...*Node) *Node {
	return &Node{Kind: KindHeading, Level: clampLevel(level), Children: inline}
}

// NewCodeBlock creates a code block holding code as a single unmarked run.
// language is normalized with NormalizeLanguage.
func NewCodeBlock(language, code string) *Node {
	n := &Node{Kind: KindCodeBlock, Language: NormalizeLanguage(language)}
	if code != "" {
		n.Children = []*Node{NewText(code, 0)}
	}
	return n
}

// NormalizeLanguage reduces a code block language to one class-safe
// token: the first whitespace-separated word, keeping letters, digits and
// _ + # . - only.
func NormalizeLanguage(language string) string {
	fields := strings.Fields(language)
	if len(fields) == 0 {
		return ""
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case strings.ContainsRune("_+#.-", r):
			return r
		}
		return -1
	}, fields[0])
}

// NewText creates a text run.
func NewText(s string, marks MarkSet) *Node {
	return &Node{Kind: KindText, Text: s, Marks: marks}
}

// NewMath creates a math leaf holding a raw LaTeX expression.
func NewMath(latex string, display bool) *Node {
	return &Node{Kind: KindMath, Latex: latex, Display: display}
}

// NewHardBreak creates a hard line break.
func NewHardBreak() *Node {
	return &Node{Kind: KindHardBreak}
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return &c
}

// AppendText appends a text run to a block, merging it into the previous
// run when the marks match. Empty strings are ignored.
func (n *Node) AppendText(s string, marks MarkSet) {
	if s == "" {
		return
	}
	if k := len(n.Children); k > 0 {
		last := n.Children[k-1]
		if last.Kind == KindText && last.Marks == marks {
			last.Text += s
			return
		}
	}
	n.Children = append(n.Children, NewText(s, marks))
}

// LastBlock returns the final block of a doc, or nil.
func (n *Node) LastBlock() *Node {
	if n == nil || len(n.Children) == 0 {
		return nil
	}
	return n.Children[len(n.Children)-1]
}

// PlainText returns the visible text of n. Math contributes its raw
// expression, hard breaks and block boundaries contribute newlines.
func (n *Node) PlainText() string {
	var b strings.Builder
	n.writeText(&b)
	return b.String()
}

func (n *Node) writeText(b *strings.Builder) {
	switch n.Kind {
	case KindText:
		b.WriteString(n.Text)
	case KindMath:
		b.WriteString(n.Latex)
	case KindHardBreak:
		b.WriteByte('\n')
	case KindDoc:
		for i, child := range n.Children {
			if i > 0 {
				b.WriteByte('\n')
			}
			child.writeText(b)
		}
	default:
		for _, child := range n.Children {
			child.writeText(b)
		}
	}
}

// Validate checks the model invariants: a doc root with at least one
// block, blocks holding only inline nodes, code blocks holding only
// unmarked text, leaves without children and heading levels in 1..6.
func Validate(doc *Node) error {
	if doc == nil {
		return fmt.Errorf("%w: nil document", ErrInvalidDocument)
	}
	if doc.Kind != KindDoc {
		return fmt.Errorf("%w: root is %q, want %q", ErrInvalidDocument, doc.Kind, KindDoc)
	}
	if len(doc.Children) == 0 {
		return fmt.Errorf("%w: document has no blocks", ErrInvalidDocument)
	}
	for i, block := range doc.Children {
		if block == nil || !block.Kind.IsBlock() {
			return fmt.Errorf("%w: child %d of doc is not a block", ErrInvalidDocument, i)
		}
		if block.Kind == KindHeading && (block.Level < 1 || block.Level > 6) {
			return fmt.Errorf("%w: heading level %d out of range", ErrInvalidDocument, block.Level)
		}
		for j, inline := range block.Children {
			if inline == nil || !inline.Kind.IsInline() {
				return fmt.Errorf("%w: child %d of %s %d is not inline", ErrInvalidDocument, j, block.Kind, i)
			}
			if len(inline.Children) > 0 {
				return fmt.Errorf("%w: %s leaf has children", ErrInvalidDocument, inline.Kind)
			}
			if block.Kind == KindCodeBlock && (inline.Kind != KindText || inline.Marks != 0) {
				return fmt.Errorf("%w: code block %d holds %s", ErrInvalidDocument, i, inline.Kind)
			}
		}
	}
	return nil
}

func clampLevel(level int) int {
	if level < 1 {
		return 1
	}
	if level > 6 {
		return 6
	}
	return level
}

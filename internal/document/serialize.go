package document

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Math node attributes in the persisted markup.
const (
	AttrType        = "data-type"
	AttrLatex       = "latex"
	AttrDisplayMode = "displaymode"

	// MathType is the data-type value of a math node.
	MathType = "math"
)

// Serialize renders doc to the persisted markup string.
//
// Blocks become <p>, <h1>..<h6> and <pre><code>. Marks nest as
// <strong><em><code>, outermost first. Math becomes
// <span data-type="math" latex="..."> holding the raw expression as
// fallback text; display math adds displaymode="true". Hard breaks become <br>.
// A document without blocks serializes as one empty paragraph.
func Serialize(doc *Node) string {
	var b strings.Builder
	if doc == nil || len(doc.Children) == 0 {
		_ = html.Render(&b, element(atom.P))
		return b.String()
	}
	for _, block := range doc.Children {
		if n := blockHTML(block); n != nil {
			// Writes to a strings.Builder cannot fail.
			_ = html.Render(&b, n)
		}
	}
	return b.String()
}

func blockHTML(block *Node) *html.Node {
	switch block.Kind {
	case KindParagraph:
		p := element(atom.P)
		appendInline(p, block.Children)
		return p
	case KindHeading:
		h := headingElement(block.Level)
		appendInline(h, block.Children)
		return h
	case KindCodeBlock:
		pre := element(atom.Pre)
		code := element(atom.Code)
		if block.Language != "" {
			code.Attr = append(code.Attr, html.Attribute{Key: "class", Val: "language-" + block.Language})
		}
		if s := block.PlainText(); s != "" {
			code.AppendChild(&html.Node{Type: html.TextNode, Data: s})
		}
		pre.AppendChild(code)
		return pre
	default:
		return nil
	}
}

func appendInline(parent *html.Node, inline []*Node) {
	for _, n := range inline {
		if c := inlineHTML(n); c != nil {
			parent.AppendChild(c)
		}
	}
}

func inlineHTML(n *Node) *html.Node {
	switch n.Kind {
	case KindText:
		if n.Text == "" {
			return nil
		}
		out := &html.Node{Type: html.TextNode, Data: n.Text}
		marks := n.Marks.List()
		for i := len(marks) - 1; i >= 0; i-- {
			wrap := element(markAtom(marks[i]))
			wrap.AppendChild(out)
			out = wrap
		}
		return out
	case KindMath:
		return MathElement(n.Latex, n.Display)
	case KindHardBreak:
		return element(atom.Br)
	default:
		return nil
	}
}

// MathElement builds the markup node for a math expression.
func MathElement(latex string, display bool) *html.Node {
	span := element(atom.Span)
	span.Attr = append(span.Attr,
		html.Attribute{Key: AttrType, Val: MathType},
		html.Attribute{Key: AttrLatex, Val: latex},
	)
	if display {
		span.Attr = append(span.Attr, html.Attribute{Key: AttrDisplayMode, Val: "true"})
	}
	if latex != "" {
		span.AppendChild(&html.Node{Type: html.TextNode, Data: latex})
	}
	return span
}

func markAtom(m Mark) atom.Atom {
	switch m {
	case MarkBold:
		return atom.Strong
	case MarkItalic:
		return atom.Em
	default:
		return atom.Code
	}
}

func headingElement(level int) *html.Node {
	a := atom.Lookup([]byte(fmt.Sprintf("h%d", clampLevel(level))))
	return element(a)
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

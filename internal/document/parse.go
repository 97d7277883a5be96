package document

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// openingTag matches the first markup tag in a string. Text without one is
// treated as plain text.
var openingTag = regexp.MustCompile(`<[A-Za-z][^>]*>`)

// LooksLikeMarkup reports whether s contains at least one opening tag.
func LooksLikeMarkup(s string) bool {
	return openingTag.MatchString(s)
}

// Parse rebuilds a document from persisted markup.
//
// Empty input yields New(). Input without any tag is taken as plain text.
// Otherwise the markup is parsed as a body fragment: <p> and <h1>..<h6>
// become blocks, <pre> becomes a code block, container elements (div,
// blockquote, lists) are flattened into their blocks, and loose inline
// content at top level is gathered into paragraphs. Unknown inline elements
// contribute their text. Parse never fails; unreadable markup falls back
// to plain text.
func Parse(markup string) *Node {
	if strings.TrimSpace(markup) == "" {
		return New()
	}
	if !LooksLikeMarkup(markup) {
		return FromPlainText(markup)
	}

	nodes, err := html.ParseFragment(strings.NewReader(markup), bodyContext())
	if err != nil {
		return FromPlainText(markup)
	}

	b := &builder{doc: &Node{Kind: KindDoc}}
	for _, n := range nodes {
		b.block(n)
	}
	b.flush()
	if len(b.doc.Children) == 0 {
		b.doc.Children = append(b.doc.Children, NewParagraph())
	}
	return b.doc
}

func bodyContext() *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
}

// builder accumulates blocks. pending collects top-level inline content
// until the next block boundary.
type builder struct {
	doc     *Node
	pending *Node
}

func (b *builder) flush() {
	if b.pending == nil {
		return
	}
	if len(b.pending.Children) > 0 {
		b.doc.Children = append(b.doc.Children, b.pending)
	}
	b.pending = nil
}

func (b *builder) add(block *Node) {
	b.flush()
	b.doc.Children = append(b.doc.Children, block)
}

func (b *builder) block(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		// Whitespace between blocks is formatting, not content.
		if b.pending == nil && strings.TrimSpace(n.Data) == "" {
			return
		}
		b.inline(n)
	case html.ElementNode:
		switch n.DataAtom {
		case atom.P:
			p := NewParagraph()
			collectInline(p, n, 0)
			b.add(p)
		case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
			h := NewHeading(int(n.Data[1] - '0'))
			collectInline(h, n, 0)
			b.add(h)
		case atom.Pre:
			b.add(NewCodeBlock(codeLanguage(n), textContent(n)))
		case atom.Div, atom.Blockquote, atom.Section, atom.Article,
			atom.Ul, atom.Ol, atom.Li, atom.Table, atom.Tbody, atom.Thead, atom.Tr, atom.Td, atom.Th:
			b.flush()
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				b.block(c)
			}
			b.flush()
		case atom.Script, atom.Style, atom.Template:
		default:
			b.inline(n)
		}
	}
}

func (b *builder) inline(n *html.Node) {
	if b.pending == nil {
		b.pending = NewParagraph()
	}
	collectInline(b.pending, n, 0)
}

// collectInline appends the inline content of n to dst. Marks accumulate
// down the tree. A math span is taken as a leaf; its children are fallback
// text and are skipped.
func collectInline(dst *Node, n *html.Node, marks MarkSet) {
	switch n.Type {
	case html.TextNode:
		if n.Data != "" {
			dst.Children = append(dst.Children, NewText(n.Data, marks))
		}
		return
	case html.ElementNode:
	default:
		return
	}

	if IsMathElement(n) {
		latex, _ := getAttr(n, AttrLatex)
		dst.Children = append(dst.Children, NewMath(latex, hasAttr(n, AttrDisplayMode)))
		return
	}

	switch n.DataAtom {
	case atom.Br:
		dst.Children = append(dst.Children, NewHardBreak())
		return
	case atom.Script, atom.Style, atom.Template:
		return
	case atom.Strong, atom.B:
		marks = marks.With(MarkBold)
	case atom.Em, atom.I:
		marks = marks.With(MarkItalic)
	case atom.Code:
		marks = marks.With(MarkCode)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectInline(dst, c, marks)
	}
}

// IsMathElement reports whether n is a math node: an element with
// data-type="math" and a latex attribute.
func IsMathElement(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	v, ok := getAttr(n, AttrType)
	if !ok || v != MathType {
		return false
	}
	return hasAttr(n, AttrLatex)
}

func codeLanguage(pre *html.Node) string {
	for c := pre.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.DataAtom != atom.Code {
			continue
		}
		class, _ := getAttr(c, "class")
		for _, f := range strings.Fields(class) {
			if lang, ok := strings.CutPrefix(f, "language-"); ok {
				return lang
			}
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Br {
			b.WriteByte('\n')
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func getAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasAttr(n *html.Node, key string) bool {
	_, ok := getAttr(n, key)
	return ok
}

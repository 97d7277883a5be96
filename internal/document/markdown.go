package document

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Placeholders protect math from the Markdown parser. They are Private
// Use Area characters and not Markdown syntax; any already in the source
// are stripped before substitution.
const (
	mathStartPlaceholder = "\uE002" // U+E002: Private Use Area
	mathEndPlaceholder   = "\uE003" // U+E003: Private Use Area
	dollarPlaceholder    = "\uE004" // U+E004: Private Use Area
)

var (
	// displayMathPattern matches $$...$$, possibly across lines.
	displayMathPattern = regexp.MustCompile(`(?s)\$\$(.+?)\$\$`)

	// inlineMathPattern matches $...$ on one line. The body may not start
	// or end with a space, so prices like "$5 and $6" stay text.
	inlineMathPattern = regexp.MustCompile(`\$([^\s$](?:[^$\n]*[^\s$])?)\$`)

	placeholderPattern = regexp.MustCompile(mathStartPlaceholder + `(\d+)` + mathEndPlaceholder)

	placeholderStripper = strings.NewReplacer(
		mathStartPlaceholder, "",
		mathEndPlaceholder, "",
		dollarPlaceholder, "",
	)
)

type mathSpan struct {
	latex   string
	display bool
	raw     string
}

// markdownImporter converts a goldmark AST to the document model.
type markdownImporter struct {
	src  []byte
	math []mathSpan
}

// FromMarkdown builds a document from Markdown. $...$ becomes inline math
// and $$...$$ display math; \$ is a literal dollar sign. Lists and block
// quotes are flattened into their paragraphs. Raw HTML, images and
// thematic breaks are dropped.
func FromMarkdown(source string) *Node {
	m := &markdownImporter{}
	m.src = []byte(m.protectMath(source))

	root := goldmark.New().Parser().Parse(text.NewReader(m.src))
	doc := &Node{Kind: KindDoc}
	m.blocks(doc, root)
	if len(doc.Children) == 0 {
		doc.Children = append(doc.Children, NewParagraph())
	}
	return doc
}

func (m *markdownImporter) protectMath(source string) string {
	s := placeholderStripper.Replace(source)
	s = strings.ReplaceAll(s, `\$`, dollarPlaceholder)
	s = displayMathPattern.ReplaceAllStringFunc(s, func(match string) string {
		return m.placeholder(match, displayMathPattern.FindStringSubmatch(match)[1], true)
	})
	return inlineMathPattern.ReplaceAllStringFunc(s, func(match string) string {
		return m.placeholder(match, inlineMathPattern.FindStringSubmatch(match)[1], false)
	})
}

// placeholder records a math span and returns its marker. A blank body
// stays as source text.
func (m *markdownImporter) placeholder(raw, latex string, display bool) string {
	latex = strings.TrimSpace(strings.ReplaceAll(latex, dollarPlaceholder, `\$`))
	if latex == "" {
		return raw
	}
	m.math = append(m.math, mathSpan{
		latex:   latex,
		display: display,
		raw:     strings.ReplaceAll(raw, dollarPlaceholder, `\$`),
	})
	return mathStartPlaceholder + strconv.Itoa(len(m.math)-1) + mathEndPlaceholder
}

// restoreLiteral puts the original source back for code, where math and
// escapes are not interpreted.
func (m *markdownImporter) restoreLiteral(s string) string {
	s = placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		if span, ok := m.span(match); ok {
			return span.raw
		}
		return match
	})
	return strings.ReplaceAll(s, dollarPlaceholder, `\$`)
}

// span returns the math span a marker stands for.
func (m *markdownImporter) span(placeholder string) (mathSpan, bool) {
	i, err := strconv.Atoi(strings.Trim(placeholder, mathStartPlaceholder+mathEndPlaceholder))
	if err != nil || i < 0 || i >= len(m.math) {
		return mathSpan{}, false
	}
	return m.math[i], true
}

func (m *markdownImporter) blocks(dst *Node, parent ast.Node) {
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Paragraph, *ast.TextBlock:
			p := NewParagraph()
			m.inline(p, c, 0)
			if len(p.Children) > 0 {
				dst.Children = append(dst.Children, p)
			}
		case *ast.Heading:
			h := NewHeading(c.Level)
			m.inline(h, c, 0)
			dst.Children = append(dst.Children, h)
		case *ast.FencedCodeBlock:
			dst.Children = append(dst.Children, NewCodeBlock(string(c.Language(m.src)), m.codeLines(c)))
		case *ast.CodeBlock:
			dst.Children = append(dst.Children, NewCodeBlock("", m.codeLines(c)))
		case *ast.HTMLBlock, *ast.ThematicBreak:
		default:
			m.blocks(dst, c)
		}
	}
}

func (m *markdownImporter) codeLines(n ast.Node) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(m.src))
	}
	return m.restoreLiteral(strings.TrimSuffix(b.String(), "\n"))
}

func (m *markdownImporter) inline(dst *Node, parent ast.Node, marks MarkSet) {
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			m.text(dst, c.Segment.Value(m.src), marks)
			if c.HardLineBreak() {
				dst.Children = append(dst.Children, NewHardBreak())
			} else if c.SoftLineBreak() {
				dst.AppendText(" ", marks)
			}
		case *ast.String:
			m.text(dst, c.Value, marks)
		case *ast.Emphasis:
			mark := MarkItalic
			if c.Level >= 2 {
				mark = MarkBold
			}
			m.inline(dst, c, marks.With(mark))
		case *ast.CodeSpan:
			dst.AppendText(m.restoreLiteral(m.rawText(c)), marks.With(MarkCode))
		case *ast.AutoLink:
			dst.AppendText(string(c.Label(m.src)), marks)
		case *ast.RawHTML, *ast.Image:
		default:
			m.inline(dst, c, marks)
		}
	}
}

// text appends a Markdown text segment, splitting out math placeholders.
func (m *markdownImporter) text(dst *Node, value []byte, marks MarkSet) {
	value = util.UnescapePunctuations(value)
	value = util.ResolveNumericReferences(value)
	value = util.ResolveEntityNames(value)
	s := strings.ReplaceAll(string(value), dollarPlaceholder, "$")

	for {
		loc := placeholderPattern.FindStringIndex(s)
		if loc == nil {
			dst.AppendText(s, marks)
			return
		}
		marker := s[loc[0]:loc[1]]
		span, ok := m.span(marker)
		if !ok {
			dst.AppendText(s[:loc[1]], marks)
			s = s[loc[1]:]
			continue
		}
		dst.AppendText(s[:loc[0]], marks)
		dst.Children = append(dst.Children, NewMath(span.latex, span.display))
		s = s[loc[1]:]
	}
}

func (m *markdownImporter) rawText(n ast.Node) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			b.Write(c.Segment.Value(m.src))
		case *ast.String:
			b.Write(c.Value)
		}
	}
	return b.String()
}

package pipeline

import (
	"context"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-quizmark/internal/document"
)

// Appender defines the contract for attaching a trailing fragment to a tree.
type Appender interface {
	Append(ctx context.Context, tree *Tree, fragment string) error
}

// FragmentAppender attaches a trailing fragment after the last rendered node.
type FragmentAppender struct{}

// voidElements cannot hold children.
var voidElements = map[atom.Atom]bool{
	atom.Area: true, atom.Base: true, atom.Br: true, atom.Col: true,
	atom.Embed: true, atom.Hr: true, atom.Img: true, atom.Input: true,
	atom.Link: true, atom.Meta: true, atom.Source: true, atom.Track: true,
	atom.Wbr: true,
}

// rejectingElements parse or display inline content badly.
var rejectingElements = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Template: true,
	atom.Textarea: true, atom.Title: true, atom.Select: true,
	atom.Table: true, atom.Tbody: true, atom.Thead: true, atom.Tfoot: true,
	atom.Tr: true, atom.Ul: true, atom.Ol: true, atom.Math: true, atom.Svg: true,
}

// Append attaches fragment inside the tree's final element when it can
// hold content. Otherwise, when the tree ends in text, a void element, a
// math node or nothing at all, the fragment is wrapped in a new <span>
// appended to the tree. Trailing whitespace and comments are skipped when
// looking for the final node. An empty fragment is a no-op.
func (a *FragmentAppender) Append(ctx context.Context, tree *Tree, fragment string) error {
	if fragment == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	target := lastContentNode(tree.Root())
	if !canHold(target) {
		target = &html.Node{Type: html.ElementNode, DataAtom: atom.Span, Data: "span"}
		tree.Root().AppendChild(target)
	}

	for _, n := range parseFragment(fragment, target) {
		target.AppendChild(n)
	}
	return nil
}

// parseFragment parses fragment in the context of parent. Plain text is
// kept as a single text node.
func parseFragment(fragment string, parent *html.Node) []*html.Node {
	text := []*html.Node{{Type: html.TextNode, Data: fragment}}
	if !document.LooksLikeMarkup(fragment) {
		return text
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), parent)
	if err != nil || len(nodes) == 0 {
		return text
	}
	return nodes
}

func lastContentNode(root *html.Node) *html.Node {
	for n := root.LastChild; n != nil; n = n.PrevSibling {
		switch n.Type {
		case html.CommentNode:
			continue
		case html.TextNode:
			if strings.TrimSpace(n.Data) == "" {
				continue
			}
		}
		return n
	}
	return nil
}

func canHold(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if n.Namespace != "" || voidElements[n.DataAtom] || rejectingElements[n.DataAtom] {
		return false
	}
	return !document.IsMathElement(n)
}

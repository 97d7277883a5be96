package pipeline

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Tree is a normalized display tree. The root is a detached <div>
// container; only its children are content.
type Tree struct {
	root *html.Node
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{root: container()}
}

// Root returns the container node. Stages mutate the tree through it.
func (t *Tree) Root() *html.Node {
	return t.root
}

// Empty reports whether the tree has no content.
func (t *Tree) Empty() bool {
	return t.root.FirstChild == nil
}

// HTML serializes the content of the tree, without the container.
func (t *Tree) HTML() string {
	var b strings.Builder
	for c := t.root.FirstChild; c != nil; c = c.NextSibling {
		// Writes to a strings.Builder cannot fail.
		_ = html.Render(&b, c)
	}
	return b.String()
}

// Text returns the visible text of the tree.
func (t *Tree) Text() string {
	var b strings.Builder
	writeText(&b, t.root)
	return b.String()
}

func writeText(b *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
}

func container() *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: atom.Div, Data: "div"}
}

// replaceChildren swaps the children of n for nodes.
func replaceChildren(n *html.Node, nodes []*html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	for _, c := range nodes {
		n.AppendChild(c)
	}
}

// attached reports whether n is still reachable from root. Earlier
// substitutions may have detached nodes selected up front.
func attached(n, root *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == root {
			return true
		}
	}
	return false
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

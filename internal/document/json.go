package document

import (
	"encoding/json"
	"fmt"
)

// jsonNode is a node in TipTap JSON form.
type jsonNode struct {
	Type    string         `json:"type"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []jsonNode     `json:"content,omitempty"`
	Marks   []jsonMark     `json:"marks,omitempty"`
	Text    string         `json:"text,omitempty"`
}

type jsonMark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// ToJSON encodes doc as TipTap JSON.
func ToJSON(doc *Node) ([]byte, error) {
	if err := Validate(doc); err != nil {
		return nil, err
	}
	return json.Marshal(toJSONNode(doc))
}

func toJSONNode(n *Node) jsonNode {
	out := jsonNode{Type: string(n.Kind)}
	switch n.Kind {
	case KindText:
		out.Text = n.Text
		for _, m := range n.Marks.List() {
			out.Marks = append(out.Marks, jsonMark{Type: m.String()})
		}
	case KindMath:
		out.Attrs = map[string]any{"latex": n.Latex, "display": n.Display}
	case KindHeading:
		out.Attrs = map[string]any{"level": n.Level}
	case KindCodeBlock:
		if n.Language != "" {
			out.Attrs = map[string]any{"language": n.Language}
		}
	}
	for _, c := range n.Children {
		out.Content = append(out.Content, toJSONNode(c))
	}
	return out
}

// FromJSON decodes a TipTap JSON document. Unknown node types are skipped,
// unknown marks are dropped and empty text runs are ignored. The result
// always holds at least one block.
func FromJSON(data []byte) (*Node, error) {
	var root jsonNode
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if root.Type != string(KindDoc) {
		return nil, fmt.Errorf("%w: root type %q, want %q", ErrInvalidDocument, root.Type, KindDoc)
	}

	doc := &Node{Kind: KindDoc}
	for _, jn := range root.Content {
		if block := blockFromJSON(jn); block != nil {
			doc.Children = append(doc.Children, block)
		}
	}
	if len(doc.Children) == 0 {
		doc.Children = append(doc.Children, NewParagraph())
	}
	return doc, nil
}

func blockFromJSON(jn jsonNode) *Node {
	switch Kind(jn.Type) {
	case KindParagraph:
		return NewParagraph(inlineFromJSON(jn.Content)...)
	case KindHeading:
		return NewHeading(intAttr(jn.Attrs, "level", 1), inlineFromJSON(jn.Content)...)
	case KindCodeBlock:
		var code string
		for _, c := range jn.Content {
			code += c.Text
		}
		return NewCodeBlock(stringAttr(jn.Attrs, "language"), code)
	default:
		return nil
	}
}

func inlineFromJSON(content []jsonNode) []*Node {
	var out []*Node
	for _, jn := range content {
		switch Kind(jn.Type) {
		case KindText:
			if jn.Text == "" {
				continue
			}
			var marks MarkSet
			for _, jm := range jn.Marks {
				if m, ok := ParseMark(jm.Type); ok {
					marks = marks.With(m)
				}
			}
			out = append(out, NewText(jn.Text, marks))
		case KindMath:
			out = append(out, NewMath(stringAttr(jn.Attrs, "latex"), boolAttr(jn.Attrs, "display")))
		case KindHardBreak:
			out = append(out, NewHardBreak())
		}
	}
	return out
}

func stringAttr(attrs map[string]any, key string) string {
	if v, ok := attrs[key].(string); ok {
		return v
	}
	return ""
}

func boolAttr(attrs map[string]any, key string) bool {
	switch v := attrs[key].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}

func intAttr(attrs map[string]any, key string, def int) int {
	switch v := attrs[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}

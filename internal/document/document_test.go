package document

import (
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestSerialize - Document model to persisted markup
// ---------------------------------------------------------------------------

func TestSerialize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  *Node
		want string
	}{
		{
			name: "empty document",
			doc:  New(),
			want: "<p></p>",
		},
		{
			name: "nil document",
			doc:  nil,
			want: "<p></p>",
		},
		{
			name: "plain text is escaped",
			doc:  FromPlainText("a < b & c"),
			want: "<p>a &lt; b &amp; c</p>",
		},
		{
			name: "marks nest strong em code",
			doc: &Node{Kind: KindDoc, Children: []*Node{
				NewParagraph(NewText("x", Marks(MarkCode, MarkBold, MarkItalic))),
			}},
			want: "<p><strong><em><code>x</code></em></strong></p>",
		},
		{
			name: "inline math keeps raw expression as fallback",
			doc: &Node{Kind: KindDoc, Children: []*Node{
				NewParagraph(NewText("Area: ", 0), NewMath(`\pi r^2`, false)),
			}},
			want: `<p>Area: <span data-type="math" latex="\pi r^2">\pi r^2</span></p>`,
		},
		{
			name: "display math",
			doc: &Node{Kind: KindDoc, Children: []*Node{
				NewParagraph(NewMath(`\frac{a}{b}`, true)),
			}},
			want: `<p><span data-type="math" latex="\frac{a}{b}" displaymode="true">\frac{a}{b}</span></p>`,
		},
		{
			name: "math attribute is escaped",
			doc: &Node{Kind: KindDoc, Children: []*Node{
				NewParagraph(NewMath("a<b", false)),
			}},
			want: `<p><span data-type="math" latex="a&lt;b">a&lt;b</span></p>`,
		},
		{
			name: "heading and hard break",
			doc: &Node{Kind: KindDoc, Children: []*Node{
				NewHeading(2, NewText("Title", 0)),
				NewParagraph(NewText("a", 0), NewHardBreak(), NewText("b", 0)),
			}},
			want: "<h2>Title</h2><p>a<br/>b</p>",
		},
		{
			name: "code block with language",
			doc: &Node{Kind: KindDoc, Children: []*Node{
				NewCodeBlock("go", "x := 1"),
			}},
			want: `<pre><code class="language-go">x := 1</code></pre>`,
		},
		{
			name: "empty text runs are dropped",
			doc: &Node{Kind: KindDoc, Children: []*Node{
				NewParagraph(NewText("", Marks(MarkBold))),
			}},
			want: "<p></p>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Serialize(tt.doc); got != tt.want {
				t.Errorf("Serialize() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestParse - Persisted markup to document model
// ---------------------------------------------------------------------------

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("empty input yields empty document", func(t *testing.T) {
		t.Parallel()

		for _, in := range []string{"", "   \n"} {
			if got := Serialize(Parse(in)); got != "<p></p>" {
				t.Errorf("Parse(%q) serialized to %q, want <p></p>", in, got)
			}
		}
	})

	t.Run("text without tags is plain text", func(t *testing.T) {
		t.Parallel()

		doc := Parse("I <3 math & x<y")
		if got := doc.PlainText(); got != "I <3 math & x<y" {
			t.Errorf("PlainText() = %q", got)
		}
	})

	t.Run("marks from strong and em", func(t *testing.T) {
		t.Parallel()

		doc := Parse("<p>Hello <strong>world</strong></p>")
		p := doc.Children[0]
		if len(p.Children) != 2 {
			t.Fatalf("paragraph has %d children, want 2", len(p.Children))
		}
		if !p.Children[1].Marks.Has(MarkBold) {
			t.Error("second run should be bold")
		}
		if p.Children[0].Marks != 0 {
			t.Error("first run should be unmarked")
		}
	})

	t.Run("loose inline content becomes a paragraph", func(t *testing.T) {
		t.Parallel()

		doc := Parse("<b><i>x</i></b>")
		if len(doc.Children) != 1 || doc.Children[0].Kind != KindParagraph {
			t.Fatalf("got %d blocks, want one paragraph", len(doc.Children))
		}
		run := doc.Children[0].Children[0]
		if run.Marks != Marks(MarkBold, MarkItalic) {
			t.Errorf("Marks = %v, want bold|italic", run.Marks.List())
		}
	})

	t.Run("math span is a leaf", func(t *testing.T) {
		t.Parallel()

		doc := Parse(`<p>Area: <span data-type="math" latex="\pi r^2">ignored</span></p>`)
		p := doc.Children[0]
		if len(p.Children) != 2 {
			t.Fatalf("paragraph has %d children, want 2", len(p.Children))
		}
		m := p.Children[1]
		if m.Kind != KindMath || m.Latex != `\pi r^2` || m.Display {
			t.Errorf("math node = %+v", m)
		}
	})

	t.Run("displaymode presence selects display", func(t *testing.T) {
		t.Parallel()

		doc := Parse(`<span data-type="math" latex="x" displaymode="false"></span>`)
		if m := doc.Children[0].Children[0]; !m.Display {
			t.Error("displaymode attribute present, want Display true")
		}
	})

	t.Run("containers flatten and loose text splits blocks", func(t *testing.T) {
		t.Parallel()

		doc := Parse("lead<div><p>a</p><p>b</p></div>tail")
		var got []string
		for _, b := range doc.Children {
			got = append(got, b.PlainText())
		}
		want := []string{"lead", "a", "b", "tail"}
		if strings.Join(got, "|") != strings.Join(want, "|") {
			t.Errorf("blocks = %q, want %q", got, want)
		}
	})

	t.Run("pre becomes code block", func(t *testing.T) {
		t.Parallel()

		doc := Parse(`<pre><code class="hl language-go">x := 1` + "\n" + `</code></pre>`)
		b := doc.Children[0]
		if b.Kind != KindCodeBlock || b.Language != "go" {
			t.Fatalf("block = %+v, want go code block", b)
		}
		if b.PlainText() != "x := 1\n" {
			t.Errorf("code = %q", b.PlainText())
		}
	})

	t.Run("headings and breaks", func(t *testing.T) {
		t.Parallel()

		doc := Parse("<h3>T</h3><p>a<br>b</p>")
		if doc.Children[0].Kind != KindHeading || doc.Children[0].Level != 3 {
			t.Errorf("first block = %+v, want h3", doc.Children[0])
		}
		p := doc.Children[1]
		if len(p.Children) != 3 || p.Children[1].Kind != KindHardBreak {
			t.Errorf("paragraph children = %d, want text/break/text", len(p.Children))
		}
	})

	t.Run("scripts are dropped", func(t *testing.T) {
		t.Parallel()

		doc := Parse("<script>alert(1)</script><p>ok</p>")
		if got := doc.PlainText(); got != "ok" {
			t.Errorf("PlainText() = %q, want ok", got)
		}
	})

	t.Run("result always validates", func(t *testing.T) {
		t.Parallel()

		for _, in := range []string{"", "<br>", "<div></div>", "<ul><li>x</li></ul>", "<p></p>"} {
			if err := Validate(Parse(in)); err != nil {
				t.Errorf("Validate(Parse(%q)) = %v", in, err)
			}
		}
	})
}

// ---------------------------------------------------------------------------
// TestRoundTrip - Serialize(Parse(Serialize(d))) is stable
// ---------------------------------------------------------------------------

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	docs := map[string]*Node{
		"empty":      New(),
		"plain":      FromPlainText("  spaced  text with <tags> & \"quotes\" "),
		"whitespace": {Kind: KindDoc, Children: []*Node{NewParagraph(NewText(" ", 0))}},
		"marks": {Kind: KindDoc, Children: []*Node{NewParagraph(
			NewText("a", Marks(MarkBold)),
			NewText("b", Marks(MarkItalic, MarkCode)),
			NewText("c", 0),
		)}},
		"math": {Kind: KindDoc, Children: []*Node{NewParagraph(
			NewMath(`\frac{1}{2}`, false),
			NewText(" and ", 0),
			NewMath(`\sum_{i=0}^{n} i`, true),
			NewMath("", false),
		)}},
		"blocks": {Kind: KindDoc, Children: []*Node{
			NewHeading(1, NewText("Q1", 0)),
			NewParagraph(NewText("line", 0), NewHardBreak(), NewText("next", 0)),
			NewCodeBlock("python", "\nprint(1)\n"),
			NewCodeBlock("", ""),
			NewHeading(6),
		}},
	}

	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			first := Serialize(doc)
			second := Serialize(Parse(first))
			if first != second {
				t.Errorf("round trip changed markup\nfirst:  %q\nsecond: %q", first, second)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestValidate - Model invariants
// ---------------------------------------------------------------------------

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		doc     *Node
		wantErr bool
	}{
		{name: "new document", doc: New()},
		{name: "nil", doc: nil, wantErr: true},
		{name: "no blocks", doc: &Node{Kind: KindDoc}, wantErr: true},
		{name: "wrong root", doc: NewParagraph(), wantErr: true},
		{
			name:    "inline at top level",
			doc:     &Node{Kind: KindDoc, Children: []*Node{NewText("x", 0)}},
			wantErr: true,
		},
		{
			name:    "block inside paragraph",
			doc:     &Node{Kind: KindDoc, Children: []*Node{NewParagraph(NewParagraph())}},
			wantErr: true,
		},
		{
			name:    "math in code block",
			doc:     &Node{Kind: KindDoc, Children: []*Node{{Kind: KindCodeBlock, Children: []*Node{NewMath("x", false)}}}},
			wantErr: true,
		},
		{
			name:    "heading level out of range",
			doc:     &Node{Kind: KindDoc, Children: []*Node{{Kind: KindHeading, Level: 7}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Validate(tt.doc)
			if tt.wantErr && !errors.Is(err, ErrInvalidDocument) {
				t.Errorf("Validate() = %v, want ErrInvalidDocument", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestNode - Helpers
// ---------------------------------------------------------------------------

func TestNode_Clone(t *testing.T) {
	t.Parallel()

	orig := &Node{Kind: KindDoc, Children: []*Node{NewParagraph(NewText("a", 0))}}
	clone := orig.Clone()
	clone.Children[0].Children[0].Text = "changed"
	clone.Children = append(clone.Children, NewParagraph())

	if orig.Children[0].Children[0].Text != "a" {
		t.Error("Clone shares text nodes with the original")
	}
	if len(orig.Children) != 1 {
		t.Error("Clone shares the children slice with the original")
	}
}

func TestNode_AppendText(t *testing.T) {
	t.Parallel()

	p := NewParagraph()
	p.AppendText("a", 0)
	p.AppendText("b", 0)
	p.AppendText("", Marks(MarkBold))
	p.AppendText("c", Marks(MarkBold))

	if len(p.Children) != 2 {
		t.Fatalf("children = %d, want 2", len(p.Children))
	}
	if p.Children[0].Text != "ab" {
		t.Errorf("merged run = %q, want ab", p.Children[0].Text)
	}
}

func TestNode_PlainText(t *testing.T) {
	t.Parallel()

	doc := &Node{Kind: KindDoc, Children: []*Node{
		NewParagraph(NewText("x = ", 0), NewMath("y^2", false)),
		NewParagraph(NewText("a", 0), NewHardBreak(), NewText("b", 0)),
	}}
	if got, want := doc.PlainText(), "x = y^2\na\nb"; got != want {
		t.Errorf("PlainText() = %q, want %q", got, want)
	}
}

func TestMarkSet(t *testing.T) {
	t.Parallel()

	s := Marks(MarkItalic).Toggle(MarkBold)
	if !s.Has(MarkBold) || !s.Has(MarkItalic) || s.Has(MarkCode) {
		t.Errorf("set = %v", s.List())
	}
	if got := s.Without(MarkItalic).List(); len(got) != 1 || got[0] != MarkBold {
		t.Errorf("Without(italic) = %v", got)
	}
	if m, ok := ParseMark("strong"); !ok || m != MarkBold {
		t.Errorf("ParseMark(strong) = %v, %v", m, ok)
	}
	if _, ok := ParseMark("underline"); ok {
		t.Error("ParseMark(underline) should fail")
	}
}

// ---------------------------------------------------------------------------
// TestJSON - TipTap JSON interchange
// ---------------------------------------------------------------------------

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("encode then decode keeps markup", func(t *testing.T) {
		t.Parallel()

		doc := &Node{Kind: KindDoc, Children: []*Node{
			NewHeading(2, NewText("T", Marks(MarkItalic))),
			NewParagraph(NewText("x", Marks(MarkBold)), NewMath("a^2", true), NewHardBreak()),
			NewCodeBlock("go", "x := 1"),
		}}
		data, err := ToJSON(doc)
		if err != nil {
			t.Fatalf("ToJSON error: %v", err)
		}
		back, err := FromJSON(data)
		if err != nil {
			t.Fatalf("FromJSON error: %v", err)
		}
		if Serialize(back) != Serialize(doc) {
			t.Errorf("markup changed\n got: %s\nwant: %s", Serialize(back), Serialize(doc))
		}
	})

	t.Run("tiptap document with unknown parts", func(t *testing.T) {
		t.Parallel()

		in := `{"type":"doc","content":[
			{"type":"paragraph","content":[
				{"type":"text","text":"hi","marks":[{"type":"bold"},{"type":"underline"}]},
				{"type":"mention","attrs":{"id":"x"}},
				{"type":"math","attrs":{"latex":"x","display":"true"}}
			]},
			{"type":"horizontalRule"},
			{"type":"heading","attrs":{"level":3}}
		]}`
		doc, err := FromJSON([]byte(in))
		if err != nil {
			t.Fatalf("FromJSON error: %v", err)
		}
		want := `<p><strong>hi</strong><span data-type="math" latex="x" displaymode="true">x</span></p><h3></h3>`
		if got := Serialize(doc); got != want {
			t.Errorf("Serialize = %q, want %q", got, want)
		}
	})

	t.Run("empty content yields empty paragraph", func(t *testing.T) {
		t.Parallel()

		doc, err := FromJSON([]byte(`{"type":"doc"}`))
		if err != nil {
			t.Fatalf("FromJSON error: %v", err)
		}
		if Serialize(doc) != "<p></p>" {
			t.Errorf("Serialize = %q", Serialize(doc))
		}
	})

	t.Run("invalid input", func(t *testing.T) {
		t.Parallel()

		for _, in := range []string{`{`, `{"type":"paragraph"}`} {
			if _, err := FromJSON([]byte(in)); !errors.Is(err, ErrInvalidDocument) {
				t.Errorf("FromJSON(%s) error = %v, want ErrInvalidDocument", in, err)
			}
		}
	})

	t.Run("encode rejects invalid document", func(t *testing.T) {
		t.Parallel()

		if _, err := ToJSON(&Node{Kind: KindDoc}); !errors.Is(err, ErrInvalidDocument) {
			t.Errorf("ToJSON error = %v, want ErrInvalidDocument", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestNormalizeLanguage - Code block language classes
// ---------------------------------------------------------------------------

func TestNormalizeLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"go", "go"},
		{"  c++  ", "c++"},
		{"go lang", "go"},
		{"objective-c.v2", "objective-c.v2"},
		{`x"><script`, "xscript"},
		{"\t", ""},
	}

	for _, tt := range tests {
		if got := NormalizeLanguage(tt.in); got != tt.want {
			t.Errorf("NormalizeLanguage(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	t.Run("json language survives a markup round trip", func(t *testing.T) {
		t.Parallel()

		doc, err := FromJSON([]byte(`{"type":"doc","content":[{"type":"codeBlock","attrs":{"language":"go lang"},"content":[{"type":"text","text":"x"}]}]}`))
		if err != nil {
			t.Fatalf("FromJSON error: %v", err)
		}
		first := Serialize(doc)
		if want := `<pre><code class="language-go">x</code></pre>`; first != want {
			t.Errorf("Serialize = %q, want %q", first, want)
		}
		if second := Serialize(Parse(first)); second != first {
			t.Errorf("round trip changed markup\nfirst:  %q\nsecond: %q", first, second)
		}
	})
}

package editor

import (
	"strings"

	"github.com/alnah/go-quizmark/internal/document"
)

// Editing operations act at the end of the document, where an author
// typing into the editor places the cursor. Each one that changes the
// document schedules a commit.

// InsertText appends text at the end of the last block with the stored
// marks. In a code block marks are ignored. CRLF line endings are
// normalized and NUL bytes are dropped.
func (e *Editor) InsertText(s string) error {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\x00", "")
	return e.mutate(func() (bool, error) {
		if s == "" {
			return false, nil
		}
		block := e.doc.LastBlock()
		if block.Kind == document.KindCodeBlock {
			block.AppendText(s, 0)
			return true, nil
		}
		block.AppendText(s, e.marks)
		return true, nil
	})
}

// ToggleMark flips m in the stored marks applied to subsequent text.
// The document itself does not change, so nothing is emitted.
func (e *Editor) ToggleMark(m document.Mark) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrEditorClosed
	}
	e.marks = e.marks.Toggle(m)
	return nil
}

// Marks returns the stored marks.
func (e *Editor) Marks() document.MarkSet {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.marks
}

// InsertMath appends a math node holding the raw expression. The
// expression is not validated; unrenderable math is shown raw on display.
// After a code block the node goes into a new paragraph.
func (e *Editor) InsertMath(latex string, display bool) error {
	if strings.TrimSpace(latex) == "" {
		return ErrEmptyMath
	}
	return e.mutate(func() (bool, error) {
		block := e.inlineBlockLocked()
		block.Children = append(block.Children, document.NewMath(latex, display))
		return true, nil
	})
}

// InsertHardBreak appends a line break. In a code block it appends a
// newline to the code.
func (e *Editor) InsertHardBreak() error {
	return e.mutate(func() (bool, error) {
		block := e.doc.LastBlock()
		if block.Kind == document.KindCodeBlock {
			block.AppendText("\n", 0)
			return true, nil
		}
		block.Children = append(block.Children, document.NewHardBreak())
		return true, nil
	})
}

// SplitBlock starts a new empty paragraph after the last block.
func (e *Editor) SplitBlock() error {
	return e.mutate(func() (bool, error) {
		e.doc.Children = append(e.doc.Children, document.NewParagraph())
		return true, nil
	})
}

// SetHeading turns the last block into a heading of the given level.
func (e *Editor) SetHeading(level int) error {
	if level < 1 || level > 6 {
		return ErrInvalidHeadingLevel
	}
	return e.mutate(func() (bool, error) {
		block := e.doc.LastBlock()
		if block.Kind == document.KindHeading && block.Level == level {
			return false, nil
		}
		e.replaceLastLocked(document.NewHeading(level, inlineContent(block)...))
		return true, nil
	})
}

// SetParagraph turns the last block into a paragraph.
func (e *Editor) SetParagraph() error {
	return e.mutate(func() (bool, error) {
		block := e.doc.LastBlock()
		if block.Kind == document.KindParagraph {
			return false, nil
		}
		e.replaceLastLocked(document.NewParagraph(inlineContent(block)...))
		return true, nil
	})
}

// SetCodeBlock turns the last block into a code block. Inline content is
// flattened to its text: math keeps its raw expression, breaks become
// newlines and marks are dropped.
func (e *Editor) SetCodeBlock(language string) error {
	return e.mutate(func() (bool, error) {
		block := e.doc.LastBlock()
		if block.Kind == document.KindCodeBlock && block.Language == document.NormalizeLanguage(language) {
			return false, nil
		}
		e.replaceLastLocked(document.NewCodeBlock(language, block.PlainText()))
		return true, nil
	})
}

// Replace swaps the whole document for the structure parsed from markup
// and schedules a commit.
func (e *Editor) Replace(markup string) error {
	return e.mutate(func() (bool, error) {
		e.doc = document.Parse(markup)
		return true, nil
	})
}

// ImportMarkdown swaps the whole document for the one built from Markdown
// and schedules a commit.
func (e *Editor) ImportMarkdown(source string) error {
	return e.mutate(func() (bool, error) {
		e.doc = document.FromMarkdown(source)
		return true, nil
	})
}

// inlineBlockLocked returns the last block if it holds inline content,
// appending a new paragraph otherwise.
func (e *Editor) inlineBlockLocked() *document.Node {
	block := e.doc.LastBlock()
	if block.Kind == document.KindCodeBlock {
		block = document.NewParagraph()
		e.doc.Children = append(e.doc.Children, block)
	}
	return block
}

func (e *Editor) replaceLastLocked(block *document.Node) {
	e.doc.Children[len(e.doc.Children)-1] = block
}

// inlineContent returns block's children as inline content. Code becomes
// one unmarked text run.
func inlineContent(block *document.Node) []*document.Node {
	if block.Kind != document.KindCodeBlock {
		return block.Children
	}
	if s := block.PlainText(); s != "" {
		return []*document.Node{document.NewText(s, 0)}
	}
	return nil
}

package quizmark

import (
	"github.com/alnah/go-quizmark/internal/document"
)

// PlainTextToMarkup wraps legacy plain text as stored markup: one paragraph
// holding the text as is. Empty text gives one empty paragraph.
func PlainTextToMarkup(text string) string {
	return document.Serialize(document.FromPlainText(text))
}

// MarkdownToMarkup imports Markdown into the document model and returns
// its markup. $...$ and $$...$$ become math nodes.
func MarkdownToMarkup(source string) string {
	return document.Serialize(document.FromMarkdown(source))
}

// JSONToMarkup converts a TipTap JSON document to markup.
func JSONToMarkup(data []byte) (string, error) {
	doc, err := document.FromJSON(data)
	if err != nil {
		return "", err
	}
	return document.Serialize(doc), nil
}

// MarkupToJSON parses markup into the document model and returns it as
// TipTap JSON.
func MarkupToJSON(markup string) ([]byte, error) {
	return document.ToJSON(document.Parse(markup))
}

// NormalizeMarkup parses markup into the document model and serializes it
// again. The result is a fixed point: normalizing it again returns it
// unchanged.
func NormalizeMarkup(markup string) string {
	return document.Serialize(document.Parse(markup))
}

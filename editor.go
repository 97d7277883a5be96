package quizmark

import (
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-quizmark/internal/document"
	"github.com/alnah/go-quizmark/internal/editor"
)

// DefaultDebounce is the editor's trailing debounce window.
const DefaultDebounce = editor.DefaultDebounce

// Editor is a structured document editor that reports settled edits as
// markup. Create with NewEditor.
type Editor = editor.Editor

// EditorOption configures an Editor.
type EditorOption = editor.Option

// EditorState is the editor's commit cycle state.
type EditorState = editor.State

// Editor commit cycle states.
const (
	EditorIdle       = editor.Idle
	EditorPending    = editor.Pending
	EditorCommitting = editor.Committing
)

// ChangeFunc receives the serialized markup after a settled edit.
type ChangeFunc = editor.ChangeFunc

// Clock schedules the editor's trailing commit. Tests swap it for a fake.
type Clock = editor.Clock

// Timer is a scheduled commit returned by Clock.
type Timer = editor.Timer

// Mark is an inline text style.
type Mark = document.Mark

// Inline marks.
const (
	Bold   = document.MarkBold
	Italic = document.MarkItalic
	Code   = document.MarkCode
)

// NewEditor creates an editor holding one empty paragraph. onChange is
// invoked once per debounce window with the serialized document.
func NewEditor(onChange ChangeFunc, opts ...EditorOption) *Editor {
	return editor.New(onChange, opts...)
}

// WithDebounce sets the editor's debounce window. Non-positive values are
// ignored.
func WithDebounce(d time.Duration) EditorOption {
	return editor.WithDebounce(d)
}

// WithClock sets the clock used to schedule editor commits.
func WithClock(c Clock) EditorOption {
	return editor.WithClock(c)
}

// WithEditorLogger sets the logger for editor commit diagnostics.
func WithEditorLogger(l *zap.Logger) EditorOption {
	return editor.WithLogger(l)
}

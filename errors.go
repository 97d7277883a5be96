package quizmark

import (
	"errors"

	"github.com/alnah/go-quizmark/internal/document"
	"github.com/alnah/go-quizmark/internal/editor"
	"github.com/alnah/go-quizmark/internal/typeset"
)

// Sentinel errors for library operations.
var (
	ErrInternal   = errors.New("internal render error")
	ErrPoolClosed = errors.New("renderer pool closed")

	// Engine errors.
	ErrUnknownEngine       = typeset.ErrUnknownEngine
	ErrEngineUnavailable   = typeset.ErrEngineUnavailable
	ErrMalformedExpression = typeset.ErrMalformedExpression
	ErrEmptyExpression     = typeset.ErrEmptyExpression

	// Editor errors.
	ErrEditorClosed        = editor.ErrEditorClosed
	ErrEmptyMath           = editor.ErrEmptyMath
	ErrInvalidHeadingLevel = editor.ErrInvalidHeadingLevel

	// Document errors.
	ErrInvalidDocument = document.ErrInvalidDocument
)

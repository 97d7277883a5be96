// Package editor implements the structured authoring editor for quiz
// content.
//
// An Editor owns a document model and reports its serialized markup to a
// change callback. Edits schedule a trailing debounce: each edit reschedules
// the commit, and only the state after the last edit of a burst is
// emitted. Nothing is dropped; Flush and Close emit a pending commit at once.
//
// The commit cycle is an explicit state machine:
//
//	Idle --edit--> Pending --timer/Flush--> Committing --callback returns--> Idle
//	                 ^  |                        |
//	                 +--+ edit (reschedule)      +--edit--> Pending
//
// State is guarded by a mutex because timer callbacks run on their own
// goroutine. The change callback runs outside that mutex, one commit at a
// time, in edit order. It may edit the document but must not call Flush or
// Close.
package editor

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-quizmark/internal/document"
)

// DefaultDebounce is the trailing debounce window.
const DefaultDebounce = 500 * time.Millisecond

// Sentinel errors returned by editing operations.
var (
	ErrEditorClosed        = errors.New("editor closed")
	ErrEmptyMath           = errors.New("empty math expression")
	ErrInvalidHeadingLevel = errors.New("heading level must be between 1 and 6")
)

// State is the commit cycle state.
type State int

// Commit cycle states.
const (
	Idle State = iota
	Pending
	Committing
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Committing:
		return "committing"
	default:
		return "unknown"
	}
}

// ChangeFunc receives the serialized markup after a settled edit.
type ChangeFunc func(markup string)

// Option configures an Editor.
type Option func(*Editor)

// WithDebounce sets the debounce window. Non-positive values are ignored.
func WithDebounce(d time.Duration) Option {
	return func(e *Editor) {
		if d > 0 {
			e.delay = d
		}
	}
}

// WithClock sets the clock used to schedule commits.
func WithClock(c Clock) Option {
	return func(e *Editor) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithLogger sets the logger for commit diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// Editor is a structured document editor with debounced change reporting.
// Its methods are safe for concurrent use.
type Editor struct {
	// commitMu serializes callback delivery. Lock order: commitMu, then mu.
	commitMu sync.Mutex

	mu     sync.Mutex
	doc    *document.Node
	marks  document.MarkSet
	state  State
	gen    uint64
	timer  Timer
	closed bool

	onChange ChangeFunc
	delay    time.Duration
	clock    Clock
	logger   *zap.Logger
}

// New creates an editor holding the empty document. A nil onChange
// discards commits.
func New(onChange ChangeFunc, opts ...Option) *Editor {
	e := &Editor{
		doc:      document.New(),
		onChange: onChange,
		delay:    DefaultDebounce,
		clock:    realClock{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetInitialContent replaces the document with markup taken literally:
// empty markup gives one empty paragraph, anything else one paragraph
// holding one text run equal to the input. Tags are not interpreted.
// No change is emitted and any pending commit is cancelled.
func (e *Editor) SetInitialContent(markup string) error {
	return e.load(document.FromPlainText(markup))
}

// Load replaces the document with the structure parsed from markup, as
// produced by Serialize. No change is emitted and any pending commit is
// cancelled.
func (e *Editor) Load(markup string) error {
	return e.load(document.Parse(markup))
}

func (e *Editor) load(doc *document.Node) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrEditorClosed
	}
	e.cancelLocked()
	e.doc = doc
	e.marks = 0
	return nil
}

// Serialize returns the markup of the current document. It has no side
// effects.
func (e *Editor) Serialize() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return document.Serialize(e.doc)
}

// Document returns a copy of the current document.
func (e *Editor) Document() *document.Node {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.Clone()
}

// State returns the commit cycle state.
func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// OnChange records a mutation and schedules a commit at the end of the
// debounce window, replacing any commit already scheduled. Editing
// operations call it; callers that mutate through other means can too.
func (e *Editor) OnChange() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrEditorClosed
	}
	e.scheduleLocked()
	return nil
}

// Flush emits a pending commit immediately. It is a no-op when nothing is
// pending.
func (e *Editor) Flush() {
	e.commit(0, true)
}

// Close flushes any pending commit and rejects further edits. Edits made
// by the change callback during the final commits are emitted too. Calling
// Close again is a no-op.
func (e *Editor) Close() error {
	e.commitMu.Lock()
	defer e.commitMu.Unlock()

	for {
		e.commitLocked(0, true)

		e.mu.Lock()
		if e.state != Pending {
			e.closed = true
			e.cancelLocked()
			e.mu.Unlock()
			return nil
		}
		e.mu.Unlock()
	}
}

// mutate applies fn to the document and schedules a commit if fn reports
// a change.
func (e *Editor) mutate(fn func() (bool, error)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrEditorClosed
	}
	changed, err := fn()
	if err != nil {
		return err
	}
	if changed {
		e.scheduleLocked()
	}
	return nil
}

func (e *Editor) scheduleLocked() {
	if e.timer != nil {
		e.timer.Stop()
	}
	e.gen++
	gen := e.gen
	e.state = Pending
	e.timer = e.clock.AfterFunc(e.delay, func() { e.commit(gen, false) })
}

// cancelLocked drops a pending commit without emitting it.
func (e *Editor) cancelLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.gen++
	if e.state == Pending {
		e.state = Idle
	}
}

// commit emits the current document if a commit is pending. A timer
// commit only proceeds if no later edit superseded its generation; a
// forced commit takes whatever is pending.
func (e *Editor) commit(gen uint64, force bool) {
	e.commitMu.Lock()
	defer e.commitMu.Unlock()
	e.commitLocked(gen, force)
}

// commitLocked is commit with commitMu held.
func (e *Editor) commitLocked(gen uint64, force bool) {
	e.mu.Lock()
	if e.state != Pending || (!force && gen != e.gen) {
		e.mu.Unlock()
		return
	}
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.gen++
	e.state = Committing
	markup := document.Serialize(e.doc)
	onChange := e.onChange
	e.mu.Unlock()

	e.logger.Debug("editor commit", zap.Int("bytes", len(markup)))
	if onChange != nil {
		onChange(markup)
	}

	e.mu.Lock()
	if e.state == Committing {
		e.state = Idle
	}
	e.mu.Unlock()
}

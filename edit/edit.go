// Package edit turns the text transformers into editor commands.
//
// A Command is a pure function of a Snapshot. The Runner asks an Editor for a snapshot, runs
// the command, and applies the resulting Edit, plus the optional formatter pass, inside one
// transaction of the editor.
package edit

import (
	"context"
	"errors"

	"github.com/dhamidi/reshape/source"
)

var (
	// ErrNoEditorContext means there is no active document to work on.
	ErrNoEditorContext = errors.New("no active editor")
	// ErrNoEnclosingBracket means the cursor is not inside a recognised bracket pair.
	ErrNoEnclosingBracket = errors.New("cursor is not inside a bracket pair")
)

// Snapshot is the immutable state of a document at the moment a command runs.
type Snapshot struct {
	Text   string
	Cursor int
}

// Edit replaces Span of the snapshot it was computed from with Text.
type Edit struct {
	Span source.Span
	Text string
	// Warnings are problems that did not stop the command.
	Warnings []error
}

// IsNoop reports whether applying e to text changes nothing.
func (e Edit) IsNoop(text string) bool {
	return e.Span.Valid(len(text)) && e.Span.Slice(text) == e.Text
}

// Command computes an edit from a snapshot.
type Command struct {
	Name    string
	Compute func(Snapshot) (Edit, error)
}

// Editor is the host that owns the live document.
type Editor interface {
	// Snapshot returns the current document text and cursor, or ErrNoEditorContext.
	Snapshot(ctx context.Context) (Snapshot, error)
	// Transact runs fn inside one undoable transaction. Changes staged through the Tx are
	// applied only when fn returns nil.
	Transact(ctx context.Context, label string, fn func(Tx) error) error
}

// Tx stages changes to a document.
type Tx interface {
	// Text is the document text including the changes staged so far.
	Text() string
	Replace(span source.Span, text string) error
}

// Formatter reformats a whole document after an edit.
type Formatter interface {
	Format(ctx context.Context, text string) (string, error)
}

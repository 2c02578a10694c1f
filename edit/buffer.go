package edit

import (
	"context"

	"github.com/dhamidi/reshape/source"
)

// Buffer is an in-memory Editor. Every committed transaction becomes one undo step.
type Buffer struct {
	text    string
	cursor  int
	history []string
}

func NewBuffer(text string, cursor int) *Buffer {
	return &Buffer{text: text, cursor: cursor}
}

func (b *Buffer) Text() string {
	return b.text
}

func (b *Buffer) Snapshot(ctx context.Context) (Snapshot, error) {
	if b == nil {
		return Snapshot{}, ErrNoEditorContext
	}
	return Snapshot{Text: b.text, Cursor: b.cursor}, nil
}

func (b *Buffer) Transact(ctx context.Context, label string, fn func(Tx) error) error {
	if b == nil {
		return ErrNoEditorContext
	}
	tx := &bufferTx{text: b.text}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if !tx.changed {
		return nil
	}
	b.history = append(b.history, b.text)
	b.text = tx.text
	return nil
}

// Undo reverts the last committed transaction.
func (b *Buffer) Undo() bool {
	if len(b.history) == 0 {
		return false
	}
	b.text = b.history[len(b.history)-1]
	b.history = b.history[:len(b.history)-1]
	return true
}

type bufferTx struct {
	text    string
	changed bool
}

func (tx *bufferTx) Text() string {
	return tx.text
}

func (tx *bufferTx) Replace(span source.Span, text string) error {
	updated, err := source.Replace(tx.text, span, text)
	if err != nil {
		return err
	}
	if updated != tx.text {
		tx.text = updated
		tx.changed = true
	}
	return nil
}

// Stage runs fn against a transaction over text and returns the resulting text without
// committing it anywhere. Editors that ship changes elsewhere build on it.
func Stage(text string, fn func(Tx) error) (string, error) {
	tx := &bufferTx{text: text}
	if err := fn(tx); err != nil {
		return "", err
	}
	return tx.text, nil
}

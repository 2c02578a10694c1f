package lsp

import (
	"context"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/reshape/edit"
	"github.com/dhamidi/reshape/source"
)

// documentEditor exposes one open document to the edit package. A committed transaction is
// shipped to the client as a single text edit.
type documentEditor struct {
	docs  *Documents
	uri   protocol.DocumentUri
	pos   protocol.Position
	apply func(label string, we protocol.WorkspaceEdit) error
}

func (e *documentEditor) Snapshot(ctx context.Context) (edit.Snapshot, error) {
	text, ok := e.docs.Text(e.uri)
	if !ok {
		return edit.Snapshot{}, edit.ErrNoEditorContext
	}
	return edit.Snapshot{Text: text, Cursor: offsetForPosition(text, e.pos)}, nil
}

func (e *documentEditor) Transact(ctx context.Context, label string, fn func(edit.Tx) error) error {
	text, ok := e.docs.Text(e.uri)
	if !ok {
		return edit.ErrNoEditorContext
	}
	updated, err := edit.Stage(text, fn)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if updated == text {
		return nil
	}
	if err := e.apply(label, workspaceEdit(e.uri, text, updated)); err != nil {
		return err
	}
	e.docs.SetText(e.uri, updated)
	return nil
}

func workspaceEdit(uri protocol.DocumentUri, old, updated string) protocol.WorkspaceEdit {
	span, repl := source.Diff(old, updated)
	return protocol.WorkspaceEdit{
		Changes: map[protocol.DocumentUri][]protocol.TextEdit{
			uri: {{Range: rangeForSpan(old, span), NewText: repl}},
		},
	}
}

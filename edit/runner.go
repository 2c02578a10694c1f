package edit

import (
	"context"
	"errors"
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/reshape/source"
)

// ErrStaleSnapshot is returned when the document changed between computing and applying an edit.
var ErrStaleSnapshot = errors.New("document changed while the command was running")

var log = commonlog.GetLogger("reshape.edit")

// Runner drives commands against an editor.
type Runner struct {
	// Formatter, when set, reformats the whole document in the same transaction as the edit.
	Formatter Formatter
}

func NewRunner(formatter Formatter) *Runner {
	return &Runner{Formatter: formatter}
}

// Run applies cmd to the document of ed. It reports whether the document changed.
// A missing document or a cursor outside any bracket is not an error: nothing happens.
func (r *Runner) Run(ctx context.Context, ed Editor, cmd Command) (bool, error) {
	snap, err := ed.Snapshot(ctx)
	if errors.Is(err, ErrNoEditorContext) {
		log.Debugf("%s: %s", cmd.Name, err)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", cmd.Name, err)
	}

	e, err := cmd.Compute(snap)
	if errors.Is(err, ErrNoEnclosingBracket) {
		log.Debugf("%s: %s", cmd.Name, err)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", cmd.Name, err)
	}
	for _, w := range e.Warnings {
		log.Warningf("%s: %s", cmd.Name, w)
	}
	if e.IsNoop(snap.Text) {
		return false, nil
	}

	err = ed.Transact(ctx, cmd.Name, func(tx Tx) error {
		if tx.Text() != snap.Text {
			return ErrStaleSnapshot
		}
		if err := tx.Replace(e.Span, e.Text); err != nil {
			return err
		}
		return r.format(ctx, tx)
	})
	if err != nil {
		return false, fmt.Errorf("%s: %w", cmd.Name, err)
	}
	log.Debugf("%s: replaced %s", cmd.Name, e.Span)
	return true, nil
}

func (r *Runner) format(ctx context.Context, tx Tx) error {
	if r.Formatter == nil {
		return nil
	}
	text := tx.Text()
	formatted, err := r.Formatter.Format(ctx, text)
	if err != nil {
		return fmt.Errorf("format: %w", err)
	}
	span, repl := source.Diff(text, formatted)
	return tx.Replace(span, repl)
}

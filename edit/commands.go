package edit

import (
	"fmt"

	"github.com/dhamidi/reshape/bracket"
	"github.com/dhamidi/reshape/fields"
	"github.com/dhamidi/reshape/layout"
	"github.com/dhamidi/reshape/source"
)

const (
	ToggleLayoutName = "toggle-layout"
	SortFieldsName   = "sort-fields"
)

// ToggleOptions configures ToggleLayout.
type ToggleOptions struct {
	Mode   layout.Mode
	Braces bool
}

// ToggleLayout collapses the bracket pair around the cursor onto one line when it spans
// several, and expands it to one item per line otherwise. Collapsing and split expansion
// rewrite the content between the delimiters; wrap expansion rewrites the delimiters too.
func ToggleLayout(opts ToggleOptions) Command {
	var locatorOpts []bracket.Option
	if opts.Braces {
		locatorOpts = append(locatorOpts, bracket.WithBraces())
	}
	locator := bracket.NewLocator(locatorOpts...)

	return Command{
		Name: ToggleLayoutName,
		Compute: func(s Snapshot) (Edit, error) {
			scope, ok := locator.Locate(s.Text, s.Cursor)
			if !ok {
				return Edit{}, ErrNoEnclosingBracket
			}
			span := scope.Content()
			if opts.Mode == layout.Wrap && !layout.IsMultiline(span.Slice(s.Text)) {
				span = scope.Delimited()
			}
			return Edit{Span: span, Text: layout.Toggle(span.Slice(s.Text), opts.Mode)}, nil
		},
	}
}

// SortFields reorders the field declarations of the class body in the document.
func SortFields() Command {
	return Command{
		Name: SortFieldsName,
		Compute: func(s Snapshot) (Edit, error) {
			sorted, c, err := fields.Sort(s.Text)
			if err != nil {
				return Edit{}, fmt.Errorf("sort fields: %w", err)
			}
			return Edit{Span: source.Whole(s.Text), Text: sorted, Warnings: c.Warnings}, nil
		},
	}
}

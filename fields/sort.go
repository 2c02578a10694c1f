package fields

import "github.com/dhamidi/reshape/source"

// Sort classifies the lines of text and reassembles them with the fields in canonical order.
// Text without any field declarations is returned unchanged, but still needs a class body.
func Sort(text string) (string, *Classification, error) {
	lines := source.SplitLines(text)
	c := Classify(lines.Lines)
	if c.Groups.Len() == 0 {
		if bodyStart(c.Other) < 0 {
			return "", c, ErrNoClassBody
		}
		return text, c, nil
	}
	out, err := Assemble(c.Other, &c.Groups)
	if err != nil {
		return "", c, err
	}
	lines.Lines = out
	return lines.Join(), c, nil
}

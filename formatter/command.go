// Package formatter runs an external code formatter as the post-edit hook.
package formatter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Command pipes the document through an external program: the text goes to stdin and the
// formatted text is read from stdout. google-java-format with "-" as its argument works this way.
type Command struct {
	Path string
	Args []string
	// Dir is the working directory of the formatter. Empty means the current one.
	Dir string
}

// New builds a Command from an argv. It returns nil for an empty argv, which disables formatting.
func New(argv []string) *Command {
	if len(argv) == 0 || argv[0] == "" {
		return nil
	}
	return &Command{Path: argv[0], Args: append([]string(nil), argv[1:]...)}
}

func (c *Command) String() string {
	return strings.Join(append([]string{c.Path}, c.Args...), " ")
}

func (c *Command) Format(ctx context.Context, text string) (string, error) {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdin = strings.NewReader(text)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("%s: exit status %d: %s", c.Path, exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("run %s: %w", c.Path, err)
	}
	return stdout.String(), nil
}

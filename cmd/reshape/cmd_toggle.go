package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/reshape/edit"
	"github.com/dhamidi/reshape/layout"
	"github.com/dhamidi/reshape/source"
)

func newToggleCmd(a *app) *cobra.Command {
	var (
		offset    int
		line      int
		column    int
		mode      string
		braces    bool
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "toggle [file]",
		Short: "Toggle the layout of the bracket pair around a position",
		Long: `Toggle the layout of the innermost bracket pair around a position.

A list spanning several lines is collapsed onto one line. A single-line list is expanded
to one item per line: --mode split breaks after each top-level comma, --mode wrap also
puts the brackets on their own lines.

The position is given with --offset (bytes from the start) or with --line and --column
(1-based, columns count characters). Without a file, text is read from stdin.

Use -w to overwrite the file in place (requires a file argument).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("offset") == flags.Changed("line") {
				return errors.New("exactly one of --offset or --line is required")
			}

			var content []byte
			var err error
			var filename string
			if len(args) == 0 {
				if overwrite {
					return errors.New("-w requires a file argument")
				}
				content, err = io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
			} else {
				filename = args[0]
				content, err = os.ReadFile(filename)
				if err != nil {
					return fmt.Errorf("read file: %w", err)
				}
			}
			text := string(content)

			cursor := offset
			if flags.Changed("line") {
				cursor, err = source.Offset(text, line, column)
				if err != nil {
					return err
				}
			}

			opts, err := a.cfg.ToggleOptions()
			if err != nil {
				return err
			}
			if flags.Changed("mode") {
				if opts.Mode, err = layout.ParseMode(mode); err != nil {
					return err
				}
			}
			if flags.Changed("braces") {
				opts.Braces = braces
			}

			buf := edit.NewBuffer(text, cursor)
			changed, err := a.runner().Run(cmd.Context(), buf, edit.ToggleLayout(opts))
			if err != nil {
				return err
			}
			if !changed {
				log.Infof("nothing to toggle at offset %d", cursor)
			}

			if overwrite {
				if !changed {
					return nil
				}
				return writeFile(filename, buf.Text())
			}
			_, err = io.WriteString(cmd.OutOrStdout(), buf.Text())
			return err
		},
	}

	cmd.Flags().IntVar(&offset, "offset", 0, "cursor byte offset")
	cmd.Flags().IntVar(&line, "line", 0, "cursor line (1-based)")
	cmd.Flags().IntVar(&column, "column", 1, "cursor column (1-based)")
	cmd.Flags().StringVar(&mode, "mode", "", "expansion mode (split, wrap); overrides the config")
	cmd.Flags().BoolVar(&braces, "braces", false, "also match {} pairs; overrides the config")
	cmd.Flags().BoolVarP(&overwrite, "write", "w", false, "overwrite the file in place")

	return cmd
}

// writeFile replaces the content of path and keeps its permissions.
func writeFile(path, text string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(text), info.Mode().Perm()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

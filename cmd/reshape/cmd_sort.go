package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/reshape/edit"
)

type sortMode int

const (
	sortDryRun sortMode = iota
	sortWrite
	sortCheck
)

var (
	sortedColor  = color.New(color.FgGreen)
	pendingColor = color.New(color.FgYellow)
	failedColor  = color.New(color.FgRed, color.Bold)
)

type sortResult struct {
	path    string
	changed bool
	err     error
}

func newSortFieldsCmd(a *app) *cobra.Command {
	var (
		check bool
		write bool
		jobs  int
		exts  []string
	)

	cmd := &cobra.Command{
		Use:   "sort-fields [paths...]",
		Short: "Sort the field declarations of Java classes",
		Long: `Sort the field declarations of Java classes into public static final, private static
final, private final and other private fields, each group ordered by declaration length.

Directories are searched recursively for files with the given extensions, honouring the
.gitignore at the directory root. Without paths, a single class is read from stdin and
the sorted text is printed.

By default the files that would change are listed. Use -w to rewrite them in place, or
--check to exit with an error when any file needs sorting.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				if write {
					return errors.New("-w requires a path argument")
				}
				return sortStdin(cmd, a.runner())
			}

			files, err := collectFiles(args, exts)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				log.Infof("no files found")
				return nil
			}

			mode := sortDryRun
			switch {
			case write:
				mode = sortWrite
			case check:
				mode = sortCheck
			}

			results, err := sortFiles(cmd.Context(), a.runner(), files, mode == sortWrite, jobs)
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), cmd.ErrOrStderr(), results, mode)
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "exit with an error if any file needs sorting")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write sorted files in place")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "number of parallel workers (0 = GOMAXPROCS)")
	cmd.Flags().StringSliceVar(&exts, "ext", []string{".java"}, "file extensions to process in directories")
	cmd.MarkFlagsMutuallyExclusive("check", "write")

	return cmd
}

func sortStdin(cmd *cobra.Command, runner *edit.Runner) error {
	content, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	buf := edit.NewBuffer(string(content), 0)
	if _, err := runner.Run(cmd.Context(), buf, edit.SortFields()); err != nil {
		return err
	}
	_, err = io.WriteString(cmd.OutOrStdout(), buf.Text())
	return err
}

// sortFiles sorts every file in parallel. Per-file failures are recorded in the results;
// the returned error is only set when the run was cancelled.
func sortFiles(ctx context.Context, runner *edit.Runner, files []string, write bool, jobs int) ([]sortResult, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]sortResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = sortFile(gctx, runner, path, write)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func sortFile(ctx context.Context, runner *edit.Runner, path string, write bool) sortResult {
	result := sortResult{path: path}

	content, err := os.ReadFile(path)
	if err != nil {
		result.err = fmt.Errorf("read file: %w", err)
		return result
	}

	buf := edit.NewBuffer(string(content), 0)
	result.changed, result.err = runner.Run(ctx, buf, edit.SortFields())
	if result.err != nil || !result.changed || !write {
		return result
	}
	result.err = writeFile(path, buf.Text())
	return result
}

func report(out, errOut io.Writer, results []sortResult, mode sortMode) error {
	var changed, failed int
	for _, r := range results {
		switch {
		case r.err != nil:
			failed++
			fmt.Fprintf(errOut, "%s %s: %v\n", failedColor.Sprint("error"), r.path, r.err)
		case r.changed:
			changed++
			switch mode {
			case sortWrite:
				fmt.Fprintf(out, "%s %s\n", sortedColor.Sprint("sorted"), r.path)
			case sortCheck:
				fmt.Fprintf(out, "%s %s\n", failedColor.Sprint("needs sorting"), r.path)
			default:
				fmt.Fprintf(out, "%s %s\n", pendingColor.Sprint("would sort"), r.path)
			}
		}
	}

	if len(results) > 1 {
		verb := "would sort"
		switch mode {
		case sortWrite:
			verb = "sorted"
		case sortCheck:
			verb = "need sorting"
		}
		fmt.Fprintf(out, "%d files, %d %s, %d errors\n", len(results), changed, verb, failed)
	}

	if failed > 0 {
		return fmt.Errorf("%d file(s) could not be sorted", failed)
	}
	if mode == sortCheck && changed > 0 {
		return fmt.Errorf("%d file(s) need sorting", changed)
	}
	return nil
}

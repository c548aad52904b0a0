package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jsparse/format"
	"github.com/dhamidi/jsparse/js/codebase"
	"github.com/dhamidi/jsparse/project"
)

func newCheckCmd() *cobra.Command {
	var compact bool
	var jobs int

	cmd := &cobra.Command{
		Use:   "check [directory]",
		Short: "Parse every source file of a project and report syntax errors",
		Long: `Parse every source file of a project and report syntax errors.

Files are selected by jsparse.yaml in the project directory, or by the
default globs when there is none. The command fails when any file has a
syntax error.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runCheck(cmd, dir, compact, jobs)
		},
	}

	cmd.Flags().BoolVar(&compact, "compact", false, "one line per diagnostic, without code frames")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "files parsed in parallel (default GOMAXPROCS)")

	return cmd
}

func runCheck(cmd *cobra.Command, dir string, compact bool, jobs int) error {
	proj, err := project.LoadFrom(dir)
	if err != nil {
		return fmt.Errorf("load project: %w", err)
	}

	cb := codebase.New(proj)
	if err := cb.ScanAll(cmd.Context(), jobs); err != nil {
		return fmt.Errorf("scan %s: %w", dir, err)
	}

	corrupt := cb.Corrupt()
	for _, f := range corrupt {
		enc := format.NewDiagnosticEncoder(cmd.OutOrStdout(), string(f.Content))
		if compact {
			enc.Compact()
		}
		if err := enc.Encode(f.Program); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "checked %d files, %d with syntax errors\n", cb.Len(), len(corrupt))
	if len(corrupt) > 0 {
		return fmt.Errorf("%d of %d files have syntax errors", len(corrupt), cb.Len())
	}
	return nil
}

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jsparse/project"
)

func newInitCmd() *cobra.Command {
	var sourceType string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a jsparse.yaml with the default file globs",
		Long: `Write a jsparse.yaml with the default file globs.

If a directory is provided, creates it and writes the configuration there.
An existing jsparse.yaml is never replaced.

Examples:
  jsparse init                      # configure the current directory
  jsparse init --source-type module web`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(cmd, dir, sourceType)
		},
	}

	cmd.Flags().StringVar(&sourceType, "source-type", "", "default source type for every file (script or module)")

	return cmd
}

func runInit(cmd *cobra.Command, dir, sourceType string) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}

	cfg := project.DefaultConfig()
	cfg.SourceType = sourceType
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := project.WriteConfig(dir, cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", filepath.Join(dir, project.ConfigFile))
	return nil
}

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jsparse/format"
	"github.com/dhamidi/jsparse/js/parser"
	"github.com/dhamidi/jsparse/project"
)

type parseFlags struct {
	format     string
	sourceType string
	jsx        bool
	flow       bool
	ts         bool
	expression bool
}

func newParseCmd() *cobra.Command {
	var flags parseFlags

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a file and print the result",
		Long: `Parse a file and print the result.

The file extension selects the dialect: .ts and .tsx enable TypeScript,
.mjs and .mts parse as modules, and every other extension enables JSX.
A leading // @flow comment enables Flow. The flags override these
defaults. Without a file, or with "-", the source is read from stdin.

Syntax errors never fail the command; they appear in the output.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "-"
			if len(args) > 0 {
				name = args[0]
			}
			return runParse(cmd, name, flags)
		},
	}

	addParseFlags(cmd, &flags)
	cmd.Flags().StringVarP(&flags.format, "format", "f", "json", "output format ("+strings.Join(format.Names(), ", ")+")")

	return cmd
}

func newTokensCmd() *cobra.Command {
	var flags parseFlags

	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the token stream of a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "-"
			if len(args) > 0 {
				name = args[0]
			}
			flags.format = "tokens"
			return runParse(cmd, name, flags)
		},
	}

	addParseFlags(cmd, &flags)

	return cmd
}

func addParseFlags(cmd *cobra.Command, flags *parseFlags) {
	cmd.Flags().StringVar(&flags.sourceType, "source-type", "", "script, module or template (default from the file extension)")
	cmd.Flags().BoolVar(&flags.jsx, "jsx", false, "enable JSX")
	cmd.Flags().BoolVar(&flags.flow, "flow", false, "enable Flow type annotations")
	cmd.Flags().BoolVar(&flags.ts, "ts", false, "enable TypeScript")
	cmd.Flags().BoolVarP(&flags.expression, "expression", "e", false, "parse a single expression instead of a program")
	cmd.MarkFlagsMutuallyExclusive("flow", "ts")
}

func runParse(cmd *cobra.Command, name string, flags parseFlags) error {
	src, err := readSource(cmd.InOrStdin(), name)
	if err != nil {
		return err
	}

	settings := project.DefaultSettings(name, src)
	if flags.sourceType != "" {
		if settings.SourceType, err = parser.ParseSourceType(flags.sourceType); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("jsx") {
		settings.Syntax.JSX = flags.jsx
	}
	if cmd.Flags().Changed("flow") {
		settings.Syntax.Flow = flags.flow
		settings.Syntax.TS = settings.Syntax.TS && !flags.flow
	}
	if cmd.Flags().Changed("ts") {
		settings.Syntax.TS = flags.ts
		settings.Syntax.Flow = settings.Syntax.Flow && !flags.ts
	}

	var extra []parser.Option
	if flags.format == "tokens" {
		extra = append(extra, parser.WithTokens())
	}
	file := name
	if file == "-" {
		file = "<stdin>"
	}
	opts := settings.Options(file, extra...)

	var prog *parser.Program
	if flags.expression {
		prog, err = parser.ParseExpression(strings.NewReader(src), opts...).Finish()
		if err != nil {
			return err
		}
	} else {
		prog = parser.Parse(src, opts...)
	}
	log.Infof("%s: parsed as %s %s, %d diagnostics", file, settings.SourceType, settings.Syntax, len(prog.Diagnostics))

	enc, err := format.New(flags.format, cmd.OutOrStdout(), src)
	if err != nil {
		return err
	}
	if err := enc.Encode(prog); err != nil {
		return fmt.Errorf("encode %s: %w", flags.format, err)
	}
	return nil
}

func readSource(stdin io.Reader, name string) (string, error) {
	if name == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return string(data), nil
}

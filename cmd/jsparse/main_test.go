package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/jsparse/project"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	full := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	return full
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name   string
		stdin  string
		args   []string
		expect string
	}{
		{
			name:   "outline from stdin",
			stdin:  "'use strict';\nlet a = 1;",
			args:   []string{"parse", "-f", "outline"},
			expect: "1:0 Directive use strict\n2:0 VariableDeclaration let\n",
		},
		{
			name:   "tree",
			stdin:  "a;",
			args:   []string{"parse", "-f", "tree", "-"},
			expect: "Program script\n  body: ExpressionStatement\n    expression: Identifier a\n",
		},
		{
			name:   "expression",
			stdin:  "a + b",
			args:   []string{"parse", "-e", "-f", "outline"},
			expect: "1:0 BinaryExpression +\n",
		},
		{
			name:   "source type flag",
			stdin:  "import a from 'a';",
			args:   []string{"parse", "--source-type", "module", "-f", "diagnostics"},
			expect: "",
		},
		{
			name:   "diagnostics",
			stdin:  "a = ;",
			args:   []string{"parse", "-f", "diagnostics"},
			expect: "<stdin>:1:4: unexpected token ';' [parse/js]\n 1 | a = ;\n   |     ^\n",
		},
		{
			name:   "jsx disabled",
			stdin:  "<a/>;",
			args:   []string{"parse", "--jsx=false", "-f", "diagnostics"},
			expect: "<stdin>:1:0: unexpected token '<' [parse/js]\n 1 | <a/>;\n   | ^\n",
		},
		{
			name:   "tokens",
			stdin:  "x;",
			args:   []string{"tokens"},
			expect: "1:0-1:1\tname\t\"x\"\n1:1-1:2\t;\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := run(t, tt.stdin, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.expect, stdout)
		})
	}
}

func TestParseCommandJSON(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "a.ts", "let x: number = 1;")

	stdout, _, err := run(t, "", "parse", file)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, "ts", got["syntax"])
	assert.Equal(t, false, got["corrupt"])
}

func TestParseCommandErrors(t *testing.T) {
	_, _, err := run(t, "", "parse", "-f", "xml")
	assert.ErrorContains(t, err, `unknown format "xml"`)

	_, _, err = run(t, "", "parse", "--source-type", "cjs")
	assert.ErrorContains(t, err, `unknown source type "cjs"`)

	_, _, err = run(t, "", "parse", filepath.Join(t.TempDir(), "missing.js"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, _, err = run(t, "", "parse", "--flow", "--ts")
	assert.Error(t, err)
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/ok.js", "let a = 1;")
	writeFile(t, dir, "src/types.ts", "type A = string;")

	stdout, stderr, err := run(t, "", "check", dir)
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Equal(t, "checked 2 files, 0 with syntax errors\n", stderr)

	writeFile(t, dir, "src/bad.js", "let b = 'x\n")
	stdout, stderr, err = run(t, "", "check", "--compact", "-j", "1", dir)
	assert.ErrorContains(t, err, "1 of 3 files have syntax errors")
	assert.Equal(t, "src/bad.js:1:8: unterminated string constant [parse/unterminated]\n", stdout)
	assert.Contains(t, stderr, "checked 3 files, 1 with syntax errors\n")
}

func TestInitCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "web")

	stdout, _, err := run(t, "", "init", "--source-type", "module", dir)
	require.NoError(t, err)
	assert.Equal(t, "Created "+filepath.Join(dir, project.ConfigFile)+"\n", stdout)

	p, err := project.LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "module", p.Config.SourceType)

	_, _, err = run(t, "", "init", dir)
	assert.ErrorIs(t, err, os.ErrExist)

	_, _, err = run(t, "", "init", "--source-type", "cjs", t.TempDir())
	assert.ErrorContains(t, err, "sourceType")
}

package format

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dhamidi/jsparse/js/parser"
)

func TestNew(t *testing.T) {
	assert.Equal(t, []string{"diagnostics", "json", "outline", "tokens", "tree", "yaml"}, Names())

	for _, name := range Names() {
		e, err := New(name, &bytes.Buffer{}, "")
		require.NoError(t, err)
		assert.NotNil(t, e)
	}

	_, err := New("xml", &bytes.Buffer{}, "")
	assert.ErrorContains(t, err, `unknown format "xml"`)
}

func TestASTJSONEncoder(t *testing.T) {
	var buf bytes.Buffer
	prog := parser.Parse("a = [1, , 2];", parser.WithFile("a.js"))
	require.NoError(t, NewASTJSONEncoder(&buf).Encode(prog))

	var got struct {
		File    string `json:"file"`
		Corrupt bool   `json:"corrupt"`
		AST     struct {
			Kind     string `json:"kind"`
			Children []struct {
				Kind string `json:"kind"`
				Role string `json:"role"`
			} `json:"children"`
		} `json:"ast"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "a.js", got.File)
	assert.False(t, got.Corrupt)
	assert.Equal(t, "Program", got.AST.Kind)
	require.Len(t, got.AST.Children, 1)
	assert.Equal(t, "ExpressionStatement", got.AST.Children[0].Kind)
	assert.Equal(t, "body", got.AST.Children[0].Role)
}

func TestASTJSONEncoderDiagnostics(t *testing.T) {
	prog := parser.Parse("a = ;")
	text, err := NewASTJSONEncoder(nil).MarshalText(prog)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(text, &got))
	assert.Equal(t, true, got["corrupt"])
	diags := got["diagnostics"].([]any)
	require.Len(t, diags, 1)
	d := diags[0].(map[string]any)
	assert.Equal(t, "parse/js", d["category"])
	assert.Equal(t, "1:4", d["start"])
}

func TestASTYAMLEncoder(t *testing.T) {
	var buf bytes.Buffer
	prog := parser.Parse("// hi\nx = [1, , 2];")
	require.NoError(t, NewASTYAMLEncoder(&buf).Encode(prog))

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "script", got["sourceType"])
	assert.Equal(t, false, got["corrupt"])

	ast := got["ast"].(map[string]any)
	assert.Equal(t, "Program", ast["kind"])
	stmt := ast["body"].(map[string]any)
	assert.Equal(t, "ExpressionStatement", stmt["kind"])
	assert.Equal(t, []any{" hi"}, stmt["leadingComments"])

	array := stmt["expression"].(map[string]any)["right"].(map[string]any)
	assert.Equal(t, "ArrayExpression", array["kind"])
	elements := array["elements"].([]any)
	require.Len(t, elements, 3)
	assert.Nil(t, elements[1])
	assert.Equal(t, "1", elements[0].(map[string]any)["value"])
}

func TestTokenEncoder(t *testing.T) {
	prog := parser.Parse("let x = 1;", parser.WithTokens())
	text, err := NewTokenEncoder(nil).MarshalText(prog)
	require.NoError(t, err)
	assert.Equal(t, "1:0-1:3\tname\t\"let\"\n"+
		"1:4-1:5\tname\t\"x\"\n"+
		"1:6-1:7\t=\n"+
		"1:8-1:9\tnum\t\"1\"\n"+
		"1:9-1:10\t;\n", string(text))
}

func TestOutlineEncoder(t *testing.T) {
	prog := parser.Parse("'use strict';\nlet a = 1;\nf();")
	text, err := NewOutlineEncoder(nil).MarshalText(prog)
	require.NoError(t, err)
	assert.Equal(t, "1:0 Directive use strict\n2:0 VariableDeclaration let\n3:0 ExpressionStatement\n", string(text))
}

func TestTreeEncoder(t *testing.T) {
	prog := parser.Parse("a;")
	text, err := NewTreeEncoder(nil).MarshalText(prog)
	require.NoError(t, err)
	assert.Equal(t, "Program script\n  body: ExpressionStatement\n    expression: Identifier a\n", string(text))
}

func TestDiagnosticEncoder(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		opts   []parser.Option
		expect string
	}{
		{
			name:   "frame",
			src:    "a = ;",
			opts:   []parser.Option{parser.WithFile("a.js")},
			expect: "a.js:1:4: unexpected token ';' [parse/js]\n 1 | a = ;\n   |     ^\n",
		},
		{
			name:   "tabs",
			src:    "\tx = ;",
			expect: "1:5: unexpected token ';' [parse/js]\n 1 |     x = ;\n   |         ^\n",
		},
		{
			name: "advice",
			src:  "<a></b>;",
			opts: []parser.Option{parser.WithSyntax(parser.Syntax{JSX: true})},
			expect: "1:3: expected corresponding JSX closing tag for <a> [parse/jsx]\n" +
				" 1 | <a></b>;\n" +
				"   |    ^^^^\n" +
				"  = help: replace it with </a>\n",
		},
		{
			name:   "clean",
			src:    "a;",
			expect: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			prog := parser.Parse(tt.src, tt.opts...)
			require.NoError(t, NewDiagnosticEncoder(&buf, tt.src).Encode(prog))
			assert.Equal(t, tt.expect, buf.String())
		})
	}
}

func TestDiagnosticEncoderCompact(t *testing.T) {
	src := "x = 'abc"
	prog := parser.Parse(src, parser.WithFile("s.js"))
	text, err := NewDiagnosticEncoder(nil, src).Compact().MarshalText(prog)
	require.NoError(t, err)
	assert.Equal(t, "s.js:1:4: unterminated string constant [parse/unterminated]\n", string(text))
}

func TestExpandTabs(t *testing.T) {
	text, width := expandTabs("a\tb")
	assert.Equal(t, "a   b", text)
	assert.Equal(t, 5, width)

	_, width = expandTabs("日本")
	assert.Equal(t, 4, width)
}

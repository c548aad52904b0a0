package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenKinds(prog *Program) []TokenKind {
	var kinds []TokenKind
	for _, tok := range prog.Tokens {
		if tok.Kind == TokenInvalid {
			break
		}
		kinds = append(kinds, tok.Kind)
	}
	return kinds
}

func TestLexer(t *testing.T) {
	tests := []struct {
		input    string
		syntax   Syntax
		expected []TokenKind
	}{
		{input: "a / b", expected: []TokenKind{TokenName, TokenSlash, TokenName}},
		{input: "x = /re/g", expected: []TokenKind{TokenName, TokenEq, TokenRegex}},
		{input: "(a) / 2", expected: []TokenKind{TokenParenL, TokenName, TokenParenR, TokenSlash, TokenNum}},
		{input: "if (x) /re/.test(y)", expected: []TokenKind{
			TokenIf, TokenParenL, TokenName, TokenParenR, TokenRegex, TokenDot,
			TokenName, TokenParenL, TokenName, TokenParenR,
		}},
		{input: "function f() { return /x/.test(s) }", expected: []TokenKind{
			TokenFunction, TokenName, TokenParenL, TokenParenR, TokenBraceL,
			TokenReturn, TokenRegex, TokenDot, TokenName, TokenParenL, TokenName, TokenParenR,
			TokenBraceR,
		}},
		{input: "`a${b}c`", expected: []TokenKind{
			TokenBackQuote, TokenTemplate, TokenDollarBraceL, TokenName, TokenBraceR,
			TokenTemplate, TokenBackQuote,
		}},
		{input: "``", expected: []TokenKind{TokenBackQuote, TokenTemplate, TokenBackQuote}},
		{input: "a?.b ?? c", expected: []TokenKind{TokenName, TokenQuestionDot, TokenName, TokenNullishCoalescing, TokenName}},
		{input: "x => x ** 2", expected: []TokenKind{TokenName, TokenArrow, TokenName, TokenExponent, TokenNum}},
		{input: "a < b", expected: []TokenKind{TokenName, TokenLessThan, TokenName}},
		{input: "0x1f + 10n", expected: []TokenKind{TokenNum, TokenPlusMin, TokenBigInt}},
		{input: "class A { #x }", expected: []TokenKind{TokenClass, TokenName, TokenBraceL, TokenPrivateName, TokenBraceR}},
		{
			input:    "<a>hi</a>",
			syntax:   Syntax{JSX: true},
			expected: []TokenKind{TokenJSXTagStart, TokenJSXName, TokenJSXTagEnd, TokenJSXText, TokenJSXTagStart, TokenSlash, TokenJSXName, TokenJSXTagEnd},
		},
		{
			input:    "x = <a/> / 2",
			syntax:   Syntax{JSX: true},
			expected: []TokenKind{TokenName, TokenEq, TokenJSXTagStart, TokenJSXName, TokenSlash, TokenJSXTagEnd, TokenSlash, TokenNum},
		},
		{
			input:    "a < b",
			syntax:   Syntax{JSX: true},
			expected: []TokenKind{TokenName, TokenLessThan, TokenName},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			prog := Parse(tt.input, WithTokens(), WithSyntax(tt.syntax))
			assert.Empty(t, prog.Diagnostics)
			if diff := cmp.Diff(tt.expected, tokenKinds(prog)); diff != "" {
				t.Errorf("token kinds mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLexerTokenValues(t *testing.T) {
	prog := Parse("if (a) x = 'it\\'s' + `t`", WithTokens())
	require.Empty(t, prog.Diagnostics)

	var values []string
	for _, tok := range prog.Tokens {
		values = append(values, tok.Value)
	}
	assert.Equal(t, []string{"if", "(", "a", ")", "x", "=", "it's", "+", "`", "t", "`"}, values)
}

func TestLexerPositions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Position
	}{
		{"lf", "a\nb", Position{Index: 2, Line: 2, Column: 0}},
		{"crlf", "a\r\nb", Position{Index: 3, Line: 2, Column: 0}},
		{"cr", "a\rb", Position{Index: 2, Line: 2, Column: 0}},
		{"line separator", "a\u2028b", Position{Index: 4, Line: 2, Column: 0}},
		{"block comment", "/* x\r\n y */ b", Position{Index: 12, Line: 2, Column: 6}},
		{"same line", "a;  b", Position{Index: 4, Line: 1, Column: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := Parse(tt.input, WithTokens())
			require.NotEmpty(t, prog.Tokens)
			last := prog.Tokens[len(prog.Tokens)-1]
			assert.Equal(t, "b", last.Value)
			assert.Equal(t, tt.want, last.Span.Start)
		})
	}
}

func TestLexerUnterminated(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{"'abc", "unterminated string constant"},
		{"'abc\nx", "unterminated string constant"},
		{"`abc", "unterminated template"},
		{"/* abc", "unterminated comment"},
		{"x = /abc", "unterminated regular expression"},
		{"x = /abc\n", "unterminated regular expression"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			prog := Parse(tt.input)
			require.Len(t, prog.Diagnostics, 1)
			d := prog.Diagnostics[0]
			assert.Equal(t, tt.message, d.Message)
			assert.Equal(t, CategoryUnterminated, d.Category)
			assert.True(t, prog.Corrupt)
		})
	}
}

func TestLexerRegexFlags(t *testing.T) {
	prog := Parse("x = /a/gg")
	require.Len(t, prog.Diagnostics, 1)
	assert.Equal(t, CategoryRegex, prog.Diagnostics[0].Category)
	assert.Contains(t, prog.Diagnostics[0].Message, "duplicate")
}

func TestLexerInterpreter(t *testing.T) {
	prog := Parse("#!/usr/bin/env node\nfoo();")
	assert.Empty(t, prog.Diagnostics)
	assert.Equal(t, "/usr/bin/env node", prog.Interpreter)
	require.Len(t, prog.Body(), 1)
	assert.Equal(t, 2, prog.Body()[0].Span.Start.Line)
}

func TestJSXEntities(t *testing.T) {
	prog := Parse("<a>&amp;&#123;&#x7D;&nbsp;&bogus;</a>;", WithSyntax(Syntax{JSX: true}))
	require.Empty(t, prog.Diagnostics)
	elem := prog.Body()[0].Get("expression")
	require.Equal(t, KindJSXElement, elem.Kind)
	children := elem.All("children")
	require.Len(t, children, 1)
	assert.Equal(t, "&{}\u00a0&bogus;", children[0].Value)
}

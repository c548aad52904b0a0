package parser

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	jsx     = WithSyntax(Syntax{JSX: true})
	ts      = WithSyntax(Syntax{TS: true})
	tsx     = WithSyntax(Syntax{TS: true, JSX: true})
	flow    = WithSyntax(Syntax{Flow: true})
	module  = WithSourceType(SourceModule)
	dialect = []Syntax{{}, {JSX: true}, {Flow: true}, {TS: true}, {TS: true, JSX: true}}
)

// parseClean parses src and fails the test on any diagnostic.
func parseClean(t *testing.T, src string, opts ...Option) *Program {
	t.Helper()
	prog := Parse(src, opts...)
	require.Empty(t, prog.Diagnostics, "diagnostics for %q", src)
	require.False(t, prog.Corrupt)
	return prog
}

func parseExpr(t *testing.T, src string, opts ...Option) (*Node, *Program) {
	t.Helper()
	prog, err := ParseExpression(strings.NewReader(src), opts...).Finish()
	require.NoError(t, err)
	require.Equal(t, KindProgram, prog.Root.Kind)
	expr := prog.Root.Get("expression")
	require.NotNil(t, expr)
	return expr, prog
}

func nodeKinds(nodes []*Node) []NodeKind {
	var out []NodeKind
	for _, n := range nodes {
		out = append(out, n.Kind)
	}
	return out
}

func TestParseStatements(t *testing.T) {
	tests := []struct {
		input    string
		opts     []Option
		expected []NodeKind
	}{
		{input: "var a = 1;", expected: []NodeKind{KindVariableDeclaration}},
		{input: "let {a, b: [c]} = obj;", expected: []NodeKind{KindVariableDeclaration}},
		{input: "function* gen() { yield 1; }", expected: []NodeKind{KindFunctionDeclaration}},
		{input: "async function f() { await x; }", expected: []NodeKind{KindFunctionDeclaration}},
		{
			input:    "class A extends B { constructor() { super(); } static get x() { return 1; } #p = 2; }",
			expected: []NodeKind{KindClassDeclaration},
		},
		{input: "for (const x of xs) {}", expected: []NodeKind{KindForOfStatement}},
		{input: "for (var k in o) {}", expected: []NodeKind{KindForInStatement}},
		{input: "for (let i = 0; i < n; i++) {}", expected: []NodeKind{KindForStatement}},
		{input: "label: for (;;) { break label; continue label; }", expected: []NodeKind{KindLabeledStatement}},
		{input: "switch (x) { case 1: break; default: }", expected: []NodeKind{KindSwitchStatement}},
		{input: "try { a(); } catch (e) { } finally { }", expected: []NodeKind{KindTryStatement}},
		{input: "if (a) b; else c;", expected: []NodeKind{KindIfStatement}},
		{input: "do x++; while (x < 10)", expected: []NodeKind{KindDoWhileStatement}},
		{input: "while (a) { debugger; }", expected: []NodeKind{KindWhileStatement}},
		{input: "throw new Error('x');", expected: []NodeKind{KindThrowStatement}},
		{input: "{ ; }", expected: []NodeKind{KindBlockStatement}},
		{input: "a\nb", expected: []NodeKind{KindExpressionStatement, KindExpressionStatement}},
		{
			input: "import a, { b as c } from 'm'; export default a; export const d = 1; export { c };",
			opts:  []Option{module},
			expected: []NodeKind{
				KindImportDeclaration, KindExportDefaultDeclaration,
				KindExportNamedDeclaration, KindExportNamedDeclaration,
			},
		},
		{
			input:    "type A<T> = { a: T; b?: string } | null;",
			opts:     []Option{ts},
			expected: []NodeKind{KindTypeAlias},
		},
		{
			input:    "interface I extends J { m(x: number): void; }",
			opts:     []Option{ts},
			expected: []NodeKind{KindInterfaceDeclaration},
		},
		{
			input:    "function f<T extends object>(a: T, b?: string): T[] { return a; }",
			opts:     []Option{ts},
			expected: []NodeKind{KindFunctionDeclaration},
		},
		{
			input:    "function f(x: ?string): number { return (x: any); }",
			opts:     []Option{flow},
			expected: []NodeKind{KindFunctionDeclaration},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			prog := parseClean(t, tt.input, tt.opts...)
			if diff := cmp.Diff(tt.expected, nodeKinds(prog.Body())); diff != "" {
				t.Errorf("statement kinds mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseExpression(t *testing.T) {
	tests := []struct {
		input string
		opts  []Option
		kind  NodeKind
	}{
		{input: "42", kind: KindNumericLiteral},
		{input: "x", kind: KindIdentifier},
		{input: "a ? b : c", kind: KindConditionalExpression},
		{input: "a ?? b", kind: KindLogicalExpression},
		{input: "a + b * c", kind: KindBinaryExpression},
		{input: "x => x * 2", kind: KindArrowFunctionExpression},
		{input: "(a, b) => { return a; }", kind: KindArrowFunctionExpression},
		{input: "async (a) => a", kind: KindArrowFunctionExpression},
		{input: "(a, b)", kind: KindSequenceExpression},
		{input: "a?.b?.(c)", kind: KindCallExpression},
		{input: "new Foo(1)", kind: KindNewExpression},
		{input: "tag`x${y}`", kind: KindTaggedTemplateExpression},
		{input: "`x${y}z`", kind: KindTemplateLiteral},
		{input: "({a, b: 1, ...c, [d]: 2, get e() { return 1 }})", kind: KindObjectExpression},
		{input: "[a, , b]", kind: KindArrayExpression},
		{input: "[a, b] = [b, a]", kind: KindAssignmentExpression},
		{input: "/re/g.test(s)", kind: KindCallExpression},
		{input: "typeof x === 'string'", kind: KindBinaryExpression},
		{input: "!x", kind: KindUnaryExpression},
		{input: "x++", kind: KindUpdateExpression},
		{input: "function () {}", kind: KindFunctionExpression},
		{input: "class {}", kind: KindClassExpression},
		{input: "import.meta", kind: KindMetaProperty},
		{input: "<a />", opts: []Option{jsx}, kind: KindJSXElement},
		{input: "x as any", opts: []Option{ts}, kind: KindAsExpression},
		{input: "<any>x", opts: []Option{ts}, kind: KindTypeAssertion},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr, prog := parseExpr(t, tt.input, tt.opts...)
			assert.Empty(t, prog.Diagnostics)
			assert.Equal(t, tt.kind, expr.Kind, "got %s", expr.Kind)
		})
	}
}

func TestExpressionShapes(t *testing.T) {
	t.Run("exponent is right associative", func(t *testing.T) {
		expr, _ := parseExpr(t, "a ** b ** c")
		assert.Equal(t, "a", expr.Get("left").Value)
		assert.Equal(t, KindBinaryExpression, expr.Get("right").Kind)
	})
	t.Run("assignment is right associative", func(t *testing.T) {
		expr, _ := parseExpr(t, "a = b = c")
		assert.Equal(t, KindAssignmentExpression, expr.Get("right").Kind)
	})
	t.Run("array holes", func(t *testing.T) {
		expr, _ := parseExpr(t, "[a, , b]")
		elems := expr.All("elements")
		require.Len(t, elems, 3)
		assert.Nil(t, elems[1])
	})
	t.Run("destructuring target", func(t *testing.T) {
		expr, _ := parseExpr(t, "[a, b] = [b, a]")
		assert.Equal(t, KindArrayPattern, expr.Get("left").Kind)
	})
	t.Run("expression body flag", func(t *testing.T) {
		expr, _ := parseExpr(t, "x => x")
		assert.True(t, expr.Has(FlagExpressionBody))
		expr, _ = parseExpr(t, "async (a) => a")
		assert.True(t, expr.Has(FlagAsync))
	})
	t.Run("optional call", func(t *testing.T) {
		expr, _ := parseExpr(t, "a?.b?.(c)")
		assert.True(t, expr.Has(FlagOptional))
		assert.True(t, expr.Get("callee").Has(FlagOptional))
	})
	t.Run("parenthesised division", func(t *testing.T) {
		expr, _ := parseExpr(t, "(a) / 2")
		assert.Equal(t, KindBinaryExpression, expr.Kind)
		assert.Equal(t, "/", expr.Value)
	})
}

func TestJSX(t *testing.T) {
	t.Run("element with attributes and children", func(t *testing.T) {
		prog := parseClean(t, `<div className="a" {...p}>hello {name} <b/></div>;`, jsx)
		elem := prog.Body()[0].Get("expression")
		require.Equal(t, KindJSXElement, elem.Kind)

		opening := elem.Get("openingElement")
		assert.Equal(t, []NodeKind{KindJSXAttribute, KindJSXSpreadAttribute}, nodeKinds(opening.All("attributes")))

		children := elem.All("children")
		assert.Equal(t, []NodeKind{KindJSXText, KindJSXExpressionContainer, KindJSXText, KindJSXElement}, nodeKinds(children))
		assert.Equal(t, "hello ", children[0].Value)
		assert.True(t, children[3].Get("openingElement").Has(FlagSelfClosing))
		assert.NotNil(t, elem.Get("closingElement"))
	})

	t.Run("fragment", func(t *testing.T) {
		prog := parseClean(t, "<>a</>;", jsx)
		assert.Equal(t, KindJSXFragment, prog.Body()[0].Get("expression").Kind)
	})

	t.Run("member and namespaced names", func(t *testing.T) {
		prog := parseClean(t, "<a.b.c x:y='1'></a.b.c>;", jsx)
		opening := prog.Body()[0].Get("expression").Get("openingElement")
		assert.Equal(t, KindJSXMemberExpression, opening.Get("name").Kind)
		assert.Equal(t, KindJSXNamespacedName, opening.All("attributes")[0].Get("name").Kind)
	})

	t.Run("division after element", func(t *testing.T) {
		prog := parseClean(t, "x = <a/> / 2;", jsx)
		assign := prog.Body()[0].Get("expression")
		assert.Equal(t, KindBinaryExpression, assign.Get("right").Kind)
	})

	t.Run("mismatched closing tag", func(t *testing.T) {
		prog := Parse("<a></b>;", jsx)
		require.Len(t, prog.Diagnostics, 1)
		assert.Equal(t, CategoryJSX, prog.Diagnostics[0].Category)
		assert.Contains(t, prog.Diagnostics[0].Advice, "replace it with </a>")
	})

	t.Run("unterminated contents", func(t *testing.T) {
		prog := Parse("<a>", jsx)
		require.Len(t, prog.Diagnostics, 1)
		assert.Equal(t, CategoryUnterminated, prog.Diagnostics[0].Category)
		assert.Equal(t, "unterminated JSX contents", prog.Diagnostics[0].Message)
	})

	t.Run("less than without jsx", func(t *testing.T) {
		prog := parseClean(t, "a < b > c;")
		assert.Equal(t, KindBinaryExpression, prog.Body()[0].Get("expression").Kind)
	})
}

func TestGenericArrowAmbiguity(t *testing.T) {
	t.Run("typescript", func(t *testing.T) {
		prog := parseClean(t, "<T>(x) => x", ts)
		expr := prog.Body()[0].Get("expression")
		require.Equal(t, KindArrowFunctionExpression, expr.Kind)
		typeParams := expr.Get("typeParameters")
		require.NotNil(t, typeParams)
		assert.Equal(t, KindTypeParameterDeclaration, typeParams.Kind)
		assert.Equal(t, "T", typeParams.All("params")[0].Value)
	})

	t.Run("tsx prefers jsx", func(t *testing.T) {
		prog := Parse("<T>(x) => x", tsx)
		expr := prog.Body()[0].Get("expression")
		assert.Equal(t, KindJSXElement, expr.Kind)
		assert.True(t, prog.Corrupt)
	})

	t.Run("tsx trailing comma", func(t *testing.T) {
		prog := parseClean(t, "<T,>(x) => x", tsx)
		assert.Equal(t, KindArrowFunctionExpression, prog.Body()[0].Get("expression").Kind)
	})

	t.Run("assertion", func(t *testing.T) {
		prog := parseClean(t, "y = <number>x;", ts)
		assign := prog.Body()[0].Get("expression")
		assert.Equal(t, KindTypeAssertion, assign.Get("right").Kind)
	})
}

func TestTypeAnnotations(t *testing.T) {
	prog := parseClean(t, "let x: number = 1;", ts)
	id := prog.Body()[0].Get("declarations").Get("id")
	require.Equal(t, KindIdentifier, id.Kind)
	ann := id.Get("typeAnnotation")
	require.NotNil(t, ann)
	assert.Equal(t, KindKeywordType, ann.Get("typeAnnotation").Kind)

	prog = parseClean(t, "function f<T extends object>(a: T, b?: string): T[] { return a; }", ts)
	fn := prog.Body()[0]
	assert.Equal(t, KindArrayType, fn.Get("returnType").Get("typeAnnotation").Kind)
	params := fn.All("params")
	require.Len(t, params, 2)
	assert.True(t, params[1].Has(FlagOptional))

	prog = parseClean(t, "type A<T> = { a: T; b?: string } | null;", ts)
	assert.Equal(t, KindUnionType, prog.Body()[0].Get("right").Kind)
}

func TestComments(t *testing.T) {
	t.Run("expression", func(t *testing.T) {
		call, prog := parseExpr(t, "/* a */ foo(/* b */ bar, baz /* c */)")
		require.Equal(t, KindCallExpression, call.Kind)
		assert.Len(t, prog.Comments, 3)

		assert.Equal(t, []string{" a "}, commentValues(call.LeadingComments))
		args := call.All("arguments")
		require.Len(t, args, 2)
		assert.Equal(t, []string{" b "}, commentValues(args[0].LeadingComments))
		assert.Equal(t, []string{" c "}, commentValues(args[1].TrailingComments))
		assert.Empty(t, call.Get("callee").LeadingComments)
	})

	// In a program the statement starts where the call does, so the
	// leading comment moves up to the statement.
	t.Run("program", func(t *testing.T) {
		prog := parseClean(t, "/* a */ foo(/* b */ bar, baz /* c */);")
		stmt := prog.Body()[0]
		call := stmt.Get("expression")
		require.Equal(t, KindCallExpression, call.Kind)

		assert.Equal(t, []string{" a "}, commentValues(stmt.LeadingComments))
		assert.Empty(t, call.LeadingComments)
		args := call.All("arguments")
		require.Len(t, args, 2)
		assert.Equal(t, []string{" b "}, commentValues(args[0].LeadingComments))
		assert.Equal(t, []string{" c "}, commentValues(args[1].TrailingComments))
	})

	t.Run("statements", func(t *testing.T) {
		prog := parseClean(t, "// lead\nfoo();\n// trail")
		stmt := prog.Body()[0]
		assert.Equal(t, []string{" lead"}, commentValues(stmt.LeadingComments))
		assert.Equal(t, []string{" trail"}, commentValues(stmt.TrailingComments))
		assert.Equal(t, CommentLine, prog.Comments[0].Kind)
	})
}

func TestDiagnostics(t *testing.T) {
	tests := []struct {
		input   string
		opts    []Option
		message string
	}{
		{input: "'use strict'; with (a) {}", message: "'with' in strict mode"},
		{input: "return 1;", message: "'return' outside of function"},
		{input: "try {}", message: "missing catch or finally clause"},
		{input: "import a from 'm';", message: "'import' and 'export' may appear only with sourceType module"},
		{input: "export const a = 1; export { a };", opts: []Option{module}, message: "`a` has already been exported at 1:13"},
		{input: "a = ;", message: "unexpected token ';'"},
		{input: "foo(", message: "expected ')' but reached end of input"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			prog := Parse(tt.input, tt.opts...)
			require.Len(t, prog.Diagnostics, 1)
			assert.Equal(t, tt.message, prog.Diagnostics[0].Message)
			assert.True(t, prog.Corrupt)
		})
	}
}

func TestSuppression(t *testing.T) {
	prog := Parse("// jsparse-ignore parse/js: legacy script\nreturn 1;")
	assert.Empty(t, prog.Diagnostics)
	assert.False(t, prog.Corrupt)

	prog = Parse("// jsparse-ignore\nreturn 1;")
	assert.Empty(t, prog.Diagnostics)

	prog = Parse("// jsparse-ignore parse/jsx\nreturn 1;")
	assert.Len(t, prog.Diagnostics, 1)

	prog = Parse("// jsparse-ignore parse/js\n\nreturn 1;")
	assert.Len(t, prog.Diagnostics, 1, "suppression covers only the next line")
}

func TestTokens(t *testing.T) {
	prog := Parse("a = b;", WithTokens())
	assert.Equal(t, []TokenKind{TokenName, TokenEq, TokenName, TokenSemi}, tokenKinds(prog))
	assert.Len(t, prog.Tokens, 4)

	prog = Parse("a = ;", WithTokens())
	require.NotEmpty(t, prog.Tokens)
	last := prog.Tokens[len(prog.Tokens)-1]
	assert.Equal(t, TokenInvalid, last.Kind)
	assert.Equal(t, 4, last.Span.Start.Index)
	assert.Equal(t, 5, last.Span.End.Index)

	prog = Parse("a = b;")
	assert.Nil(t, prog.Tokens)
}

func TestDirectives(t *testing.T) {
	prog := parseClean(t, "'use strict';\n\"other\";\nx;")
	assert.Len(t, prog.Directives(), 2)
	assert.Len(t, prog.Body(), 1)
}

func TestProgramNeverPanics(t *testing.T) {
	inputs := []string{
		"(", "[", "{", "`abc", "'abc", "/* abc", "/abc", "a +", "function (",
		"class {", "<div", "x = {a: [1, (2", "0x", "#", "@", "`${", "`${a",
		"a?.", "new", "import(", "export {", "let [a", "for (", "<T>(", "<T,>(x",
		"({\"a\"} = 1)", "a => {", "async (", "x: ", "if (a) else", "}}}", ")))",
		strings.Repeat("(", 200), strings.Repeat("[", 200), strings.Repeat("{", 200),
		strings.Repeat("<a>", 50), strings.Repeat("a < b > c ", 50),
	}

	for _, syntax := range dialect {
		for _, input := range inputs {
			t.Run(syntax.String()+"/"+input[:min(len(input), 20)], func(t *testing.T) {
				var prog *Program
				require.NotPanics(t, func() {
					prog = Parse(input, WithSyntax(syntax), WithTokens())
				})
				require.NotNil(t, prog.Root)
				assert.Equal(t, len(prog.Diagnostics) > 0, prog.Corrupt)
			})
		}
	}
}

func TestTruncatedPrefixesNeverPanic(t *testing.T) {
	src := `import {a} from "m";
export default class App extends Base<Props> {
  #count = 0;
  static async *gen(x: number, {y, z = 1}: Opts = {}): Promise<void> {
    for await (const v of x) yield* v;
  }
  render() {
    return <div id="x" {...this.props}>{this.#count > 1 ? <b>&amp;</b> : null}</div>;
  }
}
const f = <T,>(a: T): T => a ?? /re/g.test(` + "`${a}`" + `) / 2;
label: while (true) { try { break label; } catch { continue; } finally {} }
`
	for _, syntax := range dialect {
		opts := []Option{WithSyntax(syntax), WithSourceType(SourceModule), WithTokens()}
		for i := 0; i <= len(src); i++ {
			prefix := src[:i]
			assert.NotPanics(t, func() { Parse(prefix, opts...) }, "%s prefix %q", syntax, prefix)
		}
	}
}

func TestParseSourceType(t *testing.T) {
	for _, name := range []string{"script", "module", "template"} {
		st, err := ParseSourceType(name)
		require.NoError(t, err)
		assert.Equal(t, name, st.String())
	}
	_, err := ParseSourceType("commonjs")
	assert.Error(t, err)
}

func TestFinishReadError(t *testing.T) {
	_, err := ParseProgram(failingReader{}, WithFile("broken.js")).Finish()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.js")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, assert.AnError
}

func TestArrowHeadFallback(t *testing.T) {
	t.Run("error in a default", func(t *testing.T) {
		p := ParseProgram(strings.NewReader("(a = ) => 1"))
		prog, err := p.Finish()
		require.NoError(t, err)
		require.True(t, prog.Corrupt)
		assert.Equal(t, "unexpected token ')'", prog.Diagnostics[0].Message)
		require.NotEmpty(t, prog.Body())
		assert.NotEqual(t, KindArrowFunctionExpression, prog.Body()[0].Get("expression").Kind)
		assert.True(t, p.abandonedArrows[0])
	})

	t.Run("error in a return type", func(t *testing.T) {
		p := ParseProgram(strings.NewReader("x ? (a = b) : !d;"), ts)
		prog, err := p.Finish()
		require.NoError(t, err)
		require.Empty(t, prog.Diagnostics)
		cond := prog.Body()[0].Get("expression")
		require.Equal(t, KindConditionalExpression, cond.Kind)
		assert.Equal(t, KindAssignmentExpression, cond.Get("consequent").Kind)
		assert.True(t, p.abandonedArrows[4])
	})

	t.Run("error in the body", func(t *testing.T) {
		p := ParseProgram(strings.NewReader("(a) => { a = ; }"))
		prog, err := p.Finish()
		require.NoError(t, err)
		require.Len(t, prog.Diagnostics, 1)
		assert.Equal(t, "unexpected token ';'", prog.Diagnostics[0].Message)
		assert.Equal(t, KindArrowFunctionExpression, prog.Body()[0].Get("expression").Kind)
		assert.Empty(t, p.abandonedArrows)
	})
}

func TestNestingFinishesQuickly(t *testing.T) {
	const depth = 40
	tests := []struct {
		name    string
		src     string
		corrupt bool
	}{
		{"defaults", strings.Repeat("(a = ", depth) + "1" + strings.Repeat(")", depth), false},
		{"async defaults", strings.Repeat("async (a = ", depth) + "1" + strings.Repeat(")", depth), false},
		{"arrow bodies", strings.Repeat("(x) => (y = ", depth) + "1" + strings.Repeat(")", depth), false},
		{"arrow defaults", strings.Repeat("(a = ", depth) + "1" + strings.Repeat(") => a", depth), false},
		{"broken arrow defaults", strings.Repeat("(a = ", depth) + "1 +" + strings.Repeat(") => a", depth), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := time.Now()
			prog := Parse(tt.src)
			assert.Less(t, time.Since(start), 2*time.Second)
			require.NotNil(t, prog.Root)
			assert.Equal(t, tt.corrupt, prog.Corrupt, "%v", prog.Diagnostics)
		})
	}
}

// largeFile repeats a statement with parenthesised operands, which are
// branch points, under a line comment.
func largeFile(statements int) string {
	var sb strings.Builder
	for i := 0; i < statements; i++ {
		sb.WriteString("// note\nx = (a + b) * (c + d);\n")
	}
	return sb.String()
}

func TestLargeFileFinishesQuickly(t *testing.T) {
	src := largeFile(4000)
	start := time.Now()
	prog := Parse(src, WithTokens())
	assert.Less(t, time.Since(start), 5*time.Second)

	require.False(t, prog.Corrupt, "%v", prog.Diagnostics)
	assert.Len(t, prog.Body(), 4000)
	assert.Len(t, prog.Comments, 4000)
	assert.Len(t, prog.Tokens, 4000*14)
	last := prog.Body()[3999]
	assert.Equal(t, []string{" note"}, commentValues(last.LeadingComments))
}

func BenchmarkParseLargeFile(b *testing.B) {
	src := largeFile(4000)
	b.SetBytes(int64(len(src)))
	for i := 0; i < b.N; i++ {
		Parse(src, WithTokens())
	}
}

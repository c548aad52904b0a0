package parser

import (
	"fmt"
	"io"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("jsparse.parser")

type SourceType uint8

const (
	SourceScript SourceType = iota
	SourceModule
	SourceTemplate
)

func (t SourceType) String() string {
	switch t {
	case SourceModule:
		return "module"
	case SourceTemplate:
		return "template"
	}
	return "script"
}

// ParseSourceType maps "script", "module" and "template" to a SourceType.
func ParseSourceType(s string) (SourceType, error) {
	switch s {
	case "script":
		return SourceScript, nil
	case "module":
		return SourceModule, nil
	case "template":
		return SourceTemplate, nil
	}
	return SourceScript, fmt.Errorf("unknown source type %q", s)
}

// Syntax is the set of enabled dialects.
type Syntax struct {
	JSX  bool
	Flow bool
	TS   bool
}

// HasTypes reports whether type annotations are parsed.
func (s Syntax) HasTypes() bool { return s.Flow || s.TS }

func (s Syntax) String() string {
	out := ""
	for _, d := range []struct {
		on   bool
		name string
	}{{s.JSX, "jsx"}, {s.Flow, "flow"}, {s.TS, "ts"}} {
		if !d.on {
			continue
		}
		if out != "" {
			out += ","
		}
		out += d.name
	}
	return out
}

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

func WithSourceType(t SourceType) Option {
	return func(p *Parser) {
		p.sourceType = t
	}
}

func WithSyntax(s Syntax) Option {
	return func(p *Parser) {
		p.syntax = s
	}
}

// WithTokens collects the token stream into Program.Tokens.
func WithTokens() Option {
	return func(p *Parser) {
		p.collectTokens = true
	}
}

type parseFunc func(*Parser) *Node

// Parser parses one file. It is not safe for concurrent use; parse
// independent files with independent parsers.
type Parser struct {
	file          string
	sourceType    SourceType
	syntax        Syntax
	collectTokens bool
	reader        io.Reader
	input         string
	entry         parseFunc
	state         *State

	// abandonedArrows holds the offsets of `(` tokens where an arrow head
	// declined or was aborted. It outlives speculation on purpose: when an
	// enclosing attempt fails and the text is parsed again, the arrow
	// reading is not retried.
	abandonedArrows map[int]bool
}

// Program is the result of a parse.
type Program struct {
	File        string
	SourceType  SourceType
	Syntax      Syntax
	Root        *Node
	Corrupt     bool
	Diagnostics []Diagnostic
	Tokens      []Token
	Comments    []*Comment
	Interpreter string
}

func (pr *Program) Body() []*Node       { return pr.Root.All("body") }
func (pr *Program) Directives() []*Node { return pr.Root.All("directives") }

func ParseProgram(r io.Reader, opts ...Option) *Parser {
	p := &Parser{
		reader: r,
		entry:  (*Parser).parseTopLevel,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseExpression parses input holding a single expression. The root is a
// Program node with the expression on its "expression" edge.
func ParseExpression(r io.Reader, opts ...Option) *Parser {
	p := &Parser{
		reader: r,
		entry:  (*Parser).parseExpressionEntry,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses src as a program. It never fails; problems are reported as
// diagnostics on the result.
func Parse(src string, opts ...Option) *Program {
	p := ParseProgram(nil, opts...)
	p.input = src
	return p.run()
}

func (p *Parser) readAll() error {
	if p.reader == nil {
		return nil
	}
	data, err := io.ReadAll(p.reader)
	if err != nil {
		return err
	}
	p.input = string(data)
	p.reader = nil
	return nil
}

// Finish reads the whole input and parses it. Only reading can fail.
func (p *Parser) Finish() (*Program, error) {
	if err := p.readAll(); err != nil {
		return nil, fmt.Errorf("read %s: %w", p.file, err)
	}
	return p.run(), nil
}

func (p *Parser) run() *Program {
	p.state = newState()
	p.abandonedArrows = nil
	if p.sourceType == SourceModule {
		p.pushScope(ScopeStrict, true)
	}
	p.skipInterpreter()
	p.nextToken()

	root := p.entry(p)
	p.applyComments()

	prog := &Program{
		File:        p.file,
		SourceType:  p.sourceType,
		Syntax:      p.syntax,
		Root:        root,
		Diagnostics: p.getDiagnostics(),
		Comments:    p.state.Comments.Items(),
		Interpreter: p.state.Interpreter,
	}
	prog.Corrupt = len(prog.Diagnostics) > 0
	if p.collectTokens {
		prog.Tokens = p.state.Tokens.Items()
		if prog.Corrupt {
			start := prog.Diagnostics[0].Span.Start
			prog.Tokens = append(prog.Tokens, Token{
				Kind: TokenInvalid,
				Span: Span{Start: start, End: p.endOfInput()},
			})
		}
	}
	log.Debugf("parsed %s: %d statements, %d diagnostics", p.file, len(root.All("body")), p.state.Diagnostics.Len())
	return prog
}

func (p *Parser) endOfInput() Position {
	line, lineStart := 1, 0
	for i := 0; i < len(p.input); i++ {
		switch p.input[i] {
		case '\r':
			if i+1 < len(p.input) && p.input[i+1] == '\n' {
				i++
			}
			line++
			lineStart = i + 1
		case '\n':
			line++
			lineStart = i + 1
		case 0xe2:
			if i+2 < len(p.input) && p.input[i+1] == 0x80 && (p.input[i+2] == 0xa8 || p.input[i+2] == 0xa9) {
				i += 2
				line++
				lineStart = i + 1
			}
		}
	}
	return Position{Index: len(p.input), Line: line, Column: len(p.input) - lineStart}
}

func (p *Parser) match(kind TokenKind) bool {
	return p.state.Kind == kind
}

func (p *Parser) eat(kind TokenKind) bool {
	if p.match(kind) {
		p.next()
		return true
	}
	return false
}

// expect consumes kind or records a diagnostic and leaves the token.
func (p *Parser) expect(kind TokenKind) bool {
	if p.eat(kind) {
		return true
	}
	if p.match(TokenEOF) {
		p.unexpected(fmt.Sprintf("expected '%s' but reached end of input", kind))
	} else {
		p.unexpected(fmt.Sprintf("expected '%s' but found %s", kind, p.describeToken()))
	}
	return false
}

func (p *Parser) isContextual(name string) bool {
	return p.state.Kind == TokenName && p.state.Value == name && !p.state.ContainsEsc
}

func (p *Parser) eatContextual(name string) bool {
	if p.isContextual(name) {
		p.next()
		return true
	}
	return false
}

func (p *Parser) expectContextual(name string) bool {
	if p.eatContextual(name) {
		return true
	}
	p.unexpected(fmt.Sprintf("expected '%s'", name))
	return false
}

func (p *Parser) canInsertSemicolon() bool {
	return p.match(TokenEOF) || p.match(TokenBraceR) || p.hasPrecedingLineBreak()
}

func (p *Parser) semicolon() {
	if p.eat(TokenSemi) || p.canInsertSemicolon() {
		return
	}
	p.unexpected("missing semicolon")
}

// mustProgress returns a function that checks if the parser has advanced.
// Call it at the start of a loop iteration, then call the returned function
// at the end to break if no progress was made.
func (p *Parser) mustProgress() func() bool {
	saved := p.state.Start.Index
	return func() bool {
		if p.state.Start.Index == saved {
			if !p.match(TokenEOF) {
				p.next()
			}
			return false
		}
		return true
	}
}

// rewind moves the cursor back to the start of the current token so it can
// be scanned again under different context.
func (p *Parser) rewind() {
	s := p.state
	s.Index = s.Start.Index
	s.Line = s.Start.Line
	s.LineStart = s.Start.Index - s.Start.Column
}

// Package parser is an error-tolerant parser for JavaScript with optional
// JSX, Flow and TypeScript type syntax.
//
// # Overview
//
// The parser never fails. Every syntax problem becomes a Diagnostic on the
// resulting Program and parsing continues, so tooling always gets a tree,
// even for incomplete input.
//
// # Architecture
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Input     │────▶│  Tokenizer  │────▶│ Productions │
//	│  (string)   │     │  (context   │     │   (AST)     │
//	└─────────────┘     │   stack)    │     └─────────────┘
//	                    └─────────────┘            │
//	                           │                   ▼
//	                           ▼            ┌─────────────┐
//	                    ┌─────────────┐     │  Comment    │
//	                    │   State     │◀───▶│  attacher   │
//	                    │  (clonable) │     └─────────────┘
//	                    └─────────────┘
//
// The tokenizer is pulled by the productions one token at a time. Whether
// `/` starts a regular expression and whether `<` starts a JSX tag depends on
// a stack of syntactic contexts that the tokenizer maintains itself.
//
// All mutable state lives in a single State value. Ambiguous constructs are
// parsed speculatively: a BranchFinder runs each candidate reading against a
// clone of the state and commits the best one. A branch with no new
// diagnostics wins outright; otherwise a branch with a diagnostics priority
// beats one without, and fewer diagnostics break the remaining ties.
//
// A candidate can be given a diagnostics budget with WithMaxNewDiagnostics.
// Once it records more diagnostics than the budget allows it is aborted:
// the tokenizer yields end of input and the attempt is discarded.
//
// # Entry Points
//
//	// ParseProgram parses a script or module read from r.
//	func ParseProgram(r io.Reader, opts ...Option) *Parser
//
//	// ParseExpression parses a single expression read from r.
//	func ParseExpression(r io.Reader, opts ...Option) *Parser
//
//	// Parse parses src as a program.
//	func Parse(src string, opts ...Option) *Program
//
// # Configuration
//
//	WithFile(path)              // file name used in logs and errors
//	WithSourceType(SourceModule) // strict mode, import and export
//	WithSyntax(Syntax{JSX: true, TS: true})
//	WithTokens()                // collect the token stream
//
// # Suppressions
//
// A comment of the form
//
//	// jsparse-ignore parse/jsx: reason
//
// removes diagnostics of that category starting on the next line. Without a
// category every diagnostic on the next line is removed.
//
// # Thread Safety
//
// A Parser is not safe for concurrent use. Parse independent files with
// independent parsers.
//
// # Example Usage
//
//	prog := parser.Parse("const el = <App title='x' />;",
//		parser.WithSyntax(parser.Syntax{JSX: true}))
//	for _, d := range prog.Diagnostics {
//		fmt.Println(d)
//	}
//	fmt.Print(prog.Root)
package parser

package parser

import (
	"strings"
)

// Category classifies a diagnostic for filtering and presentation.
type Category string

const (
	CategoryJS           Category = "parse/js"
	CategoryJSX          Category = "parse/jsx"
	CategoryTypeScript   Category = "parse/typescript"
	CategoryFlow         Category = "parse/flow"
	CategoryRegex        Category = "parse/regex"
	CategoryString       Category = "parse/string"
	CategoryTemplate     Category = "parse/template"
	CategoryComment      Category = "parse/comment"
	CategoryEscape       Category = "parse/escape"
	CategoryUnterminated Category = "parse/unterminated"
)

// Diagnostic describes a syntax problem. It is never returned as an error;
// productions record it and keep going.
type Diagnostic struct {
	Message     string
	Description string
	Span        Span
	Category    Category
	Advice      []string
}

func (d Diagnostic) String() string {
	var sb strings.Builder
	sb.WriteString(d.Span.Start.String())
	sb.WriteString(": ")
	sb.WriteString(d.Message)
	if d.Category != "" {
		sb.WriteString(" [")
		sb.WriteString(string(d.Category))
		sb.WriteString("]")
	}
	return sb.String()
}

// DiagnosticFilter suppresses diagnostics of a category. Line restricts
// the filter to diagnostics starting on that line; zero matches any line.
// An empty Category matches every category.
type DiagnosticFilter struct {
	Category Category
	Line     int
}

func (f DiagnosticFilter) matches(d Diagnostic) bool {
	if f.Category != "" && f.Category != d.Category {
		return false
	}
	return f.Line == 0 || f.Line == d.Span.Start.Line
}

const suppressionPrefix = "jsparse-ignore"

// addDiagnostic records d on the current attempt. Lookahead states and
// aborted attempts record nothing. When the nearest diagnostics budget is
// exhausted the attempt is marked aborted; the speculative runner that
// installed the budget discards it.
func (p *Parser) addDiagnostic(d Diagnostic) {
	s := p.state
	if s.IsLookahead || s.Aborted {
		return
	}
	if d.Category == "" {
		d.Category = CategoryJS
	}
	s.Diagnostics.append(d)

	if b := p.lastBudget(); b != nil && !b.reset {
		b.remaining--
		if b.remaining < 0 {
			p.abort()
		}
	}
}

func (p *Parser) abort() {
	s := p.state
	if s.Aborted {
		return
	}
	s.Aborted = true
	log.Debugf("speculative attempt aborted at %s after %d diagnostics", s.Start, s.Diagnostics.Len())
}

func (p *Parser) raise(span Span, category Category, message string, advice ...string) {
	p.addDiagnostic(Diagnostic{Message: message, Span: span, Category: category, Advice: advice})
}

// unexpected records a diagnostic at the current token.
func (p *Parser) unexpected(message string) {
	if message == "" {
		if p.state.Kind == TokenEOF {
			message = "unexpected end of input"
		} else {
			message = "unexpected token " + p.describeToken()
		}
	}
	p.raise(Span{Start: p.state.Start, End: p.state.End}, CategoryJS, message)
}

func (p *Parser) describeToken() string {
	s := p.state
	switch s.Kind {
	case TokenName, TokenJSXName, TokenNum, TokenBigInt:
		return "'" + s.Value + "'"
	case TokenString:
		return "string"
	case TokenTemplate, TokenJSXText:
		return s.Kind.String()
	}
	if s.Kind.IsKeyword() {
		return "'" + s.Kind.String() + "'"
	}
	if s.Value != "" {
		return "'" + s.Value + "'"
	}
	return "'" + s.Kind.String() + "'"
}

// addSuppression registers a filter from a `jsparse-ignore <category>`
// comment; it applies to the line after the comment ends.
func (p *Parser) addSuppression(c *Comment) {
	text := strings.TrimSpace(c.Value)
	if !strings.HasPrefix(text, suppressionPrefix) {
		return
	}
	var category string
	if fields := strings.Fields(strings.TrimPrefix(text, suppressionPrefix)); len(fields) > 0 {
		category = strings.TrimSuffix(fields[0], ":")
	}
	if category != "" && !strings.HasPrefix(category, "parse") {
		return
	}
	p.state.DiagnosticFilters.append(DiagnosticFilter{
		Category: Category(category),
		Line:     c.Span.End.Line + 1,
	})
}

// filteredDiagnostics returns every diagnostic that survives the filters,
// in source order.
func (p *Parser) filteredDiagnostics() []Diagnostic {
	var out []Diagnostic
	filters := p.state.DiagnosticFilters.Items()
outer:
	for _, d := range p.state.Diagnostics.Items() {
		for _, f := range filters {
			if f.matches(d) {
				continue outer
			}
		}
		out = append(out, d)
	}
	return out
}

// getDiagnostics applies the suppression filters and returns at most the
// first remaining diagnostic. Later diagnostics are usually cascades of the
// first one.
func (p *Parser) getDiagnostics() []Diagnostic {
	all := p.filteredDiagnostics()
	if len(all) > 1 {
		return all[:1]
	}
	return all
}

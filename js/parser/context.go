package parser

// ContextKind identifies an entry on the tokenizer's context stack. The top
// entry decides whether whitespace is skipped and which scan routine reads
// the next token.
type ContextKind uint8

const (
	ContextBraceStatement ContextKind = iota
	ContextBraceExpression
	ContextTemplateQuasi
	ContextParenStatement
	ContextParenExpression
	ContextTemplate
	ContextFunctionExpression
	ContextFunctionStatement
	ContextJSXOpenTag
	ContextJSXCloseTag
	ContextJSXInner
)

type contextInfo struct {
	token         string
	isExpr        bool
	preserveSpace bool
	hasOverride   bool
}

var contextInfos = [...]contextInfo{
	ContextBraceStatement:     {token: "{"},
	ContextBraceExpression:    {token: "{", isExpr: true},
	ContextTemplateQuasi:      {token: "${"},
	ContextParenStatement:     {token: "("},
	ContextParenExpression:    {token: "(", isExpr: true},
	ContextTemplate:           {token: "`", isExpr: true, preserveSpace: true, hasOverride: true},
	ContextFunctionExpression: {token: "function", isExpr: true},
	ContextFunctionStatement:  {token: "function"},
	ContextJSXOpenTag:         {token: "<tag"},
	ContextJSXCloseTag:        {token: "</tag"},
	ContextJSXInner:           {token: "<tag>...</tag>", isExpr: true, preserveSpace: true, hasOverride: true},
}

func (c ContextKind) String() string {
	if int(c) < len(contextInfos) {
		return contextInfos[c].token
	}
	return "?"
}

func (c ContextKind) IsExpr() bool        { return contextInfos[c].isExpr }
func (c ContextKind) PreserveSpace() bool { return contextInfos[c].preserveSpace }

func initialContext() []ContextKind {
	return []ContextKind{ContextBraceStatement}
}

func (p *Parser) curContext() ContextKind {
	ctx := p.state.Context
	if len(ctx) == 0 {
		return ContextBraceStatement
	}
	return ctx[len(ctx)-1]
}

func (p *Parser) pushContext(c ContextKind) {
	p.state.Context = append(p.state.Context, c)
}

func (p *Parser) popContext() ContextKind {
	ctx := p.state.Context
	if len(ctx) == 0 {
		return ContextBraceStatement
	}
	out := ctx[len(ctx)-1]
	p.state.Context = ctx[:len(ctx)-1]
	return out
}

// readOverride runs the context's own scan routine.
func (p *Parser) readOverride(c ContextKind) {
	switch c {
	case ContextTemplate:
		p.readTemplateToken()
	case ContextJSXInner:
		p.readJSXToken()
	}
}

func (p *Parser) braceIsBlock(prev TokenKind) bool {
	parent := p.curContext()
	if parent == ContextFunctionExpression || parent == ContextFunctionStatement {
		return true
	}
	if prev == TokenColon && (parent == ContextBraceStatement || parent == ContextBraceExpression) {
		return !parent.IsExpr()
	}
	if prev == TokenReturn || (prev == TokenName && p.state.ExprAllowed) {
		return p.hasPrecedingLineBreak()
	}
	switch prev {
	case TokenElse, TokenSemi, TokenEOF, TokenParenR, TokenArrow:
		return true
	case TokenBraceL:
		return parent == ContextBraceStatement
	case TokenVar, TokenConst, TokenName:
		return false
	}
	return !p.state.ExprAllowed
}

// updateContext recomputes ExprAllowed and the context stack after the
// current token was read. prev is the kind of the token before it.
func (p *Parser) updateContext(prev TokenKind) {
	s := p.state
	kind := s.Kind

	if p.syntax.JSX {
		switch {
		case kind == TokenBraceL:
			switch p.curContext() {
			case ContextJSXOpenTag:
				p.pushContext(ContextBraceExpression)
				s.ExprAllowed = true
				return
			case ContextJSXInner:
				p.pushContext(ContextTemplateQuasi)
				s.ExprAllowed = true
				return
			}
		case kind == TokenSlash && prev == TokenJSXTagStart:
			// `</` closes an element: drop the inner and open-tag contexts
			// pushed by the tag start and reconsider as a closing tag.
			p.popContext()
			p.popContext()
			p.pushContext(ContextJSXCloseTag)
			s.ExprAllowed = false
			return
		}
	}

	if kind.IsKeyword() && (prev == TokenDot || prev == TokenQuestionDot) {
		s.ExprAllowed = false
		return
	}

	switch kind {
	case TokenParenR, TokenBraceR:
		if len(s.Context) == 1 {
			s.ExprAllowed = true
			return
		}
		out := p.popContext()
		if out == ContextBraceStatement && contextInfos[p.curContext()].token == "function" {
			out = p.popContext()
		}
		s.ExprAllowed = !out.IsExpr()

	case TokenBraceL:
		if p.braceIsBlock(prev) {
			p.pushContext(ContextBraceStatement)
		} else {
			p.pushContext(ContextBraceExpression)
		}
		s.ExprAllowed = true

	case TokenDollarBraceL:
		p.pushContext(ContextTemplateQuasi)
		s.ExprAllowed = true

	case TokenParenL:
		switch prev {
		case TokenIf, TokenFor, TokenWith, TokenWhile:
			p.pushContext(ContextParenStatement)
		default:
			p.pushContext(ContextParenExpression)
		}
		s.ExprAllowed = true

	case TokenIncDec:

	case TokenFunction, TokenClass:
		if prev.BeforeExpr() && prev != TokenSemi && prev != TokenElse &&
			!(prev == TokenReturn && p.hasPrecedingLineBreak()) &&
			!((prev == TokenColon || prev == TokenBraceL) && p.curContext() == ContextBraceStatement) {
			p.pushContext(ContextFunctionExpression)
		} else {
			p.pushContext(ContextFunctionStatement)
		}
		s.ExprAllowed = false

	case TokenColon:
		if contextInfos[p.curContext()].token == "function" {
			p.popContext()
		}
		s.ExprAllowed = true

	case TokenBackQuote:
		if p.curContext() == ContextTemplate {
			p.popContext()
		} else {
			p.pushContext(ContextTemplate)
		}
		s.ExprAllowed = false

	case TokenName:
		allowed := false
		if prev != TokenDot && prev != TokenQuestionDot {
			if (s.Value == "of" && !s.ExprAllowed && prev != TokenFunction && prev != TokenClass) ||
				(s.Value == "yield" && p.inScope(ScopeGenerator)) {
				allowed = true
			}
		}
		s.ExprAllowed = allowed
		if s.IsIterator {
			s.IsIterator = false
		}

	case TokenJSXTagStart:
		p.pushContext(ContextJSXInner)
		p.pushContext(ContextJSXOpenTag)
		s.ExprAllowed = false

	case TokenJSXTagEnd:
		out := p.popContext()
		if (out == ContextJSXOpenTag && prev == TokenSlash) || out == ContextJSXCloseTag {
			p.popContext()
			s.ExprAllowed = p.curContext() == ContextJSXInner
		} else {
			s.ExprAllowed = true
		}

	default:
		s.ExprAllowed = kind.BeforeExpr()
	}
}

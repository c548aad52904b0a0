package parser

func (p *Parser) parseExpressionEntry() *Node {
	m := p.startNodeAt(Position{Line: 1})
	expr := p.parseExpression()
	if !p.match(TokenEOF) {
		p.unexpected("")
	}
	return p.finishNodeAt(m, p.endOfInput(), KindProgram, p.sourceType.String(), 0, fields{}.add("expression", expr))
}

func (p *Parser) parseExpression() *Node {
	m := p.startNode()
	expr := p.parseMaybeAssign()
	if !p.match(TokenComma) {
		return expr
	}
	exprs := []*Node{expr}
	for p.eat(TokenComma) {
		exprs = append(exprs, p.parseMaybeAssign())
	}
	return p.finishNode(m, KindSequenceExpression, "", 0, fields{}.addAll("expressions", exprs))
}

func (p *Parser) parseExpressionAllowIn() *Node {
	return withScope(p, ScopeNoIn, false, p.parseExpression)
}

func (p *Parser) parseMaybeAssignAllowIn() *Node {
	return withScope(p, ScopeNoIn, false, p.parseMaybeAssign)
}

// parseMaybeAssign parses an assignment expression. A leading `<` is
// ambiguous when type syntax is enabled and is resolved by parsing every
// reading.
func (p *Parser) parseMaybeAssign() *Node {
	if p.syntax.HasTypes() && (p.match(TokenJSXTagStart) || p.match(TokenLessThan)) {
		return p.parseMaybeAssignAngle()
	}
	return p.parseMaybeAssignRest()
}

func (p *Parser) parseMaybeAssignRest() *Node {
	if p.isContextual("yield") && p.inScope(ScopeGenerator) {
		return p.parseYield()
	}
	m := p.startNode()
	if p.match(TokenParenL) || p.match(TokenName) {
		p.state.PotentialArrowAt = p.state.Start.Index
	}
	left := p.parseMaybeConditional()
	if !p.state.Kind.IsAssign() {
		return left
	}
	op := p.state.Value
	if p.match(TokenEq) {
		left = p.toAssignable(left)
	} else {
		p.checkSimpleTarget(left)
	}
	p.next()
	right := p.parseMaybeAssign()
	return p.finishNode(m, KindAssignmentExpression, op, 0, fields{}.add("left", left).add("right", right))
}

func (p *Parser) parseMaybeConditional() *Node {
	m := p.startNode()
	expr := p.parseExprOps()
	if !p.match(TokenQuestion) {
		return expr
	}
	p.next()
	consequent := p.parseMaybeAssignAllowIn()
	p.expect(TokenColon)
	alternate := p.parseMaybeAssign()
	return p.finishNode(m, KindConditionalExpression, "", 0,
		fields{}.add("test", expr).add("consequent", consequent).add("alternate", alternate))
}

func (p *Parser) parseExprOps() *Node {
	m := p.startNode()
	left := p.parseMaybeUnary()
	if left.Kind == KindArrowFunctionExpression {
		return left
	}
	return p.parseExprOp(left, m, -1)
}

func (p *Parser) parseExprOp(left *Node, m marker, minPrec int) *Node {
	kind := p.state.Kind

	if p.syntax.TS && p.isContextual("as") && !p.hasPrecedingLineBreak() && TokenRelational.BinaryPrec() > minPrec {
		typ := p.parseTypeAfter()
		node := p.finishNode(m, KindAsExpression, "", 0, fields{}.add("expression", left).add("typeAnnotation", typ))
		return p.parseExprOp(node, m, minPrec)
	}

	prec := kind.BinaryPrec()
	if prec == 0 || prec <= minPrec || (kind == TokenIn && p.inScope(ScopeNoIn)) {
		return left
	}
	op := p.state.Value
	nodeKind := KindBinaryExpression
	switch kind {
	case TokenLogicalOR, TokenLogicalAND, TokenNullishCoalescing:
		nodeKind = KindLogicalExpression
	}
	p.next()

	rm := p.startNode()
	nextPrec := prec
	if kind == TokenExponent {
		nextPrec = prec - 1
	}
	right := p.parseExprOp(p.parseMaybeUnary(), rm, nextPrec)
	node := p.finishNode(m, nodeKind, op, 0, fields{}.add("left", left).add("right", right))
	return p.parseExprOp(node, m, minPrec)
}

func (p *Parser) parseMaybeUnary() *Node {
	m := p.startNode()
	s := p.state

	if p.isContextual("await") && (p.inScope(ScopeAsync) || (p.sourceType == SourceModule && !p.inScope(ScopeFunction))) {
		p.next()
		arg := p.parseMaybeUnary()
		return p.finishNode(m, KindAwaitExpression, "", 0, fields{}.add("argument", arg))
	}

	if p.syntax.TS && !p.syntax.JSX && p.match(TokenLessThan) {
		return p.parseTypeAssertion()
	}

	if s.Kind.IsPrefix() && s.Kind != TokenThrow {
		op := s.Value
		update := s.Kind == TokenIncDec
		p.next()
		arg := p.parseMaybeUnary()
		if update {
			p.checkSimpleTarget(arg)
			return p.finishNode(m, KindUpdateExpression, op, FlagPrefix, fields{}.add("argument", arg))
		}
		if op == "delete" && arg.Kind == KindIdentifier && p.inScope(ScopeStrict) {
			p.raise(arg.Span, CategoryJS, "deleting local variable in strict mode")
		}
		return p.finishNode(m, KindUnaryExpression, op, FlagPrefix, fields{}.add("argument", arg))
	}

	expr := p.parseExprSubscripts()
	for p.state.Kind.IsPostfix() && !p.canInsertSemicolon() {
		p.checkSimpleTarget(expr)
		op := p.state.Value
		p.next()
		expr = p.finishNode(m, KindUpdateExpression, op, 0, fields{}.add("argument", expr))
	}
	return expr
}

func (p *Parser) parseYield() *Node {
	m := p.startNode()
	p.next()
	var flags NodeFlags
	var arg *Node
	if !p.hasPrecedingLineBreak() {
		if p.eat(TokenStar) {
			flags |= FlagGenerator
			arg = p.parseMaybeAssign()
		} else {
			switch p.state.Kind {
			case TokenSemi, TokenEOF, TokenBraceR, TokenParenR, TokenBracketR, TokenComma, TokenColon:
			default:
				if p.state.Kind.StartsExpr() {
					arg = p.parseMaybeAssign()
				}
			}
		}
	}
	return p.finishNode(m, KindYieldExpression, "", flags, fields{}.add("argument", arg))
}

func (p *Parser) parseExprSubscripts() *Node {
	m := p.startNode()
	base := p.parseExprAtom()
	if base.Kind == KindArrowFunctionExpression {
		return base
	}
	return p.parseSubscripts(base, m, false)
}

func (p *Parser) parseSubscripts(base *Node, m marker, noCalls bool) *Node {
	for {
		progress := p.mustProgress()
		switch {
		case p.match(TokenDot):
			p.next()
			prop := p.parsePropertyIdentifier()
			base = p.finishNode(m, KindMemberExpression, "", 0, fields{}.add("object", base).add("property", prop))

		case p.match(TokenQuestionDot):
			if noCalls {
				return base
			}
			p.next()
			switch {
			case p.match(TokenParenL):
				args := p.parseCallArgs()
				base = p.finishNode(m, KindCallExpression, "", FlagOptional, fields{}.add("callee", base).addAll("arguments", args))
			case p.eat(TokenBracketL):
				prop := p.parseExpressionAllowIn()
				p.expect(TokenBracketR)
				base = p.finishNode(m, KindMemberExpression, "", FlagOptional|FlagComputed, fields{}.add("object", base).add("property", prop))
			default:
				prop := p.parsePropertyIdentifier()
				base = p.finishNode(m, KindMemberExpression, "", FlagOptional, fields{}.add("object", base).add("property", prop))
			}

		case p.match(TokenBracketL):
			p.next()
			prop := p.parseExpressionAllowIn()
			p.expect(TokenBracketR)
			base = p.finishNode(m, KindMemberExpression, "", FlagComputed, fields{}.add("object", base).add("property", prop))

		case !noCalls && p.match(TokenParenL):
			args := p.parseCallArgs()
			base = p.finishNode(m, KindCallExpression, "", 0, fields{}.add("callee", base).addAll("arguments", args))

		case p.match(TokenBackQuote):
			quasi := p.parseTemplate()
			base = p.finishNode(m, KindTaggedTemplateExpression, "", 0, fields{}.add("tag", base).add("quasi", quasi))

		case p.syntax.TS && p.match(TokenBang) && !p.hasPrecedingLineBreak():
			p.next()
			base = p.finishNode(m, KindNonNullExpression, "", 0, fields{}.add("expression", base))

		default:
			return base
		}
		if !progress() {
			return base
		}
	}
}

// parsePropertyIdentifier parses the name after `.`, where keywords are
// allowed.
func (p *Parser) parsePropertyIdentifier() *Node {
	m := p.startNode()
	s := p.state
	switch {
	case s.Kind == TokenPrivateName:
		name := s.Value
		p.next()
		return p.finishNode(m, KindPrivateName, name, 0, nil)
	case s.Kind == TokenName || s.Kind.IsKeyword():
		name := s.Value
		p.next()
		return p.finishNode(m, KindIdentifier, name, 0, nil)
	}
	p.unexpected("")
	return p.finishNode(m, KindUnknownIdentifier, "", 0, nil)
}

func (p *Parser) parseCallArgs() []*Node {
	p.expect(TokenParenL)
	var args []*Node
	first := true
	for !p.eat(TokenParenR) {
		if p.match(TokenEOF) {
			p.expect(TokenParenR)
			break
		}
		if first {
			first = false
		} else {
			p.expect(TokenComma)
			if p.eat(TokenParenR) {
				break
			}
		}
		progress := p.mustProgress()
		args = append(args, p.parseExprListItem())
		if !progress() {
			break
		}
	}
	return args
}

func (p *Parser) parseExprListItem() *Node {
	if p.match(TokenEllipsis) {
		m := p.startNode()
		p.next()
		arg := p.parseMaybeAssignAllowIn()
		return p.finishNode(m, KindSpreadElement, "", 0, fields{}.add("argument", arg))
	}
	return p.parseMaybeAssignAllowIn()
}

func (p *Parser) parseIdentifier() *Node {
	m := p.startNode()
	if p.match(TokenName) {
		name := p.state.Value
		p.next()
		return p.finishNode(m, KindIdentifier, name, 0, nil)
	}
	p.unexpected("")
	return p.finishNode(m, KindUnknownIdentifier, "", 0, nil)
}

func (p *Parser) parseExprAtom() *Node {
	m := p.startNode()
	s := p.state
	canArrow := s.PotentialArrowAt == s.Start.Index

	switch s.Kind {
	case TokenThis:
		p.next()
		return p.finishNode(m, KindThisExpression, "", 0, nil)

	case TokenSuper:
		p.next()
		if !p.match(TokenParenL) && !p.match(TokenDot) && !p.match(TokenBracketL) {
			p.unexpected("'super' must be followed by an argument list or member access")
		}
		return p.finishNode(m, KindSuper, "", 0, nil)

	case TokenNull:
		p.next()
		return p.finishNode(m, KindNullLiteral, "", 0, nil)

	case TokenTrue, TokenFalse:
		value := s.Value
		p.next()
		return p.finishNode(m, KindBooleanLiteral, value, 0, nil)

	case TokenNum:
		value := s.Value
		p.next()
		return p.finishNode(m, KindNumericLiteral, value, 0, nil)

	case TokenBigInt:
		value := s.Value
		p.next()
		return p.finishNode(m, KindBigIntLiteral, value, 0, nil)

	case TokenString:
		value := s.Value
		p.next()
		return p.finishNode(m, KindStringLiteral, value, 0, nil)

	case TokenSlash, TokenAssign:
		if s.Kind == TokenAssign && s.Value != "/=" {
			break
		}
		p.rewind()
		p.readRegexp()
		fallthrough

	case TokenRegex:
		value := p.state.Value
		p.next()
		return p.finishNode(m, KindRegExpLiteral, value, 0, nil)

	case TokenName:
		if p.isContextual("async") {
			if node := p.parseAsyncAtom(m, canArrow); node != nil {
				return node
			}
		}
		if canArrow {
			ahead := p.lookahead()
			if ahead.Kind == TokenArrow && !containsLineBreak(p.input[s.End.Index:ahead.Start.Index]) {
				id := p.parseIdentifier()
				return p.parseArrowBody(m, nil, []*Node{id}, nil, false)
			}
		}
		return p.parseIdentifier()

	case TokenParenL:
		if !canArrow {
			return p.parseParenExpression()
		}
		bf := NewBranchFinder[exprReading](p)
		bf.Add(func(p *Parser) (exprReading, bool) {
			head, ok := p.parseArrowHead(m, nil, false)
			return exprReading{arrow: head}, ok
		}, WithMaxNewDiagnostics(0), WithDiagnosticsPriority(1))
		bf.Add(func(p *Parser) (exprReading, bool) {
			return exprReading{expr: p.parseParenExpression()}, true
		})
		return p.finishReading(bf.Pick())

	case TokenBracketL:
		return p.parseArrayLiteral()

	case TokenBraceL:
		return p.parseObject(false)

	case TokenFunction:
		return p.parseFunction(m, false, false)

	case TokenClass:
		return p.parseClass(m, false)

	case TokenBackQuote:
		return p.parseTemplate()

	case TokenNew:
		return p.parseNew()

	case TokenImport:
		p.next()
		if p.eat(TokenDot) {
			prop := p.parsePropertyIdentifier()
			if prop.Value != "meta" {
				p.raise(prop.Span, CategoryJS, "the only valid meta property for import is import.meta")
			}
			return p.finishNode(m, KindMetaProperty, "import", 0, fields{}.add("property", prop))
		}
		args := p.parseCallArgs()
		if len(args) != 1 {
			p.raise(Span{Start: m.start, End: p.state.LastTokEnd}, CategoryJS, "import() requires exactly one argument")
		}
		return p.finishNode(m, KindImportCall, "", 0, fields{}.addAll("arguments", args))

	case TokenPrivateName:
		name := s.Value
		p.next()
		return p.finishNode(m, KindPrivateName, name, 0, nil)

	case TokenJSXTagStart:
		if p.syntax.JSX {
			return p.parseJSXElement()
		}
	}

	p.unexpected("")
	switch s.Kind {
	case TokenParenR, TokenBracketR, TokenBraceR, TokenSemi, TokenComma, TokenEOF:
	default:
		p.next()
	}
	return p.finishNode(m, KindUnknownIdentifier, "", 0, nil)
}

// parseAsyncAtom handles `async function`, `async x => y` and
// `async (x) => y`. It returns nil when `async` is a plain identifier.
func (p *Parser) parseAsyncAtom(m marker, canArrow bool) *Node {
	s := p.state
	ahead := p.lookahead()
	if containsLineBreak(p.input[s.End.Index:ahead.Start.Index]) {
		return nil
	}
	if ahead.Kind == TokenFunction {
		p.next()
		return p.parseFunction(m, false, true)
	}
	if !canArrow || (ahead.Kind != TokenName && ahead.Kind != TokenParenL) {
		return nil
	}
	bf := NewBranchFinder[*arrowHead](p)
	bf.Add(func(p *Parser) (*arrowHead, bool) {
		p.next()
		if p.match(TokenParenL) {
			return p.parseArrowHead(m, nil, true)
		}
		id := p.parseIdentifier()
		if !p.match(TokenArrow) || p.hasPrecedingLineBreak() {
			return nil, false
		}
		return &arrowHead{m: m, params: []*Node{id}, async: true}, true
	}, WithMaxNewDiagnostics(0), WithDiagnosticsPriority(1))
	head, ok := bf.PickOptional()
	if !ok {
		return nil
	}
	return p.finishReading(exprReading{arrow: head})
}

// arrowHead is an arrow function parsed up to its `=>`. The body is parsed
// once the reading is committed, so a mistake in the body never counts
// against the speculative attempt.
type arrowHead struct {
	m          marker
	typeParams *Node
	params     []*Node
	returnType *Node
	async      bool
}

// exprReading is the result of a candidate that either parsed a whole
// expression or stopped after an arrow head.
type exprReading struct {
	expr  *Node
	arrow *arrowHead
}

func (p *Parser) finishReading(r exprReading) *Node {
	if h := r.arrow; h != nil {
		return p.parseArrowBody(h.m, h.typeParams, h.params, h.returnType, h.async)
	}
	return r.expr
}

// parseArrowHead parses `(params) [: type]` at `(` and checks that `=>`
// follows. It declines without parsing when a token scan finds no arrow
// after the matching `)`, or when an arrow head at this `(` was already
// abandoned.
func (p *Parser) parseArrowHead(m marker, typeParams *Node, isAsync bool) (*arrowHead, bool) {
	at := p.state.Start.Index
	if !p.match(TokenParenL) || p.abandonedArrows[at] || !p.arrowAhead() {
		return nil, false
	}
	head, ok := p.parseArrowParams(m, typeParams, isAsync)
	if !ok || p.state.Aborted {
		if p.abandonedArrows == nil {
			p.abandonedArrows = make(map[int]bool)
		}
		p.abandonedArrows[at] = true
	}
	return head, ok
}

// arrowAhead reports whether the bracket at the current `(` is closed and
// followed by `=>`, or by `:` when type annotations are enabled. It looks
// at tokens only, counting brackets, and leaves no trace.
func (p *Parser) arrowAhead() bool {
	old := p.state
	p.state = old.Clone(true)
	p.state.IsLookahead = true
	defer func() { p.state = old }()
	if p.syntax.HasTypes() {
		p.pushScope(ScopeType, true)
	}

	depth := 0
	for {
		switch p.state.Kind {
		case TokenParenL, TokenBracketL, TokenBraceL, TokenDollarBraceL:
			depth++
		case TokenParenR, TokenBracketR, TokenBraceR:
			depth--
			if depth == 0 {
				p.next()
				k := p.state.Kind
				return k == TokenArrow || (k == TokenColon && p.syntax.HasTypes())
			}
		case TokenEOF:
			return false
		}
		p.next()
	}
}

func (p *Parser) parseArrowParams(m marker, typeParams *Node, isAsync bool) (*arrowHead, bool) {
	p.next()
	p.pushScope(ScopeParameters, true)
	var params []*Node
	first := true
	for !p.eat(TokenParenR) {
		if first {
			first = false
		} else {
			if !p.eat(TokenComma) {
				return nil, false
			}
			if p.eat(TokenParenR) {
				break
			}
		}
		switch p.state.Kind {
		case TokenName, TokenBraceL, TokenBracketL:
			params = append(params, p.parseBindingElement())
		case TokenEllipsis:
			params = append(params, p.parseRest(TokenParenR))
		default:
			return nil, false
		}
	}

	p.popScope(ScopeParameters)

	var returnType *Node
	if p.syntax.HasTypes() && p.match(TokenColon) {
		returnType = p.parseTypeAnnotation()
	}
	if !p.match(TokenArrow) || p.hasPrecedingLineBreak() {
		return nil, false
	}
	return &arrowHead{m: m, typeParams: typeParams, params: params, returnType: returnType, async: isAsync}, true
}

// parseArrowBody parses from `=>` to the end of the arrow function.
func (p *Parser) parseArrowBody(m marker, typeParams *Node, params []*Node, returnType *Node, isAsync bool) *Node {
	p.expect(TokenArrow)
	var flags NodeFlags
	if isAsync {
		flags |= FlagAsync
	}
	p.pushScope(ScopeFunction, true)
	p.pushScope(ScopeAsync, isAsync)
	p.pushScope(ScopeGenerator, false)
	var body *Node
	if p.match(TokenBraceL) {
		body = p.parseFunctionBody()
	} else {
		flags |= FlagExpressionBody
		body = p.parseMaybeAssignAllowIn()
	}
	p.popScope(ScopeGenerator)
	p.popScope(ScopeAsync)
	p.popScope(ScopeFunction)
	return p.finishNode(m, KindArrowFunctionExpression, "", flags, fields{}.
		add("typeParameters", typeParams).
		addAll("params", params).
		add("returnType", returnType).
		add("body", body))
}

func (p *Parser) parseParenExpression() *Node {
	m := p.startNode()
	p.expect(TokenParenL)
	var expr *Node
	if p.match(TokenParenR) {
		p.unexpected("")
		expr = p.finishNode(m, KindUnknownIdentifier, "", 0, nil)
	} else {
		expr = p.parseExpressionAllowIn()
	}
	if p.syntax.Flow && p.match(TokenColon) {
		typ := p.parseTypeAnnotation()
		expr = p.finishNode(m, KindTypeCastExpression, "", 0, fields{}.add("expression", expr).add("typeAnnotation", typ))
	}
	p.expect(TokenParenR)
	return expr
}

func (p *Parser) parseArrayLiteral() *Node {
	m := p.startNode()
	p.next()
	var f fields
	first := true
	for !p.eat(TokenBracketR) {
		if p.match(TokenEOF) {
			p.expect(TokenBracketR)
			break
		}
		if first {
			first = false
		} else {
			p.expect(TokenComma)
			if p.eat(TokenBracketR) {
				break
			}
		}
		if p.match(TokenComma) {
			f = f.addHole("elements", nil)
			continue
		}
		progress := p.mustProgress()
		f = f.add("elements", p.parseExprListItem())
		if !progress() {
			break
		}
	}
	return p.finishNode(m, KindArrayExpression, "", 0, f)
}

func (p *Parser) parseNew() *Node {
	m := p.startNode()
	p.next()
	if p.eat(TokenDot) {
		prop := p.parsePropertyIdentifier()
		if prop.Value != "target" {
			p.raise(prop.Span, CategoryJS, "the only valid meta property for new is new.target")
		} else if !p.inScope(ScopeFunction) {
			p.raise(Span{Start: m.start, End: prop.Span.End}, CategoryJS, "new.target can only be used in functions")
		}
		return p.finishNode(m, KindMetaProperty, "new", 0, fields{}.add("property", prop))
	}
	cm := p.startNode()
	var callee *Node
	if p.match(TokenNew) {
		callee = p.parseNew()
	} else {
		callee = p.parseSubscripts(p.parseExprAtom(), cm, true)
	}
	var args []*Node
	if p.match(TokenParenL) {
		args = p.parseCallArgs()
	}
	return p.finishNode(m, KindNewExpression, "", 0, fields{}.add("callee", callee).addAll("arguments", args))
}

func (p *Parser) parseTemplate() *Node {
	m := p.startNode()
	p.expect(TokenBackQuote)
	var f fields
	f = f.add("quasis", p.parseTemplateElement())
	for !p.match(TokenBackQuote) && !p.match(TokenEOF) {
		progress := p.mustProgress()
		p.expect(TokenDollarBraceL)
		f = f.add("expressions", p.parseExpressionAllowIn())
		p.expect(TokenBraceR)
		f = f.add("quasis", p.parseTemplateElement())
		if !progress() {
			break
		}
	}
	p.expect(TokenBackQuote)
	return p.finishNode(m, KindTemplateLiteral, "", 0, f)
}

func (p *Parser) parseTemplateElement() *Node {
	m := p.startNode()
	if !p.match(TokenTemplate) {
		return p.finishNodeAt(m, m.start, KindTemplateElement, "", FlagTail, nil)
	}
	value := p.state.Value
	p.next()
	var flags NodeFlags
	if p.match(TokenBackQuote) {
		flags = FlagTail
	}
	return p.finishNode(m, KindTemplateElement, value, flags, nil)
}

// parseObject parses an object literal or, with isPattern, an object
// binding pattern.
func (p *Parser) parseObject(isPattern bool) *Node {
	m := p.startNode()
	p.expect(TokenBraceL)
	var props []*Node
	first := true
	for !p.eat(TokenBraceR) {
		if p.match(TokenEOF) {
			p.expect(TokenBraceR)
			break
		}
		if first {
			first = false
		} else {
			p.expect(TokenComma)
			if p.eat(TokenBraceR) {
				break
			}
		}
		progress := p.mustProgress()
		if isPattern {
			props = append(props, p.parseObjectPatternMember())
		} else {
			props = append(props, p.parseObjectMember())
		}
		if !progress() {
			break
		}
	}
	kind := KindObjectExpression
	var f fields
	f = f.addAll("properties", props)
	if isPattern {
		kind = KindObjectPattern
		if p.syntax.HasTypes() && p.match(TokenColon) {
			f = f.add("typeAnnotation", p.parseTypeAnnotation())
		}
	}
	return p.finishNode(m, kind, "", 0, f)
}

// isMemberModifier reports whether the current name is a modifier such as
// `get` rather than a property called `get`.
func (p *Parser) isMemberModifier() bool {
	s := p.state
	ahead := p.lookahead()
	switch ahead.Kind {
	case TokenComma, TokenBraceR, TokenColon, TokenParenL, TokenEq, TokenSemi, TokenEOF, TokenQuestion:
		return false
	}
	return !containsLineBreak(p.input[s.End.Index:ahead.Start.Index])
}

func (p *Parser) parseObjectMember() *Node {
	m := p.startNode()
	if p.match(TokenEllipsis) {
		p.next()
		arg := p.parseMaybeAssignAllowIn()
		return p.finishNode(m, KindSpreadElement, "", 0, fields{}.add("argument", arg))
	}

	var flags NodeFlags
	kind := "method"
	if p.isContextual("async") && p.isMemberModifier() {
		flags |= FlagAsync
		p.next()
	}
	if p.eat(TokenStar) {
		flags |= FlagGenerator
	}
	if flags == 0 && (p.isContextual("get") || p.isContextual("set")) && p.isMemberModifier() {
		kind = p.state.Value
		p.next()
	}

	key, computed := p.parsePropertyName()
	if computed {
		flags |= FlagComputed
	}
	if flags&(FlagAsync|FlagGenerator) != 0 || kind != "method" || p.match(TokenParenL) || p.match(TokenLessThan) {
		fp := p.parseFunctionParts(flags&FlagAsync != 0, flags&FlagGenerator != 0)
		return p.finishNode(m, KindObjectMethod, kind, flags|FlagMethod, append(fields{}.add("key", key), fp.fields()...))
	}
	if p.eat(TokenColon) {
		value := p.parseMaybeAssignAllowIn()
		return p.finishNode(m, KindObjectProperty, "", flags, fields{}.add("key", key).add("value", value))
	}
	if key.Kind != KindIdentifier || computed {
		p.unexpected("")
		return p.finishNode(m, KindObjectProperty, "", flags, fields{}.add("key", key))
	}
	value := p.parseMaybeDefault(p.startNodeAtNode(key), key)
	return p.finishNode(m, KindObjectProperty, "", flags|FlagShorthand, fields{}.add("key", key).add("value", value))
}

func (p *Parser) parseObjectPatternMember() *Node {
	m := p.startNode()
	if p.match(TokenEllipsis) {
		return p.parseRest(TokenBraceR)
	}
	key, computed := p.parsePropertyName()
	var flags NodeFlags
	if computed {
		flags |= FlagComputed
	}
	if p.eat(TokenColon) {
		value := p.parseBindingElement()
		return p.finishNode(m, KindObjectProperty, "", flags, fields{}.add("key", key).add("value", value))
	}
	if key.Kind != KindIdentifier || computed {
		p.unexpected("")
		return p.finishNode(m, KindObjectProperty, "", flags, fields{}.add("key", key))
	}
	value := p.parseMaybeDefault(p.startNodeAtNode(key), key)
	return p.finishNode(m, KindObjectProperty, "", flags|FlagShorthand, fields{}.add("key", key).add("value", value))
}

// parsePropertyName parses an object or class member key and reports
// whether it was computed.
func (p *Parser) parsePropertyName() (*Node, bool) {
	m := p.startNode()
	s := p.state
	if p.eat(TokenBracketL) {
		key := p.parseMaybeAssignAllowIn()
		p.expect(TokenBracketR)
		return key, true
	}
	return withScope(p, ScopePropertyName, true, func() *Node {
		value := s.Value
		switch {
		case s.Kind == TokenString:
			p.next()
			return p.finishNode(m, KindStringLiteral, value, 0, nil)
		case s.Kind == TokenNum:
			p.next()
			return p.finishNode(m, KindNumericLiteral, value, 0, nil)
		case s.Kind == TokenBigInt:
			p.next()
			return p.finishNode(m, KindBigIntLiteral, value, 0, nil)
		case s.Kind == TokenPrivateName:
			p.next()
			return p.finishNode(m, KindPrivateName, value, 0, nil)
		case s.Kind == TokenName || s.Kind.IsKeyword():
			p.next()
			return p.finishNode(m, KindIdentifier, value, 0, nil)
		}
		p.unexpected("")
		return p.finishNode(m, KindUnknownIdentifier, "", 0, nil)
	}), false
}

func (p *Parser) parseMaybeDefault(m marker, left *Node) *Node {
	if !p.eat(TokenEq) {
		return left
	}
	right := p.parseMaybeAssignAllowIn()
	return p.finishNode(m, KindAssignmentPattern, "", 0, fields{}.add("left", left).add("right", right))
}

// parseBindingAtom parses an identifier or a destructuring pattern.
func (p *Parser) parseBindingAtom() *Node {
	switch p.state.Kind {
	case TokenBracketL:
		m := p.startNode()
		p.next()
		var f fields
		first := true
		for !p.eat(TokenBracketR) {
			if p.match(TokenEOF) {
				p.expect(TokenBracketR)
				break
			}
			if first {
				first = false
			} else {
				p.expect(TokenComma)
				if p.eat(TokenBracketR) {
					break
				}
			}
			if p.match(TokenComma) {
				f = f.addHole("elements", nil)
				continue
			}
			progress := p.mustProgress()
			if p.match(TokenEllipsis) {
				f = f.add("elements", p.parseRest(TokenBracketR))
			} else {
				f = f.add("elements", p.parseBindingElement())
			}
			if !progress() {
				break
			}
		}
		if p.syntax.HasTypes() && p.match(TokenColon) {
			f = f.add("typeAnnotation", p.parseTypeAnnotation())
		}
		return p.finishNode(m, KindArrayPattern, "", 0, f)

	case TokenBraceL:
		return p.parseObject(true)
	}
	return p.parseBindingIdentifier()
}

func (p *Parser) parseBindingIdentifier() *Node {
	m := p.startNode()
	if !p.match(TokenName) {
		p.unexpected("")
		if p.state.Kind.IsKeyword() {
			p.next()
		}
		return p.finishNode(m, KindUnknownIdentifier, "", 0, nil)
	}
	name := p.state.Value
	if p.inScope(ScopeStrict) && (name == "eval" || name == "arguments") {
		p.raise(Span{Start: p.state.Start, End: p.state.End}, CategoryJS, "binding '"+name+"' in strict mode")
	}
	p.next()
	var flags NodeFlags
	var f fields
	if p.syntax.HasTypes() {
		if p.inScope(ScopeParameters) && p.eat(TokenQuestion) {
			flags |= FlagOptional
		}
		if p.match(TokenColon) {
			f = f.add("typeAnnotation", p.parseTypeAnnotation())
		}
	}
	return p.finishNode(m, KindIdentifier, name, flags, f)
}

func (p *Parser) parseBindingElement() *Node {
	m := p.startNode()
	left := p.parseBindingAtom()
	return p.parseMaybeDefault(m, left)
}

func (p *Parser) parseRest(close TokenKind) *Node {
	m := p.startNode()
	p.expect(TokenEllipsis)
	arg := p.parseBindingAtom()
	if !p.match(close) {
		p.raise(Span{Start: m.start, End: p.state.LastTokEnd}, CategoryJS, "rest element must be last element")
	}
	return p.finishNode(m, KindRestElement, "", 0, fields{}.add("argument", arg))
}

// toAssignable converts an expression parsed before an `=` into the
// equivalent pattern.
func (p *Parser) toAssignable(n *Node) *Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindIdentifier, KindMemberExpression, KindObjectPattern, KindArrayPattern,
		KindAssignmentPattern, KindRestElement, KindUnknownIdentifier:
		return n

	case KindObjectExpression:
		var f fields
		for _, prop := range n.All("properties") {
			switch prop.Kind {
			case KindObjectProperty:
				f = f.add("properties", p.rebuild(prop, prop.Kind, replaceEdge(prop.Edges, "value", p.toAssignable(prop.Get("value")))))
			case KindSpreadElement:
				f = f.add("properties", p.rebuild(prop, KindRestElement, replaceEdge(prop.Edges, "argument", p.toAssignable(prop.Get("argument")))))
			default:
				p.raise(prop.Span, CategoryJS, "object pattern can't contain methods")
				f = f.add("properties", prop)
			}
		}
		return p.rebuild(n, KindObjectPattern, f)

	case KindArrayExpression:
		var f fields
		for _, el := range n.All("elements") {
			switch {
			case el == nil:
				f = f.addHole("elements", nil)
			case el.Kind == KindSpreadElement:
				f = f.add("elements", p.rebuild(el, KindRestElement, replaceEdge(el.Edges, "argument", p.toAssignable(el.Get("argument")))))
			default:
				f = f.add("elements", p.toAssignable(el))
			}
		}
		return p.rebuild(n, KindArrayPattern, f)

	case KindAssignmentExpression:
		if n.Value != "=" {
			break
		}
		return p.rebuild(n, KindAssignmentPattern, fields{}.add("left", n.Get("left")).add("right", n.Get("right")))

	case KindTypeCastExpression, KindAsExpression, KindNonNullExpression:
		return n
	}
	p.raise(n.Span, CategoryJS, "invalid left-hand side in assignment")
	return n
}

func (p *Parser) checkSimpleTarget(n *Node) {
	switch n.Kind {
	case KindIdentifier, KindMemberExpression, KindUnknownIdentifier, KindNonNullExpression, KindAsExpression, KindTypeCastExpression:
		return
	}
	p.raise(n.Span, CategoryJS, "invalid left-hand side in assignment")
}

func replaceEdge(edges []Edge, role string, n *Node) fields {
	out := make(fields, 0, len(edges))
	for _, e := range edges {
		if e.Role == role {
			e.Node = n
		}
		out = append(out, e)
	}
	return out
}

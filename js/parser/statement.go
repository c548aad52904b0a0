package parser

func (p *Parser) parseTopLevel() *Node {
	m := p.startNodeAt(Position{Line: 1})
	directives, body := p.parseBlockBody(TokenEOF, true)
	if !p.match(TokenEOF) {
		p.unexpected("")
	}
	return p.finishNodeAt(m, p.endOfInput(), KindProgram, p.sourceType.String(), 0,
		fields{}.addAll("directives", directives).addAll("body", body))
}

// parseBlockBody parses statements up to end. A "use strict" directive
// puts the rest of the body in strict mode.
func (p *Parser) parseBlockBody(end TokenKind, allowDirectives bool) ([]*Node, []*Node) {
	var directives, body []*Node
	strict := false
	for allowDirectives && p.isDirective() {
		d := p.parseDirective()
		directives = append(directives, d)
		if d.Value == "use strict" && !strict {
			strict = true
			p.pushScope(ScopeStrict, true)
		}
	}
	for !p.match(end) && !p.match(TokenEOF) {
		progress := p.mustProgress()
		body = append(body, p.parseStatement())
		if !progress() {
			break
		}
	}
	if strict {
		p.popScope(ScopeStrict)
	}
	return directives, body
}

func (p *Parser) isDirective() bool {
	if !p.match(TokenString) {
		return false
	}
	s := p.state
	ahead := p.lookahead()
	switch ahead.Kind {
	case TokenSemi, TokenBraceR, TokenEOF:
		return true
	}
	return containsLineBreak(p.input[s.End.Index:ahead.Start.Index]) && !ahead.Kind.BeforeExpr() &&
		ahead.Kind != TokenDot && ahead.Kind != TokenBracketL && ahead.Kind != TokenParenL && ahead.Kind != TokenBackQuote
}

func (p *Parser) parseDirective() *Node {
	m := p.startNode()
	raw := p.input[p.state.Start.Index+1 : max(p.state.Start.Index+1, p.state.End.Index-1)]
	p.next()
	p.semicolon()
	return p.finishNode(m, KindDirective, raw, 0, nil)
}

func (p *Parser) parseStatement() *Node {
	m := p.startNode()
	s := p.state

	switch s.Kind {
	case TokenBraceL:
		return p.parseBlock()
	case TokenSemi:
		p.next()
		return p.finishNode(m, KindEmptyStatement, "", 0, nil)
	case TokenVar, TokenConst:
		return p.parseVar(m, s.Value, false)
	case TokenFunction:
		return p.parseFunction(m, true, false)
	case TokenClass:
		return p.parseClass(m, true)
	case TokenIf:
		return p.parseIf()
	case TokenFor:
		return p.parseFor()
	case TokenWhile:
		p.next()
		test := p.parseHeaderExpression()
		body := p.parseLoopBody()
		return p.finishNode(m, KindWhileStatement, "", 0, fields{}.add("test", test).add("body", body))
	case TokenDo:
		p.next()
		body := p.parseLoopBody()
		p.expect(TokenWhile)
		test := p.parseHeaderExpression()
		p.eat(TokenSemi)
		return p.finishNode(m, KindDoWhileStatement, "", 0, fields{}.add("body", body).add("test", test))
	case TokenReturn:
		if !p.inScope(ScopeFunction) {
			p.raise(Span{Start: s.Start, End: s.End}, CategoryJS, "'return' outside of function")
		}
		p.next()
		var arg *Node
		if !p.eat(TokenSemi) && !p.canInsertSemicolon() {
			arg = p.parseExpressionAllowIn()
			p.semicolon()
		}
		return p.finishNode(m, KindReturnStatement, "", 0, fields{}.add("argument", arg))
	case TokenBreak, TokenContinue:
		return p.parseBreakContinue()
	case TokenThrow:
		p.next()
		if p.hasPrecedingLineBreak() {
			p.raise(Span{Start: p.state.LastTokEnd, End: p.state.Start}, CategoryJS, "illegal newline after throw")
		}
		arg := p.parseExpressionAllowIn()
		p.semicolon()
		return p.finishNode(m, KindThrowStatement, "", 0, fields{}.add("argument", arg))
	case TokenTry:
		return p.parseTry()
	case TokenSwitch:
		return p.parseSwitch()
	case TokenWith:
		if p.inScope(ScopeStrict) {
			p.raise(Span{Start: s.Start, End: s.End}, CategoryJS, "'with' in strict mode")
		}
		p.next()
		object := p.parseHeaderExpression()
		body := p.parseStatement()
		return p.finishNode(m, KindWithStatement, "", 0, fields{}.add("object", object).add("body", body))
	case TokenDebugger:
		p.next()
		p.semicolon()
		return p.finishNode(m, KindDebuggerStatement, "", 0, nil)
	case TokenImport:
		if k := p.lookaheadKind(); k == TokenParenL || k == TokenDot {
			break
		}
		return p.parseImport()
	case TokenExport:
		return p.parseExport()
	case TokenName:
		if node := p.parseNameStatement(m); node != nil {
			return node
		}
	}

	expr := p.parseExpressionAllowIn()
	if expr.Kind == KindIdentifier && p.match(TokenColon) {
		return p.parseLabeled(m, expr)
	}
	p.semicolon()
	return p.finishNode(m, KindExpressionStatement, "", 0, fields{}.add("expression", expr))
}

// parseNameStatement handles statements introduced by a contextual
// keyword. It returns nil when the name starts an expression.
func (p *Parser) parseNameStatement(m marker) *Node {
	s := p.state
	oneLine := func(ahead *State) bool {
		return !containsLineBreak(p.input[s.End.Index:ahead.Start.Index])
	}
	switch {
	case p.isContextual("let"):
		switch p.lookaheadKind() {
		case TokenName, TokenBracketL, TokenBraceL:
			return p.parseVar(m, "let", false)
		}
	case p.isContextual("async"):
		if ahead := p.lookahead(); ahead.Kind == TokenFunction && oneLine(ahead) {
			p.next()
			return p.parseFunction(m, true, true)
		}
	case p.isContextual("type") && p.syntax.HasTypes():
		if ahead := p.lookahead(); ahead.Kind == TokenName && oneLine(ahead) {
			return p.parseTypeAlias(m)
		}
	case p.isContextual("interface") && p.syntax.HasTypes():
		if ahead := p.lookahead(); ahead.Kind == TokenName && oneLine(ahead) {
			return p.parseInterface(m)
		}
	}
	return nil
}

func (p *Parser) parseBlock() *Node {
	m := p.startNode()
	p.expect(TokenBraceL)
	_, body := p.parseBlockBody(TokenBraceR, false)
	p.expect(TokenBraceR)
	return p.finishNode(m, KindBlockStatement, "", 0, fields{}.addAll("body", body))
}

func (p *Parser) parseHeaderExpression() *Node {
	p.expect(TokenParenL)
	expr := p.parseExpressionAllowIn()
	p.expect(TokenParenR)
	return expr
}

func (p *Parser) parseLoopBody() *Node {
	s := p.state
	s.Labels = append(s.Labels, Label{Kind: LabelLoop, StatementStart: s.Start.Index})
	body := p.parseStatement()
	p.state.Labels = p.state.Labels[:len(p.state.Labels)-1]
	return body
}

func (p *Parser) parseIf() *Node {
	m := p.startNode()
	p.next()
	test := p.parseHeaderExpression()
	consequent := p.parseStatement()
	var alternate *Node
	if p.eat(TokenElse) {
		alternate = p.parseStatement()
	}
	return p.finishNode(m, KindIfStatement, "", 0,
		fields{}.add("test", test).add("consequent", consequent).add("alternate", alternate))
}

func (p *Parser) parseVar(m marker, kind string, isFor bool) *Node {
	p.next()
	var decls []*Node
	for {
		dm := p.startNode()
		id := p.parseBindingAtom()
		var init *Node
		if p.eat(TokenEq) {
			if isFor {
				init = p.parseMaybeAssign()
			} else {
				init = p.parseMaybeAssignAllowIn()
			}
		} else if id.Kind != KindIdentifier && id.Kind != KindUnknownIdentifier && !(isFor && p.isForInOf()) {
			p.raise(id.Span, CategoryJS, "complex binding patterns require an initialization value")
		} else if kind == "const" && !(isFor && p.isForInOf()) {
			p.raise(id.Span, CategoryJS, "missing initializer in const declaration")
		}
		decls = append(decls, p.finishNode(dm, KindVariableDeclarator, "", 0, fields{}.add("id", id).add("init", init)))
		if !p.eat(TokenComma) {
			break
		}
	}
	if !isFor {
		p.semicolon()
	}
	return p.finishNode(m, KindVariableDeclaration, kind, 0, fields{}.addAll("declarations", decls))
}

func (p *Parser) isForInOf() bool {
	return p.match(TokenIn) || p.isContextual("of")
}

func (p *Parser) parseFor() *Node {
	m := p.startNode()
	p.next()
	var flags NodeFlags
	if p.isContextual("await") && (p.inScope(ScopeAsync) || p.sourceType == SourceModule) {
		flags |= FlagAsync
		p.next()
	}
	p.expect(TokenParenL)

	var init *Node
	switch {
	case p.match(TokenSemi):
	case p.match(TokenVar) || p.match(TokenConst) || (p.isContextual("let") && p.lookaheadKind() != TokenIn):
		im := p.startNode()
		kind := p.state.Value
		init = withScope(p, ScopeNoIn, true, func() *Node { return p.parseVar(im, kind, true) })
		if p.isForInOf() {
			if n := len(init.All("declarations")); n != 1 {
				p.raise(init.Span, CategoryJS, "only a single variable declaration is allowed in a for-in/of loop")
			}
			return p.parseForInOf(m, flags, init)
		}
	default:
		init = withScope(p, ScopeNoIn, true, p.parseExpression)
		if p.isForInOf() {
			return p.parseForInOf(m, flags, p.toAssignable(init))
		}
	}
	if flags&FlagAsync != 0 {
		p.unexpected("for await requires an of clause")
	}

	p.expect(TokenSemi)
	var test, update *Node
	if !p.match(TokenSemi) {
		test = p.parseExpressionAllowIn()
	}
	p.expect(TokenSemi)
	if !p.match(TokenParenR) {
		update = p.parseExpressionAllowIn()
	}
	p.expect(TokenParenR)
	body := p.parseLoopBody()
	return p.finishNode(m, KindForStatement, "", 0,
		fields{}.add("init", init).add("test", test).add("update", update).add("body", body))
}

func (p *Parser) parseForInOf(m marker, flags NodeFlags, left *Node) *Node {
	kind := KindForInStatement
	if p.isContextual("of") {
		kind = KindForOfStatement
	} else if flags&FlagAsync != 0 {
		p.unexpected("for await requires an of clause")
	}
	p.next()
	var right *Node
	if kind == KindForOfStatement {
		right = p.parseMaybeAssignAllowIn()
	} else {
		right = p.parseExpressionAllowIn()
	}
	p.expect(TokenParenR)
	body := p.parseLoopBody()
	return p.finishNode(m, kind, "", flags, fields{}.add("left", left).add("right", right).add("body", body))
}

func (p *Parser) parseBreakContinue() *Node {
	m := p.startNode()
	s := p.state
	isBreak := s.Kind == TokenBreak
	keyword := s.Value
	p.next()

	var label *Node
	if p.match(TokenName) && !p.canInsertSemicolon() {
		label = p.parseIdentifier()
	}
	p.semicolon()

	found := false
	labels := p.state.Labels
	for i := len(labels) - 1; i >= 0; i-- {
		l := labels[i]
		if label == nil {
			if l.Kind == LabelLoop || (isBreak && l.Kind == LabelSwitch) {
				found = true
				break
			}
			continue
		}
		if l.Name == label.Value && (isBreak || l.Kind == LabelLoop) {
			found = true
			break
		}
	}
	if !found {
		p.raise(Span{Start: m.start, End: p.state.LastTokEnd}, CategoryJS, "unsyntactic "+keyword)
	}

	kind := KindContinueStatement
	if isBreak {
		kind = KindBreakStatement
	}
	return p.finishNode(m, kind, "", 0, fields{}.add("label", label))
}

func (p *Parser) parseLabeled(m marker, label *Node) *Node {
	for _, l := range p.state.Labels {
		if l.Name == label.Value {
			p.raise(label.Span, CategoryJS, "label '"+label.Value+"' is already declared")
		}
	}
	p.next()
	kind := LabelPlain
	if p.state.Kind.IsLoop() {
		kind = LabelLoop
	} else if p.match(TokenSwitch) {
		kind = LabelSwitch
	}
	s := p.state
	s.Labels = append(s.Labels, Label{Name: label.Value, Kind: kind, StatementStart: s.Start.Index})
	body := p.parseStatement()
	p.state.Labels = p.state.Labels[:len(p.state.Labels)-1]
	return p.finishNode(m, KindLabeledStatement, "", 0, fields{}.add("label", label).add("body", body))
}

func (p *Parser) parseTry() *Node {
	m := p.startNode()
	p.next()
	block := p.parseBlock()
	var handler, finalizer *Node
	if p.match(TokenCatch) {
		cm := p.startNode()
		p.next()
		var param *Node
		if p.eat(TokenParenL) {
			param = p.parseBindingAtom()
			p.expect(TokenParenR)
		}
		body := p.parseBlock()
		handler = p.finishNode(cm, KindCatchClause, "", 0, fields{}.add("param", param).add("body", body))
	}
	if p.eat(TokenFinally) {
		finalizer = p.parseBlock()
	}
	if handler == nil && finalizer == nil {
		p.raise(Span{Start: m.start, End: p.state.LastTokEnd}, CategoryJS, "missing catch or finally clause")
	}
	return p.finishNode(m, KindTryStatement, "", 0,
		fields{}.add("block", block).add("handler", handler).add("finalizer", finalizer))
}

func (p *Parser) parseSwitch() *Node {
	m := p.startNode()
	p.next()
	discriminant := p.parseHeaderExpression()
	p.expect(TokenBraceL)
	s := p.state
	s.Labels = append(s.Labels, Label{Kind: LabelSwitch, StatementStart: m.start.Index})

	var cases []*Node
	sawDefault := false
	for !p.match(TokenBraceR) && !p.match(TokenEOF) {
		cm := p.startNode()
		var test *Node
		switch {
		case p.eat(TokenCase):
			test = p.parseExpressionAllowIn()
		case p.match(TokenDefault):
			if sawDefault {
				p.raise(Span{Start: p.state.Start, End: p.state.End}, CategoryJS, "multiple default clauses")
			}
			sawDefault = true
			p.next()
		default:
			p.unexpected("")
			p.next()
			continue
		}
		p.expect(TokenColon)
		var body []*Node
		for !p.match(TokenCase) && !p.match(TokenDefault) && !p.match(TokenBraceR) && !p.match(TokenEOF) {
			progress := p.mustProgress()
			body = append(body, p.parseStatement())
			if !progress() {
				break
			}
		}
		cases = append(cases, p.finishNode(cm, KindSwitchCase, "", 0, fields{}.add("test", test).addAll("consequent", body)))
	}
	p.state.Labels = p.state.Labels[:len(p.state.Labels)-1]
	p.expect(TokenBraceR)
	return p.finishNode(m, KindSwitchStatement, "", 0, fields{}.add("discriminant", discriminant).addAll("cases", cases))
}

// funcParts are the pieces shared by functions, methods and accessors.
type funcParts struct {
	typeParams *Node
	params     []*Node
	returnType *Node
	body       *Node
}

func (fp funcParts) fields() fields {
	return fields{}.
		add("typeParameters", fp.typeParams).
		addAll("params", fp.params).
		add("returnType", fp.returnType).
		add("body", fp.body)
}

// parseFunctionParts parses from the type parameters or `(` through the
// body.
func (p *Parser) parseFunctionParts(isAsync, isGenerator bool) funcParts {
	var fp funcParts
	p.pushScope(ScopeFunction, true)
	p.pushScope(ScopeAsync, isAsync)
	p.pushScope(ScopeGenerator, isGenerator)
	if p.syntax.HasTypes() && p.match(TokenLessThan) {
		fp.typeParams = p.parseTypeParameterDeclaration()
	}
	fp.params = p.parseFunctionParams()
	if p.syntax.HasTypes() && p.match(TokenColon) {
		fp.returnType = p.parseTypeAnnotation()
	}
	fp.body = p.parseFunctionBody()
	p.popScope(ScopeGenerator)
	p.popScope(ScopeAsync)
	p.popScope(ScopeFunction)
	return fp
}

func (p *Parser) parseFunctionParams() []*Node {
	if !p.expect(TokenParenL) {
		return nil
	}
	p.pushScope(ScopeParameters, true)
	var params []*Node
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
		if p.match(TokenEllipsis) {
			params = append(params, p.parseRest(TokenParenR))
		} else {
			params = append(params, p.parseBindingElement())
		}
		if !progress() {
			break
		}
	}
	p.popScope(ScopeParameters)
	return params
}

func (p *Parser) parseFunctionBody() *Node {
	m := p.startNode()
	p.pushScope(ScopeParameters, false)
	p.pushScope(ScopeNoIn, false)
	p.expect(TokenBraceL)
	directives, body := p.parseBlockBody(TokenBraceR, true)
	p.expect(TokenBraceR)
	p.popScope(ScopeNoIn)
	p.popScope(ScopeParameters)
	return p.finishNode(m, KindBlockStatement, "", 0, fields{}.addAll("directives", directives).addAll("body", body))
}

// parseFunction parses a function declaration or expression at the
// `function` keyword.
func (p *Parser) parseFunction(m marker, isStatement, isAsync bool) *Node {
	p.expect(TokenFunction)
	var flags NodeFlags
	if isAsync {
		flags |= FlagAsync
	}
	if p.eat(TokenStar) {
		flags |= FlagGenerator
	}
	var id *Node
	if p.match(TokenName) {
		id = p.parseIdentifier()
	} else if isStatement {
		p.unexpected("function name expected")
	}
	fp := p.parseFunctionParts(isAsync, flags&FlagGenerator != 0)
	kind := KindFunctionExpression
	if isStatement {
		kind = KindFunctionDeclaration
	}
	return p.finishNode(m, kind, "", flags, append(fields{}.add("id", id), fp.fields()...))
}

func (p *Parser) parseClass(m marker, isStatement bool) *Node {
	p.expect(TokenClass)
	p.pushScope(ScopeStrict, true)
	var f fields
	if p.match(TokenName) {
		f = f.add("id", p.parseIdentifier())
	} else if isStatement {
		p.unexpected("class name expected")
	}
	if p.syntax.HasTypes() && p.match(TokenLessThan) {
		f = f.add("typeParameters", p.parseTypeParameterDeclaration())
	}
	classKind := ClassNormal
	if p.eat(TokenExtends) {
		classKind = ClassDerived
		sm := p.startNode()
		f = f.add("superClass", p.parseSubscripts(p.parseExprAtom(), sm, false))
		if p.syntax.HasTypes() && p.match(TokenLessThan) {
			f = f.add("superTypeParameters", p.parseTypeArguments())
		}
	}
	if p.syntax.HasTypes() && p.eatContextual("implements") {
		for {
			f = f.add("implements", p.parseTypeInScope())
			if !p.eat(TokenComma) {
				break
			}
		}
	}

	p.pushClassScope(classKind)
	f = f.add("body", p.parseClassBody())
	p.popClassScope()
	p.popScope(ScopeStrict)

	kind := KindClassExpression
	if isStatement {
		kind = KindClassDeclaration
	}
	return p.finishNode(m, kind, "", 0, f)
}

func (p *Parser) parseClassBody() *Node {
	m := p.startNode()
	p.expect(TokenBraceL)
	var members []*Node
	sawConstructor := false
	for !p.eat(TokenBraceR) {
		if p.match(TokenEOF) {
			p.expect(TokenBraceR)
			break
		}
		if p.eat(TokenSemi) {
			continue
		}
		progress := p.mustProgress()
		member := p.parseClassMember()
		if member.Kind == KindClassMethod && member.Value == "constructor" {
			if sawConstructor {
				p.raise(member.Span, CategoryJS, "duplicate constructor in the same class")
			}
			sawConstructor = true
		}
		members = append(members, member)
		if !progress() {
			break
		}
	}
	return p.finishNode(m, KindClassBody, "", 0, fields{}.addAll("body", members))
}

func (p *Parser) parseClassMember() *Node {
	m := p.startNode()
	var flags NodeFlags
	if p.isContextual("static") && p.isMemberModifier() {
		flags |= FlagStatic
		p.next()
	}
	kind := "method"
	if p.isContextual("async") && p.isMemberModifier() {
		flags |= FlagAsync
		p.next()
	}
	if p.eat(TokenStar) {
		flags |= FlagGenerator
	}
	if flags&(FlagAsync|FlagGenerator) == 0 && (p.isContextual("get") || p.isContextual("set")) && p.isMemberModifier() {
		kind = p.state.Value
		p.next()
	}

	key, computed := p.parsePropertyName()
	if computed {
		flags |= FlagComputed
	}
	if flags&(FlagAsync|FlagGenerator) != 0 || kind != "method" || p.match(TokenParenL) || p.match(TokenLessThan) {
		if !computed && flags&FlagStatic == 0 && key.Value == "constructor" && (key.Kind == KindIdentifier || key.Kind == KindStringLiteral) {
			if kind != "method" || flags&(FlagAsync|FlagGenerator) != 0 {
				p.raise(key.Span, CategoryJS, "constructor can't be a special method")
			}
			kind = "constructor"
		}
		fp := p.parseFunctionParts(flags&FlagAsync != 0, flags&FlagGenerator != 0)
		return p.finishNode(m, KindClassMethod, kind, flags|FlagMethod, append(fields{}.add("key", key), fp.fields()...))
	}

	f := fields{}.add("key", key)
	if p.syntax.HasTypes() {
		if p.eat(TokenQuestion) {
			flags |= FlagOptional
		}
		if p.match(TokenColon) {
			f = f.add("typeAnnotation", p.parseTypeAnnotation())
		}
	}
	if p.eat(TokenEq) {
		p.pushScope(ScopeFunction, true)
		f = f.add("value", p.parseMaybeAssignAllowIn())
		p.popScope(ScopeFunction)
	}
	p.semicolon()
	return p.finishNode(m, KindClassProperty, "", flags, f)
}

func (p *Parser) parseImport() *Node {
	m := p.startNode()
	p.checkModule()
	p.next()

	kind := "value"
	if p.syntax.HasTypes() && (p.isContextual("type") || p.match(TokenTypeof)) {
		ahead := p.lookahead()
		if ahead.Kind == TokenBraceL || ahead.Kind == TokenStar || (ahead.Kind == TokenName && ahead.Value != "from") {
			kind = p.state.Value
			p.next()
		}
	}

	var f fields
	if !p.match(TokenString) {
		if p.match(TokenName) {
			sm := p.startNode()
			local := p.parseIdentifier()
			f = f.add("specifiers", p.finishNode(sm, KindImportDefaultSpecifier, "", 0, fields{}.add("local", local)))
			p.eat(TokenComma)
		}
		switch {
		case p.match(TokenStar):
			sm := p.startNode()
			p.next()
			p.expectContextual("as")
			local := p.parseIdentifier()
			f = f.add("specifiers", p.finishNode(sm, KindImportNamespaceSpecifier, "", 0, fields{}.add("local", local)))
		case p.match(TokenBraceL):
			f = f.addAll("specifiers", p.parseModuleSpecifiers(KindImportSpecifier))
		}
		p.expectContextual("from")
	}
	f = f.add("source", p.parseModuleSource())
	p.semicolon()
	return p.finishNode(m, KindImportDeclaration, kind, 0, f)
}

func (p *Parser) parseModuleSource() *Node {
	m := p.startNode()
	if !p.match(TokenString) {
		p.unexpected("expected a module specifier string")
		return p.finishNode(m, KindUnknownIdentifier, "", 0, nil)
	}
	value := p.state.Value
	p.next()
	return p.finishNode(m, KindStringLiteral, value, 0, nil)
}

// parseModuleSpecifiers parses `{ a, b as c }` for imports and exports.
func (p *Parser) parseModuleSpecifiers(kind NodeKind) []*Node {
	p.expect(TokenBraceL)
	var specs []*Node
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
		sm := p.startNode()
		outer := p.parseModuleExportName()
		inner := outer
		if p.eatContextual("as") {
			inner = p.parseModuleExportName()
		}
		var f fields
		if kind == KindImportSpecifier {
			f = f.add("imported", outer).add("local", inner)
		} else {
			f = f.add("local", outer).add("exported", inner)
			p.addExport(inner)
		}
		specs = append(specs, p.finishNode(sm, kind, "", 0, f))
		if !progress() {
			break
		}
	}
	return specs
}

func (p *Parser) parseModuleExportName() *Node {
	if p.match(TokenString) {
		m := p.startNode()
		value := p.state.Value
		p.next()
		return p.finishNode(m, KindStringLiteral, value, 0, nil)
	}
	return p.parsePropertyIdentifier()
}

func (p *Parser) parseExport() *Node {
	m := p.startNode()
	p.checkModule()
	p.next()

	switch {
	case p.match(TokenStar):
		p.next()
		var f fields
		if p.eatContextual("as") {
			exported := p.parseModuleExportName()
			p.addExport(exported)
			f = f.add("exported", exported)
		}
		p.expectContextual("from")
		f = f.add("source", p.parseModuleSource())
		p.semicolon()
		return p.finishNode(m, KindExportAllDeclaration, "", 0, f)

	case p.match(TokenDefault):
		p.addExport(&Node{Kind: KindIdentifier, Value: "default", Span: Span{Start: p.state.Start, End: p.state.End}})
		p.next()
		var decl *Node
		dm := p.startNode()
		switch {
		case p.match(TokenFunction):
			decl = p.parseFunction(dm, true, false)
		case p.isContextual("async") && p.lookaheadKind() == TokenFunction:
			p.next()
			decl = p.parseFunction(dm, true, true)
		case p.match(TokenClass):
			decl = p.parseClass(dm, true)
		default:
			decl = p.parseMaybeAssignAllowIn()
			p.semicolon()
		}
		return p.finishNode(m, KindExportDefaultDeclaration, "", 0, fields{}.add("declaration", decl))

	case p.match(TokenBraceL):
		var f fields
		f = f.addAll("specifiers", p.parseModuleSpecifiers(KindExportSpecifier))
		if p.eatContextual("from") {
			f = f.add("source", p.parseModuleSource())
		}
		p.semicolon()
		return p.finishNode(m, KindExportNamedDeclaration, "", 0, f)
	}

	decl := p.parseStatement()
	switch decl.Kind {
	case KindVariableDeclaration:
		for _, d := range decl.All("declarations") {
			for _, id := range bindingIdentifiers(d.Get("id")) {
				p.addExport(id)
			}
		}
	case KindFunctionDeclaration, KindClassDeclaration, KindTypeAlias, KindInterfaceDeclaration:
		if id := decl.Get("id"); id != nil {
			p.addExport(id)
		}
	default:
		p.raise(decl.Span, CategoryJS, "only declarations can be exported")
	}
	return p.finishNode(m, KindExportNamedDeclaration, "", 0, fields{}.add("declaration", decl))
}

func (p *Parser) checkModule() {
	if p.sourceType != SourceModule {
		s := p.state
		p.raise(Span{Start: s.Start, End: s.End}, CategoryJS, "'import' and 'export' may appear only with sourceType module")
	}
}

func (p *Parser) addExport(name *Node) {
	s := p.state
	if prev, ok := s.ExportedIdentifiers.get(name.Value); ok {
		p.raise(name.Span, CategoryJS, "`"+name.Value+"` has already been exported at "+prev.Start.String())
		return
	}
	s.ExportedIdentifiers.set(name.Value, name.Span)
}

// bindingIdentifiers returns the identifiers a pattern binds.
func bindingIdentifiers(n *Node) []*Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindIdentifier:
		return []*Node{n}
	case KindObjectPattern:
		var out []*Node
		for _, prop := range n.All("properties") {
			if prop.Kind == KindRestElement {
				out = append(out, bindingIdentifiers(prop.Get("argument"))...)
			} else {
				out = append(out, bindingIdentifiers(prop.Get("value"))...)
			}
		}
		return out
	case KindArrayPattern:
		var out []*Node
		for _, el := range n.All("elements") {
			out = append(out, bindingIdentifiers(el)...)
		}
		return out
	case KindAssignmentPattern:
		return bindingIdentifiers(n.Get("left"))
	case KindRestElement:
		return bindingIdentifiers(n.Get("argument"))
	}
	return nil
}

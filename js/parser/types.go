package parser

// Type syntax shared by the Flow and TypeScript dialects. Every production
// here runs with ScopeType pushed so `<` and `>` scan as single characters.

var keywordTypes = map[string]bool{
	"any":       true,
	"unknown":   true,
	"number":    true,
	"string":    true,
	"boolean":   true,
	"bigint":    true,
	"symbol":    true,
	"object":    true,
	"never":     true,
	"undefined": true,
	"mixed":     true,
	"empty":     true,
	"bool":      true,
}

// parseTypeAnnotation parses `: Type` at the colon.
func (p *Parser) parseTypeAnnotation() *Node {
	m := p.startNode()
	p.pushScope(ScopeType, true)
	p.expect(TokenColon)
	typ := p.parseType()
	p.popScope(ScopeType)
	return p.finishNode(m, KindTypeAnnotation, "", 0, fields{}.add("typeAnnotation", typ))
}

// parseTypeAfter consumes the current token and parses the type that
// follows it, so the type's first token is scanned in type scope.
func (p *Parser) parseTypeAfter() *Node {
	p.pushScope(ScopeType, true)
	p.next()
	typ := p.parseType()
	p.popScope(ScopeType)
	return typ
}

// typeCategory is the diagnostic category for type syntax errors.
func (p *Parser) typeCategory() Category {
	if p.syntax.TS {
		return CategoryTypeScript
	}
	return CategoryFlow
}

func (p *Parser) parseTypeInScope() *Node {
	return withScope(p, ScopeType, true, p.parseType)
}

func (p *Parser) parseType() *Node {
	if p.match(TokenLessThan) {
		m := p.startNode()
		tp, _ := p.parseTypeParameterList()
		if typ, ok := p.parseFunctionTypeRest(m, tp); ok {
			return typ
		}
		p.unexpected("expected a function type after type parameters")
		return p.finishNode(m, KindUnknownIdentifier, "", 0, fields{}.add("typeParameters", tp))
	}
	return p.parseUnionType()
}

func (p *Parser) parseUnionType() *Node {
	m := p.startNode()
	leading := p.eat(TokenBitwiseOR)
	first := p.parseIntersectionType()
	if !p.match(TokenBitwiseOR) {
		if leading {
			return p.finishNode(m, KindUnionType, "", 0, fields{}.add("types", first))
		}
		return first
	}
	types := []*Node{first}
	for p.eat(TokenBitwiseOR) {
		types = append(types, p.parseIntersectionType())
	}
	return p.finishNode(m, KindUnionType, "", 0, fields{}.addAll("types", types))
}

func (p *Parser) parseIntersectionType() *Node {
	m := p.startNode()
	p.eat(TokenBitwiseAND)
	first := p.parsePrefixType()
	if !p.match(TokenBitwiseAND) {
		return first
	}
	types := []*Node{first}
	for p.eat(TokenBitwiseAND) {
		types = append(types, p.parsePrefixType())
	}
	return p.finishNode(m, KindIntersectionType, "", 0, fields{}.addAll("types", types))
}

func (p *Parser) parsePrefixType() *Node {
	m := p.startNode()
	switch {
	case p.syntax.Flow && p.match(TokenQuestion):
		p.next()
		typ := p.parsePrefixType()
		return p.finishNode(m, KindNullableType, "", 0, fields{}.add("typeAnnotation", typ))
	case p.syntax.TS && (p.isContextual("keyof") || p.isContextual("unique") || p.isContextual("readonly")):
		ahead := p.lookahead()
		if ahead.Kind == TokenName || ahead.Kind == TokenBracketL || ahead.Kind == TokenParenL || ahead.Kind == TokenBraceL {
			op := p.state.Value
			p.next()
			typ := p.parsePrefixType()
			return p.finishNode(m, KindTypeOperator, op, 0, fields{}.add("typeAnnotation", typ))
		}
	}
	return p.parsePostfixType()
}

func (p *Parser) parsePostfixType() *Node {
	m := p.startNode()
	typ := p.parsePrimaryType()
	for p.match(TokenBracketL) && !p.hasPrecedingLineBreak() {
		p.next()
		if p.eat(TokenBracketR) {
			typ = p.finishNode(m, KindArrayType, "", 0, fields{}.add("elementType", typ))
			continue
		}
		index := p.parseType()
		p.expect(TokenBracketR)
		typ = p.finishNode(m, KindIndexedAccessType, "", 0, fields{}.add("objectType", typ).add("indexType", index))
	}
	return typ
}

func (p *Parser) parsePrimaryType() *Node {
	m := p.startNode()
	s := p.state
	switch s.Kind {
	case TokenName:
		if keywordTypes[s.Value] && p.lookaheadKind() != TokenDot {
			name := s.Value
			p.next()
			return p.finishNode(m, KindKeywordType, name, 0, nil)
		}
		return p.parseTypeReference()

	case TokenVoid, TokenNull, TokenThis:
		name := s.Value
		p.next()
		return p.finishNode(m, KindKeywordType, name, 0, nil)

	case TokenStar:
		if p.syntax.Flow {
			p.next()
			return p.finishNode(m, KindKeywordType, "*", 0, nil)
		}

	case TokenTypeof:
		p.next()
		arg := p.parseQualifiedTypeName()
		return p.finishNode(m, KindTypeofType, "", 0, fields{}.add("argument", arg))

	case TokenString, TokenNum, TokenBigInt, TokenTrue, TokenFalse:
		value := s.Value
		p.next()
		return p.finishNode(m, KindLiteralType, value, 0, nil)

	case TokenPlusMin:
		if s.Value == "-" {
			p.next()
			if p.match(TokenNum) || p.match(TokenBigInt) {
				value := "-" + p.state.Value
				p.next()
				return p.finishNode(m, KindLiteralType, value, 0, nil)
			}
			p.unexpected("expected a number after '-' in a type")
			return p.finishNode(m, KindUnknownIdentifier, "", 0, nil)
		}

	case TokenBraceL:
		return p.parseObjectType()

	case TokenBracketL:
		return p.parseTupleType()

	case TokenParenL:
		bf := NewBranchFinder[*Node](p)
		bf.Add(func(p *Parser) (*Node, bool) {
			return p.parseFunctionTypeRest(m, nil)
		}, WithDiagnosticsPriority(1))
		bf.Add(func(p *Parser) (*Node, bool) {
			p.next()
			typ := p.parseType()
			p.expect(TokenParenR)
			return p.finishNode(m, KindParenthesizedType, "", 0, fields{}.add("typeAnnotation", typ)), true
		})
		return bf.Pick()
	}

	p.unexpected("expected a type")
	switch s.Kind {
	case TokenParenR, TokenBracketR, TokenBraceR, TokenGreaterThan, TokenSemi, TokenComma, TokenEq, TokenArrow, TokenEOF:
	default:
		p.next()
	}
	return p.finishNode(m, KindUnknownIdentifier, "", 0, nil)
}

func (p *Parser) parseTypeReference() *Node {
	m := p.startNode()
	name := p.parseQualifiedTypeName()
	var args *Node
	if p.match(TokenLessThan) && !p.hasPrecedingLineBreak() {
		args = p.parseTypeArguments()
	}
	return p.finishNode(m, KindTypeReference, "", 0, fields{}.add("typeName", name).add("typeParameters", args))
}

// parseQualifiedTypeName parses `A` or `A.B.C`.
func (p *Parser) parseQualifiedTypeName() *Node {
	m := p.startNode()
	name := p.parseIdentifier()
	for p.eat(TokenDot) {
		right := p.parsePropertyIdentifier()
		name = p.finishNode(m, KindQualifiedTypeName, "", 0, fields{}.add("left", name).add("right", right))
	}
	return name
}

// parseFunctionTypeRest parses `(params) => Return` at `(`. It declines
// when no arrow follows the parameter list.
func (p *Parser) parseFunctionTypeRest(m marker, typeParams *Node) (*Node, bool) {
	if !p.match(TokenParenL) {
		return nil, false
	}
	params := p.parseFunctionTypeParams()
	if !p.match(TokenArrow) {
		return nil, false
	}
	p.next()
	ret := p.parseType()
	return p.finishNode(m, KindFunctionType, "", 0, fields{}.
		add("typeParameters", typeParams).
		addAll("params", params).
		add("returnType", ret)), true
}

func (p *Parser) parseFunctionTypeParams() []*Node {
	p.expect(TokenParenL)
	var params []*Node
	for !p.match(TokenParenR) && !p.match(TokenEOF) {
		progress := p.mustProgress()
		params = append(params, p.parseFunctionTypeParam())
		if !p.match(TokenParenR) {
			p.expect(TokenComma)
		}
		if !progress() {
			break
		}
	}
	p.expect(TokenParenR)
	return params
}

// parseFunctionTypeParam parses `name: T`, `name?: T`, `...rest: T` or,
// in Flow, a bare type.
func (p *Parser) parseFunctionTypeParam() *Node {
	m := p.startNode()
	var flags NodeFlags
	rest := p.eat(TokenEllipsis)
	if p.match(TokenName) || p.match(TokenThis) {
		ahead := p.lookaheadKind()
		if ahead == TokenColon || ahead == TokenQuestion {
			name := p.state.Value
			if p.match(TokenThis) {
				name = "this"
			}
			p.next()
			if p.eat(TokenQuestion) {
				flags |= FlagOptional
			}
			annotation := p.parseTypeAnnotation()
			return p.finishFunctionTypeParam(m, name, flags, rest, annotation)
		}
	}
	if p.syntax.TS && (p.match(TokenBraceL) || p.match(TokenBracketL)) {
		pattern := p.parseBindingAtom()
		return p.finishFunctionTypeParam(m, "", flags, rest, pattern)
	}
	typ := p.parseType()
	return p.finishFunctionTypeParam(m, "", flags, rest, typ)
}

func (p *Parser) finishFunctionTypeParam(m marker, name string, flags NodeFlags, rest bool, typ *Node) *Node {
	param := p.finishNode(m, KindFunctionTypeParam, name, flags, fields{}.add("typeAnnotation", typ))
	if rest {
		return p.finishNode(m, KindRestElement, "", 0, fields{}.add("argument", param))
	}
	return param
}

func (p *Parser) parseObjectType() *Node {
	m := p.startNode()
	p.pushScope(ScopeType, true)
	p.expect(TokenBraceL)
	exact := p.syntax.Flow && p.eat(TokenBitwiseOR)
	var members []*Node
	for !p.match(TokenBraceR) && !p.match(TokenEOF) {
		if exact && p.match(TokenBitwiseOR) {
			break
		}
		progress := p.mustProgress()
		members = append(members, p.parseObjectTypeMember())
		if !p.eat(TokenComma) && !p.eat(TokenSemi) && !p.match(TokenBraceR) && !p.hasPrecedingLineBreak() {
			if !(exact && p.match(TokenBitwiseOR)) {
				p.unexpected("expected ',' or ';' between type members")
			}
		}
		if !progress() {
			break
		}
	}
	if exact {
		p.expect(TokenBitwiseOR)
	}
	p.popScope(ScopeType)
	p.expect(TokenBraceR)
	return p.finishNode(m, KindObjectType, "", 0, fields{}.addAll("members", members))
}

func (p *Parser) parseObjectTypeMember() *Node {
	m := p.startNode()
	var flags NodeFlags

	if p.isContextual("readonly") || p.isContextual("static") {
		if ahead := p.lookaheadKind(); ahead != TokenColon && ahead != TokenQuestion && ahead != TokenParenL {
			if p.isContextual("static") {
				flags |= FlagStatic
			}
			p.next()
		}
	}
	if p.syntax.Flow && p.match(TokenEllipsis) {
		p.next()
		arg := p.parseType()
		return p.finishNode(m, KindSpreadElement, "", 0, fields{}.add("argument", arg))
	}

	if p.match(TokenBracketL) {
		p.next()
		var key *Node
		if p.match(TokenName) && p.lookaheadKind() == TokenColon {
			key = p.parseIdentifier()
			key = p.finishNode(p.startNodeAtNode(key), KindFunctionTypeParam, key.Value, 0,
				fields{}.add("typeAnnotation", p.parseTypeAnnotation()))
		} else {
			key = p.parseType()
		}
		p.expect(TokenBracketR)
		if p.eat(TokenQuestion) {
			flags |= FlagOptional
		}
		value := p.parseTypeAnnotation()
		return p.finishNode(m, KindObjectTypeIndexer, "", flags|FlagComputed, fields{}.add("key", key).add("value", value))
	}

	if p.match(TokenParenL) || p.match(TokenLessThan) {
		value := p.parseMethodType(p.startNode())
		return p.finishNode(m, KindObjectTypeProperty, "", flags|FlagMethod, fields{}.add("value", value))
	}

	key, _ := p.parsePropertyName()
	if p.eat(TokenQuestion) {
		flags |= FlagOptional
	}
	if p.match(TokenParenL) || p.match(TokenLessThan) {
		value := p.parseMethodType(p.startNode())
		return p.finishNode(m, KindObjectTypeProperty, "", flags|FlagMethod, fields{}.add("key", key).add("value", value))
	}
	value := p.parseTypeAnnotation()
	return p.finishNode(m, KindObjectTypeProperty, "", flags, fields{}.add("key", key).add("value", value))
}

// parseMethodType parses `<T>(params): Return` inside an object type.
func (p *Parser) parseMethodType(m marker) *Node {
	var typeParams *Node
	if p.match(TokenLessThan) {
		typeParams, _ = p.parseTypeParameterList()
	}
	params := p.parseFunctionTypeParams()
	var ret *Node
	if p.match(TokenColon) {
		ret = p.parseTypeAnnotation()
	}
	return p.finishNode(m, KindFunctionType, "", 0, fields{}.
		add("typeParameters", typeParams).
		addAll("params", params).
		add("returnType", ret))
}

func (p *Parser) parseTupleType() *Node {
	m := p.startNode()
	p.expect(TokenBracketL)
	var elems []*Node
	for !p.match(TokenBracketR) && !p.match(TokenEOF) {
		progress := p.mustProgress()
		em := p.startNode()
		if p.eat(TokenEllipsis) {
			arg := p.parseType()
			elems = append(elems, p.finishNode(em, KindRestElement, "", 0, fields{}.add("argument", arg)))
		} else {
			elems = append(elems, p.parseType())
		}
		if !p.match(TokenBracketR) {
			p.expect(TokenComma)
		}
		if !progress() {
			break
		}
	}
	p.expect(TokenBracketR)
	return p.finishNode(m, KindTupleType, "", 0, fields{}.addAll("elementTypes", elems))
}

func (p *Parser) parseTypeParameterDeclaration() *Node {
	tp, _ := p.parseTypeParameterList()
	return tp
}

// parseTypeParameterList parses `<T, U extends X = Y>` and reports whether
// the list ended with a trailing comma.
func (p *Parser) parseTypeParameterList() (*Node, bool) {
	m := p.startNode()
	p.pushScope(ScopeType, true)
	p.expect(TokenLessThan)
	var params []*Node
	trailingComma := false
	for !p.match(TokenGreaterThan) && !p.match(TokenEOF) {
		progress := p.mustProgress()
		params = append(params, p.parseTypeParameter())
		trailingComma = false
		if !p.match(TokenGreaterThan) {
			if p.expect(TokenComma) {
				trailingComma = true
			}
		}
		if !progress() {
			break
		}
	}
	if len(params) == 0 {
		p.raise(Span{Start: m.start, End: p.state.End}, p.typeCategory(), "type parameter list cannot be empty")
	}
	p.popScope(ScopeType)
	p.expect(TokenGreaterThan)
	return p.finishNode(m, KindTypeParameterDeclaration, "", 0, fields{}.addAll("params", params)), trailingComma
}

func (p *Parser) parseTypeParameter() *Node {
	m := p.startNode()
	variance := ""
	if p.syntax.Flow && p.match(TokenPlusMin) {
		variance = p.state.Value
		p.next()
	}
	name := ""
	if p.match(TokenName) {
		name = p.state.Value
		p.next()
	} else {
		p.unexpected("expected a type parameter name")
	}
	var constraint, def *Node
	switch {
	case p.eat(TokenExtends):
		constraint = p.parseType()
	case p.syntax.Flow && p.match(TokenColon):
		constraint = p.parseTypeAnnotation()
	}
	if p.eat(TokenEq) {
		def = p.parseType()
	}
	return p.finishNode(m, KindTypeParameter, variance+name, 0, fields{}.add("constraint", constraint).add("default", def))
}

// parseTypeArguments parses `<A, B>` after a type or class name.
func (p *Parser) parseTypeArguments() *Node {
	m := p.startNode()
	p.pushScope(ScopeType, true)
	p.expect(TokenLessThan)
	var params []*Node
	for !p.match(TokenGreaterThan) && !p.match(TokenEOF) {
		progress := p.mustProgress()
		params = append(params, p.parseType())
		if !p.match(TokenGreaterThan) {
			p.expect(TokenComma)
		}
		if !progress() {
			break
		}
	}
	p.popScope(ScopeType)
	p.expect(TokenGreaterThan)
	return p.finishNode(m, KindTypeParameterInstantiation, "", 0, fields{}.addAll("params", params))
}

// parseTypeAssertion parses the TypeScript `<T>expr` form.
func (p *Parser) parseTypeAssertion() *Node {
	m := p.startNode()
	typ := p.parseTypeAfter()
	p.expect(TokenGreaterThan)
	expr := p.parseMaybeUnary()
	return p.finishNode(m, KindTypeAssertion, "", 0, fields{}.add("typeAnnotation", typ).add("expression", expr))
}

// parseMaybeAssignAngle resolves an expression starting with `<`: a JSX
// element, a generic arrow function or, without JSX, a type assertion.
// JSX is preferred unless another reading parses cleanly.
func (p *Parser) parseMaybeAssignAngle() *Node {
	bf := NewBranchFinder[exprReading](p)
	jsx := p.match(TokenJSXTagStart)
	if jsx {
		bf.Add(func(p *Parser) (exprReading, bool) {
			return exprReading{expr: p.parseMaybeAssignRest()}, true
		}, WithDiagnosticsPriority(1))
	}
	bf.Add(func(p *Parser) (exprReading, bool) {
		head, ok := p.parseGenericArrowHead()
		return exprReading{arrow: head}, ok
	}, WithMaxNewDiagnostics(0))
	if !jsx {
		bf.Add(func(p *Parser) (exprReading, bool) {
			return exprReading{expr: p.parseMaybeAssignRest()}, true
		})
	}
	return p.finishReading(bf.Pick())
}

// parseGenericArrowHead parses `<T>(params)` up to `=>`. When the `<` was
// scanned as a JSX tag start it is scanned again as a type parameter list.
func (p *Parser) parseGenericArrowHead() (*arrowHead, bool) {
	m := p.startNode()
	if p.match(TokenJSXTagStart) {
		p.popContext()
		p.popContext()
		p.rewind()
		p.pushScope(ScopeType, true)
		p.nextToken()
		p.popScope(ScopeType)
	}
	if !p.match(TokenLessThan) {
		return nil, false
	}
	tp, trailingComma := p.parseTypeParameterList()
	params := tp.All("params")
	if p.syntax.TS && p.syntax.JSX && len(params) == 1 && !trailingComma && params[0].Get("constraint") == nil {
		p.raise(tp.Span, CategoryTypeScript, "single type parameter in a TSX file needs a trailing comma",
			"write <T,>(...) => ... to declare a generic arrow function")
	}
	return p.parseArrowHead(m, tp, false)
}

func (p *Parser) parseTypeAlias(m marker) *Node {
	p.next()
	id := p.parseIdentifier()
	var typeParams *Node
	if p.match(TokenLessThan) {
		typeParams = p.parseTypeParameterDeclaration()
	}
	p.pushScope(ScopeType, true)
	p.expect(TokenEq)
	right := p.parseType()
	p.popScope(ScopeType)
	p.semicolon()
	return p.finishNode(m, KindTypeAlias, "", 0, fields{}.add("id", id).add("typeParameters", typeParams).add("right", right))
}

func (p *Parser) parseInterface(m marker) *Node {
	p.next()
	id := p.parseIdentifier()
	var typeParams *Node
	if p.match(TokenLessThan) {
		typeParams = p.parseTypeParameterDeclaration()
	}
	var extends []*Node
	if p.match(TokenExtends) {
		extends = append(extends, p.parseTypeAfter())
		for p.match(TokenComma) {
			extends = append(extends, p.parseTypeAfter())
		}
	}
	body := p.parseObjectType()
	return p.finishNode(m, KindInterfaceDeclaration, "", 0, fields{}.
		add("id", id).
		add("typeParameters", typeParams).
		addAll("extends", extends).
		add("body", body))
}

package parser

import (
	"strconv"
	"strings"
)

var jsxEntities = map[string]rune{
	"quot":   '"',
	"amp":    '&',
	"apos":   '\'',
	"lt":     '<',
	"gt":     '>',
	"nbsp":   '\u00a0',
	"iexcl":  '¡',
	"cent":   '¢',
	"pound":  '£',
	"yen":    '¥',
	"sect":   '§',
	"copy":   '©',
	"laquo":  '«',
	"shy":    '\u00ad',
	"reg":    '®',
	"deg":    '°',
	"plusmn": '±',
	"para":   '¶',
	"middot": '·',
	"raquo":  '»',
	"iquest": '¿',
	"times":  '×',
	"divide": '÷',
	"ensp":   '\u2002',
	"emsp":   '\u2003',
	"thinsp": '\u2009',
	"zwnj":   '\u200c',
	"zwj":    '\u200d',
	"ndash":  '–',
	"mdash":  '—',
	"lsquo":  '‘',
	"rsquo":  '’',
	"ldquo":  '“',
	"rdquo":  '”',
	"bull":   '•',
	"hellip": '…',
	"euro":   '€',
	"trade":  '™',
	"larr":   '←',
	"uarr":   '↑',
	"rarr":   '→',
	"darr":   '↓',
	"hearts": '♥',
}

// readJSXToken scans element children: a run of text, or the `<` or `{`
// that ends it.
func (p *Parser) readJSXToken() {
	s := p.state
	var sb strings.Builder
	chunkStart := s.Index
	for {
		if s.Index >= len(p.input) {
			sb.WriteString(p.input[chunkStart:s.Index])
			p.finishToken(TokenJSXText, sb.String())
			return
		}
		c := p.input[s.Index]
		switch c {
		case '<', '{':
			if s.Index == s.Start.Index {
				if c == '<' && s.ExprAllowed {
					p.finishOp(TokenJSXTagStart, 1)
					return
				}
				p.readToken()
				return
			}
			sb.WriteString(p.input[chunkStart:s.Index])
			p.finishToken(TokenJSXText, sb.String())
			return
		case '&':
			sb.WriteString(p.input[chunkStart:s.Index])
			sb.WriteString(p.readJSXEntity())
			chunkStart = s.Index
		case '>', '}':
			start := s.position()
			s.Index++
			entity := "&gt;"
			if c == '}' {
				entity = "&rbrace;"
			}
			p.raise(Span{Start: start, End: s.position()}, CategoryJSX,
				"unexpected token '"+string(c)+"' in JSX text",
				"write {'"+string(c)+"'} or "+entity+" instead")
		case '\r', '\n':
			sb.WriteString(p.input[chunkStart:s.Index])
			sb.WriteByte('\n')
			p.newline()
			chunkStart = s.Index
		default:
			r, size := p.peekRune()
			s.Index += size
			if r == 0x2028 || r == 0x2029 {
				s.Line++
				s.LineStart = s.Index
			}
		}
	}
}

// readJSXWord reads a tag or attribute name, which may contain '-'.
func (p *Parser) readJSXWord() {
	s := p.state
	for s.Index < len(p.input) {
		r, size := p.peekRune()
		if !isIdentifierChar(r) && r != '-' {
			break
		}
		s.Index += size
	}
	p.finishToken(TokenJSXName, p.input[s.Start.Index:s.Index])
}

// readJSXString reads a quoted attribute value. Unlike JavaScript strings
// it may span lines and decodes entities rather than escapes.
func (p *Parser) readJSXString(quote byte) {
	s := p.state
	s.Index++
	var sb strings.Builder
	chunkStart := s.Index
	for {
		if s.Index >= len(p.input) {
			p.raise(Span{Start: s.Start, End: s.position()}, CategoryUnterminated, "unterminated string constant")
			sb.WriteString(p.input[chunkStart:s.Index])
			p.finishToken(TokenString, sb.String())
			return
		}
		c := p.input[s.Index]
		switch c {
		case quote:
			sb.WriteString(p.input[chunkStart:s.Index])
			s.Index++
			p.finishToken(TokenString, sb.String())
			return
		case '&':
			sb.WriteString(p.input[chunkStart:s.Index])
			sb.WriteString(p.readJSXEntity())
			chunkStart = s.Index
		case '\r', '\n':
			sb.WriteString(p.input[chunkStart:s.Index])
			sb.WriteByte('\n')
			p.newline()
			chunkStart = s.Index
		default:
			_, size := p.peekRune()
			s.Index += size
		}
	}
}

// readJSXEntity decodes `&name;`, `&#123;` or `&#x7b;` at '&'. Anything
// else is a literal ampersand.
func (p *Parser) readJSXEntity() string {
	s := p.state
	end := strings.IndexByte(p.input[s.Index:min(len(p.input), s.Index+12)], ';')
	if end > 1 {
		body := p.input[s.Index+1 : s.Index+end]
		if r, ok := decodeJSXEntity(body); ok {
			s.Index += end + 1
			return string(r)
		}
	}
	s.Index++
	return "&"
}

func decodeJSXEntity(body string) (rune, bool) {
	if body[0] != '#' {
		r, ok := jsxEntities[body]
		return r, ok
	}
	digits, base := body[1:], 10
	if len(digits) > 0 && (digits[0] == 'x' || digits[0] == 'X') {
		digits, base = digits[1:], 16
	}
	if digits == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(digits, base, 32)
	if err != nil || n > 0x10ffff {
		return 0, false
	}
	return rune(n), true
}

// parseJSXElement parses an element or fragment at the tag start.
func (p *Parser) parseJSXElement() *Node {
	m := p.startNode()
	p.next()
	elem := p.parseJSXElementAt(m)
	if p.match(TokenLessThan) {
		p.raise(Span{Start: p.state.Start, End: p.state.End}, CategoryJSX,
			"adjacent JSX elements must be wrapped in an enclosing tag",
			"wrap them in a fragment: <>...</>")
	}
	return elem
}

// parseJSXElementAt continues an element whose `<` has been consumed.
func (p *Parser) parseJSXElementAt(m marker) *Node {
	opening := p.parseJSXOpeningElementAt(m)
	fragment := opening.Get("name") == nil
	kind := KindJSXElement
	if fragment {
		kind = KindJSXFragment
	}
	if opening.Has(FlagSelfClosing) {
		return p.finishNode(m, kind, "", 0, fields{}.add("openingElement", opening))
	}

	var children []*Node
	var closing *Node
contents:
	for {
		progress := p.mustProgress()
		switch p.state.Kind {
		case TokenJSXTagStart:
			cm := p.startNode()
			p.next()
			if p.eat(TokenSlash) {
				closing = p.parseJSXClosingElementAt(cm)
				break contents
			}
			children = append(children, p.parseJSXElementAt(cm))

		case TokenJSXText:
			value := p.state.Value
			tm := p.startNode()
			p.next()
			children = append(children, p.finishNode(tm, KindJSXText, value, 0, nil))

		case TokenBraceL:
			children = append(children, p.parseJSXExpressionContainer(true))

		case TokenEOF:
			p.raise(opening.Span, CategoryUnterminated, "unterminated JSX contents",
				"add a closing tag "+jsxClosingTag(opening))
			break contents

		default:
			p.unexpected("")
			break contents
		}
		if !progress() {
			break
		}
	}

	if closing != nil && jsxName(opening.Get("name")) != jsxName(closing.Get("name")) {
		p.raise(closing.Span, CategoryJSX, "expected corresponding JSX closing tag for "+jsxTag(opening),
			"replace it with "+jsxClosingTag(opening))
	}
	return p.finishNode(m, kind, "", 0, fields{}.
		add("openingElement", opening).
		addAll("children", children).
		add("closingElement", closing))
}

func (p *Parser) parseJSXOpeningElementAt(m marker) *Node {
	if p.match(TokenJSXTagEnd) {
		p.next()
		return p.finishNode(m, KindJSXOpeningElement, "", 0, nil)
	}
	name := p.parseJSXElementName()
	var attrs []*Node
	for !p.match(TokenSlash) && !p.match(TokenJSXTagEnd) && !p.match(TokenEOF) {
		progress := p.mustProgress()
		attrs = append(attrs, p.parseJSXAttribute())
		if !progress() {
			break
		}
	}
	var flags NodeFlags
	if p.eat(TokenSlash) {
		flags |= FlagSelfClosing
	}
	p.expect(TokenJSXTagEnd)
	return p.finishNode(m, KindJSXOpeningElement, "", flags, fields{}.add("name", name).addAll("attributes", attrs))
}

func (p *Parser) parseJSXClosingElementAt(m marker) *Node {
	if p.eat(TokenJSXTagEnd) {
		return p.finishNode(m, KindJSXClosingElement, "", 0, nil)
	}
	name := p.parseJSXElementName()
	p.expect(TokenJSXTagEnd)
	return p.finishNode(m, KindJSXClosingElement, "", 0, fields{}.add("name", name))
}

func (p *Parser) parseJSXIdentifier() *Node {
	m := p.startNode()
	if p.match(TokenJSXName) {
		name := p.state.Value
		p.next()
		return p.finishNode(m, KindJSXIdentifier, name, 0, nil)
	}
	p.unexpected("expected a JSX name")
	return p.finishNode(m, KindUnknownIdentifier, "", 0, nil)
}

// parseJSXNamespacedName parses `name` or `ns:name`.
func (p *Parser) parseJSXNamespacedName() *Node {
	m := p.startNode()
	name := p.parseJSXIdentifier()
	if !p.eat(TokenColon) {
		return name
	}
	local := p.parseJSXIdentifier()
	return p.finishNode(m, KindJSXNamespacedName, "", 0, fields{}.add("namespace", name).add("name", local))
}

func (p *Parser) parseJSXElementName() *Node {
	m := p.startNode()
	name := p.parseJSXNamespacedName()
	if name.Kind == KindJSXNamespacedName {
		return name
	}
	for p.eat(TokenDot) {
		prop := p.parseJSXIdentifier()
		name = p.finishNode(m, KindJSXMemberExpression, "", 0, fields{}.add("object", name).add("property", prop))
	}
	return name
}

func (p *Parser) parseJSXAttribute() *Node {
	m := p.startNode()
	if p.eat(TokenBraceL) {
		p.expect(TokenEllipsis)
		arg := p.parseMaybeAssignAllowIn()
		p.expect(TokenBraceR)
		return p.finishNode(m, KindJSXSpreadAttribute, "", 0, fields{}.add("argument", arg))
	}
	name := p.parseJSXNamespacedName()
	var value *Node
	if p.eat(TokenEq) {
		value = p.parseJSXAttributeValue()
	}
	return p.finishNode(m, KindJSXAttribute, "", 0, fields{}.add("name", name).add("value", value))
}

func (p *Parser) parseJSXAttributeValue() *Node {
	m := p.startNode()
	switch p.state.Kind {
	case TokenString:
		value := p.state.Value
		p.next()
		return p.finishNode(m, KindStringLiteral, value, 0, nil)
	case TokenBraceL:
		container := p.parseJSXExpressionContainer(false)
		if container.Get("expression").Kind == KindJSXEmptyExpression {
			p.raise(container.Span, CategoryJSX, "JSX attributes must only be assigned a non-empty expression")
		}
		return container
	case TokenJSXTagStart:
		return p.parseJSXElement()
	}
	p.unexpected("JSX value should be either an expression or a quoted JSX text")
	return p.finishNode(m, KindUnknownIdentifier, "", 0, nil)
}

// parseJSXExpressionContainer parses `{expr}`, `{}` or, as a child,
// `{...expr}`.
func (p *Parser) parseJSXExpressionContainer(child bool) *Node {
	m := p.startNode()
	p.next()
	var expr *Node
	switch {
	case p.match(TokenBraceR):
		em := p.startNodeAt(p.state.LastTokEnd)
		expr = p.finishNodeAt(em, p.state.Start, KindJSXEmptyExpression, "", 0, nil)
	case child && p.match(TokenEllipsis):
		sm := p.startNode()
		p.next()
		arg := p.parseExpression()
		expr = p.finishNode(sm, KindSpreadElement, "", 0, fields{}.add("argument", arg))
	default:
		expr = p.parseExpressionAllowIn()
	}
	p.expect(TokenBraceR)
	return p.finishNode(m, KindJSXExpressionContainer, "", 0, fields{}.add("expression", expr))
}

// jsxName renders a tag name for comparison and messages. Fragments have
// the empty name.
func jsxName(n *Node) string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case KindJSXNamespacedName:
		return jsxName(n.Get("namespace")) + ":" + jsxName(n.Get("name"))
	case KindJSXMemberExpression:
		return jsxName(n.Get("object")) + "." + jsxName(n.Get("property"))
	}
	return n.Value
}

func jsxTag(opening *Node) string {
	return "<" + jsxName(opening.Get("name")) + ">"
}

func jsxClosingTag(opening *Node) string {
	return "</" + jsxName(opening.Get("name")) + ">"
}

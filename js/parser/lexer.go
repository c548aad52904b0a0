package parser

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

func isNewline(r rune) bool {
	return r == '\n' || r == '\r' || r == 0x2028 || r == 0x2029
}

func isIdentifierStart(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '$', r == '_':
		return true
	case r < 0x80:
		return false
	}
	return unicode.IsLetter(r) || unicode.Is(unicode.Nl, r) || unicode.Is(unicode.Other_ID_Start, r)
}

func isIdentifierChar(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '$', r == '_':
		return true
	case r < 0x80:
		return false
	case r == 0x200c, r == 0x200d:
		return true
	}
	return isIdentifierStart(r) || unicode.In(r, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc)
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// containsLineBreak reports whether s holds a line terminator.
func containsLineBreak(s string) bool {
	return strings.ContainsAny(s, "\n\r\u2028\u2029")
}

func (p *Parser) at(i int) byte {
	if i < len(p.input) {
		return p.input[i]
	}
	return 0
}

func (p *Parser) cur() byte {
	return p.at(p.state.Index)
}

func (p *Parser) peekRune() (rune, int) {
	s := p.state
	if s.Index >= len(p.input) {
		return -1, 0
	}
	if c := p.input[s.Index]; c < utf8.RuneSelf {
		return rune(c), 1
	}
	return utf8.DecodeRuneInString(p.input[s.Index:])
}

// newline consumes one line terminator at the cursor, treating CRLF as one.
func (p *Parser) newline() {
	s := p.state
	if p.cur() == '\r' && p.at(s.Index+1) == '\n' {
		s.Index++
	}
	_, size := p.peekRune()
	s.Index += size
	s.Line++
	s.LineStart = s.Index
}

func (p *Parser) hasPrecedingLineBreak() bool {
	s := p.state
	if s.LastTokEnd.Index >= s.Start.Index || s.Start.Index > len(p.input) {
		return false
	}
	return containsLineBreak(p.input[s.LastTokEnd.Index:s.Start.Index])
}

func (p *Parser) isLineTerminator() bool {
	return p.match(TokenSemi) || p.match(TokenBraceR) || p.match(TokenEOF) || p.hasPrecedingLineBreak()
}

// next advances to the next token, emitting the current one when tokens
// are collected.
func (p *Parser) next() {
	s := p.state
	if p.collectTokens && !s.IsLookahead && !s.Aborted {
		s.Tokens.append(Token{Kind: s.Kind, Value: s.Value, Span: Span{Start: s.Start, End: s.End}})
	}
	s.LastKind = s.Kind
	s.LastTokStart = s.Start
	s.LastTokEnd = s.End
	p.nextToken()
}

func (p *Parser) nextToken() {
	s := p.state
	ctx := p.curContext()
	if !ctx.PreserveSpace() {
		p.skipSpace()
	}
	s.ContainsEsc = false
	s.Start = s.position()
	if s.Aborted || s.Index >= len(p.input) {
		p.finishToken(TokenEOF, "")
		return
	}
	if contextInfos[ctx].hasOverride {
		p.readOverride(ctx)
		return
	}
	p.readToken()
}

func (p *Parser) finishToken(kind TokenKind, value string) {
	s := p.state
	s.End = s.position()
	prev := s.Kind
	s.Kind = kind
	s.Value = value
	p.updateContext(prev)
}

func (p *Parser) finishOp(kind TokenKind, size int) {
	s := p.state
	value := p.input[s.Index : s.Index+size]
	s.Index += size
	p.finishToken(kind, value)
}

func (p *Parser) skipSpace() {
	s := p.state
	for s.Index < len(p.input) {
		c := p.input[s.Index]
		switch c {
		case ' ', '\t', '\v', '\f':
			s.Index++
		case '\n', '\r':
			p.newline()
		case '/':
			switch p.at(s.Index + 1) {
			case '*':
				p.skipBlockComment()
			case '/':
				p.skipLineComment(2)
			default:
				return
			}
		default:
			if c < utf8.RuneSelf {
				return
			}
			r, size := p.peekRune()
			switch {
			case r == 0x2028 || r == 0x2029:
				p.newline()
			case r == 0xa0 || r == 0xfeff || unicode.Is(unicode.Zs, r):
				s.Index += size
			default:
				return
			}
		}
	}
}

func (p *Parser) skipBlockComment() {
	s := p.state
	start := s.position()
	s.Index += 2
	end := strings.Index(p.input[s.Index:], "*/")
	var body string
	if end < 0 {
		body = p.input[s.Index:]
	} else {
		body = p.input[s.Index : s.Index+end]
	}
	for i := 0; i < len(body); {
		r, size := utf8.DecodeRuneInString(body[i:])
		if isNewline(r) {
			if r == '\r' && i+1 < len(body) && body[i+1] == '\n' {
				size = 2
			}
			s.Line++
			s.LineStart = s.Index + i + size
		}
		i += size
	}
	s.Index += len(body)
	if end < 0 {
		p.raise(Span{Start: start, End: s.position()}, CategoryUnterminated, "unterminated comment")
	} else {
		s.Index += 2
	}
	p.addComment(&Comment{Kind: CommentBlock, Value: body, Span: Span{Start: start, End: s.position()}})
}

func (p *Parser) skipLineComment(skip int) {
	s := p.state
	start := s.position()
	s.Index += skip
	begin := s.Index
	for s.Index < len(p.input) {
		r, size := p.peekRune()
		if isNewline(r) {
			break
		}
		s.Index += size
	}
	p.addComment(&Comment{Kind: CommentLine, Value: p.input[begin:s.Index], Span: Span{Start: start, End: s.position()}})
}

// skipInterpreter consumes a `#!` line at the start of input.
func (p *Parser) skipInterpreter() {
	if !strings.HasPrefix(p.input, "#!") {
		return
	}
	s := p.state
	s.Index = 2
	for s.Index < len(p.input) {
		r, size := p.peekRune()
		if isNewline(r) {
			break
		}
		s.Index += size
	}
	s.Interpreter = p.input[2:s.Index]
}

func (p *Parser) readToken() {
	s := p.state
	ctx := p.curContext()
	r, size := p.peekRune()

	if p.syntax.JSX && (ctx == ContextJSXOpenTag || ctx == ContextJSXCloseTag) {
		switch {
		case isIdentifierStart(r):
			p.readJSXWord()
			return
		case r == '>':
			p.finishOp(TokenJSXTagEnd, 1)
			return
		case (r == '"' || r == '\'') && ctx == ContextJSXOpenTag:
			p.readJSXString(byte(r))
			return
		}
	}

	if isIdentifierStart(r) || r == '\\' {
		p.readWord()
		return
	}

	c := byte(r)
	next := p.at(s.Index + 1)
	switch r {
	case '.':
		if isDigit(next) {
			p.readNumber(true)
			return
		}
		if next == '.' && p.at(s.Index+2) == '.' {
			p.finishOp(TokenEllipsis, 3)
			return
		}
		p.finishOp(TokenDot, 1)
	case '(':
		p.finishOp(TokenParenL, 1)
	case ')':
		p.finishOp(TokenParenR, 1)
	case ';':
		p.finishOp(TokenSemi, 1)
	case ',':
		p.finishOp(TokenComma, 1)
	case '[':
		p.finishOp(TokenBracketL, 1)
	case ']':
		p.finishOp(TokenBracketR, 1)
	case '{':
		p.finishOp(TokenBraceL, 1)
	case '}':
		p.finishOp(TokenBraceR, 1)
	case ':':
		p.finishOp(TokenColon, 1)
	case '@':
		p.finishOp(TokenAt, 1)
	case '`':
		p.finishOp(TokenBackQuote, 1)
	case '#':
		p.readPrivateName()
	case '?':
		p.readQuestion()
	case '0':
		switch next {
		case 'x', 'X':
			p.readRadixNumber(16)
			return
		case 'o', 'O':
			p.readRadixNumber(8)
			return
		case 'b', 'B':
			p.readRadixNumber(2)
			return
		}
		p.readNumber(false)
	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		p.readNumber(false)
	case '"', '\'':
		p.readString(c)
	case '/':
		if s.ExprAllowed {
			p.readRegexp()
			return
		}
		if next == '=' {
			p.finishOp(TokenAssign, 2)
			return
		}
		p.finishOp(TokenSlash, 1)
	case '%', '*':
		p.readMultModulo(c)
	case '|', '&':
		p.readPipeAmp(c)
	case '^':
		if next == '=' {
			p.finishOp(TokenAssign, 2)
			return
		}
		p.finishOp(TokenBitwiseXOR, 1)
	case '+', '-':
		switch next {
		case c:
			p.finishOp(TokenIncDec, 2)
		case '=':
			p.finishOp(TokenAssign, 2)
		default:
			p.finishOp(TokenPlusMin, 1)
		}
	case '<':
		p.readLessThan()
	case '>':
		p.readGreaterThan()
	case '=', '!':
		p.readEqBang(c)
	case '~':
		p.finishOp(TokenTilde, 1)
	default:
		start := s.position()
		s.Index += size
		p.raise(Span{Start: start, End: s.position()}, CategoryJS, "unexpected character '"+string(r)+"'")
		p.skipSpace()
		s.Start = s.position()
		if s.Aborted || s.Index >= len(p.input) {
			p.finishToken(TokenEOF, "")
			return
		}
		p.readToken()
	}
}

func (p *Parser) readQuestion() {
	s := p.state
	next := p.at(s.Index + 1)
	switch {
	case next == '?' && p.at(s.Index+2) == '=':
		p.finishOp(TokenAssign, 3)
	case next == '?':
		p.finishOp(TokenNullishCoalescing, 2)
	case next == '.' && !isDigit(p.at(s.Index+2)):
		p.finishOp(TokenQuestionDot, 2)
	default:
		p.finishOp(TokenQuestion, 1)
	}
}

func (p *Parser) readMultModulo(c byte) {
	s := p.state
	kind, size := TokenModulo, 1
	if c == '*' {
		kind = TokenStar
		if p.at(s.Index+1) == '*' {
			kind, size = TokenExponent, 2
		}
	}
	if p.at(s.Index+size) == '=' {
		kind = TokenAssign
		size++
	}
	p.finishOp(kind, size)
}

func (p *Parser) readPipeAmp(c byte) {
	s := p.state
	next := p.at(s.Index + 1)
	if next == c {
		if p.at(s.Index+2) == '=' {
			p.finishOp(TokenAssign, 3)
			return
		}
		if c == '|' {
			p.finishOp(TokenLogicalOR, 2)
		} else {
			p.finishOp(TokenLogicalAND, 2)
		}
		return
	}
	if next == '=' {
		p.finishOp(TokenAssign, 2)
		return
	}
	if c == '|' {
		p.finishOp(TokenBitwiseOR, 1)
	} else {
		p.finishOp(TokenBitwiseAND, 1)
	}
}

// readLessThan decides between a relational operator and a JSX tag start.
func (p *Parser) readLessThan() {
	s := p.state
	next := p.at(s.Index + 1)
	if p.inScope(ScopeType) {
		p.finishOp(TokenLessThan, 1)
		return
	}
	if p.syntax.JSX && s.ExprAllowed && next != '!' {
		p.finishOp(TokenJSXTagStart, 1)
		return
	}
	switch {
	case next == '<' && p.at(s.Index+2) == '=':
		p.finishOp(TokenAssign, 3)
	case next == '<':
		p.finishOp(TokenBitShift, 2)
	case next == '=':
		p.finishOp(TokenRelational, 2)
	default:
		p.finishOp(TokenLessThan, 1)
	}
}

func (p *Parser) readGreaterThan() {
	s := p.state
	if p.inScope(ScopeType) {
		p.finishOp(TokenGreaterThan, 1)
		return
	}
	size := 1
	for size < 3 && p.at(s.Index+size) == '>' {
		size++
	}
	if size > 1 {
		if p.at(s.Index+size) == '=' {
			p.finishOp(TokenAssign, size+1)
			return
		}
		p.finishOp(TokenBitShift, size)
		return
	}
	if p.at(s.Index+1) == '=' {
		p.finishOp(TokenRelational, 2)
		return
	}
	p.finishOp(TokenGreaterThan, 1)
}

func (p *Parser) readEqBang(c byte) {
	s := p.state
	next := p.at(s.Index + 1)
	if next == '=' {
		if p.at(s.Index+2) == '=' {
			p.finishOp(TokenEquality, 3)
			return
		}
		p.finishOp(TokenEquality, 2)
		return
	}
	if c == '=' && next == '>' {
		p.finishOp(TokenArrow, 2)
		return
	}
	if c == '=' {
		p.finishOp(TokenEq, 1)
		return
	}
	p.finishOp(TokenBang, 1)
}

func (p *Parser) readPrivateName() {
	s := p.state
	s.Index++
	r, _ := p.peekRune()
	if !isIdentifierStart(r) && r != '\\' {
		p.raise(Span{Start: s.Start, End: s.position()}, CategoryJS, "unexpected character '#'")
		p.finishToken(TokenPrivateName, "")
		return
	}
	p.finishToken(TokenPrivateName, p.readWord1())
}

func (p *Parser) readWord() {
	word := p.readWord1()
	kind := LookupKeyword(word)
	if kind != TokenName && p.state.ContainsEsc {
		p.raise(Span{Start: p.state.Start, End: p.state.position()}, CategoryEscape, "escape sequence in keyword "+word)
		kind = TokenName
	}
	p.finishToken(kind, word)
}

// readWord1 reads an identifier, decoding `\u` escapes.
func (p *Parser) readWord1() string {
	s := p.state
	var sb strings.Builder
	chunkStart := s.Index
	first := true
	for s.Index < len(p.input) {
		r, size := p.peekRune()
		switch {
		case isIdentifierChar(r):
			s.Index += size
		case r == '\\':
			s.ContainsEsc = true
			sb.WriteString(p.input[chunkStart:s.Index])
			escStart := s.position()
			s.Index++
			if p.cur() != 'u' {
				p.raise(Span{Start: escStart, End: s.position()}, CategoryEscape, "expecting Unicode escape sequence \\uXXXX")
				sb.WriteRune(utf8.RuneError)
				chunkStart = s.Index
				continue
			}
			s.Index++
			esc, ok := p.readCodePoint()
			valid := ok && (first && isIdentifierStart(esc) || !first && isIdentifierChar(esc))
			if !valid {
				p.raise(Span{Start: escStart, End: s.position()}, CategoryEscape, "invalid Unicode escape")
				esc = utf8.RuneError
			}
			sb.WriteRune(esc)
			chunkStart = s.Index
		default:
			sb.WriteString(p.input[chunkStart:s.Index])
			return sb.String()
		}
		first = false
	}
	sb.WriteString(p.input[chunkStart:s.Index])
	return sb.String()
}

// readHex reads exactly n hex digits.
func (p *Parser) readHex(n int) (rune, bool) {
	s := p.state
	if s.Index+n > len(p.input) {
		return 0, false
	}
	v, err := strconv.ParseUint(p.input[s.Index:s.Index+n], 16, 32)
	if err != nil {
		return 0, false
	}
	s.Index += n
	return rune(v), true
}

// readCodePoint reads the part of a `\u` escape after the `u`.
func (p *Parser) readCodePoint() (rune, bool) {
	s := p.state
	if p.cur() != '{' {
		return p.readHex(4)
	}
	end := strings.IndexByte(p.input[s.Index:], '}')
	if end < 0 {
		return 0, false
	}
	v, err := strconv.ParseUint(p.input[s.Index+1:s.Index+end], 16, 32)
	if err != nil || v > 0x10ffff {
		return 0, false
	}
	s.Index += end + 1
	return rune(v), true
}

func (p *Parser) readNumber(startsWithDot bool) {
	s := p.state
	start := s.Index
	isFloat := startsWithDot
	legacyOctal := !startsWithDot && p.cur() == '0' && isDigit(p.at(s.Index+1))

	if !startsWithDot {
		p.readDigits(10)
	}
	if p.cur() == '.' && !legacyOctal {
		s.Index++
		p.readDigits(10)
		isFloat = true
	}
	if c := p.cur(); (c == 'e' || c == 'E') && !legacyOctal {
		s.Index++
		if c := p.cur(); c == '+' || c == '-' {
			s.Index++
		}
		if !isDigit(p.cur()) {
			p.raise(Span{Start: s.Start, End: s.position()}, CategoryJS, "invalid number")
		}
		p.readDigits(10)
		isFloat = true
	}

	kind := TokenNum
	if p.cur() == 'n' {
		if isFloat || legacyOctal {
			p.raise(Span{Start: s.Start, End: s.position()}, CategoryJS, "invalid BigIntLiteral")
		}
		kind = TokenBigInt
		s.Index++
	}
	p.checkNumberEnd()
	p.finishToken(kind, strings.ReplaceAll(p.input[start:s.Index], "_", ""))
}

func (p *Parser) readRadixNumber(radix int) {
	s := p.state
	start := s.Index
	s.Index += 2
	if p.readDigits(radix) == 0 {
		p.raise(Span{Start: s.Start, End: s.position()}, CategoryJS, "expected number in radix "+strconv.Itoa(radix))
	}
	kind := TokenNum
	if p.cur() == 'n' {
		kind = TokenBigInt
		s.Index++
	}
	p.checkNumberEnd()
	p.finishToken(kind, strings.ReplaceAll(p.input[start:s.Index], "_", ""))
}

func (p *Parser) checkNumberEnd() {
	r, _ := p.peekRune()
	if isIdentifierStart(r) {
		p.raise(Span{Start: p.state.position(), End: p.state.position()}, CategoryJS, "identifier directly after number")
	}
}

// readDigits consumes digits of radix with `_` separators and returns how
// many digits it read.
func (p *Parser) readDigits(radix int) int {
	s := p.state
	count := 0
	lastSep := false
	for s.Index < len(p.input) {
		c := p.input[s.Index]
		if c == '_' {
			pos := s.position()
			if count == 0 || lastSep {
				p.raise(Span{Start: pos, End: pos}, CategoryJS, "numeric separators are not allowed here")
			}
			lastSep = true
			s.Index++
			continue
		}
		if digitValue(c) >= radix {
			break
		}
		lastSep = false
		count++
		s.Index++
	}
	if lastSep {
		pos := s.position()
		p.raise(Span{Start: pos, End: pos}, CategoryJS, "numeric separators are not allowed at the end of numeric literals")
	}
	return count
}

func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return 99
}

func (p *Parser) readString(quote byte) {
	s := p.state
	var sb strings.Builder
	s.Index++
	chunkStart := s.Index
	for {
		if s.Index >= len(p.input) {
			sb.WriteString(p.input[chunkStart:s.Index])
			p.raise(Span{Start: s.Start, End: s.position()}, CategoryUnterminated, "unterminated string constant")
			break
		}
		c := p.input[s.Index]
		if c == quote {
			sb.WriteString(p.input[chunkStart:s.Index])
			s.Index++
			break
		}
		if c == '\\' {
			sb.WriteString(p.input[chunkStart:s.Index])
			sb.WriteString(p.readEscapedChar(false))
			chunkStart = s.Index
			continue
		}
		if r, _ := p.peekRune(); r == '\n' || r == '\r' {
			sb.WriteString(p.input[chunkStart:s.Index])
			p.raise(Span{Start: s.Start, End: s.position()}, CategoryUnterminated, "unterminated string constant")
			break
		}
		s.Index++
	}
	p.finishToken(TokenString, sb.String())
}

// readEscapedChar decodes the escape at the cursor, which is on the
// backslash. Invalid escapes are diagnosed and decode to U+FFFD.
func (p *Parser) readEscapedChar(inTemplate bool) string {
	s := p.state
	start := s.position()
	s.Index++
	if s.Index >= len(p.input) {
		return ""
	}
	c := p.input[s.Index]
	invalid := func(msg string) string {
		p.raise(Span{Start: start, End: s.position()}, CategoryEscape, msg)
		return string(utf8.RuneError)
	}
	switch c {
	case 'n':
		s.Index++
		return "\n"
	case 'r':
		s.Index++
		return "\r"
	case 't':
		s.Index++
		return "\t"
	case 'b':
		s.Index++
		return "\b"
	case 'v':
		s.Index++
		return "\v"
	case 'f':
		s.Index++
		return "\f"
	case 'x':
		s.Index++
		r, ok := p.readHex(2)
		if !ok {
			return invalid("bad character escape sequence")
		}
		return string(r)
	case 'u':
		s.Index++
		r, ok := p.readCodePoint()
		if !ok {
			return invalid("bad character escape sequence")
		}
		return string(r)
	case '\r', '\n':
		p.newline()
		return ""
	case '0', '1', '2', '3', '4', '5', '6', '7':
		end := s.Index
		for end < len(p.input) && end-s.Index < 3 && p.input[end] >= '0' && p.input[end] <= '7' {
			end++
		}
		digits := p.input[s.Index:end]
		if digits == "0" {
			s.Index = end
			return "\x00"
		}
		if inTemplate {
			s.Index = end
			return invalid("octal escape sequences are not allowed in template strings")
		}
		if p.inScope(ScopeStrict) {
			s.Index = end
			return invalid("octal literal in strict mode")
		}
		v, _ := strconv.ParseUint(digits, 8, 32)
		if v > 0xff {
			digits = digits[:2]
			v, _ = strconv.ParseUint(digits, 8, 32)
		}
		s.Index += len(digits)
		return string(rune(v))
	case '8', '9':
		s.Index++
		if inTemplate || p.inScope(ScopeStrict) {
			return invalid("\\8 and \\9 are not allowed in strict mode")
		}
		return string(c)
	}
	r, size := p.peekRune()
	if r == 0x2028 || r == 0x2029 {
		p.newline()
		return ""
	}
	s.Index += size
	return string(r)
}

func (p *Parser) readRegexp() {
	s := p.state
	s.Index++
	bodyStart := s.Index
	escaped, inClass := false, false
	for {
		if s.Index >= len(p.input) {
			p.raise(Span{Start: s.Start, End: s.position()}, CategoryUnterminated, "unterminated regular expression")
			break
		}
		r, size := p.peekRune()
		if isNewline(r) {
			p.raise(Span{Start: s.Start, End: s.position()}, CategoryUnterminated, "unterminated regular expression")
			break
		}
		if escaped {
			escaped = false
		} else {
			switch r {
			case '[':
				inClass = true
			case ']':
				inClass = false
			case '\\':
				escaped = true
			}
			if r == '/' && !inClass {
				break
			}
		}
		s.Index += size
	}
	pattern := p.input[bodyStart:s.Index]
	if p.cur() == '/' {
		s.Index++
	}

	flagsStart := s.Index
	seen := map[rune]bool{}
	for s.Index < len(p.input) {
		r, size := p.peekRune()
		if !isIdentifierChar(r) {
			break
		}
		pos := s.position()
		switch {
		case !strings.ContainsRune("dgimsuyv", r):
			p.raise(Span{Start: pos, End: pos}, CategoryRegex, "invalid regular expression flag '"+string(r)+"'")
		case seen[r]:
			p.raise(Span{Start: pos, End: pos}, CategoryRegex, "duplicate regular expression flag '"+string(r)+"'")
		}
		seen[r] = true
		s.Index += size
	}
	p.finishToken(TokenRegex, "/"+pattern+"/"+p.input[flagsStart:s.Index])
}

// readTemplateToken scans inside a template literal: a chunk of text, or
// the `${` / closing backquote that ends it.
func (p *Parser) readTemplateToken() {
	s := p.state
	var sb strings.Builder
	chunkStart := s.Index
	for {
		if s.Index >= len(p.input) {
			p.raise(Span{Start: s.Start, End: s.position()}, CategoryUnterminated, "unterminated template")
			sb.WriteString(p.input[chunkStart:s.Index])
			p.finishToken(TokenTemplate, sb.String())
			return
		}
		c := p.input[s.Index]
		if c == '`' || (c == '$' && p.at(s.Index+1) == '{') {
			if s.Index == s.Start.Index && s.Kind == TokenTemplate {
				if c == '$' {
					p.finishOp(TokenDollarBraceL, 2)
				} else {
					p.finishOp(TokenBackQuote, 1)
				}
				return
			}
			sb.WriteString(p.input[chunkStart:s.Index])
			p.finishToken(TokenTemplate, sb.String())
			return
		}
		switch {
		case c == '\\':
			sb.WriteString(p.input[chunkStart:s.Index])
			sb.WriteString(p.readEscapedChar(true))
			chunkStart = s.Index
		case c == '\r' || c == '\n':
			sb.WriteString(p.input[chunkStart:s.Index])
			sb.WriteByte('\n')
			p.newline()
			chunkStart = s.Index
		default:
			r, size := p.peekRune()
			if r == 0x2028 || r == 0x2029 {
				s.Index += size
				s.Line++
				s.LineStart = s.Index
				continue
			}
			s.Index += size
		}
	}
}

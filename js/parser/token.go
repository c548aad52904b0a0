package parser

import "strconv"

// Position is a point in the source. Line is 1-based, Column is 0-based
// and counted in bytes, Index is the 0-based byte offset.
type Position struct {
	Index  int
	Line   int
	Column int
}

func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

type Span struct {
	Start Position
	End   Position
}

func (s Span) Contains(other Span) bool {
	return other.Start.Index >= s.Start.Index && other.End.Index <= s.End.Index
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenInvalid

	// Literals
	TokenNum
	TokenBigInt
	TokenString
	TokenRegex
	TokenName
	TokenPrivateName
	TokenTemplate

	// Punctuation
	TokenBracketL
	TokenBracketR
	TokenBraceL
	TokenBraceR
	TokenParenL
	TokenParenR
	TokenComma
	TokenSemi
	TokenColon
	TokenDot
	TokenQuestion
	TokenQuestionDot
	TokenArrow
	TokenEllipsis
	TokenBackQuote
	TokenDollarBraceL
	TokenAt

	// Operators
	TokenEq
	TokenAssign
	TokenIncDec
	TokenBang
	TokenTilde
	TokenNullishCoalescing
	TokenLogicalOR
	TokenLogicalAND
	TokenBitwiseOR
	TokenBitwiseXOR
	TokenBitwiseAND
	TokenEquality
	TokenLessThan
	TokenGreaterThan
	TokenRelational
	TokenBitShift
	TokenPlusMin
	TokenModulo
	TokenStar
	TokenSlash
	TokenExponent

	// JSX
	TokenJSXName
	TokenJSXText
	TokenJSXTagStart
	TokenJSXTagEnd

	// Keywords
	TokenBreak
	TokenCase
	TokenCatch
	TokenContinue
	TokenDebugger
	TokenDefault
	TokenDo
	TokenElse
	TokenFinally
	TokenFor
	TokenFunction
	TokenIf
	TokenReturn
	TokenSwitch
	TokenThrow
	TokenTry
	TokenVar
	TokenConst
	TokenWhile
	TokenWith
	TokenNew
	TokenThis
	TokenSuper
	TokenClass
	TokenExtends
	TokenExport
	TokenImport
	TokenNull
	TokenTrue
	TokenFalse
	TokenIn
	TokenInstanceof
	TokenTypeof
	TokenVoid
	TokenDelete

	tokenKindCount
)

// tokenInfo describes how a token kind affects the parser around it.
// beforeExpr means an expression may follow (so `/` after it starts a
// regex); startsExpr means the token can begin an expression.
type tokenInfo struct {
	label      string
	keyword    string
	beforeExpr bool
	startsExpr bool
	isLoop     bool
	isAssign   bool
	prefix     bool
	postfix    bool
	binop      int
}

var tokenInfos = [tokenKindCount]tokenInfo{
	TokenEOF:     {label: "eof"},
	TokenInvalid: {label: "invalid"},

	TokenNum:         {label: "num", startsExpr: true},
	TokenBigInt:      {label: "bigint", startsExpr: true},
	TokenString:      {label: "string", startsExpr: true},
	TokenRegex:       {label: "regexp", startsExpr: true},
	TokenName:        {label: "name", startsExpr: true},
	TokenPrivateName: {label: "#name", startsExpr: true},
	TokenTemplate:    {label: "template"},

	TokenBracketL:     {label: "[", beforeExpr: true, startsExpr: true},
	TokenBracketR:     {label: "]"},
	TokenBraceL:       {label: "{", beforeExpr: true, startsExpr: true},
	TokenBraceR:       {label: "}"},
	TokenParenL:       {label: "(", beforeExpr: true, startsExpr: true},
	TokenParenR:       {label: ")"},
	TokenComma:        {label: ",", beforeExpr: true},
	TokenSemi:         {label: ";", beforeExpr: true},
	TokenColon:        {label: ":", beforeExpr: true},
	TokenDot:          {label: "."},
	TokenQuestion:     {label: "?", beforeExpr: true},
	TokenQuestionDot:  {label: "?."},
	TokenArrow:        {label: "=>", beforeExpr: true},
	TokenEllipsis:     {label: "...", beforeExpr: true},
	TokenBackQuote:    {label: "`", startsExpr: true},
	TokenDollarBraceL: {label: "${", beforeExpr: true, startsExpr: true},
	TokenAt:           {label: "@"},

	TokenEq:                {label: "=", beforeExpr: true, isAssign: true},
	TokenAssign:            {label: "_=", beforeExpr: true, isAssign: true},
	TokenIncDec:            {label: "++/--", prefix: true, postfix: true, startsExpr: true},
	TokenBang:              {label: "!", beforeExpr: true, prefix: true, startsExpr: true},
	TokenTilde:             {label: "~", beforeExpr: true, prefix: true, startsExpr: true},
	TokenNullishCoalescing: {label: "??", beforeExpr: true, binop: 1},
	TokenLogicalOR:         {label: "||", beforeExpr: true, binop: 1},
	TokenLogicalAND:        {label: "&&", beforeExpr: true, binop: 2},
	TokenBitwiseOR:         {label: "|", beforeExpr: true, binop: 3},
	TokenBitwiseXOR:        {label: "^", beforeExpr: true, binop: 4},
	TokenBitwiseAND:        {label: "&", beforeExpr: true, binop: 5},
	TokenEquality:          {label: "==/!=/===/!==", beforeExpr: true, binop: 6},
	TokenLessThan:          {label: "<", beforeExpr: true, binop: 7},
	TokenGreaterThan:       {label: ">", beforeExpr: true, binop: 7},
	TokenRelational:        {label: "<=/>=", beforeExpr: true, binop: 7},
	TokenBitShift:          {label: "<</>>/>>>", beforeExpr: true, binop: 8},
	TokenPlusMin:           {label: "+/-", beforeExpr: true, binop: 9, prefix: true, startsExpr: true},
	TokenModulo:            {label: "%", beforeExpr: true, binop: 10},
	TokenStar:              {label: "*", beforeExpr: true, binop: 10},
	TokenSlash:             {label: "/", beforeExpr: true, binop: 10},
	TokenExponent:          {label: "**", beforeExpr: true, binop: 11},

	TokenJSXName:     {label: "jsxName"},
	TokenJSXText:     {label: "jsxText", beforeExpr: true},
	TokenJSXTagStart: {label: "jsxTagStart", startsExpr: true},
	TokenJSXTagEnd:   {label: "jsxTagEnd"},

	TokenBreak:      {label: "break", keyword: "break"},
	TokenCase:       {label: "case", keyword: "case", beforeExpr: true},
	TokenCatch:      {label: "catch", keyword: "catch"},
	TokenContinue:   {label: "continue", keyword: "continue"},
	TokenDebugger:   {label: "debugger", keyword: "debugger"},
	TokenDefault:    {label: "default", keyword: "default", beforeExpr: true},
	TokenDo:         {label: "do", keyword: "do", isLoop: true, beforeExpr: true},
	TokenElse:       {label: "else", keyword: "else", beforeExpr: true},
	TokenFinally:    {label: "finally", keyword: "finally"},
	TokenFor:        {label: "for", keyword: "for", isLoop: true},
	TokenFunction:   {label: "function", keyword: "function", startsExpr: true},
	TokenIf:         {label: "if", keyword: "if"},
	TokenReturn:     {label: "return", keyword: "return", beforeExpr: true},
	TokenSwitch:     {label: "switch", keyword: "switch"},
	TokenThrow:      {label: "throw", keyword: "throw", beforeExpr: true, prefix: true, startsExpr: true},
	TokenTry:        {label: "try", keyword: "try"},
	TokenVar:        {label: "var", keyword: "var"},
	TokenConst:      {label: "const", keyword: "const"},
	TokenWhile:      {label: "while", keyword: "while", isLoop: true},
	TokenWith:       {label: "with", keyword: "with"},
	TokenNew:        {label: "new", keyword: "new", beforeExpr: true, startsExpr: true},
	TokenThis:       {label: "this", keyword: "this", startsExpr: true},
	TokenSuper:      {label: "super", keyword: "super", startsExpr: true},
	TokenClass:      {label: "class", keyword: "class", startsExpr: true},
	TokenExtends:    {label: "extends", keyword: "extends", beforeExpr: true},
	TokenExport:     {label: "export", keyword: "export"},
	TokenImport:     {label: "import", keyword: "import", startsExpr: true},
	TokenNull:       {label: "null", keyword: "null", startsExpr: true},
	TokenTrue:       {label: "true", keyword: "true", startsExpr: true},
	TokenFalse:      {label: "false", keyword: "false", startsExpr: true},
	TokenIn:         {label: "in", keyword: "in", beforeExpr: true, binop: 7},
	TokenInstanceof: {label: "instanceof", keyword: "instanceof", beforeExpr: true, binop: 7},
	TokenTypeof:     {label: "typeof", keyword: "typeof", beforeExpr: true, prefix: true, startsExpr: true},
	TokenVoid:       {label: "void", keyword: "void", beforeExpr: true, prefix: true, startsExpr: true},
	TokenDelete:     {label: "delete", keyword: "delete", beforeExpr: true, prefix: true, startsExpr: true},
}

var keywords = map[string]TokenKind{}

func init() {
	for kind := TokenKind(0); kind < tokenKindCount; kind++ {
		if kw := tokenInfos[kind].keyword; kw != "" {
			keywords[kw] = kind
		}
	}
}

// LookupKeyword returns the keyword kind for ident, or TokenName.
func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return TokenName
}

func (k TokenKind) String() string {
	if k >= 0 && k < tokenKindCount {
		return tokenInfos[k].label
	}
	return "unknown"
}

func (k TokenKind) IsKeyword() bool {
	return k >= 0 && k < tokenKindCount && tokenInfos[k].keyword != ""
}
func (k TokenKind) BeforeExpr() bool { return k >= 0 && k < tokenKindCount && tokenInfos[k].beforeExpr }
func (k TokenKind) StartsExpr() bool { return k >= 0 && k < tokenKindCount && tokenInfos[k].startsExpr }
func (k TokenKind) IsAssign() bool   { return tokenInfos[k].isAssign }
func (k TokenKind) IsLoop() bool     { return tokenInfos[k].isLoop }
func (k TokenKind) IsPrefix() bool   { return tokenInfos[k].prefix }
func (k TokenKind) IsPostfix() bool  { return tokenInfos[k].postfix }
func (k TokenKind) BinaryPrec() int  { return tokenInfos[k].binop }

// Token is an emitted token. Value holds the decoded value for names,
// strings, templates and JSX text, and the raw operator text otherwise.
type Token struct {
	Kind  TokenKind
	Value string
	Span  Span
}

func (t Token) String() string {
	if t.Value != "" {
		return t.Kind.String() + "(" + t.Value + ")"
	}
	return t.Kind.String()
}

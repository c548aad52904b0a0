package parser

import "strings"

type NodeKind int

const (
	KindUnknown NodeKind = iota

	// Program level
	KindProgram
	KindDirective
	KindInterpreterDirective

	// Statements
	KindExpressionStatement
	KindBlockStatement
	KindEmptyStatement
	KindDebuggerStatement
	KindWithStatement
	KindReturnStatement
	KindLabeledStatement
	KindBreakStatement
	KindContinueStatement
	KindIfStatement
	KindSwitchStatement
	KindSwitchCase
	KindThrowStatement
	KindTryStatement
	KindCatchClause
	KindWhileStatement
	KindDoWhileStatement
	KindForStatement
	KindForInStatement
	KindForOfStatement
	KindVariableDeclaration
	KindVariableDeclarator
	KindFunctionDeclaration
	KindClassDeclaration
	KindClassBody
	KindClassMethod
	KindClassProperty
	KindImportDeclaration
	KindImportSpecifier
	KindImportDefaultSpecifier
	KindImportNamespaceSpecifier
	KindExportNamedDeclaration
	KindExportDefaultDeclaration
	KindExportAllDeclaration
	KindExportSpecifier

	// Expressions
	KindIdentifier
	KindUnknownIdentifier
	KindPrivateName
	KindStringLiteral
	KindNumericLiteral
	KindBigIntLiteral
	KindBooleanLiteral
	KindNullLiteral
	KindRegExpLiteral
	KindTemplateLiteral
	KindTemplateElement
	KindTaggedTemplateExpression
	KindThisExpression
	KindSuper
	KindArrayExpression
	KindObjectExpression
	KindObjectProperty
	KindObjectMethod
	KindSpreadElement
	KindFunctionExpression
	KindArrowFunctionExpression
	KindClassExpression
	KindUnaryExpression
	KindUpdateExpression
	KindBinaryExpression
	KindLogicalExpression
	KindAssignmentExpression
	KindConditionalExpression
	KindCallExpression
	KindNewExpression
	KindMemberExpression
	KindSequenceExpression
	KindAwaitExpression
	KindYieldExpression
	KindMetaProperty
	KindImportCall

	// Patterns
	KindObjectPattern
	KindArrayPattern
	KindRestElement
	KindAssignmentPattern

	// JSX
	KindJSXElement
	KindJSXFragment
	KindJSXOpeningElement
	KindJSXClosingElement
	KindJSXAttribute
	KindJSXSpreadAttribute
	KindJSXIdentifier
	KindJSXMemberExpression
	KindJSXNamespacedName
	KindJSXExpressionContainer
	KindJSXEmptyExpression
	KindJSXText

	// Types
	KindTypeAnnotation
	KindTypeParameterDeclaration
	KindTypeParameter
	KindTypeParameterInstantiation
	KindTypeReference
	KindKeywordType
	KindLiteralType
	KindArrayType
	KindTupleType
	KindUnionType
	KindIntersectionType
	KindFunctionType
	KindObjectType
	KindObjectTypeProperty
	KindParenthesizedType
	KindTypeofType
	KindQualifiedTypeName
	KindTypeAlias
	KindInterfaceDeclaration
	KindAsExpression
	KindTypeAssertion
	KindTypeCastExpression
	KindNonNullExpression
	KindNullableType
	KindTypeOperator
	KindIndexedAccessType
	KindFunctionTypeParam
	KindObjectTypeIndexer

	nodeKindCount
)

var nodeKindNames = [nodeKindCount]string{
	KindUnknown:                    "Unknown",
	KindProgram:                    "Program",
	KindDirective:                  "Directive",
	KindInterpreterDirective:       "InterpreterDirective",
	KindExpressionStatement:        "ExpressionStatement",
	KindBlockStatement:             "BlockStatement",
	KindEmptyStatement:             "EmptyStatement",
	KindDebuggerStatement:          "DebuggerStatement",
	KindWithStatement:              "WithStatement",
	KindReturnStatement:            "ReturnStatement",
	KindLabeledStatement:           "LabeledStatement",
	KindBreakStatement:             "BreakStatement",
	KindContinueStatement:          "ContinueStatement",
	KindIfStatement:                "IfStatement",
	KindSwitchStatement:            "SwitchStatement",
	KindSwitchCase:                 "SwitchCase",
	KindThrowStatement:             "ThrowStatement",
	KindTryStatement:               "TryStatement",
	KindCatchClause:                "CatchClause",
	KindWhileStatement:             "WhileStatement",
	KindDoWhileStatement:           "DoWhileStatement",
	KindForStatement:               "ForStatement",
	KindForInStatement:             "ForInStatement",
	KindForOfStatement:             "ForOfStatement",
	KindVariableDeclaration:        "VariableDeclaration",
	KindVariableDeclarator:         "VariableDeclarator",
	KindFunctionDeclaration:        "FunctionDeclaration",
	KindClassDeclaration:           "ClassDeclaration",
	KindClassBody:                  "ClassBody",
	KindClassMethod:                "ClassMethod",
	KindClassProperty:              "ClassProperty",
	KindImportDeclaration:          "ImportDeclaration",
	KindImportSpecifier:            "ImportSpecifier",
	KindImportDefaultSpecifier:     "ImportDefaultSpecifier",
	KindImportNamespaceSpecifier:   "ImportNamespaceSpecifier",
	KindExportNamedDeclaration:     "ExportNamedDeclaration",
	KindExportDefaultDeclaration:   "ExportDefaultDeclaration",
	KindExportAllDeclaration:       "ExportAllDeclaration",
	KindExportSpecifier:            "ExportSpecifier",
	KindIdentifier:                 "Identifier",
	KindUnknownIdentifier:          "UnknownIdentifier",
	KindPrivateName:                "PrivateName",
	KindStringLiteral:              "StringLiteral",
	KindNumericLiteral:             "NumericLiteral",
	KindBigIntLiteral:              "BigIntLiteral",
	KindBooleanLiteral:             "BooleanLiteral",
	KindNullLiteral:                "NullLiteral",
	KindRegExpLiteral:              "RegExpLiteral",
	KindTemplateLiteral:            "TemplateLiteral",
	KindTemplateElement:            "TemplateElement",
	KindTaggedTemplateExpression:   "TaggedTemplateExpression",
	KindThisExpression:             "ThisExpression",
	KindSuper:                      "Super",
	KindArrayExpression:            "ArrayExpression",
	KindObjectExpression:           "ObjectExpression",
	KindObjectProperty:             "ObjectProperty",
	KindObjectMethod:               "ObjectMethod",
	KindSpreadElement:              "SpreadElement",
	KindFunctionExpression:         "FunctionExpression",
	KindArrowFunctionExpression:    "ArrowFunctionExpression",
	KindClassExpression:            "ClassExpression",
	KindUnaryExpression:            "UnaryExpression",
	KindUpdateExpression:           "UpdateExpression",
	KindBinaryExpression:           "BinaryExpression",
	KindLogicalExpression:          "LogicalExpression",
	KindAssignmentExpression:       "AssignmentExpression",
	KindConditionalExpression:      "ConditionalExpression",
	KindCallExpression:             "CallExpression",
	KindNewExpression:              "NewExpression",
	KindMemberExpression:           "MemberExpression",
	KindSequenceExpression:         "SequenceExpression",
	KindAwaitExpression:            "AwaitExpression",
	KindYieldExpression:            "YieldExpression",
	KindMetaProperty:               "MetaProperty",
	KindImportCall:                 "ImportCall",
	KindObjectPattern:              "ObjectPattern",
	KindArrayPattern:               "ArrayPattern",
	KindRestElement:                "RestElement",
	KindAssignmentPattern:          "AssignmentPattern",
	KindJSXElement:                 "JSXElement",
	KindJSXFragment:                "JSXFragment",
	KindJSXOpeningElement:          "JSXOpeningElement",
	KindJSXClosingElement:          "JSXClosingElement",
	KindJSXAttribute:               "JSXAttribute",
	KindJSXSpreadAttribute:         "JSXSpreadAttribute",
	KindJSXIdentifier:              "JSXIdentifier",
	KindJSXMemberExpression:        "JSXMemberExpression",
	KindJSXNamespacedName:          "JSXNamespacedName",
	KindJSXExpressionContainer:     "JSXExpressionContainer",
	KindJSXEmptyExpression:         "JSXEmptyExpression",
	KindJSXText:                    "JSXText",
	KindTypeAnnotation:             "TypeAnnotation",
	KindTypeParameterDeclaration:   "TypeParameterDeclaration",
	KindTypeParameter:              "TypeParameter",
	KindTypeParameterInstantiation: "TypeParameterInstantiation",
	KindTypeReference:              "TypeReference",
	KindKeywordType:                "KeywordType",
	KindLiteralType:                "LiteralType",
	KindArrayType:                  "ArrayType",
	KindTupleType:                  "TupleType",
	KindUnionType:                  "UnionType",
	KindIntersectionType:           "IntersectionType",
	KindFunctionType:               "FunctionType",
	KindObjectType:                 "ObjectType",
	KindObjectTypeProperty:         "ObjectTypeProperty",
	KindParenthesizedType:          "ParenthesizedType",
	KindTypeofType:                 "TypeofType",
	KindQualifiedTypeName:          "QualifiedTypeName",
	KindTypeAlias:                  "TypeAlias",
	KindInterfaceDeclaration:       "InterfaceDeclaration",
	KindAsExpression:               "AsExpression",
	KindTypeAssertion:              "TypeAssertion",
	KindTypeCastExpression:         "TypeCastExpression",
	KindNonNullExpression:          "NonNullExpression",
	KindNullableType:               "NullableType",
	KindTypeOperator:               "TypeOperator",
	KindIndexedAccessType:          "IndexedAccessType",
	KindFunctionTypeParam:          "FunctionTypeParam",
	KindObjectTypeIndexer:          "ObjectTypeIndexer",
}

func (k NodeKind) String() string {
	if k >= 0 && k < nodeKindCount && nodeKindNames[k] != "" {
		return nodeKindNames[k]
	}
	return "Unknown"
}

// NodeFlags are boolean properties of a node.
type NodeFlags uint16

const (
	FlagAsync NodeFlags = 1 << iota
	FlagGenerator
	FlagComputed
	FlagOptional
	FlagPrefix
	FlagShorthand
	FlagStatic
	FlagExpressionBody
	FlagSelfClosing
	FlagTail
	FlagMethod
)

var flagNames = [...]string{
	"async", "generator", "computed", "optional", "prefix", "shorthand",
	"static", "expressionBody", "selfClosing", "tail", "method",
}

// Names lists the set flags in declaration order.
func (f NodeFlags) Names() []string {
	var out []string
	for i, name := range flagNames {
		if f&(1<<i) != 0 {
			out = append(out, name)
		}
	}
	return out
}

// Edge is a named child of a node. Several edges may share a role; they
// then form an ordered list.
type Edge struct {
	Role string
	Node *Node
}

// Node is an AST node. Kind, Span, Value, Flags and Edges are set once by
// the builder; the comment slices are filled in after parsing completes.
type Node struct {
	Kind  NodeKind
	Span  Span
	Value string
	Flags NodeFlags
	Edges []Edge

	LeadingComments  []*Comment
	TrailingComments []*Comment
	InnerComments    []*Comment
}

func (n *Node) Has(flag NodeFlags) bool {
	return n.Flags&flag != 0
}

// Get returns the first child in role, or nil.
func (n *Node) Get(role string) *Node {
	for _, e := range n.Edges {
		if e.Role == role {
			return e.Node
		}
	}
	return nil
}

// All returns the children in role, in order. Holes (as in `[a, , b]`)
// are nil entries.
func (n *Node) All(role string) []*Node {
	var out []*Node
	for _, e := range n.Edges {
		if e.Role == role {
			out = append(out, e.Node)
		}
	}
	return out
}

// Children returns every non-nil child in source order.
func (n *Node) Children() []*Node {
	var out []*Node
	for _, e := range n.Edges {
		if e.Node != nil {
			out = append(out, e.Node)
		}
	}
	return out
}

func (n *Node) String() string {
	var sb strings.Builder
	n.writeIndent(&sb, 0, "")
	return sb.String()
}

func (n *Node) writeIndent(sb *strings.Builder, indent int, role string) {
	sb.WriteString(strings.Repeat("  ", indent))
	if role != "" {
		sb.WriteString(role)
		sb.WriteString(": ")
	}
	sb.WriteString(n.Kind.String())
	if n.Value != "" {
		sb.WriteString(" ")
		sb.WriteString(n.Value)
	}
	sb.WriteString("\n")
	for _, e := range n.Edges {
		if e.Node == nil {
			sb.WriteString(strings.Repeat("  ", indent+1))
			sb.WriteString(e.Role)
			sb.WriteString(": <hole>\n")
			continue
		}
		e.Node.writeIndent(sb, indent+1, e.Role)
	}
}

// Walk calls fn for n and every descendant, depth first, stopping the
// descent below a node when fn returns false.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, e := range n.Edges {
		Walk(e.Node, fn)
	}
}

// marker records where a node began. It is returned by startNode and
// consumed by finishNode.
type marker struct {
	start Position
}

func (p *Parser) startNode() marker {
	return marker{start: p.state.Start}
}

func (p *Parser) startNodeAt(pos Position) marker {
	return marker{start: pos}
}

func (p *Parser) startNodeAtNode(n *Node) marker {
	return marker{start: n.Span.Start}
}

// fields accumulates the edges of a node under construction.
type fields []Edge

func (f fields) add(role string, n *Node) fields {
	if n == nil {
		return f
	}
	return append(f, Edge{Role: role, Node: n})
}

// addHole keeps nil entries, for array holes.
func (f fields) addHole(role string, n *Node) fields {
	return append(f, Edge{Role: role, Node: n})
}

func (f fields) addAll(role string, ns []*Node) fields {
	for _, n := range ns {
		f = f.add(role, n)
	}
	return f
}

// finishNode seals a node spanning from m to the end of the previous
// token and runs comment attachment for it.
func (p *Parser) finishNode(m marker, kind NodeKind, value string, flags NodeFlags, f fields) *Node {
	return p.finishNodeAt(m, p.state.LastTokEnd, kind, value, flags, f)
}

func (p *Parser) finishNodeAt(m marker, end Position, kind NodeKind, value string, flags NodeFlags, f fields) *Node {
	if end.Index < m.start.Index {
		end = m.start
	}
	n := &Node{
		Kind:  kind,
		Span:  Span{Start: m.start, End: end},
		Value: value,
		Flags: flags,
		Edges: f,
	}
	p.processComment(n)
	return n
}

// rebuild returns a node of kind with the edges f in place of old, keeping
// its span, value and flags. Comments attached to old move with it.
func (p *Parser) rebuild(old *Node, kind NodeKind, f fields) *Node {
	n := &Node{Kind: kind, Span: old.Span, Value: old.Value, Flags: old.Flags, Edges: f}
	s := p.state
	if nc, ok := s.Attachments.get(old); ok {
		s.Attachments.delete(old)
		if nc != nil {
			s.Attachments.set(n, nc.clone())
		}
	}
	s.CommentStack.replace(old, n)
	if s.CommentPreviousNode == old {
		s.CommentPreviousNode = n
	}
	return n
}

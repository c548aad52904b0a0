package parser

// LabelKind tells what a label may be the target of.
type LabelKind uint8

const (
	LabelPlain LabelKind = iota
	LabelLoop
	LabelSwitch
)

type Label struct {
	Name           string
	Kind           LabelKind
	StatementStart int
}

// State is all mutable parse state. A speculative attempt runs against a
// clone and either discards it or installs it with setState, so every field
// that a production or the tokenizer writes must live here and must be
// handled by Clone.
type State struct {
	// Cursor.
	Index     int
	Line      int
	LineStart int

	// Current token.
	Kind        TokenKind
	Value       string
	Start       Position
	End         Position
	ContainsEsc bool

	// Previous token.
	LastKind     TokenKind
	LastTokStart Position
	LastTokEnd   Position

	// Tokenizer context.
	Context     []ContextKind
	ExprAllowed bool

	Scopes Scopes

	// Append-only stores. Copies share storage.
	Diagnostics       appendLog[Diagnostic]
	DiagnosticFilters appendLog[DiagnosticFilter]
	Tokens            appendLog[Token]

	// Comment store and attacher queues.
	Comments            appendLog[*Comment]
	LeadingComments     []*Comment
	TrailingComments    []*Comment
	CommentStack        nodeStack
	CommentPreviousNode *Node
	Attachments         overlay[*Node, *NodeComments]

	Labels              []Label
	ExportedIdentifiers overlay[string, Span]

	MaybeInArrowParameters bool
	NoAnonFunctionType     bool
	IsIterator             bool
	PotentialArrowAt       int
	IsLookahead            bool
	Aborted                bool
	Interpreter            string
}

func newState() *State {
	return &State{
		Line:             1,
		Kind:             TokenEOF,
		Start:            Position{Line: 1},
		End:              Position{Line: 1},
		LastTokStart:     Position{Line: 1},
		LastTokEnd:       Position{Line: 1},
		Context:          initialContext(),
		ExprAllowed:      true,
		PotentialArrowAt: -1,
	}
}

// Clone returns a copy of s. Every field is handled here.
//
// The append-only stores and the comment stack are persistent, so the copy
// shares them and an append through one never shows in the other. The
// attachment and export maps get a fresh layer over s's. The pending
// comment queues and labels are copied element-wise; they stay short.
//
// With skipArrays the queues, labels and map layers are shared as well;
// this is only valid for lookahead, which never writes them. The context
// stack and scopes are always copied.
func (s *State) Clone(skipArrays bool) *State {
	c := &State{
		Index:     s.Index,
		Line:      s.Line,
		LineStart: s.LineStart,

		Kind:        s.Kind,
		Value:       s.Value,
		Start:       s.Start,
		End:         s.End,
		ContainsEsc: s.ContainsEsc,

		LastKind:     s.LastKind,
		LastTokStart: s.LastTokStart,
		LastTokEnd:   s.LastTokEnd,

		Context:     append([]ContextKind(nil), s.Context...),
		ExprAllowed: s.ExprAllowed,

		Scopes: s.Scopes.clone(),

		Diagnostics:       s.Diagnostics,
		DiagnosticFilters: s.DiagnosticFilters,
		Tokens:            s.Tokens,

		Comments:            s.Comments,
		CommentStack:        s.CommentStack,
		CommentPreviousNode: s.CommentPreviousNode,

		MaybeInArrowParameters: s.MaybeInArrowParameters,
		NoAnonFunctionType:     s.NoAnonFunctionType,
		IsIterator:             s.IsIterator,
		PotentialArrowAt:       s.PotentialArrowAt,
		IsLookahead:            s.IsLookahead,
		Aborted:                s.Aborted,
		Interpreter:            s.Interpreter,
	}

	if skipArrays {
		c.LeadingComments = s.LeadingComments
		c.TrailingComments = s.TrailingComments
		c.Attachments = s.Attachments
		c.Labels = s.Labels
		c.ExportedIdentifiers = s.ExportedIdentifiers
		return c
	}

	c.LeadingComments = cloneSlice(s.LeadingComments)
	c.TrailingComments = cloneSlice(s.TrailingComments)
	c.Attachments = s.Attachments.fork()
	c.Labels = cloneSlice(s.Labels)
	c.ExportedIdentifiers = s.ExportedIdentifiers.fork()
	return c
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}

func (s *State) position() Position {
	return Position{Index: s.Index, Line: s.Line, Column: s.Index - s.LineStart}
}

// setState installs next as the live state. When the nearest diagnostics
// budget is numeric, the diagnostics next adds are charged to it, and an
// over-budget state aborts the current attempt instead of being installed.
// next must have been cloned from the live state, which is dropped.
func (p *Parser) setState(next *State) {
	added := next.Diagnostics.Len() - p.state.Diagnostics.Len()
	if b := p.lastBudget(); b != nil && !b.reset && added > 0 {
		if added > b.remaining {
			p.abort()
			return
		}
	}
	next.Attachments.settle(p.state.Attachments)
	next.ExportedIdentifiers.settle(p.state.ExportedIdentifiers)
	p.state = next
	if b := p.lastBudget(); b != nil && !b.reset && added > 0 {
		b.remaining -= added
	}
}

// lookahead returns the state after the next token without disturbing the
// live state. The lookahead records no diagnostics, tokens or comments.
func (p *Parser) lookahead() *State {
	old := p.state
	p.state = old.Clone(true)
	p.state.IsLookahead = true
	p.next()
	ahead := p.state
	p.state = old
	return ahead
}

func (p *Parser) lookaheadKind() TokenKind {
	return p.lookahead().Kind
}

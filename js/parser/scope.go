package parser

import "fmt"

// ScopeKind names a boolean parser scope. Productions push a scope while
// parsing a construct and query it instead of threading parameters.
type ScopeKind uint8

const (
	ScopeStrict ScopeKind = iota
	ScopeAsync
	ScopeGenerator
	ScopeFunction
	ScopeType
	ScopePropertyName
	ScopeNoIn
	ScopeParameters

	scopeKindCount
)

var scopeNames = [scopeKindCount]string{
	ScopeStrict:       "STRICT",
	ScopeAsync:        "ASYNC",
	ScopeGenerator:    "GENERATOR",
	ScopeFunction:     "FUNCTION",
	ScopeType:         "TYPE",
	ScopePropertyName: "PROPERTY_NAME",
	ScopeNoIn:         "NO_IN",
	ScopeParameters:   "PARAMETERS",
}

func (k ScopeKind) String() string {
	if k < scopeKindCount {
		return scopeNames[k]
	}
	return fmt.Sprintf("ScopeKind(%d)", k)
}

// ClassKind is carried by the class scope.
type ClassKind uint8

const (
	ClassNormal ClassKind = iota + 1
	ClassDerived
)

// diagnosticBudget is an entry of the MAX_NEW_DIAGNOSTICS stack. A reset
// entry shields enclosing budgets from a nested speculative run; its
// diagnostics are charged to the outer budget only when committed.
type diagnosticBudget struct {
	remaining int
	reset     bool
}

// Scopes holds one typed stack per scope kind. It lives inside State so
// clone and restore cover it.
type Scopes struct {
	flags   [scopeKindCount][]bool
	classes []ClassKind
	budgets []diagnosticBudget
}

func (s Scopes) clone() Scopes {
	var out Scopes
	for i, stack := range s.flags {
		if stack != nil {
			out.flags[i] = append([]bool(nil), stack...)
		}
	}
	if s.classes != nil {
		out.classes = append([]ClassKind(nil), s.classes...)
	}
	if s.budgets != nil {
		out.budgets = append([]diagnosticBudget(nil), s.budgets...)
	}
	return out
}

func (p *Parser) pushScope(kind ScopeKind, value bool) {
	st := &p.state.Scopes
	st.flags[kind] = append(st.flags[kind], value)
}

func (p *Parser) popScope(kind ScopeKind) {
	st := &p.state.Scopes
	stack := st.flags[kind]
	if len(stack) == 0 {
		panic(fmt.Sprintf("jsparse: pop of empty %s scope", kind))
	}
	st.flags[kind] = stack[:len(stack)-1]
}

// lastScope returns the top value of the scope and whether the stack is
// non-empty.
func (p *Parser) lastScope(kind ScopeKind) (bool, bool) {
	stack := p.state.Scopes.flags[kind]
	if len(stack) == 0 {
		return false, false
	}
	return stack[len(stack)-1], true
}

func (p *Parser) inScope(kind ScopeKind) bool {
	v, ok := p.lastScope(kind)
	return ok && v
}

func (p *Parser) pushClassScope(kind ClassKind) {
	st := &p.state.Scopes
	st.classes = append(st.classes, kind)
}

func (p *Parser) popClassScope() {
	st := &p.state.Scopes
	if len(st.classes) == 0 {
		panic("jsparse: pop of empty CLASS scope")
	}
	st.classes = st.classes[:len(st.classes)-1]
}

func (p *Parser) lastClassScope() (ClassKind, bool) {
	stack := p.state.Scopes.classes
	if len(stack) == 0 {
		return 0, false
	}
	return stack[len(stack)-1], true
}

func (p *Parser) pushBudget(b diagnosticBudget) {
	st := &p.state.Scopes
	st.budgets = append(st.budgets, b)
}

func (p *Parser) popBudget() {
	st := &p.state.Scopes
	if len(st.budgets) == 0 {
		panic("jsparse: pop of empty MAX_NEW_DIAGNOSTICS scope")
	}
	st.budgets = st.budgets[:len(st.budgets)-1]
}

// lastBudget returns the nearest budget, or nil when none is installed.
func (p *Parser) lastBudget() *diagnosticBudget {
	stack := p.state.Scopes.budgets
	if len(stack) == 0 {
		return nil
	}
	return &stack[len(stack)-1]
}

// withScope runs fn with kind pushed to value.
func withScope[T any](p *Parser, kind ScopeKind, value bool, fn func() T) T {
	p.pushScope(kind, value)
	result := fn()
	p.popScope(kind)
	return result
}

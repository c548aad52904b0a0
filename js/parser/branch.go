package parser

type OutcomeStatus uint8

const (
	OutcomeCompleted OutcomeStatus = iota
	OutcomeDeclined
	OutcomeAborted
)

func (s OutcomeStatus) String() string {
	switch s {
	case OutcomeCompleted:
		return "completed"
	case OutcomeDeclined:
		return "declined"
	}
	return "aborted"
}

// Outcome is the result of one speculative run. State is set only for a
// completed run and is not installed; the caller decides.
type Outcome[T any] struct {
	Status OutcomeStatus
	Value  T
	State  *State
}

// speculate runs fn against a clone of the live state with budget
// installed. The live state is untouched whatever fn does.
func speculate[T any](p *Parser, budget diagnosticBudget, fn func() (T, bool)) Outcome[T] {
	start := p.state
	p.state = start.Clone(false)
	p.pushBudget(budget)

	value, ok := fn()

	end := p.state
	p.state = start
	switch {
	case end.Aborted:
		return Outcome[T]{Status: OutcomeAborted}
	case !ok:
		return Outcome[T]{Status: OutcomeDeclined}
	}
	end.Scopes.budgets = end.Scopes.budgets[:len(end.Scopes.budgets)-1]
	return Outcome[T]{Status: OutcomeCompleted, Value: value, State: end}
}

// Branch is a completed candidate parse.
type Branch[T any] struct {
	Result             T
	State              *State
	DiagnosticCount    int
	NewDiagnosticCount int
	Optimal            bool
	Priority           int
	HasPriority        bool
}

type branchOptions struct {
	maxNew      int
	hasMaxNew   bool
	priority    int
	hasPriority bool
}

type BranchOption func(*branchOptions)

// WithMaxNewDiagnostics aborts the candidate once it records more than n
// diagnostics.
func WithMaxNewDiagnostics(n int) BranchOption {
	return func(o *branchOptions) {
		o.maxNew = n
		o.hasMaxNew = true
	}
}

// WithDiagnosticsPriority ranks the candidate above candidates without a
// priority, whatever their diagnostic counts, unless they are optimal.
func WithDiagnosticsPriority(n int) BranchOption {
	return func(o *branchOptions) {
		o.priority = n
		o.hasPriority = true
	}
}

// BranchFinder runs competing parses of the same input position and commits
// exactly one. Candidates run in the order they are added; once an optimal
// branch is recorded later candidates are skipped.
type BranchFinder[T any] struct {
	p      *Parser
	leader *Branch[T]
	picked bool
}

func NewBranchFinder[T any](p *Parser) *BranchFinder[T] {
	return &BranchFinder[T]{p: p}
}

// Add runs candidate. A candidate declines by returning false; an aborted
// or declined candidate is dropped.
func (b *BranchFinder[T]) Add(candidate func(*Parser) (T, bool), opts ...BranchOption) *BranchFinder[T] {
	if b.picked {
		panic("jsparse: BranchFinder.Add after Pick")
	}
	if b.leader != nil && b.leader.Optimal {
		return b
	}

	var o branchOptions
	for _, opt := range opts {
		opt(&o)
	}
	budget := diagnosticBudget{reset: true}
	if o.hasMaxNew {
		budget = diagnosticBudget{remaining: o.maxNew}
	}

	p := b.p
	before := p.state.Diagnostics.Len()
	out := speculate(p, budget, func() (T, bool) { return candidate(p) })
	if out.Status != OutcomeCompleted {
		log.Debugf("branch at %s %s", p.state.Start, out.Status)
		return b
	}

	count := out.State.Diagnostics.Len()
	br := &Branch[T]{
		Result:             out.Value,
		State:              out.State,
		DiagnosticCount:    count,
		NewDiagnosticCount: count - before,
		Optimal:            count == before,
		Priority:           o.priority,
		HasPriority:        o.hasPriority,
	}
	if b.shouldPromote(br) {
		b.leader = br
	}
	return b
}

func (b *BranchFinder[T]) shouldPromote(br *Branch[T]) bool {
	l := b.leader
	switch {
	case l == nil:
		return true
	case l.Optimal:
		return false
	case br.Optimal:
		return true
	case !br.HasPriority:
		return !l.HasPriority && br.DiagnosticCount < l.DiagnosticCount
	case !l.HasPriority:
		return true
	}
	return br.Priority > l.Priority
}

func (b *BranchFinder[T]) HasBranch() bool {
	return b.leader != nil
}

func (b *BranchFinder[T]) HasOptimalBranch() bool {
	return b.leader != nil && b.leader.Optimal
}

// Leader returns the branch Pick would commit, or nil.
func (b *BranchFinder[T]) Leader() *Branch[T] {
	return b.leader
}

// Pick commits the leading branch and returns its result. It panics when
// there is no branch or when called twice.
func (b *BranchFinder[T]) Pick() T {
	if b.leader == nil && !b.picked {
		panic("jsparse: BranchFinder.Pick with no branch")
	}
	result, _ := b.PickOptional()
	return result
}

// PickOptional is Pick for callers with a fallback.
func (b *BranchFinder[T]) PickOptional() (T, bool) {
	if b.picked {
		panic("jsparse: BranchFinder picked twice")
	}
	b.picked = true
	if b.leader == nil {
		var zero T
		return zero, false
	}
	log.Debugf("branch committed at %s with %d new diagnostics", b.leader.State.Start, b.leader.NewDiagnosticCount)
	b.p.setState(b.leader.State)
	return b.leader.Result, true
}

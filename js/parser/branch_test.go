package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestParser returns a parser positioned at the first token of src.
func newTestParser(src string, opts ...Option) *Parser {
	p := ParseProgram(nil, opts...)
	p.input = src
	p.state = newState()
	p.nextToken()
	return p
}

// raising is a candidate that records n diagnostics, consumes one token
// and completes with tag.
func raising(tag string, n int) func(*Parser) (string, bool) {
	return func(p *Parser) (string, bool) {
		for i := 0; i < n; i++ {
			p.unexpected(tag)
		}
		p.next()
		return tag, true
	}
}

func declining(p *Parser) (string, bool) {
	p.next()
	p.unexpected("declined")
	return "", false
}

var stateOpts = cmp.Options{
	cmp.AllowUnexported(Scopes{}, diagnosticBudget{}),
	cmp.Transformer("diagnostics", appendLog[Diagnostic].Items),
	cmp.Transformer("filters", appendLog[DiagnosticFilter].Items),
	cmp.Transformer("tokens", appendLog[Token].Items),
	cmp.Transformer("comments", appendLog[*Comment].Items),
	cmp.Transformer("stack", nodeStack.nodes),
	cmp.Transformer("attachments", overlay[*Node, *NodeComments].flatten),
	cmp.Transformer("exports", overlay[string, Span].flatten),
}

type candidateCase struct {
	tag      string
	diags    int
	priority int
}

func TestBranchFinderPromotion(t *testing.T) {
	tests := []struct {
		name       string
		candidates []candidateCase
		want       string
	}{
		{
			name:       "zero diagnostics wins",
			candidates: []candidateCase{{"clean", 0, -1}, {"noisy", 2, -1}},
			want:       "clean",
		},
		{
			name:       "later optimal branch replaces leader",
			candidates: []candidateCase{{"noisy", 2, -1}, {"clean", 0, -1}},
			want:       "clean",
		},
		{
			name:       "priority beats fewer diagnostics",
			candidates: []candidateCase{{"plain", 1, -1}, {"prioritized", 3, 5}},
			want:       "prioritized",
		},
		{
			name:       "optimal beats priority",
			candidates: []candidateCase{{"prioritized", 1, 5}, {"clean", 0, -1}},
			want:       "clean",
		},
		{
			name:       "fewer diagnostics wins without priorities",
			candidates: []candidateCase{{"two", 2, -1}, {"one", 1, -1}},
			want:       "one",
		},
		{
			name:       "equal counts keep the first",
			candidates: []candidateCase{{"first", 1, -1}, {"second", 1, -1}},
			want:       "first",
		},
		{
			name:       "unprioritized never displaces prioritized",
			candidates: []candidateCase{{"prioritized", 3, 1}, {"plain", 1, -1}},
			want:       "prioritized",
		},
		{
			name:       "higher priority wins",
			candidates: []candidateCase{{"low", 1, 1}, {"high", 2, 2}},
			want:       "high",
		},
		{
			name:       "lower priority loses",
			candidates: []candidateCase{{"high", 2, 2}, {"low", 1, 1}},
			want:       "high",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestParser("a b c")
			bf := NewBranchFinder[string](p)
			for _, c := range tt.candidates {
				var opts []BranchOption
				if c.priority >= 0 {
					opts = append(opts, WithDiagnosticsPriority(c.priority))
				}
				bf.Add(raising(c.tag, c.diags), opts...)
			}
			require.True(t, bf.HasBranch())
			assert.Equal(t, tt.want, bf.Pick())
		})
	}
}

func TestBranchFinderSkipsAfterOptimal(t *testing.T) {
	p := newTestParser("a b c")
	ran := false
	bf := NewBranchFinder[string](p)
	bf.Add(raising("clean", 0))
	bf.Add(func(p *Parser) (string, bool) {
		ran = true
		return "late", true
	})
	assert.False(t, ran)
	assert.True(t, bf.HasOptimalBranch())
	assert.Equal(t, "clean", bf.Pick())
}

func TestBranchFinderCommitsState(t *testing.T) {
	p := newTestParser("a b c")
	bf := NewBranchFinder[string](p)
	bf.Add(raising("one", 1))
	assert.Equal(t, "a", p.state.Value, "live state moved before Pick")
	assert.Zero(t, p.state.Diagnostics.Len())

	bf.Pick()
	assert.Equal(t, "b", p.state.Value)
	assert.Equal(t, 1, p.state.Diagnostics.Len())
	assert.Empty(t, p.state.Scopes.budgets)
}

func TestBranchFinderDecline(t *testing.T) {
	p := newTestParser("a b c")
	before := p.state.Clone(false)

	bf := NewBranchFinder[string](p)
	bf.Add(declining)
	assert.False(t, bf.HasBranch())
	assert.Nil(t, bf.Leader())

	result, ok := bf.PickOptional()
	assert.False(t, ok)
	assert.Empty(t, result)
	if diff := cmp.Diff(before, p.state, stateOpts); diff != "" {
		t.Errorf("declined branch changed the state (-want +got):\n%s", diff)
	}
}

func TestBranchFinderPickPanics(t *testing.T) {
	p := newTestParser("a")
	assert.Panics(t, func() {
		NewBranchFinder[string](p).Pick()
	}, "pick with no branch")

	bf := NewBranchFinder[string](p)
	bf.Add(raising("x", 0))
	bf.Pick()
	assert.Panics(t, func() { bf.Pick() }, "second pick")
	assert.Panics(t, func() { bf.Add(raising("y", 0)) }, "add after pick")
}

func TestMaxNewDiagnostics(t *testing.T) {
	tests := []struct {
		budget    int
		diags     int
		completes bool
	}{
		{budget: 0, diags: 0, completes: true},
		{budget: 0, diags: 1, completes: false},
		{budget: 1, diags: 1, completes: true},
		{budget: 1, diags: 2, completes: false},
		{budget: 3, diags: 3, completes: true},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			p := newTestParser("a b c")
			p.raise(Span{}, CategoryJS, "existing")
			before := p.state.Clone(false)

			bf := NewBranchFinder[string](p)
			bf.Add(raising("candidate", tt.diags), WithMaxNewDiagnostics(tt.budget))
			assert.Equal(t, tt.completes, bf.HasBranch())
			if diff := cmp.Diff(before, p.state, stateOpts); diff != "" {
				t.Errorf("speculation changed the state (-want +got):\n%s", diff)
			}
			if tt.completes {
				assert.Equal(t, tt.diags, bf.Leader().NewDiagnosticCount)
				assert.Equal(t, tt.diags+1, bf.Leader().DiagnosticCount)
			}
		})
	}
}

func TestAbortedAttemptYieldsEOF(t *testing.T) {
	p := newTestParser("a b c")
	var kinds []TokenKind
	bf := NewBranchFinder[string](p)
	bf.Add(func(p *Parser) (string, bool) {
		p.unexpected("over budget")
		for i := 0; i < 3; i++ {
			p.next()
			kinds = append(kinds, p.state.Kind)
		}
		return "aborted", true
	}, WithMaxNewDiagnostics(0))

	assert.False(t, bf.HasBranch())
	assert.Equal(t, []TokenKind{TokenEOF, TokenEOF, TokenEOF}, kinds)
	assert.Equal(t, "a", p.state.Value)
	assert.False(t, p.state.Aborted)
}

func TestSpeculateOutcome(t *testing.T) {
	p := newTestParser("a b")

	out := speculate(p, diagnosticBudget{reset: true}, func() (int, bool) {
		p.next()
		return 1, true
	})
	assert.Equal(t, OutcomeCompleted, out.Status)
	require.NotNil(t, out.State)
	assert.Equal(t, "b", out.State.Value)
	assert.Equal(t, "a", p.state.Value)

	out = speculate(p, diagnosticBudget{reset: true}, func() (int, bool) { return 0, false })
	assert.Equal(t, OutcomeDeclined, out.Status)
	assert.Nil(t, out.State)

	out = speculate(p, diagnosticBudget{}, func() (int, bool) {
		p.unexpected("")
		return 0, true
	})
	assert.Equal(t, OutcomeAborted, out.Status)
	assert.Equal(t, "aborted", out.Status.String())
}

// nested runs an inner unlimited branch that records n diagnostics and
// commits it into the enclosing attempt.
func nested(n int) func(*Parser) (string, bool) {
	return func(p *Parser) (string, bool) {
		inner := NewBranchFinder[string](p)
		inner.Add(raising("inner", n))
		return inner.Pick(), true
	}
}

func TestSetStateChargesEnclosingBudget(t *testing.T) {
	p := newTestParser("a b c")
	bf := NewBranchFinder[string](p)
	bf.Add(nested(2), WithMaxNewDiagnostics(1))
	assert.False(t, bf.HasBranch(), "committing two diagnostics into a budget of one must abort")

	bf = NewBranchFinder[string](p)
	bf.Add(nested(2), WithMaxNewDiagnostics(2))
	require.True(t, bf.HasBranch())
	assert.Equal(t, 2, bf.Leader().NewDiagnosticCount)
	assert.Equal(t, "inner", bf.Pick())
	assert.Equal(t, 2, p.state.Diagnostics.Len())
}

func TestSetStateWithoutBudget(t *testing.T) {
	p := newTestParser("a b c")
	next := p.state.Clone(false)
	next.Diagnostics.append(Diagnostic{Message: "x"})
	next.Diagnostics.append(Diagnostic{Message: "y"})
	p.setState(next)
	assert.Same(t, next, p.state)
	assert.False(t, p.state.Aborted)
}

package parser

type CommentKind uint8

const (
	CommentBlock CommentKind = iota
	CommentLine
)

func (k CommentKind) String() string {
	if k == CommentLine {
		return "CommentLine"
	}
	return "CommentBlock"
}

// Comment is a lexed comment. Value excludes the delimiters.
type Comment struct {
	Kind  CommentKind
	Value string
	Span  Span
}

func (c *Comment) start() int { return c.Span.Start.Index }
func (c *Comment) end() int   { return c.Span.End.Index }

// NodeComments are the comments attached to one node.
type NodeComments struct {
	Leading  []*Comment
	Trailing []*Comment
	Inner    []*Comment
}

func (nc *NodeComments) clone() *NodeComments {
	return &NodeComments{
		Leading:  cloneComments(nc.Leading),
		Trailing: cloneComments(nc.Trailing),
		Inner:    cloneComments(nc.Inner),
	}
}

func cloneComments(cs []*Comment) []*Comment {
	if cs == nil {
		return nil
	}
	return append([]*Comment(nil), cs...)
}

// addComment records a lexed comment in the comment store and queues it for
// attachment. Lookahead leaves no trace.
func (p *Parser) addComment(c *Comment) {
	s := p.state
	if s.IsLookahead || s.Aborted {
		return
	}
	s.Comments.append(c)
	s.TrailingComments = append(s.TrailingComments, c)
	s.LeadingComments = append(s.LeadingComments, c)
	p.addSuppression(c)
}

func (p *Parser) commentsOf(n *Node) *NodeComments {
	nc, _ := p.state.Attachments.get(n)
	return nc
}

// attached returns the comments of n for writing. An entry inherited from
// an enclosing attempt is copied first.
func (p *Parser) attached(n *Node) *NodeComments {
	a := &p.state.Attachments
	if nc, ok := a.local(n); ok && nc != nil {
		return nc
	}
	nc := &NodeComments{}
	if prev, _ := a.get(n); prev != nil {
		nc = prev.clone()
	}
	a.set(n, nc)
	return nc
}

func (p *Parser) leadingOf(n *Node) []*Comment {
	if nc := p.commentsOf(n); nc != nil {
		return nc.Leading
	}
	return nil
}

func (p *Parser) trailingOf(n *Node) []*Comment {
	if nc := p.commentsOf(n); nc != nil {
		return nc.Trailing
	}
	return nil
}

func (p *Parser) setLeading(n *Node, cs []*Comment) {
	if cs == nil && p.commentsOf(n) == nil {
		return
	}
	p.attached(n).Leading = cs
}

// trailingCommaContainers maps node kinds whose element list may end with a
// dangling comma to the role holding that list, and whether every pending
// comment is taken.
var trailingCommaContainers = map[NodeKind]struct {
	role    string
	takeAll bool
}{
	KindObjectExpression: {"properties", false},
	KindObjectPattern:    {"properties", true},
	KindCallExpression:   {"arguments", false},
	KindNewExpression:    {"arguments", false},
	KindArrayExpression:  {"elements", false},
	KindArrayPattern:     {"elements", true},
}

// processComment attaches pending comments to node, which has just been
// finished. Descendants of node are popped from the comment stack.
func (p *Parser) processComment(node *Node) {
	s := p.state
	if node.Kind == KindProgram && len(node.All("body")) > 0 {
		return
	}
	if s.IsLookahead {
		return
	}

	var firstChild, lastChild *Node
	var trailing []*Comment
	haveTrailing := false

	if len(s.TrailingComments) > 0 {
		if s.TrailingComments[0].start() >= node.Span.End.Index {
			trailing = s.TrailingComments
			haveTrailing = true
			s.TrailingComments = nil
		} else {
			// A mix of leading and trailing comments; leadingComments holds
			// the same items and is split below.
			s.TrailingComments = nil
		}
	} else if lastInStack := s.CommentStack.peek(); lastInStack != nil {
		if t := p.trailingOf(lastInStack); len(t) > 0 && t[0].start() >= node.Span.End.Index {
			trailing = t
			haveTrailing = true
			p.attached(lastInStack).Trailing = nil
		}
	}

	if top := s.CommentStack.peek(); top != nil && top.Span.Start.Index >= node.Span.Start.Index {
		firstChild = s.CommentStack.pop()
	}
	for top := s.CommentStack.peek(); top != nil && top.Span.Start.Index >= node.Span.Start.Index; top = s.CommentStack.peek() {
		lastChild = s.CommentStack.pop()
	}
	if lastChild == nil && firstChild != nil {
		lastChild = firstChild
	}

	if firstChild != nil {
		if c, ok := trailingCommaContainers[node.Kind]; ok {
			p.adjustCommentsAfterTrailingComma(node, node.All(c.role), c.takeAll)
		}
	} else if prev := s.CommentPreviousNode; prev != nil &&
		((prev.Kind == KindImportSpecifier && node.Kind != KindImportSpecifier) ||
			(prev.Kind == KindExportSpecifier && node.Kind != KindExportSpecifier)) {
		p.adjustCommentsAfterTrailingComma(node, []*Node{prev}, false)
	}

	if lastChild != nil {
		if lead := p.leadingOf(lastChild); lead != nil {
			if lastChild != node && len(lead) > 0 && lead[len(lead)-1].end() <= node.Span.Start.Index {
				p.setLeading(node, lead)
				p.attached(lastChild).Leading = nil
			} else {
				// A comment before an anonymous container may have been
				// taken by its first member; take it back.
				for i := len(lead) - 2; i >= 0; i-- {
					if lead[i].end() <= node.Span.Start.Index {
						p.setLeading(node, cloneComments(lead[:i+1]))
						p.attached(lastChild).Leading = cloneComments(lead[i+1:])
						break
					}
				}
			}
		}
	} else if len(s.LeadingComments) > 0 {
		if s.LeadingComments[len(s.LeadingComments)-1].end() <= node.Span.Start.Index {
			if prev := s.CommentPreviousNode; prev != nil {
				kept := s.LeadingComments[:0:0]
				for _, c := range s.LeadingComments {
					if c.end() >= prev.Span.End.Index {
						kept = append(kept, c)
					}
				}
				s.LeadingComments = kept
			}
			if len(s.LeadingComments) > 0 {
				p.setLeading(node, s.LeadingComments)
				s.LeadingComments = nil
			}
		} else {
			// The pending comments straddle the node, as for a bare
			// `return` or `debugger`: split at the first comment that ends
			// after the node starts.
			i := 0
			for ; i < len(s.LeadingComments); i++ {
				if s.LeadingComments[i].end() > node.Span.Start.Index {
					break
				}
			}
			if i > 0 {
				p.setLeading(node, cloneComments(s.LeadingComments[:i]))
			}
			trailing = cloneComments(s.LeadingComments[i:])
			haveTrailing = len(trailing) > 0
		}
	}

	s.CommentPreviousNode = node

	if haveTrailing && len(trailing) > 0 {
		first, last := trailing[0], trailing[len(trailing)-1]
		if first.start() >= node.Span.Start.Index && last.end() <= node.Span.End.Index {
			p.attached(node).Inner = trailing
		} else {
			idx := -1
			for i, c := range trailing {
				if c.end() >= node.Span.End.Index {
					idx = i
					break
				}
			}
			if idx > 0 {
				nc := p.attached(node)
				nc.Inner = cloneComments(trailing[:idx])
				nc.Trailing = cloneComments(trailing[idx:])
			} else {
				p.attached(node).Trailing = trailing
			}
		}
	}

	s.CommentStack.push(node)
}

// adjustCommentsAfterTrailingComma moves comments that follow a dangling
// comma onto the last real element of a list.
func (p *Parser) adjustCommentsAfterTrailingComma(node *Node, elements []*Node, takeAll bool) {
	s := p.state
	if len(s.LeadingComments) == 0 {
		return
	}

	var lastElement *Node
	for i := len(elements) - 1; i >= 0 && lastElement == nil; i-- {
		lastElement = elements[i]
	}
	if lastElement == nil {
		return
	}

	if prev := s.CommentPreviousNode; prev != nil {
		kept := s.LeadingComments[:0:0]
		for _, c := range s.LeadingComments {
			if c.end() >= prev.Span.End.Index {
				kept = append(kept, c)
			}
		}
		s.LeadingComments = kept
	}

	var moved []*Comment
	var remaining []*Comment
	for _, c := range s.LeadingComments {
		if c.end() < node.Span.End.Index {
			moved = append(moved, c)
		} else {
			nc := p.attached(node)
			nc.Trailing = append(nc.Trailing, c)
			remaining = append(remaining, c)
		}
	}
	if takeAll {
		s.LeadingComments = nil
	} else {
		s.LeadingComments = remaining
	}

	if len(moved) > 0 {
		p.attached(lastElement).Trailing = moved
	} else if p.trailingOf(lastElement) != nil {
		p.attached(lastElement).Trailing = []*Comment{}
	}
}

// applyComments copies the committed attachments onto the nodes.
func (p *Parser) applyComments() {
	for n, nc := range p.state.Attachments.flatten() {
		if nc == nil {
			continue
		}
		n.LeadingComments = nc.Leading
		n.TrailingComments = nc.Trailing
		n.InnerComments = nc.Inner
	}
}

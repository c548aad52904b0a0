package parser

import "encoding/json"

type jsonNode struct {
	Kind     string        `json:"kind"`
	Role     string        `json:"role,omitempty"`
	Span     *jsonSpan     `json:"span,omitempty"`
	Value    string        `json:"value,omitempty"`
	Flags    []string      `json:"flags,omitempty"`
	Comments *jsonComments `json:"comments,omitempty"`
	Children []*jsonNode   `json:"children,omitempty"`
}

type jsonSpan struct {
	Start jsonPosition `json:"start"`
	End   jsonPosition `json:"end"`
}

type jsonPosition struct {
	Index  int `json:"index"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

type jsonComments struct {
	Leading  []string `json:"leading,omitempty"`
	Trailing []string `json:"trailing,omitempty"`
	Inner    []string `json:"inner,omitempty"`
}

func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.toJSON(""))
}

func (n *Node) toJSON(role string) *jsonNode {
	jn := &jsonNode{
		Kind:  n.Kind.String(),
		Role:  role,
		Value: n.Value,
		Flags: n.Flags.Names(),
	}

	if n.Span.Start.Line != 0 || n.Span.End.Line != 0 {
		jn.Span = &jsonSpan{
			Start: jsonPosition{Index: n.Span.Start.Index, Line: n.Span.Start.Line, Column: n.Span.Start.Column},
			End:   jsonPosition{Index: n.Span.End.Index, Line: n.Span.End.Line, Column: n.Span.End.Column},
		}
	}

	if len(n.LeadingComments)+len(n.TrailingComments)+len(n.InnerComments) > 0 {
		jn.Comments = &jsonComments{
			Leading:  commentValues(n.LeadingComments),
			Trailing: commentValues(n.TrailingComments),
			Inner:    commentValues(n.InnerComments),
		}
	}

	for _, e := range n.Edges {
		if e.Node == nil {
			jn.Children = append(jn.Children, &jsonNode{Kind: "Hole", Role: e.Role})
			continue
		}
		jn.Children = append(jn.Children, e.Node.toJSON(e.Role))
	}

	return jn
}

func commentValues(cs []*Comment) []string {
	if len(cs) == 0 {
		return nil
	}
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Value
	}
	return out
}

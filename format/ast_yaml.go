package format

import (
	"bytes"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/jsparse/js/parser"
)

// ASTYAMLEncoder writes the program as a YAML document. Children are keyed
// by role; a role holding several children becomes a sequence.
type ASTYAMLEncoder struct {
	w io.Writer
}

func NewASTYAMLEncoder(w io.Writer) *ASTYAMLEncoder {
	return &ASTYAMLEncoder{w: w}
}

func (e *ASTYAMLEncoder) Encode(prog *parser.Program) error {
	return encode(e.w, e, prog)
}

func (e *ASTYAMLEncoder) MarshalText(prog *parser.Program) ([]byte, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	if prog.File != "" {
		addScalar(doc, "file", prog.File)
	}
	addScalar(doc, "sourceType", prog.SourceType.String())
	if s := prog.Syntax.String(); s != "" {
		addScalar(doc, "syntax", s)
	}
	addPair(doc, "corrupt", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(prog.Corrupt)})
	if len(prog.Diagnostics) > 0 {
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, d := range prog.Diagnostics {
			seq.Content = append(seq.Content, scalar(d.String()))
		}
		addPair(doc, "diagnostics", seq)
	}
	addPair(doc, "ast", nodeToYAML(prog.Root))

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func nodeToYAML(n *parser.Node) *yaml.Node {
	if n == nil {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
	m := &yaml.Node{Kind: yaml.MappingNode}
	addScalar(m, "kind", n.Kind.String())
	if n.Value != "" {
		addScalar(m, "value", n.Value)
	}
	addScalar(m, "span", n.Span.Start.String()+"-"+n.Span.End.String())
	if names := n.Flags.Names(); len(names) > 0 {
		addPair(m, "flags", flowSequence(names))
	}
	addComments(m, "leadingComments", n.LeadingComments)
	addComments(m, "trailingComments", n.TrailingComments)
	addComments(m, "innerComments", n.InnerComments)

	var roles []string
	byRole := map[string][]*parser.Node{}
	for _, e := range n.Edges {
		if _, seen := byRole[e.Role]; !seen {
			roles = append(roles, e.Role)
		}
		byRole[e.Role] = append(byRole[e.Role], e.Node)
	}
	for _, role := range roles {
		children := byRole[role]
		if len(children) == 1 {
			addPair(m, role, nodeToYAML(children[0]))
			continue
		}
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, c := range children {
			seq.Content = append(seq.Content, nodeToYAML(c))
		}
		addPair(m, role, seq)
	}
	return m
}

func addComments(m *yaml.Node, key string, cs []*parser.Comment) {
	if len(cs) == 0 {
		return
	}
	values := make([]string, len(cs))
	for i, c := range cs {
		values[i] = c.Value
	}
	addPair(m, key, flowSequence(values))
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func flowSequence(values []string) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range values {
		seq.Content = append(seq.Content, scalar(v))
	}
	return seq
}

func addScalar(m *yaml.Node, key, value string) {
	addPair(m, key, scalar(value))
}

func addPair(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, scalar(key), value)
}

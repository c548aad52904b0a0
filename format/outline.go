package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/jsparse/js/parser"
)

// OutlineEncoder prints one line per directive and top-level statement:
// start position, kind and value.
type OutlineEncoder struct {
	w io.Writer
}

func NewOutlineEncoder(w io.Writer) *OutlineEncoder {
	return &OutlineEncoder{w: w}
}

func (e *OutlineEncoder) Encode(prog *parser.Program) error {
	return encode(e.w, e, prog)
}

func (e *OutlineEncoder) MarshalText(prog *parser.Program) ([]byte, error) {
	var sb strings.Builder
	root := prog.Root
	if expr := root.Get("expression"); expr != nil {
		writeOutlineLine(&sb, expr)
		return []byte(sb.String()), nil
	}
	for _, n := range prog.Directives() {
		writeOutlineLine(&sb, n)
	}
	for _, n := range prog.Body() {
		writeOutlineLine(&sb, n)
	}
	return []byte(sb.String()), nil
}

func writeOutlineLine(sb *strings.Builder, n *parser.Node) {
	fmt.Fprintf(sb, "%s %s", n.Span.Start, n.Kind)
	if n.Value != "" {
		sb.WriteString(" ")
		sb.WriteString(n.Value)
	}
	sb.WriteString("\n")
}

// TreeEncoder prints the indented node tree of parser.Node.String.
type TreeEncoder struct {
	w io.Writer
}

func NewTreeEncoder(w io.Writer) *TreeEncoder {
	return &TreeEncoder{w: w}
}

func (e *TreeEncoder) Encode(prog *parser.Program) error {
	return encode(e.w, e, prog)
}

func (e *TreeEncoder) MarshalText(prog *parser.Program) ([]byte, error) {
	return []byte(prog.Root.String()), nil
}

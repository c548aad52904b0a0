package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/jsparse/js/parser"
)

// TokenEncoder lists the token stream one token per line:
//
//	1:0-1:5	name	"const"
//
// The program must have been parsed with parser.WithTokens.
type TokenEncoder struct {
	w io.Writer
}

func NewTokenEncoder(w io.Writer) *TokenEncoder {
	return &TokenEncoder{w: w}
}

func (e *TokenEncoder) Encode(prog *parser.Program) error {
	return encode(e.w, e, prog)
}

func (e *TokenEncoder) MarshalText(prog *parser.Program) ([]byte, error) {
	var sb strings.Builder
	for _, tok := range prog.Tokens {
		fmt.Fprintf(&sb, "%s-%s\t%s", tok.Span.Start, tok.Span.End, tok.Kind)
		if tok.Value != "" && tok.Value != tok.Kind.String() {
			sb.WriteString("\t")
			sb.WriteString(strconv.Quote(tok.Value))
		}
		sb.WriteString("\n")
	}
	return []byte(sb.String()), nil
}

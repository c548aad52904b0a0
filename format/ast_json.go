package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/jsparse/js/parser"
)

type ASTJSONEncoder struct {
	w io.Writer
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(prog *parser.Program) error {
	return encode(e.w, e, prog)
}

func (e *ASTJSONEncoder) MarshalText(prog *parser.Program) ([]byte, error) {
	text, err := json.MarshalIndent(programToJSON(prog), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(text, '\n'), nil
}

type programJSON struct {
	File        string           `json:"file,omitempty"`
	SourceType  string           `json:"sourceType"`
	Syntax      string           `json:"syntax,omitempty"`
	Interpreter string           `json:"interpreter,omitempty"`
	Corrupt     bool             `json:"corrupt"`
	Diagnostics []diagnosticJSON `json:"diagnostics,omitempty"`
	AST         *parser.Node     `json:"ast"`
}

type diagnosticJSON struct {
	Message  string   `json:"message"`
	Category string   `json:"category"`
	Start    string   `json:"start"`
	End      string   `json:"end"`
	Advice   []string `json:"advice,omitempty"`
}

func programToJSON(prog *parser.Program) *programJSON {
	pj := &programJSON{
		File:        prog.File,
		SourceType:  prog.SourceType.String(),
		Syntax:      prog.Syntax.String(),
		Interpreter: prog.Interpreter,
		Corrupt:     prog.Corrupt,
		AST:         prog.Root,
	}
	for _, d := range prog.Diagnostics {
		pj.Diagnostics = append(pj.Diagnostics, diagnosticJSON{
			Message:  d.Message,
			Category: string(d.Category),
			Start:    d.Span.Start.String(),
			End:      d.Span.End.String(),
			Advice:   d.Advice,
		})
	}
	return pj
}

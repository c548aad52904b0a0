package format

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/dhamidi/jsparse/js/parser"
)

// Encoder writes a parse result in one output format.
type Encoder interface {
	Encode(prog *parser.Program) error
	MarshalText(prog *parser.Program) ([]byte, error)
}

var encoders = map[string]func(w io.Writer, src string) Encoder{
	"json":        func(w io.Writer, _ string) Encoder { return NewASTJSONEncoder(w) },
	"yaml":        func(w io.Writer, _ string) Encoder { return NewASTYAMLEncoder(w) },
	"tree":        func(w io.Writer, _ string) Encoder { return NewTreeEncoder(w) },
	"outline":     func(w io.Writer, _ string) Encoder { return NewOutlineEncoder(w) },
	"tokens":      func(w io.Writer, _ string) Encoder { return NewTokenEncoder(w) },
	"diagnostics": func(w io.Writer, src string) Encoder { return NewDiagnosticEncoder(w, src) },
}

// Names lists the registered format names in sorted order.
func Names() []string {
	names := make([]string, 0, len(encoders))
	for name := range encoders {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// New returns the encoder registered as name. src is the text that was
// parsed; only the diagnostics format reads it.
func New(name string, w io.Writer, src string) (Encoder, error) {
	mk, ok := encoders[name]
	if !ok {
		return nil, fmt.Errorf("unknown format %q (want one of %s)", name, strings.Join(Names(), ", "))
	}
	return mk(w, src), nil
}

func encode(w io.Writer, e Encoder, prog *parser.Program) error {
	text, err := e.MarshalText(prog)
	if err != nil {
		return err
	}
	_, err = w.Write(text)
	return err
}

package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/dhamidi/jsparse/js/parser"
)

// TabstopWidth is the tab width used when drawing code frames.
const TabstopWidth = 4

// DiagnosticEncoder renders diagnostics, by default with a code frame
// pointing at the offending span:
//
//	app.js:1:4: unexpected token ';' [parse/js]
//	 1 | a = ;
//	   |     ^
type DiagnosticEncoder struct {
	w       io.Writer
	src     string
	compact bool
}

func NewDiagnosticEncoder(w io.Writer, src string) *DiagnosticEncoder {
	return &DiagnosticEncoder{w: w, src: src}
}

// Compact switches to one line per diagnostic, without frames.
func (e *DiagnosticEncoder) Compact() *DiagnosticEncoder {
	e.compact = true
	return e
}

func (e *DiagnosticEncoder) Encode(prog *parser.Program) error {
	return encode(e.w, e, prog)
}

func (e *DiagnosticEncoder) MarshalText(prog *parser.Program) ([]byte, error) {
	var sb strings.Builder
	for _, d := range prog.Diagnostics {
		if prog.File != "" {
			sb.WriteString(prog.File)
			sb.WriteString(":")
		}
		sb.WriteString(d.String())
		sb.WriteString("\n")
		if e.compact {
			continue
		}
		e.writeFrame(&sb, d)
		for _, advice := range d.Advice {
			fmt.Fprintf(&sb, "  = help: %s\n", advice)
		}
	}
	return []byte(sb.String()), nil
}

func (e *DiagnosticEncoder) writeFrame(sb *strings.Builder, d parser.Diagnostic) {
	start, end := d.Span.Start, d.Span.End
	line, ok := sourceLine(e.src, start)
	if !ok {
		return
	}
	gutter := strconv.Itoa(start.Line)
	pad := strings.Repeat(" ", len(gutter))

	text, _ := expandTabs(line)
	fmt.Fprintf(sb, " %s | %s\n", gutter, text)

	col := min(start.Column, len(line))
	_, before := expandTabs(line[:col])
	stop := len(line)
	if end.Line == start.Line {
		stop = min(max(end.Column, col), len(line))
	}
	_, through := expandTabs(line[:stop])
	width := max(through-before, 1)
	fmt.Fprintf(sb, " %s | %s%s\n", pad, strings.Repeat(" ", before), strings.Repeat("^", width))
}

// sourceLine returns the text of the line pos is on, without its
// terminator.
func sourceLine(src string, pos parser.Position) (string, bool) {
	lineStart := pos.Index - pos.Column
	if lineStart < 0 || lineStart > len(src) {
		return "", false
	}
	rest := src[lineStart:]
	if i := strings.IndexAny(rest, "\r\n\u2028\u2029"); i >= 0 {
		rest = rest[:i]
	}
	return rest, true
}

// expandTabs replaces tabs with spaces up to the next tab stop and returns
// the expanded text with its display width.
func expandTabs(s string) (string, int) {
	var sb strings.Builder
	column := 0
	for {
		next := strings.IndexByte(s, '\t')
		if next < 0 {
			sb.WriteString(s)
			column += uniseg.StringWidth(s)
			return sb.String(), column
		}
		sb.WriteString(s[:next])
		column += uniseg.StringWidth(s[:next])
		tab := TabstopWidth - column%TabstopWidth
		sb.WriteString(strings.Repeat(" ", tab))
		column += tab
		s = s[next+1:]
	}
}

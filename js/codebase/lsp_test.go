package codebase

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/jsparse/js/parser"
)

type published struct {
	mu     sync.Mutex
	params []protocol.PublishDiagnosticsParams
}

func (p *published) context() *glsp.Context {
	return &glsp.Context{Notify: func(method string, params any) {
		if method != protocol.ServerTextDocumentPublishDiagnostics {
			return
		}
		p.mu.Lock()
		defer p.mu.Unlock()
		p.params = append(p.params, params.(protocol.PublishDiagnosticsParams))
	}}
}

func (p *published) last() protocol.PublishDiagnosticsParams {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.params[len(p.params)-1]
}

func newTestServer(t *testing.T) (*LSPServer, string) {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "jsparse.yaml", "include: ['**/*.js']\n")
	ls := NewLSPServer("test")
	_, err := ls.initialize(&glsp.Context{}, &protocol.InitializeParams{RootPath: &root})
	require.NoError(t, err)
	return ls, root
}

func TestLSPInitialize(t *testing.T) {
	ls, root := newTestServer(t)
	assert.Equal(t, root, ls.codebase.RootDir())
	assert.Equal(t, []string{"**/*.js"}, ls.codebase.Project().Config.Include)

	uri := pathToURI(root)
	ls = NewLSPServer("test")
	result, err := ls.initialize(&glsp.Context{}, &protocol.InitializeParams{RootURI: &uri})
	require.NoError(t, err)
	assert.Equal(t, root, ls.codebase.RootDir())

	info := result.(protocol.InitializeResult).ServerInfo
	assert.Equal(t, "jsparse", info.Name)
	assert.Equal(t, "test", *info.Version)
}

func TestLSPPublishesDiagnostics(t *testing.T) {
	ls, root := newTestServer(t)
	var pub published
	ctx := pub.context()
	uri := pathToURI(filepath.Join(root, "src", "app.js"))

	require.NoError(t, ls.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, Text: "let x = ;"},
	}))
	got := pub.last()
	assert.Equal(t, uri, got.URI)
	require.Len(t, got.Diagnostics, 1)
	d := got.Diagnostics[0]
	assert.Equal(t, "unexpected token ';'", d.Message)
	assert.Equal(t, protocol.Position{Line: 0, Character: 8}, d.Range.Start)
	assert.Equal(t, "parse/js", d.Code.Value)
	assert.Equal(t, protocol.DiagnosticSeverityError, *d.Severity)
	assert.True(t, ls.isOpen("src/app.js"))
	assert.NotNil(t, ls.codebase.GetFile("src/app.js"))

	require.NoError(t, ls.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "let x = 1;"}},
	}))
	assert.Empty(t, pub.last().Diagnostics)
	assert.NotNil(t, pub.last().Diagnostics, "an empty list clears the editor's diagnostics")

	text := "let y = ;"
	require.NoError(t, ls.textDocumentDidSave(ctx, &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Text:         &text,
	}))
	assert.Len(t, pub.last().Diagnostics, 1)

	// The file does not exist on disk, so closing drops it.
	require.NoError(t, ls.textDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}))
	assert.Empty(t, pub.last().Diagnostics)
	assert.False(t, ls.isOpen("src/app.js"))
	assert.Nil(t, ls.codebase.GetFile("src/app.js"))
}

func TestLSPFileChanged(t *testing.T) {
	ls, root := newTestServer(t)
	var pub published
	ls.notify = pub.context().Notify
	ls.codebase.OnChange(ls.fileChanged)

	writeFile(t, root, "a.js", "a = ;")
	_, err := ls.codebase.ScanFile("a.js")
	require.NoError(t, err)
	got := pub.last()
	assert.Equal(t, pathToURI(filepath.Join(root, "a.js")), got.URI)
	assert.Len(t, got.Diagnostics, 1)

	ls.setOpen("a.js", true)
	ls.codebase.UpdateFile("a.js", []byte("a;"))
	assert.Len(t, pub.last().Diagnostics, 1, "open documents are not published from disk changes")
}

func TestRelPath(t *testing.T) {
	ls, root := newTestServer(t)

	rel, ok := ls.relPath(pathToURI(filepath.Join(root, "lib", "a.js")))
	require.True(t, ok)
	assert.Equal(t, "lib/a.js", rel)

	outside := filepath.Join(filepath.Dir(root), "other.js")
	rel, ok = ls.relPath(pathToURI(outside))
	require.True(t, ok)
	assert.Equal(t, filepath.ToSlash(outside), rel)
}

func TestToProtocolPosition(t *testing.T) {
	content := []byte("a\né\U0001F600x")
	tests := []struct {
		pos  parser.Position
		want protocol.Position
	}{
		{parser.Position{Index: 0, Line: 1, Column: 0}, protocol.Position{Line: 0, Character: 0}},
		{parser.Position{Index: 2, Line: 2, Column: 0}, protocol.Position{Line: 1, Character: 0}},
		{parser.Position{Index: 4, Line: 2, Column: 2}, protocol.Position{Line: 1, Character: 1}},
		{parser.Position{Index: 8, Line: 2, Column: 6}, protocol.Position{Line: 1, Character: 3}},
		{parser.Position{Index: 99, Line: 3, Column: 1}, protocol.Position{Line: 2, Character: 0}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, toProtocolPosition(content, tt.pos), "%v", tt.pos)
	}
}

func TestToProtocolDiagnosticsAdvice(t *testing.T) {
	diags := toProtocolDiagnostics([]byte("<a></b>"), parser.Parse("<a></b>", parser.WithSyntax(parser.Syntax{JSX: true})).Diagnostics)
	require.Len(t, diags, 1)
	assert.Equal(t, "expected corresponding JSX closing tag for <a>\nreplace it with </a>", diags[0].Message)
	assert.Equal(t, protocol.Position{Line: 0, Character: 3}, diags[0].Range.Start)
	assert.Equal(t, protocol.Position{Line: 0, Character: 7}, diags[0].Range.End)
}

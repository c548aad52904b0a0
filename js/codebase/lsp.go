package codebase

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/jsparse/js/parser"
	"github.com/dhamidi/jsparse/project"
)

const lsName = "jsparse"

var lspLog = commonlog.GetLogger("jsparse.lsp")

// LSPServer publishes parse diagnostics for the documents an editor opens
// and for project files changed on disk.
type LSPServer struct {
	handler protocol.Handler
	server  *server.Server
	version string

	codebase *Codebase
	watcher  *FileWatcher

	mu     sync.Mutex
	open   map[string]bool
	notify glsp.NotifyFunc
}

func NewLSPServer(version string) *LSPServer {
	ls := &LSPServer{
		version: version,
		open:    make(map[string]bool),
	}

	ls.handler = protocol.Handler{
		Initialize:            ls.initialize,
		Initialized:           ls.initialized,
		Shutdown:              ls.shutdown,
		SetTrace:              ls.setTrace,
		TextDocumentDidOpen:   ls.textDocumentDidOpen,
		TextDocumentDidChange: ls.textDocumentDidChange,
		TextDocumentDidClose:  ls.textDocumentDidClose,
		TextDocumentDidSave:   ls.textDocumentDidSave,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	proj, err := project.LoadFrom(rootDir)
	if err != nil {
		lspLog.Errorf("%s; using defaults", err)
		proj = &project.Project{RootDir: rootDir, Config: project.DefaultConfig()}
	}
	ls.codebase = New(proj)

	capabilities := ls.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ls.mu.Lock()
	ls.notify = ctx.Notify
	ls.mu.Unlock()

	ls.codebase.OnChange(ls.fileChanged)
	if err := ls.codebase.ScanAll(context.Background(), 0); err != nil {
		lspLog.Errorf("scan: %s", err)
	}

	ls.watcher = NewFileWatcher(ls.codebase, 2*time.Second)
	ls.watcher.Skip(ls.isOpen)
	ls.watcher.Start()
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	if ls.watcher != nil {
		ls.watcher.Stop()
		ls.watcher = nil
	}
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	rel, ok := ls.relPath(params.TextDocument.URI)
	if !ok {
		return nil
	}
	ls.setOpen(rel, true)
	ls.publish(ctx.Notify, params.TextDocument.URI, ls.codebase.UpdateFile(rel, []byte(params.TextDocument.Text)))
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	rel, ok := ls.relPath(params.TextDocument.URI)
	if !ok || len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
		ls.publish(ctx.Notify, params.TextDocument.URI, ls.codebase.UpdateFile(rel, []byte(whole.Text)))
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	rel, ok := ls.relPath(params.TextDocument.URI)
	if !ok {
		return nil
	}
	ls.setOpen(rel, false)
	// The editor's buffer may have differed from the file on disk.
	f, err := ls.codebase.ScanFile(rel)
	if err != nil {
		ls.codebase.RemoveFile(rel)
		ls.publish(ctx.Notify, params.TextDocument.URI, nil)
		return nil
	}
	ls.publish(ctx.Notify, params.TextDocument.URI, f)
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	rel, ok := ls.relPath(params.TextDocument.URI)
	if !ok {
		return nil
	}
	var f *FileInfo
	if params.Text != nil {
		f = ls.codebase.UpdateFile(rel, []byte(*params.Text))
	} else {
		var err error
		if f, err = ls.codebase.ScanFile(rel); err != nil {
			lspLog.Warningf("%s", err)
			return nil
		}
	}
	ls.publish(ctx.Notify, params.TextDocument.URI, f)
	return nil
}

// fileChanged publishes diagnostics for changes the watcher picked up.
// Open documents are published by their own handlers.
func (ls *LSPServer) fileChanged(rel string, f *FileInfo) {
	ls.mu.Lock()
	notify, open := ls.notify, ls.open[rel]
	ls.mu.Unlock()
	if notify == nil || open {
		return
	}
	ls.publish(notify, pathToURI(ls.codebase.abs(rel)), f)
}

func (ls *LSPServer) publish(notify glsp.NotifyFunc, uri protocol.DocumentUri, f *FileInfo) {
	diagnostics := []protocol.Diagnostic{}
	if f != nil && f.Program != nil {
		diagnostics = toProtocolDiagnostics(f.Content, f.Program.Diagnostics)
	}
	notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func (ls *LSPServer) setOpen(rel string, open bool) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if open {
		ls.open[rel] = true
	} else {
		delete(ls.open, rel)
	}
}

func (ls *LSPServer) isOpen(rel string) bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.open[rel]
}

// relPath maps a document URI to its codebase key: the slash-separated
// path relative to the root, or the absolute path for files outside it.
func (ls *LSPServer) relPath(uri protocol.DocumentUri) (string, bool) {
	path, err := uriToPath(uri)
	if err != nil {
		return "", false
	}
	root, err := filepath.Abs(ls.codebase.RootDir())
	if err != nil {
		return filepath.ToSlash(path), true
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(path), true
	}
	return filepath.ToSlash(rel), true
}

func toProtocolDiagnostics(content []byte, diags []parser.Diagnostic) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(diags))
	severity := protocol.DiagnosticSeverityError
	source := lsName
	for _, d := range diags {
		message := d.Message
		for _, advice := range d.Advice {
			message += "\n" + advice
		}
		out = append(out, protocol.Diagnostic{
			Range: protocol.Range{
				Start: toProtocolPosition(content, d.Span.Start),
				End:   toProtocolPosition(content, d.Span.End),
			},
			Severity: &severity,
			Code:     &protocol.IntegerOrString{Value: string(d.Category)},
			Source:   &source,
			Message:  message,
		})
	}
	return out
}

// toProtocolPosition converts a parser position, whose column counts
// bytes, to the zero-based line and UTF-16 column LSP expects.
func toProtocolPosition(content []byte, pos parser.Position) protocol.Position {
	lineStart := pos.Index - pos.Column
	if lineStart < 0 || pos.Index > len(content) {
		return protocol.Position{Line: protocol.UInteger(max(pos.Line-1, 0))}
	}
	character := 0
	for prefix := content[lineStart:pos.Index]; len(prefix) > 0; {
		r, size := utf8.DecodeRune(prefix)
		character += utf16.RuneLen(r)
		prefix = prefix[size:]
	}
	return protocol.Position{
		Line:      protocol.UInteger(pos.Line - 1),
		Character: protocol.UInteger(character),
	}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(filepath.FromSlash(parsed.Path)), nil
	}
	return uri, nil
}

func pathToURI(path string) protocol.DocumentUri {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}

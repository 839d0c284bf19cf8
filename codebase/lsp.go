package codebase

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "appclassdoc"

// LSPServer serves document outlines, workspace symbols and hover
// documentation for application classes.
type LSPServer struct {
	codebase       *Codebase
	watcher        *FileWatcher
	handler        protocol.Handler
	server         *server.Server
	version        string
	includePrivate bool
}

func NewLSPServer(version string, includePrivate bool) *LSPServer {
	ls := &LSPServer{
		version:        version,
		includePrivate: includePrivate,
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDidSave:        ls.textDocumentDidSave,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
		TextDocumentHover:          ls.textDocumentHover,
		WorkspaceSymbol:            ls.workspaceSymbol,
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

	ls.codebase = New(rootDir, WithPrivateMembers(ls.includePrivate))

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
	if err := ls.codebase.ScanAll(); err != nil {
		log.Errorf("scanning %s: %s", ls.codebase.RootDir(), err)
	}

	watcher, err := NewFileWatcher(ls.codebase)
	if err != nil {
		log.Warningf("%s", err)
		return nil
	}
	if err := watcher.Start(); err != nil {
		log.Warningf("%s", err)
		watcher.Stop()
		return nil
	}
	ls.watcher = watcher
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	if ls.watcher != nil {
		return ls.watcher.Stop()
	}
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.codebase.UpdateFile(path, []byte(params.TextDocument.Text))
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.codebase.UpdateFile(path, []byte(textChange.Text))
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.codebase.UpdateFile(path, []byte(*params.Text))
	} else {
		ls.codebase.ScanFile(path)
	}
	return nil
}

func (ls *LSPServer) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	file := ls.codebase.GetFile(path)
	if file == nil || file.Class == nil {
		return []protocol.DocumentSymbol{}, nil
	}
	return toDocumentSymbols(DocumentSymbols(file.Class)), nil
}

func (ls *LSPServer) workspaceSymbol(ctx *glsp.Context, params *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	var result []protocol.SymbolInformation
	for _, s := range ls.codebase.WorkspaceSymbols(params.Query) {
		info := protocol.SymbolInformation{
			Name: s.Name,
			Kind: toProtocolKind(s.Kind),
			Location: protocol.Location{
				URI:   pathToURI(s.Path),
				Range: lineRange(s.Line),
			},
		}
		if s.Container != "" {
			container := s.Container
			info.ContainerName = &container
		}
		result = append(result, info)
	}
	return result, nil
}

func (ls *LSPServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	line := int(params.Position.Line) + 1
	col := int(params.Position.Character)

	text := ls.codebase.HoverAt(path, line, col)
	if text == "" {
		return nil, nil
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: text,
		},
	}, nil
}

func toDocumentSymbols(symbols []Symbol) []protocol.DocumentSymbol {
	result := make([]protocol.DocumentSymbol, 0, len(symbols))
	for _, s := range symbols {
		detail := s.Detail
		r := lineRange(s.Line)
		result = append(result, protocol.DocumentSymbol{
			Name:           s.Name,
			Detail:         &detail,
			Kind:           toProtocolKind(s.Kind),
			Range:          r,
			SelectionRange: r,
			Children:       toDocumentSymbols(s.Children),
		})
	}
	return result
}

func toProtocolKind(kind SymbolKind) protocol.SymbolKind {
	switch kind {
	case SymbolClass:
		return protocol.SymbolKindClass
	case SymbolInterface:
		return protocol.SymbolKindInterface
	case SymbolConstructor:
		return protocol.SymbolKindConstructor
	case SymbolMethod:
		return protocol.SymbolKindMethod
	case SymbolProperty:
		return protocol.SymbolKindProperty
	case SymbolConstant:
		return protocol.SymbolKindConstant
	default:
		return protocol.SymbolKindField
	}
}

// lineRange covers the start of a 1-based line.
func lineRange(line int) protocol.Range {
	if line > 0 {
		line--
	}
	pos := protocol.Position{Line: protocol.UInteger(line)}
	return protocol.Range{Start: pos, End: pos}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"unicode"

	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"
)

// The language server checks each open document as a single postfix program,
// publishing any syntax error as a diagnostic, and completes command names.

var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
)

type lspServer struct {
	mu      sync.Mutex
	content map[lsp.DocumentURI]string
	exit    func()
}

type lspMethod func(context.Context, *jsonrpc2.Conn, json.RawMessage) (interface{}, error)

// serveLSP serves the language server protocol over rwc until the client
// disconnects, asks to exit, or ctx is done.
func serveLSP(ctx context.Context, rwc io.ReadWriteCloser) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s := &lspServer{
		content: make(map[lsp.DocumentURI]string),
		exit:    cancel,
	}
	conn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{}),
		s.handler())
	select {
	case <-conn.DisconnectNotify():
		return nil
	case <-ctx.Done():
		if err := conn.Close(); !errors.Is(err, jsonrpc2.ErrClosed) {
			return err
		}
		return nil
	}
}

func (s *lspServer) handler() jsonrpc2.Handler {
	methods := map[string]lspMethod{
		"initialize":              s.initialize,
		"shutdown":                noop,
		"exit":                    s.exitMethod,
		"textDocument/didOpen":    s.didOpen,
		"textDocument/didChange":  s.didChange,
		"textDocument/didClose":   s.didClose,
		"textDocument/completion": s.completion,

		"initialized":                     noop,
		"workspace/didChangeWatchedFiles": noop,
	}
	return jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (interface{}, error) {
		fn, ok := methods[req.Method]
		if !ok {
			return nil, errMethodNotFound
		}
		var params json.RawMessage
		if req.Params != nil {
			params = *req.Params
		}
		return fn(ctx, conn, params)
	})
}

func noop(context.Context, *jsonrpc2.Conn, json.RawMessage) (interface{}, error) {
	return nil, nil
}

func (s *lspServer) initialize(context.Context, *jsonrpc2.Conn, json.RawMessage) (interface{}, error) {
	return &lsp.InitializeResult{
		Capabilities: lsp.ServerCapabilities{
			TextDocumentSync: &lsp.TextDocumentSyncOptionsOrKind{
				Options: &lsp.TextDocumentSyncOptions{
					OpenClose: true,
					Change:    lsp.TDSKFull,
				},
			},
			CompletionProvider: &lsp.CompletionOptions{},
		},
	}, nil
}

func (s *lspServer) exitMethod(context.Context, *jsonrpc2.Conn, json.RawMessage) (interface{}, error) {
	s.exit()
	return nil, nil
}

func (s *lspServer) didOpen(ctx context.Context, conn *jsonrpc2.Conn, raw json.RawMessage) (interface{}, error) {
	var params lsp.DidOpenTextDocumentParams
	if json.Unmarshal(raw, &params) != nil {
		return nil, errInvalidParams
	}
	s.update(ctx, conn, params.TextDocument.URI, params.TextDocument.Text)
	return nil, nil
}

func (s *lspServer) didChange(ctx context.Context, conn *jsonrpc2.Conn, raw json.RawMessage) (interface{}, error) {
	var params lsp.DidChangeTextDocumentParams
	if json.Unmarshal(raw, &params) != nil || len(params.ContentChanges) == 0 {
		return nil, errInvalidParams
	}
	// only full document sync is advertised by initialize
	s.update(ctx, conn, params.TextDocument.URI, params.ContentChanges[len(params.ContentChanges)-1].Text)
	return nil, nil
}

func (s *lspServer) didClose(ctx context.Context, conn *jsonrpc2.Conn, raw json.RawMessage) (interface{}, error) {
	var params lsp.DidCloseTextDocumentParams
	if json.Unmarshal(raw, &params) != nil {
		return nil, errInvalidParams
	}
	s.mu.Lock()
	delete(s.content, params.TextDocument.URI)
	s.mu.Unlock()
	return nil, conn.Notify(ctx, "textDocument/publishDiagnostics", lsp.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []lsp.Diagnostic{},
	})
}

func (s *lspServer) update(ctx context.Context, conn *jsonrpc2.Conn, uri lsp.DocumentURI, content string) {
	s.mu.Lock()
	s.content[uri] = content
	s.mu.Unlock()
	conn.Notify(ctx, "textDocument/publishDiagnostics", lsp.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics(content),
	})
}

func (s *lspServer) completion(_ context.Context, _ *jsonrpc2.Conn, raw json.RawMessage) (interface{}, error) {
	var params lsp.CompletionParams
	if json.Unmarshal(raw, &params) != nil {
		return nil, errInvalidParams
	}
	s.mu.Lock()
	content := s.content[params.TextDocument.URI]
	s.mu.Unlock()

	word := wordBefore(content, lspOffset(content, params.Position))
	items := []lsp.CompletionItem{}
	if strings.HasPrefix(headerKeyword, word) {
		items = append(items, lsp.CompletionItem{Label: headerKeyword, Kind: lsp.CIKKeyword})
	}
	for _, name := range CommandNames() {
		if strings.HasPrefix(name, word) {
			items = append(items, lsp.CompletionItem{Label: name, Kind: lsp.CIKFunction})
		}
	}
	return items, nil
}

// wordBefore returns the partial token ending at offset idx of s.
func wordBefore(s string, idx int) string {
	i := strings.LastIndexFunc(s[:idx], func(r rune) bool {
		return r == '(' || r == ')' || unicode.IsSpace(r)
	})
	return s[i+1 : idx]
}

// diagnostics checks content as one program.
func diagnostics(content string) []lsp.Diagnostic {
	_, err := Check(content)
	if err == nil {
		return []lsp.Diagnostic{}
	}
	diag := lsp.Diagnostic{
		Range: lsp.Range{
			Start: lspPosition(content, 0),
			End:   lspPosition(content, len(content)),
		},
		Severity: lsp.Error,
		Source:   "postfix",
		Message:  err.Error(),
	}
	var se *SyntaxError
	if errors.As(err, &se) {
		diag.Message = se.Message()
		if se.Pos >= 0 {
			diag.Range.Start = lspPosition(content, se.Pos)
			diag.Range.End = lspPosition(content, se.End)
		}
	}
	return []lsp.Diagnostic{diag}
}

// lspPosition converts a byte offset into a line and UTF-16 column.
func lspPosition(s string, idx int) lsp.Position {
	var p lsp.Position
	lastCR := false
	for i, r := range s {
		if i >= idx {
			break
		}
		switch {
		case r == '\r':
			p.Line++
			p.Character = 0
		case r == '\n':
			if !lastCR {
				p.Line++
				p.Character = 0
			}
		case r <= 0xFFFF:
			p.Character++
		default:
			p.Character += 2
		}
		lastCR = r == '\r'
	}
	return p
}

// lspOffset converts a line and UTF-16 column into a byte offset, clamped to
// the end of s.
func lspOffset(s string, pos lsp.Position) int {
	var p lsp.Position
	lastCR := false
	for i, r := range s {
		if p.Line > pos.Line || (p.Line == pos.Line && p.Character >= pos.Character) {
			return i
		}
		switch {
		case r == '\r':
			p.Line++
			p.Character = 0
		case r == '\n':
			if !lastCR {
				p.Line++
				p.Character = 0
			}
		case r <= 0xFFFF:
			p.Character++
		default:
			p.Character += 2
		}
		lastCR = r == '\r'
	}
	return len(s)
}

// stdio joins a reader and writer into the stream that serveLSP expects.
type stdio struct {
	in  io.ReadCloser
	out io.WriteCloser
}

func (c stdio) Read(p []byte) (int, error)  { return c.in.Read(p) }
func (c stdio) Write(p []byte) (int, error) { return c.out.Write(p) }

func (c stdio) Close() error {
	if err := c.in.Close(); err != nil {
		c.out.Close()
		return err
	}
	return c.out.Close()
}

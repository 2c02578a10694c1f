package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/reshape/config"
	"github.com/dhamidi/reshape/edit"
	"github.com/dhamidi/reshape/formatter"
)

const lsName = "reshape"

const (
	CommandToggleLayout = "reshape.toggleLayout"
	CommandSortFields   = "reshape.sortFields"

	methodApplyEdit = "workspace/applyEdit"
)

var log = commonlog.GetLogger("reshape.lsp")

type LSPServer struct {
	docs    *Documents
	handler protocol.Handler
	server  *server.Server
	version string

	rootDir string
	watcher *ConfigWatcher

	mu     sync.RWMutex
	runner *edit.Runner
	toggle edit.ToggleOptions
}

func NewLSPServer(version string) *LSPServer {
	ls := &LSPServer{
		docs:    NewDocuments(),
		version: version,
		runner:  edit.NewRunner(nil),
	}

	ls.handler = protocol.Handler{
		Initialize:              ls.initialize,
		Initialized:             ls.initialized,
		Shutdown:                ls.shutdown,
		SetTrace:                ls.setTrace,
		TextDocumentDidOpen:     ls.textDocumentDidOpen,
		TextDocumentDidChange:   ls.textDocumentDidChange,
		TextDocumentDidClose:    ls.textDocumentDidClose,
		TextDocumentDidSave:     ls.textDocumentDidSave,
		TextDocumentCodeAction:  ls.textDocumentCodeAction,
		WorkspaceExecuteCommand: ls.workspaceExecuteCommand,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) RunTCP(address string) error {
	return ls.server.RunTCP(address)
}

// Configure replaces the configuration used by later commands.
func (ls *LSPServer) Configure(cfg config.Config) error {
	toggle, err := cfg.ToggleOptions()
	if err != nil {
		return err
	}
	runner := edit.NewRunner(nil)
	if f := formatter.New(cfg.Format.Command); f != nil {
		f.Dir = ls.rootDir
		runner.Formatter = f
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.toggle = toggle
	ls.runner = runner
	return nil
}

func (ls *LSPServer) reloadConfig() {
	cfg, path, err := config.Discover(ls.rootDir)
	if err == nil {
		err = ls.Configure(cfg)
	}
	if err != nil {
		log.Errorf("reload config: %s", err)
		return
	}
	log.Infof("reloaded config %s", path)
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

	ls.rootDir = rootDir
	cfg, path, err := config.Discover(rootDir)
	if err != nil {
		log.Errorf("load config: %s", err)
		cfg = config.Default()
	} else if path != "" {
		log.Infof("using config %s", path)
	}
	if err := ls.Configure(cfg); err != nil {
		return nil, err
	}

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}
	capabilities.CodeActionProvider = &protocol.CodeActionOptions{
		CodeActionKinds: []protocol.CodeActionKind{
			protocol.CodeActionKindRefactorRewrite,
			protocol.CodeActionKindSource,
		},
	}
	capabilities.ExecuteCommandProvider = &protocol.ExecuteCommandOptions{
		Commands: []string{CommandToggleLayout, CommandSortFields},
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
	ls.watcher = NewConfigWatcher(ls.rootDir, ls.reloadConfig)
	ls.watcher.Start()
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	if ls.watcher != nil {
		ls.watcher.Stop()
		ls.watcher = nil
	}
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	ls.docs.Update(params.TextDocument.URI, params.TextDocument.Text, params.TextDocument.Version)
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.docs.Update(params.TextDocument.URI, textChange.Text, params.TextDocument.Version)
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ls.docs.Remove(params.TextDocument.URI)
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		ls.docs.SetText(params.TextDocument.URI, *params.Text)
		return nil
	}
	if err := ls.docs.Reload(params.TextDocument.URI); err != nil {
		log.Warningf("%s", err)
	}
	return nil
}

type offeredAction struct {
	title   string
	kind    protocol.CodeActionKind
	command string
}

var codeActions = []offeredAction{
	{"Toggle argument layout", protocol.CodeActionKindRefactorRewrite, CommandToggleLayout},
	{"Sort fields", protocol.CodeActionKindSource, CommandSortFields},
}

// textDocumentCodeAction offers the commands that would change the document. The edit itself
// is computed when the client executes the command, so the formatter only runs on demand.
func (ls *LSPServer) textDocumentCodeAction(ctx *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	text, ok := ls.docs.Text(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	snap := edit.Snapshot{Text: text, Cursor: offsetForPosition(text, params.Range.Start)}

	var actions []protocol.CodeAction
	for _, a := range codeActions {
		cmd, _ := ls.command(a.command)
		e, err := cmd.Compute(snap)
		if err != nil || e.IsNoop(text) {
			continue
		}
		kind := a.kind
		actions = append(actions, protocol.CodeAction{
			Title: a.title,
			Kind:  &kind,
			Command: &protocol.Command{
				Title:     a.title,
				Command:   a.command,
				Arguments: []any{params.TextDocument.URI, params.Range.Start},
			},
		})
	}
	return actions, nil
}

// workspaceExecuteCommand replies before the edit is applied. The client's answer to
// workspace/applyEdit is read by the same loop that dispatches this handler.
func (ls *LSPServer) workspaceExecuteCommand(ctx *glsp.Context, params *protocol.ExecuteCommandParams) (any, error) {
	run, err := ls.prepareCommand(ctx, params)
	if err != nil {
		return nil, err
	}
	go func() {
		if _, err := run(); err != nil {
			log.Errorf("%s", err)
			ctx.Notify(protocol.ServerWindowShowMessage, protocol.ShowMessageParams{
				Type:    protocol.MessageTypeError,
				Message: err.Error(),
			})
		}
	}()
	return nil, nil
}

// prepareCommand validates an executeCommand request and returns the function that runs it
// against the open document.
func (ls *LSPServer) prepareCommand(ctx *glsp.Context, params *protocol.ExecuteCommandParams) (func() (bool, error), error) {
	cmd, ok := ls.command(params.Command)
	if !ok {
		return nil, fmt.Errorf("unknown command %q", params.Command)
	}
	uri, pos, err := commandTarget(params.Arguments)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", params.Command, err)
	}

	ed := &documentEditor{
		docs:  ls.docs,
		uri:   uri,
		pos:   pos,
		apply: applyEditFunc(ctx),
	}
	ls.mu.RLock()
	runner := ls.runner
	ls.mu.RUnlock()
	return func() (bool, error) {
		return runner.Run(context.Background(), ed, cmd)
	}, nil
}

func (ls *LSPServer) command(name string) (edit.Command, bool) {
	switch name {
	case CommandToggleLayout:
		ls.mu.RLock()
		defer ls.mu.RUnlock()
		return edit.ToggleLayout(ls.toggle), true
	case CommandSortFields:
		return edit.SortFields(), true
	}
	return edit.Command{}, false
}

// commandTarget decodes the [uri, position] arguments of a command. The position is optional.
func commandTarget(args []any) (protocol.DocumentUri, protocol.Position, error) {
	var pos protocol.Position
	if len(args) == 0 {
		return "", pos, errors.New("missing document URI argument")
	}
	uri, ok := args[0].(string)
	if !ok || uri == "" {
		return "", pos, fmt.Errorf("document URI argument must be a string, got %T", args[0])
	}
	if len(args) > 1 {
		raw, err := json.Marshal(args[1])
		if err != nil {
			return "", pos, fmt.Errorf("position argument: %w", err)
		}
		if err := json.Unmarshal(raw, &pos); err != nil {
			return "", pos, fmt.Errorf("position argument: %w", err)
		}
	}
	return protocol.DocumentUri(uri), pos, nil
}

type applyEditResult struct {
	Applied       bool    `json:"applied"`
	FailureReason *string `json:"failureReason,omitempty"`
}

func applyEditFunc(ctx *glsp.Context) func(string, protocol.WorkspaceEdit) error {
	return func(label string, we protocol.WorkspaceEdit) error {
		var result applyEditResult
		ctx.Call(methodApplyEdit, protocol.ApplyWorkspaceEditParams{Label: &label, Edit: we}, &result)
		if result.Applied {
			return nil
		}
		if result.FailureReason != nil {
			return fmt.Errorf("client rejected edit: %s", *result.FailureReason)
		}
		return errors.New("client rejected edit")
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}

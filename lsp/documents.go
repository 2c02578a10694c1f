package lsp

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Documents holds the text of every open document, keyed by URI.
type Documents struct {
	mu    sync.RWMutex
	files map[protocol.DocumentUri]*Document
}

type Document struct {
	URI     protocol.DocumentUri
	Text    string
	Version protocol.Integer
}

func NewDocuments() *Documents {
	return &Documents{
		files: make(map[protocol.DocumentUri]*Document),
	}
}

func (d *Documents) Update(uri protocol.DocumentUri, text string, version protocol.Integer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.files[uri] = &Document{URI: uri, Text: text, Version: version}
}

// SetText replaces the text of an open document and keeps its version.
func (d *Documents) SetText(uri protocol.DocumentUri, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if doc := d.files[uri]; doc != nil {
		doc.Text = text
	}
}

// Reload reads the document from disk, for saves that do not carry their text.
func (d *Documents) Reload(uri protocol.DocumentUri) error {
	path, err := uriToPath(uri)
	if err != nil {
		return err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reload %s: %w", uri, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	var version protocol.Integer
	if doc := d.files[uri]; doc != nil {
		version = doc.Version
	}
	d.files[uri] = &Document{URI: uri, Text: string(content), Version: version}
	return nil
}

func (d *Documents) Remove(uri protocol.DocumentUri) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.files, uri)
}

// Text returns a snapshot of the document text.
func (d *Documents) Text(uri protocol.DocumentUri) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	doc := d.files[uri]
	if doc == nil {
		return "", false
	}
	return doc.Text, true
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

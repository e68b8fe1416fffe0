// Package testutil provides test utilities and fixtures for unit tests.
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasref/uri"
)

// NewPetstoreDocument returns a small OAS 3.0 document with local refs,
// decoded the way encoding/json decodes it.
func NewPetstoreDocument() map[string]any {
	return map[string]any{
		"openapi": "3.0.3",
		"info":    map[string]any{"title": "Petstore", "version": "1.0.0"},
		"paths": map[string]any{
			"/pets": map[string]any{
				"get": map[string]any{
					"operationId": "listPets",
					"responses": map[string]any{
						"200": map[string]any{
							"description": "A list of pets",
							"content": map[string]any{
								"application/json": map[string]any{
									"schema": map[string]any{
										"type":  "array",
										"items": map[string]any{"$ref": "#/components/schemas/Pet"},
									},
								},
							},
						},
						"default": map[string]any{"$ref": "#/components/responses/Error"},
					},
				},
			},
		},
		"components": map[string]any{
			"schemas": map[string]any{
				"Pet": map[string]any{
					"type":     "object",
					"required": []any{"id", "name"},
					"properties": map[string]any{
						"id":   map[string]any{"type": "integer"},
						"name": map[string]any{"type": "string"},
					},
				},
			},
			"responses": map[string]any{
				"Error": map[string]any{"description": "unexpected error"},
			},
		},
	}
}

// WriteJSON marshals doc to indented JSON and writes it to dir/name,
// creating parent directories. Returns the written path.
func WriteJSON(t *testing.T, dir, name string, doc any) string {
	t.Helper()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal document to JSON: %v", err)
	}
	return WriteFile(t, dir, name, string(data))
}

// WriteYAML marshals doc to YAML and writes it to dir/name.
func WriteYAML(t *testing.T, dir, name string, doc any) string {
	t.Helper()

	data, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("Failed to marshal document to YAML: %v", err)
	}
	return WriteFile(t, dir, name, string(data))
}

// WriteFile writes content to dir/name, creating parent directories.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write fixture file: %v", err)
	}
	return path
}

// FileURI returns the file: URI of an absolute path.
func FileURI(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return "file://" + p
}

// MapFetcher serves decoded documents from memory and counts fetches per URI.
// It satisfies ref.Fetcher.
type MapFetcher struct {
	Docs map[string]any

	mu    sync.Mutex
	calls map[string]int
}

// NewMapFetcher returns a MapFetcher serving docs, keyed by absolute URI.
func NewMapFetcher(docs map[string]any) *MapFetcher {
	return &MapFetcher{Docs: docs, calls: make(map[string]int)}
}

// Fetch resolves u against baseURI and returns the matching document.
func (f *MapFetcher) Fetch(_ context.Context, u, baseURI string) (any, error) {
	target := u
	if baseURI != "" {
		target = uri.ResolveRelative(baseURI, u)
	}
	target, _, _ = strings.Cut(target, "#")

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[target]++
	doc, ok := f.Docs[target]
	if !ok {
		return nil, fmt.Errorf("testutil: no document at %s: %w", target, os.ErrNotExist)
	}
	return doc, nil
}

// Calls returns how often target was fetched.
func (f *MapFetcher) Calls(target string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[target]
}

// TotalCalls returns the number of fetches across all URIs.
func (f *MapFetcher) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

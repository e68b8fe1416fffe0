package ref

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasref/internal/testutil"
	"github.com/erraggy/oasref/oaserrors"
)

func TestDefaultFetcherLocal(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteJSON(t, dir, "common.json", map[string]any{"Error": map[string]any{"type": "object"}})
	want := map[string]any{"Error": map[string]any{"type": "object"}}
	f := &DefaultFetcher{}

	t.Run("plain path", func(t *testing.T) {
		doc, err := f.Fetch(context.Background(), path, "")
		require.NoError(t, err)
		assert.Equal(t, want, doc)
	})

	t.Run("file uri with fragment", func(t *testing.T) {
		doc, err := f.Fetch(context.Background(), testutil.FileURI(path)+"#/Error", "")
		require.NoError(t, err)
		assert.Equal(t, want, doc)
	})

	t.Run("relative to file base", func(t *testing.T) {
		doc, err := f.Fetch(context.Background(), "common.json", testutil.FileURI(filepath.Join(dir, "api.json")))
		require.NoError(t, err)
		assert.Equal(t, want, doc)
	})

	t.Run("relative to path base", func(t *testing.T) {
		doc, err := f.Fetch(context.Background(), "./common.json", filepath.ToSlash(filepath.Join(dir, "api.json")))
		require.NoError(t, err)
		assert.Equal(t, want, doc)
	})
}

func TestDefaultFetcherLocalErrors(t *testing.T) {
	dir := t.TempDir()
	f := &DefaultFetcher{}

	t.Run("missing file", func(t *testing.T) {
		_, err := f.Fetch(context.Background(), filepath.Join(dir, "missing.json"), "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, oaserrors.ErrUnreachable))
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("directory", func(t *testing.T) {
		_, err := f.Fetch(context.Background(), dir, "")
		assert.True(t, errors.Is(err, oaserrors.ErrUnreachable))
	})

	t.Run("yaml rejected", func(t *testing.T) {
		path := testutil.WriteFile(t, dir, "a.yaml", "openapi: 3.0.0\n")
		_, err := f.Fetch(context.Background(), path, "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, oaserrors.ErrUnsupportedFormat))
		assert.Contains(t, err.Error(), "convert YAML to JSON first")
	})

	t.Run("invalid json", func(t *testing.T) {
		path := testutil.WriteFile(t, dir, "bad.json", "{not json")
		_, err := f.Fetch(context.Background(), path, "")
		assert.True(t, errors.Is(err, oaserrors.ErrUnsupportedFormat))
	})

	t.Run("too large", func(t *testing.T) {
		path := testutil.WriteFile(t, dir, "big.json", `{"a": "0123456789"}`)
		_, err := (&DefaultFetcher{MaxFileSize: 8}).Fetch(context.Background(), path, "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, oaserrors.ErrResourceLimit))

		var limitErr *oaserrors.ResourceLimitError
		require.True(t, errors.As(err, &limitErr))
		assert.Equal(t, "file_size", limitErr.ResourceType)
		assert.Equal(t, int64(8), limitErr.Limit)
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		_, err := f.Fetch(context.Background(), "ftp://example.com/a.json", "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, oaserrors.ErrUnsupportedScheme))
	})

	t.Run("canceled context", func(t *testing.T) {
		path := testutil.WriteJSON(t, dir, "ok.json", map[string]any{})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := f.Fetch(ctx, path, "")
		assert.True(t, errors.Is(err, context.Canceled))
	})
}

func TestDefaultFetcherAllowYAML(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "a.yml", "components:\n  schemas:\n    Pet:\n      type: object\n")

	doc, err := (&DefaultFetcher{AllowYAML: true}).Fetch(context.Background(), path, "")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"components": map[string]any{
			"schemas": map[string]any{"Pet": map[string]any{"type": "object"}},
		},
	}, doc)
}

func TestDefaultFetcherRootDir(t *testing.T) {
	dir := t.TempDir()
	inside := testutil.WriteJSON(t, dir, "root/inside.json", map[string]any{"ok": true})
	outside := testutil.WriteJSON(t, dir, "outside.json", map[string]any{"ok": false})
	f := &DefaultFetcher{RootDir: filepath.Join(dir, "root")}

	_, err := f.Fetch(context.Background(), inside, "")
	require.NoError(t, err)

	_, err = f.Fetch(context.Background(), "../outside.json", inside)
	require.Error(t, err)
	assert.True(t, errors.Is(err, oaserrors.ErrPathTraversal))

	_, err = f.Fetch(context.Background(), outside, "")
	assert.True(t, errors.Is(err, oaserrors.ErrPathTraversal))
}

func TestDefaultFetcherHTTP(t *testing.T) {
	var (
		mu     sync.Mutex
		lastUA string
	)
	gotUA := func() string {
		mu.Lock()
		defer mu.Unlock()
		return lastUA
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		lastUA = r.Header.Get("User-Agent")
		mu.Unlock()
		switch r.URL.Path {
		case "/specs/common.json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"Error": {"type": "object"}}`))
		case "/specs/api":
			w.Header().Set("Content-Type", "application/yaml")
			_, _ = w.Write([]byte("Pet:\n  type: object\n"))
		case "/specs/big.json":
			_, _ = w.Write([]byte(`{"a": "` + strings.Repeat("x", 64) + `"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	f := &DefaultFetcher{HTTPClient: server.Client()}

	t.Run("relative to http base", func(t *testing.T) {
		doc, err := f.Fetch(context.Background(), "common.json#/Error", server.URL+"/specs/api.json")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"Error": map[string]any{"type": "object"}}, doc)
		assert.True(t, strings.HasPrefix(gotUA(), "oasref/"), "unexpected user agent %q", gotUA())
	})

	t.Run("custom user agent", func(t *testing.T) {
		custom := &DefaultFetcher{HTTPClient: server.Client(), UserAgent: "custom/1.0"}
		_, err := custom.Fetch(context.Background(), server.URL+"/specs/common.json", "")
		require.NoError(t, err)
		assert.Equal(t, "custom/1.0", gotUA())
	})

	t.Run("not found is unreachable", func(t *testing.T) {
		_, err := f.Fetch(context.Background(), server.URL+"/specs/missing.json", "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, oaserrors.ErrUnreachable))
		assert.Contains(t, err.Error(), "HTTP 404")
	})

	t.Run("yaml content type rejected", func(t *testing.T) {
		_, err := f.Fetch(context.Background(), server.URL+"/specs/api", "")
		assert.True(t, errors.Is(err, oaserrors.ErrUnsupportedFormat))
	})

	t.Run("yaml content type allowed", func(t *testing.T) {
		yf := &DefaultFetcher{HTTPClient: server.Client(), AllowYAML: true}
		doc, err := yf.Fetch(context.Background(), server.URL+"/specs/api", "")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"Pet": map[string]any{"type": "object"}}, doc)
	})

	t.Run("body too large", func(t *testing.T) {
		small := &DefaultFetcher{HTTPClient: server.Client(), MaxFileSize: 16}
		_, err := small.Fetch(context.Background(), server.URL+"/specs/big.json", "")
		assert.True(t, errors.Is(err, oaserrors.ErrResourceLimit))
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := f.Fetch(ctx, server.URL+"/specs/common.json", "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled))
		assert.True(t, errors.Is(err, oaserrors.ErrUnreachable))
	})
}

func TestDefaultFetcherClient(t *testing.T) {
	c := (&DefaultFetcher{}).client()
	assert.Nil(t, c.Transport)

	insecure := (&DefaultFetcher{InsecureSkipVerify: true}).client()
	transport, ok := insecure.Transport.(*http.Transport)
	require.True(t, ok)
	assert.True(t, transport.TLSClientConfig.InsecureSkipVerify)

	custom := &http.Client{}
	assert.Same(t, custom, (&DefaultFetcher{HTTPClient: custom, InsecureSkipVerify: true}).client())
}

package ref

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasref/internal/testutil"
	"github.com/erraggy/oasref/oaserrors"
	"github.com/erraggy/oasref/uri"
)

const rootURI = "file:///specs/api.json"

func newTestResolver(docs map[string]any, opts ...ResolverOption) (*Resolver, *testutil.MapFetcher) {
	fetcher := testutil.NewMapFetcher(docs)
	return NewResolver(fetcher, NewMemoryCache(), opts...), fetcher
}

func TestResolveLocal(t *testing.T) {
	root := testutil.NewPetstoreDocument()
	r, fetcher := newTestResolver(nil)

	res, err := r.Resolve(context.Background(), "#/components/schemas/Pet", rootURI, root, nil)
	require.NoError(t, err)

	assert.Equal(t, "#/components/schemas/Pet", res.OriginalRef)
	assert.Equal(t, rootURI, res.BaseURI)
	assert.Equal(t, rootURI+"#/components/schemas/Pet", res.ResolvedURI)
	assert.Equal(t, "/components/schemas/Pet", res.Pointer)
	assert.Equal(t, root["components"].(map[string]any)["schemas"].(map[string]any)["Pet"], res.Data)
	assert.Equal(t, root, res.Document)
	assert.Equal(t, 0, fetcher.TotalCalls(), "local refs must not fetch")
}

func TestResolveExternal(t *testing.T) {
	common := map[string]any{
		"Error": map[string]any{"type": "object"},
	}
	r, fetcher := newTestResolver(map[string]any{"file:///specs/common.json": common})

	res, err := r.Resolve(context.Background(), "common.json#/Error", rootURI, map[string]any{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "file:///specs/common.json", res.BaseURI)
	assert.Equal(t, "file:///specs/common.json#/Error", res.ResolvedURI)
	assert.Equal(t, map[string]any{"type": "object"}, res.Data)
	assert.Equal(t, common, res.Document)

	t.Run("second resolution served from cache", func(t *testing.T) {
		again, err := r.Resolve(context.Background(), "./common.json#/Error", rootURI, map[string]any{}, nil)
		require.NoError(t, err)
		assert.Same(t, res, again)
		assert.Equal(t, 1, fetcher.Calls("file:///specs/common.json"))
	})

	t.Run("whole document", func(t *testing.T) {
		whole, err := r.Resolve(context.Background(), "common.json", rootURI, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "", whole.Pointer)
		assert.Equal(t, "file:///specs/common.json", whole.ResolvedURI)
		assert.Equal(t, common, whole.Data)
	})
}

func TestResolveNilRootFetchesBase(t *testing.T) {
	root := testutil.NewPetstoreDocument()
	r, fetcher := newTestResolver(map[string]any{rootURI: root})

	res, err := r.Resolve(context.Background(), "#/components/responses/Error", rootURI, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"description": "unexpected error"}, res.Data)
	assert.Equal(t, 1, fetcher.Calls(rootURI))
}

func TestResolveNotFound(t *testing.T) {
	root := testutil.NewPetstoreDocument()
	r, _ := newTestResolver(nil)

	for _, ref := range []string{"#/components/schemas/Missing", "#/openapi", "#/components/schemas/Pet/required/0"} {
		t.Run(ref, func(t *testing.T) {
			_, err := r.Resolve(context.Background(), ref, rootURI, root, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, oaserrors.ErrRefNotFound))
			assert.False(t, errors.Is(err, oaserrors.ErrUnreachable))

			var refErr *oaserrors.ReferenceError
			require.True(t, errors.As(err, &refErr))
			assert.Equal(t, ref, refErr.Ref)
			assert.Equal(t, rootURI, refErr.BaseURI)
			assert.Equal(t, "local", refErr.RefType)
		})
	}
}

func TestResolveUnreachable(t *testing.T) {
	r, _ := newTestResolver(nil)

	_, err := r.Resolve(context.Background(), "missing.json#/X", rootURI, map[string]any{}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, oaserrors.ErrUnreachable))
	assert.True(t, errors.Is(err, oaserrors.ErrRefNotFound))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	var refErr *oaserrors.ReferenceError
	require.True(t, errors.As(err, &refErr))
	assert.Equal(t, "file", refErr.RefType)
}

func TestResolveTypedFetchErrorsPassThrough(t *testing.T) {
	schemeErr := &oaserrors.SchemeError{URI: "ftp://x/a.json", Scheme: "ftp"}
	fetcher := FetcherFunc(func(context.Context, string, string) (any, error) {
		return nil, schemeErr
	})
	r := NewResolver(fetcher, nil)

	_, err := r.Resolve(context.Background(), "ftp://x/a.json#/A", rootURI, nil, nil)
	var got *oaserrors.SchemeError
	require.True(t, errors.As(err, &got))
	assert.Same(t, schemeErr, got)
}

func TestResolveCircular(t *testing.T) {
	root := testutil.NewPetstoreDocument()
	r, _ := newTestResolver(nil)
	key := uri.MakeCacheKey(rootURI, "#/components/schemas/Pet")
	stack := []string{rootURI + "#/paths", key}

	_, err := r.Resolve(context.Background(), "#/components/schemas/Pet", rootURI, root, stack)
	require.Error(t, err)
	assert.True(t, errors.Is(err, oaserrors.ErrCircularReference))

	var refErr *oaserrors.ReferenceError
	require.True(t, errors.As(err, &refErr))
	assert.Equal(t, []string{rootURI + "#/paths", key, key}, refErr.Chain)
	assert.Len(t, stack, 2, "caller's stack must not change")
}

func TestResolveMaxDepth(t *testing.T) {
	root := testutil.NewPetstoreDocument()
	r, _ := newTestResolver(nil, WithMaxDepth(2))
	assert.Equal(t, 2, r.MaxDepth())

	_, err := r.Resolve(context.Background(), "#/components/schemas/Pet", rootURI, root, []string{"a#", "b#"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, oaserrors.ErrCircularReference))
	assert.Contains(t, err.Error(), "maximum depth 2")

	_, err = r.Resolve(context.Background(), "#/components/schemas/Pet", rootURI, root, []string{"a#"})
	assert.NoError(t, err)
}

func TestResolveWithin(t *testing.T) {
	root := testutil.NewPetstoreDocument()
	r, _ := newTestResolver(nil)

	stack := make([]string, 70)
	for i := range stack {
		stack[i] = fmt.Sprintf("%s#/n%d", rootURI, i)
	}

	_, err := r.ResolveWithin(context.Background(), "#/components/schemas/Pet", rootURI, root, stack, 100)
	require.NoError(t, err)

	r, _ = newTestResolver(nil)
	_, err = r.ResolveWithin(context.Background(), "#/components/schemas/Pet", rootURI, root, stack, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), fmt.Sprintf("maximum depth %d", DefaultMaxDepth))
}

func TestResolveCacheHitSkipsChecks(t *testing.T) {
	root := testutil.NewPetstoreDocument()
	r, _ := newTestResolver(nil, WithMaxDepth(1))
	first, err := r.Resolve(context.Background(), "#/components/schemas/Pet", rootURI, root, nil)
	require.NoError(t, err)

	key := first.CacheKey()
	again, err := r.Resolve(context.Background(), "#/components/schemas/Pet", rootURI, root, []string{key, "x#"})
	require.NoError(t, err)
	assert.Same(t, first, again)
}

func TestNewResolverDefaults(t *testing.T) {
	r := NewResolver(nil, nil, WithMaxDepth(0), WithLogger(nil))
	assert.IsType(t, &DefaultFetcher{}, r.Fetcher())
	assert.IsType(t, &MemoryCache{}, r.Cache())
	assert.Equal(t, DefaultMaxDepth, r.MaxDepth())
	assert.IsType(t, NopLogger{}, r.logger)
}

func TestIsContainer(t *testing.T) {
	assert.True(t, IsContainer(map[string]any{}))
	assert.True(t, IsContainer([]any{}))
	assert.False(t, IsContainer("x"))
	assert.False(t, IsContainer(nil))
	assert.False(t, IsContainer(1.0))
}

package ref

import "context"

// Fetcher loads and decodes one document.
//
// A relative uri is resolved against baseURI before loading. Implementations
// return the decoded tree (map[string]any, []any, or a scalar) and must not
// retain or mutate it after returning unless they own it exclusively, as
// [CachingFetcher] does.
type Fetcher interface {
	Fetch(ctx context.Context, uri, baseURI string) (any, error)
}

// FetcherFunc adapts an ordinary function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, uri, baseURI string) (any, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, uri, baseURI string) (any, error) {
	return f(ctx, uri, baseURI)
}

var _ Fetcher = FetcherFunc(nil)

package ref

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/erraggy/oasref"
	"github.com/erraggy/oasref/internal/httputil"
	"github.com/erraggy/oasref/oaserrors"
	"github.com/erraggy/oasref/uri"
)

// MaxFileSize is the default maximum size in bytes of a fetched document (10MB).
const MaxFileSize int64 = 10 * 1024 * 1024

// DefaultFetcher loads documents from the local filesystem and over HTTP(S).
//
// Plain paths and file: URIs are read from disk; http and https URIs are
// fetched with a GET request. Other schemes fail with a [oaserrors.SchemeError].
// The zero value is ready to use.
type DefaultFetcher struct {
	// HTTPClient is used for http and https URIs. When nil, a client with a
	// 30 second timeout is built per request.
	HTTPClient *http.Client
	// UserAgent is sent with HTTP requests. Defaults to oasref/<version>.
	UserAgent string
	// InsecureSkipVerify disables TLS certificate verification for the
	// built-in client. It is ignored when HTTPClient is set.
	InsecureSkipVerify bool
	// AllowYAML decodes .yaml/.yml sources and YAML media types instead of
	// rejecting them.
	AllowYAML bool
	// MaxFileSize bounds the size of a single document. Zero means [MaxFileSize].
	MaxFileSize int64
	// RootDir, when set, confines local file reads to this directory tree.
	RootDir string
	// Logger receives debug output. Nil discards it.
	Logger Logger
}

var _ Fetcher = (*DefaultFetcher)(nil)

// Fetch implements Fetcher.
func (f *DefaultFetcher) Fetch(ctx context.Context, u, baseURI string) (any, error) {
	target := u
	if baseURI != "" {
		target = uri.ResolveRelative(baseURI, u)
	}
	target, _, _ = strings.Cut(target, "#")

	switch uri.Scheme(target) {
	case uri.SchemeFile:
		return f.loadLocal(ctx, uri.FilePath(target), target)
	case uri.SchemeHTTP, uri.SchemeHTTPS:
		return f.loadHTTP(ctx, target)
	case "":
		return f.loadLocal(ctx, target, target)
	default:
		return nil, &oaserrors.SchemeError{URI: target, Scheme: uri.Scheme(target)}
	}
}

func (f *DefaultFetcher) maxSize() int64 {
	if f.MaxFileSize > 0 {
		return f.MaxFileSize
	}
	return MaxFileSize
}

func (f *DefaultFetcher) loadLocal(ctx context.Context, path, source string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, unreachable(source, "file", "", err)
	}
	if path == "" {
		return nil, unreachable(source, "file", "empty path", nil)
	}
	if err := f.checkRoot(path, source); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, unreachable(source, "file", "", err)
	}
	if info.IsDir() {
		return nil, unreachable(source, "file", "not a regular file", nil)
	}
	if info.Size() > f.maxSize() {
		return nil, &oaserrors.ResourceLimitError{
			ResourceType: "file_size",
			Limit:        f.maxSize(),
			Actual:       info.Size(),
			Message:      source,
		}
	}

	data, err := os.ReadFile(path) //nolint:gosec // path comes from the document being expanded
	if err != nil {
		return nil, unreachable(source, "file", "", err)
	}
	LoggerOrNop(f.Logger).Debug("read document", "path", path, "bytes", len(data))
	return Decode(data, source, DetectFormat(path, ""), f.AllowYAML)
}

// checkRoot rejects paths that resolve outside RootDir.
func (f *DefaultFetcher) checkRoot(path, source string) error {
	if f.RootDir == "" {
		return nil
	}
	absRoot, err := filepath.Abs(f.RootDir)
	if err != nil {
		return fmt.Errorf("ref: failed to resolve root directory: %w", err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("ref: failed to resolve file path: %w", err)
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return &oaserrors.ReferenceError{Ref: source, RefType: "file", IsPathTraversal: true}
	}
	return nil
}

func (f *DefaultFetcher) client() *http.Client {
	if f.HTTPClient != nil {
		if f.InsecureSkipVerify {
			LoggerOrNop(f.Logger).Warn("InsecureSkipVerify ignored when HTTPClient provided; configure TLS on your client's transport")
		}
		return f.HTTPClient
	}
	client := &http.Client{Timeout: httputil.DefaultTimeout}
	if f.InsecureSkipVerify {
		client.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true, //nolint:gosec // User explicitly requested insecure mode
				MinVersion:         tls.VersionTLS12,
			},
		}
	}
	return client
}

func (f *DefaultFetcher) loadHTTP(ctx context.Context, target string) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, unreachable(target, "http", "invalid request", err)
	}
	userAgent := f.UserAgent
	if userAgent == "" {
		userAgent = oasref.UserAgent()
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.8")

	LoggerOrNop(f.Logger).Debug("fetching document", "url", target)
	resp, err := f.client().Do(req) //nolint:gosec // URL comes from the document being expanded
	if err != nil {
		return nil, unreachable(target, "http", "", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, unreachable(target, "http", fmt.Sprintf("HTTP %d: %s", resp.StatusCode, resp.Status), nil)
	}

	limit := f.maxSize()
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, unreachable(target, "http", "failed to read response body", err)
	}
	if int64(len(data)) > limit {
		return nil, &oaserrors.ResourceLimitError{
			ResourceType: "file_size",
			Limit:        limit,
			Message:      target,
		}
	}
	return Decode(data, target, DetectFormat(target, resp.Header.Get("Content-Type")), f.AllowYAML)
}

func unreachable(source, refType, msg string, cause error) error {
	return &oaserrors.ReferenceError{
		Ref:           source,
		RefType:       refType,
		IsUnreachable: true,
		Message:       msg,
		Cause:         cause,
	}
}

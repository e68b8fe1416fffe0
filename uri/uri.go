package uri

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// URI schemes understood by ResolveRelative and the default fetcher.
const (
	SchemeHTTP  = "http"
	SchemeHTTPS = "https"
	SchemeFile  = "file"
)

// IsLocalRef reports whether ref is a pure fragment ("#...") addressing the
// document it appears in.
func IsLocalRef(ref string) bool {
	return strings.HasPrefix(ref, "#")
}

// Scheme returns the lowercased scheme of u, or "" when u is a plain path.
func Scheme(u string) string {
	i := strings.Index(u, ":")
	if i <= 0 {
		return ""
	}
	for j, c := range u[:i] {
		isAlpha := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		if j == 0 && !isAlpha {
			return ""
		}
		if !isAlpha && (c < '0' || c > '9') && c != '+' && c != '-' && c != '.' {
			return ""
		}
	}
	// a single letter followed by ':' is a Windows drive, not a scheme
	if i == 1 {
		return ""
	}
	return strings.ToLower(u[:i])
}

// IsHTTP reports whether u uses the http or https scheme.
func IsHTTP(u string) bool {
	s := Scheme(u)
	return s == SchemeHTTP || s == SchemeHTTPS
}

// Absolute makes a schemeless path absolute. URIs with a scheme and the empty
// string are returned unchanged.
func Absolute(u string) string {
	if u == "" || Scheme(u) != "" {
		return u
	}
	abs, err := filepath.Abs(u)
	if err != nil {
		return u
	}
	return filepath.ToSlash(abs)
}

// FilePath returns the local filesystem path addressed by a file: URI or a
// schemeless path.
func FilePath(u string) string {
	if Scheme(u) != SchemeFile {
		return u
	}
	parsed, err := url.Parse(u)
	if err != nil {
		return strings.TrimPrefix(strings.TrimPrefix(u, "file:"), "//")
	}
	if parsed.Path != "" {
		return parsed.Path
	}
	return parsed.Opaque
}

// ResolveRelative resolves ref against baseURI.
//
// A pure fragment is appended to baseURI unchanged. An absolute http, https,
// or file ref is returned with its path normalized, and a ref with any other
// scheme is returned as-is. Otherwise the ref path is
// joined with the directory of baseURI according to the base scheme; a ref
// path beginning with "/" replaces the base path. Refs against a base with an
// unknown scheme are returned as-is.
func ResolveRelative(baseURI, ref string) string {
	pathPart, fragment := cutFragment(ref)
	if pathPart == "" {
		return baseURI + fragment
	}

	switch Scheme(pathPart) {
	case "":
	case SchemeHTTP, SchemeHTTPS, SchemeFile:
		return normalizeAbsolute(pathPart) + fragment
	default:
		return ref
	}

	// network-path reference: keep the base scheme, take the ref's authority
	if strings.HasPrefix(pathPart, "//") && IsHTTP(baseURI) {
		return normalizeAbsolute(Scheme(baseURI)+":"+pathPart) + fragment
	}

	switch Scheme(baseURI) {
	case SchemeHTTP, SchemeHTTPS:
		base, err := url.Parse(baseURI)
		if err != nil {
			return ref
		}
		dir := dirOf(base.EscapedPath())
		if dir == "" {
			dir = "/"
		}
		return base.Scheme + "://" + base.Host + NormalizePath(join(dir, pathPart)) + fragment

	case SchemeFile:
		dir := dirOf(FilePath(baseURI))
		if dir == "" {
			dir = "/"
		}
		return "file://" + NormalizePath(join(dir, pathPart)) + fragment

	case "":
		baseDir := ""
		if baseURI != "" {
			if info, err := os.Stat(baseURI); err == nil && info.IsDir() {
				baseDir = strings.TrimRight(baseURI, `/\`) + "/"
			} else {
				baseDir = dirOf(baseURI)
			}
		}
		joined := join(baseDir, pathPart)
		if !strings.HasPrefix(joined, "/") {
			return normalizeRelative(joined) + fragment
		}
		return NormalizePath(joined) + fragment
	}

	return ref
}

// NormalizePath removes "." and ".." segments from a slash-separated path.
// The path is treated as rooted: a leading empty segment marks the root and is
// never popped, and ".." segments above it are dropped. Empty segments
// elsewhere are dropped, so a trailing slash does not survive. An empty result
// is "/".
func NormalizePath(p string) string {
	stack := make([]string, 0, strings.Count(p, "/")+1)
	for _, seg := range strings.Split(p, "/") {
		switch seg {
		case "", ".":
			if seg == "" && len(stack) == 0 {
				stack = append(stack, "")
			}
		case "..":
			if len(stack) > 0 && stack[len(stack)-1] != "" {
				stack = stack[:len(stack)-1]
			}
		default:
			stack = append(stack, seg)
		}
	}
	normalized := strings.Join(stack, "/")
	if normalized == "" {
		return "/"
	}
	return normalized
}

// normalizeRelative is NormalizePath for paths without a root. Leading ".."
// segments that have nothing to cancel are kept.
func normalizeRelative(p string) string {
	stack := make([]string, 0, strings.Count(p, "/")+1)
	for _, seg := range strings.Split(p, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(stack) > 0 && stack[len(stack)-1] != ".." {
				stack = stack[:len(stack)-1]
			} else {
				stack = append(stack, "..")
			}
		default:
			stack = append(stack, seg)
		}
	}
	if len(stack) == 0 {
		return "."
	}
	return strings.Join(stack, "/")
}

// SplitRef splits ref into the absolute URI of the target document and the
// JSON Pointer inside it. An empty path part addresses baseURI itself. The
// pointer is percent-decoded and always "" or "/"-prefixed.
func SplitRef(baseURI, ref string) (docURI, pointer string) {
	pathPart, fragment := cutFragment(ref)
	if pathPart == "" {
		docURI = baseURI
	} else {
		docURI, _ = cutFragment(ResolveRelative(baseURI, pathPart))
	}
	return docURI, decodePointer(strings.TrimPrefix(fragment, "#"))
}

func decodePointer(raw string) string {
	if raw == "" {
		return ""
	}
	if decoded, err := url.PathUnescape(raw); err == nil {
		raw = decoded
	}
	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	return raw
}

// cutFragment splits s at its first '#'; the fragment keeps its '#'.
func cutFragment(s string) (string, string) {
	if i := strings.IndexByte(s, '#'); i >= 0 {
		return s[:i], s[i:]
	}
	return s, ""
}

// dirOf returns p up to and including its last '/', or "" if it has none.
func dirOf(p string) string {
	if p == "" || strings.HasSuffix(p, "/") {
		return p
	}
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[:i+1]
	}
	return ""
}

func join(dir, rel string) string {
	if strings.HasPrefix(rel, "/") {
		return rel
	}
	return dir + rel
}

func normalizeAbsolute(u string) string {
	parsed, err := url.Parse(u)
	if err != nil {
		return u
	}
	if parsed.Scheme == SchemeFile {
		return "file://" + NormalizePath(FilePath(u))
	}
	out := parsed.Scheme + "://" + parsed.Host + NormalizePath(parsed.EscapedPath())
	if parsed.RawQuery != "" {
		out += "?" + parsed.RawQuery
	}
	return out
}

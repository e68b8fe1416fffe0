package uri

import (
	"strconv"
	"strings"
)

var (
	tokenEscaper   = strings.NewReplacer("~", "~0", "/", "~1")
	tokenUnescaper = strings.NewReplacer("~1", "/", "~0", "~")
)

// EscapeToken escapes a JSON Pointer reference token per RFC 6901.
func EscapeToken(token string) string {
	return tokenEscaper.Replace(token)
}

// UnescapeToken reverses EscapeToken. "~1" is decoded before "~0", so "~01"
// yields the literal "~1".
func UnescapeToken(token string) string {
	return tokenUnescaper.Replace(token)
}

// JoinPointer renders unescaped segments as a JSON Pointer.
// No segments yields "", the whole-document pointer.
func JoinPointer(segments []string) string {
	if len(segments) == 0 {
		return ""
	}
	var b strings.Builder
	for _, seg := range segments {
		b.WriteByte('/')
		b.WriteString(EscapeToken(seg))
	}
	return b.String()
}

// SplitPointer returns the unescaped segments of pointer. A pointer without a
// leading "/" is treated as if it had one.
func SplitPointer(pointer string) []string {
	if pointer == "" {
		return nil
	}
	tokens := strings.Split(strings.TrimPrefix(pointer, "/"), "/")
	for i, tok := range tokens {
		tokens[i] = UnescapeToken(tok)
	}
	return tokens
}

// GetByPointer walks doc along pointer. The empty pointer returns doc itself.
// Each token is tried as an object key first, then as a list index. Any miss
// returns false; this never fails with an error.
func GetByPointer(doc any, pointer string) (any, bool) {
	node := doc
	for _, key := range SplitPointer(pointer) {
		switch n := node.(type) {
		case map[string]any:
			v, ok := n[key]
			if !ok {
				return nil, false
			}
			node = v
		case []any:
			idx, ok := listIndex(key, len(n))
			if !ok {
				return nil, false
			}
			node = n[idx]
		default:
			return nil, false
		}
	}
	return node, true
}

func listIndex(token string, length int) (int, bool) {
	if token == "" || (len(token) > 1 && token[0] == '0') {
		return 0, false
	}
	for i := 0; i < len(token); i++ {
		if token[i] < '0' || token[i] > '9' {
			return 0, false
		}
	}
	idx, err := strconv.Atoi(token)
	if err != nil || idx >= length {
		return 0, false
	}
	return idx, true
}

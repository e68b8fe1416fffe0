package uri

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChainKey(t *testing.T) {
	assert.Equal(t, "file:///a/a.json#/x", ChainKey("file:///a/a.json", "/x"))
	assert.Equal(t, "file:///a/a.json#", ChainKey("file:///a/a.json", ""))
}

func TestChainKeyUnicodeNormalization(t *testing.T) {
	composed := "file:///specs/caf\u00e9.json"
	decomposed := "file:///specs/cafe\u0301.json"
	assert.NotEqual(t, composed, decomposed)
	assert.Equal(t, ChainKey(composed, "/a"), ChainKey(decomposed, "/a"))
}

func TestMakeCacheKey(t *testing.T) {
	base := "file:///a/a.json"
	assert.Equal(t, "file:///a/a.json#/x", MakeCacheKey(base, "#/x"))
	assert.Equal(t, "file:///a/b.json#/y", MakeCacheKey(base, "b.json#/y"))
	assert.Equal(t, MakeCacheKey(base, "./b.json#/y"), MakeCacheKey(base, "sub/../b.json#/y"))
	assert.Equal(t, MakeCacheKey(base, "#/x"), MakeCacheKey(base, "a.json#/x"))
}

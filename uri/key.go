package uri

import "golang.org/x/text/unicode/norm"

// ChainKey is the canonical identity of a resolution target: the NFC form of
// the document URI, "#", and the pointer. Resolver caches and cycle chains
// both key on it, so two spellings of the same target never diverge.
func ChainKey(docURI, pointer string) string {
	return norm.NFC.String(docURI) + "#" + pointer
}

// MakeCacheKey splits ref against baseURI and returns its ChainKey.
func MakeCacheKey(baseURI, ref string) string {
	return ChainKey(SplitRef(baseURI, ref))
}

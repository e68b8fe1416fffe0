// Package uri resolves $ref strings against base URIs and navigates decoded
// documents with RFC 6901 JSON Pointers.
//
// Three kinds of base are understood: http(s) URLs, file: URIs, and plain
// filesystem paths. Relative refs are joined with the directory of the base
// and dot segments are collapsed:
//
//	uri.ResolveRelative("http://host/api/root.json", "models/user.json#/User")
//	// http://host/api/models/user.json#/User
//
//	uri.SplitRef("file:///var/spec/root.json", "../common.json#/X")
//	// file:///var/common.json, /X
//
// Every function is pure except ResolveRelative against a schemeless base,
// which stats the base to decide whether it names a directory.
package uri

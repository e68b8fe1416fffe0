package parser

// NodeKind is an advisory label for what a node in an OpenAPI document is.
// Resolution never consults it; it exists for NodeFactory implementations and
// other consumers building typed models from the expanded tree.
type NodeKind string

// Node kinds recognized by HintKind.
const (
	KindDocument     NodeKind = "OpenApiDocument"
	KindPaths        NodeKind = "Paths"
	KindComponents   NodeKind = "Components"
	KindSchemaMap    NodeKind = "SchemaMap"
	KindParameterMap NodeKind = "ParameterMap"
	KindResponseMap  NodeKind = "ResponseMap"
)

// HintKind guesses the kind of the value stored under key in a node of kind
// parent. Unrecognized keys inherit the parent's kind.
func HintKind(key string, parent NodeKind) NodeKind {
	switch {
	case key == "paths":
		return KindPaths
	case key == "components":
		return KindComponents
	case parent == KindComponents && key == "schemas":
		return KindSchemaMap
	case parent == KindComponents && key == "parameters":
		return KindParameterMap
	case parent == KindComponents && key == "responses":
		return KindResponseMap
	}
	return parent
}

// HintKindAt folds HintKind over segments starting from the document root.
func HintKindAt(segments []string) NodeKind {
	kind := KindDocument
	for _, seg := range segments {
		kind = HintKind(seg, kind)
	}
	return kind
}

package parser

// NodeFactory turns an expanded node into the caller's model. Parse calls it
// once, on the expanded document root, with KindDocument.
type NodeFactory interface {
	Make(kind NodeKind, data any, pc PathContext, opts ParseOptions) (any, error)
}

// NodeFactoryFunc adapts a function to NodeFactory.
type NodeFactoryFunc func(kind NodeKind, data any, pc PathContext, opts ParseOptions) (any, error)

// Make calls f.
func (f NodeFactoryFunc) Make(kind NodeKind, data any, pc PathContext, opts ParseOptions) (any, error) {
	return f(kind, data, pc, opts)
}

// PassThroughFactory returns data unchanged.
type PassThroughFactory struct{}

// Make returns data.
func (PassThroughFactory) Make(_ NodeKind, data any, _ PathContext, _ ParseOptions) (any, error) {
	return data, nil
}

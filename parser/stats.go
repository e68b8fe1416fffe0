package parser

// DocumentStats contains statistical information about an expanded document
type DocumentStats struct {
	PathCount      int // Number of paths defined
	OperationCount int // Total number of operations across all paths
	SchemaCount    int // Number of schemas/definitions
}

var operationMethods = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace", "query"}

// GetDocumentStats returns statistics for a decoded or expanded document.
// Swagger 2.0 schemas are counted under definitions, OAS 3.x schemas under
// components/schemas.
func GetDocumentStats(doc any) DocumentStats {
	var stats DocumentStats
	m, ok := doc.(map[string]any)
	if !ok {
		return stats
	}

	if paths, ok := m["paths"].(map[string]any); ok {
		stats.PathCount = len(paths)
		for _, item := range paths {
			stats.OperationCount += countPathItemOperations(item)
		}
	}

	if defs, ok := m["definitions"].(map[string]any); ok {
		stats.SchemaCount = len(defs)
	}
	if comps, ok := m["components"].(map[string]any); ok {
		if schemas, ok := comps["schemas"].(map[string]any); ok {
			stats.SchemaCount = len(schemas)
		}
	}

	return stats
}

// countPathItemOperations counts operations in a single path item
func countPathItemOperations(item any) int {
	pathItem, ok := item.(map[string]any)
	if !ok {
		return 0
	}
	count := 0
	for _, method := range operationMethods {
		if _, ok := pathItem[method].(map[string]any); ok {
			count++
		}
	}
	return count
}

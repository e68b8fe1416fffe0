package parser

// mergeObjects overlays siblings on top of target and returns a new map.
// Nested objects merge recursively. Any other conflict, lists included, is
// won by the sibling value.
func mergeObjects(target, siblings map[string]any) map[string]any {
	out := make(map[string]any, len(target)+len(siblings))
	for k, v := range target {
		out[k] = v
	}
	for k, v := range siblings {
		left, lok := out[k].(map[string]any)
		right, rok := v.(map[string]any)
		if lok && rok {
			out[k] = mergeObjects(left, right)
			continue
		}
		out[k] = v
	}
	return out
}

// deepCopy recursively copies a decoded JSON value.
func deepCopy(v any) any {
	switch t := v.(type) {
	case []any:
		cp := make([]any, len(t))
		for i, item := range t {
			cp[i] = deepCopy(item)
		}
		return cp
	case map[string]any:
		cp := make(map[string]any, len(t))
		for k, item := range t {
			cp[k] = deepCopy(item)
		}
		return cp
	default:
		// Scalars copy by value
		return v
	}
}

package value

// Clone returns a mutable deep copy of v. Shared containers stay shared in
// the copy and cycles are preserved. Leaves are copied by value.
func Clone[V any](v V) V {
	cloned := cloneNode(any(v), map[any]any{})
	out, _ := cloned.(V)
	return out
}

func cloneNode(node any, copies map[any]any) any {
	switch n := node.(type) {
	case *Map:
		if n == nil {
			return n
		}
		if existing, ok := copies[n]; ok {
			return existing
		}
		clone := &Map{entries: make(map[string]any, len(n.entries))}
		copies[n] = clone
		for key, entry := range n.entries {
			clone.entries[key] = cloneNode(entry, copies)
		}
		return clone
	case *List:
		if n == nil {
			return n
		}
		if existing, ok := copies[n]; ok {
			return existing
		}
		clone := &List{items: make([]any, len(n.items))}
		copies[n] = clone
		for i, item := range n.items {
			clone.items[i] = cloneNode(item, copies)
		}
		return clone
	case []byte:
		return copyBytes(n)
	default:
		return node
	}
}

package value

// DeepFreeze freezes v and every container reachable from it, then returns v.
// Leaves are returned unchanged. Containers already frozen are terminal, and
// containers shared by several parents (or forming cycles) are visited once,
// so DeepFreeze is idempotent and always terminates.
func DeepFreeze[V any](v V) V {
	freezeGraph(any(v))
	return v
}

// IsFrozen reports whether v is a frozen container. Leaves are always
// reported as frozen since they cannot be mutated in place.
func IsFrozen(v any) bool {
	switch node := v.(type) {
	case *Map:
		return node == nil || node.IsFrozen()
	case *List:
		return node == nil || node.IsFrozen()
	default:
		return true
	}
}

func freezeGraph(root any) {
	seen := map[any]struct{}{}
	// Containers are frozen only after their children are queued; the seen set
	// guarantees each container is expanded once.
	var pending []any
	push := func(node any) {
		switch n := node.(type) {
		case *Map:
			if n == nil || n.IsFrozen() {
				return
			}
		case *List:
			if n == nil || n.IsFrozen() {
				return
			}
		default:
			return
		}
		if _, ok := seen[node]; ok {
			return
		}
		seen[node] = struct{}{}
		pending = append(pending, node)
	}

	push(root)
	for len(pending) > 0 {
		node := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		switch n := node.(type) {
		case *Map:
			for _, entry := range n.entries {
				push(entry)
			}
			n.frozen.Store(true)
		case *List:
			for _, item := range n.items {
				push(item)
			}
			n.frozen.Store(true)
		}
	}
}

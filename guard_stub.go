//go:build store_prodmode

package store

// ensureStateIsImmutable is unavailable under store_prodmode; the guard and
// the freeze traversal are left out of the binary.
func ensureStateIsImmutable(root StateOperations) StateOperations {
	return root
}

func guardAvailable() bool {
	return false
}

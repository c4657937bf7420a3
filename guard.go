//go:build !store_prodmode

package store

import (
	"context"

	"github.com/goliatone/go-statestore/dispatch"
	"github.com/goliatone/go-statestore/value"
)

// guardedOperations deep-freezes every value written through SetState so
// state-handling logic that edits a committed snapshot in place fails with
// value.ErrFrozen instead of silently corrupting the tree.
type guardedOperations struct {
	root StateOperations
}

func ensureStateIsImmutable(root StateOperations) StateOperations {
	return guardedOperations{root: root}
}

func guardAvailable() bool {
	return true
}

func (g guardedOperations) GetState() *value.Map {
	return g.root.GetState()
}

func (g guardedOperations) SetState(state *value.Map) {
	g.root.SetState(value.DeepFreeze(state))
}

func (g guardedOperations) Dispatch(ctx context.Context, actions ...dispatch.Action) *dispatch.Completion {
	return g.root.Dispatch(ctx, actions...)
}

func (guardedOperations) variant() Variant {
	return VariantGuarded
}

// Package dispatch routes actions into state-handling logic and reports their
// completion.
package dispatch

import (
	"context"
	"strings"
)

// Action is anything that can be dispatched. Type identifies the handlers
// that receive it.
type Action interface {
	Type() string
}

// Named is a payload-free action identified by its type string.
type Named string

// Type implements Action.
func (n Named) Type() string {
	return string(n)
}

// Dispatcher accepts one or many actions and returns a completion signal.
type Dispatcher interface {
	Dispatch(ctx context.Context, actions ...Action) *Completion
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(ctx context.Context, actions ...Action) *Completion

// Dispatch implements Dispatcher.
func (f DispatcherFunc) Dispatch(ctx context.Context, actions ...Action) *Completion {
	if f == nil {
		return Resolved(nil)
	}
	return f(ctx, actions...)
}

func typeKey(action Action) string {
	if action == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(action.Type()))
}

package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Handler reacts to one action.
type Handler func(ctx context.Context, action Action) error

// Router is a Dispatcher that routes actions to handlers registered by action
// type. Handlers run on the dispatching goroutine, in registration order,
// action by action. Actions without handlers are ignored.
type Router struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewRouter constructs an empty router.
func NewRouter() *Router {
	return &Router{handlers: make(map[string][]Handler)}
}

// Handle registers fn for actionType. Types are matched case-insensitively;
// handlers sharing a type run in registration order.
func (r *Router) Handle(actionType string, fn Handler) error {
	if fn == nil {
		return fmt.Errorf("dispatch: handler for %q is nil", actionType)
	}
	key := strings.ToLower(strings.TrimSpace(actionType))
	if key == "" {
		return fmt.Errorf("dispatch: action type must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.handlers == nil {
		r.handlers = make(map[string][]Handler)
	}
	r.handlers[key] = append(r.handlers[key], fn)
	return nil
}

// Types returns the registered action types, sorted.
func (r *Router) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.handlers))
	for key := range r.handlers {
		types = append(types, key)
	}
	sort.Strings(types)
	return types
}

// Dispatch runs the handlers for each action and resolves the returned
// completion with every handler error joined.
func (r *Router) Dispatch(ctx context.Context, actions ...Action) *Completion {
	if ctx == nil {
		ctx = context.Background()
	}
	var errs []error
	for _, action := range actions {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		r.mu.RLock()
		handlers := append([]Handler(nil), r.handlers[typeKey(action)]...)
		r.mu.RUnlock()
		for _, handler := range handlers {
			if err := handler(ctx, action); err != nil {
				errs = append(errs, fmt.Errorf("dispatch: %s: %w", action.Type(), err))
			}
		}
	}
	return Resolved(errors.Join(errs...))
}

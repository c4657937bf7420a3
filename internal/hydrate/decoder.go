// Package hydrate turns persisted JSON payloads into state values.
package hydrate

import (
	"fmt"

	"github.com/goliatone/go-statestore/value"
)

// Context carries identifiers tied to a stored payload.
type Context struct {
	Name       string
	SnapshotID string
}

// PreHook lets callers rewrite the decoded payload before it becomes a state
// value, for example to migrate renamed keys.
type PreHook func(Context, map[string]any) (map[string]any, error)

// PostHook validates or adjusts the hydrated state.
type PostHook func(Context, *value.Map) error

// DecoderOption configures a Decoder instance.
type DecoderOption func(*Decoder)

// Decoder converts stored JSON into *value.Map trees.
type Decoder struct {
	preHooks  []PreHook
	postHooks []PostHook
	required  []string
}

// WithPreHook applies hook prior to building the state value.
func WithPreHook(hook PreHook) DecoderOption {
	return func(d *Decoder) {
		d.preHooks = append(d.preHooks, hook)
	}
}

// WithPostHook applies hook after hydration completes.
func WithPostHook(hook PostHook) DecoderOption {
	return func(d *Decoder) {
		d.postHooks = append(d.postHooks, hook)
	}
}

// WithRequiredKeys rejects payloads missing any of keys at the top level.
func WithRequiredKeys(keys ...string) DecoderOption {
	return func(d *Decoder) {
		d.required = append(d.required, keys...)
	}
}

func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode parses payload and applies the configured hooks. The result is
// always a fresh, unfrozen map.
func (d *Decoder) Decode(ctx Context, payload []byte) (*value.Map, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("hydrate: payload is empty for %q", ctx.Name)
	}

	state, err := value.ParseJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("hydrate: decode %q: %w", ctx.Name, err)
	}

	if len(d.preHooks) > 0 {
		current := state.Native()
		for _, hook := range d.preHooks {
			if hook == nil {
				continue
			}
			next, err := hook(ctx, current)
			if err != nil {
				return nil, fmt.Errorf("hydrate: pre-hook for %q failed: %w", ctx.Name, err)
			}
			if next != nil {
				current = next
			}
		}
		rebuilt, ok := value.FromNative(current).(*value.Map)
		if !ok || rebuilt == nil {
			return nil, fmt.Errorf("hydrate: pre-hooks for %q produced no state", ctx.Name)
		}
		state = rebuilt
	}

	for _, key := range d.required {
		if !state.Has(key) {
			return nil, fmt.Errorf("hydrate: %q is missing required key %q", ctx.Name, key)
		}
	}

	for _, hook := range d.postHooks {
		if hook == nil {
			continue
		}
		if err := hook(ctx, state); err != nil {
			return nil, fmt.Errorf("hydrate: post-hook for %q failed: %w", ctx.Name, err)
		}
	}

	return state, nil
}

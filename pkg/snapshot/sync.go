package snapshot

import (
	"context"
	"fmt"

	"github.com/goliatone/go-statestore/pkg/activity"
	"github.com/goliatone/go-statestore/value"
)

// StateReader exposes the live state. store.StateOperations satisfies it.
type StateReader interface {
	GetState() *value.Map
}

// StateWriter reads and replaces the live state. store.StateOperations
// satisfies it.
type StateWriter interface {
	StateReader
	SetState(state *value.Map)
}

// Option configures Save and Restore.
type Option func(*syncConfig)

type syncConfig struct {
	etag       string
	actorID    string
	emitter    *activity.Emitter
	onActivity func(error)
}

// WithExpectedETag makes Save fail with ErrETagMismatch unless the stored
// snapshot still carries etag.
func WithExpectedETag(etag string) Option {
	return func(cfg *syncConfig) {
		cfg.etag = etag
	}
}

// WithEmitter emits snapshot activity through emitter.
func WithEmitter(emitter *activity.Emitter) Option {
	return func(cfg *syncConfig) {
		cfg.emitter = emitter
	}
}

// WithActor records actorID on emitted activity.
func WithActor(actorID string) Option {
	return func(cfg *syncConfig) {
		cfg.actorID = actorID
	}
}

// WithActivityErrorHandler receives activity failures, which are otherwise
// dropped. They never fail a save or restore.
func WithActivityErrorHandler(fn func(error)) Option {
	return func(cfg *syncConfig) {
		cfg.onActivity = fn
	}
}

func applyOptions(opts []Option) syncConfig {
	var cfg syncConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Save persists the current state of reader under ref.
func Save(ctx context.Context, store Store, ref Ref, reader StateReader, opts ...Option) (Meta, error) {
	if store == nil {
		return Meta{}, fmt.Errorf("snapshot: store is required")
	}
	if reader == nil {
		return Meta{}, fmt.Errorf("snapshot: state reader is required")
	}
	cfg := applyOptions(opts)

	state := reader.GetState()
	meta, err := store.Save(ctx, ref, state, Meta{ETag: cfg.etag})
	if err != nil {
		return meta, fmt.Errorf("snapshot: save %q: %w", ref.Name, err)
	}

	cfg.emit(ctx, activity.BuildSnapshotSavedEvent(activity.StateEventInput{
		ActorID:    cfg.actorID,
		SnapshotID: meta.SnapshotID,
		Keys:       state.Keys(),
		Metadata:   map[string]any{"ref": ref.Name},
		OccurredAt: meta.UpdatedAt,
	}))
	return meta, nil
}

// Restore loads the snapshot stored under ref and merges it over the live
// state: persisted keys win, keys only present in the live state survive.
// The result is written through writer.SetState.
func Restore(ctx context.Context, store Store, ref Ref, writer StateWriter, opts ...Option) (Meta, error) {
	if store == nil {
		return Meta{}, fmt.Errorf("snapshot: store is required")
	}
	if writer == nil {
		return Meta{}, fmt.Errorf("snapshot: state writer is required")
	}
	cfg := applyOptions(opts)

	persisted, meta, ok, err := store.Load(ctx, ref)
	if err != nil {
		return Meta{}, fmt.Errorf("snapshot: restore %q: %w", ref.Name, err)
	}
	if !ok {
		return Meta{}, fmt.Errorf("%w: %q", ErrNotFound, ref.Name)
	}

	writer.SetState(value.Merge(value.Clone(persisted), writer.GetState()))

	cfg.emit(ctx, activity.BuildStateRestoredEvent(activity.StateEventInput{
		ActorID:    cfg.actorID,
		SnapshotID: meta.SnapshotID,
		Keys:       persisted.Keys(),
		Metadata:   map[string]any{"ref": ref.Name},
	}))
	return meta, nil
}

func (cfg syncConfig) emit(ctx context.Context, event activity.Event) {
	if err := cfg.emitter.Emit(ctx, event); err != nil && cfg.onActivity != nil {
		cfg.onActivity(err)
	}
}

// Package snapshot persists and restores the root state tree.
//
// Store implementations only load and save one snapshot per Ref. Save and
// Restore orchestrate a store against the live state:
//
//	Save:    reader.GetState() -> Store.Save
//	Restore: Store.Load -> value.Merge(persisted, current) -> ops.SetState
//
// Restore writes through the state operations it is given, so the restored
// tree is deep-frozen whenever those operations are the guarded variant.
//
// Meta.ETag gives optimistic concurrency: when both the caller and the store
// carry an ETag and they differ, Save fails with ErrETagMismatch.
package snapshot

package activity

import (
	"strings"
	"time"
)

const (
	VerbDefaultsMerged = "state.defaults.merged"
	VerbSnapshotSaved  = "state.snapshot.saved"
	VerbStateRestored  = "state.restored"

	ObjectTypeState    = "state"
	ObjectTypeSnapshot = "state.snapshot"
)

// StateEventInput describes the common fields of state lifecycle events.
type StateEventInput struct {
	ActorID    string
	UserID     string
	TenantID   string
	ObjectID   string
	Channel    string
	Metadata   map[string]any
	Keys       []string
	States     []string
	SnapshotID string
	OccurredAt time.Time
}

// BuildDefaultsMergedEvent describes defaults folded into the live state.
// Keys lists the top-level keys the defaults contributed.
func BuildDefaultsMergedEvent(input StateEventInput) Event {
	return buildStateEvent(VerbDefaultsMerged, ObjectTypeState, input)
}

// BuildSnapshotSavedEvent describes the live state persisted to a store.
func BuildSnapshotSavedEvent(input StateEventInput) Event {
	return buildStateEvent(VerbSnapshotSaved, ObjectTypeSnapshot, input)
}

// BuildStateRestoredEvent describes a persisted snapshot written back into
// the live state.
func BuildStateRestoredEvent(input StateEventInput) Event {
	return buildStateEvent(VerbStateRestored, ObjectTypeState, input)
}

func buildStateEvent(verb, objectType string, input StateEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if len(input.Keys) > 0 {
		metadata = ensureMetadata(metadata)
		metadata["keys"] = append([]string{}, input.Keys...)
	}
	if len(input.States) > 0 {
		metadata = ensureMetadata(metadata)
		metadata["states"] = append([]string{}, input.States...)
	}
	if input.SnapshotID != "" {
		metadata = ensureMetadata(metadata)
		metadata["snapshot_id"] = input.SnapshotID
	}

	objectID := strings.TrimSpace(input.ObjectID)
	if objectID == "" {
		objectID = strings.TrimSpace(input.SnapshotID)
	}
	if objectID == "" {
		objectID = "root"
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		UserID:     strings.TrimSpace(input.UserID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: objectType,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}

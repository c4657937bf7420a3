// Package usersink records state lifecycle activity in a go-users
// ActivitySink.
package usersink

import (
	"context"
	"sort"

	"github.com/goliatone/go-statestore/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Hook forwards state events to Sink as ActivityRecords.
type Hook struct {
	Sink usertypes.ActivitySink
	// Verbs limits forwarding to the listed verbs; empty forwards every verb.
	Verbs []string
}

// Notify records event unless it is incomplete or filtered out.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}
	normalized := activity.NormalizeEvent(event)
	if !normalized.Complete() || !h.forwards(normalized.Verb) {
		return nil
	}
	return h.Sink.Log(ctx, Record(normalized))
}

func (h Hook) forwards(verb string) bool {
	if len(h.Verbs) == 0 {
		return true
	}
	for _, candidate := range h.Verbs {
		if candidate == verb {
			return true
		}
	}
	return false
}

// Record maps a state event to an ActivityRecord. Actor, user and tenant IDs
// that are not UUIDs map to uuid.Nil. The record data carries the event
// metadata with keys and states as sorted []string, a key_count, and the
// snapshot_id for snapshot events.
func Record(event activity.Event) usertypes.ActivityRecord {
	return usertypes.ActivityRecord{
		ActorID:    parseUUID(event.ActorID),
		UserID:     parseUUID(event.UserID),
		TenantID:   parseUUID(event.TenantID),
		Verb:       event.Verb,
		ObjectType: event.ObjectType,
		ObjectID:   event.ObjectID,
		Channel:    event.Channel,
		Data:       recordData(event),
		OccurredAt: event.OccurredAt,
	}
}

func recordData(event activity.Event) map[string]any {
	data := make(map[string]any, len(event.Metadata)+2)
	for key, entry := range event.Metadata {
		data[key] = entry
	}
	if keys := sortedStrings(event.Metadata["keys"]); keys != nil {
		data["keys"] = keys
		data["key_count"] = len(keys)
	}
	if states := sortedStrings(event.Metadata["states"]); states != nil {
		data["states"] = states
	}
	if event.ObjectType == activity.ObjectTypeSnapshot {
		if _, ok := data["snapshot_id"]; !ok {
			data["snapshot_id"] = event.ObjectID
		}
	}
	if len(data) == 0 {
		return nil
	}
	return data
}

func sortedStrings(raw any) []string {
	var out []string
	switch values := raw.(type) {
	case []string:
		out = append(out, values...)
	case []any:
		for _, entry := range values {
			if s, ok := entry.(string); ok {
				out = append(out, s)
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}

func parseUUID(input string) uuid.UUID {
	id, err := uuid.Parse(input)
	if err != nil {
		return uuid.Nil
	}
	return id
}

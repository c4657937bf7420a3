//go:build store_prodmode

package store

import "testing"

func TestProductionBuildDegradesGuardedSelection(t *testing.T) {
	var events []OperationLogEvent
	ops := NewOperations(nil, nil, Config{DevelopmentMode: true},
		WithBuildHint(BuildHintAbsent),
		WithLogger(LoggerFunc(func(e OperationLogEvent) { events = append(events, e) })),
	)

	root := ops.RootOperations()
	if VariantOf(root) != VariantRaw {
		t.Fatalf("expected raw operations when the guard is compiled out")
	}
	if len(events) != 1 || events[0].Operation != OperationGuardUnavailable {
		t.Fatalf("expected guard_unavailable log event, got %+v", events)
	}
}

//go:build !store_prodmode

package store

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/goliatone/go-statestore/dispatch"
	"github.com/goliatone/go-statestore/pkg/activity"
	"github.com/goliatone/go-statestore/stream"
	"github.com/goliatone/go-statestore/value"
)

type recordingDispatcher struct {
	calls      [][]dispatch.Action
	completion *dispatch.Completion
}

func (d *recordingDispatcher) Dispatch(_ context.Context, actions ...dispatch.Action) *dispatch.Completion {
	d.calls = append(d.calls, actions)
	return d.completion
}

func newTestOperations(t *testing.T, variant Variant, opts ...Option) (*Operations, *stream.StateStream, *recordingDispatcher) {
	t.Helper()
	container := stream.New(nil)
	dispatcher := &recordingDispatcher{completion: dispatch.NewCompletion()}
	devMode := variant == VariantGuarded
	opts = append([]Option{WithBuildHint(BuildHintAbsent)}, opts...)
	ops := NewOperations(container, dispatcher, Config{DevelopmentMode: devMode}, opts...)
	if got := VariantOf(ops.RootOperations()); got != variant {
		t.Fatalf("expected %s operations, got %s", variant, got)
	}
	return ops, container, dispatcher
}

func sampleState() *value.Map {
	return value.MapOf(map[string]any{
		"todos": []any{
			map[string]any{"title": "write", "done": false},
		},
		"filter": map[string]any{"status": "all", "tags": []any{"home"}},
		"count":  1,
	})
}

func TestGuardedSetStatePreservesData(t *testing.T) {
	ops, _, _ := newTestOperations(t, VariantGuarded)
	root := ops.RootOperations()

	root.SetState(sampleState())

	if !value.Equal(sampleState(), root.GetState()) {
		t.Fatalf("guarded round trip altered data:\nwant: %#v\n got: %#v", sampleState().Native(), root.GetState().Native())
	}
}

func TestGuardedSetStateRejectsNestedMutation(t *testing.T) {
	ops, _, _ := newTestOperations(t, VariantGuarded)
	root := ops.RootOperations()
	root.SetState(sampleState())

	state := root.GetState()
	filter, _ := state.Map("filter")
	tags, _ := filter.List("tags")
	todos, _ := state.List("todos")
	first, _ := todos.At(0)

	attempts := map[string]error{
		"top level":   state.Set("count", 2),
		"nested map":  filter.Set("status", "done"),
		"nested list": tags.Append("work"),
		"deep entry":  first.(*value.Map).Set("done", true),
	}
	for name, err := range attempts {
		if !errors.Is(err, value.ErrFrozen) {
			t.Fatalf("%s: expected structural mutation error, got %v", name, err)
		}
	}
}

func TestGuardedSetStateProtectsLeafData(t *testing.T) {
	ops, _, _ := newTestOperations(t, VariantGuarded)
	root := ops.RootOperations()
	root.SetState(value.MapOf(map[string]any{
		"blob":  []byte("abc"),
		"index": map[int]string{1: "one"},
	}))

	state := root.GetState()
	blob, _ := state.Get("blob")
	blob.([]byte)[0] = 'X'
	if again, _ := state.Get("blob"); string(again.([]byte)) != "abc" {
		t.Fatalf("expected stored bytes untouched, got %q", again)
	}

	index, ok := state.Map("index")
	if !ok {
		t.Fatalf("expected int-keyed map stored as a container")
	}
	if err := index.Set("1", "mutated"); !errors.Is(err, value.ErrFrozen) {
		t.Fatalf("expected frozen index, got %v", err)
	}
}

func TestRawSetStateAllowsNestedMutation(t *testing.T) {
	ops, _, _ := newTestOperations(t, VariantRaw)
	root := ops.RootOperations()
	root.SetState(sampleState())

	state := root.GetState()
	filter, _ := state.Map("filter")
	if err := filter.Set("status", "done"); err != nil {
		t.Fatalf("expected raw state to stay mutable, got %v", err)
	}
	if value.IsFrozen(state) {
		t.Fatalf("expected raw state to stay unfrozen")
	}
}

func TestGuardedSetStateOnFrozenValue(t *testing.T) {
	ops, _, _ := newTestOperations(t, VariantGuarded)
	root := ops.RootOperations()

	frozen := value.DeepFreeze(sampleState())
	root.SetState(frozen)
	root.SetState(frozen)

	if root.GetState() != frozen {
		t.Fatalf("expected refreezing to store the same value")
	}
}

func TestRootOperationsFollowsDecisionTable(t *testing.T) {
	cases := []struct {
		hint    BuildHint
		testRun bool
		devMode bool
		want    Variant
	}{
		{hint: BuildHintAbsent, devMode: true, want: VariantGuarded},
		{hint: BuildHintAbsent, devMode: false, want: VariantRaw},
		{hint: BuildHintDevelopment, testRun: false, want: VariantGuarded},
		{hint: BuildHintDevelopment, testRun: true, devMode: true, want: VariantGuarded},
		{hint: BuildHintDevelopment, testRun: true, devMode: false, want: VariantRaw},
		{hint: BuildHintProduction, devMode: true, want: VariantRaw},
	}

	for _, tc := range cases {
		testRun := tc.testRun
		ops := NewOperations(stream.New(nil), nil, Config{DevelopmentMode: tc.devMode},
			WithBuildHint(tc.hint),
			WithTestRunPredicate(func() bool { return testRun }),
		)
		root := ops.RootOperations()
		if got := VariantOf(root); got != tc.want {
			t.Fatalf("hint=%s testRun=%v devMode=%v: got %s want %s", tc.hint, tc.testRun, tc.devMode, got, tc.want)
		}
		if ops.Variant() != tc.want {
			t.Fatalf("hint=%s testRun=%v devMode=%v: Variant() disagrees with RootOperations", tc.hint, tc.testRun, tc.devMode)
		}

		root.SetState(sampleState())
		frozen := root.GetState().IsFrozen()
		if frozen != (tc.want == VariantGuarded) {
			t.Fatalf("hint=%s testRun=%v devMode=%v: frozen=%v", tc.hint, tc.testRun, tc.devMode, frozen)
		}
	}
}

func TestRootOperationsEvaluatesTestPredicateOncePerCall(t *testing.T) {
	calls := 0
	ops := NewOperations(nil, nil, Config{DevelopmentMode: true},
		WithBuildHint(BuildHintDevelopment),
		WithTestRunPredicate(func() bool { calls++; return true }),
	)
	ops.RootOperations()
	ops.RootOperations()
	if calls != 2 {
		t.Fatalf("expected predicate evaluated once per call, got %d", calls)
	}
}

func TestMergeDefaultsKeepsCurrentValues(t *testing.T) {
	for _, variant := range []Variant{VariantRaw, VariantGuarded} {
		t.Run(variant.String(), func(t *testing.T) {
			ops, container, _ := newTestOperations(t, variant)
			container.Next(value.MapOf(map[string]any{"a": 1, "b": 2}))

			ops.MergeDefaults(value.MapOf(map[string]any{"b": 99, "c": 3}))

			want := map[string]any{"a": 1, "b": 2, "c": 3}
			if !reflect.DeepEqual(want, container.Value().Native()) {
				t.Fatalf("merge mismatch:\nwant: %#v\n got: %#v", want, container.Value().Native())
			}
			if container.Value().IsFrozen() != (variant == VariantGuarded) {
				t.Fatalf("expected merge write to follow the %s variant", variant)
			}
		})
	}
}

func TestMergeDefaultsIsShallow(t *testing.T) {
	ops, container, _ := newTestOperations(t, VariantGuarded)
	container.Next(value.MapOf(map[string]any{"settings": map[string]any{"theme": "dark"}}))

	ops.MergeDefaults(value.MapOf(map[string]any{"settings": map[string]any{"theme": "light", "lang": "en"}}))

	settings, _ := container.Value().Map("settings")
	if settings.Has("lang") {
		t.Fatalf("expected nested defaults not to be merged: %#v", settings.Native())
	}
}

func TestMergeDefaultsNilIsNoop(t *testing.T) {
	ops, container, _ := newTestOperations(t, VariantGuarded)
	before := container.Value()
	ops.MergeDefaults(nil)
	if container.Value() != before {
		t.Fatalf("expected nil defaults to leave state untouched")
	}
}

func TestSetStateToTheCurrentWithNewEmitsActivity(t *testing.T) {
	capture := &activity.CaptureHook{}
	container := stream.New(value.MapOf(map[string]any{"a": 1}))
	ops := NewOperations(container, nil, Config{DevelopmentMode: true, Activity: activity.Config{Enabled: true}},
		WithBuildHint(BuildHintAbsent),
		WithActivityHooks(activity.Hooks{capture, nil}),
	)
	if !ops.ActivityEnabled() {
		t.Fatalf("expected activity to be enabled")
	}

	ops.SetStateToTheCurrentWithNew(context.Background(), StatesAndDefaults{
		Defaults: value.MapOf(map[string]any{"a": 5, "todos": []any{}}),
		States:   []string{"TodoState"},
	})

	events := capture.Events()
	if len(events) != 1 {
		t.Fatalf("expected one activity event, got %d", len(events))
	}
	if events[0].Verb != activity.VerbDefaultsMerged {
		t.Fatalf("unexpected verb %q", events[0].Verb)
	}
	keys, _ := events[0].Metadata["keys"].([]string)
	if !reflect.DeepEqual([]string{"todos"}, keys) {
		t.Fatalf("expected only added keys reported, got %v", keys)
	}
}

func TestActivityFailureIsLoggedNotPropagated(t *testing.T) {
	boom := errors.New("boom")
	var logged []OperationLogEvent
	ops := NewOperations(nil, nil, Config{Activity: activity.Config{Enabled: true}},
		WithBuildHint(BuildHintAbsent),
		WithActivityHooks(activity.Hooks{&activity.CaptureHook{Err: boom}}),
		WithLogger(LoggerFunc(func(e OperationLogEvent) { logged = append(logged, e) })),
	)

	ops.MergeDefaults(value.MapOf(map[string]any{"a": 1}))

	var found bool
	for _, event := range logged {
		if event.Operation == OperationActivity && errors.Is(event.Err, boom) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected activity failure to be logged, got %+v", logged)
	}
}

func TestDispatchPassthrough(t *testing.T) {
	for _, variant := range []Variant{VariantRaw, VariantGuarded} {
		t.Run(variant.String(), func(t *testing.T) {
			ops, _, dispatcher := newTestOperations(t, variant)
			actionX := dispatch.Named("x")
			actionY := dispatch.Named("y")

			completion := ops.RootOperations().Dispatch(context.Background(), actionX, actionY)

			if len(dispatcher.calls) != 1 {
				t.Fatalf("expected dispatcher invoked once, got %d", len(dispatcher.calls))
			}
			call := dispatcher.calls[0]
			if len(call) != 2 || call[0] != actionX || call[1] != actionY {
				t.Fatalf("unexpected actions forwarded: %v", call)
			}
			if completion != dispatcher.completion {
				t.Fatalf("expected completion returned unchanged")
			}
		})
	}
}

func TestDispatchDoesNotSwallowErrors(t *testing.T) {
	boom := errors.New("boom")
	router := dispatch.NewRouter()
	_ = router.Handle("fail", func(context.Context, dispatch.Action) error { return boom })
	ops := NewOperations(nil, router, Config{DevelopmentMode: true}, WithBuildHint(BuildHintAbsent))

	err := ops.RootOperations().Dispatch(nil, dispatch.Named("fail")).Err()
	if !errors.Is(err, boom) {
		t.Fatalf("expected handler error to propagate, got %v", err)
	}
}

func TestSetStateOrderingIsObservable(t *testing.T) {
	ops, _, _ := newTestOperations(t, VariantGuarded)
	root := ops.RootOperations()
	for i := 0; i < 3; i++ {
		root.SetState(value.MapOf(map[string]any{"step": i}))
		if got, _ := root.GetState().Get("step"); got != i {
			t.Fatalf("expected step %d, got %v", i, got)
		}
	}
}

func TestSlogLoggerDoesNotPanic(t *testing.T) {
	logger := NewSlogLogger(nil)
	logger.LogOperation(OperationLogEvent{Operation: OperationMergeDefaults, Keys: []string{"a"}, Err: errors.New("x")})
}

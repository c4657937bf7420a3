// Package store provides the root state operations facade of a reactive
// application state store. Every read, write and dispatch against the global
// state tree goes through the StateOperations handed out by Operations, which
// decides per call whether writes are deep-frozen to catch in-place mutation.
package store

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/goliatone/go-statestore/dispatch"
	"github.com/goliatone/go-statestore/pkg/activity"
	"github.com/goliatone/go-statestore/stream"
	"github.com/goliatone/go-statestore/value"
)

// Operations is the root state operations facade.
type Operations struct {
	container  StateContainer
	dispatcher dispatch.Dispatcher
	devMode    bool
	cfg        operationsConfig
	emitter    *activity.Emitter
}

// NewOperations wires the facade over container and dispatcher. The
// development mode in cfg is read once here and never again. A nil container
// becomes an empty stream; a nil dispatcher resolves every dispatch at once.
func NewOperations(container StateContainer, dispatcher dispatch.Dispatcher, cfg Config, opts ...Option) *Operations {
	if container == nil {
		container = stream.New(nil)
	}
	if dispatcher == nil {
		dispatcher = dispatch.DispatcherFunc(nil)
	}
	options := applyOptions(opts)
	return &Operations{
		container:  container,
		dispatcher: dispatcher,
		devMode:    cfg.DevelopmentMode,
		cfg:        options,
		emitter:    activity.NewEmitter(options.activityHooks, cfg.Activity),
	}
}

// DevelopmentMode reports the development mode captured at construction.
func (o *Operations) DevelopmentMode() bool {
	return o.devMode
}

// Variant reports which variant RootOperations hands out right now.
func (o *Operations) Variant() Variant {
	variant, _ := o.selectVariant()
	return variant
}

// RootOperations returns the state operations for the whole tree, guarded or
// raw depending on the build hint, the test-run predicate and the
// development mode.
func (o *Operations) RootOperations() StateOperations {
	root := rawOperations{
		container:  o.container,
		dispatcher: o.dispatcher,
		tracer:     o.tracer(),
	}

	variant, testRun := o.selectVariant()
	event := OperationLogEvent{
		Operation: OperationRootOperations,
		Variant:   variant,
		BuildHint: o.cfg.buildHint,
		TestRun:   testRun,
	}
	if variant == VariantGuarded && !guardAvailable() {
		event.Operation = OperationGuardUnavailable
		event.Variant = VariantRaw
		o.logger().LogOperation(event)
		return root
	}
	o.logger().LogOperation(event)

	if variant == VariantGuarded {
		return ensureStateIsImmutable(root)
	}
	return root
}

func (o *Operations) selectVariant() (Variant, bool) {
	testRun := o.cfg.isTestRun()
	return SelectVariant(o.cfg.buildHint, testRun, o.devMode), testRun
}

// MergeDefaults folds defaults into the current state. Keys already present
// in the current state win; the merge is shallow. The write goes through
// RootOperations, so it is frozen whenever guarding is active. A nil
// defaults map is a no-op.
func (o *Operations) MergeDefaults(defaults *value.Map) {
	o.mergeDefaults(context.Background(), defaults, nil)
}

// SetStateToTheCurrentWithNew merges the defaults produced by an
// initialization pass into the current state. See MergeDefaults.
func (o *Operations) SetStateToTheCurrentWithNew(ctx context.Context, results StatesAndDefaults) {
	o.mergeDefaults(ctx, results.Defaults, results.States)
}

func (o *Operations) mergeDefaults(ctx context.Context, defaults *value.Map, states []string) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := o.tracer().Start(ctx, "statestore.merge_defaults")
	defer span.End()

	if defaults == nil {
		return
	}

	start := time.Now()
	ops := o.RootOperations()
	current := ops.GetState()
	added := value.MissingKeys(current, defaults)
	ops.SetState(value.Merge(current, defaults))

	span.SetAttributes(
		attribute.Int("statestore.defaults.keys", defaults.Len()),
		attribute.Int("statestore.defaults.added", len(added)),
		attribute.StringSlice("statestore.states", states),
	)
	o.logger().LogOperation(OperationLogEvent{
		Operation: OperationMergeDefaults,
		Variant:   variantOf(ops),
		BuildHint: o.cfg.buildHint,
		Keys:      added,
		States:    states,
		Duration:  time.Since(start),
	})

	err := o.emitter.Emit(ctx, activity.BuildDefaultsMergedEvent(activity.StateEventInput{
		Keys:   added,
		States: states,
	}))
	if err != nil {
		span.RecordError(err)
		o.logger().LogOperation(OperationLogEvent{
			Operation: OperationActivity,
			BuildHint: o.cfg.buildHint,
			Err:       err,
		})
	}
}

// rawOperations talks to the container and dispatcher directly.
type rawOperations struct {
	container  StateContainer
	dispatcher dispatch.Dispatcher
	tracer     trace.Tracer
}

func (r rawOperations) GetState() *value.Map {
	return r.container.Value()
}

func (r rawOperations) SetState(state *value.Map) {
	r.container.Next(state)
}

func (r rawOperations) Dispatch(ctx context.Context, actions ...dispatch.Action) *dispatch.Completion {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := r.tracer.Start(ctx, "statestore.dispatch",
		trace.WithAttributes(attribute.Int("statestore.actions", len(actions))))
	defer span.End()
	return r.dispatcher.Dispatch(ctx, actions...)
}

func (rawOperations) variant() Variant {
	return VariantRaw
}

// VariantOf reports the variant of operations obtained from RootOperations.
// Foreign implementations report VariantRaw.
func VariantOf(ops StateOperations) Variant {
	return variantOf(ops)
}

func variantOf(ops StateOperations) Variant {
	if v, ok := ops.(interface{ variant() Variant }); ok {
		return v.variant()
	}
	return VariantRaw
}

package store

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/trace"

	"github.com/goliatone/go-statestore/dispatch"
	"github.com/goliatone/go-statestore/pkg/activity"
	"github.com/goliatone/go-statestore/value"
)

// StateOperations is the capability bundle every piece of state-handling
// logic uses to read, replace and dispatch against the global state tree.
// Callers cannot tell whether they hold the raw or the guarded variant.
type StateOperations interface {
	GetState() *value.Map
	SetState(state *value.Map)
	Dispatch(ctx context.Context, actions ...dispatch.Action) *dispatch.Completion
}

// StateContainer holds the current snapshot. Next replaces it and notifies
// observers. *stream.StateStream satisfies it.
type StateContainer interface {
	Value() *value.Map
	Next(state *value.Map)
}

// StatesAndDefaults is the result of an initialization pass: the default
// state contributed by newly registered states, and the names of those
// states.
type StatesAndDefaults struct {
	Defaults *value.Map
	States   []string
}

// Option configures an Operations facade.
type Option func(*operationsConfig)

type operationsConfig struct {
	buildHint     BuildHint
	isTestRun     func() bool
	logger        OperationsLogger
	tracer        trace.Tracer
	activityHooks activity.Hooks
}

func applyOptions(opts []Option) operationsConfig {
	cfg := operationsConfig{
		buildHint: compiledBuildHint,
		isTestRun: testing.Testing,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithBuildHint overrides the build hint compiled in through build tags.
func WithBuildHint(hint BuildHint) Option {
	return func(cfg *operationsConfig) {
		cfg.buildHint = hint
	}
}

// WithTestRunPredicate replaces the predicate reporting whether the process
// runs under a test harness. The default is testing.Testing.
func WithTestRunPredicate(isTestRun func() bool) Option {
	return func(cfg *operationsConfig) {
		if isTestRun == nil {
			return
		}
		cfg.isTestRun = isTestRun
	}
}

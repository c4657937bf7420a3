package selector

import (
	"time"

	"github.com/goliatone/go-statestore/value"
)

// StateReader exposes the current state tree. store.StateOperations
// satisfies it.
type StateReader interface {
	GetState() *value.Map
}

// RuleContext carries the inputs of one selector evaluation.
type RuleContext struct {
	State map[string]any
	Now   *time.Time
	Args  map[string]any
}

func (ctx RuleContext) withDefaults() RuleContext {
	if ctx.Now == nil {
		now := time.Now()
		ctx.Now = &now
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.State == nil {
		ctx.State = map[string]any{}
	}
	return ctx
}

func (ctx RuleContext) timestamp() time.Time {
	return *ctx.withDefaults().Now
}

// bindings returns the variables visible to an expression: now, args, state
// and every top-level state key.
func (ctx RuleContext) bindings() map[string]any {
	env := make(map[string]any, len(ctx.State)+3)
	for key, entry := range ctx.State {
		env[key] = entry
	}
	env["now"] = ctx.timestamp()
	env["args"] = ctx.Args
	env["state"] = ctx.State
	return env
}

// Evaluator executes selector expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string) (CompiledRule, error)
}

// CompiledRule is a reusable selector program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

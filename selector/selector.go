// Package selector evaluates read-only expressions against the current state
// tree. expr-lang/expr is the default engine; cel-go is available through
// WithEngine("cel") and goja through WithEngine("js") when built with the
// js_eval tag.
package selector

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-statestore/value"
)

const (
	EngineExpr = "expr"
	EngineCEL  = "cel"
	EngineJS   = "js"
)

// Engines lists the engine names usable with WithEngine in this build.
func Engines() []string {
	engines := []string{EngineExpr, EngineCEL}
	if jsEvaluatorAvailable() {
		engines = append(engines, EngineJS)
	}
	return engines
}

// Selector evaluates expressions against the state returned by its reader.
type Selector struct {
	source    StateReader
	evaluator Evaluator
	engine    string
	cache     ProgramCache
	functions []EngineOption
	logger    SelectionLogger
}

// Option configures a Selector.
type Option func(*Selector)

// WithEvaluator uses a custom evaluator. It takes precedence over WithEngine
// and ignores WithCustomFunction and WithProgramCache.
func WithEvaluator(evaluator Evaluator) Option {
	return func(s *Selector) {
		s.evaluator = evaluator
	}
}

// WithEngine picks one of the built-in engines by name.
func WithEngine(name string) Option {
	return func(s *Selector) {
		s.engine = strings.ToLower(strings.TrimSpace(name))
	}
}

// WithProgramCache caches compiled selector programs.
func WithProgramCache(cache ProgramCache) Option {
	return func(s *Selector) {
		s.cache = cache
	}
}

// WithCustomFunction registers a helper function for the built-in engines.
// Registration errors surface from every Select.
func WithCustomFunction(name string, fn Function) Option {
	return func(s *Selector) {
		s.functions = append(s.functions, EngineWithFunction(name, fn))
	}
}

// WithFunctions registers every helper in fns, in name order.
func WithFunctions(fns map[string]Function) Option {
	return func(s *Selector) {
		names := make([]string, 0, len(fns))
		for name := range fns {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			s.functions = append(s.functions, EngineWithFunction(name, fns[name]))
		}
	}
}

// WithLogger attaches a logger called after every evaluation.
func WithLogger(logger SelectionLogger) Option {
	return func(s *Selector) {
		s.logger = logger
	}
}

// New constructs a selector reading state from source.
func New(source StateReader, opts ...Option) *Selector {
	s := &Selector{source: source, engine: EngineExpr}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.logger == nil {
		s.logger = noopSelectionLogger{}
	}
	return s
}

// Select evaluates expr against the current state.
func (s *Selector) Select(expr string) (any, error) {
	return s.SelectWith(nil, expr)
}

// SelectWith evaluates expr with args bound to the args variable.
func (s *Selector) SelectWith(args map[string]any, expr string) (any, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, ErrEmptyExpression
	}
	evaluator, err := s.resolveEvaluator()
	if err != nil {
		return nil, err
	}
	ctx, err := s.context(args)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	result, evalErr := evaluator.Evaluate(ctx, expr)
	s.log(evaluator, expr, false, ctx, time.Since(start), result, evalErr)
	if evalErr != nil {
		return nil, wrapEvaluationError(engineName(evaluator), expr, evalErr)
	}
	return result, nil
}

// Query is a compiled selector bound to its state source.
type Query struct {
	selector  *Selector
	evaluator Evaluator
	rule      CompiledRule
	expr      string
}

// Compile prepares expr once for repeated evaluation.
func (s *Selector) Compile(expr string) (*Query, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, ErrEmptyExpression
	}
	evaluator, err := s.resolveEvaluator()
	if err != nil {
		return nil, err
	}
	rule, err := evaluator.Compile(expr)
	if err != nil {
		return nil, wrapEvaluationError(engineName(evaluator), expr, err)
	}
	return &Query{selector: s, evaluator: evaluator, rule: rule, expr: expr}, nil
}

// Select evaluates the compiled query against the current state.
func (q *Query) Select(args map[string]any) (any, error) {
	ctx, err := q.selector.context(args)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	result, evalErr := q.rule.Evaluate(ctx)
	q.selector.log(q.evaluator, q.expr, true, ctx, time.Since(start), result, evalErr)
	if evalErr != nil {
		return nil, wrapEvaluationError(engineName(q.evaluator), q.expr, evalErr)
	}
	return result, nil
}

// As evaluates expr and asserts the result to T.
func As[T any](s *Selector, expr string) (T, error) {
	var zero T
	result, err := s.Select(expr)
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("selector: %s: expected %T, got %T", describeExpression(expr), zero, result)
	}
	return typed, nil
}

func (s *Selector) context(args map[string]any) (RuleContext, error) {
	if s.source == nil {
		return RuleContext{}, ErrNoState
	}
	state := s.source.GetState()
	return RuleContext{State: state.Native(), Args: args}.withDefaults(), nil
}

func (s *Selector) resolveEvaluator() (Evaluator, error) {
	if s.evaluator != nil {
		return s.evaluator, nil
	}
	var opts []EngineOption
	if s.cache != nil {
		opts = append(opts, EngineWithProgramCache(s.cache))
	}
	opts = append(opts, s.functions...)
	var evaluator Evaluator
	switch s.engine {
	case "", EngineExpr:
		evaluator = NewExprEvaluator(opts...)
	case EngineCEL:
		evaluator = NewCELEvaluator(opts...)
	case EngineJS:
		evaluator = NewJSEvaluator(opts...)
	default:
		return nil, fmt.Errorf("selector: unknown engine %q", s.engine)
	}
	if evaluator == nil {
		return nil, fmt.Errorf("%w: engine %q not built in", ErrNoEvaluator, s.engine)
	}
	s.evaluator = evaluator
	return evaluator, nil
}

func (s *Selector) log(evaluator Evaluator, expr string, compiled bool, ctx RuleContext, duration time.Duration, result any, err error) {
	s.logger.LogSelection(SelectionEvent{
		Engine:     engineName(evaluator),
		Expr:       expr,
		Compiled:   compiled,
		StateKeys:  sortedKeys(ctx.State),
		ArgNames:   sortedKeys(ctx.Args),
		ResultType: resultType(result),
		Duration:   duration,
		Err:        err,
	})
}

// engineName reports the built-in engine behind e, or "custom".
func engineName(e Evaluator) string {
	if named, ok := e.(interface{ engine() string }); ok {
		return named.engine()
	}
	return "custom"
}

// stateFunc adapts a function to StateReader.
type stateFunc func() *value.Map

func (f stateFunc) GetState() *value.Map {
	return f()
}

// Static returns a StateReader that always yields state.
func Static(state *value.Map) StateReader {
	return stateFunc(func() *value.Map { return state })
}

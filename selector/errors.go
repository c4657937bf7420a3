package selector

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyExpression is returned for blank selector expressions.
	ErrEmptyExpression = errors.New("selector: expression must not be empty")
	// ErrNoEvaluator is returned when no engine is available.
	ErrNoEvaluator = errors.New("selector: evaluator not configured")
	// ErrNoState is returned when a selector has no state source.
	ErrNoState = errors.New("selector: state reader is required")
)

// EvaluationError captures evaluator metadata alongside the originating error.
type EvaluationError struct {
	Engine string
	Expr   string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("selector: %s evaluator %s: %v", e.Engine, describeExpression(e.Expr), e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapEvaluatorError(engine string, err error) error {
	if err == nil {
		return nil
	}
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return err
	}
	if strings.HasPrefix(err.Error(), "selector:") {
		return err
	}
	return fmt.Errorf("selector: %s evaluator: %w", engine, err)
}

// wrapEvaluationError attaches engine and expression metadata, filling the
// blanks of an existing EvaluationError instead of nesting a new one.
func wrapEvaluationError(engine, expr string, err error) error {
	if err == nil {
		return nil
	}
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		return evalErr
	}
	return &EvaluationError{Engine: engine, Expr: expr, Err: err}
}

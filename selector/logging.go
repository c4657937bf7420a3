package selector

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"
)

// SelectionEvent describes one selector evaluation against a state snapshot.
type SelectionEvent struct {
	Engine string
	Expr   string
	// Compiled is set when the evaluation ran a Query prepared by Compile.
	Compiled bool
	// StateKeys are the top-level keys of the snapshot the expression saw.
	StateKeys []string
	// ArgNames are the sorted names bound under args.
	ArgNames   []string
	ResultType string
	Duration   time.Duration
	Err        error
}

// SelectionLogger records selector evaluations.
type SelectionLogger interface {
	LogSelection(SelectionEvent)
}

// SelectionLoggerFunc adapts a function to SelectionLogger.
type SelectionLoggerFunc func(SelectionEvent)

// LogSelection implements SelectionLogger.
func (f SelectionLoggerFunc) LogSelection(event SelectionEvent) {
	if f != nil {
		f(event)
	}
}

type noopSelectionLogger struct{}

func (noopSelectionLogger) LogSelection(SelectionEvent) {}

type slogSelectionLogger struct {
	logger *slog.Logger
}

// NewSlogLogger writes selections to logger at debug level, failures at warn.
func NewSlogLogger(logger *slog.Logger) SelectionLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return slogSelectionLogger{logger: logger}
}

func (l slogSelectionLogger) LogSelection(event SelectionEvent) {
	level := slog.LevelDebug
	attrs := []slog.Attr{
		slog.String("engine", event.Engine),
		slog.String("expr", event.Expr),
		slog.Bool("compiled", event.Compiled),
		slog.Int("state_keys", len(event.StateKeys)),
		slog.Duration("duration", event.Duration),
	}
	if len(event.ArgNames) > 0 {
		attrs = append(attrs, slog.Any("args", event.ArgNames))
	}
	if event.Err != nil {
		level = slog.LevelWarn
		attrs = append(attrs, slog.Any("error", event.Err))
	} else {
		attrs = append(attrs, slog.String("result_type", event.ResultType))
	}
	l.logger.LogAttrs(context.Background(), level, "statestore.select", attrs...)
}

func sortedKeys(m map[string]any) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func resultType(result any) string {
	if result == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", result)
}

package store

import (
	"context"
	"log/slog"
	"time"
)

// Operation names a facade activity reported to the logger.
type Operation string

const (
	OperationRootOperations   Operation = "root_operations"
	OperationGuardUnavailable Operation = "guard_unavailable"
	OperationMergeDefaults    Operation = "merge_defaults"
	OperationActivity         Operation = "activity"
)

// OperationLogEvent describes one facade operation for logging.
type OperationLogEvent struct {
	Operation Operation
	Variant   Variant
	BuildHint BuildHint
	TestRun   bool
	Keys      []string
	States    []string
	Duration  time.Duration
	Err       error
}

// OperationsLogger records facade events.
type OperationsLogger interface {
	LogOperation(OperationLogEvent)
}

// LoggerFunc adapts a function to OperationsLogger.
type LoggerFunc func(OperationLogEvent)

// LogOperation implements OperationsLogger.
func (f LoggerFunc) LogOperation(event OperationLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) LogOperation(OperationLogEvent) {}

// WithLogger attaches a logger to the facade.
func WithLogger(logger OperationsLogger) Option {
	return func(cfg *operationsConfig) {
		if logger == nil {
			cfg.logger = noopLogger{}
			return
		}
		cfg.logger = logger
	}
}

func (o *Operations) logger() OperationsLogger {
	if o.cfg.logger != nil {
		return o.cfg.logger
	}
	return noopLogger{}
}

type slogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger emits facade events to logger. Variant selection is logged at
// debug level, a guard missing from the build at warn, failures at error.
func NewSlogLogger(logger *slog.Logger) OperationsLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return slogLogger{logger: logger}
}

func (l slogLogger) LogOperation(event OperationLogEvent) {
	level := slog.LevelDebug
	switch {
	case event.Err != nil:
		level = slog.LevelError
	case event.Operation == OperationGuardUnavailable:
		level = slog.LevelWarn
	}

	attrs := []slog.Attr{
		slog.String("variant", event.Variant.String()),
		slog.String("build_hint", event.BuildHint.String()),
		slog.Bool("test_run", event.TestRun),
	}
	if len(event.Keys) > 0 {
		attrs = append(attrs, slog.Any("keys", event.Keys))
	}
	if len(event.States) > 0 {
		attrs = append(attrs, slog.Any("states", event.States))
	}
	if event.Duration > 0 {
		attrs = append(attrs, slog.Duration("duration", event.Duration))
	}
	if event.Err != nil {
		attrs = append(attrs, slog.Any("error", event.Err))
	}
	l.logger.LogAttrs(context.Background(), level, "statestore."+string(event.Operation), attrs...)
}

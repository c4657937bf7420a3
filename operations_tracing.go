package store

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/goliatone/go-statestore"

// WithTracer sets the tracer used for dispatch and merge spans. The default
// is the global provider's tracer, a no-op until a provider is installed.
func WithTracer(tracer trace.Tracer) Option {
	return func(cfg *operationsConfig) {
		cfg.tracer = tracer
	}
}

func (o *Operations) tracer() trace.Tracer {
	if o.cfg.tracer != nil {
		return o.cfg.tracer
	}
	return otel.Tracer(instrumentationName)
}

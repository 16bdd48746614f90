// Package tracing wraps OpenTelemetry spans for the scheduler flush and the
// patch engine.
//
// The tracer uses the global OpenTelemetry tracer provider unless one is
// passed explicitly. Configure the provider in main() before creating a
// runtime:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// DefaultTracerName is the instrumentation name used when none is given.
const DefaultTracerName = "tether"

// Span names.
const (
	SpanFlush = "tether.flush"
	SpanPatch = "tether.patch"
	SpanTick  = "tether.tick"
)

// Tracer is a thin wrapper so callers never hold a nil trace.Tracer.
type Tracer struct {
	tracer trace.Tracer
}

// New returns a Tracer backed by the global provider.
func New(name string) *Tracer {
	if name == "" {
		name = DefaultTracerName
	}
	return &Tracer{tracer: otel.Tracer(name)}
}

// FromTracer wraps an existing trace.Tracer.
func FromTracer(t trace.Tracer) *Tracer {
	if t == nil {
		return Noop()
	}
	return &Tracer{tracer: t}
}

// Noop returns a Tracer that records nothing.
func Noop() *Tracer {
	return &Tracer{tracer: noop.NewTracerProvider().Tracer(DefaultTracerName)}
}

// Start opens a span. The returned end function records err, if any, and
// closes the span.
func (t *Tracer) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, func(err error, extra ...attribute.KeyValue)) {
	if t == nil {
		t = Noop()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, func(err error, extra ...attribute.KeyValue) {
		if len(extra) > 0 {
			span.SetAttributes(extra...)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}
}

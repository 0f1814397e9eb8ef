// Package telemetry wraps RPC dispatch and debug-event translation in
// OpenTelemetry spans, the way internal/tracing/otelexport wraps GoClaw's
// LLM and tool spans: a resource-tagged TracerProvider handed out to the
// components that need one, rather than a single global everyone reaches
// into.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// Provider owns the process's TracerProvider. No OTLP exporter is wired:
// the config format spec.md §6 defines has no collector-endpoint setting,
// so spans are sampled and timed but not shipped anywhere. The SDK
// provider stays unexported inside Provider, so no exporter can be
// attached from outside this package.
type Provider struct {
	tp     *sdktrace.TracerProvider
	tracer trace.Tracer
}

// New builds a Provider tagged with the given service name.
func New(ctx context.Context, serviceName string) (*Provider, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: building resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithResource(res))
	return &Provider{tp: tp, tracer: tp.Tracer("ensime")}, nil
}

// Shutdown flushes and stops the provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	return p.tp.Shutdown(ctx)
}

// StartRPC opens a span for one dispatched RPC operation.
func (p *Provider) StartRPC(ctx context.Context, op string) (context.Context, trace.Span) {
	if p == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return p.tracer.Start(ctx, "rpc."+op,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attribute.String("ensime.rpc.op", op)),
	)
}

// StartEvent opens a span for translating one component event onto the wire.
func (p *Provider) StartEvent(ctx context.Context, source string) (context.Context, trace.Span) {
	if p == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return p.tracer.Start(ctx, "event."+source,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(attribute.String("ensime.event.source", source)),
	)
}

// EndWithError records err on span (if non-nil) and sets the span status
// before ending it, mirroring how otelexport marks failed spans.
func EndWithError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

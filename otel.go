package boundary

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// startRenderSpan creates a span around one render. Uses the global tracer
// initialized by github.com/viewlabs/boundary/telemetry. The caller is
// responsible for calling span.End().
//
//nolint:spancheck // Span lifecycle managed by caller (factory pattern)
func startRenderSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	tracer := otel.Tracer("boundary")
	ctx, span := tracer.Start(ctx, "boundary.render")
	span.SetAttributes(attribute.String("boundary", name))

	return ctx, span
}

// startRetrySpan creates a span around one retry. The caller is responsible
// for calling span.End().
//
//nolint:spancheck // Span lifecycle managed by caller (factory pattern)
func startRetrySpan(ctx context.Context, name string) (context.Context, trace.Span) {
	tracer := otel.Tracer("boundary")
	ctx, span := tracer.Start(ctx, "boundary.retry")
	span.SetAttributes(attribute.String("boundary", name))

	return ctx, span
}

func recordSpanSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "rendered")
}

func recordSpanFailure(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attribute.String("outcome", outcomeCaught))
}

func recordSpanFallback(span trace.Span) {
	span.SetStatus(codes.Ok, "fallback")
	span.SetAttributes(attribute.String("outcome", outcomeFallback))
}

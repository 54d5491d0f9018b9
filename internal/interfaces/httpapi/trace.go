package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const handlerSpanPrefix = "httpapi.Handler."

var apiTracer = otel.Tracer("shotmap/internal/interfaces/httpapi")

// startSpan opens a child span for handler entry points only. Helpers below
// the handler level ride on the caller's span, so a report request stays one
// span deep. Requests on filtered routes such as /healthz carry no parent
// span and get none here either.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, noopSpan()
	}
	if !strings.HasPrefix(name, handlerSpanPrefix) {
		return ctx, noopSpan()
	}
	return apiTracer.Start(ctx, name)
}

func noopSpan() trace.Span {
	return trace.SpanFromContext(context.Background())
}

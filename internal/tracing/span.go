package tracing

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys follow the OpenTelemetry GenAI conventions where one exists.
const (
	AttrOperation        = attribute.Key("gen_ai.operation.name")
	AttrRequestModel     = attribute.Key("gen_ai.request.model")
	AttrResponseModel    = attribute.Key("gen_ai.response.model")
	AttrInputTokens      = attribute.Key("gen_ai.usage.input_tokens")
	AttrOutputTokens     = attribute.Key("gen_ai.usage.output_tokens")
	AttrFinishReason     = attribute.Key("gen_ai.response.finish_reasons")
	AttrRunID            = attribute.Key("burstbench.run_id")
	AttrPromptIndex      = attribute.Key("burstbench.prompt_index")
	AttrMode             = attribute.Key("burstbench.mode")
	AttrRequests         = attribute.Key("burstbench.requests")
	AttrWorkers          = attribute.Key("burstbench.workers")
	AttrErrorKind        = attribute.Key("burstbench.error_kind")
	AttrHTTPResponseCode = attribute.Key("http.response.status_code")
)

// StartModeSpan starts the parent span covering one benchmark pass.
func StartModeSpan(ctx context.Context, tracer trace.Tracer, mode string, requests, workers int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "burstbench "+mode,
		trace.WithAttributes(
			AttrMode.String(mode),
			AttrRequests.Int(requests),
			AttrWorkers.Int(workers),
		),
	)
}

// StartCompletionSpan starts a client span for one chat-completion call.
func StartCompletionSpan(ctx context.Context, tracer trace.Tracer, model string, index int) (context.Context, trace.Span) {
	spanName := "chat"
	if model != "" {
		spanName = "chat " + model
	}
	ctx, span := tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindClient),
	)
	span.SetAttributes(
		AttrOperation.String("chat"),
		AttrRequestModel.String(model),
	)
	if index >= 0 {
		span.SetAttributes(AttrPromptIndex.Int(index))
	}
	return ctx, span
}

// EndSpan finishes a span, recording error status if applicable.
func EndSpan(span trace.Span, err error, attrs ...attribute.KeyValue) {
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// InjectHTTPHeaders injects W3C trace context into HTTP headers.
func InjectHTTPHeaders(ctx context.Context, headers http.Header) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(headers))
}

type promptIndexKey struct{}

// WithPromptIndex tags ctx with the prompt index of the request being made.
func WithPromptIndex(ctx context.Context, index int) context.Context {
	return context.WithValue(ctx, promptIndexKey{}, index)
}

// PromptIndex returns the index stored by WithPromptIndex, or -1.
func PromptIndex(ctx context.Context) int {
	if v, ok := ctx.Value(promptIndexKey{}).(int); ok {
		return v
	}
	return -1
}

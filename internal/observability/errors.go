package observability

import (
	"context"
	"encoding/json"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ErrorResponse is the JSON body written by RecordError. The request ID is
// carried by the X-Request-ID header only.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// Failure describes one failed operation.
type Failure struct {
	Operation string
	Kind      string // optional error classification, e.g. OUT_OF_RANGE
	Message   string // user facing
	Err       error
	Status    int
}

// RecordError centralises error handling across all domains: records the error
// on the span, increments the provided error counter, logs with trace context,
// and writes a JSON error HTTP response.
func RecordError(ctx context.Context, span trace.Span, logger *zap.Logger, counter metric.Int64Counter, f Failure, w http.ResponseWriter) {
	span.RecordError(f.Err)
	span.SetStatus(codes.Error, f.Message)

	attrs := []attribute.KeyValue{attribute.String("operation", f.Operation)}
	if f.Kind != "" {
		attrs = append(attrs, attribute.String("kind", f.Kind))
		span.SetAttributes(attribute.String("error.kind", f.Kind))
	}
	counter.Add(ctx, 1, metric.WithAttributes(attrs...))

	logger.Error(f.Message,
		zap.String("operation", f.Operation),
		zap.String("kind", f.Kind),
		zap.Error(f.Err),
		zap.String("request_id", RequestIDFromContext(ctx)),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(f.Status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: f.Message,
		Kind:  f.Kind,
	})
}

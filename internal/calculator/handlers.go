package calculator

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"fastexp/internal/handlers"
	"fastexp/internal/modexp"
	"fastexp/internal/observability"
	"fastexp/internal/querystate"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

const opModexp = "modexp"

// maxBodyBytes caps a POST body. Operands near the default limit need a few
// dozen bytes.
const maxBodyBytes = 1 << 20

// Handler serves the modular exponentiation endpoints.
type Handler struct {
	validator *modexp.Validator
	codec     querystate.Codec
}

// NewHandler returns a handler validating with v and reading query state
// through codec.
func NewHandler(v *modexp.Validator, codec querystate.Codec) *Handler {
	return &Handler{validator: v, codec: codec}
}

// Calculate handles POST /calculator/modexp with a JSON body.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "post")
	defer span.End()
	logger := observability.LoggerWithTrace(ctx)

	var req ModexpRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, observability.Failure{
			Operation: opModexp,
			Message:   "invalid request body",
			Err:       err,
			Status:    http.StatusBadRequest,
		}, w)
		return
	}

	h.compute(ctx, span, logger, w, req.Inputs())
}

// Query handles GET /calculator/modexp?a=&n=&m=. Missing or blank
// parameters take the configured defaults.
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "get")
	defer span.End()
	logger := observability.LoggerWithTrace(ctx)

	h.compute(ctx, span, logger, w, h.codec.FromValues(r.URL.Query()))
}

// Defaults handles GET /calculator/modexp/defaults.
func (h *Handler) Defaults(w http.ResponseWriter, r *http.Request) {
	handlers.WriteJSON(w, http.StatusOK, DefaultsResponse{
		Defaults: h.codec.Defaults(),
		Limit:    h.validator.Limit().String(),
	})
}

func startSpan(r *http.Request, source string) (context.Context, trace.Span) {
	return tracer.Start(r.Context(), "calculator.modexp",
		trace.WithAttributes(
			attribute.String("calculator.operation", opModexp),
			attribute.String("calculator.input.source", source),
			attribute.String("request.id", observability.RequestIDFromContext(r.Context())),
		),
	)
}

// compute validates raw, runs the engine and writes the trace. It records
// one span event per step.
func (h *Handler) compute(ctx context.Context, span trace.Span, logger *zap.Logger, w http.ResponseWriter, raw querystate.Inputs) {
	requestID := observability.RequestIDFromContext(ctx)

	span.SetAttributes(
		attribute.String("calculator.input.a", raw.A),
		attribute.String("calculator.input.n", raw.N),
		attribute.String("calculator.input.m", raw.M),
	)

	in, err := h.validator.ValidateAndParse(raw.A, raw.N, raw.M)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, observability.Failure{
			Operation: opModexp,
			Kind:      string(modexp.KindOf(err)),
			Message:   err.Error(),
			Err:       err,
			Status:    http.StatusBadRequest,
		}, w)
		return
	}

	start := time.Now()
	res := in.Calculate()
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	attrs := metric.WithAttributes(attribute.String("operation", opModexp))
	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsed, attrs)
	bitsHistogram.Record(ctx, int64(res.BitCount()), attrs)
	stepsCounter.Add(ctx, int64(len(res.Steps)), attrs)

	for i, s := range res.Steps {
		span.AddEvent("step", trace.WithAttributes(
			attribute.Int("step.index", i),
			attribute.Int("step.bit", int(s.Bit)),
			attribute.String("step.operation", s.Operation),
			attribute.String("step.value", s.Value.String()),
		))
	}

	span.AddEvent("computation.complete", trace.WithAttributes(
		attribute.String("result", res.Result.String()),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetAttributes(
		attribute.String("calculator.exponent.binary", res.BinaryStr),
		attribute.Int("calculator.exponent.bits", res.BitCount()),
		attribute.String("calculator.result", res.Result.String()),
	)
	span.SetStatus(codes.Ok, "")

	logger.Info("modular exponentiation completed",
		zap.Stringer("a", in.A),
		zap.Stringer("n", in.N),
		zap.Stringer("m", in.M),
		zap.Stringer("result", res.Result),
		zap.Int("bits", res.BitCount()),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, NewModexpResponse(in, res, h.codec.Encode(raw)))
}

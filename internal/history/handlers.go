package history

import (
	"errors"
	"net/http"

	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/observability"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("history")

// Handler serves the recorded calculations.
type Handler struct {
	log *Log
}

func NewHandler(log *Log) *Handler {
	return &Handler{log: log}
}

// ListResponse is the JSON response for GET /history.
type ListResponse struct {
	Calculations []Calculation `json:"calculations"`
}

// List handles GET /history
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "history.list")
	defer span.End()
	logger := observability.LoggerWithTrace(ctx)

	calcs, err := h.log.List(ctx)
	if err != nil {
		status, msg := errorStatus(err)
		observability.RecordError(ctx, span, logger, errorCounter, "list", msg, err, status, w)
		return
	}

	requestCounter.Add(ctx, 1, otelmetric.WithAttributes(attribute.String("operation", "list")))
	span.SetAttributes(attribute.Int("history.count", len(calcs)))
	span.SetStatus(codes.Ok, "")

	handlers.WriteJSON(w, http.StatusOK, ListResponse{Calculations: calcs})
}

// Get handles GET /history/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, span := tracer.Start(r.Context(), "history.get",
		trace.WithAttributes(attribute.String("history.calculation.id", id)),
	)
	defer span.End()
	logger := observability.LoggerWithTrace(ctx)

	calc, err := h.log.Get(ctx, id)
	if err != nil {
		status, msg := errorStatus(err)
		observability.RecordError(ctx, span, logger, errorCounter, "get", msg, err, status, w)
		return
	}

	requestCounter.Add(ctx, 1, otelmetric.WithAttributes(attribute.String("operation", "get")))
	span.SetStatus(codes.Ok, "")

	handlers.WriteJSON(w, http.StatusOK, calc)
}

// Clear handles DELETE /history
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "history.clear")
	defer span.End()
	logger := observability.LoggerWithTrace(ctx)

	if err := h.log.Clear(ctx); err != nil {
		status, msg := errorStatus(err)
		observability.RecordError(ctx, span, logger, errorCounter, "clear", msg, err, status, w)
		return
	}

	requestCounter.Add(ctx, 1, otelmetric.WithAttributes(attribute.String("operation", "clear")))
	span.SetStatus(codes.Ok, "")
	logger.Info("history cleared",
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	w.WriteHeader(http.StatusNoContent)
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "calculation not found"
	case errors.Is(err, ErrClosed):
		return http.StatusServiceUnavailable, "history unavailable"
	default:
		return http.StatusInternalServerError, "history storage failed"
	}
}

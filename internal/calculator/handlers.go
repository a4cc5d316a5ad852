package calculator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/history"
	"go-chi-calculator/internal/observability"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// CalculationSource looks up recorded calculations for the load endpoint.
type CalculationSource interface {
	Get(ctx context.Context, id string) (history.Calculation, error)
}

// Handler serves the editing-session API.
type Handler struct {
	sessions *Registry
	history  CalculationSource
}

func NewHandler(sessions *Registry, history CalculationSource) *Handler {
	return &Handler{sessions: sessions, history: history}
}

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 64 << 10

var (
	// errBadRequest marks failures caused by the request body.
	errBadRequest   = errors.New("invalid request body")
	errBodyTooLarge = errors.New("request body too large")
)

// ---------------------------------------------------------------------------
// Handlers — session lifecycle
// ---------------------------------------------------------------------------

// CreateSession handles POST /calculator/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "calculator.session.create")
	defer span.End()

	id, st := h.sessions.Create(ctx)

	span.SetAttributes(attribute.String("calculator.session.id", id))
	span.SetStatus(codes.Ok, "")

	observability.LoggerWithTrace(ctx).Info("session created",
		zap.String("session_id", id),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	handlers.WriteJSON(w, http.StatusCreated, newSessionResponse(id, st))
}

// GetSession handles GET /calculator/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	h.handleSessionOp(w, r, "get", noBody(func(*Session) error { return nil }))
}

// DeleteSession handles DELETE /calculator/sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	id := chi.URLParam(r, "id")

	ctx, span := tracer.Start(ctx, "calculator.session.delete",
		trace.WithAttributes(attribute.String("calculator.session.id", id)),
	)
	defer span.End()

	if err := h.sessions.Delete(ctx, id); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "delete", "session not found", err, http.StatusNotFound, w)
		return
	}

	span.SetStatus(codes.Ok, "")
	logger.Info("session deleted", zap.String("session_id", id))

	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Handlers — editing
// ---------------------------------------------------------------------------

// AppendDigit handles POST /calculator/sessions/{id}/digit
func (h *Handler) AppendDigit(w http.ResponseWriter, r *http.Request) {
	h.handleSessionOp(w, r, "digit", func(r *http.Request) (sessionCommand, error) {
		var req DigitRequest
		if err := decodeBody(r, &req); err != nil {
			return nil, err
		}
		d, ok := req.rune()
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDigit, req.Digit)
		}
		return func(s *Session) error { return s.AppendDigit(d) }, nil
	})
}

// AppendDecimal handles POST /calculator/sessions/{id}/decimal
func (h *Handler) AppendDecimal(w http.ResponseWriter, r *http.Request) {
	h.handleSessionOp(w, r, "decimal", noBody(func(s *Session) error {
		s.AppendDecimal()
		return nil
	}))
}

// AppendOperator handles POST /calculator/sessions/{id}/operator
func (h *Handler) AppendOperator(w http.ResponseWriter, r *http.Request) {
	h.handleSessionOp(w, r, "operator", func(r *http.Request) (sessionCommand, error) {
		var req OperatorRequest
		if err := decodeBody(r, &req); err != nil {
			return nil, err
		}
		op, err := ParseOperator(req.Operator)
		if err != nil {
			return nil, err
		}
		return func(s *Session) error {
			s.AppendOperator(op)
			return nil
		}, nil
	})
}

// Delete handles POST /calculator/sessions/{id}/delete
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	h.handleSessionOp(w, r, "delete", noBody(func(s *Session) error {
		s.Delete()
		return nil
	}))
}

// Clear handles POST /calculator/sessions/{id}/clear
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	h.handleSessionOp(w, r, "clear", noBody(func(s *Session) error {
		s.Clear()
		return nil
	}))
}

// Load handles POST /calculator/sessions/{id}/load. It replaces the
// expression with the one of a recorded calculation.
func (h *Handler) Load(w http.ResponseWriter, r *http.Request) {
	h.handleSessionOp(w, r, "load", func(r *http.Request) (sessionCommand, error) {
		var req LoadRequest
		if err := decodeBody(r, &req); err != nil {
			return nil, err
		}
		// An unknown session wins over an unknown calculation.
		if !h.sessions.Exists(chi.URLParam(r, "id")) {
			return nil, ErrSessionNotFound
		}
		calc, err := h.history.Get(r.Context(), req.CalculationID)
		if err != nil {
			return nil, err
		}
		return func(s *Session) error { return s.Load(calc.Expression) }, nil
	})
}

// Apply handles POST /calculator/sessions/{id}/apply. A rejected apply is
// not an HTTP error: the response carries applied=false and the error
// message as preview.
func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	var applied bool
	h.handleSessionOp(w, r, "apply", noBody(func(s *Session) error {
		preview := s.State().Preview
		applied = s.Apply()

		attrs := metric.WithAttributes(attribute.Bool("applied", applied))
		applyCounter.Add(r.Context(), 1, attrs)
		if applied {
			if v, err := ParseTerm(preview); err == nil {
				resultGauge.Record(r.Context(), v.InexactFloat64())
			}
		}
		return nil
	}), withApplied(&applied))
}

// ---------------------------------------------------------------------------
// Shared session plumbing
// ---------------------------------------------------------------------------

type sessionCommand func(*Session) error

// commandDecoder turns a request into a command. It runs before the session
// is locked, so slow lookups do not hold up other commands on the session.
type commandDecoder func(*http.Request) (sessionCommand, error)

func noBody(cmd sessionCommand) commandDecoder {
	return func(*http.Request) (sessionCommand, error) { return cmd, nil }
}

type responseOption func(*SessionResponse)

func withApplied(applied *bool) responseOption {
	return func(resp *SessionResponse) { resp.Applied = applied }
}

// handleSessionOp is the shared implementation for all session commands:
// child span, command decoding, timed execution under the session lock,
// metrics, trace-correlated logging and the JSON response.
func (h *Handler) handleSessionOp(w http.ResponseWriter, r *http.Request, opName string, decode commandDecoder, opts ...responseOption) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)
	id := chi.URLParam(r, "id")

	// --- 1. Custom child span ---
	ctx, span := tracer.Start(ctx, fmt.Sprintf("calculator.session.%s", opName),
		trace.WithAttributes(
			attribute.String("calculator.operation", opName),
			attribute.String("calculator.session.id", id),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()
	r = r.WithContext(ctx)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	// --- 2. Decode the command ---
	cmd, err := decode(r)
	if err != nil {
		status, msg := commandErrorStatus(err)
		observability.RecordError(ctx, span, logger, errorCounter, opName, msg, err, status, w)
		return
	}

	// --- 3. Run it against the session (timed for histogram) ---
	start := time.Now()
	st, err := h.sessions.Do(id, cmd)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	if err != nil {
		status, msg := commandErrorStatus(err)
		observability.RecordError(ctx, span, logger, errorCounter, opName, msg, err, status, w)
		return
	}

	// --- 4. Record metrics ---
	attrs := metric.WithAttributes(attribute.String("operation", opName))
	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsed, attrs)

	// --- 5. Span event with the new state ---
	span.AddEvent("command.complete", trace.WithAttributes(
		attribute.String("expression", st.Expression),
		attribute.String("preview", st.Preview),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetStatus(codes.Ok, "")

	// --- 6. Structured log with trace correlation ---
	logger.Debug("session command completed",
		zap.String("operation", opName),
		zap.String("session_id", id),
		zap.String("expression", st.Expression),
		zap.String("preview", st.Preview),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	// --- 7. Write JSON response ---
	resp := newSessionResponse(id, st)
	for _, opt := range opts {
		opt(&resp)
	}
	handlers.WriteJSON(w, http.StatusOK, resp)
}

func commandErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound, "session not found"
	case errors.Is(err, history.ErrNotFound):
		return http.StatusNotFound, "calculation not found"
	case errors.Is(err, errBodyTooLarge):
		return http.StatusRequestEntityTooLarge, "request body too large"
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "invalid request body"
	case errors.Is(err, ErrInvalidDigit):
		return http.StatusBadRequest, "invalid digit"
	case errors.Is(err, ErrUnknownOperator):
		return http.StatusBadRequest, "unknown operator"
	case errors.Is(err, ErrInvalidExpression):
		return http.StatusUnprocessableEntity, InvalidExpressionMessage
	case errors.Is(err, history.ErrClosed):
		return http.StatusServiceUnavailable, "history unavailable"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func decodeBody(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: limit is %d bytes", errBodyTooLarge, tooLarge.Limit)
	}
	return fmt.Errorf("%w: %v", errBadRequest, err)
}

// ---------------------------------------------------------------------------
// Handler — stateless evaluation
// ---------------------------------------------------------------------------

// Evaluate handles POST /calculator/evaluate. It evaluates a whole expression
// without a session. Evaluation failures answer 422 with the failure kind.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.evaluate",
		trace.WithAttributes(attribute.String("request.id", requestID)),
	)
	defer span.End()

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req EvaluateRequest
	if err := decodeBody(r, &req); err != nil {
		status, msg := commandErrorStatus(err)
		observability.RecordError(ctx, span, logger, errorCounter, "evaluate", msg, err, status, w)
		return
	}
	span.SetAttributes(attribute.String("calculator.expression", req.Expression))

	start := time.Now()
	result, err := Evaluate(req.Expression)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0

	if err != nil {
		kind := ErrorKind(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, kind)
		errorCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", "evaluate"),
			attribute.String("kind", kind),
		))
		logger.Info("expression rejected",
			zap.String("expression", req.Expression),
			zap.String("kind", kind),
			zap.String("request_id", requestID),
		)
		handlers.WriteErrorKind(w, http.StatusUnprocessableEntity, ErrorMessage(err), kind)
		return
	}

	attrs := metric.WithAttributes(attribute.String("operation", "evaluate"))
	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsed, attrs)

	rendered := FormatResult(result)
	span.SetAttributes(attribute.String("calculator.result", rendered))
	span.SetStatus(codes.Ok, "")

	logger.Info("expression evaluated",
		zap.String("expression", req.Expression),
		zap.String("result", rendered),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, EvaluateResponse{
		Expression: req.Expression,
		Result:     rendered,
	})
}

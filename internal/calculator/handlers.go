package calculator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"zencalc/internal/handlers"
	"zencalc/internal/observability"

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

// Recorder receives completed calculations and looks them up for recall.
// The history store satisfies it.
type Recorder interface {
	Append(c Calculation) error
	Get(id string) (Calculation, bool)
}

// Handler serves the keypad endpoints.
type Handler struct {
	sessions *Sessions
	history  Recorder
}

// NewHandler wires the keypad endpoints to a session store and a history recorder.
func NewHandler(sessions *Sessions, history Recorder) *Handler {
	return &Handler{sessions: sessions, history: history}
}

// ---------------------------------------------------------------------------
// Handlers: sessions
// ---------------------------------------------------------------------------

// CreateSession handles POST /calculator/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	id, state := h.sessions.Create()

	logger.Info("calculator session created",
		zap.String("session_id", id),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	handlers.WriteJSON(w, http.StatusCreated, SessionResponse{SessionID: id, State: NewStateView(state)})
}

// GetSession handles GET /calculator/sessions/{sessionID}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "sessionID")

	ctx, span := tracer.Start(ctx, "calculator.session.get",
		trace.WithAttributes(attribute.String("calculator.session_id", id)),
	)
	defer span.End()

	state, err := h.sessions.Get(id)
	if err != nil {
		observability.RecordError(ctx, span, observability.LoggerWithTrace(ctx), errorCounter, "get_session", "session not found", err, http.StatusNotFound, w)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, SessionResponse{SessionID: id, State: NewStateView(state)})
}

// DeleteSession handles DELETE /calculator/sessions/{sessionID}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	h.sessions.Delete(chi.URLParam(r, "sessionID"))
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Handlers: keypad
// ---------------------------------------------------------------------------

// ApplyAction handles POST /calculator/sessions/{sessionID}/actions. An EQUALS
// that completes a calculation appends it to history.
func (h *Handler) ApplyAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)
	id := chi.URLParam(r, "sessionID")

	ctx, span := tracer.Start(ctx, "calculator.action",
		trace.WithAttributes(
			attribute.String("calculator.session_id", id),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var action Action
	if err := json.NewDecoder(r.Body).Decode(&action); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "action", "invalid request body", err, http.StatusBadRequest, w)
		return
	}
	if !action.Kind.Valid() {
		observability.RecordError(ctx, span, logger, errorCounter, "action", "unknown action kind", fmt.Errorf("kind %q", action.Kind), http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(
		attribute.String("calculator.action.kind", string(action.Kind)),
		attribute.String("calculator.action.value", action.Value),
	)

	start := time.Now()
	state, done, err := h.sessions.Apply(id, action)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "action", "session not found", err, http.StatusNotFound, w)
		return
	}

	attrs := metric.WithAttributes(attribute.String("kind", string(action.Kind)))
	actionCounter.Add(ctx, 1, attrs)
	actionHistogram.Record(ctx, elapsed, attrs)

	resp := SessionResponse{SessionID: id, State: NewStateView(state)}

	if done != nil {
		calc := NewCalculation(*done)
		h.recordCompletion(ctx, span, logger, *done, calc)
		resp.Calculation = &calc
	}

	span.SetStatus(codes.Ok, "")

	logger.Info("calculator action applied",
		zap.String("session_id", id),
		zap.String("kind", string(action.Kind)),
		zap.String("value", action.Value),
		zap.String("current_value", state.Current),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, resp)
}

// recordCompletion emits metrics for a finished calculation and appends it to
// history. A history failure is logged; the keypad has already moved on.
func (h *Handler) recordCompletion(ctx context.Context, span trace.Span, logger *zap.Logger, done Completion, calc Calculation) {
	calcCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operator", done.Operator.Name())))
	if done.Fallback != FallbackNone {
		fallbackCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", string(done.Fallback))))
	}
	if v, ok := parseOperand(done.Result); ok {
		resultGauge.Record(ctx, v, metric.WithAttributes(attribute.String("operation", done.Operator.Name())))
	}

	span.AddEvent("calculation.complete", trace.WithAttributes(
		attribute.String("expression", calc.Expression),
		attribute.String("result", calc.Result),
		attribute.String("fallback", string(done.Fallback)),
	))

	if err := h.history.Append(calc); err != nil {
		span.RecordError(err)
		logger.Error("appending calculation to history",
			zap.String("calculation_id", calc.ID),
			zap.Error(err),
		)
	}
}

// Recall handles POST /calculator/sessions/{sessionID}/recall
func (h *Handler) Recall(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	id := chi.URLParam(r, "sessionID")

	ctx, span := tracer.Start(ctx, "calculator.recall",
		trace.WithAttributes(attribute.String("calculator.session_id", id)),
	)
	defer span.End()

	var req RecallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "recall", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	calc, ok := h.history.Get(req.CalculationID)
	if !ok {
		observability.RecordError(ctx, span, logger, errorCounter, "recall", "calculation not found", fmt.Errorf("calculation %q", req.CalculationID), http.StatusNotFound, w)
		return
	}

	state, err := h.sessions.Recall(id, calc.Result)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "recall", "session not found", err, http.StatusNotFound, w)
		return
	}

	span.SetStatus(codes.Ok, "")
	handlers.WriteJSON(w, http.StatusOK, SessionResponse{SessionID: id, State: NewStateView(state)})
}

// ---------------------------------------------------------------------------
// Handler: stateless fold
// ---------------------------------------------------------------------------

// Evaluate handles POST /calculator/evaluate
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "calculator.evaluate")
	defer span.End()

	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "evaluate", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	op, ok := ParseOperator(req.Operator)
	if !ok {
		observability.RecordError(ctx, span, logger, errorCounter, "evaluate", "unknown operator", fmt.Errorf("operator %q", req.Operator), http.StatusBadRequest, w)
		return
	}

	result, fallback := evaluate(req.Left, req.Right, op)
	if fallback != FallbackNone {
		fallbackCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", string(fallback))))
	}

	span.SetAttributes(
		attribute.String("calculator.operation", op.Name()),
		attribute.String("calculator.result", result),
	)
	span.SetStatus(codes.Ok, "")

	handlers.WriteJSON(w, http.StatusOK, EvaluateResponse{
		Expression: req.Left + " " + string(op) + " " + req.Right,
		Result:     result,
		Fallback:   fallback,
	})
}


package history

import (
	"net/http"

	"zencalc/internal/calculator"
	"zencalc/internal/handlers"
	"zencalc/internal/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("history")

var errorCounter metric.Int64Counter = noop.Int64Counter{}

// InitMetrics registers the history error counter on the global meter.
func InitMetrics() error {
	var err error
	errorCounter, err = otel.Meter("history").Int64Counter("history.errors.total")
	return err
}

// ListResponse is the JSON response for GET /history.
type ListResponse struct {
	Calculations []calculator.Calculation `json:"calculations"`
}

// Handler serves the history endpoints.
type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// List handles GET /history
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	handlers.WriteJSON(w, http.StatusOK, ListResponse{Calculations: h.store.List()})
}

// Clear handles DELETE /history
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "history.clear")
	defer span.End()

	if err := h.store.Clear(); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "clear", "clearing history failed", err, http.StatusInternalServerError, w)
		return
	}

	span.SetStatus(codes.Ok, "")
	logger.Info("history cleared", zap.String("request_id", observability.RequestIDFromContext(ctx)))
	w.WriteHeader(http.StatusNoContent)
}

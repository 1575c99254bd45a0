package assistant

import (
	"encoding/json"
	"errors"
	"net/http"

	"zencalc/internal/handlers"
	"zencalc/internal/observability"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// SolveRequest is the JSON body for POST /assistant/solve.
type SolveRequest struct {
	Query          string `json:"query"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// TranscriptResponse is the JSON response for GET /assistant/conversations/{conversationID}.
type TranscriptResponse struct {
	ConversationID string    `json:"conversation_id"`
	Messages       []Message `json:"messages"`
}

// Handler serves the assistant endpoints.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Solve handles POST /assistant/solve
func (h *Handler) Solve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "assistant.request",
		trace.WithAttributes(attribute.String("request.id", requestID)),
	)
	defer span.End()

	var req SolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "solve", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	ex, err := h.service.Ask(ctx, req.ConversationID, req.Query)
	switch {
	case errors.Is(err, ErrEmptyQuery):
		observability.RecordError(ctx, span, logger, errorCounter, "solve", "query is empty", err, http.StatusBadRequest, w)
		return
	case errors.Is(err, ErrBusy):
		observability.RecordError(ctx, span, logger, errorCounter, "solve", "a query is already in flight", err, http.StatusConflict, w)
		return
	}

	span.SetAttributes(attribute.String("assistant.conversation_id", ex.ConversationID))
	span.SetStatus(codes.Ok, "")

	logger.Info("assistant query answered",
		zap.String("conversation_id", ex.ConversationID),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, http.StatusOK, ex)
}

// Transcript handles GET /assistant/conversations/{conversationID}
func (h *Handler) Transcript(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "conversationID")

	msgs, ok := h.service.Transcript(id)
	if !ok {
		handlers.WriteError(w, http.StatusNotFound, "conversation not found")
		return
	}

	handlers.WriteJSON(w, http.StatusOK, TranscriptResponse{ConversationID: id, Messages: msgs})
}

// ListSuggestions handles GET /assistant/suggestions
func (h *Handler) ListSuggestions(w http.ResponseWriter, r *http.Request) {
	handlers.WriteJSON(w, http.StatusOK, map[string][]string{"suggestions": Suggestions})
}

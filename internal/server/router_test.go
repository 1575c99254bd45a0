package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"zencalc/internal/assistant"
	"zencalc/internal/calculator"
	"zencalc/internal/history"
	"zencalc/internal/observability"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) (http.Handler, history.Store) {
	t.Helper()
	observability.Logger = zap.NewNop()

	store := history.NewLog(history.MaxEntries)
	router := NewRouter(Deps{
		Sessions:  calculator.NewSessions(time.Hour),
		History:   store,
		Assistant: assistant.NewService(assistant.Offline{Reason: "test"}, time.Hour),
	})
	return router, store
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestNewRouterHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := do(t, router, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ok", w.Body.String())
}

func TestNewRouterSetsRequestIDHeader(t *testing.T) {
	router, _ := newTestRouter(t)

	w := do(t, router, http.MethodPost, "/calculator/evaluate",
		calculator.EvaluateRequest{Left: "2", Right: "3", Operator: "+"})
	require.Equal(t, http.StatusOK, w.Code)

	requestID := w.Result().Header.Get(observability.RequestIDHeader)
	_, err := uuid.Parse(requestID)
	require.NoError(t, err, "expected valid UUID in X-Request-ID, got %q", requestID)

	var payload map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&payload))
	require.NotContains(t, payload, "request_id")
	require.Equal(t, "5", payload["result"])
}

func TestNewRouterSessionFlowRecordsHistory(t *testing.T) {
	router, store := newTestRouter(t)

	w := do(t, router, http.MethodPost, "/calculator/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var created calculator.SessionResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	require.NotEmpty(t, created.SessionID)
	require.Equal(t, "0", created.State.CurrentValue)

	actions := []calculator.Action{
		calculator.Digit("1"), calculator.Digit("2"),
		calculator.Operate(calculator.OpMultiply),
		calculator.Digit("3"),
		calculator.Equals(),
	}

	var last calculator.SessionResponse
	for _, a := range actions {
		w = do(t, router, http.MethodPost, "/calculator/sessions/"+created.SessionID+"/actions", a)
		require.Equal(t, http.StatusOK, w.Code)
		last = calculator.SessionResponse{}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&last))
	}

	require.Equal(t, "36", last.State.CurrentValue)
	require.NotNil(t, last.Calculation)
	require.Equal(t, "12 * 3", last.Calculation.Expression)
	require.Equal(t, 1, store.Len())

	w = do(t, router, http.MethodGet, "/history", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listed history.ListResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&listed))
	require.Len(t, listed.Calculations, 1)
	require.Equal(t, last.Calculation.ID, listed.Calculations[0].ID)

	w = do(t, router, http.MethodDelete, "/history", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Zero(t, store.Len())
}

func TestNewRouterAssistantRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	w := do(t, router, http.MethodGet, "/assistant/suggestions", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodPost, "/assistant/solve", assistant.SolveRequest{Query: "what is 2+2"})
	require.Equal(t, http.StatusOK, w.Code)

	var ex assistant.Exchange
	require.NoError(t, json.NewDecoder(w.Body).Decode(&ex))
	require.Equal(t, assistant.Unavailable, ex.Answer)
}

func TestNewRouterUnknownSession(t *testing.T) {
	router, _ := newTestRouter(t)

	w := do(t, router, http.MethodGet, "/calculator/sessions/missing", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

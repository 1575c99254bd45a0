package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"zencalc/internal/assistant"
	"zencalc/internal/calculator"
	"zencalc/internal/handlers"
	"zencalc/internal/history"
	"zencalc/internal/observability"
)

// Deps are the domain services the router exposes.
type Deps struct {
	Sessions  *calculator.Sessions
	History   history.Store
	Assistant *assistant.Service
}

func NewRouter(deps Deps) http.Handler {

	r := chi.NewRouter()

	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)

	r.Get("/health", handlers.Health)

	r.Handle("/metrics", observability.PrometheusHandler())

	calculator.RegisterRoutes(r, calculator.NewHandler(deps.Sessions, deps.History))
	history.RegisterRoutes(r, history.NewHandler(deps.History))
	assistant.RegisterRoutes(r, assistant.NewHandler(deps.Assistant))

	return r
}

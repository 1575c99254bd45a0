package assistant

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the assistant endpoints under /assistant.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/assistant", func(r chi.Router) {
		r.Post("/solve", h.Solve)
		r.Get("/suggestions", h.ListSuggestions)
		r.Get("/conversations/{conversationID}", h.Transcript)
	})
}

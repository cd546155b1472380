package handler

import "net/http"

// NewRouter wires the agent routes and wraps them in the default middleware
func NewRouter(h *QueryHandler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /graphql", h.Query)
	mux.HandleFunc("POST /{$}", h.Query)
	mux.HandleFunc("GET /{$}", Explorer)
	mux.HandleFunc("GET /healthz", h.Health)

	return Chain(mux,
		Recover,
		Logger,
	)
}

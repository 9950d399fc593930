package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerCandidateRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/candidates", handler.ListCandidates)
}

func registerBuilderRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/builder/sessions", handler.MountBuilder)
	mux.HandleFunc("GET /v1/builder/sessions/{sessionID}", handler.GetBuilder)
	mux.HandleFunc("DELETE /v1/builder/sessions/{sessionID}", handler.UnmountBuilder)
	mux.HandleFunc("GET /v1/builder/sessions/{sessionID}/candidates", handler.ListBuilderCandidates)
	mux.HandleFunc("POST /v1/builder/sessions/{sessionID}/picks", handler.AddPick)
	mux.HandleFunc("DELETE /v1/builder/sessions/{sessionID}/picks/{candidateID}", handler.RemovePick)
	mux.HandleFunc("PUT /v1/builder/sessions/{sessionID}/position", handler.JumpToPosition)
	mux.HandleFunc("POST /v1/builder/sessions/{sessionID}/advance", handler.AdvancePosition)
	// Finalizes the squad and opens a results session; the builder session is discarded.
	mux.HandleFunc("POST /v1/builder/sessions/{sessionID}/handoff", handler.Handoff)
}

func registerAdviceRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/advice/sessions/{sessionID}", handler.GetAdvice)
	mux.HandleFunc("DELETE /v1/advice/sessions/{sessionID}", handler.CloseAdvice)
	// Initial request and manual retry share this route.
	mux.HandleFunc("POST /v1/advice/sessions/{sessionID}/requests", handler.RequestAdvice)
	mux.HandleFunc("GET /v1/advice/sessions/{sessionID}/players/{playerID}/suggestions", handler.ListPlayerSuggestions)
	mux.HandleFunc("GET /v1/advice/sessions/{sessionID}/top", handler.ListTopSuggestions)
}

package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Verification endpoints (edge function paths kept for existing clients)
	mux.HandleFunc("/functions/v1/verify-text", s.app.VerifyHandler.VerifyTextHandler)
	mux.HandleFunc("/functions/v1/verify-url", s.app.VerifyHandler.VerifyURLHandler)
	mux.HandleFunc("/functions/v1/verify-image", s.app.VerifyHandler.VerifyImageHandler)

	mux.HandleFunc("/api/verify/text", s.app.VerifyHandler.VerifyTextHandler)
	mux.HandleFunc("/api/verify/url", s.app.VerifyHandler.VerifyURLHandler)
	mux.HandleFunc("/api/verify/image", s.app.VerifyHandler.VerifyImageHandler)

	// History (requires a bearer token)
	if s.app.HistoryHandler != nil {
		mux.HandleFunc("/api/history", s.handleHistoryRoute)   // GET (list), DELETE (clear)
		mux.HandleFunc("/api/history/", s.handleHistoryRoutes) // DELETE /{id}
	}

	// System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// 404 handler for everything else
	mux.HandleFunc("/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// handleHistoryRoute routes /api/history requests (list and clear)
func (s *Server) handleHistoryRoute(w http.ResponseWriter, r *http.Request) {
	RouteCRUD(w, r, s.app.HistoryHandler.ListHandler, nil, nil, s.app.HistoryHandler.ClearHandler)
}

// handleHistoryRoutes routes /api/history/{id} requests
func (s *Server) handleHistoryRoutes(w http.ResponseWriter, r *http.Request) {
	RouteByMethod(w, r, MethodRouter{
		http.MethodDelete: s.app.HistoryHandler.DeleteHandler,
	})
}

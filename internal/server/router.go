package server

import "net/http"

// Handler returns the HTTP handler with routes and middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)
	return chain(recovery(s.logger), requestLogger(s.logger))(mux)
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /health", s.handleHealth)

	// Page and rendered fragments
	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /chart.svg", s.handleSVG)
	mux.HandleFunc("GET /api/state", s.handleState)

	// Interactions
	mux.HandleFunc("POST /api/legend/{group}", s.handleLegend)
	mux.HandleFunc("POST /api/pan", s.handlePan)
	mux.HandleFunc("POST /api/wheel", s.handleWheel)
	mux.HandleFunc("POST /api/zoom", s.handleZoom)
	mux.HandleFunc("POST /api/reset", s.handleReset)
	mux.HandleFunc("POST /api/pointer", s.handlePointer)
	mux.HandleFunc("POST /api/leave", s.handleLeave)
	mux.HandleFunc("POST /api/click", s.handleClick)

	// Scene push channel
	mux.HandleFunc("GET /ws", s.hub.Handler(s.upgrader))
}

package server

import (
	"net/http"
	"strings"

	"github.com/rs/cors"
)

// Handler builds the full middleware stack around the routes
func (s *Server) Handler() http.Handler {
	mux := s.setupRoutes()
	handler := s.services.Observability.HTTPMiddleware()(mux)
	return s.corsMiddleware(handler)
}

// setupRoutes configures all HTTP routes and per-route middleware
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	rateLimitHandler := s.createRateLimitMiddleware()
	requestLimitHandler := s.requestSizeLimitMiddleware()
	protected := func(h http.HandlerFunc) http.HandlerFunc {
		return rateLimitHandler(s.authMiddleware(requestLimitHandler(h)))
	}

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /stats", s.statsHandler)
	mux.HandleFunc("GET /config/ui", s.uiConfigHandler)

	mux.HandleFunc("POST /profile/analyze", protected(s.profileAnalyzeHandler))
	mux.HandleFunc("POST /profile/update", protected(s.profileUpdateHandler))
	mux.HandleFunc("POST /profile/advice", protected(s.profileAdviceHandler))

	mux.HandleFunc("GET /schools", protected(s.schoolSearchHandler))
	mux.HandleFunc("POST /schools/compare", protected(s.schoolCompareHandler))

	mux.HandleFunc("POST /chat", protected(s.chatHandler))
	mux.HandleFunc("DELETE /chat/{id}", protected(s.chatClearHandler))

	if path, handler := s.services.Observability.PrometheusHandler(); handler != nil {
		mux.Handle("GET "+path, handler)
	}

	return mux
}

// corsMiddleware lets the browser chat client call the API. Without
// configured origins no CORS headers are sent.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	origins := s.AppConfig.Server.CORS.AllowedOrigins
	if len(origins) == 0 {
		return next
	}

	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-API-Key"},
		MaxAge:         s.AppConfig.Server.CORS.MaxAge,
	})
	return c.Handler(next)
}

// authMiddleware provides API key authentication
func (s *Server) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Skip authentication if no API keys are configured
		if s.APIKeyCount() == 0 {
			next(w, r)
			return
		}

		apiKey := requestAPIKey(r)
		if apiKey == "" {
			s.Logger.Info("Authentication failed: missing API key",
				"endpoint", r.URL.Path,
				"client_ip", r.RemoteAddr)
			writeErrorResponse(w, "Missing API key", "X-API-Key header or Authorization Bearer token required", http.StatusUnauthorized)
			return
		}

		if !s.validAPIKey(apiKey) {
			s.Logger.Info("Authentication failed: invalid API key",
				"endpoint", r.URL.Path,
				"client_ip", r.RemoteAddr,
				"api_key_prefix", maskAPIKey(apiKey))
			writeErrorResponse(w, "Invalid API key", "Unauthorized access", http.StatusUnauthorized)
			return
		}

		s.Logger.Debug("API authentication successful",
			"endpoint", r.URL.Path,
			"client_ip", r.RemoteAddr,
			"api_key_prefix", maskAPIKey(apiKey))

		next(w, r)
	}
}

// requestAPIKey reads X-API-Key, falling back to a Bearer token
func requestAPIKey(r *http.Request) string {
	if apiKey := r.Header.Get("X-API-Key"); apiKey != "" {
		return apiKey
	}
	if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return after
	}
	return ""
}

// requestSizeLimitMiddleware limits the size of incoming requests
func (s *Server) requestSizeLimitMiddleware() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if s.MaxRequestSize > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, s.MaxRequestSize)
			}

			next(w, r)
		}
	}
}

// maskAPIKey masks an API key for logging (shows only first 8 characters)
func maskAPIKey(apiKey string) string {
	if len(apiKey) <= 8 {
		return "****"
	}
	return apiKey[:8] + "****"
}

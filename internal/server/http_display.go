package server

import "fmt"

// displayServerInfo shows server configuration information
func (s *Server) displayServerInfo() {
	s.displayEndpoints()
	s.displayAuthInfo()
	s.displayRequestLimitInfo()
	s.displayRateLimitInfo()
}

func (s *Server) displayEndpoints() {
	fmt.Println("Available endpoints:")
	fmt.Println("  GET    /health            - Health check")
	fmt.Println("  GET    /stats             - Server statistics")
	fmt.Println("  GET    /config/ui         - Chat client copy and suggestions")
	fmt.Println("  POST   /profile/analyze   - Score a profile")
	fmt.Println("  POST   /profile/update    - Apply field updates and rescore")
	fmt.Println("  POST   /profile/advice    - Advisor narrative for a profile")
	fmt.Println("  GET    /schools           - Search the school catalog")
	fmt.Println("  POST   /schools/compare   - Compare up to three schools")
	fmt.Println("  POST   /chat              - Send a chat message")
	fmt.Println("  DELETE /chat/{id}         - Clear a chat session")
	if path, handler := s.services.Observability.PrometheusHandler(); handler != nil {
		fmt.Printf("  GET    %-18s - Prometheus metrics\n", path)
	}
	if s.services.Advisor == nil {
		fmt.Println("WARNING: no AI provider configured, /chat and /profile/advice answer 503")
	}
}

func (s *Server) displayAuthInfo() {
	if n := s.APIKeyCount(); n > 0 {
		fmt.Printf("API authentication: ENABLED (%d keys configured)\n", n)
		fmt.Println("Include 'X-API-Key: <your-key>' header in API requests")
	} else {
		fmt.Println("API authentication: DISABLED (no API keys configured)")
		fmt.Println("WARNING: API endpoints are publicly accessible!")
	}
}

func (s *Server) displayRequestLimitInfo() {
	if s.MaxRequestSize > 0 {
		fmt.Printf("Request size limit: %d bytes (%.1f MB)\n", s.MaxRequestSize, float64(s.MaxRequestSize)/(1024*1024))
	} else {
		fmt.Println("Request size limit: DISABLED")
		fmt.Println("WARNING: No request size limits configured!")
	}
}

func (s *Server) displayRateLimitInfo() {
	if s.RateLimit != nil && s.RateLimit.Enabled {
		fmt.Printf("Rate limiting: ENABLED (%d requests/min, burst: %d)\n",
			s.RateLimit.RequestsPerMin, s.RateLimit.BurstCapacity)
		if s.RateLimit.ByAPIKey {
			fmt.Println("  - Per API key rate limiting enabled")
		}
		if s.RateLimit.ByIP {
			fmt.Println("  - Per IP address rate limiting enabled")
		}
	} else {
		fmt.Println("Rate limiting: DISABLED")
		fmt.Println("WARNING: No rate limiting configured!")
	}
}

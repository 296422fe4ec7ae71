package server

import (
	"encoding/json"
	"sync/atomic"
	"time"

	"mbaadvisor/internal/ai"
	"mbaadvisor/internal/chat"
	"mbaadvisor/internal/config"
	"mbaadvisor/internal/errors"
	"mbaadvisor/internal/observability"
	"mbaadvisor/internal/profile"
	"mbaadvisor/internal/schools"
	"mbaadvisor/internal/types"
)

// ProfileUpdateRequest is the body of POST /profile/update
type ProfileUpdateRequest struct {
	Profile json.RawMessage       `json:"profile"`
	Updates []profile.FieldUpdate `json:"updates"`
}

// ProfileUpdateResponse carries the edited profile and its fresh report
type ProfileUpdateResponse struct {
	Profile profile.Profile `json:"profile"`
	Report  profile.Report  `json:"report"`
}

// ProfileAdviceResponse pairs the deterministic report with the model narrative
type ProfileAdviceResponse struct {
	Report profile.Report      `json:"report"`
	Advice types.ProfileAdvice `json:"advice"`
}

// CompareRequest is the body of POST /schools/compare
type CompareRequest struct {
	IDs []int `json:"ids"`
}

// ChatRequest is the body of POST /chat
type ChatRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string         `json:"error"`
	Message string         `json:"message,omitempty"`
	Code    string         `json:"code,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}

// Services are the domain components the handlers call. AI and Advisor are
// nil when no model key is configured; their routes then answer 503.
type Services struct {
	AI            *ai.Service
	Advisor       *chat.Advisor
	Schools       *schools.Registry
	Observability *observability.ObservabilityManager
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// TLS is served from these files when both are set
	TLSCertFile string
	TLSKeyFile  string

	// Accepted API keys, swapped atomically when Vault rotates them
	apiKeys atomic.Pointer[map[string]bool]

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	services Services
	Logger   *errors.Logger
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSCertFile    string
	TLSKeyFile     string
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// ServerConfigFrom copies the server section of the application config
func ServerConfigFrom(cfg *config.Config, version string) ServerConfig {
	return ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        version,
		TLSCertFile:    cfg.Server.TLSCertFile,
		TLSKeyFile:     cfg.Server.TLSKeyFile,
		APIKeys:        cfg.Server.APIKeys,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: cfg.Server.MaxRequestSize,
		RateLimit:      &cfg.Server.RateLimit,
	}
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, services Services, logger *errors.Logger) *Server {
	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}
	if services.Schools == nil {
		services.Schools = schools.NewRegistry(schools.DefaultCatalog())
	}

	s := &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		TLSCertFile:    cfg.TLSCertFile,
		TLSKeyFile:     cfg.TLSKeyFile,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		services:       services,
		Logger:         logger,
	}
	s.SetAPIKeys(cfg.APIKeys)
	return s
}

// SetAPIKeys replaces the accepted API keys. An empty list disables authentication.
func (s *Server) SetAPIKeys(keys []string) {
	keyMap := make(map[string]bool, len(keys))
	for _, key := range keys {
		if key != "" {
			keyMap[key] = true
		}
	}
	s.apiKeys.Store(&keyMap)
}

// APIKeyCount returns how many API keys are accepted
func (s *Server) APIKeyCount() int {
	return len(*s.apiKeys.Load())
}

func (s *Server) validAPIKey(key string) bool {
	return (*s.apiKeys.Load())[key]
}

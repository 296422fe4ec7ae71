package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"mbaadvisor/internal/errors"
)

// getHealthCheckTimeout returns the configured health check timeout
func (s *Server) getHealthCheckTimeout() time.Duration {
	if timeout := s.AppConfig.Observability.HealthCheck.Timeout; timeout > 0 {
		return timeout
	}
	return 10 * time.Second
}

// healthHandler reports model availability, breaker state and catalog status
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"status":  "healthy",
		"service": "mbaadvisor",
		"version": s.Version,
		"schools": map[string]any{
			"count": s.services.Schools.Catalog().Len(),
		},
	}

	overallHealthy := true
	if s.services.AI == nil {
		response["ai_model"] = map[string]any{
			"available": false,
			"error":     "no AI provider configured",
		}
		response["status"] = "degraded"
	} else {
		ctx, cancel := context.WithTimeout(r.Context(), s.getHealthCheckTimeout())
		defer cancel()

		modelInfo := s.services.AI.GetModelInfo(ctx)
		response["ai_model"] = modelInfo
		if modelInfo == nil || !modelInfo.Available {
			overallHealthy = false
		}

		breakers := s.services.AI.CircuitBreakerStats()
		response["circuit_breakers"] = breakers
		if healthy, ok := breakers["overall_healthy"].(bool); ok && !healthy {
			overallHealthy = false
		}
	}

	status := http.StatusOK
	if !overallHealthy {
		response["status"] = "degraded"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, response)
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"service": "mbaadvisor",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
			"api_keys":               s.APIKeyCount(),
			"tls_enabled":            s.tlsEnabled(),
		},
		"chat": map[string]any{
			"store":          s.AppConfig.Chat.Store,
			"word_cutoff":    s.AppConfig.Chat.WordCutoff,
			"history_length": s.AppConfig.Chat.HistoryLength,
			"enabled":        s.services.Advisor != nil,
		},
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	writeJSON(w, http.StatusOK, response)
}

// readJSONBody checks the content type and reads the whole request body
func readJSONBody(r *http.Request) ([]byte, error) {
	if r.Header.Get("Content-Type") != "application/json" {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"content-type must be application/json", nil)
	}

	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if stderrors.As(err, &maxBytesErr) {
			return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("request body too large (limit is %d bytes)", maxBytesErr.Limit), err)
		}
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"failed to read request body", err)
	}

	return body, nil
}

// parseJSONRequest parses JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	body, err := readJSONBody(r)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, v); err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest, "failed to parse JSON", err)
	}

	return nil
}

// statusFor maps an application error to an HTTP status
func statusFor(err error) int {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		return http.StatusInternalServerError
	}

	switch appErr.Type {
	case errors.ErrorTypeValidation:
		return http.StatusBadRequest
	case errors.ErrorTypeNotFound:
		return http.StatusNotFound
	case errors.ErrorTypeConflict:
		return http.StatusConflict
	case errors.ErrorTypeAI:
		switch appErr.Code {
		case errors.ErrCodeAIUnavailable:
			return http.StatusServiceUnavailable
		case errors.ErrCodeAITimeout:
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	case errors.ErrorTypeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeAppError writes err as an ErrorResponse with the mapped status
func writeAppError(w http.ResponseWriter, title string, err error) {
	response := ErrorResponse{Error: title, Message: err.Error()}
	if appErr, ok := errors.AsAppError(err); ok {
		response.Message = appErr.Message
		response.Code = appErr.Code
		response.Context = appErr.Context
	}
	writeJSON(w, statusFor(err), response)
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{
		Error:   error,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

package ai

import (
	stderrors "errors"
	"testing"
	"time"

	"google.golang.org/genai"

	"mbaadvisor/internal/config"
)

func breakerConfig(minRequests uint32, threshold float64) *config.CircuitBreakerConfig {
	return &config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      1,
		Interval:         60 * time.Second,
		Timeout:          60 * time.Second,
		MinRequests:      minRequests,
		FailureThreshold: threshold,
	}
}

func TestIndependentCircuitBreakers(t *testing.T) {
	chatCB := NewAICircuitBreaker(config.OperationChat, breakerConfig(3, 0.6), nil)
	intentionCB := NewAICircuitBreaker(config.OperationIntention, breakerConfig(2, 0.7), nil)

	for _, tc := range []struct {
		cb   *AICircuitBreaker
		name string
	}{
		{chatCB, "AI-chat"},
		{intentionCB, "AI-intention"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			stats := tc.cb.GetStats()
			if name, _ := stats["name"].(string); name != tc.name {
				t.Errorf("Expected circuit breaker name '%s', got '%s'", tc.name, name)
			}
			if state, _ := stats["state"].(string); state != "closed" {
				t.Errorf("Expected initial state 'closed', got '%s'", state)
			}
			if enabled, _ := stats["enabled"].(bool); !enabled {
				t.Error("Circuit breaker should be enabled")
			}
		})
	}

	// Tripping one breaker leaves the other closed
	failing := func() (*genai.GenerateContentResponse, error) {
		return nil, stderrors.New("boom")
	}
	for range 3 {
		_, _ = chatCB.Execute(failing)
	}
	if chatCB.IsHealthy() {
		t.Error("Chat circuit breaker should be open after repeated failures")
	}
	if !intentionCB.IsHealthy() {
		t.Error("Intention circuit breaker should still be healthy")
	}
}

func TestCircuitBreakerDisabled(t *testing.T) {
	if cb := NewAICircuitBreaker("disabled", &config.CircuitBreakerConfig{Enabled: false}, nil); cb != nil {
		t.Fatal("Circuit breaker should be nil when disabled")
	}
	if cb := NewAICircuitBreaker("nil-config", nil, nil); cb != nil {
		t.Fatal("Circuit breaker should be nil without configuration")
	}

	var cb *AICircuitBreaker
	called := false
	_, err := cb.Execute(func() (*genai.GenerateContentResponse, error) {
		called = true
		return &genai.GenerateContentResponse{}, nil
	})
	if err != nil || !called {
		t.Errorf("Nil breaker should run the call directly, called=%v err=%v", called, err)
	}
	if !cb.IsHealthy() {
		t.Error("Nil breaker should report healthy")
	}
	if enabled, _ := cb.GetStats()["enabled"].(bool); enabled {
		t.Error("Nil breaker stats should report disabled")
	}
}

func TestModelCircuitBreaker(t *testing.T) {
	cb := NewModelCircuitBreaker(config.OperationChat, breakerConfig(3, 0.6), nil)
	if cb == nil {
		t.Fatal("Model circuit breaker should not be nil")
	}
	if name, _ := cb.GetModelStats()["name"].(string); name != "AI-Model-chat" {
		t.Errorf("Expected model breaker name 'AI-Model-chat', got '%s'", name)
	}

	// Model checks trip on 5 requests at an 80% failure rate
	for range 4 {
		_, _ = cb.ExecuteModel(func() (*genai.Model, error) { return nil, stderrors.New("down") })
	}
	if !cb.IsModelHealthy() {
		t.Error("Model breaker should stay closed below five requests")
	}
	_, _ = cb.ExecuteModel(func() (*genai.Model, error) { return nil, stderrors.New("down") })
	if cb.IsModelHealthy() {
		t.Error("Model breaker should open after five failures")
	}
}

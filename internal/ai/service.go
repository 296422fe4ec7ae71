package ai

import (
	"context"
	"fmt"

	"mbaadvisor/internal/config"
	"mbaadvisor/internal/errors"
)

// Service owns the configured model provider
type Service struct {
	Provider Provider
	Prompts  *Prompts
	config   *config.Config
	logger   *errors.Logger
}

// NewService creates the provider named by the AI configuration
func NewService(ctx context.Context, cfg *config.Config, logger *errors.Logger) (*Service, error) {
	if err := cfg.RequireAIKey(); err != nil {
		return nil, err
	}

	logger.Debug("Initializing AI service",
		"provider", cfg.AI.Provider,
		"model", cfg.AI.Model,
		"timeout", cfg.AI.Timeout,
		"max_retries", cfg.AI.MaxRetries)

	var provider Provider
	var err error
	switch cfg.AI.Provider {
	case "gemini":
		provider, err = NewGeminiProvider(ctx, cfg, logger)
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.AI.Provider), nil)
	}
	if err != nil {
		return nil, err
	}

	return NewServiceWithProvider(cfg, provider, logger), nil
}

// NewServiceWithProvider wraps an existing provider
func NewServiceWithProvider(cfg *config.Config, provider Provider, logger *errors.Logger) *Service {
	return &Service{
		Provider: provider,
		Prompts:  NewPrompts(cfg),
		config:   cfg,
		logger:   logger,
	}
}

// GetModelInfo returns information about the chat model for health checks
func (s *Service) GetModelInfo(ctx context.Context) *ModelInfo {
	return s.Provider.GetModelInfo(ctx)
}

// CircuitBreakerStats returns breaker statistics when the provider exposes them
func (s *Service) CircuitBreakerStats() map[string]any {
	type statsProvider interface {
		GetCircuitBreakerStats() map[string]any
	}
	if sp, ok := s.Provider.(statsProvider); ok {
		return sp.GetCircuitBreakerStats()
	}
	return nil
}

// Close releases the provider
func (s *Service) Close() error {
	return s.Provider.Close()
}

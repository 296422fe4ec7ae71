package ai

import (
	"context"

	"mbaadvisor/internal/profile"
	"mbaadvisor/internal/types"
)

// Provider is a chat model backend. Every call returns token usage when the
// backend reports it; callers can ignore it.
type Provider interface {
	// ClassifyIntention labels the latest user message in history
	ClassifyIntention(ctx context.Context, history []types.Message) (types.Intention, *TokenUsage, error)
	// GenerateExcerpts produces hypothetical cited passages for the conversation
	GenerateExcerpts(ctx context.Context, history []types.Message) ([]types.Excerpt, *TokenUsage, error)
	// Respond continues the conversation under the given system prompt
	Respond(ctx context.Context, systemPrompt string, history []types.Message) (string, *TokenUsage, error)
	// AdviseProfile writes a narrative for a scored profile
	AdviseProfile(ctx context.Context, report profile.Report) (types.ProfileAdvice, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

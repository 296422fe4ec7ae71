package ai

import (
	"context"
	"crypto/rand"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"math"
	"math/big"
	"net"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"

	"github.com/sony/gobreaker/v2"

	"mbaadvisor/internal/config"
	"mbaadvisor/internal/errors"
	"mbaadvisor/internal/profile"
	"mbaadvisor/internal/types"
)

const tracerName = "mbaadvisor.ai.gemini"

// operationClient carries the resolved settings of one model operation
type operationClient struct {
	name    string
	cfg     config.OperationAIConfig
	client  *genai.Client
	breaker *AICircuitBreaker
}

// GeminiProvider implements Provider for Google Gemini
type GeminiProvider struct {
	ops               map[string]*operationClient
	prompts           *Prompts
	modelBreaker      *ModelCircuitBreaker
	modelCheckTimeout time.Duration
	logger            *errors.Logger
}

var _ Provider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a provider with one client per model operation.
// Operations sharing an API key share a client.
func NewGeminiProvider(ctx context.Context, cfg *config.Config, logger *errors.Logger) (*GeminiProvider, error) {
	clients := make(map[string]*genai.Client)
	ops := make(map[string]*operationClient, len(config.Operations))

	for _, op := range config.Operations {
		opCfg := cfg.ForOperation(op)
		if opCfg.APIKey == "" {
			return nil, errors.NewConfigError(errors.ErrCodeMissingAPIKey,
				fmt.Sprintf("No API key configured for the %s operation", op), nil)
		}

		client, ok := clients[opCfg.APIKey]
		if !ok {
			var err error
			client, err = genai.NewClient(ctx, &genai.ClientConfig{
				APIKey:  opCfg.APIKey,
				Backend: genai.BackendGeminiAPI,
			})
			if err != nil {
				return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed,
					"Failed to create Gemini client", err)
			}
			clients[opCfg.APIKey] = client
		}

		ops[op] = &operationClient{
			name:    op,
			cfg:     opCfg,
			client:  client,
			breaker: NewAICircuitBreaker(op, opCfg.CircuitBreaker, logger),
		}
	}

	chatCfg := ops[config.OperationChat].cfg
	modelCheckTimeout := cfg.Observability.HealthCheck.AIModelCheckTimeout
	if modelCheckTimeout <= 0 {
		modelCheckTimeout = 10 * time.Second
	}

	return &GeminiProvider{
		ops:               ops,
		prompts:           NewPrompts(cfg),
		modelBreaker:      NewModelCircuitBreaker(config.OperationChat, chatCfg.CircuitBreaker, logger),
		modelCheckTimeout: modelCheckTimeout,
		logger:            logger,
	}, nil
}

// GetModelInfo checks the readiness and availability of the chat model
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	op := g.ops[config.OperationChat]
	modelInfo := &ModelInfo{
		Name:      op.cfg.Model,
		Available: false,
	}

	checkCtx, cancel := context.WithTimeout(ctx, g.modelCheckTimeout)
	defer cancel()

	model, err := g.modelBreaker.ExecuteModel(func() (*genai.Model, error) {
		return op.client.Models.Get(checkCtx, op.cfg.Model, &genai.GetModelConfig{})
	})
	if err != nil {
		modelInfo.Error = fmt.Sprintf("Failed to get model info: %v", err)
		g.logger.Warn("Model availability check failed",
			"model", op.cfg.Model,
			"provider", op.cfg.Provider,
			"error", err.Error())
		return modelInfo
	}

	modelInfo.Available = true
	modelInfo.DisplayName = model.DisplayName
	modelInfo.Version = model.Version

	g.logger.Debug("Model availability check successful",
		"model", op.cfg.Model,
		"display_name", modelInfo.DisplayName,
		"version", modelInfo.Version)

	return modelInfo
}

// backoffDelay returns the wait before the given retry attempt (1-based)
func backoffDelay(attempt int) time.Duration {
	baseDelay := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
	jitterMax := big.NewInt(int64(float64(baseDelay) * 0.1))
	jitter := time.Duration(0)
	if jitterMax.Sign() > 0 {
		if jitterBig, err := rand.Int(rand.Reader, jitterMax); err == nil {
			jitter = time.Duration(jitterBig.Int64())
		}
	}
	return min(baseDelay+jitter, 30*time.Second)
}

// executeWithRetry runs fn until it succeeds, fails with a non-retryable
// error or exhausts the operation's retry budget
func (g *GeminiProvider) executeWithRetry(ctx context.Context, op *operationClient, fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	maxRetries := *op.cfg.MaxRetries
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			g.logger.Warn("Retrying AI operation",
				"operation", op.name,
				"attempt", attempt,
				"max_retries", maxRetries,
				"error", lastErr.Error())

			select {
			case <-time.After(backoffDelay(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			if attempt > 0 {
				g.logger.Info("AI operation succeeded after retry",
					"operation", op.name,
					"total_attempts", attempt+1)
			}
			return result, nil
		}

		lastErr = err
		if !isRetryableError(err) {
			g.logger.Debug("Error is not retryable, stopping retry attempts",
				"operation", op.name,
				"error", err.Error())
			break
		}
	}

	g.logger.LogError(lastErr, "AI operation failed after all retry attempts",
		"operation", op.name,
		"max_retries", maxRetries)

	return nil, fmt.Errorf("operation '%s' failed: %w", op.name, lastErr)
}

// isRetryableError reports whether err is a transient network or API failure
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return true
	}

	var apiErr *googleapi.Error
	if stderrors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	var genaiErr genai.APIError
	if stderrors.As(err, &genaiErr) {
		return genaiErr.Code == http.StatusTooManyRequests || genaiErr.Code >= http.StatusInternalServerError
	}

	return false
}

// wrapGenerateError maps a failed generation onto an AppError
func wrapGenerateError(op string, err error) error {
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.NewAIError(errors.ErrCodeAITimeout, "AI request timed out for "+op, err)
	case stderrors.Is(err, gobreaker.ErrOpenState), stderrors.Is(err, gobreaker.ErrTooManyRequests):
		return errors.NewAIError(errors.ErrCodeAIUnavailable, "AI service temporarily unavailable for "+op, err)
	default:
		return errors.NewAIError(errors.ErrCodeAIServiceFailed, "Failed to generate content for "+op, err)
	}
}

// generate runs one traced, breaker-protected, retried model call
func (g *GeminiProvider) generate(
	ctx context.Context,
	opName string,
	contents []*genai.Content,
	systemPrompt string,
	genaiConfig *genai.GenerateContentConfig,
	spanAttributes ...attribute.KeyValue,
) (*genai.GenerateContentResponse, *TokenUsage, error) {
	op := g.ops[opName]

	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "gemini."+opName)
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", op.cfg.Model),
		attribute.Float64("ai.temperature", float64(*op.cfg.Temperature)),
	)
	span.SetAttributes(spanAttributes...)

	if *op.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *op.cfg.Timeout)
		defer cancel()
	}

	if systemPrompt != "" {
		genaiConfig.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	result, err := op.breaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.executeWithRetry(ctx, op, func() (*genai.GenerateContentResponse, error) {
			return op.client.Models.GenerateContent(ctx, op.cfg.Model, contents, genaiConfig)
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return nil, nil, wrapGenerateError(opName, err)
	}

	tokenUsage := extractTokenUsage(result)
	if tokenUsage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", tokenUsage.InputTokens),
			attribute.Int64("ai.tokens.output", tokenUsage.OutputTokens),
			attribute.Int64("ai.tokens.total", tokenUsage.TotalTokens),
		)
	}
	span.SetAttributes(attribute.Bool("success", true))
	return result, tokenUsage, nil
}

// executeStructured runs a single-prompt operation whose response is JSON
// constrained by the config's schema
func executeStructured[Out any](
	g *GeminiProvider,
	ctx context.Context,
	opName string,
	userPrompt string,
	systemPrompt string,
	genaiConfig *genai.GenerateContentConfig,
	spanAttributes ...attribute.KeyValue,
) (Out, *TokenUsage, error) {
	var output Out

	result, tokenUsage, err := g.generate(ctx, opName, genai.Text(userPrompt), systemPrompt, genaiConfig, spanAttributes...)
	if err != nil {
		return output, nil, err
	}

	if err := json.Unmarshal([]byte(result.Text()), &output); err != nil {
		trace.SpanFromContext(ctx).RecordError(err)
		return output, tokenUsage, errors.NewAIError(errors.ErrCodeAIServiceFailed,
			"Failed to parse AI response for "+opName, err)
	}
	return output, tokenUsage, nil
}

type intentionOutput struct {
	Intention string `json:"intention"`
}

type excerptsOutput struct {
	Excerpts []types.Excerpt `json:"excerpts"`
}

// ClassifyIntention implements Provider
func (g *GeminiProvider) ClassifyIntention(ctx context.Context, history []types.Message) (types.Intention, *TokenUsage, error) {
	output, tokenUsage, err := executeStructured[intentionOutput](
		g,
		ctx,
		config.OperationIntention,
		renderHistory(history),
		g.prompts.Intention(),
		g.buildIntentionSchema(),
		attribute.Int("input.history_length", len(history)),
	)
	if err != nil {
		return types.IntentionRandom, nil, err
	}
	return types.ParseIntention(output.Intention), tokenUsage, nil
}

// GenerateExcerpts implements Provider
func (g *GeminiProvider) GenerateExcerpts(ctx context.Context, history []types.Message) ([]types.Excerpt, *TokenUsage, error) {
	output, tokenUsage, err := executeStructured[excerptsOutput](
		g,
		ctx,
		config.OperationHyde,
		g.prompts.Hyde(history),
		"",
		g.buildExcerptsSchema(),
		attribute.Int("input.history_length", len(history)),
	)
	if err != nil {
		return nil, nil, err
	}

	excerpts := make([]types.Excerpt, 0, len(output.Excerpts))
	for _, e := range output.Excerpts {
		if strings.TrimSpace(e.Content) == "" {
			continue
		}
		excerpts = append(excerpts, e)
	}
	return excerpts, tokenUsage, nil
}

// Respond implements Provider
func (g *GeminiProvider) Respond(ctx context.Context, systemPrompt string, history []types.Message) (string, *TokenUsage, error) {
	genaiConfig := &genai.GenerateContentConfig{}
	g.applyTemperature(config.OperationChat, genaiConfig)

	result, tokenUsage, err := g.generate(ctx, config.OperationChat, toContents(history), systemPrompt, genaiConfig,
		attribute.Int("input.history_length", len(history)),
		attribute.Int("input.system_prompt_length", len(systemPrompt)),
	)
	if err != nil {
		return "", nil, err
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", tokenUsage, errors.NewAIError(errors.ErrCodeAIServiceFailed, "AI returned an empty response", nil)
	}
	return text, tokenUsage, nil
}

// AdviseProfile implements Provider
func (g *GeminiProvider) AdviseProfile(ctx context.Context, report profile.Report) (types.ProfileAdvice, *TokenUsage, error) {
	output, tokenUsage, err := executeStructured[types.ProfileAdvice](
		g,
		ctx,
		config.OperationAdvice,
		g.prompts.ProfileAdvice(report),
		"",
		g.buildAdviceSchema(),
		attribute.Int("profile.overall", report.Scores.Overall),
	)
	if err != nil {
		return types.ProfileAdvice{}, nil, err
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(attribute.Int("output.priorities", len(output.Priorities)))
	}
	return output, tokenUsage, nil
}

// GetCircuitBreakerStats returns circuit breaker statistics per operation
func (g *GeminiProvider) GetCircuitBreakerStats() map[string]any {
	stats := make(map[string]any, len(g.ops)+2)
	healthy := g.modelBreaker.IsModelHealthy()
	for name, op := range g.ops {
		stats[name] = op.breaker.GetStats()
		healthy = healthy && op.breaker.IsHealthy()
	}
	stats["model_operations"] = g.modelBreaker.GetModelStats()
	stats["overall_healthy"] = healthy
	return stats
}

// Close implements Provider
func (g *GeminiProvider) Close() error {
	return nil
}

// toContents maps chat history onto Gemini turns
func toContents(history []types.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		role := genai.Role(genai.RoleUser)
		if msg.Role == types.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, role))
	}
	return contents
}

func (g *GeminiProvider) applyTemperature(opName string, genaiConfig *genai.GenerateContentConfig) {
	if t := g.ops[opName].cfg.Temperature; t != nil && *t > 0 {
		temperature := *t
		genaiConfig.Temperature = &temperature
	}
}

// buildIntentionSchema creates the schema for intention classification
func (g *GeminiProvider) buildIntentionSchema() *genai.GenerateContentConfig {
	enum := make([]string, 0, len(types.Intentions))
	for _, i := range types.Intentions {
		enum = append(enum, string(i))
	}

	genaiConfig := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"intention": {Type: genai.TypeString, Enum: enum},
			},
			Required: []string{"intention"},
		},
	}
	g.applyTemperature(config.OperationIntention, genaiConfig)
	return genaiConfig
}

// buildExcerptsSchema creates the schema for hypothetical excerpts
func (g *GeminiProvider) buildExcerptsSchema() *genai.GenerateContentConfig {
	genaiConfig := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"excerpts": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"source":  {Type: genai.TypeString},
							"content": {Type: genai.TypeString},
						},
						Required: []string{"source", "content"},
					},
				},
			},
			Required: []string{"excerpts"},
		},
	}
	g.applyTemperature(config.OperationHyde, genaiConfig)
	return genaiConfig
}

// buildAdviceSchema creates the schema for profile advice
func (g *GeminiProvider) buildAdviceSchema() *genai.GenerateContentConfig {
	genaiConfig := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"summary": {Type: genai.TypeString},
				"priorities": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
				"schoolStrategy": {Type: genai.TypeString},
			},
			Required: []string{"summary", "priorities", "schoolStrategy"},
		},
	}
	g.applyTemperature(config.OperationAdvice, genaiConfig)
	return genaiConfig
}

// extractTokenUsage extracts token usage information from a Gemini response
func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}

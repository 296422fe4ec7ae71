package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	oteltrace "go.opentelemetry.io/otel/trace"

	"mbaadvisor/internal/ai"
	"mbaadvisor/internal/config"
	"mbaadvisor/internal/types"
)

// Metrics holds all custom metrics. A nil *Metrics records nothing.
type Metrics struct {
	// AI operation metrics
	AIProcessingTime metric.Float64Histogram
	AIRequestCount   metric.Int64Counter
	AIErrorCount     metric.Int64Counter
	AITokenUsage     metric.Int64Histogram

	// Business metrics
	ChatReplies       metric.Int64Counter
	WordCutoffHits    metric.Int64Counter
	ProfileAnalyses   metric.Int64Counter
	ProfileScore      metric.Int64Histogram
	SchoolSearches    metric.Int64Counter
	SchoolComparisons metric.Int64Counter

	// Rate limiting metrics
	RateLimitHits metric.Int64Counter

	custom *config.CustomMetricsConfig
}

func newMetrics(meter metric.Meter, custom *config.CustomMetricsConfig) (*Metrics, error) {
	m := &Metrics{custom: custom}
	var err error

	if m.AIProcessingTime, err = meter.Float64Histogram(
		"mbaadvisor_ai_processing_duration_seconds",
		metric.WithDescription("Time spent processing AI requests"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI processing time metric: %w", err)
	}

	if m.AIRequestCount, err = meter.Int64Counter(
		"mbaadvisor_ai_requests_total",
		metric.WithDescription("Total number of AI requests"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI request count metric: %w", err)
	}

	if m.AIErrorCount, err = meter.Int64Counter(
		"mbaadvisor_ai_errors_total",
		metric.WithDescription("Total number of AI request errors"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI error count metric: %w", err)
	}

	if m.AITokenUsage, err = meter.Int64Histogram(
		"mbaadvisor_ai_token_usage",
		metric.WithDescription("Token usage for AI requests (input, output, total)"),
		metric.WithUnit("tokens"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI token usage metric: %w", err)
	}

	if m.ChatReplies, err = meter.Int64Counter(
		"mbaadvisor_chat_replies_total",
		metric.WithDescription("Chat replies by classified intention"),
	); err != nil {
		return nil, fmt.Errorf("failed to create chat replies metric: %w", err)
	}

	if m.WordCutoffHits, err = meter.Int64Counter(
		"mbaadvisor_chat_word_cutoff_total",
		metric.WithDescription("Chat turns refused because the session reached the word cutoff"),
	); err != nil {
		return nil, fmt.Errorf("failed to create word cutoff metric: %w", err)
	}

	if m.ProfileAnalyses, err = meter.Int64Counter(
		"mbaadvisor_profile_analyses_total",
		metric.WithDescription("Total number of profiles scored"),
	); err != nil {
		return nil, fmt.Errorf("failed to create profile analyses metric: %w", err)
	}

	if m.ProfileScore, err = meter.Int64Histogram(
		"mbaadvisor_profile_overall_score",
		metric.WithDescription("Overall profile strength scores"),
		metric.WithExplicitBucketBoundaries(50, 60, 70, 85, 100),
	); err != nil {
		return nil, fmt.Errorf("failed to create profile score metric: %w", err)
	}

	if m.SchoolSearches, err = meter.Int64Counter(
		"mbaadvisor_school_searches_total",
		metric.WithDescription("Total number of school catalog searches"),
	); err != nil {
		return nil, fmt.Errorf("failed to create school searches metric: %w", err)
	}

	if m.SchoolComparisons, err = meter.Int64Counter(
		"mbaadvisor_school_comparisons_total",
		metric.WithDescription("Total number of school comparisons"),
	); err != nil {
		return nil, fmt.Errorf("failed to create school comparisons metric: %w", err)
	}

	if m.RateLimitHits, err = meter.Int64Counter(
		"mbaadvisor_rate_limit_hits_total",
		metric.WithDescription("Total number of rate limit hits"),
	); err != nil {
		return nil, fmt.Errorf("failed to create rate limit hits metric: %w", err)
	}

	return m, nil
}

func (m *Metrics) aiEnabled() bool {
	return m.custom == nil || m.custom.AIOperations.Enabled
}

func (m *Metrics) businessEnabled() bool {
	return m.custom == nil || m.custom.BusinessMetrics.Enabled
}

// TrackAIOperationWithTokens instruments a model call with a span, duration,
// request and error counts, and token usage
func (m *Metrics) TrackAIOperationWithTokens(ctx context.Context, operation string, fn func(context.Context) (*ai.TokenUsage, error)) error {
	if m == nil {
		_, err := fn(ctx)
		return err
	}

	ctx, span := otel.Tracer("mbaadvisor.ai").Start(ctx, "ai."+operation)
	defer span.End()

	start := time.Now()
	usage, err := fn(ctx)
	duration := time.Since(start).Seconds()

	if m.aiEnabled() {
		m.recordAIMetrics(ctx, operation, err, duration, usage, span)
	}

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("error", true))
	}
	return err
}

func (m *Metrics) recordAIMetrics(ctx context.Context, operation string, err error, duration float64, usage *ai.TokenUsage, span oteltrace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.Bool("success", err == nil),
	}

	if m.custom == nil || m.custom.AIOperations.TrackDuration {
		m.AIProcessingTime.Record(ctx, duration, metric.WithAttributes(attrs...))
	}
	m.AIRequestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	if err != nil {
		m.AIErrorCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	}

	if usage != nil {
		if m.custom == nil || m.custom.AIOperations.TrackTokenUsage {
			for _, tt := range []struct {
				tokenType string
				value     int64
			}{
				{"input", usage.InputTokens},
				{"output", usage.OutputTokens},
				{"total", usage.TotalTokens},
			} {
				tokenAttrs := append(attrs[:len(attrs):len(attrs)], attribute.String("token_type", tt.tokenType))
				m.AITokenUsage.Record(ctx, tt.value, metric.WithAttributes(tokenAttrs...))
			}
		}
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", usage.InputTokens),
			attribute.Int64("ai.tokens.output", usage.OutputTokens),
			attribute.Int64("ai.tokens.total", usage.TotalTokens),
		)
	}

	span.SetAttributes(attrs...)
}

// RecordChatReply counts a finished chat turn
func (m *Metrics) RecordChatReply(ctx context.Context, intention types.Intention, wordLimitReached bool) {
	if m == nil || !m.businessEnabled() {
		return
	}
	if wordLimitReached {
		m.WordCutoffHits.Add(ctx, 1)
	}
	var attrs []attribute.KeyValue
	if m.custom == nil || m.custom.BusinessMetrics.TrackIntentions {
		label := string(intention)
		if label == "" {
			label = "none"
		}
		attrs = append(attrs, attribute.String("intention", label))
	}
	m.ChatReplies.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordProfileAnalysis counts a scored profile and records its overall score
func (m *Metrics) RecordProfileAnalysis(ctx context.Context, overall int, level string) {
	if m == nil || !m.businessEnabled() {
		return
	}
	m.ProfileAnalyses.Add(ctx, 1, metric.WithAttributes(attribute.String("level", level)))
	if m.custom == nil || m.custom.BusinessMetrics.TrackProfileScore {
		m.ProfileScore.Record(ctx, int64(overall))
	}
}

// RecordSchoolSearch counts a catalog search
func (m *Metrics) RecordSchoolSearch(ctx context.Context, results int) {
	if m == nil || !m.businessEnabled() {
		return
	}
	m.SchoolSearches.Add(ctx, 1, metric.WithAttributes(attribute.Bool("empty", results == 0)))
}

// RecordSchoolComparison counts a comparison of the given number of schools
func (m *Metrics) RecordSchoolComparison(ctx context.Context, schools int) {
	if m == nil || !m.businessEnabled() {
		return
	}
	m.SchoolComparisons.Add(ctx, 1, metric.WithAttributes(attribute.Int("schools", schools)))
}

// RecordRateLimitHit counts a rejected request
func (m *Metrics) RecordRateLimitHit(ctx context.Context, attrs ...attribute.KeyValue) {
	if m == nil {
		return
	}
	if m.custom != nil && (!m.custom.Infrastructure.Enabled || !m.custom.Infrastructure.TrackRateLimits) {
		return
	}
	m.RateLimitHits.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// TrackAIOperation implements chat.Tracker
func (om *ObservabilityManager) TrackAIOperation(ctx context.Context, operation string, fn func(context.Context) (*ai.TokenUsage, error)) error {
	return om.GetMetrics().TrackAIOperationWithTokens(ctx, operation, fn)
}

// RecordChatReply implements chat.Tracker
func (om *ObservabilityManager) RecordChatReply(ctx context.Context, intention types.Intention, wordLimitReached bool) {
	om.GetMetrics().RecordChatReply(ctx, intention, wordLimitReached)
}

package observability

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"mbaadvisor/internal/ai"
	"mbaadvisor/internal/config"
	"mbaadvisor/internal/types"
)

func newTestMetrics(t *testing.T, custom *config.CustomMetricsConfig) (*Metrics, *sdkmetric.ManualReader) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := newMetrics(mp.Meter("test"), custom)
	require.NoError(t, err)
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	byName := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			byName[m.Name] = m
		}
	}
	return byName
}

func counterTotal(t *testing.T, m metricdata.Metrics) int64 {
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestTrackAIOperationWithTokens(t *testing.T) {
	m, reader := newTestMetrics(t, nil)
	ctx := context.Background()

	err := m.TrackAIOperationWithTokens(ctx, config.OperationChat, func(context.Context) (*ai.TokenUsage, error) {
		return &ai.TokenUsage{InputTokens: 100, OutputTokens: 50, TotalTokens: 150}, nil
	})
	require.NoError(t, err)

	boom := stderrors.New("boom")
	err = m.TrackAIOperationWithTokens(ctx, config.OperationHyde, func(context.Context) (*ai.TokenUsage, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	got := collect(t, reader)
	assert.Equal(t, int64(2), counterTotal(t, got["mbaadvisor_ai_requests_total"]))
	assert.Equal(t, int64(1), counterTotal(t, got["mbaadvisor_ai_errors_total"]))

	tokens, ok := got["mbaadvisor_ai_token_usage"].Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	assert.Len(t, tokens.DataPoints, 3, "one series per token type")
}

func TestRecordChatReply(t *testing.T) {
	m, reader := newTestMetrics(t, nil)
	ctx := context.Background()

	m.RecordChatReply(ctx, types.IntentionQuestion, false)
	m.RecordChatReply(ctx, types.IntentionQuestion, false)
	m.RecordChatReply(ctx, "", true)

	got := collect(t, reader)
	assert.Equal(t, int64(3), counterTotal(t, got["mbaadvisor_chat_replies_total"]))
	assert.Equal(t, int64(1), counterTotal(t, got["mbaadvisor_chat_word_cutoff_total"]))
}

func TestBusinessMetricsDisabled(t *testing.T) {
	custom := &config.CustomMetricsConfig{}
	m, reader := newTestMetrics(t, custom)
	ctx := context.Background()

	m.RecordProfileAnalysis(ctx, 72, "Strong")
	m.RecordSchoolSearch(ctx, 4)
	m.RecordRateLimitHit(ctx)

	got := collect(t, reader)
	for _, name := range []string{
		"mbaadvisor_profile_analyses_total",
		"mbaadvisor_school_searches_total",
		"mbaadvisor_rate_limit_hits_total",
	} {
		if m, ok := got[name]; ok {
			assert.Zero(t, counterTotal(t, m), name)
		}
	}
}

func TestRecordProfileAndSchools(t *testing.T) {
	m, reader := newTestMetrics(t, nil)
	ctx := context.Background()

	m.RecordProfileAnalysis(ctx, 72, "Strong")
	m.RecordSchoolSearch(ctx, 0)
	m.RecordSchoolComparison(ctx, 3)

	got := collect(t, reader)
	assert.Equal(t, int64(1), counterTotal(t, got["mbaadvisor_profile_analyses_total"]))
	assert.Equal(t, int64(1), counterTotal(t, got["mbaadvisor_school_searches_total"]))
	assert.Equal(t, int64(1), counterTotal(t, got["mbaadvisor_school_comparisons_total"]))

	scores, ok := got["mbaadvisor_profile_overall_score"].Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	require.Len(t, scores.DataPoints, 1)
	assert.Equal(t, int64(72), scores.DataPoints[0].Sum)
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	ctx := context.Background()

	called := false
	err := m.TrackAIOperationWithTokens(ctx, "chat", func(context.Context) (*ai.TokenUsage, error) {
		called = true
		return nil, nil
	})
	assert.NoError(t, err)
	assert.True(t, called)

	m.RecordChatReply(ctx, types.IntentionRandom, false)
	m.RecordProfileAnalysis(ctx, 50, "Moderate")
	m.RecordRateLimitHit(ctx)
}

func TestDisabledManager(t *testing.T) {
	om, err := NewObservabilityManager(ObservabilityConfig{ServiceName: "mbaadvisor"}, nil)
	require.NoError(t, err)

	assert.Nil(t, om.GetMetrics())
	path, handler := om.PrometheusHandler()
	assert.Empty(t, path)
	assert.Nil(t, handler)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })
	rec := httptest.NewRecorder()
	om.HTTPMiddleware()(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NoError(t, om.Shutdown(context.Background()))
}

func TestPrometheusExporterServesMetrics(t *testing.T) {
	reader, handler, err := SetupPrometheusExporter(PrometheusConfig{Enabled: true, Endpoint: "/metrics"})
	require.NoError(t, err)

	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	m, err := newMetrics(mp.Meter("test"), nil)
	require.NoError(t, err)
	m.RecordSchoolComparison(context.Background(), 2)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "mbaadvisor_school_comparisons_total"))
}

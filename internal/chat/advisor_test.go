package chat

import (
	"context"
	stderrors "errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mbaadvisor/internal/ai"
	"mbaadvisor/internal/config"
	"mbaadvisor/internal/errors"
	"mbaadvisor/internal/profile"
	"mbaadvisor/internal/types"
)

var testLogger = errors.NewLogger(slog.LevelDebug)

// fakeProvider answers with canned values and records the prompts it saw
type fakeProvider struct {
	mu            sync.Mutex
	intention     types.Intention
	intentionErr  error
	excerpts      []types.Excerpt
	excerptsErr   error
	respondErr    error
	systemPrompts []string
	histories     [][]types.Message
}

func (f *fakeProvider) ClassifyIntention(ctx context.Context, history []types.Message) (types.Intention, *ai.TokenUsage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.histories = append(f.histories, history)
	return f.intention, &ai.TokenUsage{TotalTokens: 10}, f.intentionErr
}

func (f *fakeProvider) GenerateExcerpts(ctx context.Context, history []types.Message) ([]types.Excerpt, *ai.TokenUsage, error) {
	return f.excerpts, nil, f.excerptsErr
}

func (f *fakeProvider) Respond(ctx context.Context, systemPrompt string, history []types.Message) (string, *ai.TokenUsage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.systemPrompts = append(f.systemPrompts, systemPrompt)
	if f.respondErr != nil {
		return "", nil, f.respondErr
	}
	return "reply to: " + history[len(history)-1].Content, &ai.TokenUsage{TotalTokens: 42}, nil
}

func (f *fakeProvider) AdviseProfile(ctx context.Context, report profile.Report) (types.ProfileAdvice, *ai.TokenUsage, error) {
	return types.ProfileAdvice{}, nil, nil
}

func (f *fakeProvider) GetModelInfo(ctx context.Context) *ai.ModelInfo {
	return &ai.ModelInfo{Name: "fake", Available: true}
}

func (f *fakeProvider) Close() error { return nil }

type recordingTracker struct {
	operations []string
	replies    []types.Intention
	cutoffs    int
}

func (r *recordingTracker) TrackAIOperation(ctx context.Context, operation string, fn func(context.Context) (*ai.TokenUsage, error)) error {
	r.operations = append(r.operations, operation)
	_, err := fn(ctx)
	return err
}

func (r *recordingTracker) RecordChatReply(ctx context.Context, intention types.Intention, wordLimitReached bool) {
	r.replies = append(r.replies, intention)
	if wordLimitReached {
		r.cutoffs++
	}
}

func newTestAdvisor(p *fakeProvider, cfg config.ChatConfig, opts ...Option) (*Advisor, *MemoryStore) {
	store := NewMemoryStore(time.Hour)
	return NewAdvisor(p, ai.NewPrompts(nil), store, cfg, testLogger, opts...), store
}

func TestAdvisorRandomMessage(t *testing.T) {
	p := &fakeProvider{intention: types.IntentionRandom}
	tracker := &recordingTracker{}
	advisor, store := newTestAdvisor(p, config.ChatConfig{}, WithTracker(tracker))

	reply, err := advisor.Reply(context.Background(), "", "Hello there")
	require.NoError(t, err)

	assert.NotEmpty(t, reply.SessionID)
	assert.Equal(t, types.IntentionRandom, reply.Intention)
	assert.Equal(t, types.RoleAssistant, reply.Message.Role)
	assert.Equal(t, "reply to: Hello there", reply.Message.Content)
	require.Len(t, p.systemPrompts, 1)
	assert.Equal(t, ai.RandomMessagePrompt(), p.systemPrompts[0])

	saved, err := store.Get(context.Background(), reply.SessionID)
	require.NoError(t, err)
	assert.Len(t, saved.Messages, 2)

	assert.Equal(t, []string{config.OperationIntention, config.OperationChat}, tracker.operations)
	assert.Equal(t, []types.Intention{types.IntentionRandom}, tracker.replies)
}

func TestAdvisorHostileMessage(t *testing.T) {
	p := &fakeProvider{intention: types.IntentionHostile}
	advisor, _ := newTestAdvisor(p, config.ChatConfig{})

	reply, err := advisor.Reply(context.Background(), "", "You are useless")
	require.NoError(t, err)

	assert.Equal(t, types.IntentionHostile, reply.Intention)
	require.Len(t, p.systemPrompts, 1)
	assert.Equal(t, ai.HostileMessagePrompt(), p.systemPrompts[0])
}

func TestAdvisorQuestionWithExcerpts(t *testing.T) {
	p := &fakeProvider{
		intention: types.IntentionQuestion,
		excerpts: []types.Excerpt{
			{Source: "Kellogg admissions site", Content: "Kellogg offers a one-year MBA."},
			{Source: " ", Content: "Interviews are blind to the application."},
		},
	}
	advisor, _ := newTestAdvisor(p, config.ChatConfig{})

	reply, err := advisor.Reply(context.Background(), "", "Does Kellogg have a one-year MBA?")
	require.NoError(t, err)

	require.Len(t, reply.Message.Citations, 2)
	assert.Equal(t, types.Citation{Number: 1, Source: "Kellogg admissions site", Excerpt: "Kellogg offers a one-year MBA."}, reply.Message.Citations[0])
	assert.Equal(t, EmptyCitationMessage, reply.Message.Citations[1].Source)

	require.Len(t, p.systemPrompts, 1)
	assert.Contains(t, p.systemPrompts[0], "[1] Kellogg admissions site\nKellogg offers a one-year MBA.")
	assert.Contains(t, p.systemPrompts[0], "[2] Unspecified source")
}

func TestAdvisorQuestionFallsBackToBackupPrompt(t *testing.T) {
	for name, p := range map[string]*fakeProvider{
		"ExcerptError": {intention: types.IntentionQuestion, excerptsErr: stderrors.New("hyde failed")},
		"NoExcerpts":   {intention: types.IntentionQuestion},
	} {
		t.Run(name, func(t *testing.T) {
			advisor, _ := newTestAdvisor(p, config.ChatConfig{})

			reply, err := advisor.Reply(context.Background(), "", "What GMAT score do I need?")
			require.NoError(t, err)

			assert.Empty(t, reply.Message.Citations)
			require.Len(t, p.systemPrompts, 1)
			assert.Equal(t, ai.QuestionBackupPrompt(), p.systemPrompts[0])
		})
	}
}

func TestAdvisorModelFailureUsesDefaultMessage(t *testing.T) {
	p := &fakeProvider{intention: types.IntentionRandom, respondErr: stderrors.New("model down")}
	advisor, store := newTestAdvisor(p, config.ChatConfig{})

	reply, err := advisor.Reply(context.Background(), "", "Hi")
	require.NoError(t, err)
	assert.Equal(t, DefaultResponseMessage, reply.Message.Content)

	saved, err := store.Get(context.Background(), reply.SessionID)
	require.NoError(t, err)
	assert.Equal(t, DefaultResponseMessage, saved.Messages[1].Content)
}

func TestAdvisorClassificationFailureTreatedAsRandom(t *testing.T) {
	p := &fakeProvider{intention: types.IntentionQuestion, intentionErr: stderrors.New("classifier down")}
	advisor, _ := newTestAdvisor(p, config.ChatConfig{})

	reply, err := advisor.Reply(context.Background(), "", "Hi")
	require.NoError(t, err)
	assert.Equal(t, types.IntentionRandom, reply.Intention)
	assert.Equal(t, ai.RandomMessagePrompt(), p.systemPrompts[0])
}

func TestAdvisorWordCutoff(t *testing.T) {
	p := &fakeProvider{intention: types.IntentionRandom}
	tracker := &recordingTracker{}
	advisor, _ := newTestAdvisor(p, config.ChatConfig{WordCutoff: 10}, WithTracker(tracker))
	ctx := context.Background()

	first, err := advisor.Reply(ctx, "", "one two three")
	require.NoError(t, err)
	assert.False(t, first.WordLimitReached)

	// 3 user words, 5 reply words, plus 2 more reaches 10
	second, err := advisor.Reply(ctx, first.SessionID, "four five")
	require.NoError(t, err)
	assert.True(t, second.WordLimitReached)
	assert.Equal(t, WordBreakMessage, second.Message.Content)
	assert.Empty(t, second.Intention)
	assert.Len(t, p.systemPrompts, 1, "the model must not be called past the cutoff")
	assert.Equal(t, 1, tracker.cutoffs)
}

func TestAdvisorHistoryLength(t *testing.T) {
	p := &fakeProvider{intention: types.IntentionRandom}
	advisor, _ := newTestAdvisor(p, config.ChatConfig{HistoryLength: 3})
	ctx := context.Background()

	reply, err := advisor.Reply(ctx, "", "first")
	require.NoError(t, err)
	_, err = advisor.Reply(ctx, reply.SessionID, "second")
	require.NoError(t, err)

	last := p.histories[len(p.histories)-1]
	require.Len(t, last, 3)
	assert.Equal(t, "second", last[2].Content)
}

func TestAdvisorUnknownSessionStartsFresh(t *testing.T) {
	p := &fakeProvider{intention: types.IntentionRandom}
	advisor, _ := newTestAdvisor(p, config.ChatConfig{})

	reply, err := advisor.Reply(context.Background(), "does-not-exist", "Hi")
	require.NoError(t, err)
	assert.NotEqual(t, "does-not-exist", reply.SessionID)
}

func TestAdvisorConcurrentRepliesKeepEveryMessage(t *testing.T) {
	p := &fakeProvider{intention: types.IntentionRandom}
	advisor, store := newTestAdvisor(p, config.ChatConfig{WordCutoff: 10000})

	first, err := advisor.Reply(context.Background(), "", "Hello")
	require.NoError(t, err)

	const senders = 8
	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reply, err := advisor.Reply(context.Background(), first.SessionID, "Another question")
			assert.NoError(t, err)
			assert.Equal(t, first.SessionID, reply.SessionID)
		}()
	}
	wg.Wait()

	saved, err := store.Get(context.Background(), first.SessionID)
	require.NoError(t, err)
	assert.Len(t, saved.Messages, 2+2*senders)
	assert.Empty(t, advisor.locks.held)
}

func TestAdvisorRejectsEmptyMessage(t *testing.T) {
	advisor, _ := newTestAdvisor(&fakeProvider{}, config.ChatConfig{})

	_, err := advisor.Reply(context.Background(), "", "   ")
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestAdvisorClear(t *testing.T) {
	p := &fakeProvider{intention: types.IntentionRandom}
	advisor, _ := newTestAdvisor(p, config.ChatConfig{})
	ctx := context.Background()

	reply, err := advisor.Reply(ctx, "", "Hi")
	require.NoError(t, err)

	require.NoError(t, advisor.Clear(ctx, reply.SessionID))
	_, err = advisor.Session(ctx, reply.SessionID)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
}

func TestRenderExcerpts(t *testing.T) {
	rendered := RenderExcerpts(Citations([]types.Excerpt{
		{Source: "A", Content: "alpha"},
		{Source: "B", Content: "beta"},
	}))
	assert.Equal(t, "[1] A\nalpha\n\n[2] B\nbeta", rendered)
	assert.False(t, strings.Contains(RenderExcerpts(nil), "["))
}

func TestUIConfig(t *testing.T) {
	ui := UIConfig()
	assert.Equal(t, ClearButtonText, ui.ClearButtonText)
	assert.Len(t, ui.PromptSuggestions, 6)
	assert.Contains(t, ui.InitialMessage, "I'm Veritas")
	require.Len(t, ui.Tools, 2)
	assert.Equal(t, "/tools/profile-strength", ui.Tools[1].Path)
}

package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"mbaadvisor/internal/ai"
	"mbaadvisor/internal/config"
	"mbaadvisor/internal/errors"
	"mbaadvisor/internal/types"
)

// Reply is the outcome of one chat turn
type Reply struct {
	SessionID        string          `json:"sessionId"`
	Message          types.Message   `json:"message"`
	Intention        types.Intention `json:"intention,omitempty"`
	WordLimitReached bool            `json:"wordLimitReached,omitempty"`
}

// Tracker instruments model calls and finished replies
type Tracker interface {
	TrackAIOperation(ctx context.Context, operation string, fn func(context.Context) (*ai.TokenUsage, error)) error
	RecordChatReply(ctx context.Context, intention types.Intention, wordLimitReached bool)
}

type nopTracker struct{}

func (nopTracker) TrackAIOperation(ctx context.Context, _ string, fn func(context.Context) (*ai.TokenUsage, error)) error {
	_, err := fn(ctx)
	return err
}

func (nopTracker) RecordChatReply(context.Context, types.Intention, bool) {}

// Advisor routes user messages to the model by intention
type Advisor struct {
	provider      ai.Provider
	prompts       *ai.Prompts
	store         Store
	wordCutoff    int
	historyLength int
	tracker       Tracker
	logger        *errors.Logger
	now           func() time.Time
	locks         sessionLocks
}

// Option customizes an Advisor
type Option func(*Advisor)

// WithTracker instruments the advisor
func WithTracker(t Tracker) Option {
	return func(a *Advisor) {
		if t != nil {
			a.tracker = t
		}
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(a *Advisor) { a.now = now }
}

// NewAdvisor creates an advisor. Non-positive limits in cfg use the defaults.
func NewAdvisor(provider ai.Provider, prompts *ai.Prompts, store Store, cfg config.ChatConfig, logger *errors.Logger, opts ...Option) *Advisor {
	a := &Advisor{
		provider:      provider,
		prompts:       prompts,
		store:         store,
		wordCutoff:    cfg.WordCutoff,
		historyLength: cfg.HistoryLength,
		tracker:       nopTracker{},
		logger:        logger,
		now:           time.Now,
	}
	if a.wordCutoff <= 0 {
		a.wordCutoff = DefaultWordCutoff
	}
	if a.historyLength <= 0 {
		a.historyLength = DefaultHistoryLength
	}
	if a.prompts == nil {
		a.prompts = ai.NewPrompts(nil)
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Reply appends text to the session and answers it. Model failures produce
// DefaultResponseMessage rather than an error; only invalid input and store
// failures are returned.
//
// Replies to the same session are serialized within one Advisor. Advisors in
// different processes sharing a RedisStore do not coordinate, so the last
// Save wins there.
func (a *Advisor) Reply(ctx context.Context, sessionID, text string) (Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Reply{}, errors.NewValidationError(errors.ErrCodeInvalidRequest, "Message must not be empty", nil)
	}

	if sessionID != "" {
		unlock := a.locks.lock(sessionID)
		defer unlock()
	}

	session, err := a.loadSession(ctx, sessionID)
	if err != nil {
		return Reply{}, err
	}
	session.Append(types.Message{Role: types.RoleUser, Content: text, CreatedAt: a.now()})

	reply := Reply{SessionID: session.ID}
	if session.WordCount() >= a.wordCutoff {
		a.logger.Info("Chat session reached word cutoff",
			"session_id", session.ID,
			"word_count", session.WordCount(),
			"cutoff", a.wordCutoff)
		reply.WordLimitReached = true
		reply.Message = a.assistantMessage(WordBreakMessage, nil)
	} else {
		reply.Message, reply.Intention = a.respond(ctx, session)
	}

	session.Append(reply.Message)
	if err := a.store.Save(ctx, session); err != nil {
		return Reply{}, err
	}

	a.tracker.RecordChatReply(ctx, reply.Intention, reply.WordLimitReached)
	return reply, nil
}

// Clear deletes a session
func (a *Advisor) Clear(ctx context.Context, sessionID string) error {
	return a.store.Delete(ctx, sessionID)
}

// Session returns a stored session
func (a *Advisor) Session(ctx context.Context, sessionID string) (*Session, error) {
	return a.store.Get(ctx, sessionID)
}

// sessionLocks hands out one mutex per session id and forgets it once no
// caller holds or waits on it
type sessionLocks struct {
	mu   sync.Mutex
	held map[string]*sessionLock
}

type sessionLock struct {
	sync.Mutex
	refs int
}

func (l *sessionLocks) lock(id string) (unlock func()) {
	l.mu.Lock()
	if l.held == nil {
		l.held = make(map[string]*sessionLock)
	}
	sl, ok := l.held[id]
	if !ok {
		sl = &sessionLock{}
		l.held[id] = sl
	}
	sl.refs++
	l.mu.Unlock()

	sl.Lock()
	return func() {
		sl.Unlock()
		l.mu.Lock()
		if sl.refs--; sl.refs == 0 {
			delete(l.held, id)
		}
		l.mu.Unlock()
	}
}

// loadSession returns the stored session, or a new one when id is empty or unknown
func (a *Advisor) loadSession(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return NewSession(a.now()), nil
	}

	session, err := a.store.Get(ctx, id)
	if errors.IsType(err, errors.ErrorTypeNotFound) {
		a.logger.Debug("Unknown chat session, starting a new one", "session_id", id)
		return NewSession(a.now()), nil
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (a *Advisor) respond(ctx context.Context, session *Session) (types.Message, types.Intention) {
	history := session.History(a.historyLength)

	intention, err := a.classify(ctx, history)
	if err != nil {
		a.logger.LogError(err, "Intention classification failed, treating message as random",
			"session_id", session.ID)
		intention = types.IntentionRandom
	}

	var content string
	var citations []types.Citation
	switch intention {
	case types.IntentionHostile:
		content, err = a.generate(ctx, a.prompts.HostileMessage(), history)
	case types.IntentionQuestion:
		content, citations, err = a.answerQuestion(ctx, session.ID, history)
	default:
		content, err = a.generate(ctx, a.prompts.RandomMessage(), history)
	}

	if err != nil {
		a.logger.LogError(err, "Failed to generate chat reply",
			"session_id", session.ID,
			"intention", string(intention))
		return a.assistantMessage(DefaultResponseMessage, nil), intention
	}
	return a.assistantMessage(content, citations), intention
}

func (a *Advisor) classify(ctx context.Context, history []types.Message) (types.Intention, error) {
	intention := types.IntentionRandom
	err := a.tracker.TrackAIOperation(ctx, config.OperationIntention, func(ctx context.Context) (*ai.TokenUsage, error) {
		var usage *ai.TokenUsage
		var err error
		intention, usage, err = a.provider.ClassifyIntention(ctx, history)
		return usage, err
	})
	return intention, err
}

func (a *Advisor) generate(ctx context.Context, systemPrompt string, history []types.Message) (string, error) {
	var content string
	err := a.tracker.TrackAIOperation(ctx, config.OperationChat, func(ctx context.Context) (*ai.TokenUsage, error) {
		var usage *ai.TokenUsage
		var err error
		content, usage, err = a.provider.Respond(ctx, systemPrompt, history)
		return usage, err
	})
	return content, err
}

// answerQuestion grounds the reply on generated excerpts, falling back to
// the backup prompt when none are available
func (a *Advisor) answerQuestion(ctx context.Context, sessionID string, history []types.Message) (string, []types.Citation, error) {
	var excerpts []types.Excerpt
	err := a.tracker.TrackAIOperation(ctx, config.OperationHyde, func(ctx context.Context) (*ai.TokenUsage, error) {
		var usage *ai.TokenUsage
		var err error
		excerpts, usage, err = a.provider.GenerateExcerpts(ctx, history)
		return usage, err
	})
	if err != nil || len(excerpts) == 0 {
		if err != nil {
			a.logger.LogError(err, "Excerpt generation failed, using backup prompt", "session_id", sessionID)
		}
		content, err := a.generate(ctx, a.prompts.QuestionBackup(), history)
		return content, nil, err
	}

	citations := Citations(excerpts)
	content, err := a.generate(ctx, a.prompts.Question(RenderExcerpts(citations)), history)
	if err != nil {
		return "", nil, err
	}
	return content, citations, nil
}

func (a *Advisor) assistantMessage(content string, citations []types.Citation) types.Message {
	return types.Message{
		Role:      types.RoleAssistant,
		Content:   content,
		CreatedAt: a.now(),
		Citations: citations,
	}
}

// Citations numbers excerpts from 1. Excerpts without a source are
// attributed to EmptyCitationMessage.
func Citations(excerpts []types.Excerpt) []types.Citation {
	citations := make([]types.Citation, len(excerpts))
	for i, e := range excerpts {
		source := strings.TrimSpace(e.Source)
		if source == "" {
			source = EmptyCitationMessage
		}
		citations[i] = types.Citation{Number: i + 1, Source: source, Excerpt: e.Content}
	}
	return citations
}

// RenderExcerpts formats citations as the question prompt's context block
func RenderExcerpts(citations []types.Citation) string {
	blocks := make([]string, len(citations))
	for i, c := range citations {
		blocks[i] = fmt.Sprintf("[%d] %s\n%s", c.Number, c.Source, c.Excerpt)
	}
	return strings.Join(blocks, "\n\n")
}

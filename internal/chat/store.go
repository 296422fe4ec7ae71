package chat

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mbaadvisor/internal/config"
	"mbaadvisor/internal/errors"
)

// Store persists chat sessions between turns
type Store interface {
	// Get returns a NotFound AppError for unknown or expired ids
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	Close() error
}

func sessionNotFound(id string) error {
	return errors.NewNotFoundError(errors.ErrCodeSessionNotFound,
		fmt.Sprintf("Chat session %s not found", id), nil).WithContext("session_id", id)
}

// NewStore creates the session store named in the chat configuration
func NewStore(cfg config.ChatConfig) (Store, error) {
	switch cfg.Store {
	case "", "memory":
		return NewMemoryStore(cfg.SessionTTL), nil
	case "redis":
		return NewRedisStore(cfg.Redis, cfg.SessionTTL), nil
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported chat store: %s", cfg.Store), nil)
	}
}

type memoryEntry struct {
	session   *Session
	expiresAt time.Time
}

// MemoryStore keeps sessions in process. A zero TTL never expires them.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	entry, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, sessionNotFound(id)
	}
	if !entry.expiresAt.IsZero() && m.now().After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		return nil, sessionNotFound(id)
	}
	return cloneSession(entry.session), nil
}

func (m *MemoryStore) Save(ctx context.Context, s *Session) error {
	entry := memoryEntry{session: cloneSession(s)}
	if m.ttl > 0 {
		entry.expiresAt = m.now().Add(m.ttl)
	}

	m.mu.Lock()
	m.sessions[s.ID] = entry
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

// Len reports the number of stored sessions, expired ones included
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *MemoryStore) Close() error { return nil }

func cloneSession(s *Session) *Session {
	c := *s
	c.Messages = append(c.Messages[:0:0], s.Messages...)
	return &c
}

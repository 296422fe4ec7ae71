package chat

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"mbaadvisor/internal/types"
)

// Session is one conversation with the advisor
type Session struct {
	ID        string          `json:"id"`
	Messages  []types.Message `json:"messages"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// NewSession creates an empty session with a random id
func NewSession(now time.Time) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Messages:  []types.Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Append adds a message and bumps UpdatedAt
func (s *Session) Append(msg types.Message) {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	s.Messages = append(s.Messages, msg)
	s.UpdatedAt = msg.CreatedAt
}

// WordCount counts whitespace-separated words across every message
func (s *Session) WordCount() int {
	total := 0
	for _, m := range s.Messages {
		total += len(strings.Fields(m.Content))
	}
	return total
}

// History returns the last n messages, or all of them when n <= 0
func (s *Session) History(n int) []types.Message {
	if n <= 0 || len(s.Messages) <= n {
		return s.Messages
	}
	return s.Messages[len(s.Messages)-n:]
}

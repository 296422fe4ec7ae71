package chat

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mbaadvisor/internal/types"
)

func TestNewSession(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s := NewSession(now)

	_, err := uuid.Parse(s.ID)
	require.NoError(t, err)
	assert.Empty(t, s.Messages)
	assert.Equal(t, now, s.CreatedAt)
	assert.NotEqual(t, s.ID, NewSession(now).ID)
}

func TestSessionWordCount(t *testing.T) {
	s := NewSession(time.Now())
	s.Append(types.Message{Role: types.RoleUser, Content: "  Which schools   suit\tconsulting? "})
	s.Append(types.Message{Role: types.RoleAssistant, Content: "Consider Kellogg and Tuck."})

	assert.Equal(t, 8, s.WordCount())
}

func TestSessionHistory(t *testing.T) {
	s := NewSession(time.Now())
	for _, c := range []string{"one", "two", "three", "four"} {
		s.Append(types.Message{Role: types.RoleUser, Content: c})
	}

	history := s.History(2)
	require.Len(t, history, 2)
	assert.Equal(t, "three", history[0].Content)
	assert.Equal(t, "four", history[1].Content)

	assert.Len(t, s.History(10), 4)
	assert.Len(t, s.History(0), 4)
}

func TestSessionAppendStampsTime(t *testing.T) {
	s := NewSession(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	at := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	s.Append(types.Message{Role: types.RoleUser, Content: "hi", CreatedAt: at})
	assert.Equal(t, at, s.UpdatedAt)

	s.Append(types.Message{Role: types.RoleUser, Content: "again"})
	assert.False(t, s.Messages[1].CreatedAt.IsZero())
}

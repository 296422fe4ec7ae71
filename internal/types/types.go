package types

import (
	"strings"
	"time"
)

// Role identifies the author of a chat message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Citation is a numbered source attached to an assistant reply
type Citation struct {
	Number  int    `json:"number"`
	Source  string `json:"source"`
	Excerpt string `json:"excerpt,omitempty"`
}

// Message is one turn of a chat conversation
type Message struct {
	Role      Role       `json:"role"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"createdAt"`
	Citations []Citation `json:"citations,omitempty"`
}

// Intention is the classified purpose of the latest user message
type Intention string

const (
	IntentionRandom   Intention = "random"
	IntentionHostile  Intention = "hostile_message"
	IntentionQuestion Intention = "question"
)

// Intentions lists every intention the classifier may return
var Intentions = []Intention{IntentionRandom, IntentionHostile, IntentionQuestion}

// ParseIntention maps classifier output onto an Intention. Anything it does
// not recognize is treated as random.
func ParseIntention(s string) Intention {
	normalized := Intention(strings.ToLower(strings.TrimSpace(s)))
	for _, i := range Intentions {
		if normalized == i {
			return i
		}
	}
	return IntentionRandom
}

// Excerpt is a hypothetical passage generated to ground a question answer
type Excerpt struct {
	Source  string `json:"source"`
	Content string `json:"content"`
}

// ProfileAdvice is the model's narrative on a scored profile
type ProfileAdvice struct {
	Summary        string   `json:"summary"`
	Priorities     []string `json:"priorities"`
	SchoolStrategy string   `json:"schoolStrategy"`
}

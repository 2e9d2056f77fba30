package domain

import (
	"strings"
	"time"
)

const SnippetMaxRunes = 120

// Conversation Invariants:
// 1. Membership: exactly 2 distinct participants, fixed at creation.
// 2. Uniqueness: at most one conversation per unordered participant pair,
//    enforced by the unique constraint on ParticipantsKey in the store.
// 3. Summary fields (UpdatedAt, LastMessageAt, LastMessageSnippet) are
//    denormalized from the most recent message, last-write-wins.
type Conversation struct {
	ID                 string
	ParticipantA       string
	ParticipantB       string
	ParticipantsKey    string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	LastMessageAt      time.Time
	LastMessageSnippet string
}

// ParticipantsKey canonicalizes an unordered user pair into the string the
// store's unique constraint is declared on.
func ParticipantsKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + ":" + b
}

func (c *Conversation) HasParticipant(userID string) bool {
	return c.ParticipantA == userID || c.ParticipantB == userID
}

// OtherParticipant returns the peer of userID, or "" if userID is not a
// participant.
func (c *Conversation) OtherParticipant(userID string) string {
	switch userID {
	case c.ParticipantA:
		return c.ParticipantB
	case c.ParticipantB:
		return c.ParticipantA
	}
	return ""
}

// Snippet truncates body to the bounded length stored on the conversation
// listing row. Truncation is by rune so multibyte text never splits.
func Snippet(body string) string {
	body = strings.TrimSpace(body)
	runes := []rune(body)
	if len(runes) <= SnippetMaxRunes {
		return body
	}
	return string(runes[:SnippetMaxRunes])
}

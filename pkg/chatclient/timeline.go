// Package chatclient implements the consumer-side merge contract for a
// message thread: a historical baseline overlaid with live events,
// deduplicated by message identity, with optimistic local echo reconciled by
// correlation token.
package chatclient

import (
	"sync"
	"time"
)

type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	SenderID       string    `json:"senderId"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"createdAt"`
}

type entry struct {
	msg   Message
	token string // non-empty while the entry is a provisional local echo
}

// Timeline is the in-memory ordered view of one conversation. Safe for
// concurrent use: the live event callback and the send path typically run on
// different goroutines.
type Timeline struct {
	mu             sync.Mutex
	conversationID string
	entries        []entry
	seen           map[string]struct{}
}

func NewTimeline(conversationID string) *Timeline {
	return &Timeline{
		conversationID: conversationID,
		seen:           make(map[string]struct{}),
	}
}

// SetBaseline installs the historical fetch. Live events applied before the
// baseline arrives are kept and deduplicated against it.
func (t *Timeline) SetBaseline(msgs []Message) {
	t.mu.Lock()
	defer t.mu.Unlock()

	merged := make([]entry, 0, len(msgs)+len(t.entries))
	seen := make(map[string]struct{}, len(msgs))

	for _, m := range msgs {
		if m.ID == "" {
			continue
		}
		if _, ok := seen[m.ID]; ok {
			continue
		}
		seen[m.ID] = struct{}{}
		merged = append(merged, entry{msg: m})
	}

	for _, e := range t.entries {
		if e.token != "" {
			merged = append(merged, e)
			continue
		}
		if _, ok := seen[e.msg.ID]; ok {
			continue
		}
		seen[e.msg.ID] = struct{}{}
		merged = append(merged, e)
	}

	t.entries = merged
	t.seen = seen
}

// ApplyEvent merges one live event. Events for other conversations and
// messages already present are dropped; the latter covers the server echo of
// an optimistically appended send that was already resolved.
func (t *Timeline) ApplyEvent(m Message) {
	if m.ConversationID != t.conversationID || m.ID == "" {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.seen[m.ID]; ok {
		return
	}
	t.seen[m.ID] = struct{}{}
	t.entries = append(t.entries, entry{msg: m})
}

// AppendLocal records an optimistic echo of a message the user just sent,
// before the server responds. token is a client-generated correlation id;
// the entry is replaced when Resolve is called with the authoritative
// message.
func (t *Timeline) AppendLocal(token, senderID, body string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries = append(t.entries, entry{
		msg: Message{
			ID:             "pending:" + token,
			ConversationID: t.conversationID,
			SenderID:       senderID,
			Body:           body,
			CreatedAt:      time.Now(),
		},
		token: token,
	})
}

// Resolve replaces the provisional entry for token with the authoritative
// message. If the authoritative message already arrived over the live
// channel, the provisional entry is simply removed — replacement, not
// duplicate-tolerant append, so the ids can never diverge.
func (t *Timeline) Resolve(token string, m Message) {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := -1
	for i, e := range t.entries {
		if e.token == token {
			idx = i
			break
		}
	}
	if idx == -1 {
		// Nothing pending; treat as a plain event.
		if m.ConversationID == t.conversationID && m.ID != "" {
			if _, ok := t.seen[m.ID]; !ok {
				t.seen[m.ID] = struct{}{}
				t.entries = append(t.entries, entry{msg: m})
			}
		}
		return
	}

	if _, ok := t.seen[m.ID]; ok {
		// Broadcast beat the response: drop the provisional entry.
		t.entries = append(t.entries[:idx], t.entries[idx+1:]...)
		return
	}

	t.seen[m.ID] = struct{}{}
	t.entries[idx] = entry{msg: m}
}

// Messages returns the current ordered view. Provisional entries keep their
// optimistic position; everything else is ordered by arrival, which matches
// creation order for a single conversation feed.
func (t *Timeline) Messages() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Message, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.msg
	}
	return out
}

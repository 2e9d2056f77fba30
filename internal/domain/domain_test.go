package domain

import (
	"strings"
	"testing"
	"time"
)

func TestParticipantsKey_OrderIndependent(t *testing.T) {
	if ParticipantsKey("a", "b") != ParticipantsKey("b", "a") {
		t.Error("key must be identical for both orderings")
	}
	if ParticipantsKey("a", "b") != "a:b" {
		t.Errorf("unexpected key: %s", ParticipantsKey("a", "b"))
	}
}

func TestSnippet(t *testing.T) {
	if got := Snippet("  hello  "); got != "hello" {
		t.Errorf("expected trimmed snippet, got %q", got)
	}

	long := strings.Repeat("ż", SnippetMaxRunes+30)
	got := Snippet(long)
	if n := len([]rune(got)); n != SnippetMaxRunes {
		t.Errorf("expected %d runes, got %d", SnippetMaxRunes, n)
	}
}

func TestNewMessage(t *testing.T) {
	now := time.Now()

	msg, err := NewMessage("m1", "c1", "u1", "  body  ", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Body != "body" {
		t.Errorf("body must be trimmed, got %q", msg.Body)
	}

	if _, err := NewMessage("m1", "c1", "u1", "   ", now); err != ErrInvalidInput {
		t.Errorf("whitespace body: expected ErrInvalidInput, got %v", err)
	}
	if _, err := NewMessage("", "c1", "u1", "x", now); err != ErrInvalidInput {
		t.Errorf("missing id: expected ErrInvalidInput, got %v", err)
	}
	if _, err := NewMessage("m1", "c1", "u1", strings.Repeat("x", MaxMessageSize+1), now); err != ErrMessageTooLarge {
		t.Errorf("oversized body: expected ErrMessageTooLarge, got %v", err)
	}
}

func TestRoleRules(t *testing.T) {
	cases := []struct {
		sender, recipient Role
		canMessage        bool
		canLike           bool
	}{
		{RoleMan, RoleWoman, true, false},
		{RoleWoman, RoleMan, false, true},
		{RoleMan, RoleMan, false, false},
		{RoleWoman, RoleWoman, false, false},
	}

	for _, c := range cases {
		if got := CanMessage(c.sender, c.recipient); got != c.canMessage {
			t.Errorf("CanMessage(%s, %s) = %v", c.sender, c.recipient, got)
		}
		if got := CanLike(c.sender, c.recipient); got != c.canLike {
			t.Errorf("CanLike(%s, %s) = %v", c.sender, c.recipient, got)
		}
	}
}

func TestConversationParticipants(t *testing.T) {
	conv := &Conversation{ParticipantA: "a", ParticipantB: "b"}

	if !conv.HasParticipant("a") || !conv.HasParticipant("b") {
		t.Error("both participants must be recognized")
	}
	if conv.HasParticipant("c") {
		t.Error("outsider must not be a participant")
	}
	if conv.OtherParticipant("a") != "b" || conv.OtherParticipant("b") != "a" {
		t.Error("OtherParticipant must return the peer")
	}
	if conv.OtherParticipant("c") != "" {
		t.Error("OtherParticipant of an outsider must be empty")
	}
}

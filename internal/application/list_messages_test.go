package application

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iskra-app/backend/internal/domain"
)

func TestListMessages_OrderedWithoutGapsOrDuplicates(t *testing.T) {
	repo := newFakeRepo()
	s := newTestService(repo, testDirectory(), &fakeBroadcaster{})
	ctx := context.Background()

	convID := openConversation(t, s)

	sent := map[string]struct{}{}
	for i := 0; i < 9; i++ {
		msg, err := s.PostMessage(ctx, PostMessageCommand{
			SenderID: "marek", ConversationID: convID, Body: fmt.Sprintf("msg %d", i),
		})
		require.NoError(t, err)
		sent[msg.ID] = struct{}{}
	}

	msgs, err := s.ListMessages(ctx, "wanda", convID, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 10)

	seen := map[string]struct{}{}
	for i, m := range msgs {
		_, dup := seen[m.ID]
		require.False(t, dup, "duplicate message %s", m.ID)
		seen[m.ID] = struct{}{}

		if i > 0 {
			prev := msgs[i-1]
			require.False(t, m.CreatedAt.Before(prev.CreatedAt), "createdAt must be non-decreasing")
			require.Greater(t, m.Seq, prev.Seq, "insertion order must break ties")
		}
	}
	for id := range sent {
		_, ok := seen[id]
		require.True(t, ok, "appended message %s missing from listing", id)
	}
}

func TestListMessages_RequesterMustBeParticipant(t *testing.T) {
	s := newTestService(newFakeRepo(), testDirectory(), &fakeBroadcaster{})
	convID := openConversation(t, s)

	_, err := s.ListMessages(context.Background(), "piotr", convID, 0)
	require.ErrorIs(t, err, domain.ErrNotParticipant)
}

func TestListMessages_WindowIsBounded(t *testing.T) {
	repo := newFakeRepo()
	s := newTestService(repo, testDirectory(), &fakeBroadcaster{})
	ctx := context.Background()

	convID := openConversation(t, s)
	for i := 0; i < MaxListWindow+20; i++ {
		_, err := s.PostMessage(ctx, PostMessageCommand{
			SenderID: "marek", ConversationID: convID, Body: fmt.Sprintf("m%d", i),
		})
		require.NoError(t, err)
	}

	msgs, err := s.ListMessages(ctx, "marek", convID, 0)
	require.NoError(t, err)
	require.Len(t, msgs, MaxListWindow)

	// The window keeps the most recent messages.
	require.Equal(t, fmt.Sprintf("m%d", MaxListWindow+19), msgs[len(msgs)-1].Body)

	msgs, err = s.ListMessages(ctx, "marek", convID, 5)
	require.NoError(t, err)
	require.Len(t, msgs, 5)
}

func TestAuthorize(t *testing.T) {
	s := newTestService(newFakeRepo(), testDirectory(), &fakeBroadcaster{})
	ctx := context.Background()

	convID := openConversation(t, s)

	require.NoError(t, s.Authorize(ctx, "marek", convID))
	require.NoError(t, s.Authorize(ctx, "wanda", convID))
	require.ErrorIs(t, s.Authorize(ctx, "piotr", convID), domain.ErrNotParticipant)
	require.ErrorIs(t, s.Authorize(ctx, "marek", "missing"), domain.ErrConversationNotFound)
}

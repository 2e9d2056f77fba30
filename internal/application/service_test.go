package application

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/iskra-app/backend/internal/domain"
)

type fakeTx struct{}

func (fakeTx) WithTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	return fn(ctx, nil)
}

type fakeDirectory struct {
	users map[string]*domain.User
}

func (d *fakeDirectory) UserByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := d.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

type broadcastRecord struct {
	room    string
	payload []byte
}

type fakeBroadcaster struct {
	mu   sync.Mutex
	sent []broadcastRecord
}

func (b *fakeBroadcaster) Broadcast(room string, payload []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, broadcastRecord{room: room, payload: payload})
}

func (b *fakeBroadcaster) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.sent)
}

// fakeRepo is an in-memory Repository. The mutex makes InsertConversation
// atomic the way the unique constraint does in Postgres: exactly one of two
// racing inserts for a key reports inserted.
type fakeRepo struct {
	mu     sync.Mutex
	byID   map[string]*domain.Conversation
	byKey  map[string]*domain.Conversation
	msgs   []*domain.Message
	likes  map[string]*domain.Like
	outbox int
	seq    int64

	// beforeInsert, when set, runs inside InsertConversation before the
	// key check. Tests use it to slip a competing row in between the
	// service's lookup and its insert.
	beforeInsert func(r *fakeRepo)
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID:  make(map[string]*domain.Conversation),
		byKey: make(map[string]*domain.Conversation),
		likes: make(map[string]*domain.Like),
	}
}

func (r *fakeRepo) InsertConversation(_ context.Context, _ *sql.Tx, conv *domain.Conversation) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.beforeInsert != nil {
		hook := r.beforeInsert
		r.beforeInsert = nil
		hook(r)
	}

	if _, exists := r.byKey[conv.ParticipantsKey]; exists {
		return false, nil
	}
	cp := *conv
	r.byID[cp.ID] = &cp
	r.byKey[cp.ParticipantsKey] = &cp
	return true, nil
}

func (r *fakeRepo) GetConversationByKey(_ context.Context, _ *sql.Tx, key string) (*domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.byKey[key]
	if !ok {
		return nil, domain.ErrConversationNotFound
	}
	cp := *conv
	return &cp, nil
}

func (r *fakeRepo) GetConversation(_ context.Context, _ *sql.Tx, convID string) (*domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.byID[convID]
	if !ok {
		return nil, domain.ErrConversationNotFound
	}
	cp := *conv
	return &cp, nil
}

func (r *fakeRepo) ListConversationsByUser(_ context.Context, userID string) ([]*domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Conversation
	for _, c := range r.byID {
		if c.HasParticipant(userID) {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRepo) TouchConversation(_ context.Context, _ *sql.Tx, convID, snippet string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.byID[convID]
	if !ok {
		return domain.ErrConversationNotFound
	}
	conv.UpdatedAt = at
	conv.LastMessageAt = at
	conv.LastMessageSnippet = snippet
	return nil
}

func (r *fakeRepo) InsertMessage(_ context.Context, _ *sql.Tx, msg *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	msg.Seq = r.seq
	cp := *msg
	r.msgs = append(r.msgs, &cp)
	return nil
}

func (r *fakeRepo) FetchMessages(_ context.Context, convID string, limit int) ([]*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Message
	for _, m := range r.msgs {
		if m.ConversationID == convID {
			cp := *m
			out = append(out, &cp)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (r *fakeRepo) UpsertLike(_ context.Context, like *domain.Like) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := like.FromUserID + ":" + like.ToUserID
	if _, exists := r.likes[key]; exists {
		return nil
	}
	cp := *like
	r.likes[key] = &cp
	return nil
}

func (r *fakeRepo) ListLikesReceived(_ context.Context, userID string) ([]*domain.Like, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Like
	for _, l := range r.likes {
		if l.ToUserID == userID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListLikesSent(_ context.Context, userID string) ([]*domain.Like, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Like
	for _, l := range r.likes {
		if l.FromUserID == userID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRepo) InsertOutbox(_ context.Context, _ *sql.Tx, _, _, _ string, _ []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outbox++
	return nil
}

func (r *fakeRepo) messageCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.msgs)
}

func (r *fakeRepo) conversationCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byKey)
}

func newTestService(repo *fakeRepo, dir *fakeDirectory, bcast *fakeBroadcaster) *Service {
	return New(repo, fakeTx{}, dir, bcast, zap.NewNop())
}

func testDirectory() *fakeDirectory {
	return &fakeDirectory{users: map[string]*domain.User{
		"marek": {ID: "marek", Name: "Marek", Role: domain.RoleMan},
		"wanda": {ID: "wanda", Name: "Wanda", Role: domain.RoleWoman},
		"piotr": {ID: "piotr", Name: "Piotr", Role: domain.RoleMan},
	}}
}

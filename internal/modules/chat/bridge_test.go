package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"glowbook/internal/domain"
	"glowbook/internal/realtime"
)

// fakeStore keeps messages in memory and, like the real message table,
// publishes each insert when a broker is set.
type fakeStore struct {
	mu      sync.Mutex
	msgs    []domain.Message
	nextID  int64
	err     error
	creates int
	broker  realtime.Broker
	// beforeCreate runs ahead of each insert, outside the lock.
	beforeCreate func(m *domain.Message)
}

func (s *fakeStore) Create(ctx context.Context, m *domain.Message) error {
	if s.beforeCreate != nil {
		s.beforeCreate(m)
	}
	s.mu.Lock()
	s.creates++
	if s.err != nil {
		s.mu.Unlock()
		return s.err
	}
	s.nextID++
	m.ID = s.nextID
	m.CreatedAt = time.Now().UTC()
	s.msgs = append(s.msgs, *m)
	s.mu.Unlock()

	if s.broker != nil {
		ev, _ := realtime.NewEvent(realtime.EventInsert, "messages", m)
		return s.broker.Publish(ctx, realtime.ChatChannel(m.SenderID, m.ReceiverID), ev)
	}
	return nil
}

func (s *fakeStore) Conversation(_ context.Context, a, b string) ([]domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Message
	for _, m := range s.msgs {
		if (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *fakeStore) seed(sender, receiver, content string) domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	m := domain.Message{ID: s.nextID, SenderID: sender, ReceiverID: receiver, Content: content, CreatedAt: time.Now().UTC()}
	s.msgs = append(s.msgs, m)
	return m
}

func openBridge(t *testing.T, store *fakeStore, broker *realtime.MemoryBroker) (*Bridge, *[]Update) {
	t.Helper()
	var updates []Update
	b := NewBridge("alice", "bob", store, broker, zap.NewNop())
	b.OnUpdate(func(u Update) { updates = append(updates, u) })
	require.NoError(t, b.Open(context.Background()))
	t.Cleanup(func() { _ = b.Close() })
	return b, &updates
}

func TestBridge_OpenLoadsHistoryAndSubscribes(t *testing.T) {
	broker := realtime.NewMemoryBroker()
	store := &fakeStore{}
	store.seed("alice", "bob", "hi bob")
	store.seed("bob", "alice", "hi alice")
	store.seed("carol", "alice", "not this chat")

	b, _ := openBridge(t, store, broker)

	entries := b.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, StatusDelivered, entries[0].Status)
	assert.Equal(t, StatusRead, entries[1].Status)
	assert.Equal(t, 1, broker.Subscribers("chat:alice:bob"))

	require.NoError(t, b.Close())
	assert.Equal(t, 0, broker.Subscribers("chat:alice:bob"))
	require.NoError(t, b.Close())
}

func TestBridge_SendBlankIsNoop(t *testing.T) {
	store := &fakeStore{}
	b, updates := openBridge(t, store, realtime.NewMemoryBroker())

	for _, content := range []string{"", "   ", "\n\t"} {
		_, sent := b.Send(context.Background(), content)
		assert.False(t, sent)
	}
	assert.Empty(t, b.Entries())
	assert.Empty(t, *updates)
	assert.Zero(t, store.creates)
}

func TestBridge_SendSuccessStampsID(t *testing.T) {
	store := &fakeStore{}
	b, updates := openBridge(t, store, realtime.NewMemoryBroker())

	entry, sent := b.Send(context.Background(), "  see you at 3  ")
	require.True(t, sent)
	assert.Equal(t, int64(1), entry.ID)
	assert.Equal(t, StatusSent, entry.Status)
	assert.Equal(t, "see you at 3", entry.Content)
	assert.NotEmpty(t, entry.TempID)

	entries := b.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, entry, entries[0])

	require.Len(t, *updates, 2)
	assert.Equal(t, UpdateMessage, (*updates)[0].Kind)
	assert.Zero(t, (*updates)[0].Entry.ID)
	assert.Equal(t, UpdateStatus, (*updates)[1].Kind)
}

func TestBridge_SendFailureMarksFailed(t *testing.T) {
	store := &fakeStore{err: errors.New("insert failed")}
	b, _ := openBridge(t, store, realtime.NewMemoryBroker())

	entry, sent := b.Send(context.Background(), "hello")
	require.True(t, sent)
	assert.Equal(t, StatusFailed, entry.Status)
	assert.Zero(t, entry.ID)

	entries := b.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, StatusFailed, entries[0].Status)
}

func TestBridge_OwnEchoIsNotDuplicated(t *testing.T) {
	broker := realtime.NewMemoryBroker()
	store := &fakeStore{broker: broker}
	b, _ := openBridge(t, store, broker)

	entry, _ := b.Send(context.Background(), "on my way")
	require.NotZero(t, entry.ID)
	require.Len(t, b.Entries(), 1)

	// a redelivery of the same row upgrades the status once
	ev, err := realtime.NewEvent(realtime.EventInsert, "messages", domain.Message{
		ID: entry.ID, SenderID: "alice", ReceiverID: "bob", Content: "on my way",
	})
	require.NoError(t, err)
	require.NoError(t, broker.Publish(context.Background(), "chat:alice:bob", ev))

	entries := b.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, StatusDelivered, entries[0].Status)
}

func TestBridge_SameTextFromAnotherConnectionIsKept(t *testing.T) {
	broker := realtime.NewMemoryBroker()
	store := &fakeStore{broker: broker}
	b, _ := openBridge(t, store, broker)

	// alice's other tab sends the same words while this send is in flight
	store.beforeCreate = func(m *domain.Message) {
		store.beforeCreate = nil
		other := &domain.Message{SenderID: "alice", ReceiverID: "bob", Content: m.Content, ClientRef: "other-tab"}
		require.NoError(t, store.Create(context.Background(), other))
	}

	entry, ok := b.Send(context.Background(), "see you at 5")
	require.True(t, ok)
	require.NotZero(t, entry.ID)

	entries := b.Entries()
	require.Len(t, entries, 2)
	ids := []int64{entries[0].ID, entries[1].ID}
	assert.ElementsMatch(t, []int64{1, 2}, ids)
	for _, e := range entries {
		assert.Equal(t, "see you at 5", e.Content)
	}
	assert.Equal(t, 1, countByID(entries, entry.ID))
}

func countByID(entries []Entry, id int64) int {
	n := 0
	for _, e := range entries {
		if e.ID == id {
			n++
		}
	}
	return n
}

func TestBridge_ReceivesInserts(t *testing.T) {
	broker := realtime.NewMemoryBroker()
	store := &fakeStore{broker: broker}
	b, updates := openBridge(t, store, broker)

	// bob writes from his own client
	require.NoError(t, store.Create(context.Background(), &domain.Message{SenderID: "bob", ReceiverID: "alice", Content: "ready?"}))
	// alice writes from another tab
	require.NoError(t, store.Create(context.Background(), &domain.Message{SenderID: "alice", ReceiverID: "bob", Content: "yes"}))

	entries := b.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "ready?", entries[0].Content)
	assert.Equal(t, StatusRead, entries[0].Status)
	assert.Equal(t, StatusDelivered, entries[1].Status)
	assert.Len(t, *updates, 2)

	require.NoError(t, b.Close())
	require.NoError(t, store.Create(context.Background(), &domain.Message{SenderID: "bob", ReceiverID: "alice", Content: "after close"}))
	assert.Len(t, b.Entries(), 2)
}

func TestBridge_IgnoresOtherEvents(t *testing.T) {
	broker := realtime.NewMemoryBroker()
	b, _ := openBridge(t, &fakeStore{}, broker)

	upd, _ := realtime.NewEvent(realtime.EventUpdate, "messages", domain.Message{ID: 9, SenderID: "bob", ReceiverID: "alice"})
	other, _ := realtime.NewEvent(realtime.EventInsert, "bookings", map[string]any{"id": 1})
	garbage := realtime.Event{Type: realtime.EventInsert, Table: "messages", Record: []byte("{")}

	for _, ev := range []realtime.Event{upd, other, garbage} {
		require.NoError(t, broker.Publish(context.Background(), "chat:alice:bob", ev))
	}
	assert.Empty(t, b.Entries())
}

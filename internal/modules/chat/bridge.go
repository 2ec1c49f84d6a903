// Package chat connects one conversation to its realtime channel and serves
// the chat screens and sockets.
package chat

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"glowbook/internal/domain"
	"glowbook/internal/realtime"
)

// Status is the client-side delivery state of a message. It is never stored.
type Status string

const (
	StatusSent      Status = "sent"
	StatusDelivered Status = "delivered"
	StatusRead      Status = "read"
	StatusFailed    Status = "failed"
)

// Entry is one line of a conversation as the client shows it. Optimistic
// entries carry a TempID until the insert returns their ID.
type Entry struct {
	ID         int64     `json:"id,omitempty"`
	TempID     string    `json:"temp_id,omitempty"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	Status     Status    `json:"status"`
}

type UpdateKind string

const (
	UpdateMessage UpdateKind = "message"
	UpdateStatus  UpdateKind = "status"
)

// Update reports an appended entry or a changed one.
type Update struct {
	Kind  UpdateKind
	Entry Entry
}

type messageStore interface {
	Create(ctx context.Context, m *domain.Message) error
	Conversation(ctx context.Context, a, b string) ([]domain.Message, error)
}

// LoadHistory returns the conversation between me and other, oldest first.
// My messages show as delivered and theirs as read.
func LoadHistory(ctx context.Context, store messageStore, me, other string) ([]Entry, error) {
	msgs, err := store.Conversation(ctx, me, other)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, entryFor(m, me))
	}
	return out, nil
}

func entryFor(m domain.Message, me string) Entry {
	status := StatusRead
	if m.SenderID == me {
		status = StatusDelivered
	}
	return Entry{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Content:    m.Content,
		CreatedAt:  m.CreatedAt,
		Status:     status,
	}
}

// Bridge holds one open conversation: its entries and its channel subscription.
type Bridge struct {
	me, other string
	store     messageStore
	broker    realtime.Broker
	log       *zap.Logger
	onUpdate  func(Update)

	mu      sync.Mutex
	entries []Entry
	sub     realtime.Subscription
	ready   bool
	closed  bool
}

func NewBridge(me, other string, store messageStore, broker realtime.Broker, log *zap.Logger) *Bridge {
	return &Bridge{me: me, other: other, store: store, broker: broker, log: log}
}

// OnUpdate registers the callback for changes after Open. Set it before Open.
func (b *Bridge) OnUpdate(fn func(Update)) {
	b.onUpdate = fn
}

// Open subscribes to the pair's channel and loads the history. Inserts that
// arrive while the history loads are merged without duplicates.
func (b *Bridge) Open(ctx context.Context) error {
	sub, err := b.broker.Subscribe(ctx, realtime.ChatChannel(b.me, b.other), b.receive)
	if err != nil {
		return err
	}

	history, err := LoadHistory(ctx, b.store, b.me, b.other)
	if err != nil {
		_ = sub.Unsubscribe()
		return err
	}

	b.mu.Lock()
	early := b.entries
	b.entries = history
	for _, e := range early {
		if b.indexByID(e.ID) < 0 {
			b.entries = append(b.entries, e)
		}
	}
	b.sub = sub
	b.ready = true
	b.mu.Unlock()
	return nil
}

// Entries returns a copy of the current conversation.
func (b *Bridge) Entries() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Send appends an optimistic entry and inserts the message. Blank content is
// ignored and reported with false. A failed insert marks the entry failed;
// it is not returned as an error.
func (b *Bridge) Send(ctx context.Context, content string) (Entry, bool) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Entry{}, false
	}

	entry := Entry{
		TempID:     uuid.NewString(),
		SenderID:   b.me,
		ReceiverID: b.other,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
		Status:     StatusSent,
	}
	b.mu.Lock()
	b.entries = append(b.entries, entry)
	b.mu.Unlock()
	b.emit(Update{Kind: UpdateMessage, Entry: entry})

	msg := &domain.Message{SenderID: b.me, ReceiverID: b.other, Content: content, ClientRef: entry.TempID}
	err := b.store.Create(ctx, msg)

	b.mu.Lock()
	i := b.indexByTempID(entry.TempID)
	if i < 0 {
		b.mu.Unlock()
		return entry, true
	}
	if err != nil {
		b.log.Warn("send message failed", zap.String("sender_id", b.me), zap.String("receiver_id", b.other), zap.Error(err))
		b.entries[i].Status = StatusFailed
	} else {
		b.entries[i].ID = msg.ID
		if !msg.CreatedAt.IsZero() {
			b.entries[i].CreatedAt = msg.CreatedAt
		}
	}
	entry = b.entries[i]
	b.mu.Unlock()

	b.emit(Update{Kind: UpdateStatus, Entry: entry})
	return entry, true
}

// Close unsubscribes from the channel. The bridge does not reconnect.
func (b *Bridge) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	sub := b.sub
	b.mu.Unlock()

	if sub == nil {
		return nil
	}
	return sub.Unsubscribe()
}

func (b *Bridge) receive(ev realtime.Event) {
	if ev.Type != realtime.EventInsert || ev.Table != (domain.Message{}).TableName() {
		return
	}
	var m domain.Message
	if err := json.Unmarshal(ev.Record, &m); err != nil {
		b.log.Warn("decode chat event failed", zap.Error(err))
		return
	}
	if !b.inConversation(m) {
		return
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	var (
		upd  Update
		emit bool
	)
	switch i := b.indexByID(m.ID); {
	case i >= 0:
		// our own insert coming back: confirmed by the server
		if b.entries[i].Status == StatusSent {
			b.entries[i].Status = StatusDelivered
			upd, emit = Update{Kind: UpdateStatus, Entry: b.entries[i]}, true
		}
	case b.awaitingEcho(m):
		// the insert Send is waiting for; Send reports the status change
		j := b.indexByTempID(m.ClientRef)
		b.entries[j].ID = m.ID
	default:
		e := entryFor(m, b.me)
		b.entries = append(b.entries, e)
		upd, emit = Update{Kind: UpdateMessage, Entry: e}, true
	}
	ready := b.ready
	b.mu.Unlock()

	if emit && ready {
		b.emit(upd)
	}
}

func (b *Bridge) inConversation(m domain.Message) bool {
	return (m.SenderID == b.me && m.ReceiverID == b.other) ||
		(m.SenderID == b.other && m.ReceiverID == b.me)
}

func (b *Bridge) awaitingEcho(m domain.Message) bool {
	if m.SenderID != b.me || m.ClientRef == "" {
		return false
	}
	i := b.indexByTempID(m.ClientRef)
	return i >= 0 && b.entries[i].ID == 0
}

func (b *Bridge) indexByID(id int64) int {
	if id == 0 {
		return -1
	}
	for i := range b.entries {
		if b.entries[i].ID == id {
			return i
		}
	}
	return -1
}

func (b *Bridge) indexByTempID(tempID string) int {
	for i := range b.entries {
		if b.entries[i].TempID == tempID {
			return i
		}
	}
	return -1
}

func (b *Bridge) emit(u Update) {
	if b.onUpdate != nil {
		b.onUpdate(u)
	}
}

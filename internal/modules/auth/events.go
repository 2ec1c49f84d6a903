package auth

import (
	"sync"

	"go.uber.org/zap"

	"glowbook/internal/session"
)

const listenerBuffer = 16

// EventBus delivers auth state changes to listeners of one user. Delivery is
// asynchronous and ordered per listener; a full buffer drops the change.
type EventBus struct {
	mu     sync.RWMutex
	subs   map[string]map[uint64]*listener
	nextID uint64
	log    *zap.Logger
}

type listener struct {
	changes chan session.Change
	quit    chan struct{}
}

func NewEventBus(log *zap.Logger) *EventBus {
	return &EventBus{subs: make(map[string]map[uint64]*listener), log: log}
}

func (b *EventBus) Publish(userID string, ch session.Change) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, l := range b.subs[userID] {
		select {
		case l.changes <- ch:
		default:
			b.log.Warn("auth event dropped", zap.String("user_id", userID), zap.String("event", string(ch.Event)))
		}
	}
}

// ForUser returns a feed of the changes published for userID.
func (b *EventBus) ForUser(userID string) session.Feed {
	return userFeed{bus: b, userID: userID}
}

func (b *EventBus) listen(userID string, fn func(session.Change)) func() {
	l := &listener{changes: make(chan session.Change, listenerBuffer), quit: make(chan struct{})}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	if b.subs[userID] == nil {
		b.subs[userID] = make(map[uint64]*listener)
	}
	b.subs[userID][id] = l
	b.mu.Unlock()

	go func() {
		for {
			select {
			case ch := <-l.changes:
				fn(ch)
			case <-l.quit:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[userID], id)
			if len(b.subs[userID]) == 0 {
				delete(b.subs, userID)
			}
			b.mu.Unlock()
			close(l.quit)
		})
	}
}

type userFeed struct {
	bus    *EventBus
	userID string
}

func (f userFeed) Listen(fn func(session.Change)) func() {
	return f.bus.listen(f.userID, fn)
}

package realtime

import (
	"context"
	"slices"
	"sync"
)

// MemoryBroker delivers events in-process, synchronously, in subscription order.
type MemoryBroker struct {
	mu     sync.RWMutex
	subs   map[string]map[uint64]Handler
	nextID uint64
	closed bool
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{subs: make(map[string]map[uint64]Handler)}
}

func (b *MemoryBroker) Publish(_ context.Context, channel string, ev Event) error {
	b.dispatch(channel, ev)
	return nil
}

func (b *MemoryBroker) dispatch(channel string, ev Event) {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return
	}
	subs := b.subs[channel]
	ids := make([]uint64, 0, len(subs))
	for id := range subs {
		ids = append(ids, id)
	}
	handlers := make([]Handler, 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		handlers = append(handlers, subs[id])
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ev)
	}
}

func (b *MemoryBroker) Subscribe(_ context.Context, channel string, h Handler) (Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrClosed
	}
	if b.subs[channel] == nil {
		b.subs[channel] = make(map[uint64]Handler)
	}
	id := b.nextID
	b.nextID++
	b.subs[channel][id] = h
	return &memorySubscription{broker: b, channel: channel, id: id}, nil
}

// Subscribers returns how many handlers listen on channel.
func (b *MemoryBroker) Subscribers(channel string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[channel])
}

func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.subs = make(map[string]map[uint64]Handler)
	return nil
}

func (b *MemoryBroker) remove(channel string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs[channel], id)
	if len(b.subs[channel]) == 0 {
		delete(b.subs, channel)
	}
}

type memorySubscription struct {
	broker  *MemoryBroker
	channel string
	id      uint64
	once    sync.Once
}

func (s *memorySubscription) Unsubscribe() error {
	s.once.Do(func() { s.broker.remove(s.channel, s.id) })
	return nil
}

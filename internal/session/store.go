package session

import (
	"context"
	"slices"
	"sync"
)

// Source fetches the current session. Errors are treated as "no session".
type Source func(ctx context.Context) (*Session, error)

// Feed delivers auth changes until stopped.
type Feed interface {
	Listen(fn func(Change)) (stop func())
}

// Listener observes every dispatched change with the state before and after it.
type Listener func(prev, next State, ch Change)

// Store caches the session for one client. It starts loading and settles
// after Init.
type Store struct {
	mu        sync.RWMutex
	state     State
	listeners map[int]Listener
	nextID    int
}

func NewStore() *Store {
	return &Store{
		state:     State{Loading: true},
		listeners: make(map[int]Listener),
	}
}

// Init fetches the session once and records it. It never fails.
func (s *Store) Init(ctx context.Context, src Source) State {
	var sess *Session
	if src != nil {
		if got, err := src(ctx); err == nil {
			sess = got
		}
	}
	s.Dispatch(Change{Event: EventInitialSession, Session: sess})
	return s.State()
}

// Dispatch reduces ch into the state and notifies listeners in subscription order.
func (s *Store) Dispatch(ch Change) {
	s.mu.Lock()
	prev := s.state
	next := Reduce(prev, ch)
	s.state = next
	listeners := s.snapshotLocked()
	s.mu.Unlock()

	for _, l := range listeners {
		l(prev, next, ch)
	}
}

// Subscribe registers a listener and returns its unsubscribe function.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// Attach dispatches every change the feed delivers.
func (s *Store) Attach(feed Feed) (stop func()) {
	return feed.Listen(s.Dispatch)
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) Session() *Session {
	return s.State().Session
}

func (s *Store) snapshotLocked() []Listener {
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]Listener, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.listeners[id])
	}
	return out
}

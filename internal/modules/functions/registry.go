package functions

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"glowbook/internal/session"
)

var (
	ErrUnknownFunction = errors.New("unknown function")
	ErrUnauthorized    = errors.New("function requires a session")
)

// Func is a named server-side operation invoked on behalf of a session.
type Func func(ctx context.Context, sess *session.Session) (any, error)

// Registry maps function names to implementations.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Func)}
}

func (r *Registry) Register(name string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[name] = fn
}

func (r *Registry) Invoke(ctx context.Context, name string, sess *session.Session) (any, error) {
	r.mu.RLock()
	fn, ok := r.funcs[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, name)
	}
	if !sess.Valid() {
		return nil, ErrUnauthorized
	}
	return fn(ctx, sess)
}

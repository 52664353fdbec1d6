package commands

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

type rawHandler func(ctx context.Context, cmd Command) (any, error)

// Registry keeps command handlers by key. Registration normally happens once
// at startup, but the map is guarded so tests can register lazily.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]rawHandler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]rawHandler)}
}

func (r *Registry) register(key string, h rawHandler) {
	if key == "" {
		panic("commands: handler registered without key")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.handlers[key]; dup {
		panic(fmt.Sprintf("commands: handler for %q registered twice", key))
	}
	r.handlers[key] = h
}

func (r *Registry) Dispatch(ctx context.Context, cmd Command) (any, error) {
	r.mu.RLock()
	h, ok := r.handlers[cmd.Key()]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrHandlerNotFound, cmd.Key())
	}
	return h(ctx, cmd)
}

// Keys lists registered command keys in order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.handlers))
	for k := range r.handlers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RegisterHandler binds a typed handler to the command's own key.
func RegisterHandler[C Command, R any](r *Registry, handler Handler[C, R]) {
	if r == nil {
		panic("commands: nil registry")
	}
	var probe C
	key := probe.Key()
	r.register(key, func(ctx context.Context, raw Command) (any, error) {
		cmd, ok := raw.(C)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidCommand, key)
		}
		return handler.Handle(ctx, cmd)
	})
}

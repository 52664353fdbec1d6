package inbox

import (
	"context"
	"sync"
)

// DefaultMemorySize is the number of event ids kept by Memory.
const DefaultMemorySize = 4096

// Memory is a process-local inbox remembering the most recent event ids.
type Memory struct {
	mu    sync.Mutex
	size  int
	seen  map[string]struct{}
	order []string
}

func NewMemory(size int) *Memory {
	if size <= 0 {
		size = DefaultMemorySize
	}
	return &Memory{size: size, seen: make(map[string]struct{}, size)}
}

func (m *Memory) Seen(_ context.Context, eventID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.seen[eventID]
	return ok, nil
}

// Mark remembers eventID, evicting the oldest id when full.
func (m *Memory) Mark(_ context.Context, eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.seen[eventID]; ok {
		return nil
	}
	if len(m.order) >= m.size {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.seen, oldest)
	}
	m.seen[eventID] = struct{}{}
	m.order = append(m.order, eventID)
	return nil
}

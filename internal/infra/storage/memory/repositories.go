package memory

import (
	"context"
	"sync"
	"time"

	domainavailability "stayrent/internal/domain/availability"
	domainbooking "stayrent/internal/domain/booking"
	domaincalendar "stayrent/internal/domain/calendar"
	"stayrent/internal/domain/shared/events"
)

// SessionRepository keeps picker sessions in process memory.
type SessionRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.SessionID]domainbooking.Session
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{items: make(map[domainbooking.SessionID]domainbooking.Session)}
}

// ByID returns a detached copy; changes only land through Save.
func (r *SessionRepository) ByID(ctx context.Context, id domainbooking.SessionID) (*domainbooking.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrSessionNotFound
	}
	return &stored, nil
}

func (r *SessionRepository) Save(ctx context.Context, session *domainbooking.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stored, ok := r.items[session.ID]; ok && stored.Version != session.Version {
		return domainbooking.ErrSessionConflict
	}
	session.Version++
	snapshot := *session
	snapshot.EventRecorder = events.EventRecorder{}
	r.items[session.ID] = snapshot
	return nil
}

func (r *SessionRepository) DeleteIdleBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for id, s := range r.items {
		if s.UpdatedAt.Before(cutoff) {
			delete(r.items, id)
			removed++
		}
	}
	return removed, nil
}

func (r *SessionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// InventoryRepository holds fixture inventories for the local calendar
// source.
type InventoryRepository struct {
	mu    sync.RWMutex
	items map[domaincalendar.PropertyID]*domainavailability.Inventory
}

func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{items: make(map[domaincalendar.PropertyID]*domainavailability.Inventory)}
}

func (r *InventoryRepository) Inventory(ctx context.Context, id domaincalendar.PropertyID) (*domainavailability.Inventory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inv, ok := r.items[id]
	if !ok {
		return nil, domainavailability.ErrPropertyNotFound
	}
	return inv, nil
}

func (r *InventoryRepository) Save(ctx context.Context, inv *domainavailability.Inventory) error {
	if !inv.PropertyID.Valid() {
		return domaincalendar.ErrInvalidPropertyID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[inv.PropertyID] = inv
	return nil
}

var (
	_ domainbooking.SessionRepository = (*SessionRepository)(nil)
	_ domainavailability.Repository   = (*InventoryRepository)(nil)
)

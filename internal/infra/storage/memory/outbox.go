package memory

import (
	"context"
	"sync"
	"time"

	appoutbox "stayrent/internal/app/outbox"
)

const defaultOutboxLimit = 10000

type outboxEntry struct {
	record   appoutbox.EventRecord
	attempts int
	next     time.Time
	claimed  bool
}

// Outbox stages records until Flush and then serves them to the relay
// worker. When more than Limit records wait, the oldest are dropped.
type Outbox struct {
	mu     sync.Mutex
	staged []appoutbox.EventRecord
	ready  []*outboxEntry
	Limit  int
	now    func() time.Time
}

func NewOutbox() *Outbox {
	return &Outbox{Limit: defaultOutboxLimit, now: time.Now}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.staged = append(o.staged, record)
	return nil
}

func (o *Outbox) Flush(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := o.now()
	for _, rec := range o.staged {
		o.ready = append(o.ready, &outboxEntry{record: rec, next: now})
	}
	o.staged = nil
	if limit := o.limit(); len(o.ready) > limit {
		o.ready = append([]*outboxEntry(nil), o.ready[len(o.ready)-limit:]...)
	}
	return nil
}

func (o *Outbox) Claim(ctx context.Context, workerID string) (*appoutbox.Claimed, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := o.now()
	for _, e := range o.ready {
		if e.claimed || e.next.After(now) {
			continue
		}
		e.claimed = true
		return &appoutbox.Claimed{EventRecord: e.record, Attempts: e.attempts}, nil
	}
	return nil, nil
}

func (o *Outbox) MarkSent(ctx context.Context, id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, e := range o.ready {
		if e.record.ID == id {
			o.ready = append(o.ready[:i], o.ready[i+1:]...)
			return nil
		}
	}
	return nil
}

func (o *Outbox) MarkFailed(ctx context.Context, id string, next time.Time, reason string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, e := range o.ready {
		if e.record.ID == id {
			e.claimed = false
			e.attempts++
			e.next = next
			return nil
		}
	}
	return nil
}

// Pending counts records that were flushed but not yet sent.
func (o *Outbox) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.ready)
}

func (o *Outbox) limit() int {
	if o.Limit <= 0 {
		return defaultOutboxLimit
	}
	return o.Limit
}

var (
	_ appoutbox.Outbox = (*Outbox)(nil)
	_ appoutbox.Relay  = (*Outbox)(nil)
)

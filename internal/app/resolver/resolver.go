package resolver

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"stayrent/internal/domain/calendar"
	"stayrent/internal/domain/shared/daterange"
)

const DefaultTTL = 5 * time.Minute

// Source fetches one month of a property's calendar. month is always the
// first day of the month.
type Source interface {
	FetchMonth(ctx context.Context, id calendar.PropertyID, month time.Time, applySearchContext bool) (calendar.PropertyCalendar, error)
}

type Request struct {
	PropertyID         calendar.PropertyID
	Anchor             time.Time
	ApplySearchContext bool
}

type Options struct {
	Source   Source
	Cache    Cache
	TTL      time.Duration
	Location *time.Location
	Now      func() time.Time
	Logger   *slog.Logger
}

// Resolver turns (property, month) into a normalized calendar. It never
// fails: anything that goes wrong degrades to an empty calendar, which the
// constraint engine treats as "no information".
type Resolver struct {
	source Source
	cache  Cache
	ttl    time.Duration
	loc    *time.Location
	now    func() time.Time
	logger *slog.Logger
	flight singleflight.Group
}

func New(opts Options) *Resolver {
	r := &Resolver{
		source: opts.Source,
		cache:  opts.Cache,
		ttl:    opts.TTL,
		loc:    opts.Location,
		now:    opts.Now,
		logger: opts.Logger,
	}
	if r.cache == nil {
		r.cache = NewMemoryCache(DefaultCacheSize)
	}
	if r.ttl <= 0 {
		r.ttl = DefaultTTL
	}
	if r.loc == nil {
		r.loc = time.Local
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

func (r *Resolver) Location() *time.Location { return r.loc }

// KeyFor is the cache key a request resolves to.
func (r *Resolver) KeyFor(req Request) Key {
	return Key{
		PropertyID:         req.PropertyID,
		Month:              daterange.MonthKey(r.monthOf(req.Anchor)),
		ApplySearchContext: req.ApplySearchContext,
	}
}

// Resolve returns the calendar of the month containing req.Anchor.
func (r *Resolver) Resolve(ctx context.Context, req Request) calendar.PropertyCalendar {
	if !req.PropertyID.Valid() {
		return calendar.Empty(req.PropertyID)
	}
	month := r.monthOf(req.Anchor)
	key := r.KeyFor(req)

	if entry, ok := r.cached(ctx, key); ok {
		return entry.Calendar
	}

	res, err, shared := r.flight.Do(key.String(), func() (any, error) {
		return r.fetch(ctx, key, month)
	})
	if err != nil {
		r.logger.WarnContext(ctx, "calendar resolve degraded to empty",
			"property_id", int64(req.PropertyID), "month", key.Month, "apply_search_context", key.ApplySearchContext, "shared", shared, "error", err)
		return calendar.Empty(req.PropertyID)
	}
	// the flight result is shared between callers; hand each one its own copy
	return res.(calendar.PropertyCalendar).Normalize()
}

// ResolveRange resolves every month touched by [from, to) and merges them.
// A zero or inverted range resolves the month of from only.
func (r *Resolver) ResolveRange(ctx context.Context, id calendar.PropertyID, from, to time.Time, applySearchContext bool) calendar.PropertyCalendar {
	months := []time.Time{from}
	if dr, err := daterange.New(from, to); err == nil {
		months = dr.Months()
	}
	merged := calendar.Empty(id)
	for _, month := range months {
		merged = merged.Merge(r.Resolve(ctx, Request{PropertyID: id, Anchor: month, ApplySearchContext: applySearchContext}))
	}
	return merged
}

// Invalidate forgets every cached month of id.
func (r *Resolver) Invalidate(ctx context.Context, id calendar.PropertyID) (int, error) {
	n, err := r.cache.InvalidateProperty(ctx, id)
	if err != nil {
		return 0, err
	}
	r.logger.DebugContext(ctx, "calendar cache invalidated", "property_id", int64(id), "entries", n)
	return n, nil
}

// Sweep evicts entries older than the TTL.
func (r *Resolver) Sweep(ctx context.Context) (int, error) {
	return r.cache.Sweep(ctx, r.now().Add(-r.ttl))
}

func (r *Resolver) cached(ctx context.Context, key Key) (Entry, bool) {
	entry, ok, err := r.cache.Get(ctx, key)
	if err != nil {
		r.logger.WarnContext(ctx, "calendar cache read failed", "key", key.String(), "error", err)
		return Entry{}, false
	}
	if !ok || r.now().Sub(entry.FetchedAt) >= r.ttl {
		return Entry{}, false
	}
	return entry, true
}

func (r *Resolver) fetch(ctx context.Context, key Key, month time.Time) (calendar.PropertyCalendar, error) {
	if r.source == nil {
		return calendar.PropertyCalendar{}, errNoSource
	}
	// a caller going away must not abort a fetch other callers are waiting on
	fetchCtx := context.WithoutCancel(ctx)
	cal, err := r.source.FetchMonth(fetchCtx, key.PropertyID, month, key.ApplySearchContext)
	if err != nil {
		return calendar.PropertyCalendar{}, err
	}
	cal.PropertyID = key.PropertyID
	cal = cal.Normalize()
	if err := r.cache.Put(fetchCtx, key, Entry{Calendar: cal, FetchedAt: r.now()}); err != nil {
		r.logger.WarnContext(ctx, "calendar cache write failed", "key", key.String(), "error", err)
	}
	return cal, nil
}

func (r *Resolver) monthOf(anchor time.Time) time.Time {
	if !daterange.IsValid(anchor) {
		anchor = r.now().In(r.loc)
	}
	return daterange.MonthStart(anchor)
}

var errNoSource = errors.New("resolver: no calendar source configured")

package resolver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"stayrent/internal/domain/calendar"
	"stayrent/internal/domain/shared/daterange"
)

func d(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func price(v float64) *float64 { return &v }

type fakeSource struct {
	mu      sync.Mutex
	calls   []string
	err     error
	started chan struct{}
	release chan struct{}
}

func (s *fakeSource) FetchMonth(_ context.Context, id calendar.PropertyID, month time.Time, apply bool) (calendar.PropertyCalendar, error) {
	s.mu.Lock()
	s.calls = append(s.calls, daterange.FormatLocalDate(month))
	first := len(s.calls) == 1
	err := s.err
	s.mu.Unlock()
	if s.started != nil && first {
		close(s.started)
	}
	if s.release != nil {
		<-s.release
	}
	if err != nil {
		return calendar.PropertyCalendar{}, err
	}
	lowest := 100.0
	if apply {
		lowest = 80
	}
	return calendar.PropertyCalendar{
		PropertyID:   id,
		PropertyName: "Villa",
		Days: []calendar.Day{
			{Date: daterange.FormatLocalDate(month) + "T00:00:00Z", LowestPrice: price(lowest), AvailableRoomsCount: 1, RoomPrices: []calendar.RoomPrice{{RoomID: 1, Price: lowest}}},
			{Date: daterange.FormatLocalDate(daterange.AddDays(month, 1)), LowestPrice: price(lowest), AvailableRoomsCount: 0},
		},
	}, nil
}

func (s *fakeSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newResolver(src Source, c *clock) *Resolver {
	return New(Options{
		Source:   src,
		TTL:      time.Minute,
		Location: time.UTC,
		Now:      c.Now,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestResolveAsksForFirstOfMonthAndNormalizes(t *testing.T) {
	src := &fakeSource{}
	r := newResolver(src, &clock{now: d(2024, time.March, 1)})
	cal := r.Resolve(context.Background(), Request{PropertyID: 42, Anchor: d(2024, time.March, 17)})
	if src.calls[0] != "2024-03-01" {
		t.Fatalf("month param = %s", src.calls[0])
	}
	if len(cal.Days) != 2 || cal.Days[0].Date != "2024-03-01" {
		t.Fatalf("days = %+v", cal.Days)
	}
	if cal.Days[1].LowestPrice != nil {
		t.Fatal("zero-availability day must not carry a price")
	}
}

func TestResolveCachesPerKeyUntilTTL(t *testing.T) {
	src := &fakeSource{}
	c := &clock{now: d(2024, time.March, 1)}
	r := newResolver(src, c)
	ctx := context.Background()

	r.Resolve(ctx, Request{PropertyID: 42, Anchor: d(2024, time.March, 3)})
	r.Resolve(ctx, Request{PropertyID: 42, Anchor: d(2024, time.March, 28)})
	if src.callCount() != 1 {
		t.Fatalf("same month should hit cache, calls = %d", src.callCount())
	}

	withContext := r.Resolve(ctx, Request{PropertyID: 42, Anchor: d(2024, time.March, 3), ApplySearchContext: true})
	if src.callCount() != 2 || *withContext.Days[0].LowestPrice != 80 {
		t.Fatalf("search context is a separate key, calls = %d", src.callCount())
	}
	r.Resolve(ctx, Request{PropertyID: 42, Anchor: d(2024, time.April, 3)})
	if src.callCount() != 3 {
		t.Fatalf("another month is another key, calls = %d", src.callCount())
	}

	c.now = c.now.Add(time.Minute)
	r.Resolve(ctx, Request{PropertyID: 42, Anchor: d(2024, time.March, 3)})
	if src.callCount() != 4 {
		t.Fatalf("stale entry must be refetched, calls = %d", src.callCount())
	}
}

func TestResolveDegradesAndDoesNotCacheFailures(t *testing.T) {
	src := &fakeSource{err: errors.New("backend down")}
	r := newResolver(src, &clock{now: d(2024, time.March, 1)})
	ctx := context.Background()

	cal := r.Resolve(ctx, Request{PropertyID: 42, Anchor: d(2024, time.March, 3)})
	if !cal.IsEmpty() || cal.PropertyID != 42 {
		t.Fatalf("expected empty calendar, got %+v", cal)
	}
	src.mu.Lock()
	src.err = nil
	src.mu.Unlock()
	if cal := r.Resolve(ctx, Request{PropertyID: 42, Anchor: d(2024, time.March, 3)}); cal.IsEmpty() {
		t.Fatal("failure must not be cached")
	}
	if src.callCount() != 2 {
		t.Fatalf("calls = %d, want 2", src.callCount())
	}
}

func TestResolveRejectsInvalidProperty(t *testing.T) {
	src := &fakeSource{}
	r := newResolver(src, &clock{now: d(2024, time.March, 1)})
	if cal := r.Resolve(context.Background(), Request{PropertyID: 0, Anchor: d(2024, time.March, 3)}); !cal.IsEmpty() {
		t.Fatal("expected empty calendar")
	}
	if src.callCount() != 0 {
		t.Fatal("backend must not be called for an invalid property")
	}
}

func TestConcurrentResolvesShareOneFetch(t *testing.T) {
	src := &fakeSource{started: make(chan struct{}), release: make(chan struct{})}
	r := newResolver(src, &clock{now: d(2024, time.March, 1)})

	const callers = 8
	var wg sync.WaitGroup
	var nonEmpty atomic.Int32
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cal := r.Resolve(context.Background(), Request{PropertyID: 7, Anchor: d(2024, time.March, 9)})
			if !cal.IsEmpty() {
				nonEmpty.Add(1)
			}
		}()
	}
	<-src.started
	time.Sleep(50 * time.Millisecond)
	close(src.release)
	wg.Wait()

	if src.callCount() != 1 {
		t.Fatalf("fetches = %d, want 1", src.callCount())
	}
	if nonEmpty.Load() != callers {
		t.Fatalf("every caller should get the calendar, got %d", nonEmpty.Load())
	}
}

func TestResolveRangeMergesMonths(t *testing.T) {
	src := &fakeSource{}
	r := newResolver(src, &clock{now: d(2024, time.March, 1)})
	cal := r.ResolveRange(context.Background(), 42, d(2024, time.March, 28), d(2024, time.April, 3), false)
	if src.callCount() != 2 {
		t.Fatalf("calls = %v", src.calls)
	}
	if len(cal.Days) != 4 || cal.Days[2].Date != "2024-04-01" {
		t.Fatalf("days = %+v", cal.Days)
	}
}

func TestInvalidateAndSweep(t *testing.T) {
	src := &fakeSource{}
	c := &clock{now: d(2024, time.March, 1)}
	r := newResolver(src, c)
	ctx := context.Background()
	r.Resolve(ctx, Request{PropertyID: 42, Anchor: d(2024, time.March, 3)})
	r.Resolve(ctx, Request{PropertyID: 42, Anchor: d(2024, time.April, 3)})
	r.Resolve(ctx, Request{PropertyID: 43, Anchor: d(2024, time.March, 3)})

	n, err := r.Invalidate(ctx, 42)
	if err != nil || n != 2 {
		t.Fatalf("Invalidate = %d, %v", n, err)
	}
	c.now = c.now.Add(2 * time.Minute)
	n, err = r.Sweep(ctx)
	if err != nil || n != 1 {
		t.Fatalf("Sweep = %d, %v", n, err)
	}
}

func TestMemoryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(2)
	k := func(id int64) Key { return Key{PropertyID: calendar.PropertyID(id), Month: "2024-03"} }
	_ = c.Put(ctx, k(1), Entry{})
	_ = c.Put(ctx, k(2), Entry{})
	if _, ok, _ := c.Get(ctx, k(1)); !ok {
		t.Fatal("k1 missing")
	}
	_ = c.Put(ctx, k(3), Entry{})
	if _, ok, _ := c.Get(ctx, k(2)); ok {
		t.Fatal("k2 should have been evicted")
	}
	if c.Len() != 2 {
		t.Fatalf("len = %d", c.Len())
	}
}

func TestCachedCalendarsAreNotShared(t *testing.T) {
	src := &fakeSource{}
	r := newResolver(src, &clock{now: d(2024, time.March, 1)})
	ctx := context.Background()
	first := r.Resolve(ctx, Request{PropertyID: 42, Anchor: d(2024, time.March, 3)})
	*first.Days[0].LowestPrice = 1
	first.Days[0].RoomPrices[0].Price = 1
	second := r.Resolve(ctx, Request{PropertyID: 42, Anchor: d(2024, time.March, 3)})
	if *second.Days[0].LowestPrice != 100 || second.Days[0].RoomPrices[0].Price != 100 {
		t.Fatal("callers must not alias cached data")
	}
}

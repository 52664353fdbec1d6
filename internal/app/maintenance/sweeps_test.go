package maintenance

import (
	"context"
	"testing"
	"time"

	"stayrent/internal/app/policies"
)

type sweeper struct{ calls int }

func (s *sweeper) Sweep(context.Context) (int, error) {
	s.calls++
	return 3, nil
}

type idle struct{ cutoff time.Time }

func (i *idle) DeleteIdleBefore(_ context.Context, cutoff time.Time) (int64, error) {
	i.cutoff = cutoff
	return 1, nil
}

func TestSessionSweepUsesTTLCutoff(t *testing.T) {
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	repo := &idle{}
	job := SessionSweep(repo, 24*time.Hour, policies.FixedClock(now), nil)
	if err := job(context.Background()); err != nil {
		t.Fatalf("job: %v", err)
	}
	if want := now.Add(-24 * time.Hour); !repo.cutoff.Equal(want) {
		t.Fatalf("cutoff = %v, want %v", repo.cutoff, want)
	}
}

func TestCalendarCacheSweep(t *testing.T) {
	s := &sweeper{}
	if err := CalendarCacheSweep(s, nil)(context.Background()); err != nil || s.calls != 1 {
		t.Fatalf("err=%v calls=%d", err, s.calls)
	}
}

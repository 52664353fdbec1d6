package maintenance

import (
	"context"
	"log/slog"
	"time"

	"stayrent/internal/app/policies"
)

// Job is one unit of periodic work.
type Job func(ctx context.Context) error

type CacheSweeper interface {
	Sweep(ctx context.Context) (int, error)
}

type IdleSessions interface {
	DeleteIdleBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// CalendarCacheSweep drops calendar entries older than the resolver TTL.
func CalendarCacheSweep(cache CacheSweeper, logger *slog.Logger) Job {
	return func(ctx context.Context) error {
		n, err := cache.Sweep(ctx)
		if err != nil {
			return err
		}
		if n > 0 && logger != nil {
			logger.DebugContext(ctx, "calendar cache swept", "evicted", n)
		}
		return nil
	}
}

// SessionSweep deletes picker sessions untouched for longer than ttl.
func SessionSweep(sessions IdleSessions, ttl time.Duration, clock policies.Clock, logger *slog.Logger) Job {
	if clock == nil {
		clock = policies.SystemClock{}
	}
	return func(ctx context.Context) error {
		n, err := sessions.DeleteIdleBefore(ctx, clock.Now().Add(-ttl))
		if err != nil {
			return err
		}
		if n > 0 && logger != nil {
			logger.InfoContext(ctx, "idle sessions deleted", "count", n, "ttl", ttl.String())
		}
		return nil
	}
}

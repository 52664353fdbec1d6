package policies

import (
	"context"
	"time"

	"stayrent/internal/app/resolver"
	"stayrent/internal/domain/calendar"
)

// CalendarPort is what handlers need from the availability resolver.
type CalendarPort interface {
	Resolve(ctx context.Context, req resolver.Request) calendar.PropertyCalendar
	ResolveRange(ctx context.Context, id calendar.PropertyID, from, to time.Time, applySearchContext bool) calendar.PropertyCalendar
	Location() *time.Location
}

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

var _ CalendarPort = (*resolver.Resolver)(nil)

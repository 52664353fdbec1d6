package calendar

import (
	"context"
	"time"

	"stayrent/internal/app/dto"
	"stayrent/internal/app/policies"
	"stayrent/internal/app/queries"
	"stayrent/internal/app/resolver"
	domaincalendar "stayrent/internal/domain/calendar"
	"stayrent/internal/domain/shared/daterange"
)

const getMonthKey = "calendar.month"

// GetMonthQuery asks for one month of a property's calendar. A zero Month
// means the current month.
type GetMonthQuery struct {
	PropertyID         int64 `validate:"gt=0"`
	Month              time.Time
	ApplySearchContext bool
}

func (GetMonthQuery) Key() string { return getMonthKey }

type GetMonthHandler struct {
	Calendars policies.CalendarPort
	Clock     policies.Clock
}

func (h *GetMonthHandler) Handle(ctx context.Context, q GetMonthQuery) (dto.Calendar, error) {
	anchor := q.Month
	if !daterange.IsValid(anchor) {
		anchor = h.clock().Now().In(h.Calendars.Location())
	}
	req := resolver.Request{
		PropertyID:         domaincalendar.PropertyID(q.PropertyID),
		Anchor:             anchor,
		ApplySearchContext: q.ApplySearchContext,
	}
	cal := h.Calendars.Resolve(ctx, req)
	return dto.MapCalendar(cal, daterange.MonthKey(anchor)), nil
}

func (h *GetMonthHandler) clock() policies.Clock {
	if h.Clock == nil {
		return policies.SystemClock{}
	}
	return h.Clock
}

var _ queries.Handler[GetMonthQuery, dto.Calendar] = (*GetMonthHandler)(nil)

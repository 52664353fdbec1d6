package pricing

import (
	"context"
	"time"

	"stayrent/internal/app/dto"
	"stayrent/internal/app/policies"
	"stayrent/internal/app/queries"
	"stayrent/internal/domain/calendar"
	domainpricing "stayrent/internal/domain/pricing"
	"stayrent/internal/domain/shared/daterange"
)

const quoteKey = "pricing.quote"

type QuoteQuery struct {
	PropertyID         int64     `validate:"gt=0"`
	CheckIn            time.Time `validate:"required"`
	CheckOut           time.Time `validate:"required"`
	ApplySearchContext bool
}

func (QuoteQuery) Key() string { return quoteKey }

type QuoteHandler struct {
	Calendars policies.CalendarPort
}

// Handle prices the stay. An inverted or empty range is not an error: it
// quotes zero nights like the accumulator does.
func (h *QuoteHandler) Handle(ctx context.Context, q QuoteQuery) (dto.Quote, error) {
	id := calendar.PropertyID(q.PropertyID)
	quote := domainpricing.Quote{
		CheckIn:  daterange.FormatLocalDate(q.CheckIn),
		CheckOut: daterange.FormatLocalDate(q.CheckOut),
	}
	if daterange.Compare(q.CheckIn, q.CheckOut) < 0 {
		cal := h.Calendars.ResolveRange(ctx, id, q.CheckIn, q.CheckOut, q.ApplySearchContext)
		quote = domainpricing.Accumulate(q.CheckIn, q.CheckOut, cal.Index())
	}
	return dto.MapQuote(q.PropertyID, quote), nil
}

var _ queries.Handler[QuoteQuery, dto.Quote] = (*QuoteHandler)(nil)

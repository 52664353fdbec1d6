package memory

import (
	"context"
	"fmt"
	"time"

	domainavailability "stayrent/internal/domain/availability"
	domaincalendar "stayrent/internal/domain/calendar"
	"stayrent/internal/domain/shared/daterange"
)

// CalendarSource computes month calendars from local inventories. The
// search-context flag has no meaning here and is ignored.
type CalendarSource struct {
	Inventories domainavailability.Repository
}

func (s CalendarSource) FetchMonth(ctx context.Context, id domaincalendar.PropertyID, month time.Time, _ bool) (domaincalendar.PropertyCalendar, error) {
	inv, err := s.Inventories.Inventory(ctx, id)
	if err != nil {
		return domaincalendar.PropertyCalendar{}, fmt.Errorf("calendar month %s: %w", daterange.MonthKey(month), err)
	}
	return inv.MonthCalendar(month), nil
}

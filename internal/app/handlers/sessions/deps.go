package sessions

import (
	"context"
	"log/slog"
	"time"

	"stayrent/internal/app/dto"
	"stayrent/internal/app/outbox"
	"stayrent/internal/app/policies"
	"stayrent/internal/app/resolver"
	"stayrent/internal/domain/booking"
	"stayrent/internal/domain/calendar"
	"stayrent/internal/domain/pricing"
	"stayrent/internal/domain/shared/daterange"
)

// Deps is shared by every session handler.
type Deps struct {
	Sessions  booking.SessionRepository
	Calendars policies.CalendarPort
	Outbox    outbox.Outbox
	Encoder   outbox.EventEncoder
	Clock     policies.Clock
	Logger    *slog.Logger
}

func (d Deps) now() time.Time {
	if d.Clock == nil {
		return time.Now()
	}
	return d.Clock.Now()
}

func (d Deps) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

func (d Deps) today() time.Time {
	return booking.Today(d.now(), d.Calendars.Location())
}

func (d Deps) load(ctx context.Context, id string) (*booking.Session, error) {
	return d.Sessions.ByID(ctx, booking.SessionID(id))
}

// persist saves the session and stages its events for publication. Events
// are taken off the aggregate before the save so no repository ever stores
// them. A staging failure after a successful save is logged: the state
// change stands and only its notification is lost.
func (d Deps) persist(ctx context.Context, s *booking.Session) error {
	evs := s.PullEvents()
	if err := d.Sessions.Save(ctx, s); err != nil {
		return err
	}
	if err := outbox.Record(ctx, d.Outbox, d.Encoder, evs); err != nil {
		d.logger().WarnContext(ctx, "session events not recorded", "session_id", string(s.ID), "events", len(evs), "error", err)
		return nil
	}
	for _, ev := range evs {
		d.logger().DebugContext(ctx, "session event recorded", "session_id", string(s.ID), "event", ev.EventName())
	}
	return nil
}

func (d Deps) monthCalendar(ctx context.Context, s *booking.Session, anchor time.Time) calendar.PropertyCalendar {
	return d.Calendars.Resolve(ctx, resolver.Request{
		PropertyID:         s.PropertyID,
		Anchor:             anchor,
		ApplySearchContext: s.ApplySearchContext,
	})
}

// render builds the picker view of s for the displayed month, or for month
// when it is set.
func (d Deps) render(ctx context.Context, s *booking.Session, month time.Time) dto.Session {
	if !daterange.IsValid(month) {
		month = s.Month
	}
	month = daterange.MonthStart(month)
	cal := d.monthCalendar(ctx, s, month)
	idx := cal.Index()
	today := d.today()

	view := dto.Session{
		ID:                    string(s.ID),
		PropertyID:            int64(s.PropertyID),
		PropertyName:          cal.PropertyName,
		ApplySearchContext:    s.ApplySearchContext,
		Month:                 daterange.MonthKey(month),
		CheckInPickerOpen:     s.CheckInPickerOpen,
		CheckOutPickerOpen:    s.CheckOutPickerOpen,
		CheckOutPickerEnabled: s.HasCheckIn(),
		Version:               s.Version,
		UpdatedAt:             s.UpdatedAt,
	}
	if s.HasCheckIn() {
		view.CheckIn = daterange.FormatLocalDate(s.CheckIn)
	}
	if s.HasCheckOut() {
		view.CheckOut = daterange.FormatLocalDate(s.CheckOut)
	}

	for _, date := range daterange.MonthDates(month) {
		day := dto.SessionDay{
			Date:             daterange.FormatLocalDate(date),
			CheckInDisabled:  booking.CheckInDisabled(date, today, idx),
			CheckOutDisabled: booking.CheckOutDisabled(date, s.CheckIn, idx),
			InRange:          inRange(s, date),
		}
		if known, ok := idx.Day(date); ok {
			count := known.AvailableRoomsCount
			day.AvailableRoomsCount = &count
			day.LowestPrice = known.LowestPrice
			if room, ok := known.LowestRoom(); ok {
				day.Seasonal = room.IsSeasonalRate
			}
		}
		view.Days = append(view.Days, day)
	}

	if first, last, ok := booking.CheckOutWindow(s.CheckIn); ok {
		view.CheckOutWindow = &dto.DateWindow{
			First: daterange.FormatLocalDate(first),
			Last:  daterange.FormatLocalDate(last),
		}
		window := d.Calendars.ResolveRange(ctx, s.PropertyID, first, daterange.AddDays(last, 1), s.ApplySearchContext)
		view.CheckoutAvailable = len(booking.SelectableCheckOuts(s.CheckIn, window.Index())) > 0
	}

	if stay, ok := s.Stay(); ok {
		stayCal := d.Calendars.ResolveRange(ctx, s.PropertyID, stay.CheckIn, stay.CheckOut, s.ApplySearchContext)
		quote := dto.MapQuote(int64(s.PropertyID), pricing.Accumulate(stay.CheckIn, stay.CheckOut, stayCal.Index()))
		view.Quote = &quote
	}
	return view
}

func inRange(s *booking.Session, date time.Time) bool {
	if !s.HasCheckIn() {
		return false
	}
	if !s.HasCheckOut() {
		return daterange.SameDay(date, s.CheckIn)
	}
	return daterange.Compare(date, s.CheckIn) >= 0 && daterange.Compare(date, s.CheckOut) <= 0
}

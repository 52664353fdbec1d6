package booking

import (
	"time"

	"stayrent/internal/domain/calendar"
	"stayrent/internal/domain/shared/daterange"
)

// MaxStayMonths caps how far after check-in a check-out may fall.
const MaxStayMonths = 1

// CheckInDisabled decides whether date cannot be picked as check-in: it lies
// before today, or the calendar knows it has no room left. Dates the calendar
// does not know about stay selectable.
func CheckInDisabled(date, today time.Time, lookup calendar.Lookup) bool {
	if !daterange.IsValid(date) {
		return true
	}
	if daterange.IsValid(today) && daterange.Compare(date, today) < 0 {
		return true
	}
	return calendar.Blocked(lookup, date)
}

// CheckOutDisabled decides whether date cannot be picked as check-out for the
// given check-in. Without a check-in every date is disabled. A stay is at
// least one night and at most MaxStayMonths calendar months long.
func CheckOutDisabled(date, checkIn time.Time, lookup calendar.Lookup) bool {
	if !daterange.IsValid(checkIn) || !daterange.IsValid(date) {
		return true
	}
	if daterange.Compare(date, checkIn) <= 0 {
		return true
	}
	if daterange.Compare(date, LatestCheckOut(checkIn)) > 0 {
		return true
	}
	return calendar.Blocked(lookup, date)
}

// LatestCheckOut is the last date the check-out picker may offer.
func LatestCheckOut(checkIn time.Time) time.Time {
	return daterange.AddMonths(daterange.Normalize(checkIn), MaxStayMonths)
}

// CheckOutWindow is the inclusive span the check-out picker may enable,
// before availability is taken into account.
func CheckOutWindow(checkIn time.Time) (first, last time.Time, ok bool) {
	if !daterange.IsValid(checkIn) {
		return time.Time{}, time.Time{}, false
	}
	start := daterange.Normalize(checkIn)
	return daterange.AddDays(start, 1), LatestCheckOut(start), true
}

// SelectableCheckOuts lists every enabled check-out date for checkIn. An empty
// result is a valid answer meaning no checkout can be offered.
func SelectableCheckOuts(checkIn time.Time, lookup calendar.Lookup) []time.Time {
	first, last, ok := CheckOutWindow(checkIn)
	if !ok {
		return nil
	}
	var out []time.Time
	for day := first; daterange.Compare(day, last) <= 0; day = daterange.AddDays(day, 1) {
		if !CheckOutDisabled(day, checkIn, lookup) {
			out = append(out, day)
		}
	}
	return out
}

// Today returns the current calendar date in loc.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc != nil {
		now = now.In(loc)
	}
	return daterange.Normalize(now)
}

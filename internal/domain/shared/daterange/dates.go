package daterange

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Layout is the wire and storage format of a pure calendar date.
const Layout = "2006-01-02"

const monthLayout = "2006-01"

var ErrInvalidDate = errors.New("daterange: invalid calendar date")

// Normalize strips the time of day, keeping the date as seen in t's location.
func Normalize(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return StartOfDay(y, m, d, t.Location())
}

// StartOfDay is the first instant of the civil date y-m-d in loc. Out of
// range days roll over like time.Date. In zones where DST begins at
// midnight (America/Havana, America/Santiago) 00:00 does not exist on the
// transition date and the day starts at 01:00.
func StartOfDay(y int, m time.Month, d int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, m, d = time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Date()
	t := time.Date(y, m, d, 0, 0, 0, 0, loc)
	if onDate(t, y, m, d) {
		return t
	}
	// midnight fell into the gap and resolved to the previous evening
	if _, end := t.ZoneBounds(); end.After(t) && onDate(end, y, m, d) {
		return end
	}
	for i := 0; i < 24*4 && !onDate(t, y, m, d); i++ {
		t = t.Add(15 * time.Minute)
	}
	return t
}

func onDate(t time.Time, y int, m time.Month, d int) bool {
	ty, tm, td := t.Date()
	return ty == y && tm == m && td == d
}

func isStartOfDay(t time.Time) bool {
	return t.Equal(Normalize(t))
}

// IsValid reports whether t carries a date at all. The zero time stands in
// for a missing or malformed form value.
func IsValid(t time.Time) bool {
	return !t.IsZero()
}

// FormatLocalDate renders the calendar date of t in its own location.
func FormatLocalDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(Layout)
}

// ParseISODate cuts an ISO-8601 timestamp down to its date portion.
func ParseISODate(raw string) string {
	raw = strings.TrimSpace(raw)
	if idx := strings.IndexByte(raw, 'T'); idx >= 0 {
		raw = raw[:idx]
	}
	return raw
}

// FromDateString parses a YYYY-MM-DD value (or an ISO timestamp, truncated)
// into midnight of that day in loc. A nil loc means time.Local.
func FromDateString(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	value := ParseISODate(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidDate)
	}
	civil, err := time.Parse(Layout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	y, m, d := civil.Date()
	return StartOfDay(y, m, d, loc), nil
}

// ParseMonth accepts YYYY-MM or any value FromDateString accepts and returns
// the first day of that month in loc.
func ParseMonth(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	value := ParseISODate(raw)
	if civil, err := time.Parse(monthLayout, value); err == nil {
		return StartOfDay(civil.Year(), civil.Month(), 1, loc), nil
	}
	t, err := FromDateString(value, loc)
	if err != nil {
		return time.Time{}, err
	}
	return MonthStart(t), nil
}

// AddMonths adds n calendar months to t. Days past the end of the target
// month are clamped to its last day, so Jan 31 + 1 month is Feb 28/29.
// A calendar date stays a calendar date; other instants keep their clock.
func AddMonths(t time.Time, n int) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	target := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	if last := DaysIn(target.Year(), target.Month()); d > last {
		d = last
	}
	if isStartOfDay(t) {
		return StartOfDay(target.Year(), target.Month(), d, t.Location())
	}
	return time.Date(target.Year(), target.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// AddDays moves t by n calendar days. A calendar date lands on the start of
// the target day; other instants keep their wall clock.
func AddDays(t time.Time, n int) time.Time {
	if t.IsZero() {
		return t
	}
	if isStartOfDay(t) {
		y, m, d := t.Date()
		return StartOfDay(y, m, d+n, t.Location())
	}
	return t.AddDate(0, 0, n)
}

func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func MonthStart(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, _ := t.Date()
	return StartOfDay(y, m, 1, t.Location())
}

// MonthKey identifies the calendar month of t, e.g. "2024-03".
func MonthKey(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(monthLayout)
}

// MonthDates lists every day of the month containing t.
func MonthDates(t time.Time) []time.Time {
	if t.IsZero() {
		return nil
	}
	start := MonthStart(t)
	n := DaysIn(start.Year(), start.Month())
	out := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, AddDays(start, i))
	}
	return out
}

// Compare orders two instants by calendar date only, each read in its own
// location. It returns -1, 0 or +1.
func Compare(a, b time.Time) int {
	da, db := dayNumber(a), dayNumber(b)
	switch {
	case da < db:
		return -1
	case da > db:
		return 1
	default:
		return 0
	}
}

func SameDay(a, b time.Time) bool {
	return Compare(a, b) == 0
}

// DaysBetween counts calendar days from a to b; negative when b is earlier.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

func dayNumber(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

package calendar

import (
	"errors"
	"sort"
	"time"

	"stayrent/internal/domain/shared/daterange"
)

var ErrInvalidPropertyID = errors.New("calendar: property id must be positive")

type PropertyID int64

func (id PropertyID) Valid() bool { return id > 0 }

// RoomPrice is the nightly price one room would be sold at on a given day.
type RoomPrice struct {
	RoomID         int64
	Price          float64
	IsSeasonalRate bool
}

// Day is the booking state of one calendar date for a property.
// A nil LowestPrice means no room can be booked that day.
type Day struct {
	Date                string
	LowestPrice         *float64
	AvailableRoomsCount int
	RoomPrices          []RoomPrice
}

// Priced reports whether the day contributes to a stay total.
func (d Day) Priced() bool {
	return d.LowestPrice != nil
}

// Blocked reports a fully booked or blocked day.
func (d Day) Blocked() bool {
	return d.AvailableRoomsCount == 0
}

// LowestRoom returns the room entry that produced LowestPrice.
func (d Day) LowestRoom() (RoomPrice, bool) {
	if len(d.RoomPrices) == 0 {
		return RoomPrice{}, false
	}
	best := d.RoomPrices[0]
	for _, rp := range d.RoomPrices[1:] {
		if rp.Price < best.Price {
			best = rp
		}
	}
	return best, true
}

// PropertyCalendar is one resolved month (or merged months) of a property.
type PropertyCalendar struct {
	PropertyID   PropertyID
	PropertyName string
	Days         []Day
}

// Empty is the degraded value handed out when nothing could be resolved.
func Empty(id PropertyID) PropertyCalendar {
	return PropertyCalendar{PropertyID: id}
}

func (c PropertyCalendar) IsEmpty() bool {
	return len(c.Days) == 0
}

// Normalize enforces the calendar invariants on data received from the
// backend: date keys are pure YYYY-MM-DD, days are ascending and unique,
// a day without rooms has no price, and a priced day carries the minimum
// of its room prices.
func (c PropertyCalendar) Normalize() PropertyCalendar {
	out := PropertyCalendar{PropertyID: c.PropertyID, PropertyName: c.PropertyName}
	if len(c.Days) == 0 {
		return out
	}
	seen := make(map[string]struct{}, len(c.Days))
	days := make([]Day, 0, len(c.Days))
	for _, day := range c.Days {
		key := daterange.ParseISODate(day.Date)
		if _, err := time.Parse(daterange.Layout, key); err != nil {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		days = append(days, normalizeDay(day, key))
	}
	sort.SliceStable(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	out.Days = days
	return out
}

func normalizeDay(day Day, key string) Day {
	day.Date = key
	day.RoomPrices = append([]RoomPrice(nil), day.RoomPrices...)
	if day.AvailableRoomsCount < 0 {
		day.AvailableRoomsCount = 0
	}
	if day.AvailableRoomsCount == 0 {
		day.LowestPrice = nil
		return day
	}
	if room, ok := day.LowestRoom(); ok {
		price := room.Price
		day.LowestPrice = &price
	} else if day.LowestPrice != nil {
		price := *day.LowestPrice
		day.LowestPrice = &price
	}
	return day
}

// Merge appends the days of other calendars of the same property and
// re-normalizes. Calendars of other properties are ignored.
func (c PropertyCalendar) Merge(others ...PropertyCalendar) PropertyCalendar {
	merged := PropertyCalendar{PropertyID: c.PropertyID, PropertyName: c.PropertyName}
	merged.Days = append(merged.Days, c.Days...)
	for _, other := range others {
		if other.PropertyID != c.PropertyID {
			continue
		}
		if merged.PropertyName == "" {
			merged.PropertyName = other.PropertyName
		}
		merged.Days = append(merged.Days, other.Days...)
	}
	return merged.Normalize()
}

// Index builds a date-keyed view for repeated lookups.
func (c PropertyCalendar) Index() Index {
	idx := Index{days: make(map[string]Day, len(c.Days))}
	for _, day := range c.Days {
		key := daterange.ParseISODate(day.Date)
		if _, exists := idx.days[key]; exists {
			continue
		}
		idx.days[key] = day
	}
	return idx
}

// Lookup answers "what does the calendar say about this date". Callers
// must treat a miss as unknown, never as an error.
type Lookup interface {
	Day(date time.Time) (Day, bool)
}

type Index struct {
	days map[string]Day
}

func (i Index) Day(date time.Time) (Day, bool) {
	if !daterange.IsValid(date) || i.days == nil {
		return Day{}, false
	}
	day, ok := i.days[daterange.FormatLocalDate(date)]
	return day, ok
}

func (i Index) Len() int {
	return len(i.days)
}

// Blocked is true only for a known day with zero rooms available. Unknown
// days are not blocked.
func Blocked(lookup Lookup, date time.Time) bool {
	if lookup == nil {
		return false
	}
	day, ok := lookup.Day(date)
	return ok && day.Blocked()
}

var _ Lookup = Index{}

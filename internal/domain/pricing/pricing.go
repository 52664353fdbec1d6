package pricing

import (
	"time"

	"stayrent/internal/domain/calendar"
	"stayrent/internal/domain/shared/daterange"
)

// NightlyLine is one charged night of a stay.
type NightlyLine struct {
	Date     string
	Price    float64
	Seasonal bool
}

// Quote is the total price of a stay against a resolved calendar.
type Quote struct {
	CheckIn       string
	CheckOut      string
	Nights        int
	Lines         []NightlyLine
	UnpricedDates []string
	Total         float64
}

// Complete reports whether every night of the stay had a price.
func (q Quote) Complete() bool {
	return q.Nights > 0 && len(q.UnpricedDates) == 0
}

// Accumulate sums the lowest nightly price of every night in the half-open
// range [checkIn, checkOut). The checkout date itself is not charged. Nights
// missing from the calendar or without a price contribute nothing, so a gap
// in the backend data still yields a partial preview. Invalid dates or an
// empty range produce a zero quote.
func Accumulate(checkIn, checkOut time.Time, lookup calendar.Lookup) Quote {
	dr, err := daterange.New(checkIn, checkOut)
	if err != nil {
		return Quote{}
	}
	quote := Quote{
		CheckIn:  daterange.FormatLocalDate(dr.CheckIn),
		CheckOut: daterange.FormatLocalDate(dr.CheckOut),
	}
	for _, night := range dr.Dates() {
		quote.Nights++
		key := daterange.FormatLocalDate(night)
		day, ok := dayFor(lookup, night)
		if !ok || !day.Priced() {
			quote.UnpricedDates = append(quote.UnpricedDates, key)
			continue
		}
		line := NightlyLine{Date: key, Price: *day.LowestPrice}
		if room, ok := day.LowestRoom(); ok {
			line.Seasonal = room.IsSeasonalRate
		}
		quote.Lines = append(quote.Lines, line)
		quote.Total += line.Price
	}
	if quote.Total < 0 {
		quote.Total = 0
	}
	return quote
}

// Total is Accumulate reduced to the stay total.
func Total(checkIn, checkOut time.Time, lookup calendar.Lookup) float64 {
	return Accumulate(checkIn, checkOut, lookup).Total
}

func dayFor(lookup calendar.Lookup, date time.Time) (calendar.Day, bool) {
	if lookup == nil {
		return calendar.Day{}, false
	}
	return lookup.Day(date)
}

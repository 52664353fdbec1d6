package daterange

import (
	"errors"
	"time"
)

var (
	ErrInvalidRange = errors.New("daterange: checkout must be after checkin")
)

// DateRange represents a half-open interval of nights [checkIn, checkOut).
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// New normalizes both ends to calendar dates and validates the range.
func New(checkIn, checkOut time.Time) (DateRange, error) {
	dr := DateRange{CheckIn: Normalize(checkIn), CheckOut: Normalize(checkOut)}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

func (dr DateRange) Validate() error {
	if !IsValid(dr.CheckIn) || !IsValid(dr.CheckOut) {
		return ErrInvalidRange
	}
	if Compare(dr.CheckOut, dr.CheckIn) <= 0 {
		return ErrInvalidRange
	}
	return nil
}

// Nights counts calendar days, so DST transitions inside the range do not
// shorten or lengthen the stay.
func (dr DateRange) Nights() int {
	if dr.Validate() != nil {
		return 0
	}
	return DaysBetween(dr.CheckIn, dr.CheckOut)
}

// Dates lists every charged night: CheckIn up to but excluding CheckOut.
func (dr DateRange) Dates() []time.Time {
	n := dr.Nights()
	if n == 0 {
		return nil
	}
	start := Normalize(dr.CheckIn)
	out := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, AddDays(start, i))
	}
	return out
}

func (dr DateRange) Overlaps(other DateRange) bool {
	return Compare(dr.CheckIn, other.CheckOut) < 0 && Compare(other.CheckIn, dr.CheckOut) < 0
}

func (dr DateRange) ContainsDate(t time.Time) bool {
	return Compare(t, dr.CheckIn) >= 0 && Compare(t, dr.CheckOut) < 0
}

// Months returns the first day of every month touched by the nights of the range.
func (dr DateRange) Months() []time.Time {
	if dr.Validate() != nil {
		return nil
	}
	last := AddDays(Normalize(dr.CheckOut), -1)
	var out []time.Time
	for m := MonthStart(dr.CheckIn); Compare(m, last) <= 0; m = AddMonths(m, 1) {
		out = append(out, m)
	}
	return out
}

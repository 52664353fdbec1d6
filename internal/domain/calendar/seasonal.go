package calendar

import (
	"time"

	"stayrent/internal/domain/shared/daterange"
)

type RateScope string

const (
	ScopeRoom     RateScope = "room"
	ScopeProperty RateScope = "property"
)

// SeasonalRate overrides the base nightly price of a room (or of every room
// of a property) between StartDate and EndDate, both inclusive.
type SeasonalRate struct {
	Name       string
	StartDate  time.Time
	EndDate    time.Time
	FixedPrice float64
	AppliesTo  RateScope
	RoomID     int64
}

// Covers reports whether the rate prices roomID on date.
func (r SeasonalRate) Covers(date time.Time, roomID int64) bool {
	if !daterange.IsValid(date) || !daterange.IsValid(r.StartDate) || !daterange.IsValid(r.EndDate) {
		return false
	}
	if daterange.Compare(date, r.StartDate) < 0 || daterange.Compare(date, r.EndDate) > 0 {
		return false
	}
	switch r.AppliesTo {
	case ScopeProperty:
		return true
	case ScopeRoom:
		return r.RoomID == roomID
	default:
		return false
	}
}

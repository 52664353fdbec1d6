package availability

import (
	"context"
	"errors"
	"time"

	"stayrent/internal/domain/calendar"
	"stayrent/internal/domain/shared/daterange"
)

var (
	ErrOverlappingRange = errors.New("availability: range overlaps with an existing block")
	ErrUnknownRoom      = errors.New("availability: block references an unknown room")
	ErrPropertyNotFound = errors.New("availability: property not found")
)

type BlockReason string

const (
	ReasonBooking     BlockReason = "BOOKING"
	ReasonHostBlock   BlockReason = "HOST_BLOCK"
	ReasonMaintenance BlockReason = "MAINTENANCE"
)

// Block takes one unit of a room (or, with RoomID 0, every unit of every
// room) out of sale for the nights of Range.
type Block struct {
	RoomID    int64
	Range     daterange.DateRange
	Reason    BlockReason
	Reference string
}

type Room struct {
	ID        int64
	Name      string
	BasePrice float64
	Units     int
}

// Inventory is everything needed to compute a property's calendar days
// locally: rooms, seasonal rates and blocks.
type Inventory struct {
	PropertyID    calendar.PropertyID
	Name          string
	Rooms         []Room
	SeasonalRates []calendar.SeasonalRate
	Blocks        []Block
}

type Repository interface {
	Inventory(ctx context.Context, id calendar.PropertyID) (*Inventory, error)
}

// AddBlock appends a block. Maintenance and host blocks may not overlap an
// existing block of the same room.
func (inv *Inventory) AddBlock(b Block) error {
	if b.Reason == "" {
		b.Reason = ReasonHostBlock
	}
	if b.RoomID != 0 && !inv.hasRoom(b.RoomID) {
		return ErrUnknownRoom
	}
	if err := b.Range.Validate(); err != nil {
		return err
	}
	if b.Reason != ReasonBooking {
		for _, existing := range inv.Blocks {
			if existing.RoomID == b.RoomID && existing.Range.Overlaps(b.Range) {
				return ErrOverlappingRange
			}
		}
	}
	inv.Blocks = append(inv.Blocks, b)
	return nil
}

// MonthCalendar computes every day of the month containing anchor.
func (inv *Inventory) MonthCalendar(anchor time.Time) calendar.PropertyCalendar {
	cal := calendar.PropertyCalendar{PropertyID: inv.PropertyID, PropertyName: inv.Name}
	for _, date := range daterange.MonthDates(anchor) {
		cal.Days = append(cal.Days, inv.Day(date))
	}
	return cal.Normalize()
}

// Day prices each room with free units on date. A seasonal rate scoped to
// the room wins over one scoped to the whole property.
func (inv *Inventory) Day(date time.Time) calendar.Day {
	day := calendar.Day{Date: daterange.FormatLocalDate(date)}
	for _, room := range inv.Rooms {
		blocked, whole := inv.blockedUnits(room.ID, date)
		free := room.Units - blocked
		if whole || free <= 0 {
			continue
		}
		day.AvailableRoomsCount += free
		price, seasonal := inv.priceFor(room, date)
		day.RoomPrices = append(day.RoomPrices, calendar.RoomPrice{RoomID: room.ID, Price: price, IsSeasonalRate: seasonal})
	}
	if room, ok := day.LowestRoom(); ok {
		lowest := room.Price
		day.LowestPrice = &lowest
	}
	return day
}

func (inv *Inventory) priceFor(room Room, date time.Time) (float64, bool) {
	var propertyRate *calendar.SeasonalRate
	for i := range inv.SeasonalRates {
		rate := inv.SeasonalRates[i]
		if !rate.Covers(date, room.ID) {
			continue
		}
		if rate.AppliesTo == calendar.ScopeRoom {
			return rate.FixedPrice, true
		}
		if propertyRate == nil {
			propertyRate = &inv.SeasonalRates[i]
		}
	}
	if propertyRate != nil {
		return propertyRate.FixedPrice, true
	}
	return room.BasePrice, false
}

// blockedUnits counts units of roomID taken on date; whole is set when a
// property-wide block covers the date.
func (inv *Inventory) blockedUnits(roomID int64, date time.Time) (units int, whole bool) {
	for _, block := range inv.Blocks {
		if !block.Range.ContainsDate(date) {
			continue
		}
		if block.RoomID == 0 {
			return 0, true
		}
		if block.RoomID == roomID {
			units++
		}
	}
	return units, false
}

func (inv *Inventory) hasRoom(id int64) bool {
	for _, room := range inv.Rooms {
		if room.ID == id {
			return true
		}
	}
	return false
}
